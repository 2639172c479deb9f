package track

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeName(code uint8) string {
	return fmt.Sprintf("k%d", code)
}

func TestMapChordsNamesKeysAndKeepsTimes(t *testing.T) {
	raw := []RawChord{
		NewRawChord(0.5, 60, 64, 67),
		NewRawChord(1.0, 62),
		NewRawChord(1.0, 65, 69),
	}

	seq, err := MapChords(raw, codeName)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(3, seq.Len())
	assert.Equal([]string{"k60", "k64", "k67"}, seq.Chords[0])
	assert.Equal([]string{"k62"}, seq.Chords[1])
	assert.Equal([]float64{0.5, 1.0, 1.0}, seq.Times)
}

func TestMapChordsRejectsMalformed(t *testing.T) {
	nan := math.NaN()
	neg := -1.0
	cases := map[string][]RawChord{
		"missing notes": {{Time: new(float64)}},
		"missing time":  {{Notes: []uint8{60}}},
		"no notes":      {NewRawChord(1)},
		"nan time":      {{Notes: []uint8{60}, Time: &nan}},
		"negative time": {{Notes: []uint8{60}, Time: &neg}},
		"out of order":  {NewRawChord(2, 60), NewRawChord(1, 62)},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := MapChords(raw, codeName)
			assert.ErrorIs(t, err, ErrMalformedChord)
		})
	}
}

func TestRawChordDecodingDetectsMissingFields(t *testing.T) {
	var raw []RawChord
	require.NoError(t, json.Unmarshal([]byte(`[{"notes":[60],"time":0},{"time":1}]`), &raw))

	_, err := MapChords(raw, codeName)
	require.ErrorIs(t, err, ErrMalformedChord)
	assert.Contains(t, err.Error(), "chord 1: missing notes")
}

func TestRawChordJSON(t *testing.T) {
	b, err := json.Marshal([]RawChord{NewRawChord(0.5, 60, 64), {Time: nil}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"notes":[60,64],"time":0.5},{"notes":null,"time":null}]`, string(b))

	var back []RawChord
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, Codes{60, 64}, back[0].Notes)
	assert.Nil(t, back[1].Notes)
}

func TestRawChordRejectsNonArrayNotes(t *testing.T) {
	for name, body := range map[string]string{
		"string":       `[{"notes":"PEBD","time":1}]`,
		"fraction":     `[{"notes":[60.5],"time":1}]`,
		"out of range": `[{"notes":[60,128],"time":1}]`,
		"negative":     `[{"notes":[-1],"time":1}]`,
		"object":       `[{"notes":{"a":60},"time":1}]`,
	} {
		t.Run(name, func(t *testing.T) {
			var raw []RawChord
			err := json.Unmarshal([]byte(body), &raw)
			require.ErrorIs(t, err, ErrMalformedChord)
		})
	}

	var raw []RawChord
	require.NoError(t, json.Unmarshal([]byte(`[{"notes":[0,127],"time":1},{"notes":null,"time":2}]`), &raw))
	assert.Equal(t, Codes{0, 127}, raw[0].Notes)
	assert.Nil(t, raw[1].Notes)
}
