package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-practice/track"
)

type recorder struct {
	mistakes []string
	correct  int
}

func (r *recorder) OnMistake(key string) { r.mistakes = append(r.mistakes, key) }
func (r *recorder) OnCorrectChord()      { r.correct++ }

func sequence() track.ChordSequence {
	return track.ChordSequence{
		Chords: [][]string{{"C4", "E4", "G4"}, {"D4"}},
		Times:  []float64{1, 2},
	}
}

func TestChordCompletesWhenAllKeysHeld(t *testing.T) {
	rec := &recorder{}
	tr := New(sequence(), rec)

	tr.KeyDown("E4")
	tr.KeyDown("C4")
	assert.Equal(t, 0, rec.correct)
	assert.Equal(t, []string{"C4", "E4"}, tr.Held())

	tr.KeyDown("G4")
	assert.Equal(t, 1, rec.correct)
	assert.Equal(t, 1, tr.Current())
	assert.Equal(t, []string{"D4"}, tr.Required())
	assert.Empty(t, tr.Held())
	assert.Empty(t, rec.mistakes)
}

func TestWrongKeyIsMistake(t *testing.T) {
	rec := &recorder{}
	tr := New(sequence(), rec)

	tr.KeyDown("C#4")
	tr.KeyDown("C#4")

	assert.Equal(t, []string{"C#4", "C#4"}, rec.mistakes)
	assert.Equal(t, 0, tr.Current())
}

func TestReleasedKeyMustBePressedAgain(t *testing.T) {
	rec := &recorder{}
	tr := New(sequence(), rec)

	tr.KeyDown("C4")
	tr.KeyDown("E4")
	tr.KeyUp("C4")
	tr.KeyDown("G4")
	assert.Equal(t, 0, rec.correct)

	tr.KeyDown("C4")
	assert.Equal(t, 1, rec.correct)
}

func TestDoneIgnoresInput(t *testing.T) {
	rec := &recorder{}
	tr := New(sequence(), rec)
	for _, k := range []string{"C4", "E4", "G4", "D4"} {
		tr.KeyDown(k)
	}

	assert.True(t, tr.Done())
	assert.Nil(t, tr.Required())

	tr.KeyDown("A0")
	assert.Empty(t, rec.mistakes)
	assert.Equal(t, 2, rec.correct)
}

func TestReset(t *testing.T) {
	rec := &recorder{}
	tr := New(sequence(), rec)
	tr.KeyDown("C4")
	tr.KeyDown("E4")
	tr.KeyDown("G4")
	tr.KeyDown("D4")

	tr.Reset()
	assert.Equal(t, 0, tr.Current())
	assert.False(t, tr.Done())
	assert.Empty(t, tr.Held())

	tr.KeyDown("D4")
	assert.Equal(t, []string{"D4"}, rec.mistakes)
}


func TestNilSignalsIsSafe(t *testing.T) {
	tr := New(sequence(), nil)
	tr.KeyDown("B4")
	tr.KeyDown("D4")
	assert.Equal(t, 0, tr.Current())
}
