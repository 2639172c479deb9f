package track

import (
	"fmt"
	"math"
)

// ChordSequence is the ordered list of chords to play, each a set of key
// names, with the scheduled time of each chord in the parallel Times slice.
type ChordSequence struct {
	Chords [][]string
	Times  []float64
}

// Len returns the number of chords
func (cs ChordSequence) Len() int {
	return len(cs.Chords)
}

// MapChords converts wire chords into a ChordSequence, naming every MIDI code
// with keyName. Chords missing notes or time, with no notes, with a non-finite or negative
// time, or scheduled before the previous chord are rejected with
// ErrMalformedChord.
func MapChords(raw []RawChord, keyName func(uint8) string) (ChordSequence, error) {
	seq := ChordSequence{
		Chords: make([][]string, 0, len(raw)),
		Times:  make([]float64, 0, len(raw)),
	}

	prev := 0.0
	for i, rc := range raw {
		if rc.Notes == nil {
			return ChordSequence{}, fmt.Errorf("chord %d: missing notes: %w", i, ErrMalformedChord)
		}
		if len(rc.Notes) == 0 {
			return ChordSequence{}, fmt.Errorf("chord %d: no notes: %w", i, ErrMalformedChord)
		}
		if rc.Time == nil {
			return ChordSequence{}, fmt.Errorf("chord %d: missing time: %w", i, ErrMalformedChord)
		}
		t := *rc.Time
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return ChordSequence{}, fmt.Errorf("chord %d: invalid time %v: %w", i, t, ErrMalformedChord)
		}
		if t < prev {
			return ChordSequence{}, fmt.Errorf("chord %d: time %v before previous chord at %v: %w", i, t, prev, ErrMalformedChord)
		}
		prev = t

		keys := make([]string, len(rc.Notes))
		for j, code := range rc.Notes {
			keys[j] = keyName(code)
		}
		seq.Chords = append(seq.Chords, keys)
		seq.Times = append(seq.Times, t)
	}

	return seq, nil
}
