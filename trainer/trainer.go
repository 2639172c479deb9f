// Package trainer matches live key presses against a chord sequence.
package trainer

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"go-practice/track"
)

// ChordTrainer walks a chord sequence. A key that is not part of the active
// chord is a mistake; once every key of the active chord is held the chord is
// complete and the next one becomes active.
type ChordTrainer struct {
	chords  [][]string
	current int
	held    map[string]bool

	onMistake func(key string)
	onCorrect func()
}

// Signals is what the trainer reports to
type Signals interface {
	OnMistake(key string)
	OnCorrectChord()
}

// New creates a trainer for chords reporting to signals (may be nil)
func New(chords track.ChordSequence, signals Signals) *ChordTrainer {
	t := &ChordTrainer{
		chords: chords.Chords,
		held:   make(map[string]bool),
	}
	if signals != nil {
		t.onMistake = signals.OnMistake
		t.onCorrect = signals.OnCorrectChord
	}
	return t
}

// KeyDown handles a key press
func (t *ChordTrainer) KeyDown(key string) {
	if t.Done() {
		return
	}

	chord := t.chords[t.current]
	if !slices.Contains(chord, key) {
		if t.onMistake != nil {
			t.onMistake(key)
		}
		return
	}

	t.held[key] = true
	for _, k := range chord {
		if !t.held[k] {
			return
		}
	}

	t.current++
	maps.Clear(t.held)
	if t.onCorrect != nil {
		t.onCorrect()
	}
}

// KeyUp handles a key release. Keys released before the chord is complete
// have to be pressed again.
func (t *ChordTrainer) KeyUp(key string) {
	delete(t.held, key)
}

// Reset goes back to the first chord and forgets held keys
func (t *ChordTrainer) Reset() {
	t.current = 0
	maps.Clear(t.held)
}

// Current returns the index of the active chord
func (t *ChordTrainer) Current() int {
	return t.current
}

// Done reports whether every chord was matched
func (t *ChordTrainer) Done() bool {
	return t.current >= len(t.chords)
}

// Required returns the keys of the active chord, nil when done
func (t *ChordTrainer) Required() []string {
	if t.Done() {
		return nil
	}
	return t.chords[t.current]
}

// Held returns the matched keys of the active chord, sorted
func (t *ChordTrainer) Held() []string {
	keys := maps.Keys(t.held)
	slices.Sort(keys)
	return keys
}
