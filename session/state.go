package session

import (
	"errors"
	"fmt"
)

// Phase is the scoring phase of a session
type Phase int

const (
	Idle       Phase = iota // no chord completed yet
	InProgress              // some chords completed
	Complete                // every chord completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

var errInvariant = errors.New("session invariant violated")

// State is a snapshot of a practice session. Every event is a transition
// method returning the next snapshot; a State is never mutated in place.
type State struct {
	PlaybackTime float64 // seconds on the practice clock
	LastFrame    float64 // timestamp of the previous frame, valid when Primed
	Primed       bool

	ChordIndex       int  // next chord awaiting correct input
	MistakeThisChord bool // a wrong key was played since ChordIndex became active
	MistakeChords    int  // chords completed after at least one mistake
}

// Phase returns the scoring phase for a sequence of total chords
func (s State) Phase(total int) Phase {
	switch {
	case total > 0 && s.ChordIndex >= total:
		return Complete
	case s.ChordIndex > 0:
		return InProgress
	default:
		return Idle
	}
}

// Frame advances the clock to the frame timestamp now (seconds).
//
// The first frame after start only records the timestamp. Afterwards the
// elapsed delta is added to PlaybackTime when advance is set, but only if the
// result stays at or before the time of the pending chord. times nil means
// the chords are not loaded and the clock holds; past the last chord the
// clock runs free.
func (s State) Frame(now float64, advance bool, times []float64) State {
	if !s.Primed {
		s.LastFrame = now
		s.Primed = true
		return s
	}

	delta := now - s.LastFrame
	if advance && delta > 0 && times != nil {
		next := s.PlaybackTime + delta
		if s.ChordIndex >= len(times) || next <= times[s.ChordIndex] {
			s.PlaybackTime = next
		}
	}

	s.LastFrame = now
	return s
}

// Mistake records a wrong key for the active chord. Repeats are idempotent.
func (s State) Mistake(total int) State {
	if s.ChordIndex >= total {
		return s
	}
	s.MistakeThisChord = true
	return s
}

// CorrectChord completes the active chord and activates the next one
func (s State) CorrectChord(total int) State {
	if s.ChordIndex >= total {
		return s
	}
	if s.MistakeThisChord {
		s.MistakeChords++
	}
	s.ChordIndex++
	s.MistakeThisChord = false
	return s
}

// Restart clears progress and score. With rewind the clock restarts from
// zero and the next frame primes it again; otherwise the clock keeps its time.
func (s State) Restart(rewind bool) State {
	next := State{
		PlaybackTime: s.PlaybackTime,
		LastFrame:    s.LastFrame,
		Primed:       s.Primed,
	}
	if rewind {
		next = State{}
	}
	return next
}

// Accuracy returns the percentage of completed chords played without a
// mistake. ok is false until the first chord is completed.
func (s State) Accuracy() (pct float64, ok bool) {
	if s.ChordIndex <= 0 {
		return 0, false
	}
	return (1 - float64(s.MistakeChords)/float64(s.ChordIndex)) * 100, true
}

// Validate checks the invariants of s against a sequence of total chords
func (s State) Validate(total int) error {
	if s.ChordIndex < 0 || s.ChordIndex > total {
		return fmt.Errorf("chord index %d outside [0, %d]: %w", s.ChordIndex, total, errInvariant)
	}
	if s.MistakeChords < 0 || s.MistakeChords > s.ChordIndex {
		return fmt.Errorf("%d mistake chords with %d completed: %w", s.MistakeChords, s.ChordIndex, errInvariant)
	}
	if s.MistakeThisChord && s.ChordIndex == total && total > 0 {
		return fmt.Errorf("mistake flagged with no active chord: %w", errInvariant)
	}
	if s.PlaybackTime < 0 {
		return fmt.Errorf("negative playback time %v: %w", s.PlaybackTime, errInvariant)
	}
	return nil
}

// validateAdvance checks that a clock advance from prev to s stayed behind the pending chord
func validateAdvance(prev, s State, times []float64) error {
	if s.PlaybackTime == prev.PlaybackTime {
		return nil
	}
	if s.PlaybackTime < prev.PlaybackTime {
		return fmt.Errorf("clock moved back from %v to %v: %w", prev.PlaybackTime, s.PlaybackTime, errInvariant)
	}
	if s.ChordIndex < len(times) && s.PlaybackTime > times[s.ChordIndex] {
		return fmt.Errorf("clock %v passed chord %d at %v: %w", s.PlaybackTime, s.ChordIndex, times[s.ChordIndex], errInvariant)
	}
	return nil
}
