package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFrameOnlyPrimes(t *testing.T) {
	s := State{}.Frame(100, true, []float64{1, 2})

	assert.True(t, s.Primed)
	assert.Equal(t, 100.0, s.LastFrame)
	assert.Equal(t, 0.0, s.PlaybackTime)
}

func TestFrameAdvancesByDelta(t *testing.T) {
	s := State{}.Frame(10, true, []float64{5})
	s = s.Frame(10.25, true, []float64{5})
	s = s.Frame(10.5, true, []float64{5})

	assert.Equal(t, 0.5, s.PlaybackTime)
	assert.Equal(t, 10.5, s.LastFrame)
}

func TestFrameHoldsWithoutRenderer(t *testing.T) {
	s := State{}.Frame(10, false, []float64{5})
	s = s.Frame(11, false, []float64{5})

	assert.Equal(t, 0.0, s.PlaybackTime)
	assert.Equal(t, 11.0, s.LastFrame)
}

func TestFrameHoldsWithoutChords(t *testing.T) {
	s := State{}.Frame(10, true, nil)
	s = s.Frame(11, true, nil)

	assert.Equal(t, 0.0, s.PlaybackTime)
	assert.Equal(t, 11.0, s.LastFrame)
}

func TestFrameIgnoresClockGoingBack(t *testing.T) {
	s := State{}.Frame(10, true, []float64{5})
	s = s.Frame(9, true, []float64{5})

	assert.Equal(t, 0.0, s.PlaybackTime)
	assert.Equal(t, 9.0, s.LastFrame)
}

func TestFrameStopsAtPendingChord(t *testing.T) {
	times := []float64{1.0, 2.0}
	s := State{}.Frame(0, true, times)
	for _, now := range []float64{0.5, 1.0, 1.5, 2.0} {
		s = s.Frame(now, true, times)
	}
	assert.Equal(t, 1.0, s.PlaybackTime)

	s = s.CorrectChord(len(times))
	s = s.Frame(2.5, true, times)
	assert.Equal(t, 1.5, s.PlaybackTime)
}

func TestFrameRunsFreeAfterLastChord(t *testing.T) {
	times := []float64{1.0}
	s := State{PlaybackTime: 1.0, ChordIndex: 1, Primed: true, LastFrame: 0}
	s = s.Frame(3, true, times)

	assert.Equal(t, 4.0, s.PlaybackTime)
}

func TestMistakesCountOncePerChord(t *testing.T) {
	s := State{}
	s = s.Mistake(3).Mistake(3).Mistake(3)
	s = s.CorrectChord(3)

	assert.Equal(t, 1, s.MistakeChords)
	assert.Equal(t, 1, s.ChordIndex)
	assert.False(t, s.MistakeThisChord)

	s = s.CorrectChord(3)
	assert.Equal(t, 1, s.MistakeChords)
	assert.Equal(t, 2, s.ChordIndex)
}

func TestCorrectChordNeverPassesTotal(t *testing.T) {
	s := State{}
	for i := 0; i < 5; i++ {
		s = s.CorrectChord(2)
	}
	assert.Equal(t, 2, s.ChordIndex)
	assert.Equal(t, Complete, s.Phase(2))

	s = s.Mistake(2)
	assert.False(t, s.MistakeThisChord)
}

func TestPhases(t *testing.T) {
	assert.Equal(t, Idle, State{}.Phase(3))
	assert.Equal(t, InProgress, State{ChordIndex: 1}.Phase(3))
	assert.Equal(t, Complete, State{ChordIndex: 3}.Phase(3))
	assert.Equal(t, Idle, State{}.Phase(0))
	assert.Equal(t, "in progress", InProgress.String())
}

func TestRestartKeepsClockByDefault(t *testing.T) {
	s := State{PlaybackTime: 3, LastFrame: 50, Primed: true, ChordIndex: 4, MistakeChords: 2, MistakeThisChord: true}

	kept := s.Restart(false)
	assert.Equal(t, State{PlaybackTime: 3, LastFrame: 50, Primed: true}, kept)

	rewound := s.Restart(true)
	assert.Equal(t, State{}, rewound)
}

func TestAccuracy(t *testing.T) {
	_, ok := State{}.Accuracy()
	assert.False(t, ok)

	pct, ok := State{ChordIndex: 4, MistakeChords: 1}.Accuracy()
	require.True(t, ok)
	assert.Equal(t, 75.0, pct)

	pct, _ = State{ChordIndex: 3, MistakeChords: 3}.Accuracy()
	assert.Equal(t, 0.0, pct)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, State{}.Validate(0))
	assert.NoError(t, State{ChordIndex: 2, MistakeChords: 2}.Validate(2))

	assert.ErrorIs(t, State{ChordIndex: 3}.Validate(2), errInvariant)
	assert.ErrorIs(t, State{ChordIndex: -1}.Validate(2), errInvariant)
	assert.ErrorIs(t, State{ChordIndex: 1, MistakeChords: 2}.Validate(2), errInvariant)
	assert.ErrorIs(t, State{ChordIndex: 2, MistakeThisChord: true}.Validate(2), errInvariant)
	assert.ErrorIs(t, State{PlaybackTime: -1}.Validate(2), errInvariant)
}

func TestValidateAdvance(t *testing.T) {
	times := []float64{1, 2}
	prev := State{PlaybackTime: 0.5}

	assert.NoError(t, validateAdvance(prev, State{PlaybackTime: 1}, times))
	assert.NoError(t, validateAdvance(prev, prev, times))
	assert.ErrorIs(t, validateAdvance(prev, State{PlaybackTime: 1.2}, times), errInvariant)
	assert.ErrorIs(t, validateAdvance(prev, State{PlaybackTime: 0.1}, times), errInvariant)
	assert.NoError(t, validateAdvance(prev, State{PlaybackTime: 9, ChordIndex: 2}, times))
}

// A long random-ish run: the clock never goes back or passes the pending
// chord, and the index only grows one step at a time.
func TestClockAndIndexProperties(t *testing.T) {
	times := []float64{0.5, 0.5, 1.25, 2, 4}
	s := State{}
	now := 0.0
	prevIndex := 0
	for i := 0; i < 400; i++ {
		now += float64(i%7) * 0.01
		prev := s
		s = s.Frame(now, true, times)

		require.GreaterOrEqual(t, s.PlaybackTime, prev.PlaybackTime)
		if s.ChordIndex < len(times) {
			require.LessOrEqual(t, s.PlaybackTime, times[s.ChordIndex])
		}

		if i%40 == 39 {
			if i%80 == 79 {
				s = s.Mistake(len(times))
			}
			s = s.CorrectChord(len(times))
		}
		require.True(t, s.ChordIndex == prevIndex || s.ChordIndex == prevIndex+1)
		require.LessOrEqual(t, s.ChordIndex, len(times))
		require.NoError(t, s.Validate(len(times)))
		prevIndex = s.ChordIndex
	}
	assert.Equal(t, Complete, s.Phase(len(times)))
}
