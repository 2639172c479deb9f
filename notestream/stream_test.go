package notestream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-practice/track"
)

func notes() []track.NoteEvent {
	return []track.NoteEvent{
		{Note: 64, Time: 1.0, Duration: 0.5, Velocity: 80},
		{Note: 60, Time: 0.0, Duration: 1.0, Velocity: 80},
		{Note: 67, Time: 1.0, Duration: 2.0, Velocity: 80},
	}
}

func TestRedrawMovesPlayhead(t *testing.T) {
	s := New(notes(), 2)
	s.Redraw(1.25)
	s.Redraw(1.5)

	assert.Equal(t, 1.5, s.Time())
	assert.Equal(t, 2, s.Redraws())
}

func TestSounding(t *testing.T) {
	s := New(notes(), 2)

	s.Redraw(0.5)
	assert.Equal(t, []uint8{60}, s.Sounding())

	s.Redraw(1.25)
	assert.Equal(t, []uint8{64, 67}, s.Sounding())

	s.Redraw(2.5)
	assert.Equal(t, []uint8{67}, s.Sounding())

	s.Redraw(5)
	assert.Empty(t, s.Sounding())
}

func TestVisible(t *testing.T) {
	s := New(notes(), 2)
	vis := s.Visible(1.6, 4)
	require.Len(t, vis, 1)
	assert.Equal(t, uint8(67), vis[0].Note)

	assert.Len(t, s.Visible(0, 1.01), 3)
}

func TestColumnSeconds(t *testing.T) {
	assert.Equal(t, 0.125, New(nil, 2).ColumnSeconds())
	assert.Equal(t, 0.125, New(nil, 0).ColumnSeconds())
	assert.Equal(t, 0.25, New(nil, 1).ColumnSeconds())
}

func TestViewDrawsNotesAndPlayhead(t *testing.T) {
	s := New(notes(), 2)
	s.Redraw(0)

	view := s.View(16, 8)
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 8)

	var c4 string
	for _, l := range lines {
		if strings.HasPrefix(l, "  C4 ") {
			c4 = l
		}
	}
	require.NotEmpty(t, c4, view)

	cells := []rune(strings.TrimPrefix(c4, "  C4 "))
	require.Len(t, cells, 16)
	// playhead at column 2, C4 sounds from 0s for 1s = 8 columns
	assert.Equal(t, '·', cells[0])
	assert.Equal(t, '█', cells[2])
	assert.Equal(t, '─', cells[3])
	assert.Equal(t, '·', cells[10])

	for _, l := range lines {
		if !strings.HasPrefix(l, "  C4 ") {
			assert.Equal(t, '│', []rune(l)[5+2], l)
		}
	}
}

func TestViewShowsNoteStarts(t *testing.T) {
	s := New(notes(), 2)
	s.Redraw(0)

	for _, l := range strings.Split(s.View(16, 8), "\n") {
		if strings.HasPrefix(l, "  E4 ") {
			cells := []rune(strings.TrimPrefix(l, "  E4 "))
			// E4 starts at 1.0s: column 2 + 8
			assert.Equal(t, '●', cells[10])
			assert.Equal(t, '─', cells[11])
			assert.Equal(t, '·', cells[14])
		}
	}
}

func TestViewEmpty(t *testing.T) {
	assert.Equal(t, "", New(notes(), 2).View(0, 4))

	view := New(nil, 2).View(4, 2)
	assert.Len(t, strings.Split(view, "\n"), 2)
}
