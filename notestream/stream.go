// Package notestream draws the raw notes of a track as a piano roll that
// scrolls right to left past a fixed playhead.
package notestream

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/midi"
	"go-practice/track"
)

// Styles colour the glyphs of the roll. Zero styles render plain text.
type Styles struct {
	Label    lipgloss.Style
	Empty    lipgloss.Style
	Note     lipgloss.Style
	Sounding lipgloss.Style
	Playhead lipgloss.Style
}

// Stream renders a note list at a playback time
type Stream struct {
	notes     []track.NoteEvent
	timeScale float64
	time      float64
	redraws   int
	lo, hi    uint8

	Styles Styles
}

// New creates a stream. timeScale is columns per quarter second; larger
// values spread notes out.
func New(notes []track.NoteEvent, timeScale float64) *Stream {
	if timeScale <= 0 {
		timeScale = 2
	}
	sorted := make([]track.NoteEvent, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	s := &Stream{notes: sorted, timeScale: timeScale, lo: 60, hi: 72}
	if len(sorted) > 0 {
		s.lo, s.hi = 127, 0
		for _, n := range sorted {
			s.lo = min(s.lo, n.Note)
			s.hi = max(s.hi, n.Note)
		}
	}
	return s
}

// Redraw moves the playhead to time
func (s *Stream) Redraw(time float64) {
	s.time = time
	s.redraws++
}

// Time returns the playhead position in seconds
func (s *Stream) Time() float64 {
	return s.time
}

// Redraws returns how often Redraw was called
func (s *Stream) Redraws() int {
	return s.redraws
}

// ColumnSeconds returns how much time one column covers
func (s *Stream) ColumnSeconds() float64 {
	return 1 / (4 * s.timeScale)
}

// Sounding returns the notes held at the playhead, lowest first
func (s *Stream) Sounding() []uint8 {
	var out []uint8
	for _, n := range s.notes {
		if n.Time > s.time {
			break
		}
		if n.End() > s.time {
			out = append(out, n.Note)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Visible returns the notes that overlap [from, to)
func (s *Stream) Visible(from, to float64) []track.NoteEvent {
	var out []track.NoteEvent
	for _, n := range s.notes {
		if n.Time >= to {
			break
		}
		if n.End() > from {
			out = append(out, n)
		}
	}
	return out
}

// playheadCol keeps a little of the past visible left of the playhead
func playheadCol(cols int) int {
	return cols / 8
}

// pitchWindow picks the top pitch of a rows-high window that covers the
// visible notes, falling back to the whole range of the track.
func (s *Stream) pitchWindow(visible []track.NoteEvent, rows int) uint8 {
	lo, hi := s.lo, s.hi
	if len(visible) > 0 {
		lo, hi = 127, 0
		for _, n := range visible {
			lo = min(lo, n.Note)
			hi = max(hi, n.Note)
		}
	}
	span := int(hi) - int(lo) + 1
	top := int(hi)
	if span < rows {
		top = int(hi) + (rows-span)/2
	}
	if top > 127 {
		top = 127
	}
	if top-rows+1 < 0 {
		top = rows - 1
	}
	return uint8(top)
}

// View draws cols x rows of the roll with a key-name column on the left
func (s *Stream) View(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	colSec := s.ColumnSeconds()
	ph := playheadCol(cols)
	start := s.time - float64(ph)*colSec
	end := start + float64(cols)*colSec
	visible := s.Visible(start, end)
	top := s.pitchWindow(visible, rows)

	var out strings.Builder
	for row := 0; row < rows; row++ {
		p := int(top) - row
		if p < 0 {
			break
		}
		pitch := uint8(p)
		out.WriteString(s.Styles.Label.Render(padLeft(midi.KeyName(pitch), 4)))
		out.WriteString(" ")

		for col := 0; col < cols; col++ {
			colStart := start + float64(col)*colSec
			colEnd := colStart + colSec
			isPlayhead := col == ph

			started, held := false, false
			for _, n := range visible {
				if n.Note != pitch || n.Time >= colEnd || n.End() <= colStart {
					continue
				}
				held = true
				if n.Time >= colStart {
					started = true
				}
			}

			switch {
			case held && isPlayhead:
				out.WriteString(s.Styles.Sounding.Render("█"))
			case started:
				out.WriteString(s.Styles.Note.Render("●"))
			case held:
				out.WriteString(s.Styles.Note.Render("─"))
			case isPlayhead:
				out.WriteString(s.Styles.Playhead.Render("│"))
			default:
				out.WriteString(s.Styles.Empty.Render("·"))
			}
		}
		if row < rows-1 {
			out.WriteString("\n")
		}
	}
	return out.String()
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(" ", n-len(s)) + s
}
