package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/midi"
	"go-practice/notestream"
	"go-practice/session"
	"go-practice/theme"
	"go-practice/widgets"
)

// keyboard range shown when nothing wider is needed
const (
	kbLow  uint8 = 48 // C3
	kbHigh uint8 = 84 // C6
)

func (m Model) streamStyles() notestream.Styles {
	th := m.Theme
	return notestream.Styles{
		Label:    th.Fg(theme.RoleMuted),
		Empty:    th.Fg(theme.RoleSurface),
		Note:     th.Fg(theme.RoleAccent),
		Sounding: th.Fg(theme.RoleSuccess),
		Playhead: th.Fg(theme.RoleCursor),
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder
	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(m.viewHelp())
	} else if m.screen == screenTracks {
		out.WriteString(m.viewTracks())
	} else {
		out.WriteString(m.viewPractice())
	}
	return out.String()
}

func (m Model) deviceStatus() string {
	switch n := len(m.keyboards); n {
	case 0:
		return "no keyboard"
	case 1:
		return "keyboard: " + m.Keyboards()[0]
	default:
		return fmt.Sprintf("%d keyboards", n)
	}
}

func (m Model) viewTracks() string {
	th := m.Theme
	dim := th.Fg(theme.RoleMuted)
	warn := th.Fg(theme.RoleWarning)
	cursor := lipgloss.NewStyle().Foreground(th.Cursor()).Bold(true)

	var out strings.Builder
	out.WriteString(th.Title().Render("go-practice"))
	out.WriteString(dim.Render("  " + m.deviceStatus()))
	out.WriteString("\n\n")

	entries := []string{"Free play"}
	switch {
	case m.tracksErr != nil:
		out.WriteString(warn.Render("could not load tracks: "+m.tracksErr.Error()) + "\n\n")
	case m.tracks == nil:
		out.WriteString(dim.Render("loading tracks…") + "\n\n")
	}
	for _, t := range m.tracks {
		entries = append(entries, t.Name)
	}

	for i, name := range entries {
		if i == m.cursor {
			out.WriteString(cursor.Render("▶ " + name))
		} else {
			out.WriteString("  " + name)
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(dim.Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "↑/↓", Desc: "select"},
		{Key: "enter", Desc: "practice"},
		{Key: "r", Desc: "reload"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	})))
	return out.String()
}

func (m Model) viewPractice() string {
	th := m.Theme
	dim := th.Fg(theme.RoleMuted)
	warn := th.Fg(theme.RoleWarning)

	d := m.sess.Display()

	title := "…"
	switch {
	case d.FreePlay:
		title = "Free play"
	case d.HasName:
		title = d.TrackName
	}

	var out strings.Builder
	out.WriteString(th.Title().Render(title))
	out.WriteString(dim.Render("  " + m.deviceStatus()))
	out.WriteString("\n\n")

	if !d.FreePlay {
		barWidth := max(10, min(40, m.width-20))
		out.WriteString(widgets.RenderProgressBar(d.Completed, d.Total, barWidth,
			th.Fg(theme.RoleAccent), th.Fg(theme.RoleSurface)))
		out.WriteString("   ")
		if d.Phase == session.Complete {
			out.WriteString(th.Fg(theme.RoleSuccess).Render("Done! " + d.AccuracyText()))
		} else {
			out.WriteString(d.AccuracyText())
		}
		out.WriteString("\n\n")

		rows := max(4, min(16, m.height-16))
		cols := max(16, m.width-8)
		if s := m.stream(); s != nil {
			out.WriteString(s.View(cols, rows))
		} else if d.NotesLoaded {
			out.WriteString(dim.Render("(no notes)"))
		} else {
			out.WriteString(dim.Render("loading notes…"))
		}
		out.WriteString("\n\n")
	}

	out.WriteString(m.viewKeyboard())
	out.WriteString("\n")

	for _, err := range d.Errors {
		out.WriteString(warn.Render(err.Error()) + "\n")
	}

	lo, hi := m.qwerty.Range()
	status := fmt.Sprintf("computer keys: %s–%s", midi.KeyName(lo), midi.KeyName(hi))
	if m.lastKey != "" {
		status += "   last: " + m.lastKey
	}
	out.WriteString("\n" + dim.Render(status) + "\n")
	out.WriteString(dim.Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "a–'", Desc: "play"},
		{Key: "z/x", Desc: "octave"},
		{Key: "r", Desc: "restart"},
		{Key: "esc", Desc: "tracks"},
		{Key: "?", Desc: "help"},
		{Key: "q", Desc: "quit"},
	})))
	return out.String()
}

func (m Model) keyHelp() []widgets.KeySection {
	lo, hi := m.qwerty.Range()
	return []widgets.KeySection{
		{Title: "Tracks", Keys: []widgets.KeyBinding{
			{Key: "↑/↓ j/k", Desc: "move the cursor"},
			{Key: "g/G", Desc: "first / last track"},
			{Key: "enter", Desc: "practice the selected track"},
			{Key: "r", Desc: "reload the track list"},
		}},
		{Title: "Practice", Keys: []widgets.KeyBinding{
			{Key: "a s d f …", Desc: fmt.Sprintf("play %s–%s (row above plays sharps)", midi.KeyName(lo), midi.KeyName(hi))},
			{Key: "z/x", Desc: "octave down / up"},
			{Key: "r", Desc: "restart the track"},
			{Key: "esc", Desc: "back to the track list"},
		}},
		{Title: "Anywhere", Keys: []widgets.KeyBinding{
			{Key: "?", Desc: "toggle this help"},
			{Key: "q ctrl+c", Desc: "quit"},
		}},
	}
}

func (m Model) viewHelp() string {
	th := m.Theme
	var out strings.Builder
	out.WriteString(th.Title().Render("Keys"))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderKeyHelp(m.keyHelp(), th.Fg(theme.RoleAccent)))
	out.WriteString("\n\n")
	out.WriteString(th.Fg(theme.RoleMuted).Render(widgets.RenderKeyLine([]widgets.KeyBinding{
		{Key: "?/esc", Desc: "close"},
	})))
	return out.String()
}

func (m Model) viewKeyboard() string {
	var required []uint8
	held := m.heldNotes()
	if t := m.chordTrainer(); t != nil {
		for _, name := range t.Required() {
			if code, err := midi.KeyCode(name); err == nil {
				required = append(required, code)
			}
		}
		for _, name := range t.Held() {
			if code, err := midi.KeyCode(name); err == nil {
				held = append(held, code)
			}
		}
	}

	lo, hi := kbLow, kbHigh
	for _, k := range append(append([]uint8{}, required...), held...) {
		lo, hi = min(lo, k-k%12), max(hi, k)
	}
	qlo, qhi := m.qwerty.Range()
	lo, hi = min(lo, qlo-qlo%12), max(hi, qhi)

	th := m.Theme
	return widgets.RenderKeyboard(lo, hi, required, held, widgets.KeyboardStyles{
		Idle:     th.Fg(theme.RoleSurface),
		Required: th.Fg(theme.RoleWarning),
		Held:     th.Fg(theme.RoleActive),
		Done:     th.Fg(theme.RoleSuccess),
		Label:    th.Fg(theme.RoleMuted),
	})
}
