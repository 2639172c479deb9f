package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-practice/midi"
)

// KeyboardStyles colour the on-screen keyboard
type KeyboardStyles struct {
	Idle     lipgloss.Style
	Required lipgloss.Style
	Held     lipgloss.Style
	Done     lipgloss.Style
	Label    lipgloss.Style
}

// RenderKeyboard draws the keys lo..hi on two lines: accidentals above
// naturals, one cell per semitone. Required keys the player still needs
// show as ○, held keys as ■, held required keys as ●.
func RenderKeyboard(lo, hi uint8, required, held []uint8, st KeyboardStyles) string {
	if hi < lo {
		return ""
	}
	req := toSet(required)
	hold := toSet(held)

	var top, bottom, labels strings.Builder
	for code := int(lo); code <= int(hi); code++ {
		key := uint8(code)
		cell := keyCell(key, req, hold, st)
		if midi.IsAccidental(key) {
			top.WriteString(cell)
			bottom.WriteString(" ")
			labels.WriteString(" ")
			continue
		}
		top.WriteString(" ")
		bottom.WriteString(cell)
		if key%12 == 0 {
			labels.WriteString(st.Label.Render("C"))
		} else {
			labels.WriteString(" ")
		}
	}
	return top.String() + "\n" + bottom.String() + "\n" + labels.String() +
		" " + st.Label.Render(midi.KeyName(lo)+"–"+midi.KeyName(hi))
}

func keyCell(key uint8, req, hold map[uint8]bool, st KeyboardStyles) string {
	switch {
	case req[key] && hold[key]:
		return st.Done.Render("●")
	case hold[key]:
		return st.Held.Render("■")
	case req[key]:
		return st.Required.Render("○")
	default:
		return st.Idle.Render("□")
	}
}

func toSet(keys []uint8) map[uint8]bool {
	set := make(map[uint8]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
