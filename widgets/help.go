package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeySection groups related key bindings under a title
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp lays out sections as an aligned two-column list, one blank
// line between sections. Titles are drawn with title.
func RenderKeyHelp(sections []KeySection, title lipgloss.Style) string {
	width := 0
	for _, sec := range sections {
		for _, k := range sec.Keys {
			width = max(width, lipgloss.Width(k.Key))
		}
	}

	var blocks []string
	for _, sec := range sections {
		var lines []string
		if sec.Title != "" {
			lines = append(lines, title.Render(sec.Title))
		}
		for _, k := range sec.Keys {
			pad := strings.Repeat(" ", width-lipgloss.Width(k.Key))
			lines = append(lines, "  "+k.Key+pad+"  "+k.Desc)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderKeyLine is the one-line footer form: "q quit · r restart"
func RenderKeyLine(keys []KeyBinding) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k.Key+" "+k.Desc)
	}
	return strings.Join(parts, " · ")
}
