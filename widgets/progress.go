package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderProgressBar renders "████░░░░ 3/8". A zero total draws an empty bar.
func RenderProgressBar(done, total, width int, full, empty lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if total > 0 {
		filled = done * width / total
	}
	filled = max(0, min(filled, width))

	return full.Render(strings.Repeat("█", filled)) +
		empty.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %d/%d", done, total)
}
