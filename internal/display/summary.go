package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Row is one label/value line of a summary block.
type Row struct {
	Label string
	Value string
}

var (
	summaryTitle = lipgloss.NewStyle().Bold(true).Underline(true)
	summaryLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryValue = lipgloss.NewStyle().Bold(true)
)

// RenderSummary lays rows out as an aligned two-column block under title.
func RenderSummary(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		if n := lipgloss.Width(r.Label); n > width {
			width = n
		}
	}
	var b strings.Builder
	b.WriteString(summaryTitle.Render(title))
	for _, r := range rows {
		b.WriteByte('\n')
		b.WriteString("  ")
		b.WriteString(summaryLabel.Render(r.Label + ":" + strings.Repeat(" ", width-lipgloss.Width(r.Label))))
		b.WriteByte(' ')
		b.WriteString(summaryValue.Render(r.Value))
	}
	return b.String()
}
