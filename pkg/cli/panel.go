package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the panel colors.
type Theme struct {
	Primary lipgloss.Color
	Error   lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Error:   lipgloss.Color("#ff5f87"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
	Status lipgloss.Style
	Failed lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Status: lipgloss.NewStyle().Foreground(t.Dim),
		Failed: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// Row is one labeled line of a panel.
type Row struct {
	Label string
	Value string
}

// Panel is a bordered key/value summary.
type Panel struct {
	Styles Styles
	Title  string
	Status string
	Failed bool
	Rows   []Row
}

// Render draws the panel at the given total width.
func (p Panel) Render(width int) string {
	if width < 10 {
		width = 10
	}
	bc := p.Styles.Border
	inner := width - 4

	var lines []string
	lines = append(lines, bc.Render("╭"+strings.Repeat("─", width-2)+"╮"))

	// │ title [status]   │
	title := p.Styles.Title.Render(p.Title)
	statusStyle := p.Styles.Status
	if p.Failed {
		statusStyle = p.Styles.Failed
	}
	status := statusStyle.Render("[" + p.Status + "]")
	padding := max(0, width-5-lipgloss.Width(title)-lipgloss.Width(status))
	lines = append(lines, bc.Render("│")+" "+title+" "+status+
		strings.Repeat(" ", padding)+" "+bc.Render("│"))

	if len(p.Rows) > 0 {
		lines = append(lines, bc.Render("├"+strings.Repeat("─", width-2)+"┤"))
	}

	labelWidth := 0
	for _, r := range p.Rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.Label))
	}
	for _, r := range p.Rows {
		label := p.Styles.Label.Render(r.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(r.Label)))
		text := label + "  " + r.Value
		if inner > 1 && lipgloss.Width(text) > inner {
			avail := max(1, inner-lipgloss.Width(label)-2-1)
			text = label + "  " + truncateString(r.Value, avail) + "…"
		}
		lines = append(lines, bc.Render("│")+" "+text+
			strings.Repeat(" ", max(0, inner-lipgloss.Width(text)))+" "+bc.Render("│"))
	}

	lines = append(lines, bc.Render("╰"+strings.Repeat("─", width-2)+"╯"))
	return strings.Join(lines, "\n")
}

// truncateString truncates s to the given display width, rune by rune.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	current := 0
	for i, r := range runes {
		w := lipgloss.Width(string(r))
		if current+w > width {
			return string(runes[:i])
		}
		current += w
	}
	return s
}
