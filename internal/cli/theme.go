package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AnshRaj112/remontee-backend/internal/appstate"
	"github.com/AnshRaj112/remontee-backend/internal/models"
)

// Theme is the palette used for terminal output. Colors are ANSI 256 codes.
type Theme struct {
	Title  lipgloss.Color
	Text   lipgloss.Color
	Faint  lipgloss.Color
	Border lipgloss.Color

	StatusPending    lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusResolved   lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color
}

// StatusColor returns the color for a triage status, Faint for anything
// unknown.
func (t Theme) StatusColor(s models.Status) lipgloss.Color {
	switch s {
	case models.StatusPending:
		return t.StatusPending
	case models.StatusInProgress:
		return t.StatusInProgress
	case models.StatusResolved:
		return t.StatusResolved
	default:
		return t.Faint
	}
}

var LightTheme = Theme{
	Title:  lipgloss.Color("166"), // orange
	Text:   lipgloss.Color("235"),
	Faint:  lipgloss.Color("244"),
	Border: lipgloss.Color("250"),

	StatusPending:    lipgloss.Color("130"), // dark amber
	StatusInProgress: lipgloss.Color("25"),  // blue
	StatusResolved:   lipgloss.Color("28"),  // green

	Success: lipgloss.Color("28"),
	Error:   lipgloss.Color("160"),
}

var DarkTheme = Theme{
	Title:  lipgloss.Color("208"),
	Text:   lipgloss.Color("252"),
	Faint:  lipgloss.Color("245"),
	Border: lipgloss.Color("240"),

	StatusPending:    lipgloss.Color("220"),
	StatusInProgress: lipgloss.Color("75"),
	StatusResolved:   lipgloss.Color("114"),

	Success: lipgloss.Color("114"),
	Error:   lipgloss.Color("196"),
}

func ThemeFor(t appstate.Theme) Theme {
	if t == appstate.ThemeDark {
		return DarkTheme
	}
	return LightTheme
}

// styles renders text for one output stream. Color is dropped when the
// stream is not a terminal.
type styles struct {
	r     *lipgloss.Renderer
	theme Theme
}

func newStyles(out io.Writer, theme Theme) *styles {
	return &styles{r: lipgloss.NewRenderer(out), theme: theme}
}

func (s *styles) title(text string) string {
	return s.r.NewStyle().Bold(true).Foreground(s.theme.Title).Render(text)
}

func (s *styles) faint(text string) string {
	return s.r.NewStyle().Foreground(s.theme.Faint).Render(text)
}

func (s *styles) label(text string) string {
	return s.r.NewStyle().Bold(true).Foreground(s.theme.Text).Render(text)
}

func (s *styles) success(text string) string {
	return s.r.NewStyle().Foreground(s.theme.Success).Render(text)
}

func (s *styles) error(text string) string {
	return s.r.NewStyle().Bold(true).Foreground(s.theme.Error).Render(text)
}

func (s *styles) status(st models.Status) string {
	return s.r.NewStyle().Foreground(s.theme.StatusColor(st)).Render(string(st))
}

// cell pads or truncates text to width columns.
func (s *styles) cell(text string, width int, color lipgloss.Color) string {
	return s.r.NewStyle().Width(width).MaxWidth(width).Foreground(color).Render(truncate(text, width-1))
}

func (s *styles) rule(width int) string {
	return s.r.NewStyle().Foreground(s.theme.Border).Render(strings.Repeat("─", width))
}

func truncate(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}
