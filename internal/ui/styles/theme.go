package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary: lipgloss.Color("#7aa2f7"),

	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum content width for the app
const MaxWidth = 80

// ContentWidth returns the actual content width to use
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	TaskDone     lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Confirm lipgloss.Style
	Err     lipgloss.Style

	Help      lipgloss.Style
	HelpKey   lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Confirm: lipgloss.NewStyle().
			Foreground(t.Error).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Error).
			Padding(0, 1),

		Err: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(1, 2),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
	}
}
