// Package styles holds the shared lipgloss styles for the TUI, built on the
// catppuccin mocha palette.
package styles

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

var flavor = catppuccin.Mocha

// Colors
var (
	Primary   = lipgloss.Color(flavor.Mauve().Hex)
	Secondary = lipgloss.Color(flavor.Green().Hex)
	Accent    = lipgloss.Color(flavor.Peach().Hex)

	Success = lipgloss.Color(flavor.Green().Hex)
	Warning = lipgloss.Color(flavor.Yellow().Hex)
	Error   = lipgloss.Color(flavor.Red().Hex)

	Surface   = lipgloss.Color(flavor.Surface0().Hex)
	Border    = lipgloss.Color(flavor.Surface2().Hex)
	Text      = lipgloss.Color(flavor.Text().Hex)
	TextMuted = lipgloss.Color(flavor.Subtext0().Hex)
	TextDim   = lipgloss.Color(flavor.Overlay0().Hex)

	SpotifyGreen = lipgloss.Color("#1DB954")
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Text)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextMuted)

	Highlight = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Selected = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	Playing = lipgloss.NewStyle().
		Foreground(SpotifyGreen)

	Paused = lipgloss.NewStyle().
		Foreground(Warning)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error)
)

// Border styles
var (
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	FocusedBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	ErrorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Error)
)

// Panel returns the bordered panel style, highlighted when focused.
func Panel(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorder.Padding(0, 1)
	}
	return BorderStyle.Padding(0, 1)
}

// PanelTitle renders a panel title, highlighted when focused.
func PanelTitle(title string, focused bool) string {
	style := Dim
	if focused {
		style = Highlight
	}
	return style.Render(" " + title + " ")
}

// ProgressBar renders a progress bar of the given width.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	filledStyle := lipgloss.NewStyle().Foreground(SpotifyGreen)
	emptyStyle := lipgloss.NewStyle().Foreground(Border)

	return filledStyle.Render(Repeat("━", filled)) +
		emptyStyle.Render(Repeat("─", width-filled))
}

// StatusIcon returns an icon for playback status.
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render("▶")
	}
	return Paused.Render("⏸")
}

// DeviceIcon returns an icon for a device type.
func DeviceIcon(deviceType string) string {
	switch deviceType {
	case "computer", "Computer":
		return "💻"
	case "phone", "smartphone", "Smartphone":
		return "📱"
	case "speaker", "Speaker":
		return "🔊"
	case "tv", "TV":
		return "📺"
	default:
		return "🎧"
	}
}

// Repeat repeats a string n times.
func Repeat(s string, n int) string {
	result := ""
	for i := 0; i < n; i++ {
		result += s
	}
	return result
}

// Truncate shortens a string to max characters with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
