// Package styles holds the locker's lipgloss theme. Colors adapt to light
// and dark terminals; the accent is Kakao's brand yellow on dark
// backgrounds and its brown on light ones.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.AdaptiveColor{Light: "#3C1E1E", Dark: "#FEE500"}
	muted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6E6E6E"}
	text      = lipgloss.AdaptiveColor{Light: "#191919", Dark: "#ECECEC"}
	soft      = lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#B4B4B4"}
	highlight = lipgloss.AdaptiveColor{Light: "#FFF3A3", Dark: "#403A10"}
	alert     = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF6B6B"}
	image     = lipgloss.AdaptiveColor{Light: "#1565C0", Dark: "#7FB3FF"}
	video     = lipgloss.AdaptiveColor{Light: "#AD1457", Dark: "#FF8FB1"}
)

// Pane borders; the focused pane wears the accent
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)
)

var (
	TitleStyle  = lipgloss.NewStyle().Foreground(text).Bold(true)
	DimStyle    = lipgloss.NewStyle().Foreground(muted)
	AccentStyle = lipgloss.NewStyle().Foreground(accent)
	ErrorStyle  = lipgloss.NewStyle().Foreground(alert).Bold(true)

	// MatchStyle marks the runes a filter matched
	MatchStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

// Row markers
const CursorChar = "▸"

var (
	ImageIcon = lipgloss.NewStyle().Foreground(image).Render("▣")
	VideoIcon = lipgloss.NewStyle().Foreground(video).Render("►")
	SavedMark = AccentStyle.Render("♥")
)

// Rows
var (
	SelectedItemStyle = lipgloss.NewStyle().Foreground(text).Background(highlight).Bold(true)
	NormalItemStyle   = lipgloss.NewStyle().Foreground(soft)
)

// Help line
var (
	HelpKeyStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	HelpDescStyle = lipgloss.NewStyle().Foreground(muted)
)
