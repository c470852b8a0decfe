// Package styles holds the lipgloss palette and styles for the groupsense
// terminal panel.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all meet WCAG AA contrast (4.5:1) on black and on the surface color
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	// Status badge
	Badge = lipgloss.NewStyle().
		Padding(0, 1).
		MarginRight(1).
		Foreground(TextColor)

	// Member table box
	MemberBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	MemberLeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	MemberMissing = lipgloss.NewStyle().
			Foreground(WarningColor)

	SectionTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(MutedColor)

	// Recent lines
	LineHandled = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	LineIgnored = lipgloss.NewStyle().
			Foreground(MutedColor)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	// Error message
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Warning message
	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// StatusColor returns the badge background for a group status string.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "open":
		return SecondaryColor
	case "closed":
		return BlueColor
	default:
		return MutedColor
	}
}

// LeaderColor returns the badge background for a leader kind string.
func LeaderColor(kind string) lipgloss.Color {
	switch kind {
	case "self":
		return PrimaryColor
	case "other":
		return BlueColor
	default:
		return MutedColor
	}
}

// StatusBadge renders text on the status color.
func StatusBadge(status string) string {
	return Badge.Background(StatusColor(status)).Render(status)
}

// LeaderBadge renders text on the leader color.
func LeaderBadge(kind, text string) string {
	return Badge.Background(LeaderColor(kind)).Render(text)
}
