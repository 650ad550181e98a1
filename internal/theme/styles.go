package theme

import (
	"github.com/charmbracelet/lipgloss"

	"missionctl/internal/domain"
)

// Main UI styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	HelpLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	HelpShortcutStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight).
				Bold(true)
)

// Dialog header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Detail pane styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	AnomalyStyle = lipgloss.NewStyle().
			Foreground(ColorAnomaly).
			Bold(true)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorSpinner)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// statusColors maps each mission status to its display color
var statusColors = map[domain.MissionStatus]Color{
	domain.StatusCreated:    ColorCreated,
	domain.StatusInProgress: ColorInProgress,
	domain.StatusCompleted:  ColorCompleted,
	domain.StatusCanceled:   ColorCanceled,
	domain.StatusSuspended:  ColorSuspended,
}

// ApplyStatusColors overrides the status palette with user-configured
// colors, indexed like domain.KnownStatuses. Missing or empty entries keep
// their default.
func ApplyStatusColors(colors []string) {
	for i, status := range domain.KnownStatuses {
		if i < len(colors) && colors[i] != "" {
			statusColors[status] = Color(colors[i])
		}
	}
}

// StatusColor returns the color for a mission status, defaulting to the
// normal text color for statuses the client does not know
func StatusColor(status domain.MissionStatus) Color {
	if c, ok := statusColors[status]; ok {
		return c
	}
	return ColorNormal
}

// StatusStyle returns a style for a given mission status
func StatusStyle(status domain.MissionStatus) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(status))
}
