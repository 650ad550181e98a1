package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Mission status colors
const (
	ColorCreated    Color = "33"  // Blue - CREEE
	ColorInProgress Color = "2"   // Green - EN_COURS
	ColorCompleted  Color = "8"   // Gray - TERMINEE
	ColorCanceled   Color = "1"   // Red - ANNULEE
	ColorSuspended  Color = "214" // Orange - SUSPENDUE
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorAnomaly   Color = "208" // Orange - anomaly badge
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
	ColorSpinner   Color = "205" // Pink
)

// DefaultStatusColors is the default palette, indexed like KnownStatuses
var DefaultStatusColors = []string{"33", "2", "8", "1", "214"}
