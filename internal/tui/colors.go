package tui

// Color constants for the taskboard TUI theme
const (
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (field labels, user input, titles)
	ColorSecondaryText = "#B1B8C7" // Secondary text
	ColorDisabledText  = "#6D7383" // Disabled/muted text
	ColorPlaceholder   = "#B1B8C7" // Same as secondary
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Accent elements, active borders
	ColorAccentBright = "#A78BFA" // Highlights, active column, selected row

	// State Colors
	ColorError   = "#EF4444" // Validation errors
	ColorSuccess = "#22C55E" // Closed tasks, confirmations
	ColorWarning = "#F59E0B" // Due soon
)
