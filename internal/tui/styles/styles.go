// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors and text styles used across components

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary = lipgloss.Color("#3B82F6") // Blue
	Good    = lipgloss.Color("#10B981") // Green
	Warning = lipgloss.Color("#F59E0B") // Amber
	Danger  = lipgloss.Color("#EF4444") // Red
	Muted   = lipgloss.Color("#6B7280") // Gray
	Text    = lipgloss.Color("#F9FAFB") // Light

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Good).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusCritical = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Tabs
	ActiveTab = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	InactiveTab = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Error banner
	ErrorBanner = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true).
			MarginTop(1)
)
