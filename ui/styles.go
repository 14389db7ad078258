package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Purple    = lipgloss.Color("#7C3AED")
	Cyan      = lipgloss.Color("#06B6D4")
	Green     = lipgloss.Color("#10B981")
	Amber     = lipgloss.Color("#F59E0B")
	Red       = lipgloss.Color("#EF4444")
	Gray      = lipgloss.Color("#6B7280")
	DarkGray  = lipgloss.Color("#374151")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
)

// Common styles
var (
	// Logo and header
	LogoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Purple)

	TaglineStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Italic(true)

	// Tab bar
	TabStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Purple).
			Padding(0, 2).
			Bold(true)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGray).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Purple).
				Padding(0, 1)

	// Project rows
	ProjectStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	ActiveProjectStyle = lipgloss.NewStyle().
				Foreground(Cyan).
				Bold(true)

	CompletedStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Strikethrough(true)

	// Tasks
	TaskStyle = lipgloss.NewStyle().
			Foreground(White)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Strikethrough(true)

	TaskCursorStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			Bold(true)

	// Focus mode
	FocusTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Purple).
			Padding(0, 1).
			Bold(true)

	FocusDescStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	FocusCountStyle = lipgloss.NewStyle().
			Foreground(Gray)

	// Status line
	StatusInfo = lipgloss.NewStyle().
			Foreground(Green)

	StatusError = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	IdentityStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// Gantt bars
	GanttBarStyle = lipgloss.NewStyle().
			Foreground(Purple)

	GanttLabelStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(Gray)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Cyan)
)
