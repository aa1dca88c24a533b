// Package tui implements the interactive household dashboard.
package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 24
	minHeight     = 5
	summaryHeight = 4
	borderPadding = 2
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
)

// ViewState is the dashboard screen currently shown.
type ViewState int

// Dashboard screens.
const (
	ViewStateList ViewState = iota
	ViewStateDetail
	ViewStateQuitting
	ViewStateError
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	SubtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	BoxStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	OKStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("240"))
	TableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)
