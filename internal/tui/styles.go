// Package tui holds the terminal front end: the masked time input, the
// record form and the interactive tracks board.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorError   = lipgloss.Color("#EF4444")
	colorSuccess = lipgloss.Color("#10B981")
	colorActive  = lipgloss.Color("#3B82F6")
)

var (
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1)
	styleLabel       = lipgloss.NewStyle().Width(14).Foreground(colorMuted)
	styleLabelActive = lipgloss.NewStyle().Width(14).Bold(true).Foreground(colorActive)
	stylePlaceholder = lipgloss.NewStyle().Foreground(colorMuted)
	styleCursor      = lipgloss.NewStyle().Reverse(true)
	styleSelection   = lipgloss.NewStyle().Background(colorActive)
	styleError       = lipgloss.NewStyle().Foreground(colorError)
	styleSuccess     = lipgloss.NewStyle().Foreground(colorSuccess)
	styleHelp        = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	styleHeader      = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleSelectedRow = lipgloss.NewStyle().Bold(true).Foreground(colorActive)
)
