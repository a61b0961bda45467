package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("2")
	colorRed    = lipgloss.Color("1")
	colorYellow = lipgloss.Color("3")
	colorBlue   = lipgloss.Color("4")
	colorGray   = lipgloss.Color("8")

	styleTitle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	styleCursor  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleMarked  = lipgloss.NewStyle().Foreground(colorRed)
	styleTime    = lipgloss.NewStyle().Foreground(colorGray)
	styleRemote  = lipgloss.NewStyle().Foreground(colorBlue)
	styleLocal   = lipgloss.NewStyle().Foreground(colorGreen)
	styleSubject = lipgloss.NewStyle().Foreground(colorGray)
	styleFailure = lipgloss.NewStyle().Foreground(colorRed)
	styleConfirm = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleStatus  = lipgloss.NewStyle().Foreground(colorGray)
	styleEmpty   = lipgloss.NewStyle().Foreground(colorGray).Italic(true)
	styleSpinner = lipgloss.NewStyle().Foreground(colorYellow)
	styleFooter  = lipgloss.NewStyle().MarginTop(1)
)
