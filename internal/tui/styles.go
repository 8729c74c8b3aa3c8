package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleGroup    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	stylePage     = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleMode     = lipgloss.NewStyle().Foreground(colorGray)
	styleDirty    = lipgloss.NewStyle().Foreground(colorYellow)
	styleError    = lipgloss.NewStyle().Foreground(colorRed)
	styleNotice   = lipgloss.NewStyle().Foreground(colorGreen)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleForm     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	stylePrompt = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)
