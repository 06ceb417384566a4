package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Palette taken from the classic crossword grid: ink, newsprint and a highlight
	inkBlue   = lipgloss.Color("#4F85E5")
	cellGold  = lipgloss.Color("#F8CD05")
	okGreen   = lipgloss.Color("#6AAA64")
	errRed    = lipgloss.Color("#E0443E")
	dimGray   = lipgloss.Color("#8A8A8A")
	headWhite = lipgloss.Color("#FFFFFF")

	logoStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(cellGold)

	successStyle = lipgloss.NewStyle().
			Foreground(okGreen).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(cellGold)

	highlightStyle = lipgloss.NewStyle().
			Foreground(headWhite).
			Background(inkBlue).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	barFilledStyle = lipgloss.NewStyle().
			Foreground(okGreen)

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(dimGray)
)
