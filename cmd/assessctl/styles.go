package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nyashahama/ai-readiness-assessments/internal/scoring"
)

// printStyles holds the console styles shared by validate and score.
type printStyles struct {
	header lipgloss.Style
	good   lipgloss.Style
	fair   lipgloss.Style
	weak   lipgloss.Style
	poor   lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		fair:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		weak:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		poor:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	}
}

// band colours the i-th of n bands so the best band is green and the worst
// red, whichever end of the scale that is.
func (s printStyles) band(i, n int, p scoring.Polarity) lipgloss.Style {
	if p == scoring.HigherIsWorse {
		i = n - 1 - i
	}
	switch {
	case n <= 1 || i == n-1:
		return s.good
	case i == 0:
		return s.poor
	case i == 1:
		return s.weak
	default:
		return s.fair
	}
}
