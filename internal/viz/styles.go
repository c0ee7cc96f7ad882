package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/mathx"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	helpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)
)

// Gauge renders fraction as a bar of the given width.
func Gauge(fraction float64, width int) string {
	filled := int(mathx.Clamp01(fraction)*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return lipgloss.NewStyle().Foreground(CurrentTheme.Water).Render(bar)
}

// RegimeBadge colors a basin's exchange regime.
func RegimeBadge(r fluid.Regime) string {
	style := lipgloss.NewStyle().Bold(true)
	switch r {
	case fluid.Filling, fluid.Spilling:
		style = style.Foreground(CurrentTheme.Accent)
	case fluid.Overflowing:
		style = style.Foreground(CurrentTheme.Warning)
	default:
		style = style.Foreground(CurrentTheme.Muted)
	}
	return style.Render(strings.ToUpper(r.String()))
}
