package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Brand colors.
const (
	ColorPrimary = "#DA7756"
	ColorSuccess = "#10B981"
	ColorWarning = "#F59E0B"
	ColorError   = "#EF4444"
	ColorText    = "#E5E7EB"
	ColorMuted   = "#6B7280"
	ColorBorder  = "#4B5563"
)

// Styles groups the lipgloss styles used for terminal output.
type Styles struct {
	Hint    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles returns the showtrans styles. With noColor every style is plain.
func NewStyles(noColor bool) *Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return &Styles{Hint: plain, Success: plain, Warning: plain, Error: plain}
	}
	return &Styles{
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}).Italic(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: ColorSuccess}).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: ColorWarning}).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}).Bold(true),
	}
}

// newPickerTheme creates a huh.Theme with showtrans branding.
func newPickerTheme() *huh.Theme {
	t := huh.ThemeBase()

	primary := lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: ColorPrimary}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: ColorMuted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: ColorBorder}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: ColorError}

	t.Focused.Base = t.Focused.Base.BorderForeground(border)
	t.Focused.Card = t.Focused.Base
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(red)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(red)
	t.Focused.File = t.Focused.File.Foreground(text)
	t.Focused.Directory = t.Focused.Directory.Foreground(primary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(primary).SetString("▸ ")

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Card = t.Blurred.Base

	return t
}
