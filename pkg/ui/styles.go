package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deskhub/pkg/model"
	"deskhub/pkg/view"
)

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Theme bundles the dashboard's colors behind a renderer so output degrades
// cleanly on low-color terminals.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	Positive lipgloss.AdaptiveColor
	Caution  lipgloss.AdaptiveColor
	Negative lipgloss.AdaptiveColor

	// Per-source accents for card badges
	Schedule lipgloss.AdaptiveColor
	Mission  lipgloss.AdaptiveColor
	Manual   lipgloss.AdaptiveColor
	Sheet    lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard dark palette.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56C2", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A6A9E", Dark: "#6272A4"},
		Text:      lipgloss.AdaptiveColor{Light: "#1E1F29", Dark: "#F8F8F2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#44475A", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#9AA2BF", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#C5C8D9", Dark: "#44475A"},
		Positive:  lipgloss.AdaptiveColor{Light: "#1F7A3D", Dark: "#50FA7B"},
		Caution:   lipgloss.AdaptiveColor{Light: "#B26B1A", Dark: "#FFB86C"},
		Negative:  lipgloss.AdaptiveColor{Light: "#B2332F", Dark: "#FF5555"},
		Schedule:  lipgloss.AdaptiveColor{Light: "#1F7A8C", Dark: "#8BE9FD"},
		Mission:   lipgloss.AdaptiveColor{Light: "#7D56C2", Dark: "#BD93F9"},
		Manual:    lipgloss.AdaptiveColor{Light: "#B26B1A", Dark: "#FFB86C"},
		Sheet:     lipgloss.AdaptiveColor{Light: "#1F7A3D", Dark: "#50FA7B"},
	}
}

// SourceColor maps a card's provenance tag to its accent color.
func (t Theme) SourceColor(s model.CardSource) lipgloss.AdaptiveColor {
	switch s {
	case model.SourceSchedule:
		return t.Schedule
	case model.SourceMission:
		return t.Mission
	case model.SourceManual:
		return t.Manual
	case model.SourceSheet:
		return t.Sheet
	default:
		return t.Muted
	}
}

// ToneColor maps a cell tone to its emphasis color.
func (t Theme) ToneColor(tone view.CellTone) lipgloss.AdaptiveColor {
	switch tone {
	case view.TonePositive:
		return t.Positive
	case view.ToneCaution:
		return t.Caution
	case view.ToneNegative:
		return t.Negative
	default:
		return t.Text
	}
}

// RenderSourceBadge returns a short styled provenance badge
func RenderSourceBadge(source model.CardSource, t Theme) string {
	var label string
	switch source {
	case model.SourceSchedule:
		label = "SCHD"
	case model.SourceMission:
		label = "MSSN"
	case model.SourceManual:
		label = "CARD"
	case model.SourceSheet:
		label = "SHEET"
	default:
		label = "????"
	}
	return t.Renderer.NewStyle().
		Foreground(t.SourceColor(source)).
		Bold(true).
		Render(label)
}

// RenderMiniBar renders a mini horizontal bar for a value between 0 and 1
func RenderMiniBar(value float64, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	if value >= 0.75 {
		barColor = t.Positive
	} else if value >= 0.5 {
		barColor = t.Caution
	} else if value >= 0.25 {
		barColor = t.Schedule
	} else {
		barColor = t.Secondary
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderDivider renders a horizontal divider line
func RenderDivider(width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Border).
		Render(strings.Repeat("─", width))
}
