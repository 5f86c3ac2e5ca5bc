package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const helpMarkdown = `# Dashboard Help

## Navigation

| Key | Action |
| --- | --- |
| j/k, ↓/↑ | Move selection |
| g / G | Jump to top / bottom |
| Tab | Next section header |
| / | Fuzzy jump to card |

## Cards

| Key | Action |
| --- | --- |
| c | New manual card |
| w | New sheet widget |
| m | Move mode (j/k reorder, h/l change section) |
| v | Edit view mapping |
| R | Refresh card data |
| a | Reload everything |
| d | Delete card |
| y | Copy sheet URL |

## Sections

| Key | Action |
| --- | --- |
| n | New section |
| r | Rename selected section or group |
| x | Delete selected section |

Press any key to close.
`

// HelpOverlayModel renders the keyboard reference as markdown.
type HelpOverlayModel struct {
	rendered string
	width    int
	height   int
	theme    Theme
}

// NewHelpOverlayModel creates the help overlay with a pre-rendered body.
func NewHelpOverlayModel(theme Theme) HelpOverlayModel {
	m := HelpOverlayModel{theme: theme, width: 80, height: 24}
	m.render(70)
	return m
}

// SetSize sets dimensions and re-renders to the new wrap width.
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	wrap := width - 12
	if wrap < 40 {
		wrap = 40
	}
	if wrap > 78 {
		wrap = 78
	}
	m.render(wrap)
}

func (m *HelpOverlayModel) render(wrap int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.rendered = helpMarkdown
		return
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		m.rendered = helpMarkdown
		return
	}
	m.rendered = strings.TrimRight(out, "\n")
}

// View renders the help overlay centered in the viewport.
func (m HelpOverlayModel) View() string {
	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(0, 2).
		Render(m.rendered)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
