package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"deskhub/pkg/model"
)

// SearchOverlayModel is the fuzzy card jump overlay.
type SearchOverlayModel struct {
	allCards []model.Card
	filtered []model.Card

	searchInput   textinput.Model
	selectedIndex int
	selectedID    string

	width  int
	height int
	theme  Theme
}

// NewSearchOverlay creates the overlay over the current card list.
func NewSearchOverlay(cards []model.Card, theme Theme) SearchOverlayModel {
	ti := textinput.New()
	ti.Placeholder = "Jump to card..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return SearchOverlayModel{
		allCards:    cards,
		filtered:    cards,
		searchInput: ti,
		theme:       theme,
		width:       60,
		height:      20,
	}
}

// SetSize updates the overlay dimensions
func (m *SearchOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles one key press. It returns true when the overlay is done,
// either confirmed (SelectedID non-empty) or cancelled.
func (m *SearchOverlayModel) Update(key string) (done bool) {
	switch key {
	case "esc", "ctrl+c":
		m.selectedID = ""
		return true
	case "enter":
		if len(m.filtered) > 0 && m.selectedIndex < len(m.filtered) {
			m.selectedID = m.filtered[m.selectedIndex].ID
		}
		return true
	case "up", "ctrl+k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case "down", "ctrl+j", "tab":
		if m.selectedIndex < len(m.filtered)-1 {
			m.selectedIndex++
		}
	case "backspace":
		v := m.searchInput.Value()
		if len(v) > 0 {
			m.searchInput.SetValue(v[:len(v)-1])
			m.filter()
		}
	default:
		if len(key) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filter()
		}
	}
	return false
}

// SelectedID returns the confirmed card id, or empty on cancel.
func (m *SearchOverlayModel) SelectedID() string { return m.selectedID }

func (m *SearchOverlayModel) filter() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filtered = m.allCards
		m.selectedIndex = 0
		return
	}

	haystack := make([]string, len(m.allCards))
	for i, c := range m.allCards {
		haystack[i] = c.Title + " " + c.Settings.Category
	}
	matches := fuzzy.Find(query, haystack)

	m.filtered = make([]model.Card, 0, len(matches))
	for _, match := range matches {
		m.filtered = append(m.filtered, m.allCards[match.Index])
	}
	m.selectedIndex = 0
}

// View renders the search overlay centered in the viewport.
func (m SearchOverlayModel) View() string {
	t := m.theme

	boxWidth := 55
	if m.width < 65 {
		boxWidth = m.width - 10
	}
	if boxWidth < 35 {
		boxWidth = 35
	}
	contentWidth := boxWidth - 4

	var lines []string
	titleStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	lines = append(lines, titleStyle.Render("Jump to Card"))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)
	value := m.searchInput.Value()
	if value == "" {
		value = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(value))
	lines = append(lines, "")

	maxVisible := m.height - 12
	if maxVisible < 5 {
		maxVisible = 5
	}
	if maxVisible > 12 {
		maxVisible = 12
	}

	if len(m.filtered) == 0 {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
			Render("  No matching cards"))
	} else {
		for i, c := range m.filtered {
			if i >= maxVisible {
				lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
					Render("  ..."))
				break
			}
			prefix := "  "
			style := t.Renderer.NewStyle().Foreground(t.Text)
			if i == m.selectedIndex {
				prefix = "▸ "
				style = style.Foreground(t.Primary).Bold(true)
			}
			lines = append(lines, prefix+RenderSourceBadge(c.Source, t)+" "+
				style.Render(truncate(c.Title, contentWidth-10)))
		}
	}

	lines = append(lines, "")
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
		Render("enter: jump · esc: cancel"))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
