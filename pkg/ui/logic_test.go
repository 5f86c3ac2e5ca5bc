package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskhub/pkg/access"
	"deskhub/pkg/layout"
	"deskhub/pkg/model"
	"deskhub/pkg/store"
)

// keyMsg creates a tea.KeyMsg for testing
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// memStore is an in-memory Store for white-box UI tests.
type memStore struct {
	dash *store.Dashboard
}

func (s *memStore) GetDashboard(ctx context.Context, id string) (*store.Dashboard, error) {
	d := s.dash.Clone()
	return &d, nil
}
func (s *memStore) SaveDashboard(ctx context.Context, d *store.Dashboard) error {
	next := d.Clone()
	s.dash = &next
	return nil
}
func (s *memStore) ListCards(ctx context.Context, dashboardID string) ([]model.Card, error) {
	return nil, nil
}
func (s *memStore) SaveCard(ctx context.Context, dashboardID string, c *model.Card) error {
	return nil
}
func (s *memStore) UpdateCardSettings(ctx context.Context, id string, set model.Settings) error {
	return nil
}
func (s *memStore) UpdateCardOrder(ctx context.Context, id string, order int) error { return nil }
func (s *memStore) DeleteCard(ctx context.Context, id string) error                 { return nil }
func (s *memStore) ListWidgets(ctx context.Context, dashboardID string) ([]model.Card, error) {
	return nil, nil
}
func (s *memStore) SaveWidget(ctx context.Context, dashboardID string, c *model.Card) error {
	return nil
}
func (s *memStore) UpdateWidgetSettings(ctx context.Context, id string, set model.Settings) error {
	return nil
}
func (s *memStore) UpdateWidgetOrder(ctx context.Context, id string, order int) error { return nil }
func (s *memStore) DeleteWidget(ctx context.Context, id string) error                 { return nil }
func (s *memStore) ListAccess(ctx context.Context, dashboardID string) ([]access.Entry, error) {
	return nil, nil
}
func (s *memStore) Close() error { return nil }

func newTestModel(t *testing.T, canEdit bool) DashboardModel {
	t.Helper()

	st := &memStore{dash: &store.Dashboard{
		ID:       "d1",
		Name:     "Test Board",
		Sections: []string{"General", "Ops"},
	}}
	engine := layout.NewEngine(st.dash, st, canEdit, nil)
	engine.SetManual([]model.Card{
		{ID: "m1", Title: "Notes", Source: model.SourceManual,
			Settings: model.Settings{Category: "General"}},
		{ID: "m2", Title: "Links", Source: model.SourceManual,
			Settings: model.Settings{Category: "Ops"}},
	})
	engine.SetWidgets([]model.Card{
		{ID: "w1", Title: "Budget", Source: model.SourceSheet, SheetURL: "https://example.com/sheet",
			Settings: model.Settings{Category: "Ops", ViewMode: model.ViewTable},
			Data: &model.Table{
				Columns: []string{"Item", "Cost"},
				Rows: []model.Row{
					{"Item": "Venue", "Cost": "$1,200"},
					{"Item": "Food", "Cost": "$300"},
				},
			}},
	})

	theme := DefaultTheme(lipgloss.DefaultRenderer())
	m := NewDashboardModel(engine, nil, nil, Options{}, theme, nil)
	m.loading = 0
	m.rebuildEntries()
	return m
}

func update(t *testing.T, m DashboardModel, msg tea.Msg) DashboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	dm, ok := next.(DashboardModel)
	if !ok {
		t.Fatalf("Update returned %T, want DashboardModel", next)
	}
	return dm
}

// White-box testing of UI model logic

func TestRebuildEntries_GroupsAndCards(t *testing.T) {
	m := newTestModel(t, true)

	var headers, cards int
	for _, e := range m.entries {
		if e.header {
			headers++
		} else {
			cards++
		}
	}
	if headers != 2 {
		t.Fatalf("Expected 2 section headers, got %d", headers)
	}
	if cards != 3 {
		t.Errorf("Expected 3 cards, got %d", cards)
	}

	// First entry is always a header.
	if !m.entries[0].header {
		t.Errorf("Expected first entry to be a header")
	}
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, true)

	if m.cursor != 0 {
		t.Fatalf("Expected cursor 0, got %d", m.cursor)
	}

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("j"))
	if m.cursor != 2 {
		t.Errorf("Expected cursor 2 after jj, got %d", m.cursor)
	}

	m = update(t, m, keyMsg("k"))
	if m.cursor != 1 {
		t.Errorf("Expected cursor 1 after k, got %d", m.cursor)
	}

	// k at the top stays put.
	m = update(t, m, keyMsg("k"))
	m = update(t, m, keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("Expected cursor clamped at 0, got %d", m.cursor)
	}
}

func TestJumpToNextHeader(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	sel := m.selected()
	if sel == nil || !sel.header {
		t.Fatalf("Expected tab to land on a header")
	}
	if sel.group != "Ops" {
		t.Errorf("Expected Ops header, got %s", sel.group)
	}
}

func TestCreateSection_ThroughInput(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, keyMsg("n"))
	if m.mode != modeInput {
		t.Fatalf("Expected input mode after n")
	}

	for _, r := range "Docs" {
		m = update(t, m, keyMsg(string(r)))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNormal {
		t.Fatalf("Expected normal mode after enter")
	}
	sections := m.engine.Sections()
	if len(sections) != 3 || sections[2] != "Docs" {
		t.Errorf("Expected [General Ops Docs], got %v", sections)
	}
}

func TestInputEscCancels(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, keyMsg("n"))
	for _, r := range "Temp" {
		m = update(t, m, keyMsg(string(r)))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.mode != modeNormal {
		t.Fatalf("Expected normal mode after esc")
	}
	if len(m.engine.Sections()) != 2 {
		t.Errorf("Expected section list unchanged, got %v", m.engine.Sections())
	}
}

func TestViewOnlySession_BlocksEditModes(t *testing.T) {
	m := newTestModel(t, false)

	for _, key := range []string{"n", "m", "d", "x", "v"} {
		m = update(t, m, keyMsg(key))
		if m.mode != modeNormal {
			t.Fatalf("Expected %q to stay in normal mode for a view-only session", key)
		}
	}
	if m.status == "" {
		t.Errorf("Expected a view-only status message")
	}
}

func TestMoveMode_ChangeSection(t *testing.T) {
	m := newTestModel(t, true)

	// Select m1 (General's only card) and enter move mode.
	m = update(t, m, keyMsg("j"))
	sel := m.selected()
	if sel == nil || sel.card.ID != "m1" {
		t.Fatalf("Expected m1 selected, got %+v", sel)
	}
	m = update(t, m, keyMsg("m"))
	if m.mode != modeMove || m.movingID != "m1" {
		t.Fatalf("Expected move mode on m1")
	}

	// Move it right into Ops.
	m = update(t, m, keyMsg("l"))
	card := m.engine.FindCard("m1")
	if card == nil || card.Settings.Category != "Ops" {
		t.Fatalf("Expected m1 recategorized to Ops")
	}

	// Cursor follows the moved card.
	sel = m.selected()
	if sel == nil || sel.header || sel.card.ID != "m1" {
		t.Errorf("Expected cursor to follow m1")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeNormal || m.movingID != "" {
		t.Errorf("Expected esc to leave move mode")
	}
}

func TestConfirmDelete_AnyOtherKeyCancels(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("d"))
	if m.mode != modeConfirm {
		t.Fatalf("Expected confirm mode after d on a manual card")
	}

	m = update(t, m, keyMsg("x"))
	if m.mode != modeNormal {
		t.Fatalf("Expected cancel on non-confirm key")
	}
	if m.engine.FindCard("m1") == nil {
		t.Errorf("Expected m1 to survive a cancelled delete")
	}
}

func TestConfirmDelete_Confirms(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, keyMsg("j"))
	m = update(t, m, keyMsg("d"))
	m = update(t, m, keyMsg("y"))

	if m.engine.FindCard("m1") != nil {
		t.Errorf("Expected m1 deleted")
	}
}

func TestCardDataMsg_StaleRevisionDropped(t *testing.T) {
	m := newTestModel(t, true)

	fresh := &model.Table{Columns: []string{"A"}, Rows: []model.Row{{"A": "1"}}}
	card := m.engine.FindCard("w1")
	card.Revision = 3

	m = update(t, m, cardDataMsg{cardID: "w1", table: fresh, revision: 2})
	if len(m.engine.FindCard("w1").Data.Columns) != 2 {
		t.Errorf("Expected stale payload dropped")
	}

	m = update(t, m, cardDataMsg{cardID: "w1", table: fresh, revision: 3})
	if len(m.engine.FindCard("w1").Data.Columns) != 1 {
		t.Errorf("Expected fresh payload applied")
	}
}

func TestNeighborCardID_SkipsHeaders(t *testing.T) {
	m := newTestModel(t, true)
	m.movingID = "m1"

	// m1 is the last card in General; the next card downward lives in Ops
	// past its header.
	next := m.neighborCardID(1)
	if next != "m2" {
		t.Errorf("Expected neighbor m2, got %q", next)
	}
	if prev := m.neighborCardID(-1); prev != "" {
		t.Errorf("Expected no upward neighbor, got %q", prev)
	}
}

func TestView_RendersSectionsAndBadges(t *testing.T) {
	m := newTestModel(t, true)
	m.width = 100
	m.height = 40

	out := m.View()
	for _, want := range []string{"Test Board", "General", "Ops", "Notes", "Budget"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestView_SelectedTablePane(t *testing.T) {
	m := newTestModel(t, true)
	m.width = 100
	m.height = 40

	// Walk to w1: General header, m1, Ops header, m2, w1.
	for i := 0; i < 4; i++ {
		m = update(t, m, keyMsg("j"))
	}
	sel := m.selected()
	if sel == nil || sel.card.ID != "w1" {
		t.Fatalf("Expected w1 selected, got %+v", sel)
	}

	out := m.View()
	if !strings.Contains(out, "Venue") {
		t.Errorf("Expected table pane to render row values")
	}
}

func TestSearchOverlay_FuzzyJump(t *testing.T) {
	m := newTestModel(t, true)

	m = update(t, m, keyMsg("/"))
	if m.mode != modeSearch {
		t.Fatalf("Expected search mode")
	}
	for _, r := range "budg" {
		m = update(t, m, keyMsg(string(r)))
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeNormal {
		t.Fatalf("Expected normal mode after enter")
	}
	sel := m.selected()
	if sel == nil || sel.header || sel.card.ID != "w1" {
		t.Errorf("Expected cursor on w1 after search")
	}
}

func TestRenderMiniBar_Clamps(t *testing.T) {
	theme := DefaultTheme(lipgloss.DefaultRenderer())

	full := RenderMiniBar(1.5, 4, theme)
	if !strings.Contains(full, "████") {
		t.Errorf("Expected overfull value clamped to a full bar")
	}
	empty := RenderMiniBar(-1, 4, theme)
	if !strings.Contains(empty, "░░░░") {
		t.Errorf("Expected negative value clamped to an empty bar")
	}
}

func TestMappingForm_SettingsAssembly(t *testing.T) {
	card := model.Card{
		ID:     "w1",
		Title:  "Budget",
		Source: model.SourceSheet,
		Data:   &model.Table{Columns: []string{"Item", "Cost"}},
	}
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	form := NewMappingForm(card, []string{"General"}, theme)

	form.vals.category = "General"
	form.vals.viewMode = string(model.ViewChart)
	form.vals.chartType = string(model.ChartBar)
	form.vals.xCol = "Item"
	form.vals.yCol = "Cost"

	s := form.Settings()
	if s.Category != "General" || s.ViewMode != model.ViewChart || s.ChartType != model.ChartBar {
		t.Errorf("Unexpected settings: %+v", s)
	}
	if s.XAxisCol != "Item" || s.YAxisCol != "Cost" {
		t.Errorf("Unexpected axis mapping: %+v", s)
	}
}

func TestMappingForm_ChartTypeClearedForNonChart(t *testing.T) {
	card := model.Card{ID: "w1", Title: "Budget", Source: model.SourceSheet}
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	form := NewMappingForm(card, nil, theme)

	form.vals.viewMode = string(model.ViewTable)
	form.vals.chartType = string(model.ChartPie)

	s := form.Settings()
	if s.ChartType != "" {
		t.Errorf("Expected chart type cleared for table view, got %q", s.ChartType)
	}
}
