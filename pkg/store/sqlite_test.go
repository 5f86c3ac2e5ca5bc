package store

import (
	"context"
	"path/filepath"
	"testing"

	"deskhub/pkg/access"
	"deskhub/pkg/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "deskhub.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDashboardRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	d := &Dashboard{
		ID:            "dash1",
		Name:          "Crew Workspace",
		Sections:      []string{"General", "Ops"},
		ScheduleTitle: "Crew Schedule",
		MissionTitle:  "Mission Status",
	}
	if err := s.SaveDashboard(ctx, d); err != nil {
		t.Fatalf("save dashboard: %v", err)
	}

	got, err := s.GetDashboard(ctx, "dash1")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if got.Name != "Crew Workspace" || len(got.Sections) != 2 || got.Sections[1] != "Ops" {
		t.Errorf("Unexpected dashboard: %+v", got)
	}

	// Upsert replaces the section list.
	d.Sections = []string{"Ops"}
	if err := s.SaveDashboard(ctx, d); err != nil {
		t.Fatalf("resave dashboard: %v", err)
	}
	got, _ = s.GetDashboard(ctx, "dash1")
	if len(got.Sections) != 1 || got.Sections[0] != "Ops" {
		t.Errorf("Expected replaced sections, got %v", got.Sections)
	}
}

func TestGetDashboard_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetDashboard(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCardRoundTripAndPartialUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := &model.Card{
		ID:     "card1",
		Title:  "Team Links",
		Color:  model.ColorBlue,
		Source: model.SourceManual,
		Settings: model.Settings{
			Category: "Ops",
			ViewMode: model.ViewTable,
		},
		Resources: []model.Block{
			{Name: "Docs", Items: []model.Item{{Title: "Handbook", URL: "https://example.com/h"}}},
		},
		SortOrder: 3,
	}
	if err := s.SaveCard(ctx, "dash1", c); err != nil {
		t.Fatalf("save card: %v", err)
	}

	cards, err := s.ListCards(ctx, "dash1")
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	got := cards[0]
	if got.Source != model.SourceManual {
		t.Errorf("Expected manual source tag, got %s", got.Source)
	}
	if got.Settings.Category != "Ops" || got.Settings.ViewMode != model.ViewTable {
		t.Errorf("Settings lost in round trip: %+v", got.Settings)
	}
	if len(got.Resources) != 1 || got.Resources[0].Items[0].Title != "Handbook" {
		t.Errorf("Resources lost in round trip: %+v", got.Resources)
	}

	// Settings-only update must not touch other fields.
	newSettings := got.Settings
	newSettings.Category = "Docs"
	if err := s.UpdateCardSettings(ctx, "card1", newSettings); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	cards, _ = s.ListCards(ctx, "dash1")
	if cards[0].Settings.Category != "Docs" {
		t.Errorf("Expected updated category, got %q", cards[0].Settings.Category)
	}
	if cards[0].Title != "Team Links" || cards[0].Color != model.ColorBlue {
		t.Errorf("Partial update clobbered other fields: %+v", cards[0])
	}

	if err := s.UpdateCardOrder(ctx, "card1", 7); err != nil {
		t.Fatalf("update order: %v", err)
	}
	cards, _ = s.ListCards(ctx, "dash1")
	if cards[0].SortOrder != 7 {
		t.Errorf("Expected sort order 7, got %d", cards[0].SortOrder)
	}
}

func TestListCards_OrderedBySortKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"c-last", "c-first", "c-mid"} {
		order := []int{2, 0, 1}[i]
		c := &model.Card{ID: id, Title: id, Source: model.SourceManual, SortOrder: order}
		if err := s.SaveCard(ctx, "dash1", c); err != nil {
			t.Fatalf("save card: %v", err)
		}
	}

	cards, err := s.ListCards(ctx, "dash1")
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	want := []string{"c-first", "c-mid", "c-last"}
	for i, id := range want {
		if cards[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, cards[i].ID)
		}
	}
}

func TestWidgetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := &model.Card{
		ID:       "w1",
		Title:    "Budget",
		Source:   model.SourceSheet,
		SheetURL: "https://docs.google.com/spreadsheets/d/abcdefghijklmnopqrstuvwxyz123/edit",
		Settings: model.Settings{ViewMode: model.ViewChart, ChartType: model.ChartBar},
	}
	if err := s.SaveWidget(ctx, "dash1", w); err != nil {
		t.Fatalf("save widget: %v", err)
	}

	widgets, err := s.ListWidgets(ctx, "dash1")
	if err != nil {
		t.Fatalf("list widgets: %v", err)
	}
	if len(widgets) != 1 || widgets[0].Source != model.SourceSheet {
		t.Fatalf("Unexpected widgets: %+v", widgets)
	}
	if widgets[0].Settings.ChartType != model.ChartBar {
		t.Errorf("Widget settings lost: %+v", widgets[0].Settings)
	}

	if err := s.DeleteWidget(ctx, "w1"); err != nil {
		t.Fatalf("delete widget: %v", err)
	}
	widgets, _ = s.ListWidgets(ctx, "dash1")
	if len(widgets) != 0 {
		t.Errorf("Expected no widgets after delete, got %d", len(widgets))
	}
	if err := s.DeleteWidget(ctx, "w1"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestAccessList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.GrantAccess(ctx, "dash1", access.Entry{UserEmail: "a@example.com", Role: "owner"}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := s.GrantAccess(ctx, "dash1", access.Entry{UserID: "u2", Role: "viewer"}); err != nil {
		t.Fatalf("grant: %v", err)
	}

	entries, err := s.ListAccess(ctx, "dash1")
	if err != nil {
		t.Fatalf("list access: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	cap := access.Resolve(&access.User{Email: "A@EXAMPLE.COM"}, entries)
	if !cap.CanEdit {
		t.Error("Owner by email should be edit-capable")
	}
}
