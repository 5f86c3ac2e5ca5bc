package cards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"deskhub/pkg/ingest"
	"deskhub/pkg/model"
	"deskhub/pkg/store"
)

func TestBuildScheduleCards_DiscardsUnlabeledRows(t *testing.T) {
	table := &model.Table{
		Columns: []string{"Name", "Shift"},
		Rows: []model.Row{
			{"Name": "Ada", "Shift": "early"},
			{"Name": "", "Shift": "late"},
			{"Name": "  ", "Shift": "late"},
			{"Name": "Lin", "Shift": "night"},
		},
	}

	got := BuildScheduleCards(table, "Name")
	if len(got) != 2 {
		t.Fatalf("Expected 2 schedule cards, got %d", len(got))
	}
	if got[0].Title != "Ada" || got[1].Title != "Lin" {
		t.Errorf("Unexpected titles: %s, %s", got[0].Title, got[1].Title)
	}
	for _, c := range got {
		if c.Source != model.SourceSchedule {
			t.Errorf("Card %s has wrong source %s", c.ID, c.Source)
		}
	}
	if got[1].Fields["Shift"] != "night" {
		t.Errorf("Row fields not carried: %v", got[1].Fields)
	}
}

func TestBuildMissionCard_Aggregate(t *testing.T) {
	table := &model.Table{
		Columns: []string{"Trip", "Slots", "Filled"},
		Rows: []model.Row{
			{"Trip": "North Ridge", "Slots": "10", "Filled": "7"},
			{"Trip": "", "Slots": "5", "Filled": "5"},      // no name: dropped
			{"Trip": "Summit", "Slots": "", "Filled": "2"}, // no slot count: dropped
			{"Trip": "Basecamp", "Slots": "10", "Filled": "8"},
		},
	}

	card := BuildMissionCard(table)
	if card == nil {
		t.Fatal("Expected mission card")
	}
	if card.ID != model.MissionCardID || card.Source != model.SourceMission {
		t.Errorf("Unexpected identity: %s/%s", card.ID, card.Source)
	}

	m := card.Mission
	if len(m.Trips) != 2 {
		t.Fatalf("Expected 2 trips after filtering, got %d", len(m.Trips))
	}
	if m.TotalSlots != 20 || m.FilledSlots != 15 || m.OpenSlots != 5 {
		t.Errorf("Unexpected slot totals: %+v", m)
	}
	if m.PercentFilled != 75 {
		t.Errorf("Expected 75%% filled, got %v", m.PercentFilled)
	}
	if m.Trips[0].Open != 3 {
		t.Errorf("Expected 3 open slots on first trip, got %d", m.Trips[0].Open)
	}
}

func TestBuildMissionCard_EmptyTable(t *testing.T) {
	if card := BuildMissionCard(nil); card != nil {
		t.Error("Expected nil card for nil table")
	}
	table := &model.Table{
		Columns: []string{"Trip", "Slots"},
		Rows:    []model.Row{{"Trip": "", "Slots": ""}},
	}
	if card := BuildMissionCard(table); card != nil {
		t.Error("Expected nil card when no row survives filtering")
	}
}

// testEnv serves fixed CSV bodies and returns a loader backed by a fresh
// store. The returned base URL is used to build widget sheet URLs.
func testEnv(t *testing.T, csvByPath map[string]string) (*Loader, *store.SQLiteStore, string) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := csvByPath[r.URL.Path]
		if !ok {
			http.Error(w, "missing", http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	st, err := store.OpenSQLite(t.TempDir() + "/deskhub.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	l := NewLoader(st, ingest.NewClient(nil), "Resources", nil)
	l.SetSettleDelay(0)
	return l, st, srv.URL
}

func TestLoadWidgets_ConcurrentIngestAndFallbackCategory(t *testing.T) {
	l, st, base := testEnv(t, map[string]string{
		"/a.csv": "X,Y\nfoo,1\nbar,2\n",
		"/b.csv": "X,Y\nbaz,3\n",
	})
	ctx := context.Background()

	w1 := &model.Card{ID: "w1", Title: "A", Source: model.SourceSheet, SheetURL: base + "/a.csv"}
	w2 := &model.Card{
		ID: "w2", Title: "B", Source: model.SourceSheet, SheetURL: base + "/b.csv",
		Settings: model.Settings{Category: "Ops"},
	}
	w3 := &model.Card{ID: "w3", Title: "C", Source: model.SourceSheet, SheetURL: base + "/missing.csv"}
	for _, w := range []*model.Card{w1, w2, w3} {
		if err := st.SaveWidget(ctx, "dash1", w); err != nil {
			t.Fatalf("save widget: %v", err)
		}
	}

	widgets, err := l.LoadWidgets(ctx, "dash1", "")
	if err != nil {
		t.Fatalf("LoadWidgets failed: %v", err)
	}
	if len(widgets) != 3 {
		t.Fatalf("Expected 3 widgets, got %d", len(widgets))
	}

	byID := map[string]model.Card{}
	for _, w := range widgets {
		byID[w.ID] = w
	}

	if byID["w1"].Data == nil || len(byID["w1"].Data.Rows) != 2 {
		t.Errorf("w1 data not ingested: %+v", byID["w1"].Data)
	}
	if byID["w1"].Settings.Category != "Resources" {
		t.Errorf("w1 should default to fallback section, got %q", byID["w1"].Settings.Category)
	}
	if byID["w2"].Settings.Category != "Ops" {
		t.Errorf("w2 category should be preserved, got %q", byID["w2"].Settings.Category)
	}
	// Failed fetch is contained: the widget surfaces without data.
	if byID["w3"].Data != nil {
		t.Error("w3 should have no data after failed fetch")
	}
}

func TestRefreshCard_NonDataBearing(t *testing.T) {
	l, _, _ := testEnv(t, nil)
	card := &model.Card{ID: "c1", Title: "Plain", Source: model.SourceManual}

	table, err := l.RefreshCard(context.Background(), card, "")
	if err != nil {
		t.Fatalf("RefreshCard failed: %v", err)
	}
	if table != nil {
		t.Error("Expected no table for a card without a sheet URL")
	}
}

func TestRefreshCard_ManualWithSheet(t *testing.T) {
	l, _, base := testEnv(t, map[string]string{"/m.csv": "A\n1\n"})
	card := &model.Card{
		ID: "c1", Title: "Promoted", Source: model.SourceManual,
		SheetURL: base + "/m.csv",
	}

	table, err := l.RefreshCard(context.Background(), card, "")
	if err != nil {
		t.Fatalf("RefreshCard failed: %v", err)
	}
	if table == nil || len(table.Rows) != 1 {
		t.Errorf("Expected ingested table, got %+v", table)
	}
}
