package view

import (
	"testing"

	"deskhub/pkg/model"
)

func TestCleanNumber_Total(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"$1,234.50", 1234.5},
		{"", 0},
		{nil, 0},
		{"5", 5},
		{"  42  ", 42},
		{"€99,000", 99000},
		{"-3.5", -3.5},
		{"garbage", 0},
		{"12abc", 0},
		{3.25, 3.25},
		{7, 7},
		{true, 0},
	}

	for _, c := range cases {
		if got := CleanNumber(c.in); got != c.want {
			t.Errorf("CleanNumber(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		in   string
		want CellTone
	}{
		{"Done", TonePositive},
		{"PAID", TonePositive},
		{"active", TonePositive},
		{"Pending", ToneCaution},
		{"In Progress", ToneCaution},
		{"Cancelled", ToneNegative},
		{"overdue", ToneNegative},
		{"banana", ToneNeutral},
		{"", ToneNeutral},
	}
	for _, c := range cases {
		if got := ClassifyStatus(c.in); got != c.want {
			t.Errorf("ClassifyStatus(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func chartCard(chartType model.ChartType, rows []model.Row, columns []string) *model.Card {
	return &model.Card{
		ID:     "w1",
		Title:  "Widget",
		Source: model.SourceSheet,
		Settings: model.Settings{
			ViewMode:  model.ViewChart,
			ChartType: chartType,
			XAxisCol:  "X",
			YAxisCol:  "Y",
		},
		Data: &model.Table{Columns: columns, Rows: rows},
	}
}

func TestCompute_MetricSumsCoercedValues(t *testing.T) {
	card := chartCard(model.ChartMetric, []model.Row{
		{"Y": "$10"},
		{"Y": "5"},
		{"Y": ""},
	}, []string{"Y"})
	card.Settings.YAxisCol = "Y"
	card.Settings.XAxisCol = ""

	p := Compute(card)
	if p.Chart == nil {
		t.Fatal("Expected chart presentation")
	}
	if p.Chart.Metric != 15 {
		t.Errorf("Expected metric 15, got %v", p.Chart.Metric)
	}
}

func TestCompute_ProgressPercentages(t *testing.T) {
	card := chartCard(model.ChartProgress, []model.Row{
		{"X": "a", "Y": "50"},
		{"X": "b", "Y": "100"},
	}, []string{"X", "Y"})

	p := Compute(card)
	if p.Chart == nil || len(p.Chart.Points) != 2 {
		t.Fatalf("Expected 2 progress points, got %+v", p.Chart)
	}
	if p.Chart.Points[0].Percent != 50 {
		t.Errorf("Row a: expected 50%%, got %v", p.Chart.Points[0].Percent)
	}
	if p.Chart.Points[1].Percent != 100 {
		t.Errorf("Row b: expected 100%%, got %v", p.Chart.Points[1].Percent)
	}
}

func TestCompute_ProgressZeroMax(t *testing.T) {
	card := chartCard(model.ChartProgress, []model.Row{
		{"X": "a", "Y": "0"},
		{"X": "b", "Y": "nope"},
	}, []string{"X", "Y"})

	p := Compute(card)
	for _, pt := range p.Chart.Points {
		if pt.Percent != 0 {
			t.Errorf("Expected 0%% when max is 0, got %v", pt.Percent)
		}
	}
}

func TestCompute_PieSlices(t *testing.T) {
	card := chartCard(model.ChartPie, []model.Row{
		{"X": "alpha", "Y": "25"},
		{"X": "beta", "Y": "75"},
	}, []string{"X", "Y"})

	p := Compute(card)
	if len(p.Chart.Points) != 2 {
		t.Fatalf("Expected one slice per row, got %d", len(p.Chart.Points))
	}
	if p.Chart.Points[0].Label != "alpha" || p.Chart.Points[0].Value != 25 {
		t.Errorf("Unexpected slice: %+v", p.Chart.Points[0])
	}
	if p.Chart.Points[1].Percent != 75 {
		t.Errorf("Expected beta slice at 75%%, got %v", p.Chart.Points[1].Percent)
	}
}

func TestCompute_TableTonesAndLinks(t *testing.T) {
	card := &model.Card{
		ID:       "c1",
		Title:    "Tracker",
		Source:   model.SourceSheet,
		Settings: model.Settings{ViewMode: model.ViewTable},
		Data: &model.Table{
			Columns: []string{"Name", "Status", "Link"},
			Rows: []model.Row{
				{"Name": "a", "Status": "Done", "Link": "https://example.com/x"},
				{"Name": "b", "Status": "Overdue", "Link": "not a url"},
			},
		},
	}

	p := Compute(card)
	if p.Table == nil {
		t.Fatal("Expected table presentation")
	}
	if p.Table.Rows[0][1].Tone != TonePositive {
		t.Error("Done should be positive tone")
	}
	if p.Table.Rows[1][1].Tone != ToneNegative {
		t.Error("Overdue should be negative tone")
	}
	if !p.Table.Rows[0][2].Link {
		t.Error("URL cell should be marked as link")
	}
	if p.Table.Rows[1][2].Link {
		t.Error("Non-URL cell should not be marked as link")
	}
	// Values are tagged, never altered.
	if p.Table.Rows[0][1].Value != "Done" {
		t.Errorf("Cell value mutated: %q", p.Table.Rows[0][1].Value)
	}
}

func TestCompute_GridExcludesRowsWithoutTitle(t *testing.T) {
	card := &model.Card{
		ID:     "c1",
		Title:  "People",
		Source: model.SourceSheet,
		Settings: model.Settings{
			ViewMode:    model.ViewCard,
			TitleCol:    "Name",
			SubtitleCol: "Role",
			TagCol:      "Team",
			ExtraFields: []string{"Email"},
		},
		Data: &model.Table{
			Columns: []string{"Name", "Role", "Team", "Email"},
			Rows: []model.Row{
				{"Name": "Ada", "Role": "Eng", "Team": "Core", "Email": "ada@x.io"},
				{"Name": "  ", "Role": "Ghost"},
				{"Name": "Lin", "Role": "PM", "Team": "Apps", "Email": "lin@x.io"},
			},
		},
	}

	p := Compute(card)
	if p.Grid == nil || len(p.Grid.Items) != 2 {
		t.Fatalf("Expected 2 grid items, got %+v", p.Grid)
	}
	first := p.Grid.Items[0]
	if first.Title != "Ada" || first.Subtitle != "Eng" || first.Tag != "Core" {
		t.Errorf("Unexpected grid item: %+v", first)
	}
	if len(first.Extras) != 1 || first.Extras[0].Value != "ada@x.io" {
		t.Errorf("Unexpected extras: %+v", first.Extras)
	}
}

func TestCompute_NoDataYieldsNone(t *testing.T) {
	card := &model.Card{
		ID: "c1", Title: "Empty", Source: model.SourceManual,
		Settings: model.Settings{ViewMode: model.ViewTable},
	}
	p := Compute(card)
	if p.Mode != model.ViewNone || p.Table != nil {
		t.Errorf("Expected empty presentation, got %+v", p)
	}
}

func TestDashboardPreview(t *testing.T) {
	rows := make([]model.Row, 20)
	for i := range rows {
		rows[i] = model.Row{"X": "r", "Y": "1"}
	}
	card := chartCard(model.ChartBar, rows, []string{"X", "Y"})
	card.Settings.ShowOnDashboard = true

	pts := DashboardPreview(card)
	if len(pts) != PreviewRowLimit {
		t.Errorf("Expected preview capped at %d rows, got %d", PreviewRowLimit, len(pts))
	}

	card.Settings.YAxisCol = ""
	if pts := DashboardPreview(card); pts != nil {
		t.Error("Expected no preview without y column")
	}

	card.Settings.YAxisCol = "Y"
	card.Settings.ShowOnDashboard = false
	if pts := DashboardPreview(card); pts != nil {
		t.Error("Expected no preview when flag is off")
	}
}
