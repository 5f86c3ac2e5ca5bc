// Package view transforms a card's ingested table into the presentation its
// view configuration declares: a verbatim table, a card grid, or one of the
// chart variants.
package view

import (
	"strings"

	"gonum.org/v1/gonum/floats"

	"deskhub/pkg/model"
)

// PreviewRowLimit caps the miniature inline chart rendered behind a card's
// summary tile on the dashboard.
const PreviewRowLimit = 15

// Presentation is the computed render form of one card's data. Exactly one
// of Table, Grid, or Chart is set, matching Mode.
type Presentation struct {
	Mode  model.ViewMode
	Table *TablePresentation
	Grid  *GridPresentation
	Chart *ChartPresentation
}

// TablePresentation renders all rows and columns verbatim, with status-like
// values tagged for emphasis and URL cells marked as links.
type TablePresentation struct {
	Columns []string
	Rows    [][]Cell
}

// Cell is one rendered table cell
type Cell struct {
	Value string
	Tone  CellTone
	Link  bool
}

// GridPresentation renders each surviving row as one visual card.
type GridPresentation struct {
	Items []GridItem
}

// GridItem is one card of the card-grid presentation
type GridItem struct {
	Title    string
	Subtitle string
	Tag      string
	Extras   []Field
}

// Field is a labeled extra value on a grid item
type Field struct {
	Name  string
	Value string
}

// ChartPresentation is the computed data behind any chart variant.
type ChartPresentation struct {
	Type   model.ChartType
	Metric float64 // ChartMetric only: sum over the y column
	Points []Point // every other variant
}

// Point is one category/value pair of a chart series. Percent is populated
// for progress charts (share of the max) and pie/donut slices (share of the
// total).
type Point struct {
	Label   string
	Value   float64
	Percent float64
}

// Compute derives the presentation a card currently renders as. Cards
// without data or without a view mode yield a zero presentation.
func Compute(card *model.Card) Presentation {
	p := Presentation{Mode: card.Settings.ViewMode}
	if card.Data.Empty() {
		p.Mode = model.ViewNone
		return p
	}

	switch card.Settings.ViewMode {
	case model.ViewTable:
		p.Table = computeTable(card.Data)
	case model.ViewCard:
		p.Grid = computeGrid(card.Data, card.Settings)
	case model.ViewChart:
		p.Chart = computeChart(card.Data, card.Settings)
	default:
		p.Mode = model.ViewNone
	}
	return p
}

func computeTable(t *model.Table) *TablePresentation {
	tp := &TablePresentation{Columns: t.Columns}
	for _, row := range t.Rows {
		cells := make([]Cell, len(t.Columns))
		for i, col := range t.Columns {
			v := row[col]
			cells[i] = Cell{
				Value: v,
				Tone:  ClassifyStatus(v),
				Link:  IsURL(v),
			}
		}
		tp.Rows = append(tp.Rows, cells)
	}
	return tp
}

func computeGrid(t *model.Table, s model.Settings) *GridPresentation {
	if s.TitleCol == "" {
		return &GridPresentation{}
	}

	gp := &GridPresentation{}
	for _, row := range t.Rows {
		title := strings.TrimSpace(row[s.TitleCol])
		if title == "" {
			continue // rows without a title are excluded, not rendered blank
		}
		item := GridItem{Title: title}
		if s.SubtitleCol != "" {
			item.Subtitle = row[s.SubtitleCol]
		}
		if s.TagCol != "" {
			item.Tag = row[s.TagCol]
		}
		for _, f := range s.ExtraFields {
			item.Extras = append(item.Extras, Field{Name: f, Value: row[f]})
		}
		gp.Items = append(gp.Items, item)
	}
	return gp
}

func computeChart(t *model.Table, s model.Settings) *ChartPresentation {
	cp := &ChartPresentation{Type: s.ChartType}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = CleanNumber(row[s.YAxisCol])
	}

	switch s.ChartType {
	case model.ChartMetric:
		if len(values) > 0 {
			cp.Metric = floats.Sum(values)
		}
		return cp

	case model.ChartProgress:
		var max float64
		if len(values) > 0 {
			max = floats.Max(values)
		}
		for i, row := range t.Rows {
			pct := 0.0
			if max > 0 {
				pct = values[i] / max * 100
			}
			cp.Points = append(cp.Points, Point{
				Label:   row[s.XAxisCol],
				Value:   values[i],
				Percent: pct,
			})
		}
		return cp

	case model.ChartPie, model.ChartDonut:
		var total float64
		if len(values) > 0 {
			total = floats.Sum(values)
		}
		for i, row := range t.Rows {
			pct := 0.0
			if total > 0 {
				pct = values[i] / total * 100
			}
			cp.Points = append(cp.Points, Point{
				Label:   row[s.XAxisCol],
				Value:   values[i],
				Percent: pct,
			})
		}
		return cp

	default: // bar, line, area
		for i, row := range t.Rows {
			cp.Points = append(cp.Points, Point{
				Label: row[s.XAxisCol],
				Value: values[i],
			})
		}
		return cp
	}
}

// DashboardPreview computes the miniature inline series shown behind a
// card's summary tile. It returns nil when the card is not a chart, has no
// data, or has no y column; absence suppresses the preview without error.
func DashboardPreview(card *model.Card) []Point {
	s := card.Settings
	if !s.ShowOnDashboard || s.ViewMode != model.ViewChart {
		return nil
	}
	if card.Data.Empty() || s.YAxisCol == "" {
		return nil
	}

	rows := card.Data.Rows
	if len(rows) > PreviewRowLimit {
		rows = rows[:PreviewRowLimit]
	}

	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, Point{
			Label: row[s.XAxisCol],
			Value: CleanNumber(row[s.YAxisCol]),
		})
	}
	return points
}
