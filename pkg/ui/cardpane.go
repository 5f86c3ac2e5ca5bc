package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"deskhub/pkg/model"
	"deskhub/pkg/view"
)

// paneRowLimit caps how many table/grid rows the inline detail pane shows.
const paneRowLimit = 10

// RenderCardPane renders the detail pane for the selected card.
func RenderCardPane(card model.Card, width int, t Theme) string {
	if width < 20 {
		width = 20
	}

	switch card.Source {
	case model.SourceSchedule:
		return renderFields(card.Fields, width, t)
	case model.SourceMission:
		return renderMission(card.Mission, width, t)
	case model.SourceManual:
		var parts []string
		if res := renderResources(card.Resources, width, t); res != "" {
			parts = append(parts, res)
		}
		if card.DataBearing() {
			parts = append(parts, renderPresentation(card, width, t))
		}
		if len(parts) == 0 {
			return t.Renderer.NewStyle().Foreground(t.Subtext).Render("empty card")
		}
		return strings.Join(parts, "\n")
	default:
		return renderPresentation(card, width, t)
	}
}

func renderFields(fields model.Row, width int, t Theme) string {
	if len(fields) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no details")
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	var b strings.Builder
	for i, k := range keys {
		v := fields[k]
		if strings.TrimSpace(v) == "" {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(keyStyle.Render(k+": ") + truncate(v, width-len(k)-2))
	}
	return b.String()
}

func renderMission(s *model.MissionSummary, width int, t Theme) string {
	if s == nil {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no mission data")
	}

	var b strings.Builder
	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	frac := 0.0
	if s.TotalSlots > 0 {
		frac = float64(s.FilledSlots) / float64(s.TotalSlots)
	}
	b.WriteString(fmt.Sprintf("%s %d/%d filled (%.0f%%), %d open\n",
		RenderMiniBar(frac, barWidth, t), s.FilledSlots, s.TotalSlots, s.PercentFilled, s.OpenSlots))

	nameStyle := t.Renderer.NewStyle().Foreground(t.Text)
	for _, trip := range s.Trips {
		tf := 0.0
		if trip.Slots > 0 {
			tf = float64(trip.Filled) / float64(trip.Slots)
		}
		b.WriteString(fmt.Sprintf("  %s %s %d/%d\n",
			nameStyle.Render(runewidth.FillRight(truncate(trip.Name, 20), 20)),
			RenderMiniBar(tf, 10, t), trip.Filled, trip.Slots))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderResources(blocks []model.Block, width int, t Theme) string {
	if len(blocks) == 0 {
		return ""
	}
	nameStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
	linkStyle := t.Renderer.NewStyle().Foreground(t.Schedule).Underline(true)

	var b strings.Builder
	for bi, block := range blocks {
		if bi > 0 {
			b.WriteString("\n")
		}
		b.WriteString(nameStyle.Render(block.Name))
		for _, item := range block.Items {
			b.WriteString("\n  " + truncate(item.Title, width-4))
			if item.URL != "" {
				b.WriteString(" " + linkStyle.Render("↗"))
			}
		}
	}
	return b.String()
}

func renderPresentation(card model.Card, width int, t Theme) string {
	p := view.Compute(&card)
	switch p.Mode {
	case model.ViewTable:
		return renderTable(p.Table, width, t)
	case model.ViewCard:
		return renderGrid(p.Grid, width, t)
	case model.ViewChart:
		return renderChart(p.Chart, width, t)
	default:
		if card.Data.Empty() {
			return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no data loaded · R to refresh")
		}
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no view configured · v to set one")
	}
}

func renderTable(tp *view.TablePresentation, width int, t Theme) string {
	if tp == nil || len(tp.Columns) == 0 {
		return ""
	}

	// Distribute the width evenly across columns.
	colWidth := (width - len(tp.Columns)) / len(tp.Columns)
	if colWidth < 6 {
		colWidth = 6
	}

	headStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Secondary)
	var b strings.Builder
	for i, col := range tp.Columns {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(headStyle.Render(runewidth.FillRight(truncate(col, colWidth), colWidth)))
	}

	rows := tp.Rows
	extra := 0
	if len(rows) > paneRowLimit {
		extra = len(rows) - paneRowLimit
		rows = rows[:paneRowLimit]
	}

	for _, row := range rows {
		b.WriteString("\n")
		for i, cell := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			style := t.Renderer.NewStyle().Foreground(t.ToneColor(cell.Tone))
			if cell.Link {
				style = style.Underline(true)
			}
			b.WriteString(style.Render(runewidth.FillRight(truncate(cell.Value, colWidth), colWidth)))
		}
	}
	if extra > 0 {
		b.WriteString("\n" + t.Renderer.NewStyle().Foreground(t.Subtext).
			Render(fmt.Sprintf("… %d more rows", extra)))
	}
	return b.String()
}

func renderGrid(gp *view.GridPresentation, width int, t Theme) string {
	if gp == nil || len(gp.Items) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no items · check the title column mapping")
	}

	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Text)
	subStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	tagStyle := t.Renderer.NewStyle().Foreground(t.Mission)

	items := gp.Items
	extra := 0
	if len(items) > paneRowLimit {
		extra = len(items) - paneRowLimit
		items = items[:paneRowLimit]
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		line := titleStyle.Render(truncate(item.Title, width-12))
		if item.Tag != "" {
			line += " " + tagStyle.Render("["+item.Tag+"]")
		}
		b.WriteString(line)
		if item.Subtitle != "" {
			b.WriteString("\n  " + subStyle.Render(truncate(item.Subtitle, width-4)))
		}
		for _, f := range item.Extras {
			b.WriteString("\n  " + subStyle.Render(f.Name+": ") + truncate(f.Value, width-len(f.Name)-6))
		}
	}
	if extra > 0 {
		b.WriteString("\n" + subStyle.Render(fmt.Sprintf("… %d more", extra)))
	}
	return b.String()
}

func renderChart(cp *view.ChartPresentation, width int, t Theme) string {
	if cp == nil {
		return ""
	}

	switch cp.Type {
	case model.ChartMetric:
		return t.Renderer.NewStyle().Bold(true).Foreground(t.Primary).
			Render(formatMetric(cp.Metric))

	case model.ChartProgress:
		return renderPointBars(cp.Points, width, t, func(p view.Point) (float64, string) {
			return p.Percent / 100, fmt.Sprintf("%.0f%%", p.Percent)
		})

	case model.ChartPie, model.ChartDonut:
		return renderPointBars(cp.Points, width, t, func(p view.Point) (float64, string) {
			return p.Percent / 100, fmt.Sprintf("%s (%.1f%%)", formatMetric(p.Value), p.Percent)
		})

	default: // bar, line, area
		var max float64
		for _, p := range cp.Points {
			if p.Value > max {
				max = p.Value
			}
		}
		return renderPointBars(cp.Points, width, t, func(p view.Point) (float64, string) {
			frac := 0.0
			if max > 0 {
				frac = p.Value / max
			}
			return frac, formatMetric(p.Value)
		})
	}
}

func renderPointBars(points []view.Point, width int, t Theme,
	project func(view.Point) (float64, string)) string {

	if len(points) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Render("no points")
	}

	labelWidth := 16
	barWidth := width - labelWidth - 14
	if barWidth < 8 {
		barWidth = 8
	}
	labelStyle := t.Renderer.NewStyle().Foreground(t.Text)
	valStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	shown := points
	extra := 0
	if len(shown) > paneRowLimit {
		extra = len(shown) - paneRowLimit
		shown = shown[:paneRowLimit]
	}

	var b strings.Builder
	for i, p := range shown {
		if i > 0 {
			b.WriteString("\n")
		}
		frac, valText := project(p)
		b.WriteString(labelStyle.Render(runewidth.FillRight(truncate(p.Label, labelWidth), labelWidth)))
		b.WriteString(" " + RenderMiniBar(frac, barWidth, t))
		b.WriteString(" " + valStyle.Render(valText))
	}
	if extra > 0 {
		b.WriteString("\n" + valStyle.Render(fmt.Sprintf("… %d more", extra)))
	}
	return b.String()
}

// renderPreviewLine renders the inline sparkline shown next to a card's
// title when it opted into a dashboard preview.
func renderPreviewLine(card model.Card, t Theme) string {
	points := view.DashboardPreview(&card)
	if len(points) == 0 {
		return ""
	}

	var max float64
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}

	levels := []rune("▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, p := range points {
		idx := 0
		if max > 0 {
			idx = int(p.Value / max * float64(len(levels)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(levels) {
			idx = len(levels) - 1
		}
		b.WriteRune(levels[idx])
	}
	return t.Renderer.NewStyle().Foreground(t.Secondary).Render(b.String())
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, max int) string {
	if max < 1 {
		max = 1
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	return runewidth.Truncate(s, max, "…")
}
