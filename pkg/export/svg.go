// Package export renders computed card presentations to standalone SVG
// files suitable for sharing outside the terminal.
package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"deskhub/pkg/model"
	"deskhub/pkg/view"
)

// Palette used for chart series and slices.
var sliceColors = []string{
	"#BD93F9", "#8BE9FD", "#50FA7B", "#FFB86C", "#FF79C6", "#F1FA8C",
}

const (
	chartBg   = "#282A36"
	chartText = "#F8F8F2"
	chartAxis = "#6272A4"
)

// WriteChartSVG renders a chart presentation to w. The donut variant
// differs from pie only by the inner radius.
func WriteChartSVG(w io.Writer, title string, cp *view.ChartPresentation, width, height int) error {
	if cp == nil {
		return fmt.Errorf("no chart to export")
	}
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 400
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+chartBg)
	canvas.Text(width/2, 28, title,
		"text-anchor:middle;font-family:sans-serif;font-size:16px;fill:"+chartText)

	plot := plotArea{x: 48, y: 48, w: width - 96, h: height - 110}

	switch cp.Type {
	case model.ChartMetric:
		canvas.Text(width/2, height/2+10, formatValue(cp.Metric),
			"text-anchor:middle;font-family:sans-serif;font-size:48px;font-weight:bold;fill:"+sliceColors[0])
	case model.ChartProgress:
		drawProgress(canvas, plot, cp.Points)
	case model.ChartPie:
		drawPie(canvas, width, height, cp.Points, 0)
	case model.ChartDonut:
		drawPie(canvas, width, height, cp.Points, 0.55)
	case model.ChartLine, model.ChartArea:
		drawLine(canvas, plot, cp.Points, cp.Type == model.ChartArea)
	default: // bar
		drawBars(canvas, plot, cp.Points)
	}

	canvas.End()
	return nil
}

type plotArea struct{ x, y, w, h int }

func maxValue(points []view.Point) float64 {
	max := 0.0
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	return max
}

func drawBars(canvas *svg.SVG, plot plotArea, points []view.Point) {
	if len(points) == 0 {
		return
	}
	max := maxValue(points)
	if max == 0 {
		max = 1
	}

	slot := plot.w / len(points)
	barW := slot * 3 / 4
	for i, p := range points {
		barH := int(p.Value / max * float64(plot.h))
		x := plot.x + i*slot + (slot-barW)/2
		y := plot.y + plot.h - barH
		canvas.Rect(x, y, barW, barH, "fill:"+sliceColors[i%len(sliceColors)])
		canvas.Text(x+barW/2, plot.y+plot.h+16, truncateLabel(p.Label),
			"text-anchor:middle;font-family:sans-serif;font-size:10px;fill:"+chartText)
	}
	canvas.Line(plot.x, plot.y+plot.h, plot.x+plot.w, plot.y+plot.h, "stroke:"+chartAxis+";stroke-width:1")
}

func drawLine(canvas *svg.SVG, plot plotArea, points []view.Point, filled bool) {
	if len(points) == 0 {
		return
	}
	max := maxValue(points)
	if max == 0 {
		max = 1
	}

	xs := make([]int, len(points))
	ys := make([]int, len(points))
	step := 0
	if len(points) > 1 {
		step = plot.w / (len(points) - 1)
	}
	for i, p := range points {
		xs[i] = plot.x + i*step
		ys[i] = plot.y + plot.h - int(p.Value/max*float64(plot.h))
	}

	if filled {
		fx := append(append([]int{}, xs...), xs[len(xs)-1], xs[0])
		fy := append(append([]int{}, ys...), plot.y+plot.h, plot.y+plot.h)
		canvas.Polygon(fx, fy, "fill:"+sliceColors[0]+";fill-opacity:0.35;stroke:none")
	}
	canvas.Polyline(xs, ys, "fill:none;stroke:"+sliceColors[0]+";stroke-width:2")
	canvas.Line(plot.x, plot.y+plot.h, plot.x+plot.w, plot.y+plot.h, "stroke:"+chartAxis+";stroke-width:1")
}

func drawProgress(canvas *svg.SVG, plot plotArea, points []view.Point) {
	if len(points) == 0 {
		return
	}
	rowH := plot.h / len(points)
	barH := rowH * 2 / 3
	for i, p := range points {
		y := plot.y + i*rowH
		canvas.Text(plot.x, y+barH-4, truncateLabel(p.Label),
			"font-family:sans-serif;font-size:11px;fill:"+chartText)
		barX := plot.x + 120
		barW := plot.w - 120
		canvas.Rect(barX, y, barW, barH, "fill:#44475A")
		fill := int(p.Percent / 100 * float64(barW))
		canvas.Rect(barX, y, fill, barH, "fill:"+sliceColors[i%len(sliceColors)])
		canvas.Text(barX+barW+4, y+barH-4, fmt.Sprintf("%.0f%%", p.Percent),
			"font-family:sans-serif;font-size:10px;fill:"+chartText)
	}
}

func drawPie(canvas *svg.SVG, width, height int, points []view.Point, innerRatio float64) {
	cx, cy := width/2, height/2+16
	r := height/2 - 70
	if r < 40 {
		r = 40
	}

	var total float64
	for _, p := range points {
		total += p.Value
	}
	if total == 0 {
		return
	}

	angle := -math.Pi / 2 // start at twelve o'clock
	for i, p := range points {
		sweep := p.Value / total * 2 * math.Pi
		if sweep == 0 {
			continue
		}
		x1 := float64(cx) + float64(r)*math.Cos(angle)
		y1 := float64(cy) + float64(r)*math.Sin(angle)
		angle += sweep
		x2 := float64(cx) + float64(r)*math.Cos(angle)
		y2 := float64(cy) + float64(r)*math.Sin(angle)

		large := 0
		if sweep > math.Pi {
			large = 1
		}
		d := fmt.Sprintf("M%d,%d L%.1f,%.1f A%d,%d 0 %d,1 %.1f,%.1f Z",
			cx, cy, x1, y1, r, r, large, x2, y2)
		canvas.Path(d, "fill:"+sliceColors[i%len(sliceColors)])
	}

	if innerRatio > 0 {
		canvas.Circle(cx, cy, int(float64(r)*innerRatio), "fill:"+chartBg)
	}
}

func truncateLabel(s string) string {
	const max = 18
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
