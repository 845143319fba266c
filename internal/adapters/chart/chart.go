// Package chart renders dashboard bar charts as PNG images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/okian/painel/internal/domain/normalize"
	"github.com/okian/painel/internal/domain/ranking"
	"github.com/okian/painel/internal/domain/sales"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("no data to chart")

var barColor = color.RGBA{R: 26, G: 101, B: 158, A: 255}

// Bar is one labelled value.
type Bar struct {
	Label string
	Value float64
}

// Bars renders a vertical bar chart with value labels above each bar.
func Bars(w io.Writer, title, yLabel string, bars []Bar) error {
	if len(bars) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(bars))
	labels := make([]string, len(bars))
	top := 0.0
	for i, b := range bars {
		values[i] = b.Value
		labels[i] = b.Label
		top = math.Max(top, b.Value)
	}

	bc, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bc.Color = barColor
	bc.LineStyle.Width = vg.Length(0)
	p.Add(bc)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Y.Min = 0
	if top > 0 {
		p.Y.Max = top * 1.15
	}

	xys := make(plotter.XYs, len(bars))
	texts := make([]string, len(bars))
	for i, b := range bars {
		xys[i] = plotter.XY{X: float64(i), Y: b.Value + top*0.02}
		texts[i] = normalize.Decimal(math.Round(b.Value*10) / 10)
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(lbl)

	width := vg.Length(max(len(bars), 6)) * vg.Points(40)
	wt, err := p.WriterTo(width, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// RankingPNG charts the mean of the first limit ranking entries.
func RankingPNG(w io.Writer, title string, entries []ranking.Entry, limit int) error {
	entries = ranking.Top(entries, limit)
	bars := make([]Bar, len(entries))
	for i, e := range entries {
		bars[i] = Bar{Label: fmt.Sprintf("%dº %s", e.Position, e.Unit), Value: e.Mean}
	}
	return Bars(w, title, "Média", bars)
}

// SalesPNG charts the totals of the first limit summaries.
func SalesPNG(w io.Writer, title string, summaries []sales.Summary, limit int) error {
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	bars := make([]Bar, len(summaries))
	for i, s := range summaries {
		bars[i] = Bar{Label: s.Key, Value: s.Total}
	}
	return Bars(w, title, "Total (R$)", bars)
}
