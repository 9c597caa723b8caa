// Package report renders importance scores as charts and text tables.
package report

import (
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/interactlab/importance"
	"github.com/YuminosukeSato/interactlab/pkg/errors"
)

const (
	chartWidth = 6 * vg.Inch
	barWidth   = 12 // points
)

var barColor = color.RGBA{R: 50, G: 90, B: 170, A: 255}

// errorPoints pairs bar positions with ±Std error bars.
type errorPoints struct {
	plotter.XYs
	plotter.XErrors
}

// newBarPlot draws one horizontal bar per score with the first score on top.
func newBarPlot(title string, scores []importance.Score) (*plot.Plot, vg.Length, error) {
	const op = "report.BarChart"
	if len(scores) == 0 {
		return nil, 0, errors.NewValueError(op, "no scores to plot")
	}

	n := len(scores)
	values := make(plotter.Values, n)
	labels := make([]string, n)
	points := errorPoints{
		XYs:     make(plotter.XYs, n),
		XErrors: make(plotter.XErrors, n),
	}
	for i, s := range scores {
		// NominalY は下から並べるので逆順に置く
		k := n - 1 - i
		values[k] = s.Mean
		labels[k] = s.Name
		points.XYs[k] = plotter.XY{X: s.Mean, Y: float64(k)}
		points.XErrors[k].Low = s.Std
		points.XErrors[k].High = s.Std
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "importance"

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build bar chart")
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	errBars, err := plotter.NewXErrorBars(points)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to build error bars")
	}
	p.Add(errBars)
	p.NominalY(labels...)

	height := vg.Length(n)*vg.Points(barWidth+6) + 1.5*vg.Inch
	if height < 3*vg.Inch {
		height = 3 * vg.Inch
	}
	return p, height, nil
}

// BarChart writes a horizontal bar chart of scores to w. format is any
// format gonum/plot supports, e.g. "png", "svg" or "pdf".
func BarChart(w io.Writer, title string, scores []importance.Score, format string) error {
	p, height, err := newBarPlot(title, scores)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(chartWidth, height, strings.ToLower(format))
	if err != nil {
		return errors.Wrapf(err, "unsupported chart format %q", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write chart")
	}
	return nil
}

// SaveBarChart writes the chart to path. The format follows the extension.
func SaveBarChart(path, title string, scores []importance.Score) error {
	if filepath.Ext(path) == "" {
		return errors.NewValueError("report.SaveBarChart", "path needs an extension to pick the image format")
	}

	p, height, err := newBarPlot(title, scores)
	if err != nil {
		return err
	}
	if err := p.Save(chartWidth, height, path); err != nil {
		return errors.Wrapf(err, "failed to save chart to %s", path)
	}
	return nil
}
