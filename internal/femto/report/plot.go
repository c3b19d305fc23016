// Package report renders finished analysis outputs as static plots and as a
// single self-contained HTML page.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/banshee-data/femto/internal/security"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoOutputs is returned when there is nothing one-dimensional to draw.
var ErrNoOutputs = errors.New("report: no one-dimensional outputs")

var (
	lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	barColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// errPoints pairs bin centres with symmetric errors for plotter.YErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

func pointsOf(o hist.Output) errPoints {
	pts := o.Points()
	ep := errPoints{
		XYs:     make(plotter.XYs, len(pts)),
		YErrors: make(plotter.YErrors, len(pts)),
	}
	for i, p := range pts {
		ep.XYs[i] = plotter.XY{X: p.X, Y: p.Value}
		ep.YErrors[i].Low = p.Err
		ep.YErrors[i].High = p.Err
	}
	return ep
}

// Plot draws a single one-dimensional output with error bars.
func Plot(o hist.Output) (*plot.Plot, error) {
	if o.Dims() != 1 {
		return nil, fmt.Errorf("report: %s has %d dimensions", o.Name(), o.Dims())
	}
	p := plot.New()
	p.Title.Text, p.X.Label.Text = splitTitle(o)
	p.Y.Label.Text = "entries"
	if _, ok := o.(*hist.Ratio); ok {
		p.Y.Label.Text = "C(q)"
	}

	ep := pointsOf(o)
	line, err := plotter.NewLine(ep.XYs)
	if err != nil {
		return nil, fmt.Errorf("line for %s: %w", o.Name(), err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1)

	bars, err := plotter.NewYErrorBars(ep)
	if err != nil {
		return nil, fmt.Errorf("error bars for %s: %w", o.Name(), err)
	}
	bars.Color = barColor

	p.Add(plotter.NewGrid(), line, bars)
	p.Legend.Add(o.Name(), line)
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// splitTitle separates a "title; x label" output title. An empty title
// falls back to the output name.
func splitTitle(o hist.Output) (title, xlabel string) {
	title, xlabel, _ = strings.Cut(o.Title(), ";")
	title = strings.TrimSpace(title)
	if title == "" {
		title = o.Name()
	}
	return title, strings.TrimSpace(xlabel)
}

// WritePlots saves every one-dimensional output into dir as <name>.<format>,
// with the name sanitized, and returns the written paths. Format is any extension plot.Save accepts
// (png, svg, pdf).
func WritePlots(dir, format string, outputs []hist.Output) ([]string, error) {
	if format == "" {
		format = "png"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot directory: %w", err)
	}
	var paths []string
	for _, o := range outputs {
		if o.Dims() != 1 {
			continue
		}
		p, err := Plot(o)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, security.SanitizeFilename(o.Name())+"."+format)
		if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
			return paths, fmt.Errorf("save %s plot: %w", o.Name(), err)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, ErrNoOutputs
	}
	return paths, nil
}
