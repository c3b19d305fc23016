package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/femto/internal/femto/hist"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Section groups the outputs of one analysis on the HTML page.
type Section struct {
	Analysis string
	Outputs  []hist.Output
}

// AssetsHost overrides where the echarts javascript is loaded from. Empty
// uses the go-echarts default CDN.
var AssetsHost string

func lineChart(analysis string, o hist.Output) *charts.Line {
	title, xlabel := splitTitle(o)
	pts := o.Points()
	x := make([]string, len(pts))
	y := make([]opts.LineData, len(pts))
	for i, p := range pts {
		x[i] = strconv.FormatFloat(p.X, 'g', 4, 64)
		y[i] = opts.LineData{Value: p.Value}
	}

	init := opts.Initialization{Width: "900px", Height: "420px"}
	if AssetsHost != "" {
		init.AssetsHost = AssetsHost
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%s / %s", analysis, o.Name())}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xlabel, NameLocation: "middle", NameGap: 25}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	line.SetXAxis(x).AddSeries(o.Name(), y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
	)
	return line
}

// WriteHTML renders one line chart per one-dimensional output, grouped by
// analysis, as a single page.
func WriteHTML(w io.Writer, title string, sections []Section) error {
	page := components.NewPage()
	page.PageTitle = title
	if AssetsHost != "" {
		page.SetAssetsHost(AssetsHost)
	}
	n := 0
	for _, s := range sections {
		for _, o := range s.Outputs {
			if o.Dims() != 1 {
				continue
			}
			page.AddCharts(lineChart(s.Analysis, o))
			n++
		}
	}
	if n == 0 {
		return ErrNoOutputs
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report page: %w", err)
	}
	return nil
}
