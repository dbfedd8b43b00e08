package tuner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// writeLossLog saves losses as {dir}/{name}.npy plus one chart per requested format.
func writeLossLog(dir, name string, losses []float64, formats []string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create logs folder: %w", err)
	}
	base := filepath.Join(dir, name)
	if err := SaveNPY(base+".npy", losses); err != nil {
		return fmt.Errorf("write loss log %s: %w", name, err)
	}
	for _, f := range formats {
		var err error
		switch f {
		case ChartPNG:
			err = plotLossPNG(base+".png", name, losses)
		case ChartHTML:
			err = plotLossHTML(base+".html", name, losses)
		}
		if err != nil {
			return fmt.Errorf("write %s chart for %s: %w", f, name, err)
		}
	}
	return nil
}

func plotLossPNG(path, title string, losses []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "mse"

	xys := make(plotter.XYs, len(losses))
	for i, l := range losses {
		xys[i].X = float64(i)
		xys[i].Y = l
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func plotLossHTML(path, title string, losses []float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	steps := make([]string, len(losses))
	items := make([]opts.LineData, len(losses))
	for i, l := range losses {
		steps[i] = fmt.Sprintf("%d", i)
		items[i] = opts.LineData{Value: l}
	}
	line.SetXAxis(steps).AddSeries("loss", items)

	page := components.NewPage()
	page.AddCharts(line)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
