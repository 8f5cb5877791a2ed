// Package gonumplot renders experiment runs as PNG figures using
// gonum/plot. The figure mirrors the usual active-learning comparison:
// recall and average precision against labels spent, one line per
// algorithm, averaged over repetitions.
package gonumplot

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/custodia-labs/seals-cli/internal/core/domain"
	"github.com/custodia-labs/seals-cli/internal/core/ports/driven"
)

// Ensure Plotter implements the interface.
var _ driven.Plotter = (*Plotter)(nil)

// Plotter writes run figures as PNG files.
type Plotter struct{}

// NewPlotter creates a PNG plotter.
func NewPlotter() *Plotter {
	return &Plotter{}
}

// palette assigns each algorithm a stable line colour.
var palette = map[string]color.Color{
	domain.AlgorithmSEALS:           color.RGBA{R: 31, G: 119, B: 180, A: 255},
	domain.AlgorithmMaxEntAll:       color.RGBA{R: 255, G: 127, B: 14, A: 255},
	domain.AlgorithmRandomAll:       color.RGBA{R: 44, G: 160, B: 44, A: 255},
	domain.AlgorithmFullSupervision: color.RGBA{R: 127, G: 127, B: 127, A: 255},
}

// Render implements driven.Plotter.
func (p *Plotter) Render(run *domain.RunResult, path string) error {
	if run == nil || len(run.Series) == 0 {
		return fmt.Errorf("render %s: run has no series", path)
	}

	recall, err := p.metricPlot(run, "Recall", func(m domain.RoundMetrics) float64 {
		return m.Recall
	})
	if err != nil {
		return fmt.Errorf("render recall: %w", err)
	}
	avgPrec, err := p.metricPlot(run, "Average precision", func(m domain.RoundMetrics) float64 {
		return m.AveragePrecision
	})
	if err != nil {
		return fmt.Errorf("render average precision: %w", err)
	}

	img := vgimg.New(22*vg.Centimeter, 10*vg.Centimeter)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: 2,
		PadX: vg.Millimeter * 4,
	}
	canvases := plot.Align([][]*plot.Plot{{recall, avgPrec}}, tiles, dc)
	recall.Draw(canvases[0][0])
	avgPrec.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}

// metricPlot builds one subplot: the chosen metric against labels
// spent, one line per algorithm in the run.
func (p *Plotter) metricPlot(run *domain.RunResult, yLabel string, metric func(domain.RoundMetrics) float64) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = yLabel + " vs labels"
	pl.X.Label.Text = "Labels"
	pl.Y.Label.Text = yLabel
	pl.Y.Min = 0
	pl.Legend.Top = true
	pl.Legend.Left = true

	for _, algorithm := range run.Algorithms() {
		mean := run.MeanSeries(algorithm)
		pts := make(plotter.XYs, len(mean))
		for j, m := range mean {
			pts[j].X = float64(m.Labeled)
			pts[j].Y = metric(m)
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("line for %s: %w", algorithm, err)
		}
		if c, ok := palette[algorithm]; ok {
			line.Color = c
		}
		if algorithm == domain.AlgorithmFullSupervision {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		pl.Add(line)
		pl.Legend.Add(algorithm, line)
	}

	return pl, nil
}
