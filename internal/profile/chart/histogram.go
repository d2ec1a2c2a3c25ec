package chart

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
)

func (r *Renderer) histogram(c *entity.Column) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Distribution of " + c.Name
	values, unit := scaled(c.Finite())
	p.X.Label.Text = c.Name + unit
	p.Y.Label.Text = "Count"
	addHistogram(p, values)
	return encode(p, r.opt.Width, r.opt.Height)
}

// addHistogram draws the binned counts of values with a density curve scaled
// to the same axis.
func addHistogram(p *plot.Plot, values []float64) {
	h := profiler.Histogram(values, profiler.AutoBins(len(values)))

	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, n := range h.Counts {
		bins[i] = plotter.HistogramBin{
			Min:    float64(h.BinEdges[i]),
			Max:    float64(h.BinEdges[i+1]),
			Weight: float64(n),
		}
	}
	width := bins[0].Max - bins[0].Min
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     width,
		FillColor: barColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hist)

	density := kde(values)
	if density == nil {
		return
	}
	scale := float64(len(values)) * width
	fn := plotter.NewFunction(func(x float64) float64 { return density(x) * scale })
	fn.XMin = float64(h.BinEdges[0])
	fn.XMax = float64(h.BinEdges[len(h.BinEdges)-1])
	fn.Samples = 200
	fn.Color = lineColor
	fn.Width = vg.Points(1.5)
	p.Add(fn)
}
