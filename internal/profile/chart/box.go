package chart

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

func (r *Renderer) box(c *entity.Column) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Box Plot of " + c.Name
	values, unit := scaled(c.Finite())
	p.Y.Label.Text = c.Name + unit

	b, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(values))
	if err != nil {
		return nil, err
	}
	b.FillColor = barColor
	p.Add(b)
	p.NominalX("")

	return encode(p, r.opt.Width, r.opt.Height)
}
