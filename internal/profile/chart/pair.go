package chart

import (
	"bytes"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

const pairCell = 2.5 * vg.Inch

// pair draws a grid with the distribution of every column on the diagonal and
// a scatter of each column pair elsewhere.
func (r *Renderer) pair(cols []*entity.Column) ([]byte, error) {
	n := len(cols)
	axes := make([]axis, n)
	for i, c := range cols {
		axes[i].values, axes[i].unit = scaled(c.Numbers)
	}

	plots := make([][]*plot.Plot, n)
	for row := range plots {
		plots[row] = make([]*plot.Plot, n)
		for col := range plots[row] {
			p := plot.New()
			if row == n-1 {
				p.X.Label.Text = cols[col].Name + axes[col].unit
			}
			if col == 0 {
				p.Y.Label.Text = cols[row].Name + axes[row].unit
			}

			if row == col {
				addHistogram(p, finiteValues(axes[col].values))
			} else if err := addScatter(p, axes[col].values, axes[row].values); err != nil {
				return nil, err
			}
			plots[row][col] = p
		}
	}

	img := vgimg.New(vg.Length(n)*pairCell, vg.Length(n)*pairCell)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Points(4), PadBottom: vg.Points(4),
		PadLeft: vg.Points(4), PadRight: vg.Points(4),
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type axis struct {
	values []float64
	unit   string
}

// addScatter plots the rows where both x and y hold a value.
func addScatter(p *plot.Plot, x, y []float64) error {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(xys) == 0 {
		return nil
	}

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = barColor
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	return nil
}

func finiteValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			out = append(out, v)
		}
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
