package chart

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// corrGrid lays the matrix out so that row 0 is drawn at the top.
type corrGrid struct {
	m *entity.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return float64(g.m.Matrix[n-1-r][c])
}

func (r *Renderer) heatmap(m *entity.CorrelationMatrix) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Correlation Heatmap for Numeric Columns"

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	grid := corrGrid{m: m}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 0xdd}
	p.Add(hm)

	n := len(m.Columns)
	labels := plotter.XYLabels{XYs: make(plotter.XYs, 0, n*n), Labels: make([]string, 0, n*n)}
	for c := 0; c < n; c++ {
		for row := 0; row < n; row++ {
			v := grid.Z(c, row)
			s := "nan"
			if !math.IsNaN(v) {
				s = strconv.FormatFloat(v, 'f', 2, 64)
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(row)})
			labels.Labels = append(labels.Labels, s)
		}
	}
	annot, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range annot.TextStyle {
		annot.TextStyle[i].XAlign = text.XCenter
		annot.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(annot)

	reversed := make([]string, n)
	for i, name := range m.Columns {
		reversed[n-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(reversed...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	return encode(p, 10*vg.Inch, 6*vg.Inch)
}
