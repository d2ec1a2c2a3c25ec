package chart

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

type category struct {
	label string
	count int
}

// categories counts the non-missing values of c, most frequent first, keeping
// at most limit of them.
func categories(c *entity.Column, limit int) []category {
	counts := make(map[string]int)
	for i, v := range c.Values {
		if !c.IsMissing(i) {
			counts[v]++
		}
	}

	out := make([]category, 0, len(counts))
	for label, n := range counts {
		out = append(out, category{label: label, count: n})
	}
	slices.SortFunc(out, func(a, b category) int {
		if d := cmp.Compare(b.count, a.count); d != 0 {
			return d
		}
		return cmp.Compare(a.label, b.label)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *Renderer) count(c *entity.Column) ([]byte, error) {
	cats := categories(c, r.opt.MaxCategories)
	values := make(plotter.Values, len(cats))
	labels := make([]string, len(cats))
	for i, cat := range cats {
		values[i] = float64(cat.count)
		labels[i] = cat.label
	}

	p := plot.New()
	p.Title.Text = "Count of " + c.Name
	p.X.Label.Text = c.Name
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	return encode(p, r.opt.Width, r.opt.Height)
}
