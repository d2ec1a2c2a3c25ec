package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/shandysiswandi/goprofile/internal/pkg/pkgtrace"
	"github.com/shandysiswandi/goprofile/internal/profile/entity"
)

// ErrPanic wraps a panic raised while drawing a figure.
var ErrPanic = errors.New("chart drawing panicked")

var (
	barColor  = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	lineColor = color.RGBA{R: 0x1f, G: 0x3a, B: 0x68, A: 0xff}
)

type Options struct {
	Workers            int
	MaxCategories      int
	PairPlotMaxColumns int

	// Width and Height size the single-column figures.
	Width  vg.Length
	Height vg.Length
}

type Renderer struct {
	opt Options
}

func New(opt Options) *Renderer {
	if opt.Workers <= 0 {
		opt.Workers = 1
	}
	if opt.MaxCategories <= 0 {
		opt.MaxCategories = 30
	}
	if opt.PairPlotMaxColumns <= 0 {
		opt.PairPlotMaxColumns = 6
	}
	if opt.Width <= 0 {
		opt.Width = 8 * vg.Inch
	}
	if opt.Height <= 0 {
		opt.Height = 5 * vg.Inch
	}
	return &Renderer{opt: opt}
}

type job struct {
	chart entity.Chart
	draw  func() ([]byte, error)
}

// Render draws every figure for ds. corr is the Pearson matrix of the numeric
// columns and may be nil, in which case no heatmap is drawn.
func (r *Renderer) Render(ctx context.Context, ds *entity.Dataset, corr *entity.CorrelationMatrix) ([]entity.Chart, error) {
	ctx, span := pkgtrace.Start(ctx, "chart.Render", attribute.String("dataset", ds.Name))

	jobs := r.plan(ds, corr)
	out := make([]entity.Chart, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opt.Workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			png, err := j.run()
			if err != nil {
				return fmt.Errorf("chart %s: %w", j.chart.Name, err)
			}
			out[i] = j.chart
			out[i].PNG = png
			return nil
		})
	}

	err := g.Wait()
	pkgtrace.End(span, err)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "charts rendered", "dataset", ds.Name, "count", len(out))
	return out, nil
}

func (j job) run() (png []byte, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			png, err = nil, fmt.Errorf("%w: %v", ErrPanic, rvr)
		}
	}()

	return j.draw()
}

func (r *Renderer) plan(ds *entity.Dataset, corr *entity.CorrelationMatrix) []job {
	var jobs []job

	if corr != nil && len(corr.Columns) >= 2 {
		jobs = append(jobs, job{
			chart: entity.Chart{
				Name: "heatmap", Title: "Correlation Heatmap for Numeric Columns",
				Kind: entity.ChartKindHeatmap, Columns: corr.Columns,
			},
			draw: func() ([]byte, error) { return r.heatmap(corr) },
		})
	}

	numeric := plottable(ds.NumericColumns())
	for i, c := range numeric {
		jobs = append(jobs, job{
			chart: entity.Chart{
				Name: fmt.Sprintf("histogram-%d", i+1), Title: "Distribution of " + c.Name,
				Kind: entity.ChartKindHistogram, Columns: []string{c.Name},
			},
			draw: func() ([]byte, error) { return r.histogram(c) },
		})
	}

	for i, c := range textColumns(ds) {
		jobs = append(jobs, job{
			chart: entity.Chart{
				Name: fmt.Sprintf("count-%d", i+1), Title: "Count of " + c.Name,
				Kind: entity.ChartKindCount, Columns: []string{c.Name},
			},
			draw: func() ([]byte, error) { return r.count(c) },
		})
	}

	if len(numeric) > 0 {
		pair := numeric[:min(len(numeric), r.opt.PairPlotMaxColumns)]
		names := make([]string, len(pair))
		for i, c := range pair {
			names[i] = c.Name
		}
		jobs = append(jobs, job{
			chart: entity.Chart{
				Name: "pairplot", Title: "Pair Plot for Numeric Columns",
				Kind: entity.ChartKindPair, Columns: names,
			},
			draw: func() ([]byte, error) { return r.pair(pair) },
		})
	}

	for i, c := range numeric {
		jobs = append(jobs, job{
			chart: entity.Chart{
				Name: fmt.Sprintf("box-%d", i+1), Title: "Box Plot of " + c.Name,
				Kind: entity.ChartKindBox, Columns: []string{c.Name},
			},
			draw: func() ([]byte, error) { return r.box(c) },
		})
	}
	return jobs
}

// plottable drops numeric columns without a single finite value.
func plottable(cols []*entity.Column) []*entity.Column {
	out := cols[:0:0]
	for _, c := range cols {
		if len(c.Finite()) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// textColumns returns the columns that are kept as text: categorical and
// date/time columns that have at least one value.
func textColumns(ds *entity.Dataset) []*entity.Column {
	var out []*entity.Column
	for i := range ds.Columns {
		c := &ds.Columns[i]
		if c.Kind != entity.ColumnKindCategorical && c.Kind != entity.ColumnKindDateTime {
			continue
		}
		if c.MissingCount() < len(c.Values) {
			out = append(out, c)
		}
	}
	return out
}

func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
