package chart

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/goprofile/internal/profile/entity"
	"github.com/shandysiswandi/goprofile/internal/profile/profiler"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func numeric(name string, values ...float64) entity.Column {
	col := entity.Column{Name: name, Kind: entity.ColumnKindNumeric, Values: make([]string, len(values)), Numbers: values}
	for i, v := range values {
		if !math.IsNaN(v) {
			col.Values[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return col
}

func sampleDataset() *entity.Dataset {
	return &entity.Dataset{
		Name:   "sample.csv",
		Format: entity.FormatCSV,
		Columns: []entity.Column{
			numeric("age", 23, 35, 31, math.NaN(), 44, 29),
			numeric("score", 88.5, 92, 71.25, 60, 79, 85),
			{Name: "city", Kind: entity.ColumnKindCategorical, Values: []string{"Paris", "Oslo", "Paris", "", "Rome", "Oslo"}},
			{Name: "member", Kind: entity.ColumnKindBoolean, Values: []string{"true", "false", "true", "true", "false", "true"}},
			numeric("empty", math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()),
		},
		NumRows: 6,
	}
}

func TestRenderOrder(t *testing.T) {
	ds := sampleDataset()
	r := New(Options{Workers: 3})

	charts, err := r.Render(context.Background(), ds, profiler.Pearson(ds))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := []string{"heatmap", "histogram-1", "histogram-2", "count-1", "pairplot", "box-1", "box-2"}
	if len(charts) != len(want) {
		t.Fatalf("got %d charts, want %d", len(charts), len(want))
	}
	for i, c := range charts {
		if c.Name != want[i] {
			t.Fatalf("chart %d = %s, want %s", i, c.Name, want[i])
		}
		if !bytes.HasPrefix(c.PNG, pngMagic) {
			t.Fatalf("chart %s is not a PNG", c.Name)
		}
	}
	if charts[3].Title != "Count of city" || charts[1].Title != "Distribution of age" {
		t.Fatalf("unexpected titles: %q %q", charts[3].Title, charts[1].Title)
	}
	if got := charts[4].Columns; len(got) != 2 || got[0] != "age" {
		t.Fatalf("unexpected pair plot columns: %v", got)
	}
}

func TestRenderWithoutHeatmap(t *testing.T) {
	ds := &entity.Dataset{
		Name:    "one.csv",
		Columns: []entity.Column{numeric("x", 1, 1, 1)},
		NumRows: 3,
	}

	charts, err := New(Options{}).Render(context.Background(), ds, profiler.Pearson(ds))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(charts) != 3 || charts[0].Kind != entity.ChartKindHistogram {
		t.Fatalf("unexpected charts: %d", len(charts))
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Render(ctx, sampleDataset(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPairPlotColumnLimit(t *testing.T) {
	ds := sampleDataset()
	r := New(Options{PairPlotMaxColumns: 1})
	for _, j := range r.plan(ds, nil) {
		if j.chart.Kind == entity.ChartKindPair && len(j.chart.Columns) != 1 {
			t.Fatalf("pair plot columns = %v", j.chart.Columns)
		}
	}
}

func TestCategories(t *testing.T) {
	col := &entity.Column{Name: "c", Values: []string{"b", "a", "b", "", "c", "a", "b"}}
	got := categories(col, 2)
	if len(got) != 2 || got[0].label != "b" || got[0].count != 3 || got[1].label != "a" {
		t.Fatalf("categories = %+v", got)
	}
}

func TestKDE(t *testing.T) {
	if kde([]float64{3, 3, 3}) != nil {
		t.Fatalf("expected no density for a constant series")
	}

	f := kde([]float64{-1, 0, 1})
	if f == nil {
		t.Fatal("expected density")
	}
	if f(0) <= f(3) {
		t.Fatalf("density should peak near the data: f(0)=%v f(3)=%v", f(0), f(3))
	}
}

func TestRenderExtremeMagnitudes(t *testing.T) {
	ds := &entity.Dataset{
		Name: "big.csv",
		Columns: []entity.Column{
			numeric("huge", 1e308, 1.7e308, 1.5e308),
			numeric("wide", -1e308, 1e308, 0),
			numeric("tiny", 1e-300, 3e-300, 2e-300),
		},
		NumRows: 3,
	}

	type result struct {
		charts []entity.Chart
		err    error
	}
	done := make(chan result, 1)
	go func() {
		charts, err := New(Options{Workers: 2}).Render(context.Background(), ds, nil)
		done <- result{charts, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Render() error = %v", res.err)
		}
		if len(res.charts) != 7 {
			t.Fatalf("got %d charts, want 7", len(res.charts))
		}
		for _, c := range res.charts {
			if !bytes.HasPrefix(c.PNG, pngMagic) {
				t.Fatalf("chart %s is not a PNG", c.Name)
			}
		}
	case <-time.After(30 * time.Second):
		t.Fatal("Render() did not finish for extreme magnitudes")
	}
}

func TestScaled(t *testing.T) {
	values := []float64{1e308, math.NaN(), -1.5e308}
	got, unit := scaled(values)
	if unit != " (x1e308)" {
		t.Fatalf("unit = %q", unit)
	}
	if math.Abs(got[0]-1) > 1e-12 || !math.IsNaN(got[1]) || math.Abs(got[2]+1.5) > 1e-12 {
		t.Fatalf("scaled = %v", got)
	}

	plain := []float64{1, 250, -3}
	if got, unit := scaled(plain); unit != "" || &got[0] != &plain[0] {
		t.Fatalf("expected values unchanged, got %v %q", got, unit)
	}

	if _, unit := scaled([]float64{2e-20, 0}); unit != " (x1e-20)" {
		t.Fatalf("unit = %q", unit)
	}
}

func TestJobRunRecoversPanic(t *testing.T) {
	j := job{
		chart: entity.Chart{Name: "broken"},
		draw:  func() ([]byte, error) { panic("raster failure") },
	}

	png, err := j.run()
	if !errors.Is(err, ErrPanic) || png != nil {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
}
