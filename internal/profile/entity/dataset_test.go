package entity

import (
	"math"
	"reflect"
	"testing"
)

func testDataset() *Dataset {
	return &Dataset{
		Name:    "people.csv",
		NumRows: 3,
		Columns: []Column{
			{Name: "age", Kind: ColumnKindNumeric, Values: []string{"31", "", "45"}, Numbers: []float64{31, math.NaN(), 45}},
			{Name: "city", Kind: ColumnKindCategorical, Values: []string{"Bandung", "Jakarta", ""}},
		},
	}
}

func TestDatasetRows(t *testing.T) {
	ds := testDataset()

	if got := ds.Header(); !reflect.DeepEqual(got, []string{"age", "city"}) {
		t.Fatalf("Header() = %v", got)
	}
	if got := ds.Rows(1, 10); !reflect.DeepEqual(got, [][]string{{"", "Jakarta"}, {"45", ""}}) {
		t.Fatalf("Rows(1, 10) = %v", got)
	}
	if got := ds.Rows(5, 10); len(got) != 0 {
		t.Fatalf("Rows(5, 10) = %v, want empty", got)
	}
}

func TestDatasetColumns(t *testing.T) {
	ds := testDataset()

	if got := len(ds.NumericColumns()); got != 1 {
		t.Fatalf("NumericColumns() len = %d", got)
	}
	if got := ds.CategoricalColumns()[0].Name; got != "city" {
		t.Fatalf("CategoricalColumns()[0] = %q", got)
	}

	age, ok := ds.Column("age")
	if !ok {
		t.Fatal("Column(age) not found")
	}
	if got := age.Finite(); !reflect.DeepEqual(got, []float64{31, 45}) {
		t.Fatalf("Finite() = %v", got)
	}
	inf := Column{Numbers: []float64{1, math.Inf(1), math.NaN(), math.Inf(-1)}}
	if got := inf.Finite(); !reflect.DeepEqual(got, []float64{1}) {
		t.Fatalf("Finite() = %v", got)
	}
	if got := inf.Present(); !reflect.DeepEqual(got, []float64{1, math.Inf(1), math.Inf(-1)}) {
		t.Fatalf("Present() = %v", got)
	}
	if got := age.MissingCount(); got != 1 {
		t.Fatalf("MissingCount() = %d", got)
	}
	if _, ok := ds.Column("nope"); ok {
		t.Fatal("Column(nope) should not be found")
	}
}
