package storage

import (
	"testing"
	"time"

	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

type fakeNode struct {
	id        string
	tf        table.TimeFrame
	inputs    []string
	meta      transform.Metadata
	transform func(table.ColumnTable) (table.ColumnTable, error)
}

func (f *fakeNode) ID() string                    { return f.id }
func (f *fakeNode) Timeframe() table.TimeFrame    { return f.tf }
func (f *fakeNode) InputIDs() []string             { return f.inputs }
func (f *fakeNode) Metadata() transform.Metadata   { return f.meta }
func (f *fakeNode) Configuration() transform.Configuration {
	return transform.Configuration{}
}
func (f *fakeNode) Transform(in table.ColumnTable) (table.ColumnTable, error) {
	return f.transform(in)
}

func idx(days ...int) table.Index {
	times := make([]time.Time, len(days))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, d := range days {
		times[i] = base.AddDate(0, 0, d)
	}
	return table.NewIndex(times)
}

func baseDataFixture(assets ...string) map[table.TimeFrame]map[table.AssetID]table.ColumnTable {
	tbl, _ := table.New(idx(0, 1, 2), table.FloatColumn("c", []float64{1, 2, 3}))
	byAsset := make(map[table.AssetID]table.ColumnTable, len(assets))
	for _, a := range assets {
		byAsset[a] = tbl
	}
	return map[table.TimeFrame]map[table.AssetID]table.ColumnTable{"1D": byAsset}
}

func allowedOf(assets ...string) map[table.AssetID]struct{} {
	out := make(map[table.AssetID]struct{}, len(assets))
	for _, a := range assets {
		out[a] = struct{}{}
	}
	return out
}

func TestGatherInputsRootReadsBaseData(t *testing.T) {
	s := New()
	s.InitializeBaseData(baseDataFixture("AAPL"), allowedOf("AAPL"))

	node := &fakeNode{id: "n1", tf: "1D", meta: transform.Metadata{Outputs: []transform.OutputDescriptor{{Name: "result", Type: table.Float64Type}}}}
	got, err := s.GatherInputs("AAPL", node)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Contains("c") {
		t.Fatalf("expected root gather to return base data columns, got %v", got.ColumnNames())
	}
}

func TestGatherInputsUnresolvedHandleErrors(t *testing.T) {
	s := New()
	s.InitializeBaseData(baseDataFixture("AAPL"), allowedOf("AAPL"))

	node := &fakeNode{id: "n1", tf: "1D", inputs: []string{"nonexistent#output"}}
	_, err := s.GatherInputs("AAPL", node)
	if err == nil {
		t.Fatal("expected error for unresolved handle")
	}
}

func TestStoreAndGatherScalarOutput(t *testing.T) {
	s := New()
	s.InitializeBaseData(baseDataFixture("AAPL", "MSFT"), allowedOf("AAPL", "MSFT"))

	scalarNode := &fakeNode{
		id: "s1",
		tf: "1D",
		meta: transform.Metadata{
			Category: transform.Scalar,
			Outputs:  []transform.OutputDescriptor{{Name: "value", Type: table.Float64Type}},
		},
	}
	s.RegisterTransform(scalarNode)

	out, _ := table.New(idx(0), table.FloatColumn("s1#value", []float64{99}))
	if err := s.StoreTransformOutput("AAPL", scalarNode, out); err != nil {
		t.Fatal(err)
	}
	// Second asset writes a different value; first-write-wins should ignore it.
	out2, _ := table.New(idx(0), table.FloatColumn("s1#value", []float64{1}))
	if err := s.StoreTransformOutput("MSFT", scalarNode, out2); err != nil {
		t.Fatal(err)
	}

	consumer := &fakeNode{id: "c1", tf: "1D", inputs: []string{"s1#value"}}
	gathered, err := s.GatherInputs("MSFT", consumer)
	if err != nil {
		t.Fatal(err)
	}
	col, ok := gathered.Column("s1#value")
	if !ok {
		t.Fatal("expected scalar broadcast column")
	}
	for i := 0; i < col.Len(); i++ {
		if col.Floats[i] != 99 {
			t.Errorf("expected broadcast value 99 (first-write-wins), got %v at %d", col.Floats[i], i)
		}
	}
}

func TestBuildFinalOutputIncludesStoredHandles(t *testing.T) {
	s := New()
	s.InitializeBaseData(baseDataFixture("AAPL"), allowedOf("AAPL"))

	node := &fakeNode{
		id: "n1", tf: "1D",
		meta: transform.Metadata{Outputs: []transform.OutputDescriptor{{Name: "result", Type: table.Float64Type}}},
	}
	s.RegisterTransform(node)

	out, _ := table.New(idx(0, 1, 2), table.FloatColumn("n1#result", []float64{10, 20, 30}))
	if err := s.StoreTransformOutput("AAPL", node, out); err != nil {
		t.Fatal(err)
	}

	final := s.BuildFinalOutput()
	tbl := final["1D"]["AAPL"]
	if !tbl.Contains("n1#result") {
		t.Fatalf("expected final output to contain n1#result, got %v", tbl.ColumnNames())
	}
}

func TestStoreTransformOutputMissingColumnStoresTypedNull(t *testing.T) {
	s := New()
	s.InitializeBaseData(baseDataFixture("AAPL"), allowedOf("AAPL"))

	node := &fakeNode{
		id: "n1", tf: "1D",
		meta: transform.Metadata{Outputs: []transform.OutputDescriptor{{Name: "result", Type: table.Float64Type}}},
	}
	s.RegisterTransform(node)

	if err := s.StoreTransformOutput("AAPL", node, table.Empty()); err != nil {
		t.Fatal(err)
	}

	final := s.BuildFinalOutput()
	col, ok := final["1D"]["AAPL"].Column("n1#result")
	if !ok {
		t.Fatal("expected null column to be present")
	}
	for i := 0; i < col.Len(); i++ {
		if col.Valid[i] {
			t.Fatalf("expected null output at position %d", i)
		}
	}
}
