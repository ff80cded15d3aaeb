package execution

import (
	"errors"
	"testing"
	"time"

	"github.com/ajitpratap0/epochflow/internal/config"
	"github.com/ajitpratap0/epochflow/internal/storage"
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

type stubNode struct {
	id        string
	tf        table.TimeFrame
	inputs    []string
	meta      transform.Metadata
	cfg       transform.Configuration
	transform func(table.ColumnTable) (table.ColumnTable, error)
}

func (n *stubNode) ID() string                  { return n.id }
func (n *stubNode) Timeframe() table.TimeFrame  { return n.tf }
func (n *stubNode) InputIDs() []string          { return n.inputs }
func (n *stubNode) Metadata() transform.Metadata { return n.meta }
func (n *stubNode) Configuration() transform.Configuration {
	return n.cfg
}
func (n *stubNode) Transform(in table.ColumnTable) (table.ColumnTable, error) {
	return n.transform(in)
}

func idxDays(days ...int) table.Index {
	times := make([]time.Time, len(days))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, d := range days {
		times[i] = base.AddDate(0, 0, d)
	}
	return table.NewIndex(times)
}

func baseFixture(assets ...string) (map[table.TimeFrame]map[table.AssetID]table.ColumnTable, map[table.AssetID]struct{}) {
	tbl, _ := table.New(idxDays(0, 1, 2), table.FloatColumn("close", []float64{1, 2, 3}))
	byAsset := make(map[table.AssetID]table.ColumnTable, len(assets))
	allowed := make(map[table.AssetID]struct{}, len(assets))
	for _, a := range assets {
		byAsset[a] = tbl
		allowed[a] = struct{}{}
	}
	return map[table.TimeFrame]map[table.AssetID]table.ColumnTable{"1D": byAsset}, allowed
}

func newTestContext(s *storage.Storage) *Context {
	return NewContext(s, config.ExecutionConfig{AllowNullInputs: false})
}

func TestApplyDefaultTransformStoresPerAssetOutput(t *testing.T) {
	s := storage.New()
	data, allowed := baseFixture("AAPL", "MSFT")
	s.InitializeBaseData(data, allowed)

	node := &stubNode{
		id: "double",
		tf: "1D",
		meta: transform.Metadata{
			Outputs: []transform.OutputDescriptor{{Name: "out", Type: table.Float64Type}},
		},
		transform: func(in table.ColumnTable) (table.ColumnTable, error) {
			c, _ := in.Column("close")
			doubled := make([]float64, c.Len())
			for i, v := range c.Floats {
				doubled[i] = v * 2
			}
			return table.New(in.Index, table.FloatColumn("double#out", doubled))
		},
	}
	s.RegisterTransform(node)

	ctx := newTestContext(s)
	ApplyDefaultTransform(ctx, node)

	if ctx.Logger.Str() != "" {
		t.Fatalf("expected no errors, got %q", ctx.Logger.Str())
	}

	final := s.BuildFinalOutput()
	col, ok := final["1D"]["AAPL"].Column("double#out")
	if !ok {
		t.Fatal("expected double#out column in final output")
	}
	if col.Floats[0] != 2 || col.Floats[2] != 6 {
		t.Fatalf("unexpected values: %v", col.Floats)
	}
}

func TestApplyDefaultTransformLogsPerAssetError(t *testing.T) {
	s := storage.New()
	data, allowed := baseFixture("AAPL")
	s.InitializeBaseData(data, allowed)

	node := &stubNode{
		id: "broken",
		tf: "1D",
		meta: transform.Metadata{
			Outputs: []transform.OutputDescriptor{{Name: "out", Type: table.Float64Type}},
		},
		transform: func(in table.ColumnTable) (table.ColumnTable, error) {
			return table.ColumnTable{}, errors.New("boom")
		},
	}
	s.RegisterTransform(node)

	ctx := newTestContext(s)
	ApplyDefaultTransform(ctx, node)

	if ctx.Logger.Str() == "" {
		t.Fatal("expected an aggregated error to be logged")
	}
}

func TestApplyDefaultTransformSkipsNonIntradayWhenIntradayOnly(t *testing.T) {
	s := storage.New()
	data, allowed := baseFixture("AAPL")
	s.InitializeBaseData(data, allowed)

	called := false
	node := &stubNode{
		id: "intraday-only",
		tf: "1D",
		meta: transform.Metadata{
			IntradayOnly: true,
			Outputs:      []transform.OutputDescriptor{{Name: "out", Type: table.Float64Type}},
		},
		transform: func(in table.ColumnTable) (table.ColumnTable, error) {
			called = true
			return in, nil
		},
	}
	s.RegisterTransform(node)

	ctx := newTestContext(s)
	ApplyDefaultTransform(ctx, node)

	if called {
		t.Fatal("expected transform to be skipped for non-intraday timeframe")
	}
	final := s.BuildFinalOutput()
	col, ok := final["1D"]["AAPL"].Column("intraday-only#out")
	if !ok {
		t.Fatal("expected typed-null output stored for skipped transform")
	}
	for _, v := range col.Valid {
		if v {
			t.Fatal("expected all-null column for skipped intraday-only transform")
		}
	}
}

func TestApplyCrossSectionTransformBroadcastsSingleColumnResult(t *testing.T) {
	s := storage.New()
	data, allowed := baseFixture("AAPL", "MSFT", "GOOG")
	s.InitializeBaseData(data, allowed)

	producer := &stubNode{
		id: "p",
		tf: "1D",
		meta: transform.Metadata{
			Outputs: []transform.OutputDescriptor{{Name: "v", Type: table.Float64Type}},
		},
		transform: func(in table.ColumnTable) (table.ColumnTable, error) {
			c, _ := in.Column("close")
			return table.New(in.Index, table.FloatColumn("p#v", c.Floats))
		},
	}
	s.RegisterTransform(producer)
	ctx := newTestContext(s)
	ApplyDefaultTransform(ctx, producer)

	avg := &stubNode{
		id:     "avg",
		tf:     "1D",
		inputs: []string{"p#v"},
		meta: transform.Metadata{
			IsCrossSectional: true,
			Outputs:          []transform.OutputDescriptor{{Name: "mean", Type: table.Float64Type}},
		},
		transform: func(in table.ColumnTable) (table.ColumnTable, error) {
			n := len(in.ColumnNames())
			sums := make([]float64, in.Len())
			for _, name := range in.ColumnNames() {
				c, _ := in.Column(name)
				for i, v := range c.Floats {
					sums[i] += v
				}
			}
			for i := range sums {
				sums[i] /= float64(n)
			}
			return table.New(in.Index, table.FloatColumn("avg#mean", sums))
		},
	}
	s.RegisterTransform(avg)
	ApplyCrossSectionTransform(ctx, avg)

	if ctx.Logger.Str() != "" {
		t.Fatalf("expected no errors, got %q", ctx.Logger.Str())
	}

	final := s.BuildFinalOutput()
	for _, asset := range []table.AssetID{"AAPL", "MSFT", "GOOG"} {
		col, ok := final["1D"][asset].Column("avg#mean")
		if !ok {
			t.Fatalf("expected avg#mean broadcast to asset %s", asset)
		}
		if col.Floats[0] != 1 {
			t.Fatalf("expected broadcast mean 1 for asset %s, got %v", asset, col.Floats)
		}
	}
}
