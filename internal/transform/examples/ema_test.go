package examples

import (
	"testing"
	"time"

	"github.com/ajitpratap0/epochflow/internal/table"
)

func mkPriceTable(prices []float64) table.ColumnTable {
	times := make([]time.Time, len(prices))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range prices {
		times[i] = base.AddDate(0, 0, i)
	}
	idx := table.NewIndex(times)
	tbl, _ := table.New(idx, table.FloatColumn("close", prices))
	return tbl
}

func TestEMANodeProducesAlignedOutput(t *testing.T) {
	prices := []float64{44.0, 44.5, 45.0, 45.5, 46.0, 46.5, 47.0, 47.5, 48.0, 48.5}
	in := mkPriceTable(prices)

	node := &EMANode{NodeID: "ema10", NodeTF: "1D", Period: 5, InputColumn: "close", OutputName: "value"}
	out, err := node.Transform(in)
	if err != nil {
		t.Fatal(err)
	}

	col, ok := out.Column("ema10#value")
	if !ok {
		t.Fatal("expected ema10#value column")
	}
	if col.Len() != in.Len() {
		t.Fatalf("expected output aligned to input length %d, got %d", in.Len(), col.Len())
	}
	if col.Valid[0] {
		t.Fatal("expected leading entries null before the EMA window fills")
	}
	if !col.Valid[col.Len()-1] {
		t.Fatal("expected the last entry to be populated")
	}
}

func TestEMANodeRejectsPeriodLargerThanInput(t *testing.T) {
	in := mkPriceTable([]float64{1, 2, 3})
	node := &EMANode{NodeID: "ema", NodeTF: "1D", Period: 10, InputColumn: "close", OutputName: "value"}
	if _, err := node.Transform(in); err == nil {
		t.Fatal("expected error for period exceeding sample count")
	}
}

func TestEMANodeMetadataDeclaresRequiredDataSource(t *testing.T) {
	node := &EMANode{NodeID: "ema", NodeTF: "1D", Period: 5, InputColumn: "close", OutputName: "value"}
	meta := node.Metadata()
	if len(meta.RequiredDataSources) != 1 || meta.RequiredDataSources[0] != "close" {
		t.Fatalf("expected close as required data source, got %v", meta.RequiredDataSources)
	}
}
