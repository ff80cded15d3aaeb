package examples

import (
	"fmt"

	"github.com/cinar/indicator/v2/momentum"

	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// RSINode computes a relative strength index series over one base-data
// column, using cinar/indicator/v2's channel-based Compute call, generalized
// from a single latest-value lookup to a full aligned output column.
type RSINode struct {
	NodeID      string
	NodeTF      table.TimeFrame
	Period      int
	InputColumn string
	OutputName  string
}

var _ transform.TransformNode = (*RSINode)(nil)

func (n *RSINode) ID() string                 { return n.NodeID }
func (n *RSINode) Timeframe() table.TimeFrame { return n.NodeTF }
func (n *RSINode) InputIDs() []string         { return nil }

func (n *RSINode) Metadata() transform.Metadata {
	return transform.Metadata{
		Category:            transform.Indicator,
		Outputs:             []transform.OutputDescriptor{{Name: n.OutputName, Type: table.Float64Type}},
		RequiredDataSources: []string{n.InputColumn},
	}
}

func (n *RSINode) Configuration() transform.Configuration {
	return transform.Configuration{}
}

func (n *RSINode) Transform(in table.ColumnTable) (table.ColumnTable, error) {
	col, ok := in.Column(n.InputColumn)
	if !ok {
		return table.ColumnTable{}, fmt.Errorf("rsi %s: missing input column %q", n.NodeID, n.InputColumn)
	}
	if n.Period < 1 || n.Period > col.Len() {
		return table.ColumnTable{}, fmt.Errorf("rsi %s: invalid period %d for %d samples", n.NodeID, n.Period, col.Len())
	}

	pricesChan := make(chan float64, col.Len())
	for _, p := range col.Floats {
		pricesChan <- p
	}
	close(pricesChan)

	rsiChan := momentum.NewRsiWithPeriod[float64](n.Period).Compute(pricesChan)

	var values []float64
	for v := range rsiChan {
		values = append(values, v)
	}

	out := table.NewNullColumn(transform.OutputHandle(n.NodeID, n.OutputName), table.Float64Type, in.Index.Len())
	offset := in.Index.Len() - len(values)
	for i, v := range values {
		out.Floats[offset+i] = v
		out.Valid[offset+i] = true
	}

	return table.New(in.Index, out)
}

// Signal classifies the most recent RSI reading into the standard
// oversold/overbought/neutral thresholds.
func Signal(rsi float64) string {
	switch {
	case rsi < 30:
		return "oversold"
	case rsi > 70:
		return "overbought"
	default:
		return "neutral"
	}
}
