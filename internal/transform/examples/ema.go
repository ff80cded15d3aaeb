// Package examples provides two concrete TransformNode implementations —
// EMA and RSI — that exercise the transform.TransformNode contract end to
// end. They demonstrate how an external transform catalog plugs into the
// engine; they are not a catalog in their own right.
package examples

import (
	"fmt"

	"github.com/cinar/indicator/v2/trend"

	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// EMANode computes an exponential moving average over one base-data column,
// using cinar/indicator/v2's channel-based Compute. It runs over a whole
// column and the result is aligned back onto the input's index, with nulls
// where the window hasn't filled yet.
type EMANode struct {
	NodeID      string
	NodeTF      table.TimeFrame
	Period      int
	InputColumn string
	OutputName  string
}

var _ transform.TransformNode = (*EMANode)(nil)

func (n *EMANode) ID() string                 { return n.NodeID }
func (n *EMANode) Timeframe() table.TimeFrame { return n.NodeTF }
func (n *EMANode) InputIDs() []string         { return nil }

func (n *EMANode) Metadata() transform.Metadata {
	return transform.Metadata{
		Category:            transform.Indicator,
		Outputs:             []transform.OutputDescriptor{{Name: n.OutputName, Type: table.Float64Type}},
		RequiredDataSources: []string{n.InputColumn},
	}
}

func (n *EMANode) Configuration() transform.Configuration {
	return transform.Configuration{}
}

// Transform computes the EMA series, producing one output column aligned to
// in.Index. cinar's NewEmaWithPeriod emits fewer values than input samples
// (it seeds from the first Period samples), so the values are aligned to the
// end of the index and the leading positions are left null.
func (n *EMANode) Transform(in table.ColumnTable) (table.ColumnTable, error) {
	col, ok := in.Column(n.InputColumn)
	if !ok {
		return table.ColumnTable{}, fmt.Errorf("ema %s: missing input column %q", n.NodeID, n.InputColumn)
	}
	if n.Period < 1 || n.Period > col.Len() {
		return table.ColumnTable{}, fmt.Errorf("ema %s: invalid period %d for %d samples", n.NodeID, n.Period, col.Len())
	}

	pricesChan := make(chan float64, col.Len())
	for _, p := range col.Floats {
		pricesChan <- p
	}
	close(pricesChan)

	emaChan := trend.NewEmaWithPeriod[float64](n.Period).Compute(pricesChan)

	var values []float64
	for v := range emaChan {
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
