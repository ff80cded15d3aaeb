package examples

import (
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// DemoManager is a minimal TransformManager that builds a small EMA/RSI
// chain over a single "close" base-data column, enough to exercise an
// Orchestrator end to end without depending on an external catalog.
type DemoManager struct {
	Timeframe string
}

var _ transform.TransformManager = DemoManager{}

func (m DemoManager) CatalogVersion() string { return "1.0.0" }

func (m DemoManager) BuildTransforms() ([]transform.TransformNode, error) {
	tf := table.TimeFrame("1D")
	if m.Timeframe != "" {
		tf = table.TimeFrame(m.Timeframe)
	}
	return []transform.TransformNode{
		&EMANode{NodeID: "ema12", NodeTF: tf, Period: 12, InputColumn: "close", OutputName: "value"},
		&EMANode{NodeID: "ema26", NodeTF: tf, Period: 26, InputColumn: "close", OutputName: "value"},
		&RSINode{NodeID: "rsi14", NodeTF: tf, Period: 14, InputColumn: "close", OutputName: "value"},
	}, nil
}
