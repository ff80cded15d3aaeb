// Package transform defines the contracts external transform catalogs must
// satisfy: the TransformNode operator interface, its static metadata, and
// the TransformManager that supplies nodes to an Orchestrator in
// dependency-safe order. The catalog of concrete transforms (indicators,
// pattern detectors, reporters) is an external collaborator; this package
// only describes the shape it must have.
package transform

import (
	"fmt"

	"github.com/ajitpratap0/epochflow/internal/artifact"
	"github.com/ajitpratap0/epochflow/internal/table"
)

// Category classifies a node's role, driving several engine-side policies
// (scalar broadcast optimization, reporter/selector post-processing, and
// final-output assembly's DataSource exclusion).
type Category int

const (
	// Executor is the default category: a plain columnar transform.
	Executor Category = iota
	// DataSource marks a node whose output already exists in BaseData and
	// must be excluded from the handle-index walk in BuildFinalOutput.
	DataSource
	// Scalar marks a node whose output is stored once and broadcast.
	Scalar
	// Reporter marks a node that additionally emits a TearSheet after
	// execution.
	Reporter
	// Selector marks a node that additionally emits SelectorData after
	// execution.
	Selector
	// Indicator, Trend, and Utility are purely descriptive categories with
	// no distinct engine-side policy; concrete catalogs use them to tag
	// intent for UI/reporting consumers outside this engine.
	Indicator
	Trend
	Utility
)

func (c Category) String() string {
	switch c {
	case DataSource:
		return "DataSource"
	case Scalar:
		return "Scalar"
	case Reporter:
		return "Reporter"
	case Selector:
		return "Selector"
	case Indicator:
		return "Indicator"
	case Trend:
		return "Trend"
	case Utility:
		return "Utility"
	default:
		return "Executor"
	}
}

// OutputDescriptor declares one output a node produces: its logical name
// (expanded into an OutputHandle "{nodeId}#{name}" by the engine) and its
// declared logical type (used for typed-null fallback).
type OutputDescriptor struct {
	Name string
	Type table.DType
}

// Metadata is a node's static description, consulted by Storage and the
// execution functions without invoking the node's transform logic.
type Metadata struct {
	Category            Category
	Outputs             []OutputDescriptor
	RequiredDataSources []string
	IsCrossSectional    bool
	IntradayOnly        bool
	AllowNullInputs     bool
}

// SessionRange is a UTC (start, end) time-of-day window; sessions may cross
// midnight (End <= Start in that case).
type SessionRange struct {
	StartHMS string // "HH:MM:SS"
	EndHMS   string // "HH:MM:SS"
	Set      bool
}

// Configuration exposes a node's options map and optional explicit session
// range.
type Configuration struct {
	Options      map[string]string
	SessionRange SessionRange
}

// RequiresSession reports whether a node's configuration implies session
// slicing should be applied before its transform runs: an explicit
// SessionRange always wins; absent that, the presence of a "session" options
// key opts in. This is intentionally an implicit heuristic, not a dedicated
// boolean field — see DESIGN.md for the reasoning.
func (c Configuration) RequiresSession() bool {
	if c.SessionRange.Set {
		return true
	}
	_, ok := c.Options["session"]
	return ok
}

// OutputHandle formats a node id and output name into the engine's globally
// unique handle string.
func OutputHandle(nodeID, outputName string) string {
	return fmt.Sprintf("%s#%s", nodeID, outputName)
}

// TransformNode is the runtime operator contract. Transform must be pure:
// it may not mutate shared state and must depend only on its input table and
// Configuration.
type TransformNode interface {
	ID() string
	Timeframe() table.TimeFrame
	InputIDs() []string
	Metadata() Metadata
	Configuration() Configuration
	Transform(in table.ColumnTable) (table.ColumnTable, error)
}

// Reporter is implemented by nodes whose Metadata().Category == Reporter.
// The engine calls TearSheet() once per execution, after the graph drains.
type Reporter interface {
	TearSheet() artifact.TearSheet
}

// Selector is implemented by nodes whose Metadata().Category == Selector.
type Selector interface {
	SelectorData() artifact.SelectorData
}

// OutputIDs expands a node's declared output names into fully-qualified
// OutputHandles, uniquely prefixed by the node's id.
func OutputIDs(n TransformNode) []string {
	meta := n.Metadata()
	ids := make([]string, len(meta.Outputs))
	for i, o := range meta.Outputs {
		ids[i] = OutputHandle(n.ID(), o.Name)
	}
	return ids
}

// TransformManager supplies TransformNode instances in an order where every
// consumer's producers precede it. The engine does not validate topological
// order beyond detecting unresolved handles during registration.
type TransformManager interface {
	BuildTransforms() ([]TransformNode, error)
	// CatalogVersion declares the semver version of the transform catalog
	// this manager builds, checked against the Orchestrator's supported
	// range at construction time.
	CatalogVersion() string
}
