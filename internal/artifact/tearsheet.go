// Package artifact implements the structural merge semantics side
// artifacts (tearsheets, UI selectors) require when multiple reporter nodes
// contribute to the same asset's report. The merge rule mirrors
// protocol-buffer MergeFrom semantics even though no protobuf dependency is
// involved: repeated fields append, singular scalar fields overwrite,
// singular message fields merge recursively.
package artifact

// Card is a single scalar-valued summary tile on a tearsheet (e.g. "Sharpe
// Ratio: 1.42").
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

// ChartSeries is one named series plotted on a Chart.
type ChartSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is a single chart artifact on a tearsheet.
type Chart struct {
	Title  string        `json:"title"`
	Kind   string        `json:"kind"` // "line", "bar", "candlestick", ...
	Series []ChartSeries `json:"series"`
}

// TableColumn is one column of a Table artifact.
type TableColumn struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Table is a single tabular artifact on a tearsheet.
type Table struct {
	Title   string        `json:"title"`
	Columns []TableColumn `json:"columns"`
}

// Summary is a singular message field on TearSheet: recursively merged
// (never appended, never outright overwritten) when both sides are present.
type Summary struct {
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
}

// TearSheet is the structural report artifact accumulated per asset: cards,
// charts, and tables are repeated fields (append semantics); Summary is a
// singular message field (merge semantics).
type TearSheet struct {
	Cards   []Card   `json:"cards,omitempty"`
	Charts  []Chart  `json:"charts,omitempty"`
	Tables  []Table  `json:"tables,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
}

// ByteSize approximates protobuf's ByteSizeLong() == 0 emptiness check: a
// TearSheet with no cards, charts, tables, or summary is considered empty
// and is never cached.
func (t TearSheet) ByteSize() int {
	size := len(t.Cards) + len(t.Charts) + len(t.Tables)
	if t.Summary != nil {
		size++
	}
	return size
}

// MergeInPlace structurally merges other into existing, in place, following
// protobuf MergeFrom semantics: repeated fields are appended (not
// deduplicated), singular scalar fields in Summary are overwritten when set
// in other, and Summary itself is merged recursively rather than replaced.
// The merge is order-preserving: other's artifacts appear after existing's.
func MergeInPlace(existing *TearSheet, other TearSheet) {
	existing.Cards = append(existing.Cards, other.Cards...)
	existing.Charts = append(existing.Charts, other.Charts...)
	existing.Tables = append(existing.Tables, other.Tables...)

	if other.Summary == nil {
		return
	}
	if existing.Summary == nil {
		existing.Summary = &Summary{}
	}
	if other.Summary.Headline != "" {
		existing.Summary.Headline = other.Summary.Headline
	}
	if other.Summary.Description != "" {
		existing.Summary.Description = other.Summary.Description
	}
}
