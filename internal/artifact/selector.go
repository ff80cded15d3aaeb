package artifact

import "github.com/ajitpratap0/epochflow/internal/table"

// ColumnSchema describes one column a SelectorData's accompanying table
// exposes to a UI consumer.
type ColumnSchema struct {
	Name string       `json:"name"`
	Type table.DType  `json:"type"`
}

// SelectorData is a named, schema-described table a Selector-category node
// emits after execution. Selectors are never merged: a node may legitimately
// contribute multiple entries per asset across reruns, and they are kept as
// a list, not deduplicated.
type SelectorData struct {
	Title   string
	Schemas []ColumnSchema
	Data    table.ColumnTable
}

// IsEmpty reports whether this SelectorData should be silently dropped
// rather than cached: an empty title or no declared schemas.
func (s SelectorData) IsEmpty() bool {
	return s.Title == "" || len(s.Schemas) == 0
}
