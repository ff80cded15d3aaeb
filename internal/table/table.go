package table

import (
	"fmt"
	"time"
)

// ColumnTable is a two-dimensional columnar table: a monotonic time Index
// plus an ordered list of named, nullable Columns all sharing that index's
// length.
type ColumnTable struct {
	Index   Index
	columns []Column
	byName  map[string]int
}

// New builds a ColumnTable from an index and a set of columns. Every column
// must have the same length as the index.
func New(idx Index, columns ...Column) (ColumnTable, error) {
	t := ColumnTable{Index: idx}
	for _, c := range columns {
		if c.Len() != idx.Len() {
			return ColumnTable{}, fmt.Errorf("table: column %q has length %d, index has length %d", c.Name, c.Len(), idx.Len())
		}
		if err := t.addColumn(c); err != nil {
			return ColumnTable{}, err
		}
	}
	return t, nil
}

func (t *ColumnTable) addColumn(c Column) error {
	if t.byName == nil {
		t.byName = make(map[string]int)
	}
	if _, exists := t.byName[c.Name]; exists {
		return fmt.Errorf("table: duplicate column %q", c.Name)
	}
	t.byName[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Empty is an empty table with no index and no columns — the sentinel used
// throughout execution for "no output" and "skip transform" paths.
func Empty() ColumnTable {
	return ColumnTable{}
}

// Len returns the number of rows.
func (t ColumnTable) Len() int {
	return t.Index.Len()
}

// IsEmpty reports whether the table has zero rows or zero columns.
func (t ColumnTable) IsEmpty() bool {
	return t.Index.Len() == 0 || len(t.columns) == 0
}

// ColumnNames returns the table's column names in declaration order.
func (t ColumnTable) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether the table has a column with the given name.
func (t ColumnTable) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the column with the given name.
func (t ColumnTable) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// MustColumn returns the column with the given name, panicking if absent.
// Reserved for call sites that have already checked Contains.
func (t ColumnTable) MustColumn(name string) Column {
	c, ok := t.Column(name)
	if !ok {
		panic(fmt.Sprintf("table: column %q not found", name))
	}
	return c
}

// Select returns a new table containing only the named columns, in the
// order requested.
func (t ColumnTable) Select(names ...string) (ColumnTable, error) {
	out := ColumnTable{Index: t.Index}
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return ColumnTable{}, fmt.Errorf("table: cannot select missing column %q", name)
		}
		if err := out.addColumn(c.Clone()); err != nil {
			return ColumnTable{}, err
		}
	}
	return out, nil
}

// Rename returns a copy of the table with one column renamed.
func (t ColumnTable) Rename(oldName, newName string) (ColumnTable, error) {
	out := ColumnTable{Index: t.Index}
	for _, c := range t.columns {
		if c.Name == oldName {
			c = c.Rename(newName)
		} else {
			c = c.Clone()
		}
		if err := out.addColumn(c); err != nil {
			return ColumnTable{}, err
		}
	}
	return out, nil
}

// DropNull removes every row that has a null value in any column, matching
// the table library's row-wise null-drop contract.
func (t ColumnTable) DropNull() ColumnTable {
	if t.IsEmpty() {
		return t
	}
	keep := make([]int, 0, t.Len())
	for row := 0; row < t.Len(); row++ {
		ok := true
		for _, c := range t.columns {
			if !c.Valid[row] {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, row)
		}
	}
	return t.selectRows(keep)
}

func (t ColumnTable) selectRows(rows []int) ColumnTable {
	times := make([]time.Time, len(rows))
	for i, r := range rows {
		times[i] = t.Index.At(r)
	}

	result := ColumnTable{Index: NewIndex(times)}
	for _, c := range t.columns {
		nc := Column{Name: c.Name, Type: c.Type}
		for _, r := range rows {
			v, valid := c.at(r)
			nc.appendValue(v, valid)
		}
		_ = result.addColumn(nc)
	}
	return result
}
