package table

import (
	"sort"
	"time"
)

// Reindex aligns the table onto a new Index using a forward-fill-then-null
// policy: each target timestamp takes the value from the latest source
// timestamp at or before it, or null if no such source row exists (i.e. the
// target timestamp precedes every source timestamp). This is the "last
// known value" policy time-series systems use.
func (t ColumnTable) Reindex(target Index) ColumnTable {
	out := ColumnTable{Index: target}
	for _, c := range t.columns {
		nc := Column{Name: c.Name, Type: c.Type}
		for i := 0; i < target.Len(); i++ {
			srcPos := t.Index.lastAtOrBefore(target.At(i))
			if srcPos < 0 {
				nc.appendValue(nil, false)
				continue
			}
			v, valid := c.at(srcPos)
			nc.appendValue(v, valid)
		}
		_ = out.addColumn(nc)
	}
	return out
}

// Concat outer-join-concatenates two tables along the column axis: the
// result's index is the union (sorted, deduplicated) of both indices, and
// every column from both inputs is reindexed onto that union before being
// included. Column name collisions keep the left table's column.
func (t ColumnTable) Concat(other ColumnTable) ColumnTable {
	if t.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return t
	}

	union := unionIndex(t.Index, other.Index)
	left := t.Reindex(union)
	right := other.Reindex(union)

	out := ColumnTable{Index: union}
	for _, c := range left.columns {
		_ = out.addColumn(c)
	}
	for _, c := range right.columns {
		if out.Contains(c.Name) {
			continue
		}
		_ = out.addColumn(c)
	}
	return out
}

func unionIndex(a, b Index) Index {
	seen := make(map[int64]time.Time, a.Len()+b.Len())
	for i := 0; i < a.Len(); i++ {
		seen[a.At(i).UnixNano()] = a.At(i)
	}
	for i := 0; i < b.Len(); i++ {
		seen[b.At(i).UnixNano()] = b.At(i)
	}

	times := make([]time.Time, 0, len(seen))
	for _, t := range seen {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	return NewIndex(times)
}
