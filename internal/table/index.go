package table

import "time"

// Index is an ordered, monotonic sequence of timestamps shared by every
// column in a ColumnTable.
type Index struct {
	times []time.Time
	pos   map[int64]int
}

// NewIndex builds an Index from an already-sorted, strictly-increasing slice
// of timestamps. The caller owns the input slice; NewIndex copies it.
func NewIndex(times []time.Time) Index {
	cp := make([]time.Time, len(times))
	copy(cp, times)
	return Index{times: cp}
}

// Len returns the number of timestamps in the index.
func (idx Index) Len() int {
	return len(idx.times)
}

// At returns the timestamp at position i.
func (idx Index) At(i int) time.Time {
	return idx.times[i]
}

// Times returns a copy of the underlying timestamp slice.
func (idx Index) Times() []time.Time {
	out := make([]time.Time, len(idx.times))
	copy(out, idx.times)
	return out
}

// Equal reports whether two indices contain the same timestamps in the same
// order.
func (idx Index) Equal(other Index) bool {
	if len(idx.times) != len(other.times) {
		return false
	}
	for i, t := range idx.times {
		if !t.Equal(other.times[i]) {
			return false
		}
	}
	return true
}

// ensurePos lazily builds the timestamp -> position lookup map used by
// Reindex's forward-fill search.
func (idx *Index) ensurePos() {
	if idx.pos != nil {
		return
	}
	idx.pos = make(map[int64]int, len(idx.times))
	for i, t := range idx.times {
		idx.pos[t.UnixNano()] = i
	}
}

// positionOf returns the exact position of t, or -1 if absent.
func (idx *Index) positionOf(t time.Time) int {
	idx.ensurePos()
	if p, ok := idx.pos[t.UnixNano()]; ok {
		return p
	}
	return -1
}

// lastAtOrBefore returns the index of the latest timestamp <= t, or -1 if
// every timestamp in idx is after t. Binary search since idx is monotonic.
func (idx Index) lastAtOrBefore(t time.Time) int {
	lo, hi := 0, len(idx.times)-1
	result := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if idx.times[mid].After(t) {
			hi = mid - 1
		} else {
			result = mid
			lo = mid + 1
		}
	}
	return result
}
