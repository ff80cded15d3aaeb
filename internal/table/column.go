package table

// DType enumerates the logical column types the engine needs to round-trip
// through storage, simplified to the types the engine itself must reason
// about.
type DType int

const (
	// Float64Type is used for Decimal/Number-category outputs.
	Float64Type DType = iota
	// StringType is used for textual/category outputs.
	StringType
	// BoolType is used for Boolean-category outputs.
	BoolType
	// IntegerType is used for Integer-category outputs.
	IntegerType
)

func (d DType) String() string {
	switch d {
	case Float64Type:
		return "float64"
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case IntegerType:
		return "integer"
	default:
		return "unknown"
	}
}

// Column is a named, nullable typed sequence aligned with a ColumnTable's
// Index. Exactly one of the typed backing slices is populated according to
// DType; Valid tracks nullability per position.
type Column struct {
	Name    string
	Type    DType
	Floats  []float64
	Ints    []int64
	Strings []string
	Bools   []bool
	Valid   []bool
}

// NewNullColumn returns a column of length n, every entry null, of the given
// type. This backs the typed-null fallback used throughout storage when a
// transform does not produce a declared output.
func NewNullColumn(name string, dtype DType, n int) Column {
	c := Column{Name: name, Type: dtype, Valid: make([]bool, n)}
	switch dtype {
	case Float64Type:
		c.Floats = make([]float64, n)
	case IntegerType:
		c.Ints = make([]int64, n)
	case StringType:
		c.Strings = make([]string, n)
	case BoolType:
		c.Bools = make([]bool, n)
	}
	return c
}

// Len returns the number of entries in the column.
func (c Column) Len() int {
	return len(c.Valid)
}

// Clone returns a deep copy of the column.
func (c Column) Clone() Column {
	out := Column{Name: c.Name, Type: c.Type}
	out.Valid = append([]bool(nil), c.Valid...)
	out.Floats = append([]float64(nil), c.Floats...)
	out.Ints = append([]int64(nil), c.Ints...)
	out.Strings = append([]string(nil), c.Strings...)
	out.Bools = append([]bool(nil), c.Bools...)
	return out
}

// Rename returns a copy of the column under a new name.
func (c Column) Rename(name string) Column {
	out := c.Clone()
	out.Name = name
	return out
}

// at returns the value at position i as an interface{} plus its validity,
// used internally by Reindex's forward-fill.
func (c Column) at(i int) (any, bool) {
	if !c.Valid[i] {
		return nil, false
	}
	switch c.Type {
	case Float64Type:
		return c.Floats[i], true
	case IntegerType:
		return c.Ints[i], true
	case StringType:
		return c.Strings[i], true
	case BoolType:
		return c.Bools[i], true
	}
	return nil, false
}

// appendFrom appends the value at src[i] (or null) onto the end of c.
func (c *Column) appendFrom(src Column, i int, valid bool) {
	switch c.Type {
	case Float64Type:
		if valid {
			c.Floats = append(c.Floats, src.Floats[i])
		} else {
			c.Floats = append(c.Floats, 0)
		}
	case IntegerType:
		if valid {
			c.Ints = append(c.Ints, src.Ints[i])
		} else {
			c.Ints = append(c.Ints, 0)
		}
	case StringType:
		if valid {
			c.Strings = append(c.Strings, src.Strings[i])
		} else {
			c.Strings = append(c.Strings, "")
		}
	case BoolType:
		if valid {
			c.Bools = append(c.Bools, src.Bools[i])
		} else {
			c.Bools = append(c.Bools, false)
		}
	}
	c.Valid = append(c.Valid, valid)
}

// appendValue appends an arbitrary value (from a forward-fill source column,
// not necessarily src-positioned) onto c.
func (c *Column) appendValue(v any, valid bool) {
	switch c.Type {
	case Float64Type:
		f, _ := v.(float64)
		c.Floats = append(c.Floats, f)
	case IntegerType:
		n, _ := v.(int64)
		c.Ints = append(c.Ints, n)
	case StringType:
		s, _ := v.(string)
		c.Strings = append(c.Strings, s)
	case BoolType:
		b, _ := v.(bool)
		c.Bools = append(c.Bools, b)
	}
	c.Valid = append(c.Valid, valid)
}
