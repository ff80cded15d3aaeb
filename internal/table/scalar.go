package table

// Scalar is a single typed, nullable value — the output shape a
// Scalar-category TransformNode produces, stored once in the scalar cache
// and broadcast to any target index length on demand.
type Scalar struct {
	Type    DType
	Float64 float64
	Int64   int64
	String  string
	Bool    bool
	Valid   bool
}

// NullScalar returns an invalid (null) scalar of the given declared type,
// the fallback used when a Scalar node's output column is missing or empty.
func NullScalar(dtype DType) Scalar {
	return Scalar{Type: dtype, Valid: false}
}

// ScalarFromColumn extracts a Scalar from the first row of a column, or a
// NullScalar of the column's declared type if the column is empty or its
// first row is null: always row zero, never an arbitrary row.
func ScalarFromColumn(c Column) Scalar {
	if c.Len() == 0 {
		return NullScalar(c.Type)
	}
	v, valid := c.at(0)
	if !valid {
		return NullScalar(c.Type)
	}
	s := Scalar{Type: c.Type, Valid: true}
	switch c.Type {
	case Float64Type:
		s.Float64 = v.(float64)
	case IntegerType:
		s.Int64 = v.(int64)
	case StringType:
		s.String = v.(string)
	case BoolType:
		s.Bool = v.(bool)
	}
	return s
}

// Broadcast replicates the scalar to a column of length n, every entry equal
// to the scalar's value (or null, if the scalar itself is null).
func (s Scalar) Broadcast(name string, n int) Column {
	col := NewNullColumn(name, s.Type, n)
	if !s.Valid {
		return col
	}
	for i := 0; i < n; i++ {
		col.Valid[i] = true
		switch s.Type {
		case Float64Type:
			col.Floats[i] = s.Float64
		case IntegerType:
			col.Ints[i] = s.Int64
		case StringType:
			col.Strings[i] = s.String
		case BoolType:
			col.Bools[i] = s.Bool
		}
	}
	return col
}
