package table

// FloatColumn builds a fully-valid Float64Type column from plain values.
func FloatColumn(name string, values []float64) Column {
	c := Column{Name: name, Type: Float64Type, Floats: append([]float64(nil), values...)}
	c.Valid = make([]bool, len(values))
	for i := range c.Valid {
		c.Valid[i] = true
	}
	return c
}

// StringColumn builds a fully-valid StringType column from plain values.
func StringColumn(name string, values []string) Column {
	c := Column{Name: name, Type: StringType, Strings: append([]string(nil), values...)}
	c.Valid = make([]bool, len(values))
	for i := range c.Valid {
		c.Valid[i] = true
	}
	return c
}

// BoolColumn builds a fully-valid BoolType column from plain values.
func BoolColumn(name string, values []bool) Column {
	c := Column{Name: name, Type: BoolType, Bools: append([]bool(nil), values...)}
	c.Valid = make([]bool, len(values))
	for i := range c.Valid {
		c.Valid[i] = true
	}
	return c
}
