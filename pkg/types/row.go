package types

// Row is one stored row: a stable identifier plus an ordered value list
// aligned with the table's columns. The identifier is a UUID v7 assigned at
// insertion and never reused within a live table.
type Row struct {
	ID     string
	Values []Value
}

// Clone returns a copy whose value slice is independent of the original.
func (r Row) Clone() Row {
	vals := make([]Value, len(r.Values))
	copy(vals, r.Values)
	return Row{ID: r.ID, Values: vals}
}
