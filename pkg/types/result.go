package types

// ResultSet is the tabular output of one executed statement. Read
// statements fill Columns and Rows; write statements fill Affected.
type ResultSet struct {
	Columns  []string  `json:"columns,omitempty"`
	Rows     [][]Value `json:"rows,omitempty"`
	Affected int       `json:"affected"`
}
