package storage

import (
	"sort"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// table is the in-memory state of one stored table. Rows keep insertion
// order; byID maps a row identifier to its position; indexes maps an indexed
// column name to value-key to the set of row identifiers holding that value.
// Null values are never indexed.
type table struct {
	name    string
	columns []types.Column
	rows    []types.Row
	byID    map[string]int
	indexes map[string]map[string]map[string]struct{}
}

func newTable(name string, columns []types.Column) *table {
	t := &table{name: name, columns: columns}
	t.rebuild()
	return t
}

// colIndex returns the position of a column in the schema, or -1.
func (t *table) colIndex(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// rebuild reconstructs byID and the indexes from the row list. Indexes are
// derived state and are never persisted.
func (t *table) rebuild() {
	t.byID = make(map[string]int, len(t.rows))
	t.indexes = make(map[string]map[string]map[string]struct{})
	for _, c := range t.columns {
		if c.Indexed() {
			t.indexes[c.Name] = make(map[string]map[string]struct{})
		}
	}
	for pos, row := range t.rows {
		t.byID[row.ID] = pos
		t.indexRow(row)
	}
}

func (t *table) indexRow(row types.Row) {
	for i, c := range t.columns {
		if !c.Indexed() || row.Values[i].IsNull() {
			continue
		}
		key := row.Values[i].Key()
		bucket := t.indexes[c.Name][key]
		if bucket == nil {
			bucket = make(map[string]struct{})
			t.indexes[c.Name][key] = bucket
		}
		bucket[row.ID] = struct{}{}
	}
}

// indexedIDs returns the identifiers of rows whose indexed column holds the
// given value key, or nil when none do.
func (t *table) indexedIDs(column, key string) map[string]struct{} {
	byKey, ok := t.indexes[column]
	if !ok {
		return nil
	}
	return byKey[key]
}

// coercePredicate resolves the predicate column against the schema and
// coerces its literal to the column's type, so that comparisons and index
// keys agree with stored representations.
func (t *table) coercePredicate(where *types.Predicate) (types.Predicate, int, error) {
	ci := t.colIndex(where.Column)
	if ci < 0 {
		return types.Predicate{}, 0, &types.SchemaError{
			Kind:   types.UnknownColumn,
			Table:  t.name,
			Column: where.Column,
		}
	}
	p := *where
	if !p.Value.IsNull() {
		v, err := t.columns[ci].Coerce(p.Value)
		if err != nil {
			return types.Predicate{}, 0, err
		}
		p.Value = v
	}
	return p, ci, nil
}

// match returns the positions of rows satisfying the predicate, in
// insertion order. A nil predicate matches every row. Equality tests on
// indexed columns resolve through the index instead of scanning.
func (t *table) match(where *types.Predicate) ([]int, error) {
	if where == nil {
		positions := make([]int, len(t.rows))
		for i := range t.rows {
			positions[i] = i
		}
		return positions, nil
	}

	p, ci, err := t.coercePredicate(where)
	if err != nil {
		return nil, err
	}

	if t.columns[ci].Indexed() && p.IsIndexableEquality() {
		ids := t.indexedIDs(t.columns[ci].Name, p.Value.Key())
		positions := make([]int, 0, len(ids))
		for id := range ids {
			positions = append(positions, t.byID[id])
		}
		sort.Ints(positions)
		return positions, nil
	}

	var positions []int
	for i, row := range t.rows {
		if p.Matches(row.Values[ci]) {
			positions = append(positions, i)
		}
	}
	return positions, nil
}
