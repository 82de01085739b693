// Package storage implements the table storage engine: schema management,
// row mutation with constraint checking, eager indexes on constrained
// columns, and durable per-table JSON files.
//
// Every mutating operation is statement-atomic. The engine builds the
// proposed row state, validates it, persists it, and only then commits it
// in memory, so a failed statement leaves both memory and disk untouched.
package storage

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Assignment is one column/value pair applied by an update.
type Assignment struct {
	Column string
	Value  types.Value
}

// Engine owns the catalog of tables backing one data directory. It is not
// safe for concurrent use; callers serialize access.
type Engine struct {
	dataDir string
	tables  map[string]*table
}

// Open loads every table file in the data directory, creating the
// directory if it does not exist. Indexes are rebuilt from the row data.
func Open(dataDir string) (*Engine, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, &types.StorageIOError{Path: dataDir, Err: err}
	}
	e := &Engine{dataDir: dataDir, tables: make(map[string]*table)}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, &types.StorageIOError{Path: dataDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		t, err := readTableFile(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		e.tables[t.name] = t
	}
	return e, nil
}

// Close releases the engine. Table files are written eagerly on every
// mutation, so there is nothing to flush here.
func (e *Engine) Close() error { return nil }

// TableNames returns the catalog's table names in sorted order.
func (e *Engine) TableNames() []string {
	names := make([]string, 0, len(e.tables))
	for name := range e.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema returns a copy of the table's column definitions.
func (e *Engine) Schema(name string) ([]types.Column, error) {
	t, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	columns := make([]types.Column, len(t.columns))
	copy(columns, t.columns)
	return columns, nil
}

// CreateTable validates the schema, persists an empty table file, and adds
// the table to the catalog.
func (e *Engine) CreateTable(name string, columns []types.Column) error {
	if _, ok := e.tables[name]; ok {
		return &types.SchemaError{Kind: types.DuplicateTable, Table: name}
	}
	if err := validateSchema(name, columns); err != nil {
		return err
	}
	t := newTable(name, columns)
	if err := e.persist(t, nil); err != nil {
		return err
	}
	e.tables[name] = t
	return nil
}

func validateSchema(name string, columns []types.Column) error {
	if name == "" {
		return &types.SchemaError{Kind: types.InvalidSchema, Detail: "empty table name"}
	}
	if len(columns) == 0 {
		return &types.SchemaError{Kind: types.InvalidSchema, Table: name, Detail: "no columns"}
	}
	seen := make(map[string]bool, len(columns))
	pk := ""
	for _, c := range columns {
		if c.Name == "" {
			return &types.SchemaError{Kind: types.InvalidSchema, Table: name, Detail: "empty column name"}
		}
		if seen[c.Name] {
			return &types.SchemaError{
				Kind: types.InvalidSchema, Table: name, Column: c.Name,
				Detail: "duplicate column name",
			}
		}
		seen[c.Name] = true
		if !c.Type.Valid() {
			return &types.SchemaError{
				Kind: types.InvalidSchema, Table: name, Column: c.Name,
				Detail: fmt.Sprintf("invalid type %s", c.Type),
			}
		}
		if c.PrimaryKey {
			if pk != "" {
				return &types.SchemaError{
					Kind: types.InvalidSchema, Table: name, Column: c.Name,
					Detail: fmt.Sprintf("second primary key, %q already is one", pk),
				}
			}
			pk = c.Name
		}
	}
	return nil
}

// InsertRow validates values against the schema and constraints, persists
// the table with the new row appended, and commits it. Values align
// positionally with the schema; the returned row carries the assigned
// identifier.
func (e *Engine) InsertRow(tableName string, values []types.Value) (types.Row, error) {
	t, err := e.lookup(tableName)
	if err != nil {
		return types.Row{}, err
	}
	if len(values) != len(t.columns) {
		return types.Row{}, &types.SchemaError{
			Kind: types.InvalidSchema, Table: tableName,
			Detail: fmt.Sprintf("expected %d values, got %d", len(t.columns), len(values)),
		}
	}

	row := types.Row{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Values: make([]types.Value, len(values)),
	}
	for i, c := range t.columns {
		v, err := c.Coerce(values[i])
		if err != nil {
			return types.Row{}, err
		}
		if v.IsNull() && c.NotNull {
			return types.Row{}, &types.ConstraintViolation{
				Kind: types.NotNullViolation, Table: tableName, Column: c.Name,
			}
		}
		row.Values[i] = v
	}

	for i, c := range t.columns {
		if !c.Indexed() || row.Values[i].IsNull() {
			continue
		}
		if len(t.indexedIDs(c.Name, row.Values[i].Key())) > 0 {
			return types.Row{}, duplicateViolation(c, tableName, row.Values[i])
		}
	}

	proposed := append(append([]types.Row(nil), t.rows...), row)
	if err := e.persist(t, proposed); err != nil {
		return types.Row{}, err
	}
	t.rows = proposed
	t.byID[row.ID] = len(t.rows) - 1
	t.indexRow(row)
	return row.Clone(), nil
}

// Scan returns the rows matching the predicate as a lazy sequence in
// insertion order. Each row is cloned as it is yielded; ranging again
// restarts the scan over the table's current state. A nil predicate
// matches every row. Equality predicates on indexed columns resolve
// through the index.
func (e *Engine) Scan(tableName string, where *types.Predicate) (iter.Seq[types.Row], error) {
	t, err := e.lookup(tableName)
	if err != nil {
		return nil, err
	}
	if where != nil {
		// Surface schema and type errors before the caller ranges.
		if _, _, err := t.coercePredicate(where); err != nil {
			return nil, err
		}
	}
	return func(yield func(types.Row) bool) {
		positions, err := t.match(where)
		if err != nil {
			// Already validated above against the same schema.
			return
		}
		for _, pos := range positions {
			if !yield(t.rows[pos].Clone()) {
				return
			}
		}
	}, nil
}

// UpdateRows applies the assignments to every matching row as one atomic
// statement: either all matched rows change and the file is rewritten, or
// nothing does. Uniqueness is validated against the proposed state, so a
// statement may move a unique value between rows it updates.
func (e *Engine) UpdateRows(tableName string, set []Assignment, where *types.Predicate) (int, error) {
	t, err := e.lookup(tableName)
	if err != nil {
		return 0, err
	}

	type change struct {
		col   int
		value types.Value
	}
	changes := make([]change, 0, len(set))
	for _, a := range set {
		ci := t.colIndex(a.Column)
		if ci < 0 {
			return 0, &types.SchemaError{
				Kind: types.UnknownColumn, Table: tableName, Column: a.Column,
			}
		}
		c := t.columns[ci]
		v, err := c.Coerce(a.Value)
		if err != nil {
			return 0, err
		}
		if v.IsNull() && c.NotNull {
			return 0, &types.ConstraintViolation{
				Kind: types.NotNullViolation, Table: tableName, Column: c.Name,
			}
		}
		changes = append(changes, change{col: ci, value: v})
	}

	positions, err := t.match(where)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, nil
	}

	proposed := make([]types.Row, len(t.rows))
	copy(proposed, t.rows)
	for _, pos := range positions {
		row := t.rows[pos].Clone()
		for _, ch := range changes {
			row.Values[ch.col] = ch.value
		}
		proposed[pos] = row
	}

	if err := validateUnique(t, tableName, proposed); err != nil {
		return 0, err
	}
	if err := e.persist(t, proposed); err != nil {
		return 0, err
	}
	t.rows = proposed
	t.rebuild()
	return len(positions), nil
}

// DeleteRows removes every matching row. A nil predicate removes all rows;
// that is deliberate.
func (e *Engine) DeleteRows(tableName string, where *types.Predicate) (int, error) {
	t, err := e.lookup(tableName)
	if err != nil {
		return 0, err
	}
	positions, err := t.match(where)
	if err != nil {
		return 0, err
	}
	if len(positions) == 0 {
		return 0, nil
	}

	doomed := make(map[int]bool, len(positions))
	for _, pos := range positions {
		doomed[pos] = true
	}
	proposed := make([]types.Row, 0, len(t.rows)-len(positions))
	for i, row := range t.rows {
		if !doomed[i] {
			proposed = append(proposed, row)
		}
	}

	if err := e.persist(t, proposed); err != nil {
		return 0, err
	}
	t.rows = proposed
	t.rebuild()
	return len(positions), nil
}

func (e *Engine) lookup(name string) (*table, error) {
	t, ok := e.tables[name]
	if !ok {
		return nil, &types.SchemaError{Kind: types.UnknownTable, Table: name}
	}
	return t, nil
}

func (e *Engine) tablePath(name string) string {
	return filepath.Join(e.dataDir, name+".json")
}

func (e *Engine) persist(t *table, rows []types.Row) error {
	path := e.tablePath(t.name)
	data, err := encodeTableFile(t.name, t.columns, rows)
	if err != nil {
		return &types.StorageIOError{Path: path, Err: err}
	}
	if err := atomicWrite(path, data); err != nil {
		return &types.StorageIOError{Path: path, Err: err}
	}
	return nil
}

// validateUnique checks PRIMARY KEY and UNIQUE columns over a full proposed
// row state, catching duplicates both between updated and untouched rows
// and within the updated batch itself.
func validateUnique(t *table, tableName string, rows []types.Row) error {
	for ci, c := range t.columns {
		if !c.Indexed() {
			continue
		}
		seen := make(map[string]bool, len(rows))
		for _, row := range rows {
			v := row.Values[ci]
			if v.IsNull() {
				continue
			}
			key := v.Key()
			if seen[key] {
				return duplicateViolation(c, tableName, v)
			}
			seen[key] = true
		}
	}
	return nil
}

func duplicateViolation(c types.Column, tableName string, v types.Value) error {
	kind := types.UniqueDuplicate
	if c.PrimaryKey {
		kind = types.PrimaryKeyDuplicate
	}
	return &types.ConstraintViolation{Kind: kind, Table: tableName, Column: c.Name, Value: v}
}
