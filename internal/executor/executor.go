// Package executor evaluates parsed statements against the storage engine.
// It resolves column references, pre-checks literal compatibility, runs
// joins and projections, and shapes every outcome into a result set.
package executor

import (
	"fmt"
	"strings"

	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/parser"
	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/storage"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// Executor binds statement evaluation to one storage engine.
type Executor struct {
	store *storage.Engine
}

// New returns an executor over the given storage engine.
func New(store *storage.Engine) *Executor {
	return &Executor{store: store}
}

// Execute evaluates one parsed statement. Read statements fill the result
// set's columns and rows; write statements report the affected row count.
func (ex *Executor) Execute(stmt parser.Statement) (*types.ResultSet, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStatement:
		return ex.execCreateTable(s)
	case *parser.InsertStatement:
		return ex.execInsert(s)
	case *parser.SelectStatement:
		return ex.execSelect(s)
	case *parser.UpdateStatement:
		return ex.execUpdate(s)
	case *parser.DeleteStatement:
		return ex.execDelete(s)
	case *parser.ShowTablesStatement:
		return ex.execShowTables()
	case *parser.DescribeStatement:
		return ex.execDescribe(s)
	default:
		return nil, fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (ex *Executor) execCreateTable(s *parser.CreateTableStatement) (*types.ResultSet, error) {
	if err := ex.store.CreateTable(s.Table, s.Columns); err != nil {
		return nil, err
	}
	return &types.ResultSet{}, nil
}

func (ex *Executor) execInsert(s *parser.InsertStatement) (*types.ResultSet, error) {
	columns, err := ex.store.Schema(s.Table)
	if err != nil {
		return nil, err
	}

	values := make([]types.Value, len(columns))
	for i := range values {
		values[i] = types.Null()
	}

	if s.Columns == nil {
		if len(s.Values) != len(columns) {
			return nil, &types.SchemaError{
				Kind: types.InvalidSchema, Table: s.Table,
				Detail: fmt.Sprintf("expected %d values, got %d", len(columns), len(s.Values)),
			}
		}
		copy(values, s.Values)
	} else {
		if len(s.Values) != len(s.Columns) {
			return nil, &types.SchemaError{
				Kind: types.InvalidSchema, Table: s.Table,
				Detail: fmt.Sprintf("%d columns but %d values", len(s.Columns), len(s.Values)),
			}
		}
		seen := make(map[string]bool, len(s.Columns))
		for i, name := range s.Columns {
			ci := columnIndex(columns, name)
			if ci < 0 {
				return nil, &types.SchemaError{
					Kind: types.UnknownColumn, Table: s.Table, Column: name,
				}
			}
			if seen[name] {
				return nil, &types.SchemaError{
					Kind: types.InvalidSchema, Table: s.Table, Column: name,
					Detail: "column listed twice",
				}
			}
			seen[name] = true
			values[ci] = s.Values[i]
		}
	}

	// Fast literal check before the storage engine validates authoritatively.
	for i, c := range columns {
		if !c.CompatibleLiteral(values[i].Kind) {
			return nil, &types.TypeMismatchError{
				Column:   c.Name,
				Expected: c.Type.String(),
				Actual:   values[i].Kind.String(),
			}
		}
	}

	if _, err := ex.store.InsertRow(s.Table, values); err != nil {
		return nil, err
	}
	return &types.ResultSet{Affected: 1}, nil
}

func (ex *Executor) execSelect(s *parser.SelectStatement) (*types.ResultSet, error) {
	if s.Join != nil {
		return ex.execJoin(s)
	}

	columns, err := ex.store.Schema(s.Table)
	if err != nil {
		return nil, err
	}

	where, err := unqualifyPredicate(s.Table, columns, s.Where)
	if err != nil {
		return nil, err
	}
	scan, err := ex.store.Scan(s.Table, where)
	if err != nil {
		return nil, err
	}

	// SELECT * keeps the schema's column order.
	projected := s.Columns
	if projected == nil {
		projected = make([]string, len(columns))
		for i, c := range columns {
			projected[i] = c.Name
		}
	}
	indices := make([]int, len(projected))
	names := make([]string, len(projected))
	for i, ref := range projected {
		name, err := unqualifyRef(s.Table, ref)
		if err != nil {
			return nil, err
		}
		ci := columnIndex(columns, name)
		if ci < 0 {
			return nil, &types.SchemaError{
				Kind: types.UnknownColumn, Table: s.Table, Column: name,
			}
		}
		indices[i] = ci
		names[i] = name
	}

	out := &types.ResultSet{Columns: names}
	for row := range scan {
		cells := make([]types.Value, len(indices))
		for i, ci := range indices {
			cells[i] = row.Values[ci]
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func (ex *Executor) execUpdate(s *parser.UpdateStatement) (*types.ResultSet, error) {
	columns, err := ex.store.Schema(s.Table)
	if err != nil {
		return nil, err
	}
	where, err := unqualifyPredicate(s.Table, columns, s.Where)
	if err != nil {
		return nil, err
	}
	set := make([]storage.Assignment, len(s.Set))
	for i, a := range s.Set {
		set[i] = storage.Assignment{Column: a.Column, Value: a.Value}
	}
	n, err := ex.store.UpdateRows(s.Table, set, where)
	if err != nil {
		return nil, err
	}
	return &types.ResultSet{Affected: n}, nil
}

func (ex *Executor) execDelete(s *parser.DeleteStatement) (*types.ResultSet, error) {
	columns, err := ex.store.Schema(s.Table)
	if err != nil {
		return nil, err
	}
	where, err := unqualifyPredicate(s.Table, columns, s.Where)
	if err != nil {
		return nil, err
	}
	n, err := ex.store.DeleteRows(s.Table, where)
	if err != nil {
		return nil, err
	}
	return &types.ResultSet{Affected: n}, nil
}

func (ex *Executor) execShowTables() (*types.ResultSet, error) {
	out := &types.ResultSet{Columns: []string{"table"}}
	for _, name := range ex.store.TableNames() {
		out.Rows = append(out.Rows, []types.Value{types.NewText(name)})
	}
	return out, nil
}

func (ex *Executor) execDescribe(s *parser.DescribeStatement) (*types.ResultSet, error) {
	columns, err := ex.store.Schema(s.Table)
	if err != nil {
		return nil, err
	}
	out := &types.ResultSet{Columns: []string{"column", "type", "constraints"}}
	for _, c := range columns {
		out.Rows = append(out.Rows, []types.Value{
			types.NewText(c.Name),
			types.NewText(c.Type.String()),
			types.NewText(c.Constraints()),
		})
	}
	return out, nil
}

func columnIndex(columns []types.Column, name string) int {
	for i, c := range columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// unqualifyRef strips a "table." qualifier from a column reference in a
// single-table statement. A qualifier naming any other table is an error.
func unqualifyRef(table, ref string) (string, error) {
	prefix, name, ok := strings.Cut(ref, ".")
	if !ok {
		return ref, nil
	}
	if prefix != table {
		return "", &types.SchemaError{
			Kind: types.UnknownColumn, Table: table, Column: ref,
			Detail: fmt.Sprintf("qualifier %q does not name the selected table", prefix),
		}
	}
	return name, nil
}

// unqualifyPredicate rewrites a predicate's column reference to the bare
// name the storage engine expects, checking it against the schema.
func unqualifyPredicate(table string, columns []types.Column, where *types.Predicate) (*types.Predicate, error) {
	if where == nil {
		return nil, nil
	}
	name, err := unqualifyRef(table, where.Column)
	if err != nil {
		return nil, err
	}
	if columnIndex(columns, name) < 0 {
		return nil, &types.SchemaError{
			Kind: types.UnknownColumn, Table: table, Column: name,
		}
	}
	p := *where
	p.Column = name
	return &p, nil
}
