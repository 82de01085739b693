package executor

import (
	"fmt"
	"strings"

	"github.com/Gatchang-nyawargak/inventory-rdbms/internal/parser"
	"github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"
)

// joinColumn is one column of the combined row produced by a join. Position
// indexes into the concatenated left-then-right value list.
type joinColumn struct {
	qualified string
	bare      string
	column    types.Column
}

// execJoin evaluates SELECT ... FROM left JOIN right ON l = r as a
// nested-loop equality join. Output columns are table-qualified; bare
// references resolve when they are unambiguous across the two tables.
func (ex *Executor) execJoin(s *parser.SelectStatement) (*types.ResultSet, error) {
	left, right := s.Table, s.Join.Table
	if left == right {
		return nil, &types.SchemaError{
			Kind: types.InvalidSchema, Table: left,
			Detail: "a table cannot be joined with itself",
		}
	}
	leftCols, err := ex.store.Schema(left)
	if err != nil {
		return nil, err
	}
	rightCols, err := ex.store.Schema(right)
	if err != nil {
		return nil, err
	}

	combined := make([]joinColumn, 0, len(leftCols)+len(rightCols))
	for _, c := range leftCols {
		combined = append(combined, joinColumn{qualified: left + "." + c.Name, bare: c.Name, column: c})
	}
	for _, c := range rightCols {
		combined = append(combined, joinColumn{qualified: right + "." + c.Name, bare: c.Name, column: c})
	}

	resolve := func(ref string) (int, error) {
		if strings.Contains(ref, ".") {
			for i, jc := range combined {
				if jc.qualified == ref {
					return i, nil
				}
			}
			return 0, &types.SchemaError{Kind: types.UnknownColumn, Column: ref}
		}
		pos := -1
		for i, jc := range combined {
			if jc.bare != ref {
				continue
			}
			if pos >= 0 {
				return 0, &types.SchemaError{
					Kind: types.UnknownColumn, Column: ref,
					Detail: fmt.Sprintf("ambiguous between %s and %s", combined[pos].qualified, jc.qualified),
				}
			}
			pos = i
		}
		if pos < 0 {
			return 0, &types.SchemaError{Kind: types.UnknownColumn, Column: ref}
		}
		return pos, nil
	}

	lpos, err := resolve(s.Join.LeftRef)
	if err != nil {
		return nil, err
	}
	rpos, err := resolve(s.Join.RightRef)
	if err != nil {
		return nil, err
	}

	var where *types.Predicate
	wpos := 0
	if s.Where != nil {
		wpos, err = resolve(s.Where.Column)
		if err != nil {
			return nil, err
		}
		p := *s.Where
		if !p.Value.IsNull() {
			v, err := combined[wpos].column.Coerce(p.Value)
			if err != nil {
				return nil, err
			}
			p.Value = v
		}
		where = &p
	}

	projection := s.Columns
	if projection == nil {
		projection = make([]string, len(combined))
		for i, jc := range combined {
			projection[i] = jc.qualified
		}
	}
	indices := make([]int, len(projection))
	names := make([]string, len(projection))
	for i, ref := range projection {
		pos, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		indices[i] = pos
		names[i] = combined[pos].qualified
	}

	leftScan, err := ex.store.Scan(left, nil)
	if err != nil {
		return nil, err
	}
	rightScan, err := ex.store.Scan(right, nil)
	if err != nil {
		return nil, err
	}

	out := &types.ResultSet{Columns: names}
	pair := make([]types.Value, len(combined))
	for lr := range leftScan {
		copy(pair, lr.Values)
		// The inner sequence restarts for every outer row.
		for rr := range rightScan {
			copy(pair[len(leftCols):], rr.Values)

			// Null keys never join.
			lv, rv := pair[lpos], pair[rpos]
			if lv.IsNull() || rv.IsNull() || !lv.Equal(rv) {
				continue
			}
			if where != nil && !where.Matches(pair[wpos]) {
				continue
			}
			cells := make([]types.Value, len(indices))
			for i, pos := range indices {
				cells[i] = pair[pos]
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out, nil
}
