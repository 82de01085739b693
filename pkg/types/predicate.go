package types

// Operator is a comparison operator in a WHERE clause.
type Operator string

const (
	OpEq Operator = "="
	OpGt Operator = ">"
	OpLt Operator = "<"
	OpGe Operator = ">="
	OpLe Operator = "<="
	OpNe Operator = "!="
)

// validOperators is the set of recognized comparison operators.
var validOperators = map[Operator]bool{
	OpEq: true, OpGt: true, OpLt: true, OpGe: true, OpLe: true, OpNe: true,
}

// Valid reports whether the operator is recognized.
func (op Operator) Valid() bool { return validOperators[op] }

// Predicate is a single column/operator/literal comparison. Column may be
// qualified ("table.column") when the statement joins two tables.
type Predicate struct {
	Column string
	Op     Operator
	Value  Value
}

// Matches evaluates the predicate against a single value.
//
// Null semantics: equality treats null as equal only to null, inequality is
// its negation, and ordering comparisons never match when either side is
// null or the values are not mutually comparable.
func (p Predicate) Matches(v Value) bool {
	switch p.Op {
	case OpEq:
		return v.Equal(p.Value)
	case OpNe:
		return !v.Equal(p.Value)
	}
	c, ok := v.Compare(p.Value)
	if !ok {
		return false
	}
	switch p.Op {
	case OpGt:
		return c > 0
	case OpLt:
		return c < 0
	case OpGe:
		return c >= 0
	case OpLe:
		return c <= 0
	default:
		return false
	}
}

// IsIndexableEquality reports whether the predicate is an equality test
// against a non-null literal, the only form resolvable by index lookup.
func (p Predicate) IsIndexableEquality() bool {
	return p.Op == OpEq && !p.Value.IsNull()
}
