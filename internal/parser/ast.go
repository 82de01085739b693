package parser

import "github.com/Gatchang-nyawargak/inventory-rdbms/pkg/types"

// Statement is the common interface for all parsed statements.
type Statement interface {
	stmtNode()
}

// CreateTableStatement represents CREATE TABLE name (col type [constraint...], ...).
type CreateTableStatement struct {
	Table   string
	Columns []types.Column
}

// InsertStatement represents INSERT INTO name [(cols)] VALUES (...).
// Columns is nil when the statement omits the column list, in which case
// Values align positionally with the table schema.
type InsertStatement struct {
	Table   string
	Columns []string
	Values  []types.Value
}

// JoinClause represents JOIN table ON left = right. The column references
// are kept as written and may be table-qualified; the executor resolves
// which side each belongs to.
type JoinClause struct {
	Table    string
	LeftRef  string
	RightRef string
}

// SelectStatement represents SELECT cols|* FROM name [JOIN ...] [WHERE ...].
// Columns is nil for SELECT *. Column references may be table-qualified.
type SelectStatement struct {
	Columns []string
	Table   string
	Join    *JoinClause
	Where   *types.Predicate
}

// Assignment is one col = literal pair in an UPDATE SET clause.
type Assignment struct {
	Column string
	Value  types.Value
}

// UpdateStatement represents UPDATE name SET col=val[, ...] [WHERE ...].
type UpdateStatement struct {
	Table string
	Set   []Assignment
	Where *types.Predicate
}

// DeleteStatement represents DELETE FROM name [WHERE ...]. A nil Where
// deletes every row.
type DeleteStatement struct {
	Table string
	Where *types.Predicate
}

// ShowTablesStatement represents SHOW TABLES.
type ShowTablesStatement struct{}

// DescribeStatement represents DESCRIBE name.
type DescribeStatement struct {
	Table string
}

func (*CreateTableStatement) stmtNode() {}
func (*InsertStatement) stmtNode()      {}
func (*SelectStatement) stmtNode()      {}
func (*UpdateStatement) stmtNode()      {}
func (*DeleteStatement) stmtNode()      {}
func (*ShowTablesStatement) stmtNode()  {}
func (*DescribeStatement) stmtNode()    {}
