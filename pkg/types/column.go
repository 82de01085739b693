package types

import (
	"fmt"
	"strings"
	"time"
)

// TypeName identifies a declared column type.
type TypeName string

const (
	TypeInt      TypeName = "INT"
	TypeVarChar  TypeName = "VARCHAR"
	TypeFloat    TypeName = "FLOAT"
	TypeBoolean  TypeName = "BOOLEAN"
	TypeDateTime TypeName = "DATETIME"
)

// validTypeNames is the set of recognized column type names.
var validTypeNames = map[TypeName]bool{
	TypeInt:      true,
	TypeVarChar:  true,
	TypeFloat:    true,
	TypeBoolean:  true,
	TypeDateTime: true,
}

// DataType is a declared column type. Length is the maximum text length and
// is meaningful only for VARCHAR.
type DataType struct {
	Name   TypeName
	Length int
}

// Valid reports whether the type name is recognized and a VARCHAR carries a
// positive length.
func (t DataType) Valid() bool {
	if !validTypeNames[t.Name] {
		return false
	}
	if t.Name == TypeVarChar {
		return t.Length > 0
	}
	return true
}

// String renders the type as it appears in a CREATE TABLE statement.
func (t DataType) String() string {
	if t.Name == TypeVarChar {
		return fmt.Sprintf("VARCHAR(%d)", t.Length)
	}
	return string(t.Name)
}

// Column is one column definition in a table schema.
type Column struct {
	Name       string
	Type       DataType
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

// Indexed reports whether the column carries an eagerly maintained index.
func (c Column) Indexed() bool { return c.PrimaryKey || c.Unique }

// Constraints renders the column's constraint set for DESCRIBE output, in
// declaration order. A primary key column is implicitly NOT NULL and both
// are shown.
func (c Column) Constraints() string {
	var parts []string
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.Unique {
		parts = append(parts, "UNIQUE")
	}
	if c.NotNull || c.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, ", ")
}

// Coerce checks a value against the column's declared type and returns the
// stored representation. The coercion table is fixed and total:
//
//	Integer  -> INT, or FLOAT (widened)
//	Float    -> FLOAT
//	Text     -> VARCHAR (length-checked), or DATETIME (parsed)
//	Boolean  -> BOOLEAN
//	DateTime -> DATETIME
//	Null     -> any type
//
// Anything else is a TypeMismatchError. Null passes through; NOT NULL is a
// constraint concern, not a type concern.
func (c Column) Coerce(v Value) (Value, error) {
	if v.IsNull() {
		return v, nil
	}
	switch c.Type.Name {
	case TypeInt:
		if v.Kind == KindInteger {
			return v, nil
		}
	case TypeFloat:
		if v.Kind == KindFloat {
			return v, nil
		}
		if v.Kind == KindInteger {
			return NewFloat(float64(v.Int)), nil
		}
	case TypeVarChar:
		if v.Kind == KindText {
			if len(v.Text) > c.Type.Length {
				return Value{}, &TypeMismatchError{
					Column:   c.Name,
					Expected: c.Type.String(),
					Actual:   fmt.Sprintf("TEXT of length %d", len(v.Text)),
				}
			}
			return v, nil
		}
	case TypeBoolean:
		if v.Kind == KindBoolean {
			return v, nil
		}
	case TypeDateTime:
		if v.Kind == KindDateTime {
			return v, nil
		}
		if v.Kind == KindText {
			t, err := ParseDateTime(v.Text)
			if err != nil {
				return Value{}, &TypeMismatchError{
					Column:   c.Name,
					Expected: "DATETIME",
					Actual:   fmt.Sprintf("TEXT %q", v.Text),
				}
			}
			return NewDateTime(t), nil
		}
	}
	return Value{}, &TypeMismatchError{
		Column:   c.Name,
		Expected: c.Type.String(),
		Actual:   v.Kind.String(),
	}
}

// CompatibleLiteral reports whether a literal of the given kind can be
// stored in the column, without performing the conversion. Used by the
// executor as a fast pre-check before the storage engine validates
// authoritatively.
func (c Column) CompatibleLiteral(k Kind) bool {
	if k == KindNull {
		return true
	}
	switch c.Type.Name {
	case TypeInt:
		return k == KindInteger
	case TypeFloat:
		return k == KindFloat || k == KindInteger
	case TypeVarChar:
		return k == KindText
	case TypeBoolean:
		return k == KindBoolean
	case TypeDateTime:
		return k == KindDateTime || k == KindText
	default:
		return false
	}
}

// dateTimeLayouts are accepted on input, most specific first. Values are
// stored and re-rendered in DateTimeLayout.
var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a textual timestamp in one of the accepted layouts.
func ParseDateTime(s string) (t time.Time, err error) {
	for _, layout := range dateTimeLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}
