package types

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBoolean
	KindDateTime
)

// String returns the kind name as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindFloat:
		return "FLOAT"
	case KindText:
		return "TEXT"
	case KindBoolean:
		return "BOOLEAN"
	case KindDateTime:
		return "DATETIME"
	default:
		return "UNKNOWN"
	}
}

// DateTimeLayout is the wire and storage format for DATETIME values.
const DateTimeLayout = time.RFC3339

// Value is a tagged variant over the storable types. Exactly one of the
// payload fields is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Bool  bool
	Time  time.Time
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// NewInteger returns an integer value.
func NewInteger(i int64) Value { return Value{Kind: KindInteger, Int: i} }

// NewFloat returns a float value.
func NewFloat(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// NewText returns a text value.
func NewText(s string) Value { return Value{Kind: KindText, Text: s} }

// NewBoolean returns a boolean value.
func NewBoolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// NewDateTime returns a datetime value.
func NewDateTime(t time.Time) Value { return Value{Kind: KindDateTime, Time: t} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// String renders the value for display. Null renders as "NULL", text is
// rendered without quotes.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindDateTime:
		return v.Time.Format(DateTimeLayout)
	default:
		return fmt.Sprintf("<%d>", v.Kind)
	}
}

// Key returns a canonical string key for index lookups. Integers and floats
// share a numeric keyspace so an index on a FLOAT column treats 1 and 1.0
// as the same value: any integral value keys by its exact decimal form,
// which keeps int64 values above 2^53 distinct. Null values must not be
// indexed; Key panics on them.
func (v Value) Key() string {
	switch v.Kind {
	case KindInteger:
		return "n:" + strconv.FormatInt(v.Int, 10)
	case KindFloat:
		if i, ok := exactInt64(v.Float); ok {
			return "n:" + strconv.FormatInt(i, 10)
		}
		return "n:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return "t:" + v.Text
	case KindBoolean:
		if v.Bool {
			return "b:1"
		}
		return "b:0"
	case KindDateTime:
		return "d:" + v.Time.UTC().Format(DateTimeLayout)
	default:
		panic("types: Key on null value")
	}
}

// Equal reports value equality. Null equals only null. Integer and float
// values compare numerically across kinds.
func (v Value) Equal(o Value) bool {
	if v.Kind == KindNull || o.Kind == KindNull {
		return v.Kind == KindNull && o.Kind == KindNull
	}
	if c, ok := v.Compare(o); ok {
		return c == 0
	}
	if v.Kind == KindBoolean && o.Kind == KindBoolean {
		return v.Bool == o.Bool
	}
	return false
}

// Compare orders two values. It returns -1, 0, or 1 and true when the
// values are comparable: numeric against numeric, text against text,
// datetime against datetime. Booleans and nulls are not ordered. Two
// integers compare exactly on int64; float64 loses precision above 2^53.
func (v Value) Compare(o Value) (int, bool) {
	if v.Kind == KindInteger && o.Kind == KindInteger {
		switch {
		case v.Int < o.Int:
			return -1, true
		case v.Int > o.Int:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.isNumeric() && o.isNumeric() {
		a, b := v.asFloat(), o.asFloat()
		switch {
		case a < b:
			return -1, true
		case a > b:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.Kind == KindText && o.Kind == KindText {
		switch {
		case v.Text < o.Text:
			return -1, true
		case v.Text > o.Text:
			return 1, true
		default:
			return 0, true
		}
	}
	if v.Kind == KindDateTime && o.Kind == KindDateTime {
		switch {
		case v.Time.Before(o.Time):
			return -1, true
		case v.Time.After(o.Time):
			return 1, true
		default:
			return 0, true
		}
	}
	return 0, false
}

func (v Value) isNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// exactInt64 reports whether f holds an integral value representable as an
// int64, and returns it.
func exactInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func (v Value) asFloat() float64 {
	if v.Kind == KindInteger {
		return float64(v.Int)
	}
	return v.Float
}
