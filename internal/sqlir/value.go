package sqlir

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface over the literal value types the IR can
// carry. Only StringValue, IntValue, BoolValue, and NullValue
// implement it. NO float type - floats break deterministic rendering
// and hashing.
type Value interface {
	value() // Sealed - only these types implement it

	// SQL renders the value as a SQL literal.
	SQL() string

	// Param returns the Go-native value for use as a query parameter.
	Param() any
}

// StringValue is a string literal.
type StringValue string

func (StringValue) value() {}

// SQL renders the string single-quoted with embedded quotes doubled.
func (v StringValue) SQL() string {
	return "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
}

// Param returns the native string.
func (v StringValue) Param() any { return string(v) }

// IntValue is an integer literal. Always int64, never float64.
type IntValue int64

func (IntValue) value() {}

// SQL renders the integer in base 10.
func (v IntValue) SQL() string { return strconv.FormatInt(int64(v), 10) }

// Param returns the native int64.
func (v IntValue) Param() any { return int64(v) }

// BoolValue is a boolean literal.
type BoolValue bool

func (BoolValue) value() {}

// SQL renders TRUE or FALSE.
func (v BoolValue) SQL() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// Param returns the native bool.
func (v BoolValue) Param() any { return bool(v) }

// NullValue is the SQL NULL literal.
type NullValue struct{}

func (NullValue) value() {}

// SQL renders NULL.
func (NullValue) SQL() string { return "NULL" }

// Param returns nil.
func (NullValue) Param() any { return nil }

// valueHash returns the hash part for a literal value, tagged by type
// so that e.g. IntValue(1) and StringValue("1") never collide.
func valueHash(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return "s:" + normIdent(string(val))
	case IntValue:
		return "i:" + strconv.FormatInt(int64(val), 10)
	case BoolValue:
		return "b:" + hashBool(bool(val))
	case NullValue:
		return "n:"
	default:
		// Unreachable for the sealed set; keep hashing total anyway.
		return fmt.Sprintf("?:%v", v)
	}
}

// valueEqual compares two literal values. Total: cross-type
// comparisons are false, never an error.
func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	default:
		return false
	}
}
