package ir

import "fmt"

// ConstantTerm is an interned literal term. FunctionBuilder.Value dedups these by
// structural equality, matching spec.md §4.2's constant-interning
// contract and translated from eir's ConstantTerm/AtomicTerm union.
type ConstantTerm interface {
	constantTerm()
	// key returns a comparable representation used for interning.
	key() interface{}
}

// AtomTerm is an interned symbolic atom, e.g. `ok`, `erlang`, `=:=`.
type AtomTerm string

func (AtomTerm) constantTerm()        {}
func (a AtomTerm) key() interface{}   { return a }
func (a AtomTerm) String() string     { return string(a) }

// IntTerm is an interned integer literal.
type IntTerm int64

func (IntTerm) constantTerm()      {}
func (i IntTerm) key() interface{} { return i }
func (i IntTerm) String() string   { return fmt.Sprintf("%d", int64(i)) }

// FloatTerm is an interned floating point literal.
type FloatTerm float64

func (FloatTerm) constantTerm()      {}
func (f FloatTerm) key() interface{} { return f }
func (f FloatTerm) String() string   { return fmt.Sprintf("%g", float64(f)) }

// BoolTerm is an interned boolean literal.
type BoolTerm bool

func (BoolTerm) constantTerm()      {}
func (b BoolTerm) key() interface{} { return b }
func (b BoolTerm) String() string   { return fmt.Sprintf("%t", bool(b)) }

// NilTerm is the interned empty-list term.
type NilTerm struct{}

func (NilTerm) constantTerm()      {}
func (NilTerm) key() interface{}   { return NilTerm{} }
func (NilTerm) String() string     { return "[]" }

// BinaryTerm is an interned byte-string literal.
type BinaryTerm string

func (BinaryTerm) constantTerm()      {}
func (b BinaryTerm) key() interface{} { return b }
func (b BinaryTerm) String() string   { return fmt.Sprintf("%q", string(b)) }

// toConstantTerm adapts the small set of Go literal types the builder's
// Value method accepts (mirroring the original source's `impl From<T> for
// ConstantTerm` coverage for bool/int/Ident/NilTerm) into a ConstantTerm.
func toConstantTerm(x interface{}) (ConstantTerm, bool) {
	switch v := x.(type) {
	case ConstantTerm:
		return v, true
	case bool:
		return BoolTerm(v), true
	case int:
		return IntTerm(v), true
	case int64:
		return IntTerm(v), true
	case float64:
		return FloatTerm(v), true
	case string:
		return AtomTerm(v), true
	}
	return nil, false
}
