// Package ast holds the slice of surface-syntax tree that pattern-clause
// lowering consumes. The full parser and lexer that would produce these
// nodes live outside this module's scope; this package only has to carry
// the shapes lower_clause needs: expressions for guards and pattern
// sub-expressions, and the pattern tree itself.
package ast

import "github.com/funvibe/fxeir/internal/span"

// Node is the base interface for every AST node reaching lowering.
type Node interface {
	Span() span.Span
}

// Expression is a value-producing surface node. Guard conditions and the
// size/value sub-expressions embedded in patterns are Expressions.
type Expression interface {
	Node
	expressionNode()
}

// Identifier names a variable, either as a binding occurrence (inside a
// pattern) or a use occurrence (inside an expression). Its own span can
// differ from its enclosing node's span once a node wraps more than just
// the name (e.g. VarExpr today, a qualified reference tomorrow).
type Identifier struct {
	SourceSpan span.Span
	Name       string
}

func (id Identifier) Span() span.Span { return id.SourceSpan }

// VarExpr is a use of a previously bound variable inside a guard or a
// pattern's value sub-expression.
type VarExpr struct {
	SourceSpan span.Span
	Ident      Identifier
}

func (v *VarExpr) Span() span.Span { return v.SourceSpan }
func (v *VarExpr) expressionNode() {}

// Literal is a constant surface value: integer, float, bool, atom, string,
// or nil. Value holds the parsed Go representation.
type Literal struct {
	SourceSpan span.Span
	Value      interface{}
}

func (l *Literal) Span() span.Span { return l.SourceSpan }
func (l *Literal) expressionNode() {}

// UnaryOp enumerates the prefix operators a guard expression may use.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBNot
)

// UnaryExpr is a prefix operation, e.g. `not X` or `-X`.
type UnaryExpr struct {
	SourceSpan span.Span
	Op         UnaryOp
	Operand    Expression
}

func (u *UnaryExpr) Span() span.Span { return u.SourceSpan }
func (u *UnaryExpr) expressionNode() {}

// BinaryOp enumerates the infix operators a guard expression may use.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAndAlso
	OpOrElse
)

// BinaryExpr is an infix operation, e.g. `X < 2` or `X - 1`.
type BinaryExpr struct {
	SourceSpan span.Span
	Op         BinaryOp
	Left       Expression
	Right      Expression
}

func (b *BinaryExpr) Span() span.Span { return b.SourceSpan }
func (b *BinaryExpr) expressionNode() {}

// CallExpr is an ordinary function application; only used inside pattern
// value sub-expressions and guards (e.g. `byte_size(Bin)` as a binary
// segment size).
type CallExpr struct {
	SourceSpan span.Span
	Callee     Expression
	Args       []Expression
}

func (c *CallExpr) Span() span.Span { return c.SourceSpan }
func (c *CallExpr) expressionNode() {}

// GuardClause is one comma-separated conjunction within a guard sequence.
// A full guard sequence is []GuardClause, evaluated as a disjunction of
// these conjunctions (Erlang semicolon = or, comma = and).
type GuardClause struct {
	Conditions []Expression
}
