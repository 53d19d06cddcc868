package lower

import (
	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/diag"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/pattern"
)

// eqGuardKind tags the two auxiliary-guard shapes spec.md §4.4 step 3
// produces: a bind constrained to equal a computed value, and two binds
// constrained to equal each other.
type eqGuardKind int

const (
	eqValue eqGuardKind = iota
	eqBind
)

type eqGuard struct {
	kind eqGuardKind
	lhs  int // bind index
	rhs  int // bind index, only meaningful when kind == eqBind
	val  ir.Value
}

// clauseCtx accumulates the side structures lower_clause threads through
// tree construction: the clause's computed-value list (filling its
// PatternValue slots), the bind list, and the auxiliary equality guards.
// Grounded on libeir_syntax_erl/src/lower/pattern/mod.rs's ClauseLowerCtx.
type clauseCtx struct {
	clause pattern.Clause

	preCase ir.Block

	names      []string // "" for an unnamed bind slot
	named      []bool
	values     []ir.Value
	eqGuards   []eqGuard
	valueDedup map[ir.Value]pattern.Value

	// guard holds the surface guard sequence the enclosing clause carries
	// alongside its patterns, threaded through so buildGuardLambda (in
	// lower.go) can lower it without widening clauseCtx's callers.
	guard []ast.GuardClause
}

func newClauseCtx(clause pattern.Clause, preCase ir.Block) *clauseCtx {
	return &clauseCtx{
		clause:     clause,
		preCase:    preCase,
		valueDedup: make(map[ir.Value]pattern.Value),
	}
}

// clauseValue dedups val against the clause's existing PatternValue
// slots, allocating a fresh slot only for a value not seen before.
func (c *clauseCtx) clauseValue(b *ir.FunctionBuilder, val ir.Value) pattern.Value {
	if slot, ok := c.valueDedup[val]; ok {
		return slot
	}
	c.values = append(c.values, val)
	slot := b.Pat().ClauseValue(c.clause)
	c.valueDedup[val] = slot
	return slot
}

// findBind returns the earliest existing bind index for name, if any —
// used to detect the duplicate-bind case spec.md's Scenario S3 covers.
func (c *clauseCtx) findBind(name string) (int, bool) {
	for i, n := range c.names {
		if c.named[i] && n == name {
			return i, true
		}
	}
	return 0, false
}

// Tree holds the pattern tree for one clause: one root per formal
// argument, plus whether canonicalization proved the clause unmatchable.
type Tree struct {
	clause      pattern.Clause
	roots       []pattern.Node
	Unmatchable bool
}

// NewTree starts an empty tree over clause.
func NewTree(clause pattern.Clause) *Tree {
	return &Tree{clause: clause}
}

// AddRoot lowers one surface pattern into a tree root, emitting any
// value-producing sub-expressions into cctx.preCase and recording binds
// and auxiliary guards into cctx as it walks.
func (t *Tree) AddRoot(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, cctx *clauseCtx, pat ast.Pattern) {
	node := t.lowerPattern(ctx, b, sink, cctx, pat)
	t.roots = append(t.roots, node)
	b.Pat().AddRoot(t.clause, node)
}

// Roots returns the tree's root nodes in the order they were added.
func (t *Tree) Roots() []pattern.Node { return t.roots }

// lowerPattern converts one surface pattern into a pattern.Node,
// threading value-producing sub-expressions into cctx.preCase and
// recording binds in left-to-right order as it descends.
func (t *Tree) lowerPattern(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, cctx *clauseCtx, pat ast.Pattern) pattern.Node {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return b.Pat().NewWildcard(t.clause)

	case *ast.BindPattern:
		return t.lowerBind(b, cctx, p.Ident.Name)

	case *ast.LiteralPattern:
		val := b.Value(p.Value)
		slot := cctx.clauseValue(b, val)
		return b.Pat().NewLiteral(t.clause, slot)

	case *ast.PinPattern:
		// A pin matches structurally as an open bind (its concrete value
		// isn't known to the tree at compile time) constrained by an
		// EqValue auxiliary guard against the already-bound variable's
		// runtime value.
		val, ok := ctx.Scope.Lookup(p.Name)
		if !ok {
			emitUnbound(sink, p.Name, p.Span())
			val = b.Value(ir.NilTerm{})
		}
		inner := b.Pat().NewWildcard(t.clause)
		node := b.Pat().NewBind(t.clause, inner)
		idx := len(cctx.names)
		cctx.names = append(cctx.names, "")
		cctx.named = append(cctx.named, false)
		cctx.eqGuards = append(cctx.eqGuards, eqGuard{kind: eqValue, lhs: idx, val: val})
		return node

	case *ast.TuplePattern:
		entries := make([]pattern.Node, len(p.Elements))
		for i, e := range p.Elements {
			entries[i] = t.lowerPattern(ctx, b, sink, cctx, e)
		}
		return b.Pat().NewTuple(t.clause, entries)

	case *ast.ListPattern:
		return t.lowerListPattern(ctx, b, sink, cctx, p)

	case *ast.MapPattern:
		keys := make([]string, 0, len(p.Fields))
		values := make([]pattern.Node, 0, len(p.Fields))
		for k, v := range p.Fields {
			keys = append(keys, k)
			values = append(values, t.lowerPattern(ctx, b, sink, cctx, v))
		}
		return b.Pat().NewMap(t.clause, keys, values)

	case *ast.BinaryPattern:
		return t.lowerBinaryPattern(ctx, b, sink, cctx, p)

	default:
		if sink != nil {
			sink.Emit(diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeUnsupportedPattern,
				Message:  "unsupported pattern construct",
				Span:     pat.Span(),
			})
		}
		// Best-effort substitute: an unbound wildcard lets lowering
		// continue and report further diagnostics in the same pass.
		return b.Pat().NewWildcard(t.clause)
	}
}

// lowerBind allocates a bind node for name, detecting a duplicate
// occurrence of the same surface variable within this clause and
// recording the EqBind auxiliary guard spec.md's Scenario S3 describes.
func (t *Tree) lowerBind(b *ir.FunctionBuilder, cctx *clauseCtx, name string) pattern.Node {
	inner := b.Pat().NewWildcard(t.clause)
	node := b.Pat().NewBind(t.clause, inner)
	idx := len(cctx.names)

	anonymous := name == "" || name == "_"
	existing, dup := 0, false
	if !anonymous {
		existing, dup = cctx.findBind(name)
	}
	cctx.names = append(cctx.names, name)
	cctx.named = append(cctx.named, !anonymous)

	if dup {
		cctx.eqGuards = append(cctx.eqGuards, eqGuard{kind: eqBind, lhs: existing, rhs: idx})
	}
	return node
}

// lowerListPattern folds a flat [e0, e1, ..., en | rest] surface pattern
// into nested cons cells, right to left. Elements are lowered left to
// right first (and the tail after them), so binds keep source order.
func (t *Tree) lowerListPattern(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, cctx *clauseCtx, p *ast.ListPattern) pattern.Node {
	heads := make([]pattern.Node, len(p.Elements))
	for i, e := range p.Elements {
		heads[i] = t.lowerPattern(ctx, b, sink, cctx, e)
	}

	var tail pattern.Node
	if p.Rest != nil {
		tail = t.lowerPattern(ctx, b, sink, cctx, p.Rest)
	} else {
		nilVal := b.Value(ir.NilTerm{})
		slot := cctx.clauseValue(b, nilVal)
		tail = b.Pat().NewLiteral(t.clause, slot)
	}

	for i := len(heads) - 1; i >= 0; i-- {
		tail = b.Pat().NewListCell(t.clause, heads[i], tail)
	}
	return tail
}

// lowerBinaryPattern lowers each bit-syntax segment, emitting a dynamic
// size expression (when present) into cctx.preCase before registering
// the segment's slot.
func (t *Tree) lowerBinaryPattern(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, cctx *clauseCtx, p *ast.BinaryPattern) pattern.Node {
	segments := make([]pattern.Node, 0, len(p.Segments))
	for _, seg := range p.Segments {
		valueNode := t.lowerPattern(ctx, b, sink, cctx, seg.Value)

		ps := pattern.Segment{
			ValueNode: valueNode,
			Unit:      seg.Unit,
			Kind:      pattern.SegmentKind(seg.Type),
			Signed:    seg.Signed,
		}

		if seg.Size != nil {
			sizeVal := lowerValueExpr(ctx, b, sink, &cctx.preCase, seg.Size)
			ps.SizeSlot = cctx.clauseValue(b, sizeVal)
			ps.HasSize = true
		}

		segNode := b.Pat().NewBinary(t.clause, ps)
		segments = append(segments, segNode)
	}

	// Chain segments the same way list elements chain: each segment's
	// match depends on the ones before it having already consumed their
	// share of the binary, so a Tuple node (fixed arity, ordered) is the
	// natural structural container — a segment sequence is never open-
	// tailed the way a list pattern can be.
	return b.Pat().NewTuple(t.clause, segments)
}
