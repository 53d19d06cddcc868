package lower

import (
	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/config"
	"github.com/funvibe/fxeir/internal/diag"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/pattern"
	"github.com/funvibe/fxeir/internal/span"
)

// LoweredClause is the result of successfully lowering one clause: the
// pattern clause itself, the body block it dispatches to on a full match,
// the guard lambda value clause dispatch calls to evaluate the guard
// sequence, and the scope token the caller must eventually pop.
type LoweredClause struct {
	Clause     pattern.Clause
	Body       ir.Block
	Guard      ir.Value
	ScopeToken ScopeToken
	Values     []ir.Value
}

// LoweredClauseFail is returned instead of a LoweredClause when
// canonicalization proves the clause can never match (spec.md §4.4's
// unmatchable-clause case). ScopeToken still needs popping: pseudo-binds
// were pushed so later references to the clause's pattern variables don't
// cascade into spurious unbound-variable diagnostics.
type LoweredClauseFail struct {
	ScopeToken ScopeToken
}

// LowerClause lowers one function clause's formal patterns and guard
// sequence, per spec.md §4.4:
//  1. build a pattern tree, one root per formal pattern, recording binds
//     and auxiliary equality guards as it descends;
//  2. canonicalize the tree, detecting a statically unmatchable clause;
//  3. on failure, pseudo-bind every named pattern variable and return
//     early;
//  4. otherwise freeze the clause, build the guard lambda, and build the
//     body block with one argument per bind.
//
// *preCase is the block value-producing pattern sub-expressions (binary
// segment sizes) are emitted into; it is advanced in place.
func LowerClause(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, preCase *ir.Block, patterns []ast.Pattern, guard []ast.GuardClause) (*LoweredClause, *LoweredClauseFail) {
	clause := b.Pat().ClauseStart()
	cctx := newClauseCtx(clause, *preCase)
	cctx.guard = guard

	tree := NewTree(clause)
	for _, p := range patterns {
		tree.AddRoot(ctx, b, sink, cctx, p)
	}

	*preCase = cctx.preCase

	tree.canonicalize(b, cctx)
	if tree.Unmatchable {
		if sink != nil {
			sink.Emit(diag.Diagnostic{
				Severity: diag.SeverityWarning,
				Code:     diag.CodeUnmatchableClause,
				Message:  "clause can never match",
			})
		}
		tok := ctx.Scope.Push()
		pseudoBind(ctx, b, cctx)
		return nil, &LoweredClauseFail{ScopeToken: tok}
	}

	b.Pat().Finish(clause)

	guardVal := buildGuardLambda(ctx, b, sink, cctx)

	scopeTok := ctx.Scope.Push()
	bodyBlock := b.BlockInsert()
	for i, name := range cctx.names {
		val := b.BlockArgInsert(bodyBlock)
		if cctx.named[i] {
			ctx.Scope.Bind(name, val)
		}
	}

	return &LoweredClause{
		Clause:     clause,
		Body:       bodyBlock,
		Guard:      guardVal,
		ScopeToken: scopeTok,
		Values:     cctx.values,
	}, nil
}

// pseudoBind binds every named pattern variable to a sentinel value in
// the enclosing scope even though the clause can never match, so that
// references to those names elsewhere in the same case don't each report
// their own unbound-variable diagnostic on top of the unmatchable-clause
// one. The sentinel is the interned nil constant, so every pseudo-bound
// name refers to the same Value; the sentinels are not distinct.
func pseudoBind(ctx *Ctx, b *ir.FunctionBuilder, cctx *clauseCtx) {
	for i, name := range cctx.names {
		if !cctx.named[i] {
			continue
		}
		ctx.Scope.Bind(name, b.Value(ir.NilTerm{}))
	}
}

// canonicalize walks the tree looking for a structural contradiction that
// proves the clause can never match. The only case recognized here is a
// bit-syntax segment whose size is a constant known at lowering time to be
// non-positive — any richer contradiction detection (overlapping literal
// tuples of provably distinct arity, and so on) is left to a later
// optimization pass, not clause lowering's job.
func (t *Tree) canonicalize(b *ir.FunctionBuilder, cctx *clauseCtx) {
	for _, root := range t.roots {
		if t.hasImpossibleSegment(b, cctx, root) {
			t.Unmatchable = true
			return
		}
	}
}

func (t *Tree) hasImpossibleSegment(b *ir.FunctionBuilder, cctx *clauseCtx, n pattern.Node) bool {
	kind, _ := b.Pat().NodeInfo(t.clause, n)
	switch kind {
	case pattern.Binary:
		seg := b.Pat().NodeSegment(t.clause, n)
		if seg.HasSize {
			val := cctx.values[int(seg.SizeSlot)]
			vt := b.Fun().ValueKind(val)
			if vt.Kind == ir.KindConstant {
				if it, ok := vt.Term.(ir.IntTerm); ok && int64(it) <= 0 {
					return true
				}
			}
		}
		return t.hasImpossibleSegment(b, cctx, seg.ValueNode)

	case pattern.Tuple, pattern.ListCell:
		for _, e := range b.Pat().NodeEntries(t.clause, n) {
			if t.hasImpossibleSegment(b, cctx, e) {
				return true
			}
		}

	case pattern.Map:
		_, values := b.Pat().NodeMapFields(t.clause, n)
		for _, v := range values {
			if t.hasImpossibleSegment(b, cctx, v) {
				return true
			}
		}
	}
	return false
}

// buildGuardLambda builds the guard lambda per spec.md §4.4 step 4: a
// fresh block taking a ret_cont argument, an exception handler that calls
// ret_cont(false) on any error raised while evaluating the guard, one
// argument per bind, and a cond_block computing the conjunction of every
// auxiliary equality guard with the (possibly absent) surface guard
// sequence, finally calling ret_cont with the result.
func buildGuardLambda(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, cctx *clauseCtx) ir.Value {
	guardBlock := b.BlockInsert()
	retCont := b.BlockArgInsert(guardBlock)

	scopeTok := ctx.Scope.Push()

	failHandler := b.BlockInsert()
	b.BlockArgInsert(failHandler)
	b.BlockArgInsert(failHandler)
	b.BlockArgInsert(failHandler)
	b.OpCall(failHandler, retCont, []ir.Value{b.Value(false)}, span.Unknown)
	ctx.ExcStack.PushHandler(b.Value(failHandler))

	bindVals := make([]ir.Value, len(cctx.names))
	for i, name := range cctx.names {
		val := b.BlockArgInsert(guardBlock)
		bindVals[i] = val
		if cctx.named[i] {
			ctx.Scope.Bind(name, val)
		}
	}

	block := guardBlock

	condBlock, condBlockVal := b.BlockInsertGetVal()
	condRes := b.BlockArgInsert(condBlock)

	topAnd := b.OpIntrinsicBuild(config.BoolAndIntrinsic)
	topAnd.PushValue(condBlockVal)

	for _, eg := range cctx.eqGuards {
		var lhs, rhs ir.Value
		switch eg.kind {
		case eqValue:
			lhs, rhs = bindVals[eg.lhs], eg.val
		case eqBind:
			lhs, rhs = bindVals[eg.lhs], bindVals[eg.rhs]
		}
		res := emitErlangCall(b, &block, config.EqGuardOpName, []ir.Value{lhs, rhs}, span.Unknown)
		topAnd.PushValue(res)
	}

	if len(cctx.guard) > 0 {
		orBlock, orBlockVal := b.BlockInsertGetVal()
		topAnd.PushValue(b.BlockArgInsert(orBlock))

		orBuilder := b.OpIntrinsicBuild(config.BoolOrIntrinsic)
		orBuilder.PushValue(orBlockVal)

		for _, gc := range cctx.guard {
			andBlock, andBlockVal := b.BlockInsertGetVal()
			orBuilder.PushValue(b.BlockArgInsert(andBlock))

			andBuilder := b.OpIntrinsicBuild(config.BoolAndIntrinsic)
			andBuilder.PushValue(andBlockVal)

			for _, cond := range gc.Conditions {
				val := lowerValueExpr(ctx, b, sink, &block, cond)
				andBuilder.PushValue(val)
			}

			andBuilder.Block(block).Span(span.Unknown).Finish()
			block = andBlock
		}

		orBuilder.Block(block).Span(span.Unknown).Finish()
		block = orBlock
	}

	topAnd.Block(block).Span(span.Unknown).Finish()
	block = condBlock

	b.OpCall(block, retCont, []ir.Value{condRes}, span.Unknown)

	ctx.ExcStack.PopHandler()
	ctx.Scope.Pop(scopeTok)

	return b.Value(guardBlock)
}
