package lower

import (
	"testing"

	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/diag"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

func newTestFunction(name string, arity int) (*ir.Function, *ir.FunctionBuilder, ir.Block) {
	fun := ir.NewFunction(ir.FunctionIdent{Module: "m", Name: name, Arity: arity})
	b := ir.NewBuilder(fun)
	entry := b.BlockInsert()
	b.BlockSetEntry(entry)
	return fun, b, entry
}

// TestDuplicateBindEmitsEqGuard covers `pat(A, A) -> 1.`: two formal
// patterns binding the same surface name must lower successfully (no
// diagnostic, not unmatchable) and record exactly one EqBind auxiliary
// guard between the two bind positions.
func TestDuplicateBindEmitsEqGuard(t *testing.T) {
	fun, b, entry := newTestFunction("pat", 2)
	ctx := NewCtx()
	sink := &diag.CollectingSink{}
	preCase := entry

	patterns := []ast.Pattern{
		&ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "A"}},
		&ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "A"}},
	}

	clause, fail := LowerClause(ctx, b, sink, &preCase, patterns, nil)
	if fail != nil {
		t.Fatalf("expected the clause to lower successfully, got LoweredClauseFail")
	}
	if sink.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", sink.Diagnostics)
	}
	if len(b.BlockArgs(clause.Body)) != 2 {
		t.Fatalf("expected the body block to have 2 arguments (one per bind occurrence), got %d", len(b.BlockArgs(clause.Body)))
	}
	// Each EqGuard check in the guard lambda captures erlang:=:= once.
	captures := 0
	for i := 0; i < fun.BlockCount(); i++ {
		if kind, ok := fun.BlockKind(ir.Block(i)); ok {
			if _, isCapture := kind.(ir.CaptureFunctionOp); isCapture {
				captures++
			}
		}
	}
	if captures != 1 {
		t.Fatalf("expected exactly one EqBind check (one erlang:=:= capture), got %d", captures)
	}
	ctx.Scope.Pop(clause.ScopeToken)
}

// TestWildcardPatternsLowerWithoutBinds checks the base case: two
// wildcards produce a clause with no named binds and no auxiliary
// guards, and the guard lambda is still constructed (it must always call
// back into ret_cont, even with nothing to check).
func TestWildcardPatternsLowerWithoutBinds(t *testing.T) {
	_, b, entry := newTestFunction("ignore", 2)
	ctx := NewCtx()
	sink := &diag.CollectingSink{}
	preCase := entry

	patterns := []ast.Pattern{
		&ast.WildcardPattern{SourceSpan: span.Unknown},
		&ast.WildcardPattern{SourceSpan: span.Unknown},
	}

	clause, fail := LowerClause(ctx, b, sink, &preCase, patterns, nil)
	if fail != nil {
		t.Fatalf("expected success, got failure")
	}
	if len(b.BlockArgs(clause.Body)) != 0 {
		t.Fatalf("expected a body block with no arguments, got %d", len(b.BlockArgs(clause.Body)))
	}
	if _, ok := b.Fun().ValueBlock(clause.Guard); !ok {
		t.Fatalf("expected the guard value to reference a block")
	}
	ctx.Scope.Pop(clause.ScopeToken)
}

// TestUnboundPinEmitsDiagnostic checks that pinning a never-bound name is
// reported, not silently accepted, while lowering still completes with a
// best-effort substitute.
func TestUnboundPinEmitsDiagnostic(t *testing.T) {
	_, b, entry := newTestFunction("p", 1)
	ctx := NewCtx()
	sink := &diag.CollectingSink{}
	preCase := entry

	patterns := []ast.Pattern{
		&ast.PinPattern{SourceSpan: span.Unknown, Name: "Never"},
	}

	clause, fail := LowerClause(ctx, b, sink, &preCase, patterns, nil)
	if fail != nil {
		t.Fatalf("expected success with a diagnostic, not a hard failure")
	}
	if !sink.HasErrors() {
		t.Fatalf("expected an unbound-variable diagnostic")
	}
	ctx.Scope.Pop(clause.ScopeToken)
}

// TestUnmatchableBinarySegmentPseudoBinds reproduces the one contradiction
// this package's canonicalize recognizes: a bit-syntax segment whose size
// is a non-positive constant. The clause must fail, but a named bind
// elsewhere in the same pattern must still end up pseudo-bound so later
// references don't cascade into unbound-variable diagnostics.
func TestUnmatchableBinarySegmentPseudoBinds(t *testing.T) {
	_, b, entry := newTestFunction("bad", 1)
	ctx := NewCtx()
	sink := &diag.CollectingSink{}
	preCase := entry

	patterns := []ast.Pattern{
		&ast.BinaryPattern{
			SourceSpan: span.Unknown,
			Segments: []ast.BinarySegmentPattern{
				{
					SourceSpan: span.Unknown,
					Value:      &ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "X"}},
					Size:       &ast.Literal{SourceSpan: span.Unknown, Value: 0},
					Type:       ast.SegInteger,
				},
			},
		},
	}

	_, fail := LowerClause(ctx, b, sink, &preCase, patterns, nil)
	if fail == nil {
		t.Fatalf("expected a zero-size binary segment to be detected as unmatchable")
	}

	if _, ok := ctx.Scope.Lookup("X"); !ok {
		t.Fatalf("expected X to be pseudo-bound even though the clause is unmatchable")
	}
	ctx.Scope.Pop(fail.ScopeToken)
}

// TestGuardSequenceLowering checks that a guard condition referencing a
// bound pattern variable lowers without diagnostics and produces a
// guard lambda value distinct from the body block.
func TestGuardSequenceLowering(t *testing.T) {
	_, b, entry := newTestFunction("g", 1)
	ctx := NewCtx()
	sink := &diag.CollectingSink{}
	preCase := entry

	patterns := []ast.Pattern{
		&ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "X"}},
	}
	guard := []ast.GuardClause{
		{Conditions: []ast.Expression{
			&ast.BinaryExpr{
				SourceSpan: span.Unknown,
				Op:         ast.OpGt,
				Left:       &ast.VarExpr{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "X"}},
				Right:      &ast.Literal{SourceSpan: span.Unknown, Value: 0},
			},
		}},
	}

	clause, fail := LowerClause(ctx, b, sink, &preCase, patterns, guard)
	if fail != nil {
		t.Fatalf("expected success")
	}
	if sink.HasErrors() {
		t.Fatalf("expected no diagnostics, got %v", sink.Diagnostics)
	}
	guardBlock, ok := b.Fun().ValueBlock(clause.Guard)
	if !ok {
		t.Fatalf("expected the guard value to reference a block")
	}
	if guardBlock == clause.Body {
		t.Fatalf("expected the guard lambda block to be distinct from the body block")
	}
	ctx.Scope.Pop(clause.ScopeToken)
}
