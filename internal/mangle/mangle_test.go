package mangle

import (
	"testing"

	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

// TestSimpleMangle covers a two-block `woo:woo/1` whose entry takes
// one argument and tail-calls a captured
// `erlang:woo/0` with it. Mangling with two fresh entry arguments and a
// rename of the original argument to the second new argument must
// produce a fresh two-argument entry block whose call still reads the
// renamed value, while leaving the original entry and its operation
// untouched (Run specializes into a new subgraph, it never mutates the
// source in place beyond what the new entry's body shares by identity).
func TestSimpleMangle(t *testing.T) {
	fun := ir.NewFunction(ir.FunctionIdent{Module: "woo", Name: "woo", Arity: 1})
	b := ir.NewBuilder(fun)

	entry := b.BlockInsert()
	arg0 := b.BlockArgInsert(entry)
	b.BlockSetEntry(entry)

	cont := b.OpCaptureFunction(entry, b.Value("erlang"), b.Value("woo"), b.Value(0), span.Unknown)
	fnVal := b.BlockArgs(cont)[0]
	b.OpCall(cont, fnVal, []ir.Value{arg0}, span.Unknown)

	blocksBefore := fun.BlockCount()

	m := New()
	m.Start(entry)
	_ = m.AddArgument() // new arg 0: unused by the original body, mirrors eir's S1 fixture
	newArg1 := m.AddArgument()
	m.AddRename(arg0, newArg1)

	newEntry := m.Run(b)

	if newEntry == entry {
		t.Fatalf("expected a fresh entry block distinct from the original")
	}
	if got := len(b.BlockArgs(newEntry)); got != 2 {
		t.Fatalf("expected the new entry to have 2 arguments, got %d", got)
	}

	// Scope walk must have discovered cont (reachable from entry) and
	// recopied it too, plus the harmless orphan duplicate of entry that
	// the original's own scope membership produces.
	if fun.BlockCount() <= blocksBefore+1 {
		t.Fatalf("expected mangling to allocate more than just the new entry, got %d -> %d blocks", blocksBefore, fun.BlockCount())
	}

	kind, ok := fun.BlockKind(newEntry)
	if !ok {
		t.Fatalf("expected the new entry to have an operation copied into it")
	}
	if _, ok := kind.(ir.CaptureFunctionOp); !ok {
		t.Fatalf("expected the new entry's operation to be a copy of CaptureFunctionOp, got %T", kind)
	}

	newCont, ok := fun.ValueBlock(b.BlockReads(newEntry)[3])
	if !ok || newCont == cont {
		t.Fatalf("expected the new entry to continue into a fresh copy of the continuation block")
	}
	if got := b.BlockReads(newCont); len(got) != 2 || got[1] != b.BlockArgs(newEntry)[1] {
		t.Fatalf("expected the copied call to read the new entry's second argument, got %v", got)
	}

	// The original entry is untouched: still present and still holding
	// its CaptureFunctionOp.
	origKind, ok := fun.BlockKind(entry)
	if !ok {
		t.Fatalf("expected the original entry to still have its operation")
	}
	if _, ok := origKind.(ir.CaptureFunctionOp); !ok {
		t.Fatalf("expected the original entry's operation to be unchanged, got %T", origKind)
	}

	if errs := ir.Validate(fun); len(errs) != 0 {
		t.Fatalf("expected the mangled function to validate cleanly, got %v", errs)
	}
}

// TestSetCallSiteWidensCopiedSpan checks that a recorded call-site span
// gets unioned into the copied op's span rather than discarding the
// original definition span.
func TestSetCallSiteWidensCopiedSpan(t *testing.T) {
	fun := ir.NewFunction(ir.FunctionIdent{Module: "woo", Name: "woo", Arity: 1})
	b := ir.NewBuilder(fun)

	entry := b.BlockInsert()
	arg0 := b.BlockArgInsert(entry)
	b.BlockSetEntry(entry)

	defSpan := span.New(100, 110, 1)
	cont := b.OpCaptureFunction(entry, b.Value("erlang"), b.Value("woo"), b.Value(0), defSpan)
	fnVal := b.BlockArgs(cont)[0]
	b.OpCall(cont, fnVal, []ir.Value{arg0}, defSpan)

	m := New()
	m.Start(entry)
	callSite := span.New(40, 52, 1)
	m.SetCallSite(callSite)
	newArg1 := m.AddArgument()
	m.AddRename(arg0, newArg1)

	newEntry := m.Run(b)

	got := fun.BlockSpan(newEntry)
	want := span.Union(callSite, defSpan)
	if got != want {
		t.Fatalf("expected the copied entry's span to be the union of the call site and the original definition span, got %+v want %+v", got, want)
	}

	// The original entry's own span is untouched by someone else's
	// specialization.
	if got := fun.BlockSpan(entry); got != defSpan {
		t.Fatalf("expected the original entry's span to be unchanged, got %+v", got)
	}
}

func TestAddRenameRejectsUnknownTypes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected AddRename with a non-Value/Block source to panic")
		}
	}()
	m := New()
	m.Start(0)
	m.AddRename("not a value or block", ir.Value(0))
}

func TestRunAcrossCopiesIntoAnotherFunction(t *testing.T) {
	from := ir.NewFunction(ir.FunctionIdent{Module: "m", Name: "src", Arity: 1})
	fb := ir.NewBuilder(from)
	entry := fb.BlockInsert()
	arg0 := fb.BlockArgInsert(entry)
	fb.BlockSetEntry(entry)
	fb.OpUnreachable(entry, span.Unknown)
	_ = arg0

	to := ir.NewFunction(ir.FunctionIdent{Module: "m", Name: "dst", Arity: 1})
	tb := ir.NewBuilder(to)

	m := New()
	m.Start(entry)
	m.AddArgument()

	newEntry := m.RunAcross(from, tb)

	kind, ok := to.BlockKind(newEntry)
	if !ok {
		t.Fatalf("expected the copied entry in the destination function to have an operation")
	}
	if _, ok := kind.(ir.UnreachableOp); !ok {
		t.Fatalf("expected the copied operation to be UnreachableOp, got %T", kind)
	}
}
