package ir

import (
	"testing"

	"github.com/funvibe/fxeir/internal/span"
)

func TestConstantInterningDedups(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)

	a := b.Value(42)
	c := b.Value(42)
	if a != c {
		t.Fatalf("expected structurally equal constants to intern to the same value, got %v and %v", a, c)
	}

	atomA := b.Value("ok")
	atomB := b.Value("ok")
	if atomA != atomB {
		t.Fatalf("expected atoms to dedup by string identity")
	}
	if atomA == a {
		t.Fatalf("expected distinct constant kinds to never collide")
	}

	if !fun.ValueIsConstant(a) {
		t.Fatalf("expected a to be registered as a constant")
	}
	if len(fun.IterConstants()) != 2 {
		t.Fatalf("expected exactly 2 distinct constants, got %d", len(fun.IterConstants()))
	}
}

func TestBlockValueDedup(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)

	blk := b.BlockInsert()
	v1 := b.Value(blk)
	v2 := b.Value(blk)
	if v1 != v2 {
		t.Fatalf("expected repeated Value(blk) to return the same handle")
	}

	tgt, ok := fun.ValueBlock(v1)
	if !ok || tgt != blk {
		t.Fatalf("expected ValueBlock to resolve back to blk, got (%v, %v)", tgt, ok)
	}
}

func TestAliasChasingIsTransparent(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)

	old := b.Value(1)
	target := b.Value(2)
	b.ReplaceValue(old, target)

	if got := fun.ValueKind(old); got.Kind != KindConstant || got.Term != IntTerm(2) {
		t.Fatalf("expected aliased value to resolve through to target's kind/term, got %+v", got)
	}
}

func TestReplaceValueRejectsSelfCycle(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)
	v := b.Value(1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected ReplaceValue(v, v) to panic")
		}
	}()
	b.ReplaceValue(v, v)
}

func TestBlockSetEntryTwicePanics(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)
	blk1 := b.BlockInsert()
	blk2 := b.BlockInsert()
	b.BlockSetEntry(blk1)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected second BlockSetEntry to panic")
		}
	}()
	b.BlockSetEntry(blk2)
}

func TestSetBlockOpMaintainsSuccessorPredecessorCaches(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)

	entry := b.BlockInsert()
	arg := b.BlockArgInsert(entry)
	target1 := b.BlockInsert()
	target2 := b.BlockInsert()
	b.BlockSetEntry(entry)

	b.OpCall(entry, b.Value(target1), []Value{arg}, span.Unknown)

	graph := fun.BlockGraph()
	out := graph.Outgoing(entry)
	if len(out) != 1 || out[0] != target1 {
		t.Fatalf("expected entry's sole successor to be target1, got %v", out)
	}
	in := graph.Incoming(target1)
	if len(in) != 1 || in[0] != entry {
		t.Fatalf("expected target1's sole predecessor to be entry, got %v", in)
	}

	// Re-targeting the op must retract the old edge and install the new one.
	b.OpCall(entry, b.Value(target2), []Value{arg}, span.Unknown)

	if got := graph.Outgoing(entry); len(got) != 1 || got[0] != target2 {
		t.Fatalf("expected entry's successor to have moved to target2, got %v", got)
	}
	if got := graph.Incoming(target1); len(got) != 0 {
		t.Fatalf("expected target1 to no longer be a predecessor target, got %v", got)
	}
}

func TestValidateReportsDefects(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	if errs := Validate(fun); len(errs) == 0 {
		t.Fatalf("expected a function with no entry block to fail validation")
	}

	b := NewBuilder(fun)
	entry := b.BlockInsert()
	b.BlockSetEntry(entry)
	if errs := Validate(fun); len(errs) == 0 {
		t.Fatalf("expected a block with no operation set to fail validation")
	}

	b.OpUnreachable(entry, span.Unknown)
	if errs := Validate(fun); len(errs) != 0 {
		t.Fatalf("expected a fully-formed function to validate cleanly, got %v", errs)
	}
}

func TestOpCaptureFunctionAllocatesContinuation(t *testing.T) {
	fun := NewFunction(FunctionIdent{Module: "m", Name: "f", Arity: 0})
	b := NewBuilder(fun)
	entry := b.BlockInsert()
	b.BlockSetEntry(entry)

	before := fun.BlockCount()
	cont := b.OpCaptureFunction(entry, b.Value("erlang"), b.Value("woo"), b.Value(0), span.Unknown)
	if fun.BlockCount() != before+1 {
		t.Fatalf("expected OpCaptureFunction to allocate exactly one fresh block")
	}
	args := b.BlockArgs(cont)
	if len(args) != 1 {
		t.Fatalf("expected the continuation to have exactly one argument, got %d", len(args))
	}

	reads := b.BlockReads(entry)
	if len(reads) != 4 {
		t.Fatalf("expected CaptureFunctionOp to read 4 operands, got %d", len(reads))
	}
	tgt, ok := fun.ValueBlock(reads[3])
	if !ok || tgt != cont {
		t.Fatalf("expected the 4th operand to reference the continuation block")
	}
}
