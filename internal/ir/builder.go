package ir

import (
	"github.com/funvibe/fxeir/internal/pattern"
	"github.com/funvibe/fxeir/internal/span"
)

// FunctionBuilder is the sole mutation surface for a Function: every
// insertion operation named in spec.md §4.2 is a method here, mirroring
// libeir_ir's FunctionBuilder. The mangler and pattern-clause lowering
// packages never touch Function's fields directly — only this API.
type FunctionBuilder struct {
	fun *Function
}

// NewBuilder wraps fun for mutation.
func NewBuilder(fun *Function) *FunctionBuilder {
	return &FunctionBuilder{fun: fun}
}

// Fun returns the underlying function for read-only inspection.
func (b *FunctionBuilder) Fun() *Function { return b.fun }

// BlockInsert allocates a fresh, argument-less, operation-less block.
func (b *FunctionBuilder) BlockInsert() Block {
	return b.fun.blocks.push(blockData{})
}

// BlockArgInsert appends a fresh formal argument to block and returns its
// value handle.
func (b *FunctionBuilder) BlockArgInsert(block Block) Value {
	v := b.fun.values.push(valueData{kind: KindArg, block: block})
	data := b.fun.blocks.get(block)
	b.fun.valuePool.Push(&data.args, v)
	return v
}

// BlockInsertGetVal allocates a fresh block and immediately interns its
// value form, returning both — a convenience for callers (guard-lambda
// construction) that always need the block's value right after creating
// it.
func (b *FunctionBuilder) BlockInsertGetVal() (Block, Value) {
	blk := b.BlockInsert()
	return blk, b.Value(blk)
}

// BlockSetEntry designates block as the function's entry block. Panics
// if an entry block has already been set — spec.md §7 classifies
// set-entry-twice as a programmer error.
func (b *FunctionBuilder) BlockSetEntry(block Block) {
	if b.fun.hasEntry {
		panic("ir: entry block already set")
	}
	b.fun.entry = block
	b.fun.hasEntry = true
}

// Value interns x as a function-level value. x may be:
//   - a Block, producing (or reusing) the KindBlockRef value referencing it
//   - a ConstantTerm, or a Go literal convertible to one (bool, int,
//     int64, float64, string), producing (or reusing) the interned
//     KindConstant value
//
// Constant interning is structural: two calls with equal terms return
// the same Value, matching spec.md §4.2.
func (b *FunctionBuilder) Value(x interface{}) Value {
	if blk, ok := x.(Block); ok {
		return b.blockValue(blk)
	}
	term, ok := toConstantTerm(x)
	if !ok {
		panic("ir: Value called with a type that is neither Block nor constant-convertible")
	}
	return b.constantValue(term)
}

func (b *FunctionBuilder) blockValue(blk Block) Value {
	key := blockValueKey{blk}
	if v, ok := b.fun.constants[key]; ok {
		return v
	}
	v := b.fun.values.push(valueData{kind: KindBlockRef, block: blk})
	b.fun.constants[key] = v
	return v
}

type blockValueKey struct {
	b Block
}

func (b *FunctionBuilder) constantValue(term ConstantTerm) Value {
	key := term.key()
	if v, ok := b.fun.constants[key]; ok {
		return v
	}
	v := b.fun.values.push(valueData{kind: KindConstant, term: term})
	b.fun.constants[key] = v
	b.fun.constantValues[v] = struct{}{}
	return v
}

// FunRef interns ident as a function reference, deduplicated by identity,
// mirroring Function's fun_refs PrimaryMap in the original source.
func (b *FunctionBuilder) FunRef(ident FunctionIdent) FunRef {
	if ref, ok := b.fun.funRefDedup[ident]; ok {
		return ref
	}
	ref := b.fun.funRefs.push(ident)
	b.fun.funRefDedup[ident] = ref
	return ref
}

// ReplaceValue retires old by aliasing it to target: rather than mutate
// old's definition in place, consumers that still hold old transparently
// resolve to target on their next read. Used by rewrites that must
// preserve append-only arena semantics (spec.md's Design Notes: "rewrites
// insert a new value and alias the old one to it"). Panics if old ==
// target, which would create a self-cycle.
func (b *FunctionBuilder) ReplaceValue(old, target Value) {
	if old == target {
		panic("ir: ReplaceValue would create a self-referential alias")
	}
	data := b.fun.values.get(old)
	data.kind = KindAlias
	data.alias = target
	data.term = nil
}

// SetBlockOp installs an already-constructed operation kind and operand
// list onto block. This is the low-level primitive the higher-level Op*
// methods are built from; it exists on the builder's public surface so
// that packages copying bodies wholesale (the mangler) never need to
// reach past the builder into Function internals.
func (b *FunctionBuilder) SetBlockOp(block Block, kind OpKind, reads []Value, sp span.Span) {
	b.fun.setBlockOp(block, kind, reads, sp)
}

// OpCall sets block's operation to a call of target with args. target is
// an ordinary Value and may itself resolve to a block reference (the
// common case) or to any other value a higher dialect permits as a
// callee.
func (b *FunctionBuilder) OpCall(block Block, target Value, args []Value, sp span.Span) {
	reads := make([]Value, 0, 1+len(args))
	reads = append(reads, target)
	reads = append(reads, args...)
	b.fun.setBlockOp(block, CallOp{}, reads, sp)
}

// OpCaptureFunction sets block's operation to capturing the remote
// function (module, name, arity) and allocates a fresh continuation
// block, whose sole argument receives the captured function value. It
// returns the continuation block.
func (b *FunctionBuilder) OpCaptureFunction(block Block, module, name, arity Value, sp span.Span) Block {
	cont := b.BlockInsert()
	b.BlockArgInsert(cont)
	contVal := b.Value(cont)
	b.fun.setBlockOp(block, CaptureFunctionOp{}, []Value{module, name, arity, contVal}, sp)
	return cont
}

// OpUnreachable sets block's operation to unreachable, severing any
// successor edges it previously had.
func (b *FunctionBuilder) OpUnreachable(block Block, sp span.Span) {
	b.fun.setBlockOp(block, UnreachableOp{}, nil, sp)
}

// IntrinsicBuilder accumulates operands for a named intrinsic before
// committing them to a block in one setBlockOp call, mirroring eir's
// deferred `.block = Some(block); .finish(b)` intrinsic-building pattern
// (seen in libeir_syntax_erl/src/lower/pattern/mod.rs's bool_and/bool_or
// construction).
type IntrinsicBuilder struct {
	b        *FunctionBuilder
	name     string
	block    Block
	hasBlock bool
	operands []Value
	span     span.Span
}

// OpIntrinsicBuild starts building a named intrinsic operation.
func (b *FunctionBuilder) OpIntrinsicBuild(name string) *IntrinsicBuilder {
	return &IntrinsicBuilder{b: b, name: name}
}

// Block sets the target block the intrinsic will be committed to.
func (ib *IntrinsicBuilder) Block(block Block) *IntrinsicBuilder {
	ib.block = block
	ib.hasBlock = true
	return ib
}

// Span sets the source span recorded for the intrinsic.
func (ib *IntrinsicBuilder) Span(sp span.Span) *IntrinsicBuilder {
	ib.span = sp
	return ib
}

// PushValue appends an operand.
func (ib *IntrinsicBuilder) PushValue(v Value) *IntrinsicBuilder {
	ib.operands = append(ib.operands, v)
	return ib
}

// Finish commits the accumulated operands to the target block. Panics if
// Block was never called.
func (ib *IntrinsicBuilder) Finish() {
	if !ib.hasBlock {
		panic("ir: IntrinsicBuilder.Finish called before Block")
	}
	ib.b.fun.setBlockOp(ib.block, IntrinsicOp{Name: ib.name}, ib.operands, ib.span)
}

// BlockGraph returns a read-only adjacency view over the function's
// current predecessor/successor caches.
func (b *FunctionBuilder) BlockGraph() BlockGraph { return b.fun.blockGraph() }

// ValueKind resolves v's kind, chasing aliases.
func (b *FunctionBuilder) ValueKind(v Value) ValueType { return b.fun.ValueKind(v) }

// ValueBlock returns the block v resolves to, if any.
func (b *FunctionBuilder) ValueBlock(v Value) (Block, bool) { return b.fun.ValueBlock(v) }

// BlockArgs returns block's formal arguments.
func (b *FunctionBuilder) BlockArgs(block Block) []Value { return b.fun.BlockArgs(block) }

// BlockReads returns block's operation's operands.
func (b *FunctionBuilder) BlockReads(block Block) []Value { return b.fun.BlockReads(block) }

// BlockKind returns block's operation.
func (b *FunctionBuilder) BlockKind(block Block) (OpKind, bool) { return b.fun.BlockKind(block) }

// Pat returns the function's sibling pattern-clause pool.
func (b *FunctionBuilder) Pat() *pattern.Pool { return b.fun.Pat() }
