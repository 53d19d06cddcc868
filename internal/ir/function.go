package ir

import (
	"fmt"

	"github.com/funvibe/fxeir/internal/pattern"
	"github.com/funvibe/fxeir/internal/span"
)

// Dialect restricts which operations a Function is meant to contain. As
// in the original source, this is metadata only — op insertion is never
// gated on it (see SPEC_FULL.md §10, an explicit Open Question carried
// forward rather than resolved with invented enforcement).
type Dialect int

const (
	// DialectHigh allows all operations, including high-level pattern
	// matching constructs.
	DialectHigh Dialect = iota
	// DialectNormal is High minus the pattern-matching construct.
	DialectNormal
	// DialectCPS is Normal minus returning calls: only tail calls.
	DialectCPS
)

func (d Dialect) String() string {
	switch d {
	case DialectHigh:
		return "high"
	case DialectNormal:
		return "normal"
	case DialectCPS:
		return "cps"
	default:
		return "unknown"
	}
}

type blockData struct {
	args EntityList[Value]

	hasOp bool
	op    OpKind
	reads EntityList[Value]
	span  span.Span

	preds PooledEntitySet[Block]
	succs PooledEntitySet[Block]
}

// Function owns every entity arena for one compiled function: blocks,
// values, function references, the shared list/set pools, and the
// pattern-clause pool reachable only through FunctionBuilder.Pat().
// Translated from eir/src/fun/mod.rs's Function.
type Function struct {
	ident   FunctionIdent
	dialect Dialect

	blocks  arena[Block, blockData]
	values  arena[Value, valueData]
	funRefs arena[FunRef, FunctionIdent]

	entry    Block
	hasEntry bool

	valuePool    ListPool[Value]
	blockSetPool SetPool[Block]

	constants      map[interface{}]Value
	constantValues map[Value]struct{}
	funRefDedup    map[FunctionIdent]FunRef

	patterns *pattern.Pool
}

// NewFunction creates an empty function with no entry block and empty
// arenas, matching spec.md §4.2's `new(ident)` contract.
func NewFunction(ident FunctionIdent) *Function {
	return NewFunctionWithCapacity(ident, 0, 0, 0)
}

// NewFunctionWithCapacity is NewFunction, presizing the block/value/
// fun-ref arenas per the caller's hints (see config.ArenaHints) — purely
// a performance hint, never observable in the function's resulting
// entities or their numbering.
func NewFunctionWithCapacity(ident FunctionIdent, blockCap, valueCap, funRefCap int) *Function {
	return &Function{
		ident:          ident,
		dialect:        DialectHigh,
		entry:          0,
		hasEntry:       false,
		blocks:         newArenaWithCapacity[Block, blockData](blockCap),
		values:         newArenaWithCapacity[Value, valueData](valueCap),
		funRefs:        newArenaWithCapacity[FunRef, FunctionIdent](funRefCap),
		constants:      make(map[interface{}]Value),
		constantValues: make(map[Value]struct{}),
		funRefDedup:    make(map[FunctionIdent]FunRef),
		patterns:       pattern.NewPool(),
	}
}

// FunRefIdent returns the identity a FunRef was interned for.
func (f *Function) FunRefIdent(ref FunRef) FunctionIdent {
	return *f.funRefs.get(ref)
}

// Ident returns the function's (module, name, arity) identity.
func (f *Function) Ident() FunctionIdent { return f.ident }

// Dialect returns the function's declared dialect.
func (f *Function) Dialect() Dialect { return f.dialect }

// SetDialect sets the function's declared dialect. Metadata only.
func (f *Function) SetDialect(d Dialect) { f.dialect = d }

// BlockEntry returns the function's entry block. Panics if none has been
// set yet — spec.md requires entry_block be set exactly once before
// validation, and reading it earlier is a programmer error.
func (f *Function) BlockEntry() Block {
	if !f.hasEntry {
		panic("ir: function has no entry block set")
	}
	return f.entry
}

// HasEntry reports whether an entry block has been set.
func (f *Function) HasEntry() bool { return f.hasEntry }

// BlockArgs returns block's formal arguments in insertion order. The
// returned slice aliases pool storage; it is stable until the next
// mutation of block.
func (f *Function) BlockArgs(block Block) []Value {
	return f.valuePool.Slice(f.blocks.get(block).args)
}

// BlockReads returns the operand list of block's operation, in order.
func (f *Function) BlockReads(block Block) []Value {
	return f.valuePool.Slice(f.blocks.get(block).reads)
}

// BlockKind returns block's operation and whether one has been set.
// A block with no operation is "incomplete" per spec.md §3.
func (f *Function) BlockKind(block Block) (OpKind, bool) {
	data := f.blocks.get(block)
	return data.op, data.hasOp
}

// BlockSpan returns the source span associated with block's operation.
func (f *Function) BlockSpan(block Block) span.Span {
	return f.blocks.get(block).span
}

// BlockCount returns the number of blocks ever inserted (including dead
// ones left behind by mangling).
func (f *Function) BlockCount() int { return f.blocks.len() }

// ValueCount returns the number of values ever interned or allocated.
func (f *Function) ValueCount() int { return f.values.len() }

// ValueKind resolves v's kind, transparently chasing alias chains.
// Panics on a cyclic alias chain, a programmer error per spec.md §7.
func (f *Function) ValueKind(v Value) ValueType {
	seen := map[Value]struct{}{}
	for {
		if _, ok := seen[v]; ok {
			panic(fmt.Sprintf("ir: alias cycle detected at value %v", v))
		}
		seen[v] = struct{}{}

		data := f.values.get(v)
		if data.kind != KindAlias {
			return ValueType{Kind: data.kind, Block: data.block, Term: data.term}
		}
		v = data.alias
	}
}

// ValueBlock returns (b, true) iff v resolves (after alias chasing) to a
// KindBlockRef value, matching spec.md's `value_block(v) -> Option<Block>`.
func (f *Function) ValueBlock(v Value) (Block, bool) {
	vt := f.ValueKind(v)
	if vt.Kind == KindBlockRef {
		return vt.Block, true
	}
	return Block(0), false
}

// ValueIsConstant reports whether v is a member of the function's
// constant-values auxiliary set.
func (f *Function) ValueIsConstant(v Value) bool {
	_, ok := f.constantValues[v]
	return ok
}

// IterConstants returns every interned constant Value, in no particular
// order, matching spec.md's `iter_constants()`.
func (f *Function) IterConstants() []Value {
	out := make([]Value, 0, len(f.constantValues))
	for v := range f.constantValues {
		out = append(out, v)
	}
	return out
}

// Pat returns the function's sibling pattern-clause pool.
func (f *Function) Pat() *pattern.Pool { return f.patterns }

// blockGraph constructs a lazy adjacency view over the successor/
// predecessor caches.
func (f *Function) blockGraph() BlockGraph { return BlockGraph{fun: f} }

// BlockGraph returns a read-only adjacency view over f's current
// predecessor/successor caches.
func (f *Function) BlockGraph() BlockGraph { return f.blockGraph() }

// resolveAlias chases v's alias chain and returns the canonical non-alias
// value. Panics on a cyclic chain, like ValueKind.
func (f *Function) resolveAlias(v Value) Value {
	seen := map[Value]struct{}{}
	for {
		if _, ok := seen[v]; ok {
			panic(fmt.Sprintf("ir: alias cycle detected at value %v", v))
		}
		seen[v] = struct{}{}
		data := f.values.get(v)
		if data.kind != KindAlias {
			return v
		}
		v = data.alias
	}
}

// setBlockOp installs kind/reads as block's operation, maintaining the
// predecessor/successor caches: any previously cached edges from block
// are dropped and replaced by the edges implied by the new reads (every
// read resolving to a KindBlockRef value is a successor).
func (f *Function) setBlockOp(block Block, kind OpKind, reads []Value, sp span.Span) {
	data := f.blocks.get(block)

	if data.hasOp {
		for _, old := range f.valuePool.Slice(data.reads) {
			if tgt, ok := f.ValueBlock(old); ok {
				f.blockSetPool.Remove(data.succs, tgt)
				tdata := f.blocks.get(tgt)
				f.blockSetPool.Remove(tdata.preds, block)
			}
		}
		f.blockSetPool.Clear(&data.succs)
	}

	data.op = kind
	data.hasOp = true
	data.span = sp
	f.valuePool.Set(&data.reads, reads)

	for _, r := range reads {
		if tgt, ok := f.ValueBlock(r); ok {
			f.blockSetPool.Insert(&data.succs, tgt)
			tdata := f.blocks.get(tgt)
			f.blockSetPool.Insert(&tdata.preds, block)
		}
	}
}
