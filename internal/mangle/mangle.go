// Package mangle implements the lambda mangler: the primitive that
// copies a reachable block subgraph under a rename map, either within one
// function (Run) or across a pair of functions (RunAcross).
//
// Grounded on libeir_ir/src/fun/mangle.rs's Mangler/MangleReceiver.
package mangle

import (
	"fmt"

	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

// EntryArg is a stable handle to a formal argument pre-allocated on the
// mangler's not-yet-created new entry block, usable as a rename
// destination before that block exists.
type EntryArg int

type sourceKind int

const (
	sourceValue sourceKind = iota
	sourceBlock
)

type renameSource struct {
	kind  sourceKind
	value ir.Value
	block ir.Block
}

func valueSource(v ir.Value) renameSource { return renameSource{kind: sourceValue, value: v} }
func blockSource(b ir.Block) renameSource { return renameSource{kind: sourceBlock, block: b} }

type destKind int

const (
	destValue destKind = iota
	destBlock
	destEntryArg
)

type renameDest struct {
	kind     destKind
	value    ir.Value
	block    ir.Block
	entryArg EntryArg
}

// ValueDest wraps an ir.Value as a rename destination.
func ValueDest(v ir.Value) renameDest { return renameDest{kind: destValue, value: v} }

// BlockDest wraps an ir.Block as a rename destination.
func BlockDest(b ir.Block) renameDest { return renameDest{kind: destBlock, block: b} }

// EntryArgDest wraps an EntryArg as a rename destination.
func EntryArgDest(a EntryArg) renameDest { return renameDest{kind: destEntryArg, entryArg: a} }

func (d renameDest) block() ir.Block {
	if d.kind != destBlock {
		panic("mangle: renameDest is not a Block")
	}
	return d.block
}

// Mangler accumulates a rename map for one mangling transaction. Zero
// value is ready to use after Start.
type Mangler struct {
	entry    ir.Block
	hasEntry bool
	numArgs  int

	renames map[renameSource]renameDest

	scope  map[ir.Block]struct{}
	toWalk []ir.Block

	// callSite is the span of the call expression that triggered this
	// specialization, if any. Copied ops get their span widened to cover
	// both their original definition site and callSite, so a diagnostic
	// raised against the specialized copy can still point back at the
	// call that produced it.
	callSite span.Span
}

// New returns a ready-to-use Mangler.
func New() *Mangler {
	return &Mangler{renames: make(map[renameSource]renameDest)}
}

func (m *Mangler) clear() {
	m.entry = 0
	m.hasEntry = false
	m.numArgs = 0
	m.renames = make(map[renameSource]renameDest)
	m.scope = make(map[ir.Block]struct{})
	m.toWalk = nil
	m.callSite = span.Unknown
}

// Start resets the mangler and records block as the root of the subgraph
// to be mangled.
func (m *Mangler) Start(block ir.Block) {
	m.clear()
	m.entry = block
	m.hasEntry = true
}

// SetCallSite records the span of the call expression driving this
// specialization. Optional; defaults to span.Unknown, in which case
// copied ops keep their original span unchanged.
func (m *Mangler) SetCallSite(sp span.Span) {
	m.callSite = sp
}

// AddArgument pre-allocates a formal argument on the mangler's not-yet-
// created new entry block, returning a stable handle usable as a rename
// destination.
func (m *Mangler) AddArgument() EntryArg {
	a := EntryArg(m.numArgs)
	m.numArgs++
	return a
}

// AddRename inserts old -> new into the rename map. old is an ir.Value or
// ir.Block; new is an ir.Value, ir.Block, or EntryArg (the ValueDest /
// BlockDest / EntryArgDest wrappers, or a bare ir.Value / ir.Block, which
// are accepted directly for convenience).
func (m *Mangler) AddRename(old interface{}, new interface{}) {
	var src renameSource
	switch o := old.(type) {
	case ir.Value:
		src = valueSource(o)
	case ir.Block:
		src = blockSource(o)
	default:
		panic("mangle: AddRename old must be an ir.Value or ir.Block")
	}

	var dst renameDest
	switch n := new.(type) {
	case ir.Value:
		dst = ValueDest(n)
	case ir.Block:
		dst = BlockDest(n)
	case EntryArg:
		dst = EntryArgDest(n)
	case renameDest:
		dst = n
	default:
		panic("mangle: AddRename new must be an ir.Value, ir.Block, or EntryArg")
	}

	m.renames[src] = dst
}

// receiver abstracts the difference between in-place (Run) and
// cross-function (RunAcross) mangling, mirroring MangleReceiver /
// SingleMangleReceiver / CopyMangleReceiver.
type receiver interface {
	from() *ir.Function
	to() *ir.FunctionBuilder
	mapConst(val ir.Value) ir.Value
	mapFreeValue(val ir.Value) ir.Value
	mapBlockOp(block ir.Block) (ir.OpKind, bool)
}

type singleReceiver struct {
	b *ir.FunctionBuilder
}

func (r *singleReceiver) from() *ir.Function        { return r.b.Fun() }
func (r *singleReceiver) to() *ir.FunctionBuilder    { return r.b }
func (r *singleReceiver) mapConst(val ir.Value) ir.Value      { return val }
func (r *singleReceiver) mapFreeValue(val ir.Value) ir.Value  { return val }
func (r *singleReceiver) mapBlockOp(block ir.Block) (ir.OpKind, bool) {
	return r.b.Fun().BlockKind(block)
}

type copyReceiver struct {
	fromFun *ir.Function
	toB     *ir.FunctionBuilder
}

func (r *copyReceiver) from() *ir.Function     { return r.fromFun }
func (r *copyReceiver) to() *ir.FunctionBuilder { return r.toB }

// mapConst re-interns the constant term of val (defined in fromFun) into
// toB's destination function.
func (r *copyReceiver) mapConst(val ir.Value) ir.Value {
	vt := r.fromFun.ValueKind(val)
	if vt.Kind != ir.KindConstant {
		panic("mangle: mapConst called with a non-constant value")
	}
	return r.toB.Value(vt.Term)
}

// mapFreeValue has no correspondence across function boundaries: an
// unrenamed argument of a source function has no meaning in the
// destination arena. This is a programmer error per spec.md §4.3's
// failure model (missing rename for an out-of-scope reference).
func (r *copyReceiver) mapFreeValue(val ir.Value) ir.Value {
	panic(fmt.Sprintf("mangle: value %v crosses function boundary with no rename", val))
}

// mapBlockOp clones the operation kind unchanged: OpKind values never
// embed entity handles directly (handles live only in a block's reads),
// so an OpKind from one function is valid verbatim in another.
func (r *copyReceiver) mapBlockOp(block ir.Block) (ir.OpKind, bool) {
	return r.fromFun.BlockKind(block)
}

// Run mangles the subgraph rooted at the block passed to Start in place,
// within b's own function, and returns the new entry block.
func (m *Mangler) Run(b *ir.FunctionBuilder) ir.Block {
	return m.runInner(&singleReceiver{b: b})
}

// RunAcross mangles the subgraph rooted at the block passed to Start,
// reading from from and writing the copy into to, and returns the new
// entry block in to's function.
func (m *Mangler) RunAcross(from *ir.Function, to *ir.FunctionBuilder) ir.Block {
	return m.runInner(&copyReceiver{fromFun: from, toB: to})
}

func (m *Mangler) runInner(recv receiver) ir.Block {
	if !m.hasEntry {
		panic("mangle: Run/RunAcross called before Start")
	}

	entry := m.entry

	// Insert new entry block with its pre-allocated arguments.
	newEntry := recv.to().BlockInsert()
	for i := 0; i < m.numArgs; i++ {
		recv.to().BlockArgInsert(newEntry)
	}

	m.normalizeSources(recv)
	m.walkScope(recv)
	m.allocateDestinations(recv)

	m.copyBody(recv, entry, newEntry, newEntry)
	for block := range m.scope {
		newBlock := m.renames[blockSource(block)].block()
		m.copyBody(recv, block, newBlock, newEntry)
	}

	m.clear()
	return newEntry
}

// normalizeSources re-keys every value-keyed rename whose source value is
// itself a block reference to a block-keyed rename, aborting on conflict.
func (m *Mangler) normalizeSources(recv receiver) {
	from := recv.from()

	type pending struct {
		old renameSource
		new renameSource
		dst renameDest
	}
	var repoints []pending

	for key, dst := range m.renames {
		if key.kind != sourceValue {
			continue
		}
		if block, ok := from.ValueBlock(key.value); ok {
			newSrc := blockSource(block)
			if existing, ok := m.renames[newSrc]; ok && existing != dst {
				panic(fmt.Sprintf("mangle: conflicting renames for block%d", block))
			}
			repoints = append(repoints, pending{old: key, new: newSrc, dst: dst})
		}
	}

	for _, p := range repoints {
		m.renames[p.new] = p.dst
		delete(m.renames, p.old)
	}
}

// walkScope performs the forward worklist traversal: a block is in scope
// iff reachable from entry and not itself a rename source.
func (m *Mangler) walkScope(recv receiver) {
	from := recv.from()
	graph := from.BlockGraph()

	m.toWalk = append(m.toWalk, m.entry)

	for len(m.toWalk) > 0 {
		n := len(m.toWalk) - 1
		block := m.toWalk[n]
		m.toWalk = m.toWalk[:n]

		if _, ok := m.scope[block]; ok {
			continue
		}
		if _, ok := m.renames[blockSource(block)]; ok {
			continue
		}
		m.scope[block] = struct{}{}

		for _, out := range graph.Outgoing(block) {
			m.toWalk = append(m.toWalk, out)
		}
	}
}

// allocateDestinations allocates a fresh destination block (and fresh
// arguments) for every scoped source block, recording the block- and
// argument-renames. Renames already present for an argument (e.g. to an
// EntryArg) take precedence over the freshly allocated one.
func (m *Mangler) allocateDestinations(recv receiver) {
	from := recv.from()
	to := recv.to()

	for block := range m.scope {
		if _, ok := m.renames[blockSource(block)]; ok {
			panic(fmt.Sprintf("mangle: scoped block%d already has a rename", block))
		}
		newBlock := to.BlockInsert()
		m.renames[blockSource(block)] = BlockDest(newBlock)

		for _, arg := range from.BlockArgs(block) {
			newArg := to.BlockArgInsert(newBlock)
			if _, ok := m.renames[valueSource(arg)]; !ok {
				m.renames[valueSource(arg)] = ValueDest(newArg)
			}
		}
	}
}

// mapValue maps one operand read from fromBlock's operation into its
// destination-function equivalent.
func (m *Mangler) mapValue(recv receiver, newEntry ir.Block, orig ir.Value) ir.Value {
	from := recv.from()
	vt := from.ValueKind(orig)

	switch vt.Kind {
	case ir.KindArg:
		if dst, ok := m.renames[valueSource(orig)]; ok {
			return m.resolveDest(recv, newEntry, dst)
		}
		return recv.mapFreeValue(orig)
	case ir.KindConstant:
		return recv.mapConst(orig)
	case ir.KindBlockRef:
		dst, ok := m.renames[blockSource(vt.Block)]
		if !ok {
			panic(fmt.Sprintf("mangle: no rename for referenced block%d", vt.Block))
		}
		return m.resolveDest(recv, newEntry, dst)
	default:
		panic("mangle: unexpected value kind after alias resolution")
	}
}

func (m *Mangler) resolveDest(recv receiver, newEntry ir.Block, dst renameDest) ir.Value {
	switch dst.kind {
	case destValue:
		return dst.value
	case destEntryArg:
		return recv.to().BlockArgs(newEntry)[dst.entryArg]
	case destBlock:
		return recv.to().Value(dst.block)
	default:
		panic("mangle: unreachable rename destination kind")
	}
}

// copyBody fetches fromBlock's operation and span, maps every operand,
// and writes the result onto toBlock.
func (m *Mangler) copyBody(recv receiver, fromBlock, toBlock, newEntry ir.Block) {
	kind, ok := recv.mapBlockOp(fromBlock)
	if !ok {
		panic(fmt.Sprintf("mangle: source block%d has no operation set", fromBlock))
	}
	sp := span.Union(m.callSite, recv.from().BlockSpan(fromBlock))

	reads := recv.from().BlockReads(fromBlock)
	mapped := make([]ir.Value, len(reads))
	for i, r := range reads {
		mapped[i] = m.mapValue(recv, newEntry, r)
	}

	recv.to().SetBlockOp(toBlock, kind, mapped, sp)
}
