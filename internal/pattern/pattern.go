// Package pattern implements the pattern-clause entities consumed by
// clause lowering: PatternClause, PatternNode, and PatternValue, held in
// a sibling pool reachable only through FunctionBuilder.Pat().
//
// Grounded on the surviving use of libeir_ir::pattern::{PatternClause,
// PatternNode, PatternValue} in libeir_syntax_erl/src/lower/pattern/mod.rs
// (clause_start, clause_value, the Tree/node-merge vocabulary in spec.md
// §3 and §4.4); the defining libeir_ir::pattern module itself was not
// part of the retrieved corpus, so node-kind shape and the dedup/merge
// API below follow spec.md §4.4 directly rather than a specific file.
package pattern

import (
	"fmt"
	"sort"
)

// Clause is a handle to one arm of a match: a tree of Nodes, an ordered
// bind list, and an ordered PatternValue slot list.
type Clause uint32

// Node is a handle into the clause's node tree.
type Node uint32

// Value is a slot index within a clause; the value occupying a slot is
// supplied at match time by the surrounding function (kept outside this
// package — see internal/lower's clause-lowering context).
type Value uint32

// NodeKind tags the shape of a pattern node.
type NodeKind int

const (
	Wildcard NodeKind = iota
	Bind
	Literal
	Tuple
	ListCell
	Map
	Binary
)

// SegmentKind enumerates the bit-syntax segment element kinds a Binary
// node can constrain. Mirrors the surface ast.SegmentType set without
// depending on the ast package, keeping pattern free of any one surface
// syntax's vocabulary.
type SegmentKind int

const (
	SegInteger SegmentKind = iota
	SegFloat
	SegBinary
	SegBitstring
	SegUTF8
	SegUTF16
	SegUTF32
)

// Segment carries a Binary node's bit-syntax metadata: its value
// sub-pattern, an optional dynamically computed size slot, and the unit/
// element-kind/signedness qualifiers. Endianness is not recorded.
type Segment struct {
	ValueNode Node
	SizeSlot  Value
	HasSize   bool
	Unit      int
	Kind      SegmentKind
	Signed    bool
}

type nodeData struct {
	kind NodeKind

	// Bind: bind index within clause.binds.
	bindIdx int

	// Literal: the PatternValue slot holding the literal's value.
	literalVal Value

	// Tuple, ListCell: child node handles.
	entries []Node

	// Map: field-name -> value node, in insertion order for determinism.
	mapKeys   []string
	mapValues []Node

	// Binary: bit-syntax segment metadata.
	segment Segment

	// dedupKey identifies structurally identical nodes for the
	// mandatory deduplication spec.md §3 requires ("Deduplication on
	// value identity is mandatory").
	dedupKey string
}

type clauseData struct {
	nodes  []nodeData
	dedup  map[string]Node
	roots  []Node
	binds  []Node // bind-index -> owning node, in bind order
	values int     // number of PatternValue slots allocated
	frozen bool
}

// Pool owns every Clause, Node, and Value slot for one Function.
// Translated from the b.pat_mut() sibling arena referenced throughout
// libeir_syntax_erl/src/lower/pattern/mod.rs.
type Pool struct {
	clauses []clauseData
}

// NewPool returns an empty pattern pool.
func NewPool() *Pool {
	return &Pool{}
}

// ClauseStart begins a new, unfrozen clause and returns its handle.
func (p *Pool) ClauseStart() Clause {
	p.clauses = append(p.clauses, clauseData{dedup: make(map[string]Node)})
	return Clause(len(p.clauses) - 1)
}

func (p *Pool) clause(c Clause) *clauseData {
	return &p.clauses[c]
}

// ClauseValue allocates a fresh PatternValue slot in c and returns it.
// Callers are expected to dedup by the value that will occupy the slot
// themselves (see internal/lower's value_dedup map, mirroring
// ClauseLowerCtx.clause_value in the original source) — this method
// always allocates, matching the original's unconditional `self.values
// .push(val); b.pat_mut().clause_value(...)` pairing.
func (p *Pool) ClauseValue(c Clause) Value {
	cd := p.clause(c)
	if cd.frozen {
		panic("pattern: ClauseValue on a frozen clause")
	}
	v := Value(cd.values)
	cd.values++
	return v
}

// AddRoot adds node n as a root of c's pattern tree. Roots
// correspond to the clause's formal pattern arguments, one per surface
// pattern passed to lower_clause.
func (p *Pool) AddRoot(c Clause, n Node) {
	cd := p.clause(c)
	if cd.frozen {
		panic("pattern: AddRoot on a frozen clause")
	}
	cd.roots = append(cd.roots, n)
}

// Roots returns c's root nodes in the order they were added.
func (p *Pool) Roots(c Clause) []Node {
	return append([]Node(nil), p.clause(c).roots...)
}

func (p *Pool) newNode(c Clause, nd nodeData) Node {
	cd := p.clause(c)
	if existing, ok := cd.dedup[nd.dedupKey]; ok {
		return existing
	}
	if cd.frozen {
		panic("pattern: new node on a frozen clause")
	}
	n := Node(len(cd.nodes))
	cd.nodes = append(cd.nodes, nd)
	cd.dedup[nd.dedupKey] = n
	return n
}

// NewWildcard returns (creating if not already present) the clause's
// wildcard node. Wildcards carry no payload, so exactly one is ever
// needed per clause.
func (p *Pool) NewWildcard(c Clause) Node {
	return p.newNode(c, nodeData{kind: Wildcard, dedupKey: "wild"})
}

// NewBind allocates a fresh bind node wrapping inner, recording it at a
// new bind index. Binds are never deduped against each other: two
// syntactic occurrences of the pattern variable `A` become two distinct
// bind nodes, and it is the lowering layer's job (spec.md §4.4 step 3)
// to notice the duplicate name and emit an EqBind guard between them.
func (p *Pool) NewBind(c Clause, inner Node) Node {
	cd := p.clause(c)
	if cd.frozen {
		panic("pattern: NewBind on a frozen clause")
	}
	idx := len(cd.binds)
	n := Node(len(cd.nodes))
	cd.nodes = append(cd.nodes, nodeData{kind: Bind, bindIdx: idx, entries: []Node{inner}})
	cd.binds = append(cd.binds, n)
	return n
}

// NewLiteral returns the node asserting equality with the value held in
// slot val, deduped by slot.
func (p *Pool) NewLiteral(c Clause, val Value) Node {
	return p.newNode(c, nodeData{kind: Literal, literalVal: val, dedupKey: fmt.Sprintf("lit:%d", val)})
}

// NewTuple returns the node matching an exact-arity tuple of entries,
// deduped by the entries' node identities.
func (p *Pool) NewTuple(c Clause, entries []Node) Node {
	return p.newNode(c, nodeData{kind: Tuple, entries: append([]Node(nil), entries...), dedupKey: dedupKeyFor("tuple", entries)})
}

// NewListCell returns the cons-cell node (head, tail), deduped by the
// pair's node identities.
func (p *Pool) NewListCell(c Clause, head, tail Node) Node {
	return p.newNode(c, nodeData{kind: ListCell, entries: []Node{head, tail}, dedupKey: dedupKeyFor("cons", []Node{head, tail})})
}

// NewMap returns the node matching a set of required fields, deduped by
// the (sorted) field-name/value-node pairing.
func (p *Pool) NewMap(c Clause, keys []string, values []Node) Node {
	if len(keys) != len(values) {
		panic("pattern: NewMap keys/values length mismatch")
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })
	key := "map"
	for _, i := range order {
		key += fmt.Sprintf(":%s=%d", keys[i], values[i])
	}
	return p.newNode(c, nodeData{kind: Map, mapKeys: append([]string(nil), keys...), mapValues: append([]Node(nil), values...), dedupKey: key})
}

// NewBinary returns the node matching one bit-syntax segment: seg.
// ValueNode constrains the segment's decoded content, seg.SizeSlot (when
// seg.HasSize) names the PatternValue slot holding its dynamically
// computed size.
func (p *Pool) NewBinary(c Clause, seg Segment) Node {
	key := fmt.Sprintf("bin:%d:%d:%v:%d:%d:%t", seg.ValueNode, seg.SizeSlot, seg.HasSize, seg.Unit, seg.Kind, seg.Signed)
	return p.newNode(c, nodeData{kind: Binary, segment: seg, dedupKey: key})
}

// NodeSegment returns the bit-syntax metadata of a Binary node.
func (p *Pool) NodeSegment(c Clause, n Node) Segment {
	return p.clause(c).nodes[n].segment
}

func dedupKeyFor(tag string, entries []Node) string {
	key := tag
	for _, e := range entries {
		key += fmt.Sprintf(":%d", e)
	}
	return key
}

// NodeInfo reports a node's kind and, for Bind nodes, its bind index.
func (p *Pool) NodeInfo(c Clause, n Node) (kind NodeKind, bindIdx int) {
	nd := &p.clause(c).nodes[n]
	return nd.kind, nd.bindIdx
}

// NodeEntries returns the child nodes of a Tuple or ListCell node.
func (p *Pool) NodeEntries(c Clause, n Node) []Node {
	return append([]Node(nil), p.clause(c).nodes[n].entries...)
}

// NodeLiteralValue returns the PatternValue slot of a Literal node. A
// Binary node's size slot is read through NodeSegment instead.
func (p *Pool) NodeLiteralValue(c Clause, n Node) Value {
	return p.clause(c).nodes[n].literalVal
}

// NodeMapFields returns the field names and value nodes of a Map node.
func (p *Pool) NodeMapFields(c Clause, n Node) ([]string, []Node) {
	nd := &p.clause(c).nodes[n]
	return append([]string(nil), nd.mapKeys...), append([]Node(nil), nd.mapValues...)
}

// BindCount returns the number of distinct bind nodes recorded in c, in
// the stable left-to-right order they were created — spec.md §4.4's
// "Walk the tree to collect binds in stable left-to-right order" is
// satisfied trivially here because internal/lower creates bind nodes in
// that same left-to-right walk order.
func (p *Pool) BindCount(c Clause) int {
	return len(p.clause(c).binds)
}

// Finish freezes c, forbidding further node/value/root mutation. Matches
// spec.md §3's "frozen when the clause is 'finished'" lifecycle note.
func (p *Pool) Finish(c Clause) {
	p.clause(c).frozen = true
}

// IsFrozen reports whether c has been finished.
func (p *Pool) IsFrozen(c Clause) bool {
	return p.clause(c).frozen
}

// ValueSlotCount returns the number of PatternValue slots allocated in c.
func (p *Pool) ValueSlotCount(c Clause) int {
	return p.clause(c).values
}
