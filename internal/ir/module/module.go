// Package module implements the minimal module-bookkeeping layer that
// groups Functions by name/arity, grounded on libeir_ir/src/module.rs.
package module

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

// FunctionIndex is a 32-bit handle into a Module's function arena.
type FunctionIndex uint32

// FunctionDefinition pairs a Function with the index it was inserted at.
type FunctionDefinition struct {
	index FunctionIndex
	fun   *ir.Function
}

// Index returns the definition's own index within its Module.
func (d *FunctionDefinition) Index() FunctionIndex { return d.index }

// Function returns the wrapped Function.
func (d *FunctionDefinition) Function() *ir.Function { return d.fun }

type nameArity struct {
	name  string
	arity int
}

// Module groups a set of Functions under one module name. Functions are
// looked up either by dense index or by (name, arity); module-qualified
// FunctionIdent lookup goes through ident_index, matching the
// name_map-by-(Symbol,usize) of the original source.
//
// ID is a correlation identifier for tooling (diagnostics, build caches)
// that has no equivalent in the original source — the original identifies
// modules purely by their Ident name. Added per SPEC_FULL.md's domain-
// stack wiring of github.com/google/uuid.
type Module struct {
	ID   uuid.UUID
	name string
	span span.Span

	functions []*FunctionDefinition
	nameMap   map[nameArity]FunctionIndex
}

// New creates an empty, unspanned module named name.
func New(name string) *Module {
	return NewWithSpan(name, span.Unknown)
}

// NewWithSpan creates an empty module with an explicit source span.
func NewWithSpan(name string, sp span.Span) *Module {
	return &Module{
		ID:      uuid.New(),
		name:    name,
		span:    sp,
		nameMap: make(map[nameArity]FunctionIndex),
	}
}

// Name returns the module's name.
func (m *Module) Name() string { return m.name }

// Span returns the module's declaration span.
func (m *Module) Span() span.Span { return m.span }

// AddFunction inserts a fresh, empty function named name/arity and
// returns its definition. Panics if the module already has a function of
// that (name, arity) — matching the original's `assert!(!self.name_map
// .contains_key(...))`.
func (m *Module) AddFunction(sp span.Span, name string, arity int) *FunctionDefinition {
	return m.AddFunctionWithCapacity(sp, name, arity, 0, 0, 0)
}

// AddFunctionWithCapacity is AddFunction, presizing the new function's
// arenas per blockCap/valueCap/funRefCap (see config.ArenaHints) — lets a
// caller that knows it's about to build a large generated function avoid
// repeated arena grow-and-copy steps.
func (m *Module) AddFunctionWithCapacity(sp span.Span, name string, arity int, blockCap, valueCap, funRefCap int) *FunctionDefinition {
	key := nameArity{name, arity}
	if _, ok := m.nameMap[key]; ok {
		panic(fmt.Sprintf("module: function %s/%d already defined in module %s", name, arity, m.name))
	}

	ident := ir.FunctionIdent{Module: m.name, Name: name, Arity: arity}
	fun := ir.NewFunctionWithCapacity(ident, blockCap, valueCap, funRefCap)

	idx := FunctionIndex(len(m.functions))
	def := &FunctionDefinition{index: idx, fun: fun}
	m.functions = append(m.functions, def)
	m.nameMap[key] = idx

	return def
}

// IdentIndex looks up a function by its full FunctionIdent, ignoring the
// module field (mirroring the original's name_map keyed only on (name,
// arity) within one module).
func (m *Module) IdentIndex(ident ir.FunctionIdent) (FunctionIndex, bool) {
	return m.NameArityIndex(ident.Name, ident.Arity)
}

// NameArityIndex looks up a function by (name, arity).
func (m *Module) NameArityIndex(name string, arity int) (FunctionIndex, bool) {
	idx, ok := m.nameMap[nameArity{name, arity}]
	return idx, ok
}

// At returns the function definition at idx. Panics on an out-of-range
// index — indexing an unknown handle is a programmer error throughout
// this codebase.
func (m *Module) At(idx FunctionIndex) *FunctionDefinition {
	return m.functions[idx]
}

// ByIdent returns the function definition matching ident, panicking if
// none exists (mirroring the original's `Index<&FunctionIdent>`, which
// `.expect()`s).
func (m *Module) ByIdent(ident ir.FunctionIdent) *FunctionDefinition {
	idx, ok := m.IdentIndex(ident)
	if !ok {
		panic(fmt.Sprintf("module: function ident %s not in module", ident))
	}
	return m.functions[idx]
}

// FunctionIter returns every function definition, in insertion order.
func (m *Module) FunctionIter() []*FunctionDefinition {
	return append([]*FunctionDefinition(nil), m.functions...)
}

// IndexIter returns every function index, in insertion order.
func (m *Module) IndexIter() []FunctionIndex {
	out := make([]FunctionIndex, len(m.functions))
	for i := range m.functions {
		out[i] = FunctionIndex(i)
	}
	return out
}
