package ir

import "fmt"

// Block is a basic block / continuation: a 32-bit index into a Function's
// block arena. Translated from eir/src/fun/mod.rs's `Block(u32)`.
type Block uint32

func (b Block) String() string { return fmt.Sprintf("block%d", uint32(b)) }

// Value is a handle into a union of four kinds (Arg, Constant, BlockRef,
// Alias). Translated from eir/src/fun/mod.rs's `Value(u32)`.
type Value uint32

func (v Value) String() string { return fmt.Sprintf("%%%d", uint32(v)) }

// FunRef is a reference to another function, interned per-Function.
// Translated from eir/src/fun/mod.rs's `FunRef(u32)`.
type FunRef uint32

func (f FunRef) String() string { return fmt.Sprintf("funref%d", uint32(f)) }

// FunctionIdent identifies a function by (module, name, arity); equality
// is by component, matching spec.md's FunctionIdent.
type FunctionIdent struct {
	Module string
	Name   string
	Arity  int
}

func (id FunctionIdent) String() string {
	return fmt.Sprintf("%s:%s/%d", id.Module, id.Name, id.Arity)
}
