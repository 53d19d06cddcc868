package lower

import "github.com/funvibe/fxeir/internal/ir"

// ScopeToken is a stable handle returned by Scope.Push, redeemed by
// Scope.Pop to discard every binding introduced since the matching push.
// Resource acquisition here (spec.md §4.4's "Resource acquisition")
// means every lower_clause exit path, success or failure, must pop
// whatever it pushed.
type ScopeToken int

type binding struct {
	name string
	val  ir.Value
}

// Scope is a stack of lexical frames mapping surface variable names to
// the IR values that currently satisfy them. Grounded on the
// ctx.scope.push()/pop(tok)/ctx.bind(name, val) calls in
// libeir_syntax_erl/src/lower/pattern/mod.rs.
type Scope struct {
	frames [][]binding
}

// NewScope returns an empty scope stack.
func NewScope() *Scope {
	return &Scope{}
}

// Push opens a new frame and returns a token that reverts to exactly this
// point.
func (s *Scope) Push() ScopeToken {
	s.frames = append(s.frames, nil)
	return ScopeToken(len(s.frames) - 1)
}

// Pop discards every frame opened since tok, inclusive. Panics if tok
// does not correspond to a currently open frame — popping out of order
// is a programmer error.
func (s *Scope) Pop(tok ScopeToken) {
	if int(tok) >= len(s.frames) {
		panic("lower: Scope.Pop with an unknown token")
	}
	s.frames = s.frames[:tok]
}

// Bind records name -> val in the innermost open frame.
func (s *Scope) Bind(name string, val ir.Value) {
	if len(s.frames) == 0 {
		panic("lower: Scope.Bind with no open frame")
	}
	top := len(s.frames) - 1
	s.frames[top] = append(s.frames[top], binding{name: name, val: val})
}

// Lookup searches frames innermost-first for name.
func (s *Scope) Lookup(name string) (ir.Value, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		frame := s.frames[i]
		for j := len(frame) - 1; j >= 0; j-- {
			if frame[j].name == name {
				return frame[j].val, true
			}
		}
	}
	return ir.Value(0), false
}

// ExceptionStack tracks the currently active exception-handler value, one
// per enclosing scope that installed a handler. Grounded on
// ctx.exc_stack.push_handler/pop_handler in the same source file.
type ExceptionStack struct {
	handlers []ir.Value
}

// NewExceptionStack returns an empty handler stack.
func NewExceptionStack() *ExceptionStack {
	return &ExceptionStack{}
}

// PushHandler installs handler as the current exception handler.
func (e *ExceptionStack) PushHandler(handler ir.Value) {
	e.handlers = append(e.handlers, handler)
}

// PopHandler removes the most recently installed handler. Panics if the
// stack is empty — every push must be matched by a pop on all exit paths.
func (e *ExceptionStack) PopHandler() {
	if len(e.handlers) == 0 {
		panic("lower: ExceptionStack.PopHandler with no active handler")
	}
	e.handlers = e.handlers[:len(e.handlers)-1]
}

// Current returns the innermost active handler, if any.
func (e *ExceptionStack) Current() (ir.Value, bool) {
	if len(e.handlers) == 0 {
		return ir.Value(0), false
	}
	return e.handlers[len(e.handlers)-1], true
}

// Ctx bundles the scope and exception-handler stacks a clause lowering
// needs from its surrounding lowering context. Corresponds to the
// relevant slice of libeir_syntax_erl's LowerCtx (the rest of that
// struct — diagnostics collection, module-level state — is out of this
// library's narrow IR-core scope).
type Ctx struct {
	Scope    *Scope
	ExcStack *ExceptionStack
}

// NewCtx returns a fresh lowering context with empty scope and handler
// stacks.
func NewCtx() *Ctx {
	return &Ctx{Scope: NewScope(), ExcStack: NewExceptionStack()}
}
