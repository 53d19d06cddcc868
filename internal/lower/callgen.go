package lower

import (
	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/config"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

// emitErlangCall lowers a call to erlang:name/arity at *block, following
// exactly the capture-then-call shape libeir_syntax_erl/src/lower/pattern
// /mod.rs uses for its EqGuard `erlang:=:=` checks: capture the target,
// allocate a success continuation (whose argument becomes the call's
// result) and a three-argument exception-triple block marked
// unreachable, then call the captured function with
// [success, exception, args...]. *block is advanced to the success
// continuation; the call's result value is returned.
func emitErlangCall(b *ir.FunctionBuilder, block *ir.Block, name string, args []ir.Value, sp span.Span) ir.Value {
	moduleVal := b.Value(config.ErlangModule)
	nameVal := b.Value(name)
	arityVal := b.Value(len(args))

	cont := b.OpCaptureFunction(*block, moduleVal, nameVal, arityVal, sp)
	fnVal := b.BlockArgs(cont)[0]

	nextBlock, nextBlockVal := b.BlockInsertGetVal()
	resVal := b.BlockArgInsert(nextBlock)

	errBlock, errBlockVal := b.BlockInsertGetVal()
	b.BlockArgInsert(errBlock)
	b.BlockArgInsert(errBlock)
	b.BlockArgInsert(errBlock)
	b.OpUnreachable(errBlock, sp)

	callArgs := append([]ir.Value{nextBlockVal, errBlockVal}, args...)
	b.OpCall(cont, fnVal, callArgs, sp)

	*block = nextBlock
	return resVal
}

func unaryOpName(op ast.UnaryOp) string {
	switch op {
	case ast.OpNeg:
		return "-"
	case ast.OpNot:
		return "not"
	case ast.OpBNot:
		return "bnot"
	default:
		return "?"
	}
}

func binaryOpName(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "div"
	case ast.OpEq:
		return "=="
	case ast.OpNeq:
		return "/="
	case ast.OpLt:
		return "<"
	case ast.OpLte:
		return "=<"
	case ast.OpGt:
		return ">"
	case ast.OpGte:
		return ">="
	case ast.OpAndAlso:
		return "andalso"
	case ast.OpOrElse:
		return "orelse"
	default:
		return "?"
	}
}
