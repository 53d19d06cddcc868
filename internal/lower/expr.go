package lower

import (
	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/diag"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/span"
)

// lowerValueExpr lowers the small set of value-producing expressions
// pattern sub-expressions are allowed to contain (spec.md §4.4: "literal
// expressions, binary segment size computations") into *block, which is
// advanced in place whenever a call needs to be emitted. This is
// deliberately not a general expression compiler: anything beyond
// literals, variable references, and calls/operators over those is
// reported and replaced with a best-effort placeholder, matching
// spec.md §7's reportable-error contract.
func lowerValueExpr(ctx *Ctx, b *ir.FunctionBuilder, sink diag.Sink, block *ir.Block, expr ast.Expression) ir.Value {
	switch e := expr.(type) {
	case *ast.Literal:
		return b.Value(e.Value)

	case *ast.VarExpr:
		if val, ok := ctx.Scope.Lookup(e.Ident.Name); ok {
			return val
		}
		emitUnbound(sink, e.Ident.Name, e.Span())
		return b.Value(ir.NilTerm{})

	case *ast.UnaryExpr:
		operand := lowerValueExpr(ctx, b, sink, block, e.Operand)
		return emitErlangCall(b, block, unaryOpName(e.Op), []ir.Value{operand}, e.Span())

	case *ast.BinaryExpr:
		lhs := lowerValueExpr(ctx, b, sink, block, e.Left)
		rhs := lowerValueExpr(ctx, b, sink, block, e.Right)
		return emitErlangCall(b, block, binaryOpName(e.Op), []ir.Value{lhs, rhs}, e.Span())

	case *ast.CallExpr:
		callee, ok := e.Callee.(*ast.VarExpr)
		if !ok {
			if sink != nil {
				sink.Emit(diag.Diagnostic{
					Severity: diag.SeverityError,
					Code:     diag.CodeUnsupportedPattern,
					Message:  "only direct calls to a named function are supported here",
					Span:     e.Span(),
				})
			}
			return b.Value(ir.NilTerm{})
		}
		args := make([]ir.Value, len(e.Args))
		for i, a := range e.Args {
			args[i] = lowerValueExpr(ctx, b, sink, block, a)
		}
		return emitErlangCall(b, block, callee.Ident.Name, args, e.Span())

	default:
		if sink != nil {
			sink.Emit(diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeUnsupportedPattern,
				Message:  "unsupported expression in pattern sub-expression position",
				Span:     expr.Span(),
			})
		}
		return b.Value(ir.NilTerm{})
	}
}

func emitUnbound(sink diag.Sink, name string, sp span.Span) {
	if sink == nil {
		return
	}
	sink.Emit(diag.Diagnostic{
		Severity: diag.SeverityError,
		Code:     diag.CodeUnboundVariable,
		Message:  "variable " + name + " is not bound here",
		Span:     sp,
	})
}
