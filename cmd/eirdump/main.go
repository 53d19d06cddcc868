// Command eirdump is a reference driver exercising the mangler and
// pattern-clause lowering end to end on a couple of hand-built fixtures:
// parse flags, load config, run, report diagnostics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/funvibe/fxeir/internal/ast"
	"github.com/funvibe/fxeir/internal/config"
	"github.com/funvibe/fxeir/internal/diag"
	"github.com/funvibe/fxeir/internal/diag/term"
	"github.com/funvibe/fxeir/internal/ir"
	"github.com/funvibe/fxeir/internal/ir/module"
	"github.com/funvibe/fxeir/internal/lower"
	"github.com/funvibe/fxeir/internal/mangle"
	"github.com/funvibe/fxeir/internal/span"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	scenario := flag.String("scenario", "mangle", "scenario to run: mangle, pattern")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	dialect, err := config.ParseDialect(cfg.Dialect)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sink := term.New(os.Stdout)
	sessionID := uuid.New()
	fmt.Printf("eirdump session %s, dialect=%s\n", sessionID, dialect)

	switch *scenario {
	case "mangle":
		runMangleScenario(sink, cfg)
	case "pattern":
		runPatternScenario(sink, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenario)
		os.Exit(1)
	}

	fmt.Println(sink.Summary())
	if sink.ErrorCount() > 0 {
		os.Exit(1)
	}
}

// runMangleScenario mangles a two-block function `woo:woo/1` (entry
// takes one arg, calls it with a captured `erlang:woo/0`) into a fresh
// two-argument entry, renaming the original entry's argument to the
// mangler's second new argument.
func runMangleScenario(sink *term.Sink, cfg config.Config) {
	mod := module.New("woo")
	def := mod.AddFunctionWithCapacity(span.Unknown, "woo", 1,
		cfg.ArenaHints.Blocks, cfg.ArenaHints.Values, cfg.ArenaHints.FunRefs)
	fun := def.Function()
	b := ir.NewBuilder(fun)

	entry := b.BlockInsert()
	arg0 := b.BlockArgInsert(entry)
	b.BlockSetEntry(entry)

	modVal := b.Value("erlang")
	nameVal := b.Value("woo")
	arityVal := b.Value(0)
	cont := b.OpCaptureFunction(entry, modVal, nameVal, arityVal, span.Unknown)
	fnVal := b.BlockArgs(cont)[0]
	b.OpCall(cont, fnVal, []ir.Value{arg0}, span.Unknown)

	fmt.Printf("before mangle: %d blocks, %d values\n", fun.BlockCount(), fun.ValueCount())

	m := mangle.New()
	m.Start(entry)
	m.SetCallSite(span.New(40, 52, 0))
	newArg0 := m.AddArgument()
	newArg1 := m.AddArgument()
	_ = newArg0
	m.AddRename(arg0, newArg1)

	newEntry := m.Run(b)

	fmt.Printf("after mangle: new entry %s, %d blocks, %d values\n", newEntry, fun.BlockCount(), fun.ValueCount())

	if errs := ir.Validate(fun); len(errs) > 0 {
		for _, e := range errs {
			sink.Emit(diag.Diagnostic{Severity: diag.SeverityError, Code: diag.CodeInvalidIR, Message: e.Error()})
		}
	}
}

// runPatternScenario lowers the clause `pat(A, A) -> 1.` — two formal
// patterns binding the same surface name, which must produce a
// duplicate-bind EqBind guard rather than a compile error.
func runPatternScenario(sink *term.Sink, cfg config.Config) {
	mod := module.New("pat")
	def := mod.AddFunctionWithCapacity(span.Unknown, "pat", 2,
		cfg.ArenaHints.Blocks, cfg.ArenaHints.Values, cfg.ArenaHints.FunRefs)
	fun := def.Function()
	b := ir.NewBuilder(fun)
	fun.SetDialect(ir.DialectHigh)

	entry := b.BlockInsert()
	b.BlockSetEntry(entry)

	ctx := lower.NewCtx()
	preCase := entry

	patterns := []ast.Pattern{
		&ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "A"}},
		&ast.BindPattern{SourceSpan: span.Unknown, Ident: ast.Identifier{SourceSpan: span.Unknown, Name: "A"}},
	}

	clause, fail := lower.LowerClause(ctx, b, sink, &preCase, patterns, nil)

	if fail != nil {
		fmt.Println("clause is unmatchable")
		ctx.Scope.Pop(fail.ScopeToken)
		return
	}

	fmt.Printf("clause lowered: body=%s guard=%s, %d value slots\n",
		clause.Body, clause.Guard, len(clause.Values))
	ctx.Scope.Pop(clause.ScopeToken)

	// Body-block codegen and clause dispatch (evaluation/codegen) are out
	// of this module's scope; close the body and pre-case blocks off so the
	// demo function is structurally complete enough for Validate to check.
	b.OpUnreachable(clause.Body, span.Unknown)
	b.OpUnreachable(preCase, span.Unknown)

	if errs := ir.Validate(fun); len(errs) > 0 {
		for _, e := range errs {
			sink.Emit(diag.Diagnostic{Severity: diag.SeverityError, Code: diag.CodeInvalidIR, Message: e.Error()})
		}
	}
}
