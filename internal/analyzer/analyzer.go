// Package analyzer implements type checking and elaboration: bidirectional
// expression checking against an expected type, pattern checking,
// let-generalization, and implicit-argument resolution.
//
// The entry point is Analyze, which folds a program's statements through
// the environment and returns the elaborated program. Errors are fatal on
// first occurrence; there is no recovery.
package analyzer

import (
	"fmt"

	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/symbols"
	"github.com/lumelang/lume/internal/token"
	"github.com/lumelang/lume/internal/typesystem"
)

// Analyzer performs semantic analysis on parsed programs.
type Analyzer struct {
	symbolTable *symbols.SymbolTable
	state       *typesystem.State
	opts        config.Options

	// TypeMap records the inferred type of every elaborated node.
	TypeMap map[ast.Node]*typesystem.Expr
}

// New creates an analyzer over a fresh environment seeded with the
// built-in declarations.
func New() *Analyzer {
	return NewWithOptions(config.Default())
}

func NewWithOptions(opts config.Options) *Analyzer {
	state := typesystem.NewState()
	table := symbols.NewSymbolTable(state)
	a := &Analyzer{
		symbolTable: table,
		state:       state,
		opts:        opts,
		TypeMap:     make(map[ast.Node]*typesystem.Expr),
	}
	seedBuiltins(table)
	return a
}

// SymbolTable exposes the environment; after Analyze it holds the
// top-level bindings, type declarations and implicit instances.
func (a *Analyzer) SymbolTable() *symbols.SymbolTable { return a.symbolTable }

// State exposes the shared unification state.
func (a *Analyzer) State() *typesystem.State { return a.state }

// Analyze checks a program and returns its elaborated form. The first
// error aborts the run.
func (a *Analyzer) Analyze(program *ast.Program) (*ast.Program, *diagnostics.DiagnosticError) {
	w := &walker{
		symbolTable: a.symbolTable,
		state:       a.state,
		typeMap:     a.TypeMap,
		opts:        a.opts,
		currentFile: program.File,
	}
	out := &ast.Program{File: program.File}
	for _, stmt := range program.Statements {
		stmt.Accept(w)
		if w.err != nil {
			return nil, w.err
		}
	}
	out.Statements = w.elaborated
	// Final substitution pass: annotations must be fixed points of the
	// instance table.
	for node, t := range a.TypeMap {
		a.TypeMap[node] = a.state.Flatten(t)
	}
	return out, nil
}

// walker threads the environment through one program. It implements
// ast.StatementVisitor for the top-level fold.
type walker struct {
	symbolTable *symbols.SymbolTable
	state       *typesystem.State
	typeMap     map[ast.Node]*typesystem.Expr
	opts        config.Options
	currentFile string

	// pending collects implicit placeholders generated at variable
	// occurrences; checkBinding drains the ones belonging to its binding.
	pending []*ast.ImplicitArgument

	implicitSeq int
	elaborated  []ast.Statement
	err         *diagnostics.DiagnosticError
}

// setErr records the first fatal diagnostic.
func (w *walker) setErr(err *diagnostics.DiagnosticError) {
	if w.err == nil {
		if err.File == "" {
			err.File = w.currentFile
		}
		w.err = err
	}
}

func (w *walker) annotate(node ast.Node, t *typesystem.Expr) {
	w.typeMap[node] = t
}

func (w *walker) freshImplicitName() string {
	w.implicitSeq++
	return fmt.Sprintf("$imp%d", w.implicitSeq)
}

// unify checks expected against actual, converting a unification failure
// into a positioned diagnostic.
func (w *walker) unify(tok token.Token, expected, actual *typesystem.Expr) *diagnostics.DiagnosticError {
	if err := w.state.Unify(expected, actual); err != nil {
		return w.diagFromUnify(tok, err)
	}
	return nil
}

// diagFromUnify maps typesystem failures onto diagnostic codes. The outer
// wrapper becomes ErrT001 carrying the expected/actual pair; the innermost
// cause keeps its own code.
func (w *walker) diagFromUnify(tok token.Token, err error) *diagnostics.DiagnosticError {
	ue, ok := err.(*typesystem.UnifyError)
	if !ok {
		return diagnostics.NewError(diagnostics.ErrT002, tok, err.Error())
	}
	switch ue.Kind {
	case typesystem.CheckFailed:
		d := diagnostics.NewError(
			diagnostics.ErrT001,
			tok,
			fmt.Sprintf("this expression has type %s but was expected to have type %s",
				ue.Actual.StringIn(w.state), ue.Expected.StringIn(w.state)),
		)
		if ue.Inner != nil {
			d.Wrap(w.diagFromUnify(tok, ue.Inner))
		}
		return d
	case typesystem.RecursiveVariable:
		return diagnostics.NewError(
			diagnostics.ErrT003,
			tok,
			fmt.Sprintf("recursive type variable %s", ue.Expected.StringIn(w.state)),
		)
	default:
		return diagnostics.NewError(
			diagnostics.ErrT002,
			tok,
			fmt.Sprintf("cannot unify %s with %s",
				ue.Expected.StringIn(w.state), ue.Actual.StringIn(w.state)),
		)
	}
}

// unbound converts a path-resolution failure into a diagnostic.
func (w *walker) unbound(kind diagnostics.UnboundKind, tok token.Token, perr *symbols.PathError) *diagnostics.DiagnosticError {
	if perr.Applied {
		return diagnostics.NewError(
			diagnostics.ErrT004,
			tok,
			fmt.Sprintf("functor application %s is not supported in paths", perr.Name),
		)
	}
	return diagnostics.NewError(
		diagnostics.ErrT004,
		tok,
		fmt.Sprintf("unbound %s %s", kind, perr.Name),
	)
}
