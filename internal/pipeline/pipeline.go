// Package pipeline sequences processing stages over a parsed program.
// Today the only stage is the analyzer; the staged shape keeps room for
// later passes (normalization, backend lowering) without changing
// embedders.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/lumelang/lume/internal/analyzer"
	"github.com/lumelang/lume/internal/ast"
	"github.com/lumelang/lume/internal/config"
	"github.com/lumelang/lume/internal/diagnostics"
	"github.com/lumelang/lume/internal/prettyprinter"
	"github.com/lumelang/lume/internal/typesystem"
)

// PipelineContext carries one program through the stages. RunID
// correlates diagnostics and dumps produced by the same run.
type PipelineContext struct {
	RunID      string
	Options    config.Options
	Program    *ast.Program
	Elaborated *ast.Program
	Analyzer   *analyzer.Analyzer
	TypeMap    map[ast.Node]*typesystem.Expr
	Dump       string
	Err        *diagnostics.DiagnosticError
}

// NewContext seeds a context for a program.
func NewContext(program *ast.Program, opts config.Options) *PipelineContext {
	return &PipelineContext{
		RunID:   uuid.NewString(),
		Options: opts,
		Program: program,
	}
}

// Processor is a single stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline, stopping at the first failing stage.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if ctx.Err != nil {
			return ctx
		}
	}
	return ctx
}

// AnalyzeProcessor runs the type checker.
type AnalyzeProcessor struct{}

func (AnalyzeProcessor) Process(ctx *PipelineContext) *PipelineContext {
	a := analyzer.NewWithOptions(ctx.Options)
	elaborated, err := a.Analyze(ctx.Program)
	ctx.Analyzer = a
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Elaborated = elaborated
	ctx.TypeMap = a.TypeMap
	if ctx.Options.DumpElaborated {
		ctx.Dump = prettyprinter.NewCodePrinter().PrintProgram(elaborated)
	}
	return ctx
}

// Check is the convenience entry point: analyze a program with the given
// options and return the finished context.
func Check(program *ast.Program, opts config.Options) *PipelineContext {
	return New(AnalyzeProcessor{}).Run(NewContext(program, opts))
}
