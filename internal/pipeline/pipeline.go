// Package pipeline implements the generic stage-sequencing scaffold the
// driver composes its two whole-program passes from: a small Processor
// interface threaded through a mutable PipelineContext, run in order by
// Pipeline.Run. Adapted from the teacher's own internal/pipeline package,
// generalized from "one file through lexer/parser/evaluator stages" to
// "one batch of files through parse-then-analyze stages".
package pipeline

// PipelineContext carries whatever state a Processor stage needs to read
// or extend. The driver package defines the concrete fields (file list,
// codebase, collector); this package only knows about the stage sequence.
type PipelineContext struct {
	// Err holds the first stage error, if any. Like the teacher's pipeline,
	// a failing stage does not stop the remaining stages from running —
	// later stages may still contribute diagnostics worth reporting
	// alongside whatever caused Err.
	Err error

	// Data is the stage-specific payload, type-asserted by each Processor.
	Data any
}

// Processor is one stage of a Pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx *PipelineContext) *PipelineContext

func (f ProcessorFunc) Process(ctx *PipelineContext) *PipelineContext { return f(ctx) }

// Pipeline runs a fixed sequence of Processor stages over one PipelineContext.
type Pipeline struct {
	stages []Processor
}

// New builds a Pipeline from stages, run in order.
func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, continuing even after a stage
// reports ctx.Err so that later stages can still contribute whatever
// diagnostics they're able to (the teacher's Pipeline.Run does the same,
// so an LSP client sees both parse and semantic errors from one pass).
func (p *Pipeline) Run(initial *PipelineContext) *PipelineContext {
	ctx := initial
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
