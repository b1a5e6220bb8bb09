// Package driver is the whole-program orchestrator named out of the core
// in spec.md §1 ("file discovery... is out of scope... the core consumes
// an AST and emits IssueInstance values into a Collector"): it owns the
// two-phase pipeline ordering (§4.3 — ParseVisitor over every file before
// AnalysisVisitor touches any one of them), the dead-code sweep, the
// multiprocess worker split (§5), and the single opaque state file
// (§1 Non-goals) that lets an unchanged file skip its parse pass on a
// later run of the same process.
package driver

import (
	"fmt"
	"sort"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/pipeline"
	"github.com/funvibe/funlint/internal/signature"
	"github.com/funvibe/funlint/internal/visit"
)

// File is one already-parsed translation unit. Producing Program from
// source text is the embedded parser's job (spec.md §1, out of scope);
// the driver only ever receives finished ASTs.
type File struct {
	Path    string
	Program *ast.Node
}

// Driver wires one analysis run's shared state together.
type Driver struct {
	Cfg       *config.Config
	CB        *codebase.CodeBase
	Collector *issue.Collector
	Sigs      *signature.Bundle
	Suppress  *issue.Suppressor

	// State is the single opaque state file spec.md §1's Non-goals
	// permits. When set, parseStage consults it to skip ParseVisitor on a
	// file whose Fingerprint is unchanged since the last run of this same
	// process, and records the new fingerprint for every file it does
	// parse. Left nil (the default), every run re-parses every file.
	State *StateFile
}

// New builds a Driver from cfg, loading the bundled built-in signature
// map and constructing the suppress/whitelist filter from cfg's issue
// type lists.
func New(cfg *config.Config) (*Driver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sigs, err := signature.Load()
	if err != nil {
		return nil, fmt.Errorf("driver: loading signature bundle: %w", err)
	}
	return &Driver{
		Cfg:       cfg,
		CB:        codebase.New(),
		Collector: issue.NewCollector(),
		Sigs:      sigs,
		Suppress:  issue.NewSuppressor(cfg.SuppressIssueTypes, cfg.WhitelistIssueTypes),
	}, nil
}

// parseStageData/analysisStageData are the two pipeline.PipelineContext
// payloads threaded through the two stages below.
type parseStageData struct {
	files []File
	env   *visit.Env
	state *StateFile
}

// Run executes the whole-program pipeline over files: phase one
// (ParseVisitor) populates the CodeBase from every file before phase two
// (AnalysisVisitor, via Env.AnalyzeFile) walks any one of them, matching
// §4.3's ordering requirement. When Cfg.Processes > 1, files are instead
// handed to RunDistributed, which enforces the same two-phase order
// inside each worker (see worker.go).
func (d *Driver) Run(files []File) ([]issue.IssueInstance, error) {
	if d.Cfg.Processes > 1 {
		return d.RunDistributed(files)
	}

	env := &visit.Env{CB: d.CB, Cfg: d.Cfg, Collector: d.Collector, Sigs: d.Sigs}
	p := pipeline.New(
		pipeline.ProcessorFunc(parseStage),
		pipeline.ProcessorFunc(analysisStage),
		pipeline.ProcessorFunc(deadCodeStage),
	)
	out := p.Run(&pipeline.PipelineContext{Data: &parseStageData{files: files, env: env, state: d.State}})
	if out.Err != nil {
		return nil, out.Err
	}
	return d.flush(), nil
}

func parseStage(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	data := ctx.Data.(*parseStageData)
	pv := visit.NewParseVisitor(data.env.CB)
	for _, f := range data.files {
		if data.state == nil {
			pv.ParseFile(f.Path, f.Program, data.env.Collector)
			continue
		}
		fp := Fingerprint(f.Program)
		unchanged, err := data.state.Unchanged(f.Path, fp)
		if err == nil && unchanged {
			continue
		}
		pv.ParseFile(f.Path, f.Program, data.env.Collector)
		_ = data.state.Record(f.Path, fp)
	}
	return ctx
}

func analysisStage(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	data := ctx.Data.(*parseStageData)
	for _, f := range data.files {
		data.env.AnalyzeFile(f.Path, f.Program)
	}
	return ctx
}

func deadCodeStage(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	data := ctx.Data.(*parseStageData)
	if data.env.Cfg != nil && data.env.Cfg.DeadCodeDetection {
		visit.SweepDeadCode(data.env.CB, data.env.Collector)
	}
	return ctx
}

// flush drains the collector through the suppressor and the configured
// minimum-severity filter, returning the final sorted diagnostic stream.
func (d *Driver) flush() []issue.IssueInstance {
	filter := issue.Chain(d.Suppress.AsFilter(), issue.MinSeverity(issue.Severity(d.Cfg.MinimumSeverity)))
	all := d.Collector.Flush()
	out := make([]issue.IssueInstance, 0, len(all))
	for _, ii := range all {
		if filter.Allow(ii) {
			out = append(out, ii)
		}
	}
	return out
}

// Sorted is a convenience for callers that merge IssueInstance streams
// from multiple sources (e.g. distributed workers) and need the §8
// "Issue ordering" property re-established afterward.
func Sorted(items []issue.IssueInstance) []issue.IssueInstance {
	out := make([]issue.IssueInstance, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Issue.TypeName != b.Issue.TypeName {
			return a.Issue.TypeName < b.Issue.TypeName
		}
		return a.Render() < b.Render()
	})
	return out
}
