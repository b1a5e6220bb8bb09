package visit

import (
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/signature"
)

// Env threads the globals the teacher's analyzer reaches for ambiently
// (CodeBase, configuration, the issue collector) as an explicit parameter
// through every visitor instead (§9 "Globals → explicit context
// parameter").
type Env struct {
	CB        *codebase.CodeBase
	Cfg       *config.Config
	Collector *issue.Collector
	Sigs      *signature.Bundle
}

// emit adds ii to the collector unless the enclosing scope suppresses its
// type via a `@suppress` doc-comment annotation (§4.5 "Suppression").
// Global suppress-list/whitelist filtering happens once at flush time, in
// the driver.
func (e *Env) emit(ctx scope.Context, ii issue.IssueInstance) {
	if ctx.IsSuppressed(ii.Issue.TypeName) {
		return
	}
	if e.Collector != nil {
		e.Collector.Add(ii, nil)
	}
}
