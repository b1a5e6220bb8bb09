// Package visit implements the AST-driven type-inference and scope
// engine (§4.3–4.4): ParseVisitor populates a CodeBase from declarations;
// the AnalysisVisitor family (UnionTypeVisitor, AssignmentVisitor,
// ConditionVisitor, ContextMergeVisitor, ScopeVisitor) walks the AST a
// second time, inferring expression types and reporting diagnostics.
package visit

import (
	"fmt"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/issue"
)

// missingSymbol mirrors §7's MissingSymbol: a requested FQSEN was absent.
// Callers recover by emitting the matching Undeclared* diagnostic rather
// than letting this escape past the visitor boundary.
type missingSymbol struct{ what string }

func (e *missingSymbol) Error() string { return "visit: missing symbol: " + e.what }

// nodeShapeError mirrors §7's NodeShapeError: an expected child node of a
// particular kind was absent (e.g. a dynamic method name). Always
// swallowed at the point it is produced; treated as unanalyzable.
type nodeShapeError struct {
	kind ast.Kind
	want string
}

func (e *nodeShapeError) Error() string {
	return fmt.Sprintf("visit: node shape: expected %s on kind %d", e.want, e.kind)
}

// issueRaise mirrors §7's IssueRaise: carries an IssueInstance that the
// top-level analysis boundary either emits or (when a specific visitor
// has opted in) suppresses.
type issueRaise struct{ instance issue.IssueInstance }

func (e *issueRaise) Error() string { return e.instance.Render() }

func raise(ii issue.IssueInstance) error { return &issueRaise{instance: ii} }

// asIssueRaise extracts the carried IssueInstance, if err is one.
func asIssueRaise(err error) (issue.IssueInstance, bool) {
	ir, ok := err.(*issueRaise)
	if !ok {
		return issue.IssueInstance{}, false
	}
	return ir.instance, true
}
