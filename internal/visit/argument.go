package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// checkCallArgs implements the ArgumentType/ParameterTypesAnalyzer
// call-validation rules of §4.4 against one call site: arity (too
// few/too many), per-argument type compatibility, and the
// only-variables-by-reference rule. internalCallee selects the
// "Internal" issue variants used for calls into bundled signatures
// rather than user-declared functions/methods.
func (e *Env) checkCallArgs(call *ast.Node, args *ast.Node, params []*codebase.Param, requiredCount int, variadic bool, calleeName string, ctx scope.Context, internalCallee bool) {
	argc := len(args.List)

	if argc < requiredCount {
		e.emit(ctx, issue.New(tooFewIssue(internalCallee), ctx.File(), call.Line, argc, calleeName, requiredCount))
	}
	if !variadic && argc > len(params) {
		e.emit(ctx, issue.New(tooManyIssue(internalCallee), ctx.File(), call.Line, argc, calleeName, len(params)))
	}

	for i, argNode := range args.List {
		p := paramAt(params, i, variadic)
		if p == nil {
			continue
		}
		argType := e.Eval(argNode, ctx)

		if p.ByRef && argNode.Kind != ast.KindVar && argNode.Kind != ast.KindPropAccess && argNode.Kind != ast.KindStaticPropAccess {
			e.emit(ctx, issue.New(issue.TypeNonVarPassByRef, ctx.File(), call.Line, i+1, calleeName))
			continue
		}
		if argType.IsEmpty() || p.Type.IsEmpty() {
			continue
		}
		if !typesystem.UnionCanCastToUnion(argType, p.Type, e.CB) {
			e.emit(ctx, issue.New(mismatchIssue(internalCallee), ctx.File(), call.Line, i+1, p.Name, argType.String(), calleeName, p.Type.String()))
		}
	}
}

func tooFewIssue(internalCallee bool) *issue.Issue {
	if internalCallee {
		return issue.ParamTooFewInternal
	}
	return issue.ParamTooFew
}

func tooManyIssue(internalCallee bool) *issue.Issue {
	if internalCallee {
		return issue.ParamTooManyInternal
	}
	return issue.ParamTooMany
}

func mismatchIssue(internalCallee bool) *issue.Issue {
	if internalCallee {
		return issue.TypeMismatchArgumentInternal
	}
	return issue.TypeMismatchArgument
}

// paramAt returns the formal parameter matching positional argument index
// i, folding every trailing position onto the final variadic parameter.
func paramAt(params []*codebase.Param, i int, variadic bool) *codebase.Param {
	if i < len(params) {
		return params[i]
	}
	if variadic && len(params) > 0 {
		last := params[len(params)-1]
		if last.Variadic {
			return last
		}
	}
	return nil
}

// CheckOverride implements the override-signature compatibility check of
// §4.4: an overriding method's parameters must accept everything the
// overridden method's parameters accept (contravariant), and its return
// type must be acceptable wherever the overridden method's return type
// is expected (covariant) — the LSP-shaped rule the source language's
// own compatibility checker enforces loosely.
func (e *Env) CheckOverride(sub, base *codebase.Method, ctx scope.Context) {
	subName := sub.ClassFQSEN.String() + "::" + sub.Name
	baseName := base.ClassFQSEN.String() + "::" + base.Name

	if len(sub.Params) < len(base.Params)-boolToInt(base.IsVariadic) {
		e.emit(ctx, issue.New(issue.ParamSignatureMismatch, ctx.File(), sub.Context.Line(), subName, baseName))
		return
	}
	for i, bp := range base.Params {
		sp := paramAt(sub.Params, i, sub.IsVariadic)
		if sp == nil {
			e.emit(ctx, issue.New(issue.ParamSignatureMismatch, ctx.File(), sub.Context.Line(), subName, baseName))
			return
		}
		if !bp.Type.IsEmpty() && !sp.Type.IsEmpty() && !typesystem.UnionCanCastToUnion(bp.Type, sp.Type, e.CB) {
			e.emit(ctx, issue.New(issue.ParamSignatureMismatch, ctx.File(), sub.Context.Line(), subName, baseName))
			return
		}
	}
	if !sub.Type.IsEmpty() && !base.Type.IsEmpty() && !typesystem.UnionCanCastToUnion(sub.Type, base.Type, e.CB) {
		e.emit(ctx, issue.New(issue.ParamSignatureMismatch, ctx.File(), sub.Context.Line(), subName, baseName))
		return
	}
	if sub.Visibility > base.Visibility {
		e.emit(ctx, issue.New(issue.AccessSignatureMismatch, ctx.File(), sub.Context.Line(), subName, baseName))
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
