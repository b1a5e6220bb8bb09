package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// AnalyzeFile runs the AnalysisVisitor family over one already-parsed
// file's Program node — the second pass of the two-phase whole-program
// pipeline (§4.3.2). CodeBase must already be fully populated by
// ParseVisitor across every file in the analysis set before this runs on
// any one of them (§4.3 whole-program ordering).
func (e *Env) AnalyzeFile(file string, program *ast.Node) {
	ctx := scope.NewGlobalContext(file)
	for _, n := range program.List {
		ctx = e.analyzeTop(n, ctx)
	}
}

func (e *Env) analyzeTop(n *ast.Node, ctx scope.Context) scope.Context {
	ctx = ctx.WithLine(n.Line)
	switch n.Kind {
	case ast.KindNamespace, ast.KindUse, ast.KindGroupUse, ast.KindDeclare:
		return applyScopeNode(n, ctx)
	case ast.KindClassDecl, ast.KindInterfaceDecl, ast.KindTraitDecl:
		e.analyzeClass(n, ctx)
		return ctx
	case ast.KindFunctionDecl:
		e.analyzeTopFunction(n, ctx)
		return ctx
	case ast.KindGlobalConstDecl:
		return ctx
	default:
		return e.Stmt(n, ctx)
	}
}

// withSuppressionsFrom seeds ctx's suppression set from elem's parsed
// `@suppress` doc-comment annotations (§4.5), one of the three
// independently-consulted suppression mechanisms. Called once per
// class/method/function scope entry so `emit`'s ctx.IsSuppressed check
// actually has something to consult.
func withSuppressionsFrom(ctx scope.Context, elem *codebase.Element) scope.Context {
	for t := range elem.SuppressIssues {
		ctx = ctx.WithSuppressed(t)
	}
	return ctx
}

func (e *Env) analyzeTopFunction(n *ast.Node, ctx scope.Context) {
	name := n.Child("name").StringValue()
	fn, ok := e.CB.GetFuncByName(ctx.Namespace(), name)
	if !ok {
		return
	}
	e.checkFuncDeclaredTypes(fn, ctx)
	fctx := ctx.WithFuncFQSEN(fn.FQSEN).WithScope(scope.NewFunctionLike(nil))
	fctx = withSuppressionsFrom(fctx, &fn.Element)
	fctx = e.bindParams(fn.Params, fctx)
	if fn.Body != nil {
		e.Stmt(fn.Body, fctx)
	}
}

func (e *Env) analyzeClass(n *ast.Node, ctx scope.Context) {
	raw := n.Child("name").StringValue()
	cls, ok := e.CB.GetClassByName(ctx.Namespace(), raw)
	if !ok {
		return
	}
	for _, ii := range e.CB.Hydrate(cls) {
		e.emit(ctx.WithLine(ii.Line), ii)
	}
	cctx := ctx.WithClassFQSEN(cls.FQSEN)
	cctx = withSuppressionsFrom(cctx, &cls.Element)
	e.CheckClass(cls, cctx)

	body := n.Child("body")
	if body == nil {
		return
	}
	for _, m := range body.List {
		if m.Kind != ast.KindMethodDecl {
			continue
		}
		e.analyzeMethod(m, cls, cctx)
	}
}

func (e *Env) analyzeMethod(n *ast.Node, cls *codebase.Clazz, ctx scope.Context) {
	name := n.Child("name").StringValue()
	meth, ok := cls.Methods[name]
	if !ok || meth.Body == nil {
		return
	}
	classScope := scope.NewClass(cls.FQSEN, templateIdentityMap(cls.TemplateParams))
	mctx := ctx.WithFuncFQSEN(meth.FQSEN).WithScope(scope.NewFunctionLike(classScope))
	mctx = withSuppressionsFrom(mctx, &meth.Element)
	mctx = e.bindParams(meth.Params, mctx)
	e.Stmt(meth.Body, mctx)
}

func (e *Env) bindParams(params []*codebase.Param, ctx scope.Context) scope.Context {
	s := ctx.Scope()
	for _, p := range params {
		t := p.Type
		if t.IsEmpty() {
			t = p.DefaultType
		}
		s = s.WithVariable(scope.Variable{Name: p.Name, Type: t, Flags: byRefFlag(p.ByRef)})
	}
	return ctx.WithScope(s)
}

func byRefFlag(byRef bool) scope.VariableFlags {
	if byRef {
		return scope.FlagByRefParam
	}
	return 0
}

func templateIdentityMap(params []string) map[string]typesystem.UnionType {
	if len(params) == 0 {
		return nil
	}
	m := make(map[string]typesystem.UnionType, len(params))
	for _, p := range params {
		m[p] = typesystem.FromTypes(typesystem.TemplateType{Identifier: p})
	}
	return m
}

// Stmt implements the statement-level half of the AnalysisVisitor: it
// threads Context through a function/method body, opening narrowed
// branches for conditionals and loops and merging them back via the
// ContextMergeVisitor (Merge).
func (e *Env) Stmt(n *ast.Node, ctx scope.Context) scope.Context {
	if n == nil {
		return ctx
	}
	ctx = ctx.WithLine(n.Line)
	switch n.Kind {
	case ast.KindBlock:
		for _, s := range n.List {
			ctx = e.Stmt(s, ctx)
		}
		return ctx
	case ast.KindExprStmt:
		return e.stmtExpr(n.Child("expr"), ctx)
	case ast.KindEcho:
		for _, a := range n.List {
			e.Eval(a, ctx)
		}
		return ctx
	case ast.KindReturn:
		if v := n.Child("value"); v != nil {
			e.Eval(v, ctx)
		}
		return ctx
	case ast.KindGlobalStmt:
		return e.stmtGlobal(n, ctx)
	case ast.KindIf:
		return e.stmtIf(n, ctx)
	case ast.KindWhile:
		return e.stmtWhile(n, ctx)
	case ast.KindFor:
		return e.stmtFor(n, ctx)
	case ast.KindForeach:
		return e.stmtForeach(n, ctx)
	case ast.KindTry:
		return e.stmtTry(n, ctx)
	default:
		e.Eval(n, ctx)
		return ctx
	}
}

func (e *Env) stmtExpr(expr *ast.Node, ctx scope.Context) scope.Context {
	if expr == nil {
		return ctx
	}
	switch expr.Kind {
	case ast.KindAssign:
		rhsType := e.Eval(expr.Child("value"), ctx)
		return e.Assign(expr.Child("target"), rhsType, ctx)
	case ast.KindAssignDim:
		rhsType := e.Eval(expr.Child("value"), ctx)
		return e.assignDim(expr, rhsType, ctx)
	case ast.KindListAssign:
		rhsType := e.Eval(expr.Child("value"), ctx)
		return e.assignList(expr, rhsType, ctx)
	case ast.KindAssignRef:
		// §9 open question: ref-assignment's bound type is always empty,
		// preserved rather than fixed (see Eval's KindAssignRef case).
		e.Eval(expr.Child("value"), ctx)
		return e.Assign(expr.Child("target"), typesystem.Empty(), ctx)
	default:
		e.Eval(expr, ctx)
		return ctx
	}
}

func (e *Env) stmtGlobal(n *ast.Node, ctx scope.Context) scope.Context {
	s := ctx.Scope()
	for _, v := range n.List {
		s = s.WithVariable(scope.Variable{Name: v.StringValue(), Type: typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})})
	}
	return ctx.WithScope(s)
}

func (e *Env) stmtIf(n *ast.Node, ctx scope.Context) scope.Context {
	cond := n.Child("cond")
	e.Eval(cond, ctx)

	thenCtx := e.Stmt(n.Child("then"), e.Narrow(cond, ctx, true))

	elseCtx := e.Narrow(cond, ctx, false)
	if elseNode := n.Child("else"); elseNode != nil {
		elseCtx = e.Stmt(elseNode, elseCtx)
	}
	return Merge(ctx, thenCtx, elseCtx)
}

func (e *Env) stmtWhile(n *ast.Node, ctx scope.Context) scope.Context {
	cond := n.Child("cond")
	e.Eval(cond, ctx)
	bodyCtx := e.Stmt(n.Child("block"), e.Narrow(cond, ctx, true))
	return Merge(ctx, bodyCtx, ctx)
}

func (e *Env) stmtFor(n *ast.Node, ctx scope.Context) scope.Context {
	if init := n.Child("init"); init != nil {
		for _, s := range init.List {
			e.Eval(s, ctx)
		}
	}
	if cond := n.Child("cond"); cond != nil {
		for _, c := range cond.List {
			e.Eval(c, ctx)
		}
	}
	bodyCtx := e.Stmt(n.Child("block"), ctx)
	if upd := n.Child("update"); upd != nil {
		for _, u := range upd.List {
			e.Eval(u, bodyCtx)
		}
	}
	return Merge(ctx, bodyCtx, ctx)
}

func (e *Env) stmtForeach(n *ast.Node, ctx scope.Context) scope.Context {
	exprType := e.Eval(n.Child("expr"), ctx)
	elemType := exprType.GenericArrayElementTypes()
	if elemType.IsEmpty() {
		elemType = typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})
	}
	bodyCtx := ctx
	if keyVar := n.Child("keyVar"); keyVar != nil {
		bodyCtx = e.Assign(keyVar, typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed}), bodyCtx)
	}
	if valueVar := n.Child("valueVar"); valueVar != nil {
		bodyCtx = e.Assign(valueVar, elemType, bodyCtx)
	}
	bodyCtx = e.Stmt(n.Child("block"), bodyCtx)
	return Merge(ctx, bodyCtx, ctx)
}

func (e *Env) stmtTry(n *ast.Node, ctx scope.Context) scope.Context {
	tryCtx := e.Stmt(n.Child("block"), ctx)
	branches := []scope.Context{tryCtx}

	for _, c := range n.List {
		catchCtx := ctx
		if varName := c.StringValue(); varName != "" {
			caught := typesystem.Empty()
			if types := c.Child("types"); types != nil {
				for _, tn := range types.List {
					ns, short := resolveClassPseudo(tn.StringValue(), ctx)
					caught = caught.AddType(typesystem.ClassType{Namespace: ns, Name: short})
				}
			}
			catchCtx = catchCtx.WithScope(catchCtx.Scope().WithVariable(scope.Variable{Name: varName, Type: caught}))
		}
		catchCtx = e.Stmt(c.Child("block"), catchCtx)
		branches = append(branches, catchCtx)
	}

	merged := Merge(ctx, branches...)
	if fin := n.Child("finally"); fin != nil {
		merged = e.Stmt(fin, merged)
	}
	return merged
}
