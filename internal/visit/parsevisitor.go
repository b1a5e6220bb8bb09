package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/doccomment"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// ParseVisitor populates a CodeBase from declarations (§4.3.1). It never
// resolves expression types; default-value types come from literalType,
// not the full UnionTypeVisitor.
type ParseVisitor struct {
	CB *codebase.CodeBase
}

// NewParseVisitor returns a ParseVisitor writing into cb.
func NewParseVisitor(cb *codebase.CodeBase) *ParseVisitor {
	return &ParseVisitor{CB: cb}
}

// ParseFile walks one file's Program node, threading namespace/use state
// through ctx as it goes, and registers every declaration it finds.
// Diagnostics raised during registration (PhanRedefineClass/Function) are
// added to collector directly, unfiltered — filtering happens once, at
// flush time, in the driver.
//
// A second `namespace` declaration in the same file is the one
// unrecoverable parse-pass error this phase detects: it aborts the rest
// of the file's declaration walk rather than letting a confused
// namespace context cascade into bogus downstream diagnostics for every
// later declaration, mirroring the teacher walker's own abort-on-fatal-
// import flag.
func (pv *ParseVisitor) ParseFile(file string, program *ast.Node, collector *issue.Collector) {
	ctx := scope.NewGlobalContext(file)
	seenNamespace := false
	for _, n := range program.List {
		if n.Kind == ast.KindNamespace {
			if seenNamespace {
				if collector != nil {
					collector.Add(issue.New(issue.Unanalyzable, file, n.Line, "duplicate namespace declaration aborts analysis of this file"), nil)
				}
				return
			}
			seenNamespace = true
		}
		ctx = pv.visitTop(n, ctx, collector)
	}
}

func (pv *ParseVisitor) visitTop(n *ast.Node, ctx scope.Context, collector *issue.Collector) scope.Context {
	ctx = ctx.WithLine(n.Line)
	switch n.Kind {
	case ast.KindNamespace, ast.KindUse, ast.KindGroupUse, ast.KindDeclare:
		return applyScopeNode(n, ctx)
	case ast.KindClassDecl, ast.KindInterfaceDecl, ast.KindTraitDecl:
		pv.declareClass(n, ctx, collector)
	case ast.KindFunctionDecl:
		pv.declareFunc(n, ctx, collector)
	case ast.KindGlobalConstDecl:
		pv.declareGlobalConst(n, ctx)
	}
	return ctx
}

func classFQSENFor(kind ast.Kind, namespace, name string) *fqsen.FQSEN {
	switch kind {
	case ast.KindInterfaceDecl:
		return fqsen.NewInterface(namespace, name)
	case ast.KindTraitDecl:
		return fqsen.NewTrait(namespace, name)
	default:
		return fqsen.NewClass(namespace, name)
	}
}

func (pv *ParseVisitor) declareClass(n *ast.Node, ctx scope.Context, collector *issue.Collector) {
	raw := n.Child("name").StringValue()
	f := classFQSENFor(n.Kind, ctx.Namespace(), raw)

	clazz := codebase.NewClazz(f, raw)
	clazz.Context = ctx.WithClassFQSEN(f)
	clazz.IsInterface = n.Kind == ast.KindInterfaceDecl
	clazz.IsTrait = n.Kind == ast.KindTraitDecl
	clazz.IsAbstract = n.Flags.Has(ast.FlagAbstract)
	clazz.IsFinal = n.Flags.Has(ast.FlagFinal)

	doc := doccomment.Parse(n.Doc, ctx)
	clazz.TemplateParams = doc.Templates
	applySuppressions(&clazz.Element, doc)

	if ext := n.Child("extends"); ext != nil {
		ns, short := ctx.ResolveClassName(ext.StringValue())
		clazz.ParentFQSEN = fqsen.NewClass(ns, short)
		for _, argN := range ext.List {
			if ut, err := typesystem.FromStringInContext(argN.StringValue(), ctx); err == nil {
				clazz.ParentTemplateArgs = append(clazz.ParentTemplateArgs, ut)
			}
		}
	}
	if impl := n.Child("implements"); impl != nil {
		for _, nameNode := range impl.List {
			ns, short := ctx.ResolveClassName(nameNode.StringValue())
			clazz.InterfaceFQSENs = append(clazz.InterfaceFQSENs, fqsen.NewInterface(ns, short))
		}
	}
	if uses := n.Child("uses"); uses != nil {
		for _, nameNode := range uses.List {
			ns, short := ctx.ResolveClassName(nameNode.StringValue())
			clazz.TraitFQSENs = append(clazz.TraitFQSENs, fqsen.NewTrait(ns, short))
		}
	}

	registered, conflict := pv.CB.AddClass(clazz)
	if conflict != nil && collector != nil {
		collector.Add(*conflict, nil)
	}

	if body := n.Child("body"); body != nil {
		for _, m := range body.List {
			switch m.Kind {
			case ast.KindMethodDecl:
				pv.declareMethod(m, registered, ctx)
			case ast.KindPropertyDecl:
				pv.declareProperty(m, registered, ctx)
			case ast.KindClassConstDecl:
				pv.declareClassConst(m, registered, ctx)
			}
		}
	}
}

func (pv *ParseVisitor) declareMethod(n *ast.Node, clazz *codebase.Clazz, ctx scope.Context) {
	name := n.Child("name").StringValue()
	f := fqsen.NewMethod(clazz.FQSEN, name)
	ctx = ctx.WithLine(n.Line).WithClassFQSEN(clazz.FQSEN).WithFuncFQSEN(f)

	meth := codebase.NewMethod(f, clazz.FQSEN, name)
	meth.Context = ctx
	meth.Visibility = visibilityOf(n.Flags)
	meth.IsStatic = n.Flags.Has(ast.FlagStatic)
	meth.IsAbstract = n.Flags.Has(ast.FlagAbstract)
	meth.ReturnsRef = n.Flags.Has(ast.FlagReturnsRef)
	meth.IsConstructor = name == "__construct"

	doc := doccomment.Parse(n.Doc, ctx)
	meth.IsDeprecated = doc.Deprecated
	applySuppressions(&meth.Element, doc)

	params, required, optional, variadic := pv.parseParams(n.Child("params"), ctx, doc)
	meth.Params = params
	meth.RequiredCount = required
	meth.OptionalCount = optional
	meth.IsVariadic = variadic
	meth.Yields = scanYields(n.Child("body"))
	meth.Body = n.Child("body")

	meth.Type = declaredReturnType(n, ctx, doc)
	if meth.Yields && !meth.Type.HasType(codebase.GeneratorType) {
		meth.Type = meth.Type.AddType(codebase.GeneratorType)
	}

	clazz.Methods[name] = meth
}

func (pv *ParseVisitor) declareProperty(n *ast.Node, clazz *codebase.Clazz, ctx scope.Context) {
	name := n.Child("name").StringValue()
	f := fqsen.NewProperty(clazz.FQSEN, name)
	prop := codebase.NewProperty(f, clazz.FQSEN, name)
	prop.Context = ctx.WithLine(n.Line)
	prop.Visibility = visibilityOf(n.Flags)
	prop.IsStatic = n.Flags.Has(ast.FlagStatic)

	doc := doccomment.Parse(n.Doc, ctx)
	prop.IsDeprecated = doc.Deprecated
	applySuppressions(&prop.Element, doc)

	var declared typesystem.UnionType
	if tn := n.Child("type"); tn != nil {
		if ut, err := typesystem.FromStringInContext(tn.StringValue(), ctx); err == nil {
			declared = ut
		}
	}
	combined := declared.AddUnion(pickVarType(doc))
	if combined.IsEmpty() {
		combined = literalType(n.Child("default"))
	}
	prop.Type = combined

	clazz.Properties[name] = prop
}

func pickVarType(doc doccomment.Comment) typesystem.UnionType {
	if doc.HasVar {
		return doc.Var
	}
	return typesystem.Empty()
}

func (pv *ParseVisitor) declareClassConst(n *ast.Node, clazz *codebase.Clazz, ctx scope.Context) {
	name := n.Child("name").StringValue()
	f := fqsen.NewClassConstant(clazz.FQSEN, name)
	cc := codebase.NewClassConstant(f, clazz.FQSEN, name)
	cc.Context = ctx.WithLine(n.Line)
	cc.Type = literalType(n.Child("value"))
	clazz.Constants[name] = cc
}

func (pv *ParseVisitor) declareFunc(n *ast.Node, ctx scope.Context, collector *issue.Collector) {
	name := n.Child("name").StringValue()
	f := fqsen.NewFunction(ctx.Namespace(), name)
	ctx = ctx.WithLine(n.Line).WithFuncFQSEN(f)

	fn := codebase.NewFunc(f, name)
	fn.Context = ctx

	doc := doccomment.Parse(n.Doc, ctx)
	fn.IsDeprecated = doc.Deprecated
	applySuppressions(&fn.Element, doc)

	params, required, optional, variadic := pv.parseParams(n.Child("params"), ctx, doc)
	fn.Params = params
	fn.RequiredCount = required
	fn.OptionalCount = optional
	fn.IsVariadic = variadic
	fn.Yields = scanYields(n.Child("body"))
	fn.Body = n.Child("body")
	fn.Type = declaredReturnType(n, ctx, doc)
	if fn.Yields && !fn.Type.HasType(codebase.GeneratorType) {
		fn.Type = fn.Type.AddType(codebase.GeneratorType)
	}

	_, conflict := pv.CB.AddFunc(fn)
	if conflict != nil && collector != nil {
		collector.Add(*conflict, nil)
	}
}

func (pv *ParseVisitor) declareGlobalConst(n *ast.Node, ctx scope.Context) {
	name := n.Child("name").StringValue()
	f := fqsen.NewGlobalConstant(ctx.Namespace(), name)
	gc := codebase.NewGlobalConstant(f, name)
	gc.Context = ctx.WithLine(n.Line)
	gc.Type = literalType(n.Child("value"))
	pv.CB.AddGlobalConstant(gc)
}

func declaredReturnType(n *ast.Node, ctx scope.Context, doc doccomment.Comment) typesystem.UnionType {
	var declared typesystem.UnionType
	if rn := n.Child("returnType"); rn != nil {
		if ut, err := typesystem.FromStringInContext(rn.StringValue(), ctx); err == nil {
			declared = ut
		}
	}
	if doc.HasReturn {
		declared = declared.AddUnion(doc.Return)
	}
	return declared
}

func (pv *ParseVisitor) parseParams(params *ast.Node, ctx scope.Context, doc doccomment.Comment) (out []*codebase.Param, required, optional int, variadic bool) {
	if params == nil {
		return nil, 0, 0, false
	}
	docByName := make(map[string]typesystem.UnionType, len(doc.Params))
	for _, p := range doc.Params {
		docByName[p.Name] = p.Type
	}

	seenOptional := false
	for _, pn := range params.List {
		name := pn.StringValue()
		var declared typesystem.UnionType
		if tn := pn.Child("type"); tn != nil {
			if ut, err := typesystem.FromStringInContext(tn.StringValue(), ctx); err == nil {
				declared = ut
			}
		}
		combined := declared.AddUnion(docByName[name])
		hasDefault := pn.Flags.Has(ast.FlagHasDefault) || pn.Child("default") != nil
		var defaultType typesystem.UnionType
		if hasDefault {
			defaultType = literalType(pn.Child("default"))
			if combined.IsEmpty() {
				combined = defaultType
			}
		}
		isVariadic := pn.Flags.Has(ast.FlagVariadic)

		param := &codebase.Param{
			Name:        name,
			Type:        combined,
			ByRef:       pn.Flags.Has(ast.FlagByRef),
			Variadic:    isVariadic,
			HasDefault:  hasDefault,
			DefaultType: defaultType,
		}
		out = append(out, param)

		if isVariadic {
			variadic = true
			continue
		}
		if hasDefault {
			seenOptional = true
		}
		if !seenOptional && !hasDefault {
			required++
		} else {
			optional++
		}
	}
	return out, required, optional, variadic
}

func visibilityOf(flags ast.Flags) codebase.Visibility {
	switch {
	case flags.Has(ast.FlagPrivate):
		return codebase.Private
	case flags.Has(ast.FlagProtected):
		return codebase.Protected
	default:
		return codebase.Public
	}
}

func applySuppressions(e *codebase.Element, doc doccomment.Comment) {
	if len(doc.Suppress) == 0 {
		return
	}
	if e.SuppressIssues == nil {
		e.SuppressIssues = map[string]bool{}
	}
	for _, t := range doc.Suppress {
		e.SuppressIssues[t] = true
	}
}

// scanYields reports whether n or any descendant (not crossing into a
// nested function/method/closure boundary) is a `yield` expression.
func scanYields(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindYield {
		return true
	}
	if isFunctionBoundary(n.Kind) {
		return false
	}
	for _, c := range n.Children {
		if scanYields(c) {
			return true
		}
	}
	for _, c := range n.List {
		if scanYields(c) {
			return true
		}
	}
	return false
}

func isFunctionBoundary(k ast.Kind) bool {
	switch k {
	case ast.KindFunctionDecl, ast.KindMethodDecl, ast.KindClosureDecl:
		return true
	default:
		return false
	}
}
