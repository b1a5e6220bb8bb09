package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Eval is the pure UnionTypeVisitor (§4.3.2): one case per expression
// node kind, returning the union type the node evaluates to. Diagnostics
// discovered along the way are emitted directly to env's collector; Eval
// itself never fails, mirroring the "IssueRaise caught, empty union
// returned" propagation policy of §7.
func (e *Env) Eval(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	if n == nil {
		return typesystem.Empty()
	}
	switch n.Kind {
	case ast.KindLiteralInt, ast.KindLiteralFloat, ast.KindLiteralString, ast.KindLiteralBool, ast.KindLiteralNull:
		return literalType(n)
	case ast.KindArrayLit:
		return e.evalArrayLit(n, ctx)
	case ast.KindVar:
		return e.evalVar(n, ctx)
	case ast.KindBinaryOp:
		return e.evalBinaryOp(n, ctx)
	case ast.KindUnaryOp:
		return e.evalUnaryOp(n, ctx)
	case ast.KindConditional:
		return e.evalConditional(n, ctx)
	case ast.KindCoalesce:
		l := e.Eval(n.Child("left"), ctx)
		r := e.Eval(n.Child("right"), ctx)
		return l.AddUnion(r)
	case ast.KindCast:
		return e.evalCast(n, ctx)
	case ast.KindNew:
		return e.evalNew(n, ctx)
	case ast.KindInstanceof:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool})
	case ast.KindClone:
		return e.Eval(n.Child("expr"), ctx)
	case ast.KindIncDec:
		return e.evalIncDec(n, ctx)
	case ast.KindPropAccess:
		return e.evalPropAccess(n, ctx)
	case ast.KindStaticPropAccess:
		return e.evalStaticPropAccess(n, ctx)
	case ast.KindMethodCall:
		return e.evalMethodCall(n, ctx)
	case ast.KindStaticCall:
		return e.evalStaticCall(n, ctx)
	case ast.KindFuncCall:
		return e.evalFuncCall(n, ctx)
	case ast.KindClassConstFetch:
		return e.evalClassConstFetch(n, ctx)
	case ast.KindAssign, ast.KindAssignDim, ast.KindListAssign:
		return e.Eval(n.Child("value"), ctx)
	case ast.KindAssignRef:
		// §9 open question: visitAssignRef returns an empty union,
		// preserved as-is rather than "fixed".
		return typesystem.Empty()
	case ast.KindNameIdentifier, ast.KindYield:
		return typesystem.Empty()
	case ast.KindClosureDecl:
		return e.evalClosure(n, ctx)
	default:
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "unrecognized expression"))
		return typesystem.Empty()
	}
}

func (e *Env) evalArrayLit(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	const sample = 5
	arr := typesystem.NativeType{Kind: typesystem.Array}
	if len(n.List) == 0 {
		return typesystem.FromTypes(arr)
	}
	limit := len(n.List)
	if limit > sample {
		limit = sample
	}
	var elem typesystem.UnionType
	for i := 0; i < limit; i++ {
		t := e.Eval(n.List[i], ctx)
		if t.IsEmpty() {
			return typesystem.FromTypes(arr)
		}
		if i == 0 {
			elem = t
		} else if !elem.Equal(t) {
			return typesystem.FromTypes(arr)
		}
	}
	return elem.AsGenericArrayTypes()
}

func (e *Env) evalVar(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	name := n.StringValue()
	if v, ok := ctx.Scope().GetVariable(name); ok {
		return v.Type
	}
	if ut, ok := scope.Superglobals()[name]; ok {
		return ut
	}
	for _, rk := range e.Cfg.RunkitSuperglobals {
		if rk == name {
			return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})
		}
	}
	if ctx.Scope().Kind() == scope.Global && e.Cfg.IgnoreUndeclaredVarsInGlobal {
		return typesystem.Empty()
	}
	e.emit(ctx, issue.New(issue.UndeclaredVariable, ctx.File(), n.Line, name))
	return typesystem.Empty()
}

func (e *Env) evalUnaryOp(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	operand := e.Eval(n.Child("operand"), ctx)
	switch n.StringValue() {
	case "!":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool})
	case "-", "+":
		return numericResult(operand)
	default:
		return typesystem.Empty()
	}
}

func (e *Env) evalIncDec(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	return numericResult(e.Eval(n.Child("operand"), ctx))
}

// numericResult narrows a union to its arithmetic result type: int if the
// only numeric member present is int, float if a float is present,
// otherwise the int|float pair (matching loose numeric coercion).
func numericResult(u typesystem.UnionType) typesystem.UnionType {
	hasFloat := u.HasType(typesystem.NativeType{Kind: typesystem.Float})
	hasInt := u.HasType(typesystem.NativeType{Kind: typesystem.Int})
	switch {
	case hasFloat:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Float})
	case hasInt:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	default:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int}, typesystem.NativeType{Kind: typesystem.Float})
	}
}

func isArrayish(u typesystem.UnionType) bool {
	for _, t := range u.Types() {
		if t.Equal(typesystem.NativeType{Kind: typesystem.Array}) {
			return true
		}
		if _, ok := t.(typesystem.GenericArrayType); ok {
			return true
		}
	}
	return false
}

func isStringish(u typesystem.UnionType) bool {
	if u.IsEmpty() {
		return true // unknown types are not flagged
	}
	for _, t := range u.Types() {
		nt, ok := t.(typesystem.NativeType)
		if !ok {
			return false
		}
		switch nt.Kind {
		case typesystem.String, typesystem.Int, typesystem.Float, typesystem.Bool, typesystem.Null, typesystem.Mixed:
		default:
			return false
		}
	}
	return true
}

// evalBinaryOp implements the BinaryOperatorFlagVisitor of §4.3.2: a
// flag-keyed (here, operator-string-keyed) sub-dispatch returning int,
// float, string, bool, or array per operator and operand types.
func (e *Env) evalBinaryOp(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	left := e.Eval(n.Child("left"), ctx)
	right := e.Eval(n.Child("right"), ctx)
	op := n.StringValue()

	switch op {
	case ".":
		if isArrayish(left) || isArrayish(right) {
			e.emit(ctx, issue.New(issue.TypeArrayOperator, ctx.File(), n.Line, left.String(), right.String()))
		} else if !isStringish(left) || !isStringish(right) {
			e.emit(ctx, issue.New(issue.TypeComparisonFromArray, ctx.File(), n.Line, left.String()))
		}
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
	case "+":
		if isArrayish(left) && isArrayish(right) {
			return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Array})
		}
		if isArrayish(left) || isArrayish(right) {
			e.emit(ctx, issue.New(issue.TypeArrayOperator, ctx.File(), n.Line, left.String(), right.String()))
			return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Array})
		}
		return numericResult(left).AddUnion(numericResult(right))
	case "-", "*", "/", "%", "**":
		return numericResult(left).AddUnion(numericResult(right))
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "<=>", "&&", "||", "and", "or", "xor":
		if isArrayish(left) != isArrayish(right) && (!left.IsEmpty() && !right.IsEmpty()) {
			e.emit(ctx, issue.New(issue.TypeComparisonFromArray, ctx.File(), n.Line, left.String()))
		}
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool})
	default:
		return typesystem.Empty()
	}
}

func (e *Env) evalConditional(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	var then typesystem.UnionType
	if t := n.Child("then"); t != nil {
		then = e.Eval(t, ctx)
	} else {
		then = e.Eval(n.Child("cond"), ctx)
	}
	els := e.Eval(n.Child("else"), ctx)
	// §9 open question: only one side empty adds mixed; both empty stays empty.
	if then.IsEmpty() && els.IsEmpty() {
		return typesystem.Empty()
	}
	u := then.AddUnion(els)
	if then.IsEmpty() != els.IsEmpty() {
		u = u.AddType(typesystem.NativeType{Kind: typesystem.Mixed})
	}
	return u
}

func (e *Env) evalCast(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	e.Eval(n.Child("operand"), ctx)
	switch n.StringValue() {
	case "int", "integer":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	case "float", "double":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Float})
	case "string":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
	case "bool", "boolean":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool})
	case "array":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Array})
	case "object":
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Object})
	default:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})
	}
}

// evalNew implements "new X(...) yields X; if X is generic, pair
// constructor-argument types positionally with the @template list to
// produce a concretely parameterized class type" (§4.3.2).
func (e *Env) evalNew(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	classNode := n.Child("class")
	raw := classNode.StringValue()
	if raw == "" {
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "dynamic new target"))
		return typesystem.Empty()
	}
	ns, short := resolveClassPseudo(raw, ctx)
	var args *ast.Node
	if a := n.Child("args"); a != nil {
		args = a
	}
	ct := typesystem.ClassType{Namespace: ns, Name: short}

	cls, ok := e.CB.GetClassByName(ns, short)
	if ok && len(cls.TemplateParams) > 0 && args != nil {
		params := make([]typesystem.UnionType, 0, len(cls.TemplateParams))
		for i := range cls.TemplateParams {
			if i < len(args.List) {
				params = append(params, e.Eval(args.List[i], ctx))
			} else {
				params = append(params, typesystem.Empty())
			}
		}
		ct.TemplateParams = params
	}
	if args != nil {
		for _, a := range args.List {
			e.Eval(a, ctx)
		}
	}
	if ok {
		cls.AddReference(ctx.File(), n.Line)
	}
	return typesystem.FromTypes(ct)
}

// resolveClassPseudo resolves `self`/`static`/`parent` against ctx's
// enclosing class before falling back to ordinary name resolution.
func resolveClassPseudo(raw string, ctx scope.Context) (string, string) {
	switch raw {
	case "self", "static":
		if cf := ctx.ClassFQSEN(); cf != nil {
			return cf.Namespace(), cf.Name()
		}
	}
	return ctx.ResolveClassName(raw)
}

func (e *Env) classListOf(u typesystem.UnionType) []typesystem.ClassType {
	var out []typesystem.ClassType
	for _, t := range u.Types() {
		if ct, ok := t.(typesystem.ClassType); ok {
			out = append(out, ct)
		}
	}
	return out
}

// evalPropAccess implements §4.3.2's property-access contract: look up
// the property on every class in the expression's class list,
// substituting template parameters; drop `static` outside the defining
// class; on full failure, try `__get`; otherwise emit UndeclaredProperty.
func (e *Env) evalPropAccess(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	nameNode := n.Child("name")
	if nameNode == nil {
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "dynamic property name"))
		return typesystem.Empty()
	}
	objType := e.Eval(n.Child("object"), ctx)
	name := nameNode.StringValue()

	var result typesystem.UnionType
	found := false
	for _, ct := range e.classListOf(objType) {
		cls, ok := e.CB.GetClassByName(ct.Namespace, ct.Name)
		if !ok {
			continue
		}
		e.CB.Hydrate(cls)
		if p, ok := cls.Properties[name]; ok {
			found = true
			p.AddReference(ctx.File(), n.Line)
			t := p.Type
			if cls.TemplateParams != nil && len(ct.TemplateParams) > 0 {
				t = t.WithTemplateParameterTypeMap(templateMapOf(cls.TemplateParams, ct.TemplateParams))
			}
			if ctx.ClassFQSEN() == nil || ctx.ClassFQSEN() != cls.FQSEN {
				t = t.RemoveType(typesystem.NativeType{Kind: typesystem.Static})
			}
			result = result.AddUnion(t)
			continue
		}
		if g, ok := cls.Methods["__get"]; ok {
			found = true
			synthesized := codebase.NewProperty(fqsen.NewProperty(cls.FQSEN, name), cls.FQSEN, name)
			synthesized.Type = g.Type
			cls.Properties[name] = synthesized
			result = result.AddUnion(g.Type)
		}
	}
	if !found {
		e.emit(ctx, issue.New(issue.UndeclaredProperty, ctx.File(), n.Line, name))
		return typesystem.Empty()
	}
	return result
}

func (e *Env) evalStaticPropAccess(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	classNode := n.Child("class")
	nameNode := n.Child("name")
	if classNode == nil || nameNode == nil {
		return typesystem.Empty()
	}
	ns, short := resolveClassPseudo(classNode.StringValue(), ctx)
	cls, ok := e.CB.GetClassByName(ns, short)
	if !ok {
		return typesystem.Empty()
	}
	e.CB.Hydrate(cls)
	name := nameNode.StringValue()
	if p, ok := cls.Properties[name]; ok {
		p.AddReference(ctx.File(), n.Line)
		return p.Type
	}
	e.emit(ctx, issue.New(issue.UndeclaredProperty, ctx.File(), n.Line, name))
	return typesystem.Empty()
}

func templateMapOf(params []string, args []typesystem.UnionType) map[string]typesystem.UnionType {
	m := make(map[string]typesystem.UnionType, len(params))
	for i, p := range params {
		if i < len(args) {
			m[p] = args[i]
		}
	}
	return m
}

// evalMethodCall implements call-site lookup across the expr's class
// list, with magic __call behaving as a variadic untyped method.
func (e *Env) evalMethodCall(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	nameNode := n.Child("name")
	objType := e.Eval(n.Child("object"), ctx)
	args := n.Child("args")
	if args != nil {
		for _, a := range args.List {
			e.Eval(a, ctx)
		}
	}
	if nameNode == nil {
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "dynamic method name"))
		return typesystem.Empty()
	}
	name := nameNode.StringValue()

	var result typesystem.UnionType
	found := false
	for _, ct := range e.classListOf(objType) {
		cls, ok := e.CB.GetClassByName(ct.Namespace, ct.Name)
		if !ok {
			continue
		}
		e.CB.Hydrate(cls)
		if m, ok := cls.Methods[name]; ok {
			found = true
			m.AddReference(ctx.File(), n.Line)
			if args != nil {
				e.checkCallArgs(n, args, m.Params, m.RequiredCount, m.IsVariadic, ct.Namespace+"\\"+ct.Name+"::"+name, ctx, true)
			}
			t := m.Type
			if cls.TemplateParams != nil && len(ct.TemplateParams) > 0 {
				t = t.WithTemplateParameterTypeMap(templateMapOf(cls.TemplateParams, ct.TemplateParams))
			}
			result = result.AddUnion(t)
			continue
		}
		if _, ok := cls.Methods["__call"]; ok {
			found = true
			result = result.AddType(typesystem.NativeType{Kind: typesystem.Mixed})
		}
	}
	if !found {
		e.emit(ctx, issue.New(issue.UndeclaredClassMethod, ctx.File(), n.Line, name))
		return typesystem.Empty()
	}
	return result
}

func (e *Env) evalStaticCall(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	classNode := n.Child("class")
	nameNode := n.Child("name")
	args := n.Child("args")
	if args != nil {
		for _, a := range args.List {
			e.Eval(a, ctx)
		}
	}
	if classNode == nil || nameNode == nil {
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "dynamic static call"))
		return typesystem.Empty()
	}
	ns, short := resolveClassPseudo(classNode.StringValue(), ctx)
	if classNode.StringValue() == "parent" {
		if cf := ctx.ClassFQSEN(); cf != nil {
			if cls, ok := e.CB.GetClassByName(cf.Namespace(), cf.Name()); ok && cls.ParentFQSEN != nil {
				ns, short = cls.ParentFQSEN.Namespace(), cls.ParentFQSEN.Name()
			}
		}
	}
	cls, ok := e.CB.GetClassByName(ns, short)
	name := nameNode.StringValue()
	if !ok {
		e.emit(ctx, issue.New(issue.UndeclaredClassMethod, ctx.File(), n.Line, name))
		return typesystem.Empty()
	}
	e.CB.Hydrate(cls)
	if m, ok := cls.Methods[name]; ok {
		m.AddReference(ctx.File(), n.Line)
		if args != nil {
			e.checkCallArgs(n, args, m.Params, m.RequiredCount, m.IsVariadic, ns+"\\"+short+"::"+name, ctx, true)
		}
		return m.Type
	}
	if _, ok := cls.Methods["__callStatic"]; ok {
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})
	}
	e.emit(ctx, issue.New(issue.UndeclaredClassMethod, ctx.File(), n.Line, name))
	return typesystem.Empty()
}

// evalFuncCall implements §4.3.2's function-call contract: resolve by
// FQSEN in CodeBase; internal functions whose union type is empty fall
// back to the bundled signature map.
func (e *Env) evalFuncCall(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	nameNode := n.Child("name")
	args := n.Child("args")
	if args != nil {
		for _, a := range args.List {
			e.Eval(a, ctx)
		}
	}
	if nameNode == nil {
		e.emit(ctx, issue.New(issue.Unanalyzable, ctx.File(), n.Line, "dynamic function call"))
		return typesystem.Empty()
	}
	raw := nameNode.StringValue()
	ns, short := ctx.ResolveFunctionName(raw)
	// An unqualified name not declared in the current namespace falls back
	// to the root namespace.
	if ns != "" && ns == ctx.Namespace() && short == raw && !e.CB.HasFuncWithFQSEN(fqsen.NewFunction(ns, short)) {
		ns = ""
	}
	f := fqsen.NewFunction(ns, short)

	if fn, ok := e.CB.GetFuncByName(ns, short); ok {
		fn.AddReference(ctx.File(), n.Line)
		if fn.IsDeprecated {
			e.emit(ctx, issue.New(issue.DeprecatedFunction, ctx.File(), n.Line, f.String()))
		}
		if args != nil {
			e.checkCallArgs(n, args, fn.Params, fn.RequiredCount, fn.IsVariadic, f.String(), ctx, false)
		}
		if !fn.Type.IsEmpty() {
			return fn.Type
		}
	}
	if e.Sigs != nil {
		if sig, ok := e.Sigs.Lookup(f); ok {
			if args != nil {
				params := make([]*codebase.Param, len(sig.Params))
				for i, p := range sig.Params {
					params[i] = &codebase.Param{Name: p.Name, Type: p.Type, ByRef: p.ByRef, HasDefault: p.HasDefault}
				}
				e.checkCallArgs(n, args, params, requiredCountOf(params), sig.Variadic, f.String(), ctx, true)
			}
			return sig.Return
		}
	}
	if !e.CB.HasFuncWithFQSEN(f) {
		e.emit(ctx, issue.New(issue.UndeclaredFunction, ctx.File(), n.Line, f.String()))
	}
	return typesystem.Empty()
}

func requiredCountOf(params []*codebase.Param) int {
	n := 0
	for _, p := range params {
		if p.HasDefault || p.Variadic {
			break
		}
		n++
	}
	return n
}

// evalClosure analyzes a closure literal's body and yields `callable`.
// Only explicitly `use`-captured variables (plus an inherited `this`) are
// visible inside; the closure does not otherwise see its enclosing
// scope, matching the source language's capture-by-declaration rule
// rather than lexical scoping.
func (e *Env) evalClosure(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	inner := scope.NewFunctionLike(classScopeOf(ctx))
	if uses := n.Child("uses"); uses != nil {
		for _, u := range uses.List {
			if v, ok := ctx.Scope().GetVariable(u.StringValue()); ok {
				inner = inner.WithVariable(v)
			}
		}
	}
	ictx := ctx.WithScope(inner)
	if params := n.Child("params"); params != nil {
		for _, pn := range params.List {
			var t typesystem.UnionType
			if tn := pn.Child("type"); tn != nil {
				if ut, err := typesystem.FromStringInContext(tn.StringValue(), ctx); err == nil {
					t = ut
				}
			}
			ictx = ictx.WithScope(ictx.Scope().WithVariable(scope.Variable{Name: pn.StringValue(), Type: t}))
		}
	}
	e.Stmt(n.Child("body"), ictx)
	closureFQSEN := fqsen.NewClosure(ctx.Namespace(), ctx.File(), n.Line)
	return typesystem.FromTypes(typesystem.CallableType{Closure: closureFQSEN})
}

// classScopeOf synthesizes a Class-kind scope carrying ctx's enclosing
// class, the shape scope.NewFunctionLike expects in order to seed a
// closure's `this` binding; nil outside any class.
func classScopeOf(ctx scope.Context) *scope.Scope {
	if ctx.ClassFQSEN() == nil {
		return nil
	}
	return scope.NewClass(ctx.ClassFQSEN(), ctx.Scope().TemplateMap())
}

func (e *Env) evalClassConstFetch(n *ast.Node, ctx scope.Context) typesystem.UnionType {
	classNode := n.Child("class")
	if classNode == nil {
		return typesystem.Empty()
	}
	ns, short := resolveClassPseudo(classNode.StringValue(), ctx)
	cls, ok := e.CB.GetClassByName(ns, short)
	if !ok {
		return typesystem.Empty()
	}
	e.CB.Hydrate(cls)
	if cc, ok := cls.Constants[n.StringValue()]; ok {
		cc.AddReference(ctx.File(), n.Line)
		return cc.Type
	}
	return typesystem.Empty()
}
