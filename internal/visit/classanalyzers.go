package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// CheckClass runs the per-class analyzers (§4.4, §8 scenarios 1/5/6):
// ancestor existence, the parent-constructor-called rule, declared-type
// validity, and override-signature compatibility. Dead-code detection is
// deliberately NOT run here — see SweepDeadCode.
func (e *Env) CheckClass(cls *codebase.Clazz, ctx scope.Context) {
	e.checkAncestorsExist(cls, ctx)
	e.checkParentConstructorCalled(cls, ctx)
	e.checkDeclaredTypes(cls, ctx)
	e.checkOverrideSignatures(cls, ctx)
}

// checkAncestorsExist implements §8 scenario 1: extending, implementing,
// or using an undeclared class/interface/trait.
func (e *Env) checkAncestorsExist(cls *codebase.Clazz, ctx scope.Context) {
	line := cls.Context.Line()
	ctx = ctx.WithLine(line)
	if cls.ParentFQSEN != nil && !e.CB.HasClassWithFQSEN(cls.ParentFQSEN) {
		e.emit(ctx, issue.New(issue.UndeclaredExtendedClass, ctx.File(), line, cls.ParentFQSEN.String()))
	}
	for _, i := range cls.InterfaceFQSENs {
		if !e.CB.HasClassWithFQSEN(i) {
			e.emit(ctx, issue.New(issue.UndeclaredInterface, ctx.File(), line, i.String()))
		}
	}
	for _, t := range cls.TraitFQSENs {
		if !e.CB.HasClassWithFQSEN(t) {
			e.emit(ctx, issue.New(issue.UndeclaredTrait, ctx.File(), line, t.String()))
		}
	}
}

// checkParentConstructorCalled implements §8 scenario 5: a class whose
// parent is named in the `parent_constructor_required` config list must
// call parent::__construct() somewhere in its own constructor body.
func (e *Env) checkParentConstructorCalled(cls *codebase.Clazz, ctx scope.Context) {
	if e.Cfg == nil || cls.ParentFQSEN == nil {
		return
	}
	parentName := cls.ParentFQSEN.String()
	required := false
	for _, n := range e.Cfg.ParentConstructorRequired {
		if n == parentName {
			required = true
			break
		}
	}
	if !required {
		return
	}
	ctor, ok := cls.Methods["__construct"]
	if !ok || ctor.Body == nil {
		return
	}
	// A constructor inherited wholesale (never declared by cls itself) has
	// nothing for this class to call parent::__construct() from.
	if !cls.DeclaresMethod("__construct") {
		return
	}
	if !bodyCallsParentConstruct(ctor.Body) {
		e.emit(ctx, issue.New(issue.TypeParentConstructorCalled, ctor.Context.File(), ctor.Context.Line(), cls.FQSEN.String(), parentName))
	}
}

func bodyCallsParentConstruct(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindStaticCall {
		classNode, nameNode := n.Child("class"), n.Child("name")
		if classNode != nil && nameNode != nil && classNode.StringValue() == "parent" && nameNode.StringValue() == "__construct" {
			return true
		}
	}
	for _, c := range n.Children {
		if bodyCallsParentConstruct(c) {
			return true
		}
	}
	for _, c := range n.List {
		if bodyCallsParentConstruct(c) {
			return true
		}
	}
	return false
}

// checkDeclaredTypes implements §8 scenario 6: a parameter or return type
// naming a template identifier absent from the class's own @template
// list, or a class type that resolves to nothing in the codebase.
func (e *Env) checkDeclaredTypes(cls *codebase.Clazz, ctx scope.Context) {
	allowed := make(map[string]bool, len(cls.TemplateParams))
	for _, t := range cls.TemplateParams {
		allowed[t] = true
	}
	for name, m := range cls.Methods {
		// A purely inherited method (never declared by cls itself) was
		// already checked when its defining class was analyzed; only
		// cls's own declarations, override or not, need rechecking here.
		if !cls.DeclaresMethod(name) {
			continue
		}
		mctx := ctx.WithLine(m.Context.Line())
		for _, p := range m.Params {
			e.checkTypeDeclared(p.Type, allowed, mctx, issue.UndeclaredTypeParameter)
		}
		e.checkTypeDeclared(m.Type, allowed, mctx, issue.UndeclaredReturnType)
	}
}

// checkFuncDeclaredTypes applies the same undeclared-type-parameter/
// undeclared-return-type rule (§8 scenario 6) to a free function: free
// functions carry no @template list of their own, so every Template
// type encountered is reported (an empty `allowed` map).
func (e *Env) checkFuncDeclaredTypes(fn *codebase.Func, ctx scope.Context) {
	fctx := ctx.WithLine(fn.Context.Line())
	for _, p := range fn.Params {
		e.checkTypeDeclared(p.Type, nil, fctx, issue.UndeclaredTypeParameter)
	}
	e.checkTypeDeclared(fn.Type, nil, fctx, issue.UndeclaredReturnType)
}

func (e *Env) checkTypeDeclared(u typesystem.UnionType, allowed map[string]bool, ctx scope.Context, iss *issue.Issue) {
	for _, t := range u.Types() {
		switch tt := t.(type) {
		case typesystem.TemplateType:
			if !allowed[tt.Identifier] {
				e.emit(ctx, issue.New(iss, ctx.File(), ctx.Line(), tt.Identifier))
			}
		case typesystem.ClassType:
			if !e.CB.HasClassWithFQSEN(tt.FQSEN()) {
				if _, ok := e.CB.GetClassByName(tt.Namespace, tt.Name); !ok {
					e.emit(ctx, issue.New(iss, ctx.File(), ctx.Line(), tt.String()))
				}
			}
		case typesystem.GenericArrayType:
			e.checkTypeDeclared(typesystem.FromTypes(tt.Element), allowed, ctx, iss)
		}
	}
}

// checkOverrideSignatures implements the override-signature (LSP-ish)
// compatibility check of §4.4 for every method cls declares itself that
// shares a name with a method on its direct parent.
func (e *Env) checkOverrideSignatures(cls *codebase.Clazz, ctx scope.Context) {
	if cls.ParentFQSEN == nil {
		return
	}
	parent, ok := e.CB.GetClassByName(cls.ParentFQSEN.Namespace(), cls.ParentFQSEN.Name())
	if !ok {
		return
	}
	for _, ii := range e.CB.Hydrate(parent) {
		e.emit(ctx.WithLine(ii.Line), ii)
	}
	for name, m := range cls.Methods {
		if !cls.DeclaresMethod(name) {
			continue
		}
		if base, ok := parent.Methods[name]; ok {
			e.CheckOverride(m, base, ctx.WithLine(m.Context.Line()))
		}
	}
}

// SweepDeadCode implements the dead-code-detection sweep (§4.1): run
// exactly once, after every file in the analysis set has completed the
// AnalysisVisitor pass. It must never run per-file — a zero reference
// count partway through the pass says nothing about whether a later file
// references the symbol, which is exactly why dead code detection is
// rejected outright under multiprocess analysis (§5, config.Validate).
func SweepDeadCode(cb *codebase.CodeBase, collector *issue.Collector) {
	for _, cls := range cb.AllClasses() {
		if cls.ReferenceCount() == 0 {
			collector.Add(issue.New(issue.UnreferencedClass, cls.Context.File(), cls.Context.Line(), cls.FQSEN.String()), nil)
		}
		for _, m := range cls.Methods {
			if m.IsOverride || m.IsConstructor {
				continue
			}
			if m.ReferenceCount() == 0 {
				collector.Add(issue.New(issue.UnreferencedMethod, m.Context.File(), m.Context.Line(), m.FQSEN.String()), nil)
			}
		}
		for _, p := range cls.Properties {
			if p.IsOverride {
				continue
			}
			if p.ReferenceCount() == 0 {
				collector.Add(issue.New(issue.UnreferencedProperty, p.Context.File(), p.Context.Line(), p.FQSEN.String()), nil)
			}
		}
		for _, cc := range cls.Constants {
			if cc.IsOverride {
				continue
			}
			if cc.ReferenceCount() == 0 {
				collector.Add(issue.New(issue.UnreferencedConstant, cc.Context.File(), cc.Context.Line(), cc.FQSEN.String()), nil)
			}
		}
	}
	for _, fn := range cb.AllFuncs() {
		if fn.ReferenceCount() == 0 {
			collector.Add(issue.New(issue.UnreferencedFunction, fn.Context.File(), fn.Context.Line(), fn.FQSEN.String()), nil)
		}
	}
}
