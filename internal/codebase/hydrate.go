package codebase

import (
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/typesystem"
)

// GeneratorType is the built-in return type coerced onto a method/function
// whose body contains a `yield`, unless its declared type is already a
// supertype of it.
var GeneratorType = typesystem.ClassType{Name: "Generator"}

// Hydrate ensures the parent/interface/trait closure of c is imported.
// Idempotent: a second call is a no-op (Property 3). Precondition: every
// direct ancestor FQSEN is either already registered or altogether
// absent from the CodeBase — a missing ancestor is not this function's
// concern (the analysis pass emits UndeclaredExtendedClass /
// UndeclaredInterface / UndeclaredTrait when it walks the `extends`/
// `implements`/`use` clause directly). Hydrate only ever imports members
// from ancestors that do exist.
func (cb *CodeBase) Hydrate(c *Clazz) []issue.IssueInstance {
	if c.Hydrated {
		return nil
	}
	c.Hydrated = true

	own := ownMemberNames(c)
	var diags []issue.IssueInstance

	// Interfaces, then traits, then parent — in that order, per §4.1.
	for _, ifaceFQSEN := range c.InterfaceFQSENs {
		if iface, err := cb.GetClassByFQSEN(ifaceFQSEN); err == nil {
			cb.Hydrate(iface)
			diags = append(diags, cb.importAncestor(c, iface, nil, own)...)
		}
	}
	for _, traitFQSEN := range c.TraitFQSENs {
		if trait, err := cb.GetClassByFQSEN(traitFQSEN); err == nil {
			cb.Hydrate(trait)
			diags = append(diags, cb.importAncestor(c, trait, nil, own)...)
		}
	}
	if c.ParentFQSEN != nil {
		if parent, err := cb.GetClassByFQSEN(c.ParentFQSEN); err == nil {
			cb.Hydrate(parent)
			templateMap := c.parentTemplateMap(parent)
			diags = append(diags, cb.importAncestor(c, parent, templateMap, own)...)
		}
	}

	// Inject the `class` class-constant of type string (§4.1 postcondition).
	if _, ok := c.Constants["class"]; !ok {
		cc := NewClassConstant(fqsen.NewClassConstant(c.FQSEN, "class"), c.FQSEN, "class")
		cc.Type = typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
		c.Constants["class"] = cc
	}

	return diags
}

type ownNames struct {
	methods, props, consts map[string]bool
}

func ownMemberNames(c *Clazz) ownNames {
	o := ownNames{methods: map[string]bool{}, props: map[string]bool{}, consts: map[string]bool{}}
	for n := range c.Methods {
		o.methods[n] = true
	}
	for n := range c.Properties {
		o.props[n] = true
	}
	for n := range c.Constants {
		o.consts[n] = true
	}
	return o
}

// parentTemplateMap builds the substitution map used when the parent has
// template parameters bound through the extending class, e.g. `extends
// Container<int>` binds parent's `@template T` to `int`.
func (c *Clazz) parentTemplateMap(parent *Clazz) map[string]typesystem.UnionType {
	if len(parent.TemplateParams) == 0 || len(c.ParentTemplateArgs) == 0 {
		return nil
	}
	m := make(map[string]typesystem.UnionType, len(parent.TemplateParams))
	for i, name := range parent.TemplateParams {
		if i < len(c.ParentTemplateArgs) {
			m[name] = c.ParentTemplateArgs[i]
		}
	}
	return m
}

// importAncestor copies ancestor's properties, methods, and constants
// into target, applying §4.1's two distinct rules:
//
//   - if target itself (before this hydration pass) already declared a
//     member of that name, the ancestor's member is discarded and
//     target's own member is marked IsOverride — ordinary inheritance,
//     no diagnostic;
//   - if the member was instead already imported from an earlier
//     ancestor in this same pass (two interfaces/traits both defining
//     the same name), the earliest import wins and the later one is
//     reported as an IncompatibleComposition* conflict.
func (cb *CodeBase) importAncestor(target, ancestor *Clazz, templateMap map[string]typesystem.UnionType, own ownNames) []issue.IssueInstance {
	var diags []issue.IssueInstance
	file, line := target.Context.File(), target.Context.Line()

	for name, ancMethod := range ancestor.Methods {
		if own.methods[name] {
			target.Methods[name].IsOverride = true
			continue
		}
		if _, already := target.Methods[name]; already {
			diags = append(diags, issue.New(issue.IncompatibleCompositionMethod, file, line, target.Name+"::"+name))
			continue
		}
		cp := ancMethod.Clone(target.FQSEN)
		if templateMap != nil {
			cp.Type = cp.Type.WithTemplateParameterTypeMap(templateMap)
		}
		if cp.Yields && !cp.Type.HasType(GeneratorType) {
			cp.Type = cp.Type.AddType(GeneratorType)
		}
		target.Methods[name] = cp
	}

	for name, ancProp := range ancestor.Properties {
		if own.props[name] {
			target.Properties[name].IsOverride = true
			continue
		}
		if _, already := target.Properties[name]; already {
			diags = append(diags, issue.New(issue.IncompatibleCompositionProp, file, line, target.Name+"::"+name))
			continue
		}
		cp := ancProp.Clone(target.FQSEN)
		if templateMap != nil {
			cp.Type = cp.Type.WithTemplateParameterTypeMap(templateMap)
		}
		target.Properties[name] = cp
	}

	for name, ancConst := range ancestor.Constants {
		if own.consts[name] {
			target.Constants[name].IsOverride = true
			continue
		}
		if _, already := target.Constants[name]; already {
			diags = append(diags, issue.New(issue.IncompatibleCompositionConst, file, line, target.Name+"::"+name))
			continue
		}
		cp := ancConst.Clone(target.FQSEN)
		if templateMap != nil {
			cp.Type = cp.Type.WithTemplateParameterTypeMap(templateMap)
		}
		target.Constants[name] = cp
	}

	return diags
}
