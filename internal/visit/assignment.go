package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Assign implements the AssignmentVisitor (§4.3.2): binds rhsType into
// ctx for the plain-variable, list-destructuring, $GLOBALS[...]-dim, and
// property-write left-hand-side shapes.
func (e *Env) Assign(lhs *ast.Node, rhsType typesystem.UnionType, ctx scope.Context) scope.Context {
	if lhs == nil {
		return ctx
	}
	switch lhs.Kind {
	case ast.KindVar:
		return e.assignVar(lhs, rhsType, ctx)
	case ast.KindListAssign:
		return e.assignList(lhs, rhsType, ctx)
	case ast.KindAssignDim:
		return e.assignDim(lhs, rhsType, ctx)
	case ast.KindPropAccess:
		return e.assignProp(lhs, rhsType, ctx)
	case ast.KindStaticPropAccess:
		// §9 open question: static property writes dispatch through the
		// same variable-binding path as a plain $var, silently ignoring
		// the enclosing class. Preserved as-is rather than fixed.
		return e.assignVar(lhs, rhsType, ctx)
	default:
		return ctx
	}
}

func (e *Env) assignVar(n *ast.Node, rhsType typesystem.UnionType, ctx scope.Context) scope.Context {
	v := scope.Variable{Name: n.StringValue(), Type: rhsType}
	return ctx.WithScope(ctx.Scope().WithVariable(v))
}

// assignList implements list-destructuring: each slot in n.List (nil for
// a skipped `[, $b] = ...` position) is bound to the array's element
// type, falling back to mixed when the source union carries no generic
// array information.
func (e *Env) assignList(n *ast.Node, rhsType typesystem.UnionType, ctx scope.Context) scope.Context {
	elem := rhsType.GenericArrayElementTypes()
	if elem.IsEmpty() {
		elem = typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed})
	}
	for _, target := range n.List {
		if target == nil {
			continue
		}
		ctx = e.Assign(target, elem, ctx)
	}
	return ctx
}

// assignDim implements the array-dim-on-$GLOBALS rule (§4.3.2): writing
// $GLOBALS['name'] = expr binds `name` in the global scope as a plain
// variable of expr's type. Any other array-dim write is evaluated for
// its reference side effects only — it does not refine the base
// variable's union type.
func (e *Env) assignDim(n *ast.Node, rhsType typesystem.UnionType, ctx scope.Context) scope.Context {
	target := n.Child("target")
	if target != nil && target.Kind == ast.KindVar && target.StringValue() == "GLOBALS" {
		if idx := n.Child("index"); idx != nil && idx.Kind == ast.KindLiteralString {
			v := scope.Variable{Name: idx.StringValue(), Type: rhsType}
			return ctx.WithScope(ctx.Scope().WithVariable(v))
		}
	}
	if target != nil {
		e.Eval(target, ctx)
	}
	return ctx
}

// assignProp implements the property-write rule: for every class in the
// object expression's class list, check the assigned value against the
// property's declared type (PhanTypeMismatchProperty), synthesize a
// property on classes that allow missing properties, defer to __set, or
// else report PhanUndeclaredProperty.
func (e *Env) assignProp(n *ast.Node, rhsType typesystem.UnionType, ctx scope.Context) scope.Context {
	nameNode := n.Child("name")
	if nameNode == nil {
		return ctx
	}
	objType := e.Eval(n.Child("object"), ctx)
	name := nameNode.StringValue()

	for _, ct := range e.classListOf(objType) {
		cls, ok := e.CB.GetClassByName(ct.Namespace, ct.Name)
		if !ok {
			continue
		}
		e.CB.Hydrate(cls)
		if p, ok := cls.Properties[name]; ok {
			p.AddReference(ctx.File(), n.Line)
			if !rhsType.IsEmpty() && !p.Type.IsEmpty() && !typesystem.UnionCanCastToUnion(rhsType, p.Type, e.CB) {
				e.emit(ctx, issue.New(issue.TypeMismatchProperty, ctx.File(), n.Line, rhsType.String(), ct.Namespace+"\\"+ct.Name+"::"+name, p.Type.String()))
			}
			continue
		}
		if cls.AllowsMissingProperties {
			np := codebase.NewProperty(fqsen.NewProperty(cls.FQSEN, name), cls.FQSEN, name)
			np.Type = rhsType
			cls.Properties[name] = np
			continue
		}
		if _, ok := cls.Methods["__set"]; ok {
			continue
		}
		e.emit(ctx, issue.New(issue.UndeclaredProperty, ctx.File(), n.Line, name))
	}
	return ctx
}
