package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// nativeCheckFuncs maps an `is_*` predicate name to the native kind it
// tests for, the table the ConditionVisitor's is_<T>() case consults.
var nativeCheckFuncs = map[string]typesystem.NativeKind{
	"is_array":    typesystem.Array,
	"is_string":   typesystem.String,
	"is_int":      typesystem.Int,
	"is_integer":  typesystem.Int,
	"is_bool":     typesystem.Bool,
	"is_float":    typesystem.Float,
	"is_double":   typesystem.Float,
	"is_null":     typesystem.Null,
	"is_callable": typesystem.Callable,
	"is_object":   typesystem.Object,
}

// Narrow implements the ConditionVisitor (§4.3.2): given a boolean
// condition expression and which branch (truth) is under analysis,
// returns a Context with variable types narrowed by instanceof, is_<T>(),
// empty(), negation, and short-circuit && / || composition.
func (e *Env) Narrow(cond *ast.Node, ctx scope.Context, truth bool) scope.Context {
	if cond == nil {
		return ctx
	}
	switch cond.Kind {
	case ast.KindUnaryOp:
		if cond.StringValue() == "!" {
			return e.Narrow(cond.Child("operand"), ctx, !truth)
		}
	case ast.KindBinaryOp:
		switch cond.StringValue() {
		case "&&", "and":
			if truth {
				ctx = e.Narrow(cond.Child("left"), ctx, true)
				ctx = e.Narrow(cond.Child("right"), ctx, true)
			}
			return ctx
		case "||", "or":
			if !truth {
				ctx = e.Narrow(cond.Child("left"), ctx, false)
				ctx = e.Narrow(cond.Child("right"), ctx, false)
			}
			return ctx
		}
	case ast.KindInstanceof:
		return e.narrowInstanceof(cond, ctx, truth)
	case ast.KindFuncCall:
		return e.narrowFuncCall(cond, ctx, truth)
	}
	return ctx
}

// narrowInstanceof narrows the positive branch of `$x instanceof C` to
// exactly C; the negative branch is left unnarrowed, a conservative
// choice since C's siblings and subclasses remain possible.
func (e *Env) narrowInstanceof(n *ast.Node, ctx scope.Context, truth bool) scope.Context {
	if !truth {
		return ctx
	}
	expr := n.Child("expr")
	classNode := n.Child("class")
	if expr == nil || expr.Kind != ast.KindVar || classNode == nil {
		return ctx
	}
	ns, short := resolveClassPseudo(classNode.StringValue(), ctx)
	v := scope.Variable{Name: expr.StringValue(), Type: typesystem.FromTypes(typesystem.ClassType{Namespace: ns, Name: short})}
	return ctx.WithScope(ctx.Scope().WithVariable(v))
}

func (e *Env) narrowFuncCall(n *ast.Node, ctx scope.Context, truth bool) scope.Context {
	nameNode := n.Child("name")
	args := n.Child("args")
	if nameNode == nil || args == nil || len(args.List) == 0 {
		return ctx
	}
	target := args.List[0]
	if target.Kind != ast.KindVar {
		return ctx
	}
	v, ok := ctx.Scope().GetVariable(target.StringValue())
	if !ok {
		return ctx
	}
	name := nameNode.StringValue()

	if kind, known := nativeCheckFuncs[name]; known {
		if truth {
			v.Type = typesystem.FromTypes(typesystem.NativeType{Kind: kind})
		} else {
			v.Type = v.Type.RemoveType(typesystem.NativeType{Kind: kind})
		}
		return ctx.WithScope(ctx.Scope().WithVariable(v))
	}
	if name == "empty" && !truth {
		// !empty($x): $x is set and truthy, so at least not null.
		v.Type = v.Type.RemoveType(typesystem.NativeType{Kind: typesystem.Null})
		return ctx.WithScope(ctx.Scope().WithVariable(v))
	}
	return ctx
}
