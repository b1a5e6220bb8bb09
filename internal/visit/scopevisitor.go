package visit

import (
	"strings"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/scope"
)

// applyScopeNode handles `namespace`, `use`, and `group use` nodes the
// same way in both analysis phases (§4.3.1, §4.3.2 ScopeVisitor), folding
// the node's effect into ctx and returning the updated Context.
func applyScopeNode(n *ast.Node, ctx scope.Context) scope.Context {
	switch n.Kind {
	case ast.KindNamespace:
		return ctx.WithNamespace(n.StringValue())
	case ast.KindUse:
		return applyUse(n, ctx)
	case ast.KindGroupUse:
		prefix := n.Child("prefix").StringValue()
		for _, u := range n.List {
			ctx = applyGroupedUse(u, prefix, ctx)
		}
		return ctx
	case ast.KindDeclare:
		if n.StringValue() == "strict_types" {
			return ctx.WithStrictTypes(true)
		}
		return ctx
	default:
		return ctx
	}
}

func applyUse(n *ast.Node, ctx scope.Context) scope.Context {
	name := n.Child("name").StringValue()
	alias := n.Child("alias").StringValue()
	if alias == "" {
		alias = lastSegment(name)
	}
	kind := useKindOf(n)
	return ctx.WithUse(kind, alias, strings.TrimPrefix(name, "\\"))
}

func applyGroupedUse(u *ast.Node, prefix string, ctx scope.Context) scope.Context {
	name := u.Child("name").StringValue()
	alias := u.Child("alias").StringValue()
	full := strings.TrimSuffix(prefix, "\\") + "\\" + name
	if alias == "" {
		alias = lastSegment(name)
	}
	kind := useKindOf(u)
	return ctx.WithUse(kind, alias, strings.TrimPrefix(full, "\\"))
}

func useKindOf(n *ast.Node) scope.UseKind {
	switch n.Value {
	case "function":
		return scope.UseFunction
	case "const":
		return scope.UseConst
	default:
		return scope.UseNormal
	}
}

func lastSegment(name string) string {
	if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
