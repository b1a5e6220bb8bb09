package visit

import (
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Merge implements the ContextMergeVisitor (§4.3.2): combines the
// Contexts produced by each mutually exclusive branch of an if/elseif/
// else chain or a try/catch/finally block into the Context in effect
// after the construct (Property 5: the merge is associative and
// order-independent in the branches). A variable's merged type is the
// union of its type across every branch that binds it. A variable bound
// by only some branches is propagated with `null` added to its merged
// type in non-strict mode (control could reach the merge point via a
// branch that never assigned it); in strict mode it is dropped from the
// merge entirely instead.
func Merge(pre scope.Context, branches ...scope.Context) scope.Context {
	if len(branches) == 0 {
		return pre
	}

	type binding struct {
		typ   typesystem.UnionType
		count int
	}
	seen := map[string]*binding{}
	for _, b := range branches {
		for name, v := range b.Scope().Variables() {
			bd, ok := seen[name]
			if !ok {
				bd = &binding{typ: typesystem.Empty()}
				seen[name] = bd
			}
			bd.typ = bd.typ.AddUnion(v.Type)
			bd.count++
		}
	}

	strict := pre.StrictTypes()
	merged := pre.Scope().Clone()
	for name, bd := range seen {
		if bd.count < len(branches) {
			if strict {
				merged = merged.WithoutVariable(name)
				continue
			}
			bd.typ = bd.typ.AddType(typesystem.NativeType{Kind: typesystem.Null})
		}
		merged = merged.WithVariable(scope.Variable{Name: name, Type: bd.typ})
	}
	return pre.WithScope(merged)
}
