package visit

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/typesystem"
)

// literalType infers the union type of a bare literal node, without
// consulting CodeBase or scope. Used by ParseVisitor for default-value
// types (§4.3.1, which must not resolve general expression types) and as
// the base case of the full UnionTypeVisitor.
func literalType(n *ast.Node) typesystem.UnionType {
	if n == nil {
		return typesystem.Empty()
	}
	switch n.Kind {
	case ast.KindLiteralInt:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	case ast.KindLiteralFloat:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Float})
	case ast.KindLiteralString:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
	case ast.KindLiteralBool:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool})
	case ast.KindLiteralNull:
		return typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Null})
	case ast.KindArrayLit:
		return literalArrayType(n)
	default:
		return typesystem.Empty()
	}
}

// literalArrayType implements the array-literal inference rule of §4.3.2:
// peek at up to five elements; if homogeneous, return T[]; else array.
// The five-element sampling is a deliberately preserved heuristic (§9),
// not extended here even though ParseVisitor's use of it is narrower than
// UnionTypeVisitor's.
func literalArrayType(n *ast.Node) typesystem.UnionType {
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
		t := literalType(n.List[i])
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
