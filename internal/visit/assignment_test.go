package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

func TestAssignVarBindsNameToRHSType(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})

	ctx = e.Assign(varNode("x"), rhs, ctx)

	v, ok := ctx.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "int", v.Type.String())
}

func TestAssignListDestructuresElementType(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int}).AsGenericArrayTypes()

	list := &ast.Node{Kind: ast.KindListAssign, List: []*ast.Node{varNode("a"), nil, varNode("b")}}
	ctx = e.Assign(list, rhs, ctx)

	a, ok := ctx.Scope().GetVariable("a")
	require.True(t, ok)
	require.Equal(t, "int", a.Type.String())
	b, ok := ctx.Scope().GetVariable("b")
	require.True(t, ok)
	require.Equal(t, "int", b.Type.String())
}

func TestAssignListFallsBackToMixedWithoutArrayInfo(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})

	list := &ast.Node{Kind: ast.KindListAssign, List: []*ast.Node{varNode("a")}}
	ctx = e.Assign(list, rhs, ctx)

	a, ok := ctx.Scope().GetVariable("a")
	require.True(t, ok)
	require.Equal(t, "mixed", a.Type.String())
}

func TestAssignDimOnGlobalsBindsGlobalVariable(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})

	dim := (&ast.Node{Kind: ast.KindAssignDim}).
		WithChild("target", varNode("GLOBALS")).
		WithChild("index", strLit("counter"))

	ctx = e.Assign(dim, rhs, ctx)

	v, ok := ctx.Scope().GetVariable("counter")
	require.True(t, ok)
	require.Equal(t, "string", v.Type.String())
}

func TestAssignDimOnOtherArrayLeavesBaseVariableUnrefined(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	ctx = ctx.WithScope(ctx.Scope().WithVariable(scope.Variable{
		Name: "arr",
		Type: typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Array}),
	}))
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})

	dim := (&ast.Node{Kind: ast.KindAssignDim}).
		WithChild("target", varNode("arr")).
		WithChild("index", strLit("k"))

	out := e.Assign(dim, rhs, ctx)

	v, ok := out.Scope().GetVariable("arr")
	require.True(t, ok)
	require.Equal(t, "array", v.Type.String())
}

func TestAssignPropOnDeclaredPropertyEmitsMismatchForIncompatibleType(t *testing.T) {
	cb := codebase.New()
	classFQSEN := fqsen.NewClass("", "Foo")
	cls := codebase.NewClazz(classFQSEN, "Foo")
	prop := codebase.NewProperty(fqsen.NewProperty(classFQSEN, "name"), classFQSEN, "name")
	prop.Type = typesystem.FromTypes(typesystem.ClassType{Namespace: "", Name: "Bar"})
	cls.Properties["name"] = prop
	cls.Hydrated = true
	_, conflict := cb.AddClass(cls)
	require.Nil(t, conflict)

	collector := issue.NewCollector()
	e := &Env{CB: cb, Collector: collector}

	ctx := scope.NewGlobalContext("a.php")
	ctx = ctx.WithScope(ctx.Scope().WithVariable(scope.Variable{
		Name: "obj",
		Type: typesystem.FromTypes(typesystem.ClassType{Namespace: "", Name: "Foo"}),
	}))

	prop2 := (&ast.Node{Kind: ast.KindPropAccess}).
		WithChild("object", varNode("obj")).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "name"})

	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	e.Assign(prop2, rhs, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanTypeMismatchProperty", issues[0].Issue.TypeName)
}

func TestAssignPropOnUndeclaredNameEmitsUndeclaredProperty(t *testing.T) {
	cb := codebase.New()
	classFQSEN := fqsen.NewClass("", "Foo")
	cls := codebase.NewClazz(classFQSEN, "Foo")
	cls.Hydrated = true
	_, conflict := cb.AddClass(cls)
	require.Nil(t, conflict)

	collector := issue.NewCollector()
	e := &Env{CB: cb, Collector: collector}

	ctx := scope.NewGlobalContext("a.php")
	ctx = ctx.WithScope(ctx.Scope().WithVariable(scope.Variable{
		Name: "obj",
		Type: typesystem.FromTypes(typesystem.ClassType{Namespace: "", Name: "Foo"}),
	}))

	prop := (&ast.Node{Kind: ast.KindPropAccess}).
		WithChild("object", varNode("obj")).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "missing"})

	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	e.Assign(prop, rhs, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredProperty", issues[0].Issue.TypeName)
}

func TestAssignStaticPropRoutesThroughPlainVariableBinding(t *testing.T) {
	e := &Env{}
	ctx := scope.NewGlobalContext("a.php")
	rhs := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})

	ctx = e.Assign(&ast.Node{Kind: ast.KindStaticPropAccess, Value: "count"}, rhs, ctx)

	v, ok := ctx.Scope().GetVariable("count")
	require.True(t, ok)
	require.Equal(t, "int", v.Type.String())
}
