package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

func varNode(name string) *ast.Node {
	return &ast.Node{Kind: ast.KindVar, Value: name}
}

func unaryOp(op string, operand *ast.Node) *ast.Node {
	return (&ast.Node{Kind: ast.KindUnaryOp, Value: op}).WithChild("operand", operand)
}

func binOp(op string, left, right *ast.Node) *ast.Node {
	return (&ast.Node{Kind: ast.KindBinaryOp, Value: op}).WithChild("left", left).WithChild("right", right)
}

func ctxWithVar(name string, t typesystem.UnionType) scope.Context {
	ctx := scope.NewGlobalContext("a.php")
	return ctx.WithScope(ctx.Scope().WithVariable(scope.Variable{Name: name, Type: t}))
}

func mixedIntString() typesystem.UnionType {
	u := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int})
	return u.AddType(typesystem.NativeType{Kind: typesystem.String})
}

func TestNarrowIsIntNarrowsTruthyBranchToInt(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))

	narrowed := e.Narrow(call, ctx, true)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "int", v.Type.String())
}

func TestNarrowIsIntFalseBranchRemovesInt(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))

	narrowed := e.Narrow(call, ctx, false)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "string", v.Type.String())
}

func TestNarrowNegationFlipsTruth(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))
	not := unaryOp("!", call)

	narrowed := e.Narrow(not, ctx, true)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "string", v.Type.String())
}

func TestNarrowAndComposesBothOperandsOnTruthyBranch(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())
	ctx = ctx.WithScope(ctx.Scope().WithVariable(scope.Variable{Name: "y", Type: mixedIntString()}))

	isIntX := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))
	isIntY := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("y")))
	and := binOp("&&", isIntX, isIntY)

	narrowed := e.Narrow(and, ctx, true)
	vx, _ := narrowed.Scope().GetVariable("x")
	vy, _ := narrowed.Scope().GetVariable("y")
	require.Equal(t, "int", vx.Type.String())
	require.Equal(t, "int", vy.Type.String())
}

func TestNarrowAndSkipsOperandsOnFalseBranch(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	isIntX := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "is_int"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))
	and := binOp("&&", isIntX, isIntX)

	narrowed := e.Narrow(and, ctx, false)
	v, _ := narrowed.Scope().GetVariable("x")
	require.Equal(t, mixedIntString().String(), v.Type.String())
}

func TestNarrowInstanceofNarrowsTruthyBranchToClass(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	instanceof := ast.New(ast.KindInstanceof, 1).
		WithChild("expr", varNode("x")).
		WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: "Foo"})

	narrowed := e.Narrow(instanceof, ctx, true)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, `\Foo`, v.Type.String())
}

func TestNarrowInstanceofLeavesFalseBranchUnnarrowed(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())

	instanceof := ast.New(ast.KindInstanceof, 1).
		WithChild("expr", varNode("x")).
		WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: "Foo"})

	narrowed := e.Narrow(instanceof, ctx, false)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, mixedIntString().String(), v.Type.String())
}

func TestNarrowEmptyFalseRemovesNull(t *testing.T) {
	e := &Env{}
	nullable := typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Null})
	nullable = nullable.AddType(typesystem.NativeType{Kind: typesystem.String})
	ctx := ctxWithVar("x", nullable)

	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "empty"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(varNode("x")))
	not := unaryOp("!", call)

	narrowed := e.Narrow(not, ctx, true)
	v, ok := narrowed.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "string", v.Type.String())
}

func TestNarrowNilConditionReturnsContextUnchanged(t *testing.T) {
	e := &Env{}
	ctx := ctxWithVar("x", mixedIntString())
	require.Equal(t, ctx, e.Narrow(nil, ctx, true))
}
