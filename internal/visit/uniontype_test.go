package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

func newTestEnv() (*Env, *issue.Collector) {
	collector := issue.NewCollector()
	return &Env{CB: codebase.New(), Cfg: config.Default(), Collector: collector}, collector
}

func TestEvalLiteralPassesThroughLiteralType(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	require.Equal(t, "int", e.Eval(intLit(1), ctx).String())
}

func TestEvalVarUndeclaredInFunctionScopeEmitsIssue(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	ctx = ctx.WithScope(scope.NewFunctionLike(nil))

	got := e.Eval(varNode("missing"), ctx)
	require.True(t, got.IsEmpty())

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredVariable", issues[0].Issue.TypeName)
}

func TestEvalVarUndeclaredInGlobalScopeHonorsIgnoreFlag(t *testing.T) {
	e, collector := newTestEnv()
	e.Cfg.IgnoreUndeclaredVarsInGlobal = true
	ctx := scope.NewGlobalContext("a.php")

	got := e.Eval(varNode("missing"), ctx)
	require.True(t, got.IsEmpty())
	require.Empty(t, collector.Flush())
}

func TestEvalBinaryOpPlusOnIntsReturnsInt(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	plus := binOp("+", intLit(1), intLit(2))
	require.Equal(t, "int", e.Eval(plus, ctx).String())
}

func TestEvalBinaryOpPlusOnArraysReturnsArray(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	leftArr := &ast.Node{Kind: ast.KindArrayLit, List: []*ast.Node{intLit(1)}}
	rightArr := &ast.Node{Kind: ast.KindArrayLit, List: []*ast.Node{intLit(2)}}
	plus := binOp("+", leftArr, rightArr)
	require.Equal(t, "array", e.Eval(plus, ctx).String())
}

func TestEvalBinaryOpConcatWithArrayOperandEmitsTypeArrayOperator(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	arr := &ast.Node{Kind: ast.KindArrayLit, List: []*ast.Node{intLit(1)}}
	concat := binOp(".", strLit("x"), arr)
	e.Eval(concat, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanTypeArrayOperator", issues[0].Issue.TypeName)
}

func TestEvalUnaryNotReturnsBool(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	not := unaryOp("!", intLit(1))
	require.Equal(t, "bool", e.Eval(not, ctx).String())
}

func TestEvalCastToIntReturnsInt(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	cast := (&ast.Node{Kind: ast.KindCast, Value: "int"}).WithChild("operand", strLit("5"))
	require.Equal(t, "int", e.Eval(cast, ctx).String())
}

func TestEvalNewOnPlainClassReturnsClassType(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	n := (&ast.Node{Kind: ast.KindNew}).
		WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: "Foo"})

	got := e.Eval(n, ctx)
	require.Equal(t, `\Foo`, got.String())
}

func TestEvalNewOnDynamicTargetEmitsUnanalyzable(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	n := (&ast.Node{Kind: ast.KindNew}).
		WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: ""})

	got := e.Eval(n, ctx)
	require.True(t, got.IsEmpty())

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUnanalyzable", issues[0].Issue.TypeName)
}

func TestEvalNewOnTemplatedClassBindsConstructorArgTypes(t *testing.T) {
	e, _ := newTestEnv()
	classFQSEN := fqsen.NewClass("", "Box")
	cls := codebase.NewClazz(classFQSEN, "Box")
	cls.TemplateParams = []string{"T"}
	cls.Hydrated = true
	_, conflict := e.CB.AddClass(cls)
	require.Nil(t, conflict)

	ctx := scope.NewGlobalContext("a.php")
	n := (&ast.Node{Kind: ast.KindNew}).
		WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: "Box"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1).WithList(intLit(1)))

	got := e.Eval(n, ctx)
	require.Equal(t, `\Box<int>`, got.String())
}

func TestEvalFuncCallUndeclaredEmitsIssue(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	call := ast.New(ast.KindFuncCall, 3).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "missingFunc"}).
		WithChild("args", ast.New(ast.KindArrayLit, 3))

	got := e.Eval(call, ctx)
	require.True(t, got.IsEmpty())

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredFunction", issues[0].Issue.TypeName)
	require.Equal(t, 3, issues[0].Line)
}

func TestEvalFuncCallDeclaredReturnsItsDeclaredType(t *testing.T) {
	e, _ := newTestEnv()
	f := fqsen.NewFunction("", "helper")
	fn := codebase.NewFunc(f, "helper")
	fn.Type = typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
	_, conflict := e.CB.AddFunc(fn)
	require.Nil(t, conflict)

	ctx := scope.NewGlobalContext("a.php")
	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "helper"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1))

	got := e.Eval(call, ctx)
	require.Equal(t, "string", got.String())
	require.Empty(t, e.Collector.Flush())
}

func TestEvalFuncCallFullyQualifiedNameResolvesSameAsBare(t *testing.T) {
	e, _ := newTestEnv()
	f := fqsen.NewFunction("", "helper")
	fn := codebase.NewFunc(f, "helper")
	fn.Type = typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.String})
	_, conflict := e.CB.AddFunc(fn)
	require.Nil(t, conflict)

	ctx := scope.NewGlobalContext("a.php")
	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: `\helper`}).
		WithChild("args", ast.New(ast.KindArrayLit, 1))

	got := e.Eval(call, ctx)
	require.Equal(t, "string", got.String())
	require.Empty(t, e.Collector.Flush())
}

func TestEvalUnrecognizedKindEmitsUnanalyzable(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	got := e.Eval(&ast.Node{Kind: ast.KindInvalid}, ctx)
	require.True(t, got.IsEmpty())

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUnanalyzable", issues[0].Issue.TypeName)
}
