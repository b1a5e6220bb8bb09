package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

func assignStmt(target, value *ast.Node) *ast.Node {
	assign := (&ast.Node{Kind: ast.KindAssign}).WithChild("target", target).WithChild("value", value)
	return (&ast.Node{Kind: ast.KindExprStmt}).WithChild("expr", assign)
}

func TestStmtExprAssignBindsTargetToRHSType(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	stmt := assignStmt(varNode("x"), intLit(5))
	ctx = e.Stmt(stmt, ctx)

	v, ok := ctx.Scope().GetVariable("x")
	require.True(t, ok)
	require.Equal(t, "int", v.Type.String())
}

func TestStmtIfMergesThenAndElseBranchTypes(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	ctx = withVar(ctx, "x", typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool}))

	ifNode := (&ast.Node{Kind: ast.KindIf}).
		WithChild("cond", varNode("cond")).
		WithChild("then", ast.New(ast.KindBlock, 1).WithList(assignStmt(varNode("x"), intLit(1)))).
		WithChild("else", ast.New(ast.KindBlock, 1).WithList(assignStmt(varNode("x"), strLit("s"))))

	merged := e.Stmt(ifNode, ctx)
	v, ok := merged.Scope().GetVariable("x")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"int", "string"}, splitUnion(v.Type))
}

func TestStmtWhileMergesBodyAndPreLoopState(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	ctx = withVar(ctx, "x", typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Bool}))

	whileNode := (&ast.Node{Kind: ast.KindWhile}).
		WithChild("cond", varNode("cond")).
		WithChild("block", ast.New(ast.KindBlock, 1).WithList(assignStmt(varNode("x"), intLit(1))))

	merged := e.Stmt(whileNode, ctx)
	v, ok := merged.Scope().GetVariable("x")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"int", "bool"}, splitUnion(v.Type))
}

func TestStmtForeachBindsValueVarToArrayElementType(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	ctx = withVar(ctx, "items", typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Int}).AsGenericArrayTypes())

	foreachNode := (&ast.Node{Kind: ast.KindForeach}).
		WithChild("expr", varNode("items")).
		WithChild("valueVar", varNode("item")).
		WithChild("block", ast.New(ast.KindBlock, 1))

	merged := e.Stmt(foreachNode, ctx)
	v, ok := merged.Scope().GetVariable("item")
	require.True(t, ok)
	// The loop body may run zero times, so the merge adds null.
	require.ElementsMatch(t, []string{"int", "null"}, splitUnion(v.Type))
}

func TestStmtForeachFallsBackToMixedWithoutArrayInfo(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")
	ctx = withVar(ctx, "items", typesystem.FromTypes(typesystem.NativeType{Kind: typesystem.Mixed}))

	foreachNode := (&ast.Node{Kind: ast.KindForeach}).
		WithChild("expr", varNode("items")).
		WithChild("valueVar", varNode("item")).
		WithChild("block", ast.New(ast.KindBlock, 1))

	merged := e.Stmt(foreachNode, ctx)
	v, ok := merged.Scope().GetVariable("item")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"mixed", "null"}, splitUnion(v.Type))
}

func suppressedFuncCallProgram(doc string) *ast.Node {
	callStmt := (&ast.Node{Kind: ast.KindExprStmt}).WithChild("expr",
		ast.New(ast.KindFuncCall, 2).
			WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "missingFunc"}).
			WithChild("args", ast.New(ast.KindArrayLit, 2)),
	)
	fnNode := ast.New(ast.KindFunctionDecl, 2).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "f"}).
		WithChild("params", ast.New(ast.KindBlock, 2)).
		WithChild("body", ast.New(ast.KindBlock, 2).WithList(callStmt))
	fnNode.Doc = doc
	return ast.New(ast.KindProgram, 1).WithList(fnNode)
}

func TestAnalyzeFileHonorsSuppressDocCommentOnEnclosingFunction(t *testing.T) {
	cb := codebase.New()
	pv := NewParseVisitor(cb)
	collector := issue.NewCollector()

	program := suppressedFuncCallProgram("/** @suppress PhanUndeclaredFunction */")
	pv.ParseFile("a.php", program, collector)
	require.Empty(t, collector.Flush())

	e := &Env{CB: cb, Cfg: config.Default(), Collector: collector}
	e.AnalyzeFile("a.php", program)

	require.Empty(t, collector.Flush(),
		"@suppress PhanUndeclaredFunction on the enclosing function must suppress the call's diagnostic")
}

func TestAnalyzeFileWithoutSuppressStillEmitsIssue(t *testing.T) {
	cb := codebase.New()
	pv := NewParseVisitor(cb)
	collector := issue.NewCollector()

	program := suppressedFuncCallProgram("")
	pv.ParseFile("a.php", program, collector)
	require.Empty(t, collector.Flush())

	e := &Env{CB: cb, Cfg: config.Default(), Collector: collector}
	e.AnalyzeFile("a.php", program)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredFunction", issues[0].Issue.TypeName)
}

func TestStmtTryBindsCatchVariableToCaughtClassType(t *testing.T) {
	e, _ := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	tryNode := (&ast.Node{Kind: ast.KindTry}).
		WithChild("block", ast.New(ast.KindBlock, 1)).
		WithList(&ast.Node{
			Kind: ast.KindCatch, Value: "e",
			Children: map[string]*ast.Node{
				"types": ast.New(ast.KindBlock, 1).WithList(&ast.Node{Kind: ast.KindNameIdentifier, Value: "RuntimeError"}),
				"block": ast.New(ast.KindBlock, 1).WithList(assignStmt(varNode("x"), intLit(1))),
			},
		})

	merged := e.Stmt(tryNode, ctx)
	ev, ok := merged.Scope().GetVariable("e")
	require.True(t, ok, "Merge binds whatever any branch bound, including a catch variable")
	require.ElementsMatch(t, []string{`\RuntimeError`, "null"}, splitUnion(ev.Type),
		"e is bound only in the catch branch, so non-strict merge adds null per Property 5")
	v, ok := merged.Scope().GetVariable("x")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"int", "null"}, splitUnion(v.Type),
		"x is assigned only inside the catch block, so it is absent from the try branch")
}

func TestAnalyzeFileDispatchesTopLevelStatements(t *testing.T) {
	e, collector := newTestEnv()

	call := ast.New(ast.KindFuncCall, 1).
		WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "missingFunc"}).
		WithChild("args", ast.New(ast.KindArrayLit, 1))
	stmt := (&ast.Node{Kind: ast.KindExprStmt}).WithChild("expr", call)

	program := ast.New(ast.KindProgram, 1).WithList(stmt)
	e.AnalyzeFile("a.php", program)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredFunction", issues[0].Issue.TypeName)
}
