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

func newRequiringClass(t *testing.T, body *ast.Node) (*Env, *codebase.Clazz) {
	t.Helper()
	cb := codebase.New()
	ctx := scope.NewGlobalContext("a.php")

	parentFQSEN := fqsen.NewClass("", "Base")
	parent := codebase.NewClazz(parentFQSEN, "Base")
	parent.Context = ctx
	parent.Hydrated = true
	_, conflict := cb.AddClass(parent)
	require.Nil(t, conflict)

	childFQSEN := fqsen.NewClass("", "Child")
	child := codebase.NewClazz(childFQSEN, "Child")
	child.Context = ctx
	child.ParentFQSEN = parentFQSEN
	ctor := codebase.NewMethod(fqsen.NewMethod(childFQSEN, "__construct"), childFQSEN, "__construct")
	ctor.Context = ctx.WithLine(3)
	ctor.Body = body
	child.Methods["__construct"] = ctor
	child.Hydrated = true

	collector := issue.NewCollector()
	cfg := config.Default()
	cfg.ParentConstructorRequired = []string{"\\Base"}
	e := &Env{CB: cb, Cfg: cfg, Collector: collector}
	return e, child
}

func TestCheckParentConstructorCalledEmitsIssueWhenMissing(t *testing.T) {
	body := ast.New(ast.KindBlock, 1)
	e, child := newRequiringClass(t, body)

	e.checkParentConstructorCalled(child, child.Context)

	issues := e.Collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanTypeParentConstructorCalled", issues[0].Issue.TypeName)
}

func TestCheckParentConstructorCalledIsSilentWhenCalled(t *testing.T) {
	call := (&ast.Node{Kind: ast.KindExprStmt}).WithChild("expr",
		(&ast.Node{Kind: ast.KindStaticCall}).
			WithChild("class", &ast.Node{Kind: ast.KindNameIdentifier, Value: "parent"}).
			WithChild("name", &ast.Node{Kind: ast.KindNameIdentifier, Value: "__construct"}).
			WithChild("args", ast.New(ast.KindArrayLit, 1)))
	body := ast.New(ast.KindBlock, 1).WithList(call)
	e, child := newRequiringClass(t, body)

	e.checkParentConstructorCalled(child, child.Context)
	require.Empty(t, e.Collector.Flush())
}

func TestCheckParentConstructorCalledSkipsClassesNotInConfigList(t *testing.T) {
	body := ast.New(ast.KindBlock, 1)
	e, child := newRequiringClass(t, body)
	e.Cfg.ParentConstructorRequired = nil

	e.checkParentConstructorCalled(child, child.Context)
	require.Empty(t, e.Collector.Flush())
}

func TestCheckDeclaredTypesFlagsUnknownTemplateIdentifier(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	classFQSEN := fqsen.NewClass("", "Box")
	cls := codebase.NewClazz(classFQSEN, "Box")
	cls.Context = ctx
	m := codebase.NewMethod(fqsen.NewMethod(classFQSEN, "get"), classFQSEN, "get")
	m.Context = ctx.WithLine(4)
	m.Type = typesystem.FromTypes(typesystem.TemplateType{Identifier: "T"})
	cls.Methods["get"] = m

	e.checkDeclaredTypes(cls, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredReturnType", issues[0].Issue.TypeName)
}

func TestCheckDeclaredTypesAllowsDeclaredTemplateParam(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	classFQSEN := fqsen.NewClass("", "Box")
	cls := codebase.NewClazz(classFQSEN, "Box")
	cls.Context = ctx
	cls.TemplateParams = []string{"T"}
	m := codebase.NewMethod(fqsen.NewMethod(classFQSEN, "get"), classFQSEN, "get")
	m.Context = ctx.WithLine(4)
	m.Type = typesystem.FromTypes(typesystem.TemplateType{Identifier: "T"})
	cls.Methods["get"] = m

	e.checkDeclaredTypes(cls, ctx)
	require.Empty(t, collector.Flush())
}

func TestCheckDeclaredTypesFlagsUndeclaredClassType(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	classFQSEN := fqsen.NewClass("", "Box")
	cls := codebase.NewClazz(classFQSEN, "Box")
	cls.Context = ctx
	m := codebase.NewMethod(fqsen.NewMethod(classFQSEN, "get"), classFQSEN, "get")
	m.Context = ctx.WithLine(4)
	m.Params = []*codebase.Param{{Name: "x", Type: typesystem.FromTypes(typesystem.ClassType{Namespace: "", Name: "Missing"})}}
	cls.Methods["get"] = m

	e.checkDeclaredTypes(cls, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredTypeParameter", issues[0].Issue.TypeName)
}

// TestCheckDeclaredTypesChecksOwnOverrideAfterHydrate mirrors
// analyzeClass's real ordering: hydration marks an overriding method
// IsOverride, but checkDeclaredTypes must still validate that method's
// own parameter/return types rather than skip it as if it were purely
// inherited.
func TestCheckDeclaredTypesChecksOwnOverrideAfterHydrate(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	parentFQSEN := fqsen.NewClass("", "Base")
	parent := codebase.NewClazz(parentFQSEN, "Base")
	parent.Context = ctx
	parent.Hydrated = true
	base := codebase.NewMethod(fqsen.NewMethod(parentFQSEN, "get"), parentFQSEN, "get")
	base.Context = ctx
	parent.Methods["get"] = base
	_, conflict := e.CB.AddClass(parent)
	require.Nil(t, conflict)

	childFQSEN := fqsen.NewClass("", "Child")
	child := codebase.NewClazz(childFQSEN, "Child")
	child.Context = ctx
	child.ParentFQSEN = parentFQSEN
	sub := codebase.NewMethod(fqsen.NewMethod(childFQSEN, "get"), childFQSEN, "get")
	sub.Context = ctx.WithLine(9)
	sub.Params = []*codebase.Param{{Name: "x", Type: typesystem.FromTypes(typesystem.ClassType{Name: "Missing"})}}
	child.Methods["get"] = sub

	e.CB.Hydrate(child)
	require.True(t, child.Methods["get"].IsOverride)

	e.checkDeclaredTypes(child, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanUndeclaredTypeParameter", issues[0].Issue.TypeName)
}

func TestCheckOverrideSignaturesFlagsIncompatibleOverride(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	parentFQSEN := fqsen.NewClass("", "Base")
	parent := codebase.NewClazz(parentFQSEN, "Base")
	parent.Context = ctx
	parent.Hydrated = true
	base := codebase.NewMethod(fqsen.NewMethod(parentFQSEN, "run"), parentFQSEN, "run")
	base.Context = ctx
	base.Params = []*codebase.Param{{Name: "x"}, {Name: "y"}}
	parent.Methods["run"] = base
	_, conflict := e.CB.AddClass(parent)
	require.Nil(t, conflict)

	childFQSEN := fqsen.NewClass("", "Child")
	child := codebase.NewClazz(childFQSEN, "Child")
	child.Context = ctx
	child.ParentFQSEN = parentFQSEN
	sub := codebase.NewMethod(fqsen.NewMethod(childFQSEN, "run"), childFQSEN, "run")
	sub.Context = ctx.WithLine(7)
	sub.Params = []*codebase.Param{{Name: "x"}}
	child.Methods["run"] = sub

	e.checkOverrideSignatures(child, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanParamSignatureMismatch", issues[0].Issue.TypeName)
}

// TestCheckOverrideSignaturesFlagsIncompatibleOverrideAfterHydrate mirrors
// analyzeClass's real ordering (Hydrate(cls) runs before CheckClass), which
// marks child's own "run" IsOverride once hydration sees the parent also
// declares "run". checkOverrideSignatures must still flag the mismatch —
// it scans for cls's own declared methods, not methods free of any
// ancestor collision.
func TestCheckOverrideSignaturesFlagsIncompatibleOverrideAfterHydrate(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	parentFQSEN := fqsen.NewClass("", "Base")
	parent := codebase.NewClazz(parentFQSEN, "Base")
	parent.Context = ctx
	parent.Hydrated = true
	base := codebase.NewMethod(fqsen.NewMethod(parentFQSEN, "run"), parentFQSEN, "run")
	base.Context = ctx
	base.Params = []*codebase.Param{{Name: "x"}, {Name: "y"}}
	parent.Methods["run"] = base
	_, conflict := e.CB.AddClass(parent)
	require.Nil(t, conflict)

	childFQSEN := fqsen.NewClass("", "Child")
	child := codebase.NewClazz(childFQSEN, "Child")
	child.Context = ctx
	child.ParentFQSEN = parentFQSEN
	sub := codebase.NewMethod(fqsen.NewMethod(childFQSEN, "run"), childFQSEN, "run")
	sub.Context = ctx.WithLine(7)
	sub.Params = []*codebase.Param{{Name: "x"}}
	child.Methods["run"] = sub

	e.CB.Hydrate(child)
	require.True(t, child.Methods["run"].IsOverride)

	e.checkOverrideSignatures(child, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 1)
	require.Equal(t, "PhanParamSignatureMismatch", issues[0].Issue.TypeName)
}

func TestCheckOverrideSignaturesSkipsMethodsNotOverridingAnything(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	parentFQSEN := fqsen.NewClass("", "Base")
	parent := codebase.NewClazz(parentFQSEN, "Base")
	parent.Context = ctx
	parent.Hydrated = true
	_, conflict := e.CB.AddClass(parent)
	require.Nil(t, conflict)

	childFQSEN := fqsen.NewClass("", "Child")
	child := codebase.NewClazz(childFQSEN, "Child")
	child.Context = ctx
	child.ParentFQSEN = parentFQSEN
	own := codebase.NewMethod(fqsen.NewMethod(childFQSEN, "onlyHere"), childFQSEN, "onlyHere")
	own.Context = ctx
	child.Methods["onlyHere"] = own

	e.checkOverrideSignatures(child, ctx)
	require.Empty(t, collector.Flush())
}
