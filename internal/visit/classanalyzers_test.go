package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/scope"
)

func TestCheckAncestorsExistEmitsOneIssuePerUndeclaredAncestorKind(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	cls := codebase.NewClazz(fqsen.NewClass("", "Child"), "Child")
	cls.Context = ctx.WithLine(5)
	cls.ParentFQSEN = fqsen.NewClass("", "MissingParent")
	cls.InterfaceFQSENs = []*fqsen.FQSEN{fqsen.NewClass("", "MissingIface")}
	cls.TraitFQSENs = []*fqsen.FQSEN{fqsen.NewClass("", "MissingTrait")}

	e.checkAncestorsExist(cls, ctx)

	issues := collector.Flush()
	require.Len(t, issues, 3)
	var types []string
	for _, ii := range issues {
		types = append(types, ii.Issue.TypeName)
	}
	require.ElementsMatch(t, []string{
		"PhanUndeclaredExtendedClass",
		"PhanUndeclaredInterface",
		"PhanUndeclaredTrait",
	}, types)
}

func TestCheckAncestorsExistIsSilentWhenEveryAncestorIsRegistered(t *testing.T) {
	e, collector := newTestEnv()
	ctx := scope.NewGlobalContext("a.php")

	parent := codebase.NewClazz(fqsen.NewClass("", "Parent"), "Parent")
	parent.Context = ctx
	_, conflict := e.CB.AddClass(parent)
	require.Nil(t, conflict)

	cls := codebase.NewClazz(fqsen.NewClass("", "Child"), "Child")
	cls.Context = ctx
	cls.ParentFQSEN = parent.FQSEN

	e.checkAncestorsExist(cls, ctx)
	require.Empty(t, collector.Flush())
}

func TestSweepDeadCodeReportsUnreferencedClassAndFunction(t *testing.T) {
	cb := codebase.New()
	collector := issue.NewCollector()
	ctx := scope.NewGlobalContext("a.php")

	cls := codebase.NewClazz(fqsen.NewClass("", "Unused"), "Unused")
	cls.Context = ctx.WithLine(10)
	cls.Methods = map[string]*codebase.Method{}
	cls.Properties = map[string]*codebase.Property{}
	cls.Constants = map[string]*codebase.ClassConstant{}
	_, conflict := cb.AddClass(cls)
	require.Nil(t, conflict)

	fn := codebase.NewFunc(fqsen.NewFunction("", "helper"), "helper")
	fn.Context = ctx.WithLine(20)
	_, conflict = cb.AddFunc(fn)
	require.Nil(t, conflict)

	SweepDeadCode(cb, collector)

	issues := collector.Flush()
	require.Len(t, issues, 2)
	var types []string
	for _, ii := range issues {
		types = append(types, ii.Issue.TypeName)
	}
	require.ElementsMatch(t, []string{"PhanUnreferencedClass", "PhanUnreferencedFunction"}, types)
}

func TestSweepDeadCodeIsSilentWhenEverythingIsReferenced(t *testing.T) {
	cb := codebase.New()
	collector := issue.NewCollector()
	ctx := scope.NewGlobalContext("a.php")

	cls := codebase.NewClazz(fqsen.NewClass("", "Used"), "Used")
	cls.Context = ctx
	cls.Methods = map[string]*codebase.Method{}
	cls.Properties = map[string]*codebase.Property{}
	cls.Constants = map[string]*codebase.ClassConstant{}
	cls.AddReference("a.php", 1)
	_, conflict := cb.AddClass(cls)
	require.Nil(t, conflict)

	SweepDeadCode(cb, collector)
	require.Empty(t, collector.Flush())
}
