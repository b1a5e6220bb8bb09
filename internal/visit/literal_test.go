package visit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
)

func intLit(v int) *ast.Node    { return &ast.Node{Kind: ast.KindLiteralInt, Value: v} }
func strLit(v string) *ast.Node { return &ast.Node{Kind: ast.KindLiteralString, Value: v} }

func TestLiteralTypeScalars(t *testing.T) {
	require.Equal(t, "int", literalType(intLit(1)).String())
	require.Equal(t, "string", literalType(strLit("x")).String())
	require.True(t, literalType(nil).IsEmpty())
}

func TestLiteralArrayTypeHomogeneousInts(t *testing.T) {
	arr := &ast.Node{Kind: ast.KindArrayLit, List: []*ast.Node{intLit(1), intLit(2), intLit(3)}}
	require.Equal(t, "int[]", literalType(arr).String())
}

func TestLiteralArrayTypeMixedFallsBackToArray(t *testing.T) {
	arr := &ast.Node{Kind: ast.KindArrayLit, List: []*ast.Node{intLit(1), strLit("x")}}
	require.Equal(t, "array", literalType(arr).String())
}

func TestLiteralArrayTypeEmpty(t *testing.T) {
	arr := &ast.Node{Kind: ast.KindArrayLit}
	require.Equal(t, "array", literalType(arr).String())
}

func TestLiteralArrayTypeOnlySamplesFirstFiveElements(t *testing.T) {
	// A 6th, differently-typed element beyond the 5-element peek must not
	// flip the inferred type away from int[] (§9 sampling heuristic).
	elems := []*ast.Node{intLit(1), intLit(2), intLit(3), intLit(4), intLit(5), strLit("not sampled")}
	arr := &ast.Node{Kind: ast.KindArrayLit, List: elems}
	require.Equal(t, "int[]", literalType(arr).String())
}
