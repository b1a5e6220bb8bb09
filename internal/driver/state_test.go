package driver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/config"
)

func TestStateFileRecordsAndReportsUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	sf, err := OpenStateFile(path)
	require.NoError(t, err)
	defer sf.Close()

	hash := Hash([]byte("hello"))

	unchanged, err := sf.Unchanged("a.php", hash)
	require.NoError(t, err)
	require.False(t, unchanged, "no prior record means never 'unchanged'")

	require.NoError(t, sf.Record("a.php", hash))

	unchanged, err = sf.Unchanged("a.php", hash)
	require.NoError(t, err)
	require.True(t, unchanged)

	unchanged, err = sf.Unchanged("a.php", Hash([]byte("different")))
	require.NoError(t, err)
	require.False(t, unchanged)
}

func TestStateFileRecordSupersedesPriorEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	sf, err := OpenStateFile(path)
	require.NoError(t, err)
	defer sf.Close()

	require.NoError(t, sf.Record("a.php", Hash([]byte("v1"))))
	require.NoError(t, sf.Record("a.php", Hash([]byte("v2"))))

	unchanged, err := sf.Unchanged("a.php", Hash([]byte("v1")))
	require.NoError(t, err)
	require.False(t, unchanged)

	unchanged, err = sf.Unchanged("a.php", Hash([]byte("v2")))
	require.NoError(t, err)
	require.True(t, unchanged)
}

func TestFingerprintIsDeterministicAndSensitiveToContent(t *testing.T) {
	build := func(name string) *ast.Node {
		return ast.New(ast.KindProgram, 1).WithList(funcDecl(1, name))
	}

	a1 := Fingerprint(build("helper"))
	a2 := Fingerprint(build("helper"))
	require.Equal(t, a1, a2)

	b := Fingerprint(build("other"))
	require.NotEqual(t, a1, b)
}

func TestDriverRunSkipsReparseOfUnchangedFileAcrossRunsOnSameProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	sf, err := OpenStateFile(path)
	require.NoError(t, err)
	defer sf.Close()

	d, err := New(config.Default())
	require.NoError(t, err)
	d.State = sf

	program := ast.New(ast.KindProgram, 1).WithList(funcDecl(1, "helper"))
	files := []File{{Path: "a.php", Program: program}}

	issues, err := d.Run(files)
	require.NoError(t, err)
	require.Empty(t, issues)

	// A second run of the *same* Driver (same CodeBase, same process) over
	// an unchanged file must not re-run ParseVisitor: if it did, the
	// function would collide with its own already-registered FQSEN and
	// surface a PhanRedefineFunction diagnostic.
	issues, err = d.Run(files)
	require.NoError(t, err)
	require.Empty(t, issues, "an unchanged file must not be reparsed and redefine its own declarations")
}

func TestDriverRunReparsesChangedFileAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	sf, err := OpenStateFile(path)
	require.NoError(t, err)
	defer sf.Close()

	d, err := New(config.Default())
	require.NoError(t, err)
	d.State = sf

	first := ast.New(ast.KindProgram, 1).WithList(funcDecl(1, "helper"))
	_, err = d.Run([]File{{Path: "a.php", Program: first}})
	require.NoError(t, err)

	// A change in AST shape (a new function added) must be detected as a
	// different fingerprint and reparsed, redeclaring "helper" again and
	// surfacing the expected redefinition diagnostic.
	second := ast.New(ast.KindProgram, 1).WithList(funcDecl(1, "helper"), funcDecl(3, "other"))
	issues, err := d.Run([]File{{Path: "a.php", Program: second}})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, "PhanRedefineFunction", issues[0].Issue.TypeName)
}
