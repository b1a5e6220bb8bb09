package driver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/signature"
)

func TestServeWorkerDialWorkerRoundTrip(t *testing.T) {
	program := ast.New(ast.KindProgram, 1).WithList(
		funcDecl(1, "caller", callExprStmt(2, "undeclaredHelper")),
	)
	lookup := func(path string) *ast.Node {
		if path == "a.php" {
			return program
		}
		return nil
	}

	sigs, err := signature.Load()
	require.NoError(t, err)

	sockPath := filepath.Join(t.TempDir(), "worker.sock")
	errCh := make(chan error, 1)
	go func() {
		errCh <- ServeWorker(sockPath, config.Default(), sigs, lookup)
	}()

	// ServeWorker starts listening synchronously inside the call, but the
	// goroutine above needs a moment to reach net.Listen before DialWorker
	// tries to connect.
	deadline := time.Now().Add(2 * time.Second)
	var issues []struct {
		File string
		Line int
		Type string
	}
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		out, dialErr := DialWorker(ctx, sockPath, []string{"a.php"}, []string{"a.php"})
		cancel()
		if dialErr == nil {
			for _, ii := range out {
				issues = append(issues, struct {
					File string
					Line int
					Type string
				}{ii.File, ii.Line, ii.Issue.TypeName})
			}
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Len(t, issues, 1)
	require.Equal(t, "a.php", issues[0].File)
	require.Equal(t, 2, issues[0].Line)
	require.Equal(t, "PhanUndeclaredFunction", issues[0].Type)
}
