package driver

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/codebase"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/driver/rpc"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/signature"
	"github.com/funvibe/funlint/internal/visit"
)

// RunDistributed implements §5's multiprocess analysis as in-process
// workers: each partition reparses every file into its own CodeBase
// (parsing is cheap relative to analysis, and this avoids shipping a
// built CodeBase across a process boundary) but only runs the
// AnalysisVisitor pass over its own partition's files, then the results
// are merged and re-sorted. Dead-code detection is never run here:
// config.Validate already rejects DeadCodeDetection && Processes > 1,
// since no single partition sees the whole program's reference counts.
//
// This is the in-tree default for Cfg.Processes > 1. Genuine OS-process
// isolation uses the same per-worker analysis function
// (workerAnalyze below) wrapped by ServeWorker/DialWorker over gRPC
// (rpc.NewServiceDesc/rpc.Analyze) instead of a goroutine, for callers
// that want worker crashes isolated from the parent.
func (d *Driver) RunDistributed(files []File) ([]issue.IssueInstance, error) {
	lookup := func(path string) *ast.Node {
		for _, f := range files {
			if f.Path == path {
				return f.Program
			}
		}
		return nil
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}

	partitions := Partition(files, d.Cfg.Processes)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []issue.IssueInstance
		errs    []error
	)
	for _, part := range partitions {
		if len(part) == 0 {
			continue
		}
		owned := make([]string, len(part))
		for i, f := range part {
			owned[i] = f.Path
		}
		// Each worker is stamped with its own run id so a failure or a
		// partial-merge log line can be traced back to the partition that
		// produced it (§5) — the same correlation problem the teacher's
		// test fixtures solve by stamping each case with a uuid.
		runID := uuid.New().String()
		wg.Add(1)
		go func(owned []string, runID string) {
			defer wg.Done()
			out, err := workerAnalyze(context.Background(), d.Cfg, d.Sigs, paths, owned, lookup)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("worker %s: %w", runID, err))
				return
			}
			results = append(results, out...)
		}(owned, runID)
	}
	wg.Wait()
	if len(errs) > 0 {
		return nil, fmt.Errorf("driver: %d worker(s) failed: %w", len(errs), errs[0])
	}

	// Each worker's collector.Flush() is raw, unfiltered output (workerAnalyze
	// runs in its own partition and has no view of d.Suppress/d.Cfg); the
	// suppress/whitelist/minimum-severity filter chain single-process Run
	// applies via d.flush() must still run once over the merged set, or a
	// config that silences issues in-process would stop doing so the moment
	// Processes > 1.
	filter := issue.Chain(d.Suppress.AsFilter(), issue.MinSeverity(issue.Severity(d.Cfg.MinimumSeverity)))
	out := make([]issue.IssueInstance, 0, len(results))
	for _, ii := range results {
		if filter.Allow(ii) {
			out = append(out, ii)
		}
	}
	return Sorted(out), nil
}

// workerAnalyze is the unit of work one partition performs, shared by
// both the in-process goroutine path above and the gRPC subprocess path
// below: parse every file in allFiles into a fresh CodeBase, then run
// the AnalysisVisitor only over ownedFiles.
func workerAnalyze(ctx context.Context, cfg *config.Config, sigs *signature.Bundle, allFiles, ownedFiles []string, lookup func(string) *ast.Node) ([]issue.IssueInstance, error) {
	cb := codebase.New()
	collector := issue.NewCollector()
	env := &visit.Env{CB: cb, Cfg: cfg, Collector: collector, Sigs: sigs}

	pv := visit.NewParseVisitor(cb)
	for _, path := range allFiles {
		prog := lookup(path)
		if prog == nil {
			return nil, fmt.Errorf("driver: worker: no parsed program for %s", path)
		}
		pv.ParseFile(path, prog, collector)
	}
	for _, path := range ownedFiles {
		env.AnalyzeFile(path, lookup(path))
	}
	return collector.Flush(), nil
}

// ServeWorker runs a worker subprocess's gRPC server on a Unix domain
// socket at sockPath, handling exactly one Analyze call before returning
// — a worker subprocess serves one partition and exits (§5 treats
// Processes as a fixed split decided once per run, not a long-lived pool).
// lookup resolves a file path to its already-parsed Program, exactly as
// the in-process path needs; a real cmd/funlint worker entry point
// parses its own copy of allFiles on startup and passes the resulting
// lookup function here.
func ServeWorker(sockPath string, cfg *config.Config, sigs *signature.Bundle, lookup func(string) *ast.Node) error {
	_ = os.Remove(sockPath)
	lis, err := net.Listen("unix", sockPath)
	if err != nil {
		return fmt.Errorf("driver: worker: listening on %s: %w", sockPath, err)
	}
	defer lis.Close()

	srv := grpc.NewServer()
	desc, impl, err := rpc.NewServiceDesc(func(ctx context.Context, allFiles, ownedFiles []string) ([]issue.IssueInstance, error) {
		// Stop accepting further RPCs once this partition's single Analyze
		// call is in flight: a worker subprocess serves exactly one
		// partition and exits rather than lingering as a pool (§5).
		// GracefulStop runs in its own goroutine since calling it
		// synchronously here would block on the very stream it is about
		// to let finish sending its reply.
		defer func() { go srv.GracefulStop() }()
		return workerAnalyze(ctx, cfg, sigs, allFiles, ownedFiles, lookup)
	})
	if err != nil {
		return err
	}
	srv.RegisterService(desc, impl)
	return srv.Serve(lis)
}

// DialWorker connects to a worker subprocess already listening on
// sockPath (via ServeWorker) and runs the Analyze RPC against it,
// returning the diagnostics it streams back.
func DialWorker(ctx context.Context, sockPath string, allFiles, ownedFiles []string) ([]issue.IssueInstance, error) {
	cc, err := grpc.NewClient("unix:"+sockPath, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("driver: dialing worker at %s: %w", sockPath, err)
	}
	defer cc.Close()
	return rpc.Analyze(ctx, cc, allFiles, ownedFiles)
}
