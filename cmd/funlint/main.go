// Command funlint is the thin driver around the core analysis engine.
// It never parses source itself (spec.md §1 places the AST-producing
// parser out of scope as an external collaborator); instead it reads
// already-parsed programs from AST dump files — JSON documents shaped
// like {"path": "...", "program": <ast.Node>} — and hands them to
// internal/driver.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/config"
	"github.com/funvibe/funlint/internal/driver"
	"github.com/funvibe/funlint/internal/issue"
	"github.com/funvibe/funlint/internal/signature"
)

// astDump is the on-disk shape an external parser front-end writes one
// of per translation unit.
type astDump struct {
	Path    string    `json:"path"`
	Program *ast.Node `json:"program"`
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-config path.yaml] [-dump-signatures] <ast-dump.json>...\n", os.Args[0])
}

func main() {
	var configPath string
	var dumpSignatures bool
	var inputs []string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-config" || arg == "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -config requires a path argument")
				os.Exit(1)
			}
			configPath = args[i+1]
			i++
		case arg == "-dump-signatures" || arg == "--dump-signatures":
			dumpSignatures = true
		case arg == "-help" || arg == "--help" || arg == "-h":
			usage()
			return
		default:
			inputs = append(inputs, arg)
		}
	}

	if len(inputs) == 0 {
		usage()
		os.Exit(1)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	files, err := loadFiles(inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	d, err := driver.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	issues, err := d.Run(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	printIssues(os.Stdout, issues)

	if dumpSignatures {
		// d.CB stays empty under Processes > 1 (each worker builds its own);
		// the signature dump is only meaningful for a single-process run.
		fmt.Println(signature.DumpAll(d.CB))
	}

	for _, ii := range issues {
		if ii.Issue.Severity >= issue.SeverityCritical {
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// loadFiles reads every AST dump named on the command line. A path may
// name a single dump file or a directory, in which case every
// "*.ast.json" entry inside it is loaded.
func loadFiles(inputs []string) ([]driver.File, error) {
	var paths []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", in, err)
		}
		if !info.IsDir() {
			paths = append(paths, in)
			continue
		}
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", in, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".ast.json") {
				paths = append(paths, filepath.Join(in, entry.Name()))
			}
		}
	}

	files := make([]driver.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		var dump astDump
		if err := json.Unmarshal(data, &dump); err != nil {
			return nil, fmt.Errorf("parsing AST dump %s: %w", p, err)
		}
		if dump.Path == "" {
			dump.Path = p
		}
		files = append(files, driver.File{Path: dump.Path, Program: dump.Program})
	}
	return files, nil
}

// severityColor returns the ANSI color code for sev, following the same
// isatty-gated approach the evaluator's terminal builtins use before
// emitting escape codes: never colorize unless stdout is a real terminal.
func severityColor(sev issue.Severity) string {
	switch {
	case sev >= issue.SeverityCritical:
		return "31" // red
	case sev >= issue.SeverityNormal:
		return "33" // yellow
	default:
		return "36" // cyan
	}
}

func printIssues(w *os.File, issues []issue.IssueInstance) {
	colorize := isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd())
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		colorize = false
	}
	for _, ii := range issues {
		label := ii.Issue.TypeName + " " + strconv.Itoa(int(ii.Issue.Severity))
		if colorize {
			label = "\x1b[" + severityColor(ii.Issue.Severity) + "m" + label + "\x1b[0m"
		}
		fmt.Fprintf(w, "%s:%d %s %s\n", ii.File, ii.Line, label, ii.Render())
	}
}
