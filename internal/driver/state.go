package driver

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"hash"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/funvibe/funlint/internal/ast"
)

// StateFile is the single opaque state file spec.md §1's Non-goals
// permits ("no incremental persistence across invocations beyond a
// single opaque state file, not re-specified here"): a SQLite database,
// pure-Go via modernc.org/sqlite (no cgo), holding one table mapping a
// file path to the hash of its contents as of the last run that parsed
// it. It is consulted only to decide whether a file's ParseVisitor pass
// can be skipped on a subsequent run of the *same* process — never
// mid-run, and never across a multiprocess split (each worker's view of
// "last seen" would disagree with its siblings').
type StateFile struct {
	db *sql.DB
}

// OpenStateFile opens (creating if absent) the state database at path.
func OpenStateFile(path string) (*StateFile, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("driver: opening state file %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS file_hashes (
		path TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("driver: initializing state file schema: %w", err)
	}
	return &StateFile{db: db}, nil
}

func (s *StateFile) Close() error { return s.db.Close() }

// Hash is a convenience for callers computing the content_hash column's
// value from a file's source bytes.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Unchanged reports whether path's previously recorded content hash
// matches hash, meaning its ParseVisitor pass can be skipped this run.
func (s *StateFile) Unchanged(path, hash string) (bool, error) {
	var stored string
	err := s.db.QueryRow(`SELECT content_hash FROM file_hashes WHERE path = ?`, path).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("driver: reading state for %s: %w", path, err)
	}
	return stored == hash, nil
}

// Record stores path's current content hash, superseding any prior entry.
func (s *StateFile) Record(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO file_hashes (path, content_hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash`,
		path, hash,
	)
	if err != nil {
		return fmt.Errorf("driver: recording state for %s: %w", path, err)
	}
	return nil
}

// Fingerprint computes a deterministic content hash standing in for a raw
// source hash: the AST-producing parser is an external collaborator out
// of scope (§1), so parseStage never sees source bytes, only the Program
// node already synthesized from them. Hashing the AST's own shape (node
// kind/flags/line/doc/value, children by sorted key, list children in
// order) gives the same "did this file change since last run" signal
// Unchanged/Record need.
func Fingerprint(n *ast.Node) string {
	h := sha256.New()
	writeNode(h, n)
	return hex.EncodeToString(h.Sum(nil))
}

func writeNode(h hash.Hash, n *ast.Node) {
	if n == nil {
		h.Write([]byte{0})
		return
	}
	fmt.Fprintf(h, "k%d|f%d|l%d|d%q|v%v|", n.Kind, n.Flags, n.Line, n.Doc, n.Value)
	keys := make([]string, 0, len(n.Children))
	for k := range n.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "c(%s)=", k)
		writeNode(h, n.Children[k])
	}
	fmt.Fprintf(h, "n%d[", len(n.List))
	for _, c := range n.List {
		writeNode(h, c)
	}
	h.Write([]byte{']'})
}
