package scope

import (
	"strings"

	"github.com/funvibe/funlint/internal/fqsen"
)

// UseKind distinguishes the three `use` flavors a namespace-use map can
// hold entries for.
type UseKind int

const (
	UseNormal UseKind = iota
	UseFunction
	UseConst
)

// useKey is (kind, alias) — the key under which a namespace-use map entry
// is registered.
type useKey struct {
	kind  UseKind
	alias string
}

// Context is the immutable analysis state at a point in the AST: file,
// line, namespace, use-map, scope, strict-typing flag, suppression set.
// Every mutator is a with_ method returning a new value; Context is never
// mutated in place, which is what makes scope-merge composition (§4.3)
// sound.
type Context struct {
	file        string
	line        int
	namespace   string
	useMap      map[useKey]string // alias -> fully qualified "Ns\Name"
	scope       *Scope
	strictTypes bool
	suppressed  map[string]bool
	classFQSEN  *fqsen.FQSEN
	funcFQSEN   *fqsen.FQSEN
}

// NewGlobalContext creates the starting Context for a file: global
// namespace, global scope, no suppressions.
func NewGlobalContext(file string) Context {
	return Context{file: file, line: 0, namespace: "", scope: NewGlobal()}
}

func (c Context) File() string       { return c.file }
func (c Context) Line() int          { return c.line }
func (c Context) Namespace() string  { return c.namespace }
func (c Context) Scope() *Scope      { return c.scope }
func (c Context) StrictTypes() bool  { return c.strictTypes }
func (c Context) ClassFQSEN() *fqsen.FQSEN { return c.classFQSEN }
func (c Context) FuncFQSEN() *fqsen.FQSEN  { return c.funcFQSEN }

func (c Context) WithLine(line int) Context { c.line = line; return c }

func (c Context) WithNamespace(ns string) Context { c.namespace = ns; return c }

func (c Context) WithScope(s *Scope) Context { c.scope = s; return c }

func (c Context) WithStrictTypes(strict bool) Context { c.strictTypes = strict; return c }

func (c Context) WithClassFQSEN(f *fqsen.FQSEN) Context { c.classFQSEN = f; return c }

func (c Context) WithFuncFQSEN(f *fqsen.FQSEN) Context { c.funcFQSEN = f; return c }

// WithUse registers a namespace-use entry (kind, alias) -> fully qualified
// name, returning a new Context with an extended map.
func (c Context) WithUse(kind UseKind, alias, fqName string) Context {
	m := make(map[useKey]string, len(c.useMap)+1)
	for k, v := range c.useMap {
		m[k] = v
	}
	m[useKey{kind, alias}] = fqName
	c.useMap = m
	return c
}

// WithSuppressed adds an issue-type name to the suppression set in effect
// for the current function/class scope (parsed from `@suppress` doc
// comments).
func (c Context) WithSuppressed(issueType string) Context {
	m := make(map[string]bool, len(c.suppressed)+1)
	for k := range c.suppressed {
		m[k] = true
	}
	m[issueType] = true
	c.suppressed = m
	return c
}

// IsSuppressed reports whether issueType is suppressed in this context.
func (c Context) IsSuppressed(issueType string) bool { return c.suppressed[issueType] }

// lookupUse resolves an alias against the use-map for the given kind.
func (c Context) lookupUse(kind UseKind, alias string) (string, bool) {
	v, ok := c.useMap[useKey{kind, alias}]
	return v, ok
}

// ResolveClassName implements typesystem.NameResolver: it resolves a bare
// or namespaced class name written in source against the `use` map, then
// falls back to the current namespace.
func (c Context) ResolveClassName(name string) (namespace, shortName string) {
	if strings.HasPrefix(name, "\\") {
		trimmed := strings.TrimPrefix(name, "\\")
		return splitNamespace(trimmed)
	}
	first := name
	rest := ""
	if idx := strings.IndexByte(name, '\\'); idx >= 0 {
		first = name[:idx]
		rest = name[idx:]
	}
	if fq, ok := c.lookupUse(UseNormal, first); ok {
		return splitNamespace(fq + rest)
	}
	return splitNamespace(joinNamespace(c.namespace, name))
}

// ResolveFunctionName resolves a bare function name against the
// use-function map; a name not found there resolves to the current
// namespace. The source language's fallback to the root namespace for an
// unqualified name not declared in the current namespace needs the
// CodeBase, so the caller (visit's evalFuncCall) applies it. A leading
// `\` marks the name as already fully qualified, as in ResolveClassName,
// and is stripped before any lookup.
func (c Context) ResolveFunctionName(name string) (namespace, shortName string) {
	if strings.HasPrefix(name, "\\") {
		return splitNamespace(strings.TrimPrefix(name, "\\"))
	}
	if fq, ok := c.lookupUse(UseFunction, name); ok {
		return splitNamespace(fq)
	}
	if c.namespace == "" {
		return "", name
	}
	return c.namespace, name
}

// ResolveConstName resolves a bare global-constant name against the
// use-const map.
func (c Context) ResolveConstName(name string) (namespace, shortName string) {
	if fq, ok := c.lookupUse(UseConst, name); ok {
		return splitNamespace(fq)
	}
	if c.namespace == "" {
		return "", name
	}
	return c.namespace, name
}

func splitNamespace(fq string) (string, string) {
	idx := strings.LastIndexByte(fq, '\\')
	if idx < 0 {
		return "", fq
	}
	return fq[:idx], fq[idx+1:]
}

func joinNamespace(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "\\" + name
}
