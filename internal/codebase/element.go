// Package codebase implements CodeBase, the authoritative process-wide
// registry of classes, interfaces, traits, methods, properties, class
// constants, functions, and global constants keyed by FQSEN, along with
// ancestor hydration and reference counting (§4.1).
package codebase

import (
	"sync"

	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/scope"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Visibility mirrors the three access levels member elements may declare.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

// Element holds the fields common to every addressable symbol: classes,
// methods, properties, class constants, functions, global constants. The
// CodeBase stores elements in FQSEN-keyed maps of pointers and hands those
// pointers to its callers; a member refers to its class by FQSEN rather
// than by pointer, so the cyclic class<->member ownership the source
// language's hierarchy implies never has to exist here (§9).
type Element struct {
	FQSEN          *fqsen.FQSEN
	Name           string
	Type           typesystem.UnionType
	Context        scope.Context
	IsDeprecated   bool
	SuppressIssues map[string]bool

	mu         sync.Mutex
	references map[string]bool // "file:line" location keys
}

// AddReference records that this element was used at file:line.
func (e *Element) AddReference(file string, line int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.references == nil {
		e.references = map[string]bool{}
	}
	e.references[refKey(file, line)] = true
}

// ReferenceCount returns how many distinct call/use sites reference this
// element directly (not counting member aggregation, see Clazz.ReferenceCount).
func (e *Element) ReferenceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.references)
}

func refKey(file string, line int) string {
	return file + ":" + itoa(line)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// IsSuppressed reports whether issueType is suppressed via this element's
// own `@suppress` doc-comment annotation.
func (e *Element) IsSuppressed(issueType string) bool {
	return e.SuppressIssues[issueType]
}
