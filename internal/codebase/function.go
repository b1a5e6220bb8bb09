package codebase

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/fqsen"
)

// Func is a free (non-method) function declaration.
type Func struct {
	Element

	Params        []*Param
	Body          *ast.Node
	RequiredCount int
	OptionalCount int
	IsVariadic    bool
	Yields        bool
	ReturnsRef    bool
}

// NewFunc creates an un-hydrated function record.
func NewFunc(f *fqsen.FQSEN, name string) *Func {
	return &Func{Element: Element{FQSEN: f, Name: name}}
}

// GlobalConstant is a top-level (non-class) constant declaration.
type GlobalConstant struct {
	Element
}

// NewGlobalConstant creates a global constant record.
func NewGlobalConstant(f *fqsen.FQSEN, name string) *GlobalConstant {
	return &GlobalConstant{Element: Element{FQSEN: f, Name: name}}
}
