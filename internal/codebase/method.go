package codebase

import (
	"github.com/funvibe/funlint/internal/ast"
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Param describes one formal parameter of a Method or Func.
type Param struct {
	Name        string
	Type        typesystem.UnionType
	ByRef       bool
	Variadic    bool
	HasDefault  bool
	DefaultType typesystem.UnionType
}

// Method is a class/interface/trait member function.
type Method struct {
	Element

	ClassFQSEN *fqsen.FQSEN
	Params     []*Param
	Body       *ast.Node // the method's statement block, for analyses that must walk it (parent-ctor-called)

	RequiredCount int
	OptionalCount int
	IsVariadic    bool
	Yields        bool
	IsStatic      bool
	IsAbstract    bool
	ReturnsRef    bool
	Visibility    Visibility
	IsConstructor bool

	// IsOverride is set by hydration when an ancestor member of the same
	// name was discarded in this member's favor (§4.1 member import rule).
	IsOverride bool

	// DefiningFQSEN is preserved across import: it names the method as
	// originally declared, even after being copied into a descendant's
	// Methods map with a retargeted ClassFQSEN.
	DefiningFQSEN *fqsen.FQSEN
}

// NewMethod creates an un-hydrated method record.
func NewMethod(f *fqsen.FQSEN, class *fqsen.FQSEN, name string) *Method {
	return &Method{Element: Element{FQSEN: f, Name: name}, ClassFQSEN: class, DefiningFQSEN: f}
}

// Clone makes a shallow copy suitable for re-homing onto a descendant
// class during ancestor hydration (§4.1): same DefiningFQSEN, new
// ClassFQSEN and FQSEN.
func (m *Method) Clone(newClassFQSEN *fqsen.FQSEN) *Method {
	cp := *m
	cp.ClassFQSEN = newClassFQSEN
	cp.FQSEN = fqsen.NewMethod(newClassFQSEN, m.Name)
	cp.IsOverride = false
	params := make([]*Param, len(m.Params))
	copy(params, m.Params)
	cp.Params = params
	return &cp
}
