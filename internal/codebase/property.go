package codebase

import "github.com/funvibe/funlint/internal/fqsen"

// Property is a class/trait member variable.
type Property struct {
	Element

	ClassFQSEN    *fqsen.FQSEN
	Visibility    Visibility
	IsStatic      bool
	IsOverride    bool
	DefiningFQSEN *fqsen.FQSEN
}

// NewProperty creates an un-hydrated property record.
func NewProperty(f *fqsen.FQSEN, class *fqsen.FQSEN, name string) *Property {
	return &Property{Element: Element{FQSEN: f, Name: name}, ClassFQSEN: class, DefiningFQSEN: f}
}

// Clone re-homes this property onto a descendant class during hydration.
func (p *Property) Clone(newClassFQSEN *fqsen.FQSEN) *Property {
	cp := *p
	cp.ClassFQSEN = newClassFQSEN
	cp.FQSEN = fqsen.NewProperty(newClassFQSEN, p.Name)
	cp.IsOverride = false
	return &cp
}

// ClassConstant is a class/interface/trait constant.
type ClassConstant struct {
	Element

	ClassFQSEN   *fqsen.FQSEN
	IsOverride   bool
	DefiningFQSEN *fqsen.FQSEN
}

// NewClassConstant creates an un-hydrated class-constant record.
func NewClassConstant(f *fqsen.FQSEN, class *fqsen.FQSEN, name string) *ClassConstant {
	return &ClassConstant{Element: Element{FQSEN: f, Name: name}, ClassFQSEN: class, DefiningFQSEN: f}
}

// Clone re-homes this constant onto a descendant class during hydration.
func (cc *ClassConstant) Clone(newClassFQSEN *fqsen.FQSEN) *ClassConstant {
	cp := *cc
	cp.ClassFQSEN = newClassFQSEN
	cp.FQSEN = fqsen.NewClassConstant(newClassFQSEN, cc.Name)
	cp.IsOverride = false
	return &cp
}
