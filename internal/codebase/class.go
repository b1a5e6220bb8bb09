package codebase

import (
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Clazz represents a class, interface, or trait declaration.
type Clazz struct {
	Element

	ParentFQSEN        *fqsen.FQSEN
	ParentTemplateArgs []typesystem.UnionType // template args bound on the `extends` clause, e.g. extends Container<int>
	InterfaceFQSENs    []*fqsen.FQSEN
	TraitFQSENs        []*fqsen.FQSEN

	TemplateParams []string // @template identifiers, in declaration order

	IsInterface bool
	IsTrait     bool
	IsAbstract  bool
	IsFinal     bool

	// AllowsMissingProperties mirrors the source language's open-shape
	// standard class and the `allow_missing_properties` config flag:
	// property writes to an unknown name synthesize the property instead
	// of raising PhanUndeclaredProperty.
	AllowsMissingProperties bool

	Properties map[string]*Property
	Methods    map[string]*Method
	Constants  map[string]*ClassConstant

	Hydrated bool
}

// NewClazz creates an empty, un-hydrated class record.
func NewClazz(f *fqsen.FQSEN, name string) *Clazz {
	return &Clazz{
		Element:    Element{FQSEN: f, Name: name},
		Properties: map[string]*Property{},
		Methods:    map[string]*Method{},
		Constants:  map[string]*ClassConstant{},
	}
}

// DeclaresMethod reports whether c's source itself declares a method of
// this name, whether or not it happens to share a name with (and so
// override) an ancestor's member. After hydration c.Methods also holds
// imported ancestor methods, so presence in the map can't answer "did c
// write this method". DefiningFQSEN can: an imported member keeps the
// ancestor's DefiningFQSEN (Method.Clone copies it), while a method c
// declares carries c's own method FQSEN.
func (c *Clazz) DeclaresMethod(name string) bool {
	m, ok := c.Methods[name]
	if !ok || m.DefiningFQSEN == nil {
		return false
	}
	return m.DefiningFQSEN.String() == fqsen.NewMethod(c.FQSEN, name).String()
}

// ReferenceCount aggregates the class's own reference count plus every
// member's, the total §4.1 dead-code detection consults.
func (c *Clazz) ReferenceCount() int {
	total := c.Element.ReferenceCount()
	for _, m := range c.Methods {
		total += m.ReferenceCount()
	}
	for _, p := range c.Properties {
		total += p.ReferenceCount()
	}
	for _, cc := range c.Constants {
		total += cc.ReferenceCount()
	}
	return total
}
