// Package typesystem implements the type lattice described by the core:
// native, class, generic-array, callable, and template types, plus the
// UnionType sets built from them and the can-cast-to relation.
package typesystem

import (
	"fmt"
	"strings"

	"github.com/funvibe/funlint/internal/fqsen"
)

// NativeKind enumerates the built-in scalar and pseudo types.
type NativeKind int

const (
	Array NativeKind = iota
	Bool
	Callable
	Float
	Int
	Null
	Object
	String
	Mixed
	Void
	Resource
	Static
)

func (k NativeKind) String() string {
	switch k {
	case Array:
		return "array"
	case Bool:
		return "bool"
	case Callable:
		return "callable"
	case Float:
		return "float"
	case Int:
		return "int"
	case Null:
		return "null"
	case Object:
		return "object"
	case String:
		return "string"
	case Mixed:
		return "mixed"
	case Void:
		return "void"
	case Resource:
		return "resource"
	case Static:
		return "static"
	default:
		return "?"
	}
}

// Type is the tagged-variant interface shared by every member of the
// lattice. Implementations are small immutable value types.
type Type interface {
	String() string
	Equal(Type) bool
	isType()
}

// NativeType is one of the built-in scalar/pseudo kinds.
type NativeType struct{ Kind NativeKind }

func (t NativeType) String() string { return t.Kind.String() }
func (t NativeType) isType()        {}
func (t NativeType) Equal(o Type) bool {
	ot, ok := o.(NativeType)
	return ok && ot.Kind == t.Kind
}

// ClassType names a class/interface/trait, optionally parameterized by
// template-argument union types (e.g. Container<int>).
type ClassType struct {
	Namespace      string
	Name           string
	TemplateParams []UnionType
}

func (t ClassType) isType() {}
func (t ClassType) String() string {
	ns := t.Namespace
	if ns == "" || ns == "\\" {
		ns = "\\"
	} else {
		ns = ns + "\\"
	}
	base := ns + t.Name
	if len(t.TemplateParams) == 0 {
		return base
	}
	parts := make([]string, len(t.TemplateParams))
	for i, p := range t.TemplateParams {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s<%s>", base, strings.Join(parts, ","))
}
func (t ClassType) Equal(o Type) bool {
	ot, ok := o.(ClassType)
	if !ok || ot.Namespace != t.Namespace || ot.Name != t.Name {
		return false
	}
	if len(ot.TemplateParams) != len(t.TemplateParams) {
		return false
	}
	for i := range t.TemplateParams {
		if !t.TemplateParams[i].Equal(ot.TemplateParams[i]) {
			return false
		}
	}
	return true
}

// FQSEN returns the interned class FQSEN this type names.
func (t ClassType) FQSEN() *fqsen.FQSEN { return fqsen.NewClass(t.Namespace, t.Name) }

// GenericArrayType is T[] for some element Type.
type GenericArrayType struct{ Element Type }

func (t GenericArrayType) isType()        {}
func (t GenericArrayType) String() string { return t.Element.String() + "[]" }
func (t GenericArrayType) Equal(o Type) bool {
	ot, ok := o.(GenericArrayType)
	return ok && t.Element.Equal(ot.Element)
}

// CallableType is `callable`, optionally bound to a specific closure FQSEN
// (e.g. the type of a closure literal at a particular declaration site).
type CallableType struct{ Closure *fqsen.FQSEN }

func (t CallableType) isType() {}
func (t CallableType) String() string {
	if t.Closure == nil {
		return "callable"
	}
	return "callable(" + t.Closure.String() + ")"
}
func (t CallableType) Equal(o Type) bool {
	ot, ok := o.(CallableType)
	return ok && ot.Closure == t.Closure
}

// TemplateType is a named type parameter awaiting substitution.
type TemplateType struct{ Identifier string }

func (t TemplateType) isType()        {}
func (t TemplateType) String() string { return t.Identifier }
func (t TemplateType) Equal(o Type) bool {
	ot, ok := o.(TemplateType)
	return ok && ot.Identifier == t.Identifier
}

// FromObject lifts a Go literal value to its native Type, mirroring
// Type::from_object in the source system.
func FromObject(v interface{}) Type {
	switch v.(type) {
	case bool:
		return NativeType{Bool}
	case int, int32, int64:
		return NativeType{Int}
	case float32, float64:
		return NativeType{Float}
	case string:
		return NativeType{String}
	case nil:
		return NativeType{Null}
	default:
		return NativeType{Mixed}
	}
}
