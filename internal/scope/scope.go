// Package scope implements the per-analysis-point Scope and Context
// records described by the core: variable bindings, the namespace-use
// map, and the immutable copy-and-update Context that threads through
// every visitor.
package scope

import (
	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/typesystem"
)

// Kind distinguishes the four scope variants.
type Kind int

const (
	Global Kind = iota
	Class
	FunctionLike
	Block
)

// VariableFlags carries bits unrelated to type: pass-by-reference
// parameter, etc.
type VariableFlags uint8

const (
	FlagByRefParam VariableFlags = 1 << iota
	FlagSuperglobal
)

// Variable is a name bound to a union type within a Scope.
type Variable struct {
	Name  string
	Type  typesystem.UnionType
	Flags VariableFlags
}

func (v Variable) IsByRefParam() bool { return v.Flags&FlagByRefParam != 0 }

// Scope is an immutable variable-binding record. Mutating operations
// (WithVariable, WithoutVariable) return a new Scope; branching constructs clone by
// simply keeping the old Scope around and building a new one for each
// branch, so sizes are always modest (tens of locals).
type Scope struct {
	kind        Kind
	classFQSEN  *fqsen.FQSEN
	templateMap map[string]typesystem.UnionType
	vars        map[string]Variable
}

// NewGlobal creates the outermost scope.
func NewGlobal() *Scope {
	return &Scope{kind: Global, vars: map[string]Variable{}}
}

// NewClass creates a class scope carrying the class's own FQSEN (for the
// injected `this` variable) and its template-parameter map.
func NewClass(classFQSEN *fqsen.FQSEN, templateMap map[string]typesystem.UnionType) *Scope {
	s := &Scope{kind: Class, classFQSEN: classFQSEN, templateMap: templateMap, vars: map[string]Variable{}}
	if classFQSEN != nil {
		s.vars["this"] = Variable{
			Name: "this",
			Type: typesystem.FromTypes(typesystem.ClassType{Namespace: classFQSEN.Namespace(), Name: classFQSEN.Name()}),
		}
	}
	return s
}

// NewFunctionLike creates a closed function/method/closure scope. It does
// NOT inherit variables from outer — callers wishing to capture `use`
// variables from an enclosing closure add them explicitly afterward.
func NewFunctionLike(enclosingClass *Scope) *Scope {
	s := &Scope{kind: FunctionLike, vars: map[string]Variable{}}
	if enclosingClass != nil && enclosingClass.kind == Class {
		s.classFQSEN = enclosingClass.classFQSEN
		s.templateMap = enclosingClass.templateMap
		if v, ok := enclosingClass.vars["this"]; ok {
			s.vars["this"] = v
		}
	}
	return s
}

// Clone returns a block-clone scope: a full copy of the variable map so
// sibling branches can diverge independently.
func (s *Scope) Clone() *Scope {
	out := &Scope{kind: Block, classFQSEN: s.classFQSEN, templateMap: s.templateMap, vars: make(map[string]Variable, len(s.vars))}
	for k, v := range s.vars {
		out.vars[k] = v
	}
	return out
}

func (s *Scope) Kind() Kind                 { return s.kind }
func (s *Scope) ClassFQSEN() *fqsen.FQSEN   { return s.classFQSEN }
func (s *Scope) TemplateMap() map[string]typesystem.UnionType { return s.templateMap }

// GetVariable looks up a binding by name.
func (s *Scope) GetVariable(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// WithVariable returns a new Scope with name rebound to the given
// variable; the receiver is left untouched.
func (s *Scope) WithVariable(v Variable) *Scope {
	out := s.Clone()
	out.vars[v.Name] = v
	return out
}

// WithoutVariable returns a new Scope with name unbound.
func (s *Scope) WithoutVariable(name string) *Scope {
	out := s.Clone()
	delete(out.vars, name)
	return out
}

// Variables returns a snapshot of every bound name. Callers must not
// mutate the returned map.
func (s *Scope) Variables() map[string]Variable { return s.vars }
