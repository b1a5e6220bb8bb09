// Package fqsen implements interned Fully Qualified Structural Element Names:
// canonical, reference-equal identifiers for classes, interfaces, traits,
// methods, properties, class constants, functions, and global constants.
package fqsen

import (
	"fmt"
	"sync"
)

// Kind identifies which structural element an FQSEN names.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindTrait
	KindFunction
	KindGlobalConstant
	KindMethod
	KindProperty
	KindClassConstant
	KindClosure
)

func (k Kind) isClassMember() bool {
	return k == KindMethod || k == KindProperty || k == KindClassConstant
}

// FQSEN is an immutable, interned identifier. Always handled by pointer;
// two FQSENs naming the same element are the same pointer, so map keying
// by *FQSEN is both correct and fast.
type FQSEN struct {
	kind      Kind
	namespace string // global-structural only; "\" for root
	name      string
	class     *FQSEN // class-member only: the containing class
	alt       int    // alternate id; 0 means "no suffix"
}

func (f *FQSEN) Kind() Kind { return f.kind }
func (f *FQSEN) Name() string { return f.name }
func (f *FQSEN) Namespace() string {
	if f.class != nil {
		return f.class.namespace
	}
	return f.namespace
}
func (f *FQSEN) Class() *FQSEN    { return f.class }
func (f *FQSEN) Alternate() int   { return f.alt }
func (f *FQSEN) IsClassMember() bool { return f.kind.isClassMember() }

// String renders the canonical textual form: \Ns\Name, \Ns\Name::member,
// optionally suffixed ",<alt>".
func (f *FQSEN) String() string {
	var base string
	if f.class != nil {
		base = fmt.Sprintf("%s::%s", f.class.canonicalBase(), f.name)
	} else {
		base = f.canonicalBase()
	}
	if f.alt != 0 {
		return fmt.Sprintf("%s,%d", base, f.alt)
	}
	return base
}

func (f *FQSEN) canonicalBase() string {
	ns := f.namespace
	if ns == "" {
		ns = "\\"
	}
	if ns == "\\" {
		return "\\" + f.name
	}
	return ns + "\\" + f.name
}

var (
	internMu sync.Mutex
	intern   = make(map[string]*FQSEN)
)

func internedKey(kind Kind, namespace, name string, class *FQSEN, alt int) string {
	if class != nil {
		return fmt.Sprintf("M:%d:%p:%s:%d", kind, class, name, alt)
	}
	return fmt.Sprintf("G:%d:%s:%s:%d", kind, namespace, name, alt)
}

func lookupOrCreate(kind Kind, namespace, name string, class *FQSEN, alt int) *FQSEN {
	internMu.Lock()
	defer internMu.Unlock()
	key := internedKey(kind, namespace, name, class, alt)
	if f, ok := intern[key]; ok {
		return f
	}
	f := &FQSEN{kind: kind, namespace: namespace, name: name, class: class, alt: alt}
	intern[key] = f
	return f
}

// NewClass interns a class FQSEN (alternate id 0).
func NewClass(namespace, name string) *FQSEN { return lookupOrCreate(KindClass, namespace, name, nil, 0) }

// NewInterface interns an interface FQSEN.
func NewInterface(namespace, name string) *FQSEN {
	return lookupOrCreate(KindInterface, namespace, name, nil, 0)
}

// NewTrait interns a trait FQSEN.
func NewTrait(namespace, name string) *FQSEN { return lookupOrCreate(KindTrait, namespace, name, nil, 0) }

// NewFunction interns a free-function FQSEN.
func NewFunction(namespace, name string) *FQSEN {
	return lookupOrCreate(KindFunction, namespace, name, nil, 0)
}

// NewGlobalConstant interns a global constant FQSEN.
func NewGlobalConstant(namespace, name string) *FQSEN {
	return lookupOrCreate(KindGlobalConstant, namespace, name, nil, 0)
}

// NewMethod interns a method FQSEN scoped to class.
func NewMethod(class *FQSEN, name string) *FQSEN {
	return lookupOrCreate(KindMethod, "", name, class, 0)
}

// NewProperty interns a property FQSEN scoped to class.
func NewProperty(class *FQSEN, name string) *FQSEN {
	return lookupOrCreate(KindProperty, "", name, class, 0)
}

// NewClassConstant interns a class-constant FQSEN scoped to class.
func NewClassConstant(class *FQSEN, name string) *FQSEN {
	return lookupOrCreate(KindClassConstant, "", name, class, 0)
}

// WithAlternateID returns the interned FQSEN sharing every field except a
// bumped alternate id, used when a second declaration collides with an
// already-registered base FQSEN.
func (f *FQSEN) WithAlternateID(alt int) *FQSEN {
	return lookupOrCreate(f.kind, f.namespace, f.name, f.class, alt)
}

// Equal reports whether two FQSEN pointers name the same element. Since
// every FQSEN is interned, pointer equality already implies this, but the
// helper exists so callers never have to remember that invariant.
func Equal(a, b *FQSEN) bool { return a == b }
