package codebase

import (
	"fmt"
	"sync"

	"github.com/funvibe/funlint/internal/fqsen"
	"github.com/funvibe/funlint/internal/issue"
)

// ErrMissingSymbol is returned by the total `Get*ByFQSEN` accessors when
// the requested FQSEN is absent, mirroring the internal MissingSymbol
// failure of §7: callers recover by emitting the matching `Undeclared*`
// diagnostic rather than propagating a Go error to the driver.
type ErrMissingSymbol struct{ FQSEN *fqsen.FQSEN }

func (e *ErrMissingSymbol) Error() string {
	return fmt.Sprintf("codebase: missing symbol %s", e.FQSEN.String())
}

// CodeBase is the process-wide, mutable symbol-table registry (§4.1). It
// is confined to a single worker process (§5): CodeBase itself holds no
// synchronization beyond what's needed to let `hydrate` and member
// lookups run safely out of strict program order during a single file's
// analysis.
type CodeBase struct {
	mu sync.RWMutex

	classes     map[*fqsen.FQSEN]*Clazz
	classByName map[string][]*Clazz // base canonical name -> every alternate, in declaration order

	funcs     map[*fqsen.FQSEN]*Func
	funcByName map[string][]*Func

	globalConsts map[*fqsen.FQSEN]*GlobalConstant
}

// New creates an empty registry.
func New() *CodeBase {
	return &CodeBase{
		classes:      map[*fqsen.FQSEN]*Clazz{},
		classByName:  map[string][]*Clazz{},
		funcs:        map[*fqsen.FQSEN]*Func{},
		funcByName:   map[string][]*Func{},
		globalConsts: map[*fqsen.FQSEN]*GlobalConstant{},
	}
}

// AddClass inserts c by FQSEN. Re-adding a class already present under the
// same base FQSEN bumps an alternate id on the newcomer and returns a
// RedefineClass diagnostic for the caller (ParseVisitor) to emit; the
// class is still registered, under its bumped FQSEN, so later passes can
// resolve it (Property 2).
func (cb *CodeBase) AddClass(c *Clazz) (registered *Clazz, conflict *issue.IssueInstance) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	base := c.FQSEN.String()
	existing := cb.classByName[base]
	if len(existing) > 0 {
		alt := len(existing)
		c.FQSEN = c.FQSEN.WithAlternateID(alt)
		ii := issue.New(issue.RedefineClass, c.Context.File(), c.Context.Line(), base)
		cb.classes[c.FQSEN] = c
		cb.classByName[base] = append(existing, c)
		return c, &ii
	}
	cb.classes[c.FQSEN] = c
	cb.classByName[base] = []*Clazz{c}
	return c, nil
}

// GetClassByFQSEN is total: MissingSymbol when absent.
func (cb *CodeBase) GetClassByFQSEN(f *fqsen.FQSEN) (*Clazz, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	c, ok := cb.classes[f]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return c, nil
}

// HasClassWithFQSEN mirrors GetClassByFQSEN's success exactly (Property 1).
func (cb *CodeBase) HasClassWithFQSEN(f *fqsen.FQSEN) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	_, ok := cb.classes[f]
	return ok
}

// GetClassByName finds a class by (namespace, name) — the common lookup
// path before a caller has an interned FQSEN in hand. Looked up through
// the canonical-name index rather than the FQSEN-pointer map: a
// ClassType carries no Kind, so a reference to "Ns\Name" must resolve the
// same way whether Ns\Name was declared a class, interface, or trait
// (their FQSENs are distinct pointers despite sharing one String() form).
func (cb *CodeBase) GetClassByName(namespace, name string) (*Clazz, bool) {
	base := fqsen.NewClass(namespace, name).String()
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	list, ok := cb.classByName[base]
	if !ok || len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// AllClasses returns every registered class, including alternates.
func (cb *CodeBase) AllClasses() []*Clazz {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	out := make([]*Clazz, 0, len(cb.classes))
	for _, c := range cb.classes {
		out = append(out, c)
	}
	return out
}

// AddFunc inserts f, bumping an alternate id and returning a
// RedefineFunction diagnostic on collision, mirroring AddClass.
func (cb *CodeBase) AddFunc(fn *Func) (registered *Func, conflict *issue.IssueInstance) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	base := fn.FQSEN.String()
	existing := cb.funcByName[base]
	if len(existing) > 0 {
		alt := len(existing)
		fn.FQSEN = fn.FQSEN.WithAlternateID(alt)
		ii := issue.New(issue.RedefineFunction, fn.Context.File(), fn.Context.Line(), base)
		cb.funcs[fn.FQSEN] = fn
		cb.funcByName[base] = append(existing, fn)
		return fn, &ii
	}
	cb.funcs[fn.FQSEN] = fn
	cb.funcByName[base] = []*Func{fn}
	return fn, nil
}

func (cb *CodeBase) GetFuncByFQSEN(f *fqsen.FQSEN) (*Func, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	fn, ok := cb.funcs[f]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return fn, nil
}

func (cb *CodeBase) HasFuncWithFQSEN(f *fqsen.FQSEN) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	_, ok := cb.funcs[f]
	return ok
}

func (cb *CodeBase) GetFuncByName(namespace, name string) (*Func, bool) {
	f := fqsen.NewFunction(namespace, name)
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	fn, ok := cb.funcs[f]
	return fn, ok
}

func (cb *CodeBase) AllFuncs() []*Func {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	out := make([]*Func, 0, len(cb.funcs))
	for _, f := range cb.funcs {
		out = append(out, f)
	}
	return out
}

func (cb *CodeBase) AddGlobalConstant(gc *GlobalConstant) *GlobalConstant {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.globalConsts[gc.FQSEN] = gc
	return gc
}

func (cb *CodeBase) GetGlobalConstantByFQSEN(f *fqsen.FQSEN) (*GlobalConstant, error) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	gc, ok := cb.globalConsts[f]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return gc, nil
}

func (cb *CodeBase) HasGlobalConstantWithFQSEN(f *fqsen.FQSEN) bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	_, ok := cb.globalConsts[f]
	return ok
}

// --- class-member accessors: total given a class+name pair, or a member FQSEN ---

func (cb *CodeBase) GetMethodByFQSEN(f *fqsen.FQSEN) (*Method, error) {
	class, err := cb.GetClassByFQSEN(f.Class())
	if err != nil {
		return nil, err
	}
	m, ok := class.Methods[f.Name()]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return m, nil
}

func (cb *CodeBase) HasMethodWithFQSEN(f *fqsen.FQSEN) bool {
	_, err := cb.GetMethodByFQSEN(f)
	return err == nil
}

func (cb *CodeBase) GetPropertyByFQSEN(f *fqsen.FQSEN) (*Property, error) {
	class, err := cb.GetClassByFQSEN(f.Class())
	if err != nil {
		return nil, err
	}
	p, ok := class.Properties[f.Name()]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return p, nil
}

func (cb *CodeBase) HasPropertyWithFQSEN(f *fqsen.FQSEN) bool {
	_, err := cb.GetPropertyByFQSEN(f)
	return err == nil
}

func (cb *CodeBase) GetClassConstantByFQSEN(f *fqsen.FQSEN) (*ClassConstant, error) {
	class, err := cb.GetClassByFQSEN(f.Class())
	if err != nil {
		return nil, err
	}
	c, ok := class.Constants[f.Name()]
	if !ok {
		return nil, &ErrMissingSymbol{FQSEN: f}
	}
	return c, nil
}

func (cb *CodeBase) HasClassConstantWithFQSEN(f *fqsen.FQSEN) bool {
	_, err := cb.GetClassConstantByFQSEN(f)
	return err == nil
}
