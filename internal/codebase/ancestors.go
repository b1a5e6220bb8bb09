package codebase

import "github.com/funvibe/funlint/internal/typesystem"

// IsAncestor implements typesystem.AncestorProvider: ancestor is an
// ancestor of child if child IS ancestor, or ancestor is reachable by
// walking child's parent/interface/trait edges transitively.
func (cb *CodeBase) IsAncestor(child, ancestor typesystem.ClassType) bool {
	if child.Name == ancestor.Name && child.Namespace == ancestor.Namespace {
		return true
	}
	c, ok := cb.GetClassByName(child.Namespace, child.Name)
	if !ok {
		return false
	}
	visited := map[string]bool{}
	return cb.walkAncestors(c, ancestor, visited)
}

func (cb *CodeBase) walkAncestors(c *Clazz, target typesystem.ClassType, visited map[string]bool) bool {
	key := c.FQSEN.String()
	if visited[key] {
		return false
	}
	visited[key] = true

	edges := make([]*Clazz, 0, len(c.InterfaceFQSENs)+len(c.TraitFQSENs)+1)
	for _, f := range c.InterfaceFQSENs {
		if a, err := cb.GetClassByFQSEN(f); err == nil {
			edges = append(edges, a)
		}
	}
	for _, f := range c.TraitFQSENs {
		if a, err := cb.GetClassByFQSEN(f); err == nil {
			edges = append(edges, a)
		}
	}
	if c.ParentFQSEN != nil {
		if a, err := cb.GetClassByFQSEN(c.ParentFQSEN); err == nil {
			edges = append(edges, a)
		}
	}

	for _, a := range edges {
		if a.Name == target.Name && a.FQSEN.Namespace() == target.Namespace {
			return true
		}
		if cb.walkAncestors(a, target, visited) {
			return true
		}
	}
	return false
}

// ExpandedAncestors implements typesystem.ExpandedAncestorProvider: the
// full transitive ancestor set of ct as class Types, cycle-safe via the
// caller-supplied visited set keyed by canonical class name.
func (cb *CodeBase) ExpandedAncestors(ct typesystem.ClassType, visited map[string]bool) []typesystem.Type {
	c, ok := cb.GetClassByName(ct.Namespace, ct.Name)
	if !ok {
		return nil
	}
	var out []typesystem.Type
	cb.collectExpanded(c, visited, &out)
	return out
}

func (cb *CodeBase) collectExpanded(c *Clazz, visited map[string]bool, out *[]typesystem.Type) {
	edges := make([]*Clazz, 0, len(c.InterfaceFQSENs)+len(c.TraitFQSENs)+1)
	for _, f := range c.InterfaceFQSENs {
		if a, err := cb.GetClassByFQSEN(f); err == nil {
			edges = append(edges, a)
		}
	}
	for _, f := range c.TraitFQSENs {
		if a, err := cb.GetClassByFQSEN(f); err == nil {
			edges = append(edges, a)
		}
	}
	if c.ParentFQSEN != nil {
		if a, err := cb.GetClassByFQSEN(c.ParentFQSEN); err == nil {
			edges = append(edges, a)
		}
	}
	for _, a := range edges {
		key := a.FQSEN.String()
		if visited[key] {
			continue
		}
		visited[key] = true
		*out = append(*out, typesystem.ClassType{Namespace: a.FQSEN.Namespace(), Name: a.Name})
		cb.collectExpanded(a, visited, out)
	}
}
