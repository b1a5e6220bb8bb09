package issue

// Suppressor implements the three independently-consulted suppression
// mechanisms of §4.5: a global suppress list, a global whitelist (when
// non-empty, ONLY whitelisted types pass), and per-scope `@suppress`
// doc-comment suppression (supplied by the caller, since it is scoped to
// the enclosing function/class rather than global).
type Suppressor struct {
	suppressSet  map[string]bool
	whitelistSet map[string]bool
}

// NewSuppressor builds a Suppressor from the config's suppress and
// whitelist issue-type lists.
func NewSuppressor(suppress, whitelist []string) *Suppressor {
	s := &Suppressor{suppressSet: map[string]bool{}, whitelistSet: map[string]bool{}}
	for _, t := range suppress {
		s.suppressSet[t] = true
	}
	for _, t := range whitelist {
		s.whitelistSet[t] = true
	}
	return s
}

// Allowed reports whether typeName passes the global suppress list and
// whitelist. scopeSuppressed is consulted independently by the caller
// (typically via Context.IsSuppressed) before emission.
func (s *Suppressor) Allowed(typeName string) bool {
	if s.suppressSet[typeName] {
		return false
	}
	if len(s.whitelistSet) > 0 && !s.whitelistSet[typeName] {
		return false
	}
	return true
}

// AsFilter adapts the Suppressor to the Filter interface for use in a
// Chain alongside MinSeverity/CategoryMask.
func (s *Suppressor) AsFilter() Filter {
	return FilterFunc(func(ii IssueInstance) bool { return s.Allowed(ii.Issue.TypeName) })
}
