package signature

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/funlint/internal/codebase"
)

// DumpAll renders the optional signature-dump artifact (§6): every
// method and function signature in cb, one per line, as
// `<fqsen>: param1, param2, ... → return`.
func DumpAll(cb *codebase.CodeBase) string {
	var lines []string
	for _, fn := range cb.AllFuncs() {
		lines = append(lines, dumpFunc(fn.FQSEN.String(), fn.Params, fn.Type))
	}
	for _, c := range cb.AllClasses() {
		for _, m := range c.Methods {
			lines = append(lines, dumpFunc(m.FQSEN.String(), m.Params, m.Type))
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func dumpFunc(name string, params []*codebase.Param, ret interface{ String() string }) string {
	parts := make([]string, len(params))
	for i, p := range params {
		s := p.Type.String()
		if s == "" {
			s = "mixed"
		}
		if p.Variadic {
			s = "..." + s
		}
		parts[i] = fmt.Sprintf("%s $%s", s, p.Name)
	}
	retStr := ret.String()
	if retStr == "" {
		retStr = "void"
	}
	return fmt.Sprintf("%s: %s → %s", name, strings.Join(parts, ", "), retStr)
}
