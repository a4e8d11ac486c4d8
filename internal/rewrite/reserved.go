package rewrite

import "fmt"

// ReservedNames are the two identifiers spec §6 calls out as reserved: a
// user is exceedingly unlikely to have chosen either, so the rewriter
// never has to rename existing user bindings to make room. A project's
// internal/config file may override either base name if a real codebase
// happens to already use one.
type ReservedNames struct {
	ScopeParam  string
	FreshPrefix string
}

// DefaultReservedNames returns the rewriter's built-in reserved names.
func DefaultReservedNames() ReservedNames {
	return ReservedNames{ScopeParam: "__scope", FreshPrefix: "__qrlc"}
}

// chooseScopeParam returns an identifier distinct from every name in
// captures, preferring base and falling back to a numbered variant in the
// vanishingly unlikely case of a collision.
func chooseScopeParam(base string, captures []string) string {
	taken := make(map[string]bool, len(captures))
	for _, c := range captures {
		taken[c] = true
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// freshBindingCounter hands out monotonically increasing fresh binding
// names, scoped to one file (spec §4.E step 5).
type freshBindingCounter struct {
	prefix string
	n      int
}

func (c *freshBindingCounter) next() string {
	c.n++
	return fmt.Sprintf("%s%d", c.prefix, c.n)
}
