package capture

// CaptureSet is an ordered, de-duplicated sequence of outer identifier
// names selected for capture (spec §3). Order is first-occurrence in the
// callback's walk order.
type CaptureSet struct {
	names []string
	seen  map[string]bool
}

// NewCaptureSet builds a CaptureSet from the raw (possibly duplicate)
// occurrence list FreeVars returns, keeping only the first occurrence of
// each name and preserving its position in that ordering.
func NewCaptureSet(refs []Ref) *CaptureSet {
	cs := &CaptureSet{seen: make(map[string]bool, len(refs))}
	for _, ref := range refs {
		if cs.seen[ref.Name] {
			continue
		}
		cs.seen[ref.Name] = true
		cs.names = append(cs.names, ref.Name)
	}
	return cs
}

// Names returns the capture names in first-occurrence order.
func (cs *CaptureSet) Names() []string {
	if cs == nil {
		return nil
	}
	return cs.names
}

// Len reports how many distinct names are in the set.
func (cs *CaptureSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.names)
}

// Has reports whether name is a member of the set.
func (cs *CaptureSet) Has(name string) bool {
	if cs == nil {
		return false
	}
	return cs.seen[name]
}

// Occurrences filters refs down to just the nodes referencing a name that
// is a member of cs, preserving every occurrence (not just the first) —
// the rewriter needs every occurrence to rewrite each read site, while the
// capture object literal itself only needs the deduplicated Names().
func (cs *CaptureSet) Occurrences(refs []Ref) []Ref {
	if cs == nil {
		return nil
	}
	var out []Ref
	for _, ref := range refs {
		if cs.seen[ref.Name] {
			out = append(out, ref)
		}
	}
	return out
}
