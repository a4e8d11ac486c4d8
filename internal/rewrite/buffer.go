// Package rewrite implements the call rewriter (spec §4.E): it turns a
// detected inline-task call site into a captures-carrying call plus
// return-expression splicing, expressed as localised edits against a
// single mutable source buffer.
package rewrite

import (
	"fmt"
	"sort"
)

// splice is one queued edit. A pure insertion has start == end.
type splice struct {
	start, end uint
	text       string
	seq        int
}

// Buffer accumulates non-overlapping edits against a single source byte
// slice and applies them in one pass. Edits are anchored at tree-sitter
// byte offsets, mirroring the StartByte()/EndByte() arithmetic the parser
// package already exposes.
type Buffer struct {
	source  []byte
	splices []splice
	seq     int
}

// NewBuffer wraps source for editing. source is never mutated.
func NewBuffer(source []byte) *Buffer {
	return &Buffer{source: source}
}

// Replace overwrites source[start:end] with text.
func (b *Buffer) Replace(start, end uint, text string) {
	b.splices = append(b.splices, splice{start: start, end: end, text: text, seq: b.seq})
	b.seq++
}

// Insert inserts text at pos without consuming any source bytes. Multiple
// insertions queued at the same pos are applied in the order they were
// queued (spec §5's "edits at identical anchor positions preserve
// authoring order").
func (b *Buffer) Insert(pos uint, text string) {
	b.splices = append(b.splices, splice{start: pos, end: pos, text: text, seq: b.seq})
	b.seq++
}

// Len reports how many edits are queued.
func (b *Buffer) Len() int {
	return len(b.splices)
}

// Segment describes one chunk of the applied output. Copy segments carry
// source text unchanged and map 1:1 to the original; non-copy segments
// were produced by a Replace/Insert call and are anchored to the original
// position the edit was queued at. Segment boundaries are the raw
// material the source map builder walks.
type Segment struct {
	GeneratedStart int
	OriginalStart  int
	Copy           bool
}

// Apply sorts and applies all queued edits in position order (ties broken
// by queue order), returning the resulting text and the segment boundary
// list. Overlapping replacement spans are a caller bug and return an
// error rather than silently corrupting output.
func (b *Buffer) Apply() (string, []Segment, error) {
	sorted := make([]splice, len(b.splices))
	copy(sorted, b.splices)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].start != sorted[j].start {
			return sorted[i].start < sorted[j].start
		}
		return sorted[i].seq < sorted[j].seq
	})

	var out []byte
	var segments []Segment
	cursor := uint(0)
	for _, sp := range sorted {
		if sp.start < cursor {
			return "", nil, fmt.Errorf("rewrite: overlapping edit at byte %d", sp.start)
		}
		if sp.start > cursor {
			segments = append(segments, Segment{GeneratedStart: len(out), OriginalStart: int(cursor), Copy: true})
			out = append(out, b.source[cursor:sp.start]...)
		}
		segments = append(segments, Segment{GeneratedStart: len(out), OriginalStart: int(sp.start), Copy: false})
		out = append(out, sp.text...)
		cursor = sp.end
	}
	if cursor < uint(len(b.source)) {
		segments = append(segments, Segment{GeneratedStart: len(out), OriginalStart: int(cursor), Copy: true})
		out = append(out, b.source[cursor:]...)
	}
	return string(out), segments, nil
}
