package rewrite

import (
	"encoding/json"
	"strings"
)

// SourceMap is a standard source-map-v3 payload (no "names" entries are
// ever emitted: the rewriter never introduces a new symbol worth naming
// in a map consumer, only text substitutions).
type SourceMap struct {
	Version  int      `json:"version"`
	File     string   `json:"file,omitempty"`
	Sources  []string `json:"sources"`
	Mappings string   `json:"mappings"`
}

// buildSourceMap converts the Buffer's segment list plus the original
// source's line index into a v3 mapping string. One mapping segment is
// emitted at the start of every copy segment (which is position-preserving
// by construction) and at the start of every edit segment (anchored to the
// byte it was queued against) — high-resolution relative to the edits
// actually made, per spec §4.G, without requiring a full per-token AST
// diff.
func buildSourceMap(file string, source []byte, generated string, segments []Segment) *SourceMap {
	srcLines := newLineIndex(source)
	genLines := newLineIndex([]byte(generated))

	var b strings.Builder
	prevGenLine, prevGenCol := 0, 0
	prevSrcLine, prevSrcCol := 0, 0
	first := true

	for _, seg := range segments {
		genLine, genCol := genLines.lineCol(seg.GeneratedStart)
		srcLine, srcCol := srcLines.lineCol(seg.OriginalStart)

		for prevGenLine < genLine {
			b.WriteByte(';')
			prevGenLine++
			prevGenCol = 0
		}
		if !first && prevGenLine == genLine {
			b.WriteByte(',')
		}
		first = false

		writeVLQ(&b, genCol-prevGenCol)
		writeVLQ(&b, 0) // single source
		writeVLQ(&b, srcLine-prevSrcLine)
		writeVLQ(&b, srcCol-prevSrcCol)

		prevGenCol = genCol
		prevSrcLine = srcLine
		prevSrcCol = srcCol
	}

	return &SourceMap{
		Version:  3,
		File:     file,
		Sources:  []string{file},
		Mappings: b.String(),
	}
}

// JSON renders the source map as its standard on-disk JSON form.
func (sm *SourceMap) JSON() ([]byte, error) {
	return json.Marshal(sm)
}

type lineIndex struct {
	// starts[i] is the byte offset at which line i begins.
	starts []int
}

func newLineIndex(b []byte) *lineIndex {
	idx := &lineIndex{starts: []int{0}}
	for i, c := range b {
		if c == '\n' {
			idx.starts = append(idx.starts, i+1)
		}
	}
	return idx
}

// lineCol converts a byte offset to 0-based (line, column).
func (idx *lineIndex) lineCol(offset int) (int, int) {
	lo, hi := 0, len(idx.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - idx.starts[lo]
}

const vlqBase64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ encodes a signed integer as a base64-VLQ segment field per the
// source-map-v3 spec.
func writeVLQ(b *strings.Builder, n int) {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		b.WriteByte(vlqBase64Chars[digit])
		if v == 0 {
			break
		}
	}
}
