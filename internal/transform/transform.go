// Package transform implements the bundler-interface entry point (spec
// §6) and the multi-file project driver (spec §4.G): the pieces that sit
// between internal/discover's file list and internal/rewrite's per-file
// AST edit.
package transform

import (
	"path/filepath"

	"github.com/nau-media/qrlcapture/internal/discover"
	"github.com/nau-media/qrlcapture/internal/lang"
	"github.com/nau-media/qrlcapture/internal/rewrite"
)

// Output is what the bundler interface's transform(code, id) returns: the
// rewritten text plus its source map, or a zero Output when no edits were
// produced.
type Output struct {
	Code string
	Map  *rewrite.SourceMap
}

// Transform is the bundler-interface `transform(code, id)` operation (spec
// §6), using the rewriter's built-in reserved identifiers. It returns a
// zero Output and no error when id is outside the accepted extension set,
// code never mentions the hook identifier, or id falls under a vendor
// directory — matching the bundler contract of "return nothing" for those
// cases, without treating them as errors.
func Transform(code, id string) (Output, error) {
	return TransformWithReserved(code, id, rewrite.DefaultReservedNames())
}

// TransformWithReserved is Transform with caller-supplied reserved
// identifiers, the form internal/config's overrides flow through.
func TransformWithReserved(code, id string, reserved rewrite.ReservedNames) (Output, error) {
	if discover.IsVendorPath(id) {
		return Output{}, nil
	}
	l, ok := lang.LanguageForExtension(filepath.Ext(id))
	if !ok {
		return Output{}, nil
	}
	if !discover.MentionsHook(code) {
		return Output{}, nil
	}

	res, err := rewrite.RewriteWithReserved(l, id, []byte(code), reserved)
	if err != nil {
		return Output{}, err
	}
	if !res.Edited {
		return Output{}, nil
	}
	return Output{Code: res.Text, Map: res.Map}, nil
}
