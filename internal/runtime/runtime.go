package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Element is the produced <script> element (spec §4.F, §6). Its only
// content is the escaped inline script source; no src/type/async
// attributes are ever set.
type Element struct {
	Script string
}

// Outcome is what the asynchronous path of UseInlineTask eventually
// delivers: either a ready Element or the error a rejected resource
// promise propagated.
type Outcome struct {
	Element *Element
	Err     error
}

// UseInlineTask builds the inline-task element for callableSource with the
// given ordered captures (spec §4.F). When no capture is an unresolved
// resource, it returns a non-nil Element synchronously and a nil channel;
// if serialising those captures fails, it instead returns a nil Element and
// a channel holding one Outcome with the error.
// When at least one capture is a pending resource, it returns a nil
// Element and a channel that receives exactly one Outcome once every
// pending resource has settled.
func UseInlineTask(callableSource string, captures []Capture) (*Element, <-chan Outcome) {
	if len(captures) == 0 {
		return &Element{Script: escapeScriptBody(fmt.Sprintf("(%s)()", callableSource))}, nil
	}

	resolved := make([]any, len(captures))
	type pending struct {
		index int
		ch    <-chan ResourceOutcome
	}
	var waiting []pending

	for i, c := range captures {
		value, ch := unwrap(c.Value)
		if ch != nil {
			waiting = append(waiting, pending{index: i, ch: ch})
			continue
		}
		resolved[i] = value
	}

	if len(waiting) == 0 {
		elem, err := buildElement(callableSource, captures, resolved)
		if err == nil {
			return elem, nil
		}
		out := make(chan Outcome, 1)
		out <- Outcome{Err: err}
		close(out)
		return nil, out
	}

	out := make(chan Outcome, 1)
	go func() {
		for _, p := range waiting {
			outcome := <-p.ch
			if outcome.Err != nil {
				out <- Outcome{Err: outcome.Err}
				close(out)
				return
			}
			resolved[p.index] = outcome.Value
		}
		elem, err := buildElement(callableSource, captures, resolved)
		out <- Outcome{Element: elem, Err: err}
		close(out)
	}()
	return nil, out
}

// buildElement serialises resolved values (already unwrapped from their
// Reactive wrappers) under their original capture names, in input
// iteration order, and assembles the final script body.
func buildElement(callableSource string, captures []Capture, resolved []any) (*Element, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	wrote := false
	for i, c := range captures {
		if resolved[i] == nil {
			continue
		}
		if wrote {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, fmt.Errorf("runtime: marshal capture name %q: %w", c.Name, err)
		}
		val, err := marshalValue(resolved[i])
		if err != nil {
			return nil, fmt.Errorf("runtime: marshal capture %q: %w", c.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
		wrote = true
	}
	buf.WriteByte('}')

	script := fmt.Sprintf("(%s)(%s)", callableSource, buf.String())
	return &Element{Script: escapeScriptBody(script)}, nil
}

// marshalValue encodes a single resolved, non-nil capture value to JSON.
// NaN and +/-Inf become null (encoding/json otherwise refuses to marshal
// them). Callers never pass the untyped nil that represents an undefined
// capture: buildElement omits that key from the object entirely instead,
// matching the documented lossy behaviour (spec §9).
func marshalValue(v any) ([]byte, error) {
	if f, ok := v.(float64); ok && (isNaN(f) || isInf(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func isNaN(f float64) bool { return f != f }
func isInf(f float64) bool { return f > maxFloat || f < -maxFloat }

const maxFloat = 1.7976931348623157e+308
