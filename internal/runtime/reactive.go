// Package runtime implements the inline-task runtime (spec §4.F): given an
// already-transformed callback's source text and its resolved captures, it
// produces the `<script>` element a render-time SSR pipeline embeds, with
// the escaping the spec requires to keep the HTML tokenizer from treating
// captured content as markup.
package runtime

// ResourceState is the lifecycle state of a ResourceReference (spec §3).
type ResourceState string

const (
	ResourcePending  ResourceState = "pending"
	ResourceResolved ResourceState = "resolved"
	ResourceRejected ResourceState = "rejected"
)

// ResourceOutcome is what a ResourceReference's promise eventually
// delivers: either a resolved payload or a rejection error.
type ResourceOutcome struct {
	Value any
	Err   error
}

// ResourceReference is an opaque reactive-asynchronous value (spec §3).
// When State is ResourceResolved, Payload is authoritative; otherwise
// Promise must be received from before serialisation.
type ResourceReference struct {
	State   ResourceState
	Payload any
	Promise <-chan ResourceOutcome
}

func (ResourceReference) isReactive() {}

// SignalReference is an opaque reactive value whose current sample is
// Value (spec §3's "reachable through a value attribute").
type SignalReference struct {
	Value any
}

func (SignalReference) isReactive() {}

// Reactive is implemented by the two host-framework value kinds the
// runtime knows how to unwrap before serialising a capture.
type Reactive interface {
	isReactive()
}

// Capture is one named entry of a ResolvedCaptures mapping (spec §3),
// carried as an ordered slice rather than a map because the resolved
// object's keys must be emitted in input iteration order.
type Capture struct {
	Name  string
	Value any // a Reactive, or any JSON-serialisable plain value
}

// unwrap resolves a single capture's value to the value that should be
// JSON-serialised. Resource detection strictly precedes signal detection
// (spec §4.F tie-break): the type switch checks ResourceReference first.
func unwrap(v any) (value any, pending <-chan ResourceOutcome) {
	switch t := v.(type) {
	case ResourceReference:
		if t.State == ResourceResolved {
			return t.Payload, nil
		}
		return nil, t.Promise
	case SignalReference:
		return t.Value, nil
	default:
		return v, nil
	}
}
