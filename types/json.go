package types

// Args is a JSON-shaped keyword-argument bag passed to an external
// factory (environment or protocol constructor). The compiler never
// interprets its contents.
type Args map[string]any

// Clone returns a shallow copy of the bag. A nil receiver clones to nil.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Meta is an opaque metadata bag attached to a RolloutRequest.
// Consumers may read well-known keys (e.g. "group_id", "sample_index");
// the compiler only depends on keys it writes itself.
type Meta map[string]any

// Clone returns a shallow copy of the bag. A nil receiver clones to an
// empty, non-nil Meta so callers can merge into the result directly.
func (m Meta) Clone() Meta {
	out := make(Meta, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// With returns a copy of the bag with one key set. The receiver is not
// modified.
func (m Meta) With(key string, value any) Meta {
	out := m.Clone()
	out[key] = value
	return out
}

// Int64Ptr returns a pointer to v. Convenience for optional seed fields.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
