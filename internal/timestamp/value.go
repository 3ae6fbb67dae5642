package timestamp

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Value holds a stored timestamp in whatever representation it was written
// with. Decoding never fails on an unexpected shape; interpretation is
// deferred to Time so callers can apply their own fallback policy.
type Value struct {
	raw any
}

// Of wraps a native time.
func Of(t time.Time) Value {
	return Value{raw: t}
}

// Raw wraps an arbitrary stored representation.
func Raw(v any) Value {
	return Value{raw: v}
}

// Time interprets the stored value. See Parse for the accepted forms.
func (v Value) Time() (time.Time, error) {
	return Parse(v.raw)
}

// IsZero reports whether nothing was stored.
func (v Value) IsZero() bool {
	return v.raw == nil
}

// Interface returns the stored representation as-is.
func (v Value) Interface() any {
	return v.raw
}

func (v Value) MarshalJSON() ([]byte, error) {
	if t, ok := v.raw.(time.Time); ok {
		return json.Marshal(t.UTC().Format(time.RFC3339Nano))
	}
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		// Keep the undecodable text so Time reports it as malformed.
		v.raw = string(data)
		return nil
	}
	v.raw = raw
	return nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		v.raw = node.Value
		return nil
	}
	v.raw = raw
	return nil
}
