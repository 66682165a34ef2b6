package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON merge-patch semantics.
// A plain *string cannot tell "field absent" apart from "field null", and
// PATCH move needs all three states:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: explicit null (move to root)
//   - Present=true, Value=&id: move under id
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler. Being called at all means the
// field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
