package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec. Output is indented so
// manifests diff cleanly under version control.
type JSON struct{}

// Marshal encodes the value to indented JSON with a trailing newline.
func (JSON) Marshal(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
