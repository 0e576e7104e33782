package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type jsonEncoding struct{}

func (jsonEncoding) Name() string { return "json" }

// Marshal encodes v, then decodes it into generic maps and slices and encodes
// it again. The second pass is what sorts struct fields together with map
// keys, since encoding/json only sorts map keys.
func (e jsonEncoding) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon/json: %w", err)
	}
	// encoding/json has already replaced invalid bytes with U+FFFD in raw
	if err := validUTF8(v); err != nil {
		return nil, fmt.Errorf("canon/json: %w", err)
	}

	var generic any
	if err := e.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canon/json: failed to normalise payload: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("canon/json: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes data into v keeping numbers as json.Number when v is
// untyped.
func (jsonEncoding) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("canon/json: %w", err)
	}
	return nil
}
