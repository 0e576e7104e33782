package canon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrUnknownEncoding = errors.New("canon: unknown encoding")

// Encoding turns a payload into its canonical byte form and back.
type Encoding interface {
	Name() string
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v, which must be a non-nil pointer.
	Unmarshal(data []byte, v any) error
}

var (
	JSON Encoding = jsonEncoding{}
	CBOR Encoding = cborEncoding{}
)

// Parse returns the encoding registered under name.
func Parse(name string) (Encoding, error) {
	switch name {
	case JSON.Name():
		return JSON, nil
	case CBOR.Name():
		return CBOR, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Decode returns a fresh generic value for data: maps with string keys become
// map[string]any, arrays []any, and numbers int64, uint64 or float64
// whichever holds them exactly.
func Decode(enc Encoding, data []byte) (any, error) {
	var v any
	if err := enc.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return plain(v), nil
}

// Transcode re-encodes data from one encoding into another. Data is returned
// unchanged when both encodings are the same.
func Transcode(data []byte, from, to Encoding) ([]byte, error) {
	if from.Name() == to.Name() {
		return data, nil
	}
	v, err := Decode(from, data)
	if err != nil {
		return nil, err
	}
	return to.Marshal(v)
}

func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		return number(t)
	case []any:
		for i := range t {
			t[i] = plain(t[i])
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = plain(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			ks, ok := k.(string)
			if !ok {
				for k, e := range t {
					t[k] = plain(e)
				}
				return t
			}
			out[ks] = plain(e)
		}
		return out
	}
	return v
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
