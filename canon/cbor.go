package canon

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	cborMode    cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("canon/cbor: " + err.Error())
	}
	cborDecMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
		UTF8:      cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		panic("canon/cbor: " + err.Error())
	}
}

type cborEncoding struct{}

func (cborEncoding) Name() string { return "cbor" }

func (cborEncoding) Marshal(v any) ([]byte, error) {
	if err := validUTF8(v); err != nil {
		return nil, fmt.Errorf("canon/cbor: %w", err)
	}
	b, err := cborMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon/cbor: %w", err)
	}
	return b, nil
}

func (cborEncoding) Unmarshal(data []byte, v any) error {
	if err := cborDecMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("canon/cbor: %w", err)
	}
	return nil
}
