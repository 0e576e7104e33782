package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/luca-patrignani/hashledger/canon"
)

// Block is a sealed ledger record. Its fields are fixed once constructed; the
// With* methods return modified copies whose hash is left untouched, and
// Reseal returns a copy whose hash matches its fields again.
//
// Only the canonical encoding of the payload is kept.
type Block struct {
	index     int
	timestamp time.Time
	payload   []byte // canonical encoding of the data under scheme
	prevHash  string
	hash      string
	scheme    Scheme
}

// NewBlock creates a block fingerprinted with DefaultScheme. prevHash is
// optional and defaults to the empty string; ledgers overwrite it on append.
// An error is returned only if data has no canonical encoding.
func NewBlock(index int, timestamp time.Time, data any, prevHash ...string) (Block, error) {
	return NewBlockWithScheme(DefaultScheme, index, timestamp, data, prevHash...)
}

// NewBlockWithScheme is NewBlock with an explicit fingerprint scheme. It fails
// with ErrUnknownAlgorithm if the scheme names an unsupported digest.
func NewBlockWithScheme(s Scheme, index int, timestamp time.Time, data any, prevHash ...string) (Block, error) {
	if err := s.Validate(); err != nil {
		return Block{}, err
	}
	s = s.normalize()
	payload, err := s.Encoding.Marshal(data)
	if err != nil {
		return Block{}, fmt.Errorf("invalid block payload: %w", err)
	}
	b := Block{
		index:     index,
		timestamp: timestamp,
		payload:   payload,
		scheme:    s,
	}
	if len(prevHash) > 0 {
		b.prevHash = prevHash[0]
	}
	b.hash = b.CalculateHash()
	return b, nil
}

// Index returns the caller-assigned position label.
func (b Block) Index() int { return b.index }

// Timestamp returns the creation time the fingerprint covers.
func (b Block) Timestamp() time.Time { return b.timestamp }

// Data returns a freshly decoded copy of the payload. Maps come back as
// map[string]any and numbers as int64, uint64 or float64; use DecodeData to
// decode into a concrete type. Changing the result never affects the block.
func (b Block) Data() any {
	v, err := canon.Decode(b.Scheme().Encoding, b.canonicalPayload())
	if err != nil {
		return nil
	}
	return v
}

// DecodeData decodes the payload into v, which must be a non-nil pointer.
func (b Block) DecodeData(v any) error {
	return b.Scheme().Encoding.Unmarshal(b.canonicalPayload(), v)
}

// PrevHash returns the hash of the predecessor this block claims.
func (b Block) PrevHash() string { return b.prevHash }

// Scheme returns the scheme the block was fingerprinted with.
func (b Block) Scheme() Scheme { return b.scheme.normalize() }

// Hash returns the stored fingerprint.
func (b Block) Hash() string { return b.hash }

// Payload returns a copy of the canonical payload bytes covered by the hash.
func (b Block) Payload() []byte {
	return append([]byte(nil), b.canonicalPayload()...)
}

// canonicalPayload returns the encoded payload. A block that never had data
// encoded, such as the zero Block, carries a nil payload.
func (b Block) canonicalPayload() []byte {
	if len(b.payload) > 0 {
		return b.payload
	}
	payload, err := b.Scheme().Encoding.Marshal(nil)
	if err != nil {
		return nil
	}
	return payload
}

// CalculateHash recomputes the fingerprint from the block's current fields.
func (b Block) CalculateHash() string {
	return b.scheme.fingerprint(b.index, b.prevHash, b.timestamp, b.canonicalPayload())
}

// IsSealed reports whether the stored hash matches the block's fields.
func (b Block) IsSealed() bool {
	return b.hash == b.CalculateHash()
}

// Reseal returns a copy whose hash is recomputed from its current fields.
func (b Block) Reseal() Block {
	b.hash = b.CalculateHash()
	return b
}

// WithData returns a copy carrying data as payload. The hash is not updated.
func (b Block) WithData(data any) (Block, error) {
	payload, err := b.Scheme().Encoding.Marshal(data)
	if err != nil {
		return Block{}, fmt.Errorf("invalid block payload: %w", err)
	}
	b.payload = payload
	return b, nil
}

func (b Block) WithIndex(index int) Block {
	b.index = index
	return b
}

func (b Block) WithTimestamp(t time.Time) Block {
	b.timestamp = t
	return b
}

func (b Block) WithPrevHash(h string) Block {
	b.prevHash = h
	return b
}

func (b Block) WithHash(h string) Block {
	b.hash = h
	return b
}

// withScheme moves the block to s, transcoding the payload when the encoding
// differs. The hash is not updated.
func (b Block) withScheme(s Scheme) (Block, error) {
	if err := s.Validate(); err != nil {
		return Block{}, err
	}
	s = s.normalize()
	payload, err := canon.Transcode(b.canonicalPayload(), b.Scheme().Encoding, s.Encoding)
	if err != nil {
		return Block{}, fmt.Errorf("invalid block payload: %w", err)
	}
	b.payload = payload
	b.scheme = s
	return b, nil
}

func (b Block) String() string {
	return fmt.Sprintf("#%d %.12s<-%.12s", b.index, b.hash, b.prevHash)
}

type blockJSON struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	PrevHash  string    `json:"prev_hash"`
	Hash      string    `json:"hash"`
}

func (b Block) MarshalJSON() ([]byte, error) {
	var data any = json.RawMessage(b.canonicalPayload())
	if b.Scheme().Encoding.Name() != canon.JSON.Name() {
		data = b.Data()
	}
	return json.Marshal(blockJSON{
		Index:     b.index,
		Timestamp: b.timestamp,
		Data:      data,
		PrevHash:  b.prevHash,
		Hash:      b.hash,
	})
}
