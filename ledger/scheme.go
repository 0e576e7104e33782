package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/luca-patrignani/hashledger/canon"
)

// Algorithm selects the 256-bit digest used for block fingerprints.
type Algorithm uint8

const (
	SHA256 Algorithm = iota
	SHA3_256
	BLAKE2b256
)

var algorithmNames = map[Algorithm]string{
	SHA256:     "sha256",
	SHA3_256:   "sha3-256",
	BLAKE2b256: "blake2b-256",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// ParseAlgorithm resolves an algorithm by its String form.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a, n := range algorithmNames {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

func (a Algorithm) sum(data []byte) [32]byte {
	switch a {
	case SHA256:
		return sha256.Sum256(data)
	case SHA3_256:
		return sha3.Sum256(data)
	case BLAKE2b256:
		return blake2b.Sum256(data)
	}
	// schemes are validated before a block or chain is built with them
	panic("ledger: " + a.String() + " is not a supported algorithm")
}

// Scheme fixes how a block is fingerprinted: which encoding turns the payload
// into bytes and which digest is taken over the concatenated fields.
// The zero value is equivalent to DefaultScheme.
type Scheme struct {
	Algorithm Algorithm
	Encoding  canon.Encoding
}

// DefaultScheme seals blocks with SHA-256 over canonical JSON.
var DefaultScheme = Scheme{Algorithm: SHA256, Encoding: canon.JSON}

func (s Scheme) String() string {
	return s.Algorithm.String() + "/" + s.normalize().Encoding.Name()
}

func (s Scheme) normalize() Scheme {
	if s.Encoding == nil {
		s.Encoding = canon.JSON
	}
	return s
}

// Validate returns ErrUnknownAlgorithm if the scheme's digest is not one of
// the supported algorithms.
func (s Scheme) Validate() error {
	if _, ok := algorithmNames[s.Algorithm]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, s.Algorithm)
	}
	return nil
}

// FormatTimestamp returns the timestamp text that enters the fingerprint.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// fingerprint hashes index, prev hash, timestamp and payload concatenated in
// that order and returns the hex digest.
func (s Scheme) fingerprint(index int, prevHash string, timestamp time.Time, payload []byte) string {
	data := fmt.Sprintf("%d%s%s%s", index, prevHash, FormatTimestamp(timestamp), payload)
	hash := s.Algorithm.sum([]byte(data))
	return hex.EncodeToString(hash[:])
}
