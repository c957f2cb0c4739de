package types

import (
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// DigestSize is the length of a digest in bytes.
const DigestSize = 32

// Digest represents a 256-bit content digest. Mint receipts record one as
// the operation signature.
type Digest [DigestSize]byte

// IsZero returns true if the digest is all zeros.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// String returns the base58-encoded digest.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// Bytes returns a copy of the digest as a byte slice.
func (d Digest) Bytes() []byte {
	b := make([]byte, DigestSize)
	copy(b, d[:])
	return b
}

// MarshalJSON encodes the digest as a base58 string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a base58 string into a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest parses a base58-encoded digest string.
func ParseDigest(s string) (Digest, error) {
	if s == "" {
		return Digest{}, fmt.Errorf("empty digest")
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid base58 digest: %w", err)
	}
	if len(decoded) != DigestSize {
		return Digest{}, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(decoded))
	}
	var d Digest
	copy(d[:], decoded)
	return d, nil
}
