package crypto

import (
	"encoding/binary"

	"github.com/zeebo/blake3"

	"github.com/astralis-games/planetforge/pkg/types"
)

// Digest computes the BLAKE3-256 digest of data.
func Digest(data []byte) types.Digest {
	return blake3.Sum256(data)
}

// DigestParts computes a BLAKE3-256 digest over the given parts.
// Each part is length-framed, so ("ab","c") and ("a","bc") digest
// differently.
func DigestParts(parts ...[]byte) types.Digest {
	h := blake3.New()
	var n [4]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint32(n[:], uint32(len(p)))
		h.Write(n[:])
		h.Write(p)
	}
	var d types.Digest
	copy(d[:], h.Sum(nil))
	return d
}
