// Package derive implements deterministic program address derivation.
//
// A program address is computed by hashing a set of seeds together with
// the owning program's address and a fixed domain marker. Only digests
// that do not decode as ed25519 curve points are accepted, so no private
// key can exist for a derived address. A program proves control of a
// derived address by presenting the seeds and bump that reproduce it.
package derive

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"

	"github.com/astralis-games/planetforge/pkg/types"
)

const (
	// MaxSeeds is the maximum number of seeds in a single derivation,
	// including the bump seed.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length in bytes of a single seed.
	MaxSeedLength = 32
)

// marker domain-separates derived addresses from other digests.
var marker = []byte("ProgramDerivedAddress")

var (
	// ErrTooManySeeds is returned when a derivation uses more than
	// MaxSeeds seeds.
	ErrTooManySeeds = errors.New("too many seeds")

	// ErrSeedTooLong is returned when a single seed exceeds
	// MaxSeedLength bytes.
	ErrSeedTooLong = errors.New("seed exceeds maximum length")

	// ErrOnCurve is returned by ProgramAddress when the candidate
	// digest decodes as an ed25519 point. Callers searching for a
	// usable address retry with a different bump seed.
	ErrOnCurve = errors.New("address falls on the ed25519 curve")

	// ErrNoViableBump is returned when no bump in 0..255 produces an
	// off-curve address for the given seeds.
	ErrNoViableBump = errors.New("no viable bump for seeds")
)

// ProgramAddress derives the address for seeds under program. The
// derivation is SHA-256 over the concatenated seeds, the program
// address, and the domain marker. Candidates that decode as ed25519
// points are rejected with ErrOnCurve.
func ProgramAddress(seeds [][]byte, program types.Address) (types.Address, error) {
	if len(seeds) > MaxSeeds {
		return types.Address{}, ErrTooManySeeds
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return types.Address{}, ErrSeedTooLong
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write(marker)

	var addr types.Address
	copy(addr[:], h.Sum(nil))
	if onCurve(addr[:]) {
		return types.Address{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds in ascending order from zero
// and returns the first off-curve address together with the bump that
// produced it. The bump is appended to seeds as a single extra byte.
func FindProgramAddress(seeds [][]byte, program types.Address) (types.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return types.Address{}, 0, ErrTooManySeeds
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 0; bump <= 0xff; bump++ {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := ProgramAddress(withBump, program)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case errors.Is(err, ErrOnCurve):
			continue
		default:
			return types.Address{}, 0, err
		}
	}
	return types.Address{}, 0, ErrNoViableBump
}

// onCurve reports whether b is a valid ed25519 point encoding.
func onCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
