package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/astralis-games/planetforge/pkg/crypto"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Derivation path constants. Owner keys follow the ed25519 convention
// m/44'/501'/account'/0', where every step is hardened: SLIP-0010
// ed25519 keys have no public derivation.
const (
	// FirstHardenedChild is the first hardened child index.
	FirstHardenedChild uint32 = 0x80000000

	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = FirstHardenedChild + 44

	// CoinTypeSol is the ed25519 account coin type (hardened).
	CoinTypeSol = FirstHardenedChild + 501
)

// masterHMACKey is the SLIP-0010 ed25519 master key derivation domain.
var masterHMACKey = []byte("ed25519 seed")

// HDKey is a SLIP-0010 ed25519 hierarchical deterministic key.
type HDKey struct {
	key       [32]byte
	chainCode [32]byte
	depth     uint8
}

// NewMasterKey creates a master HD key from a seed, typically the
// 64-byte BIP-39 output of SeedFromMnemonic.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) < 16 || len(seed) > SeedSize {
		return nil, fmt.Errorf("seed must be 16 to %d bytes, got %d", SeedSize, len(seed))
	}
	mac := hmac.New(sha512.New, masterHMACKey)
	mac.Write(seed)
	sum := mac.Sum(nil)

	k := &HDKey{}
	copy(k.key[:], sum[:32])
	copy(k.chainCode[:], sum[32:])
	return k, nil
}

// DeriveChild derives the hardened child key at the given index.
// Indices below FirstHardenedChild are rejected: ed25519 SLIP-0010
// defines hardened derivation only.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	if index < FirstHardenedChild {
		return nil, fmt.Errorf("derive child %d: ed25519 keys only support hardened derivation", index)
	}

	// Data: 0x00 || key(32) || index(4, big-endian).
	var data [37]byte
	copy(data[1:], k.key[:])
	binary.BigEndian.PutUint32(data[33:], index)

	mac := hmac.New(sha512.New, k.chainCode[:])
	mac.Write(data[:])
	sum := mac.Sum(nil)

	child := &HDKey{depth: k.depth + 1}
	copy(child.key[:], sum[:32])
	copy(child.chainCode[:], sum[32:])
	return child, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the owner key at m/44'/501'/account'/0'.
func (k *HDKey) DeriveAccount(account uint32) (*HDKey, error) {
	return k.DerivePath(
		PurposeBIP44,
		CoinTypeSol,
		FirstHardenedChild+account,
		FirstHardenedChild,
	)
}

// PrivateKeyBytes returns the raw 32-byte private key seed.
func (k *HDKey) PrivateKeyBytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key[:])
	return out
}

// Keypair returns the ed25519 keypair for this HD key.
func (k *HDKey) Keypair() (*crypto.Keypair, error) {
	return crypto.KeypairFromSeed(k.key[:])
}

// Address returns the account address: the raw ed25519 public key.
func (k *HDKey) Address() (types.Address, error) {
	kp, err := k.Keypair()
	if err != nil {
		return types.Address{}, err
	}
	return kp.Address(), nil
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.depth
}

// ChainCodeBytes returns a copy of the 32-byte chain code.
func (k *HDKey) ChainCodeBytes() []byte {
	out := make([]byte, len(k.chainCode))
	copy(out, k.chainCode[:])
	return out
}

// Zero overwrites the key material.
func (k *HDKey) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
	for i := range k.chainCode {
		k.chainCode[i] = 0
	}
}
