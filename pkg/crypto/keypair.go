package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/astralis-games/planetforge/pkg/types"
)

// Keypair wraps an ed25519 private key. Account addresses are the raw
// 32-byte public key.
type Keypair struct {
	priv ed25519.PrivateKey
}

// GenerateKeypair creates a new keypair from crypto/rand.
func GenerateKeypair() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}
	return &Keypair{priv: priv}, nil
}

// KeypairFromSeed derives a keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Keypair{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign produces an ed25519 signature over message.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.priv, message)
}

// PublicKey returns the 32-byte public key.
func (k *Keypair) PublicKey() []byte {
	return []byte(k.priv.Public().(ed25519.PublicKey))
}

// Address returns the account address of the public key.
func (k *Keypair) Address() types.Address {
	var a types.Address
	copy(a[:], k.PublicKey())
	return a
}

// Seed returns the 32-byte private seed.
func (k *Keypair) Seed() []byte {
	return k.priv.Seed()
}

// Zero overwrites the private key material.
func (k *Keypair) Zero() {
	for i := range k.priv {
		k.priv[i] = 0
	}
}

// VerifySignature reports whether signature is a valid ed25519 signature
// of message under publicKey. Malformed inputs verify as false.
func VerifySignature(message, signature, publicKey []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}
