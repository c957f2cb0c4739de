package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Wallet seeds rest on disk sealed with XChaCha20-Poly1305 under an
// Argon2id key. Sealed layout:
//
//	version(1) | time(4) | memory(4) | threads(1) | salt(32) | nonce(24) | ciphertext
//
// The KDF parameters travel in the seal so old wallets keep opening
// after the defaults change.
const (
	sealVersion  = 1
	sealSaltSize = 32
	sealHeadSize = 1 + 4 + 4 + 1 + sealSaltSize
)

// ErrWrongPassword reports a seal that does not open under the given
// password. A corrupted seal fails the same way; the AEAD cannot tell
// them apart.
var ErrWrongPassword = errors.New("wrong password")

// KDFParams tunes the Argon2id derivation of the sealing key.
type KDFParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultParams returns the parameters new wallets are sealed with.
func DefaultParams() KDFParams {
	return KDFParams{Time: 3, Memory: 64 * 1024, Threads: 4}
}

// key derives the sealing key from password and salt.
func (p KDFParams) key(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize)
}

// Seal encrypts a wallet seed under password.
func Seal(seed, password []byte, params KDFParams) ([]byte, error) {
	salt := make([]byte, sealSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := params.key(password, salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, sealHeadSize+len(nonce)+len(seed)+aead.Overhead())
	out = append(out, sealVersion)
	out = binary.LittleEndian.AppendUint32(out, params.Time)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = append(out, params.Threads)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, seed, nil), nil
}

// Open decrypts a sealed seed with password.
func Open(sealed, password []byte) ([]byte, error) {
	minSize := sealHeadSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
	if len(sealed) < minSize {
		return nil, fmt.Errorf("sealed seed too short: %d bytes, need at least %d", len(sealed), minSize)
	}
	if sealed[0] != sealVersion {
		return nil, fmt.Errorf("unsupported seal version: %d", sealed[0])
	}

	params := KDFParams{
		Time:    binary.LittleEndian.Uint32(sealed[1:]),
		Memory:  binary.LittleEndian.Uint32(sealed[5:]),
		Threads: sealed[9],
	}
	salt := sealed[10:sealHeadSize]
	nonce := sealed[sealHeadSize : sealHeadSize+chacha20poly1305.NonceSizeX]
	ciphertext := sealed[sealHeadSize+chacha20poly1305.NonceSizeX:]

	key := params.key(password, salt)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	seed, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return seed, nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
