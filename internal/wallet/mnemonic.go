// Package wallet manages the keys planet owners hold tokens under: a
// BIP-39 recovery phrase feeds hardened ed25519 derivation (hdkey.go),
// and the derived seed rests on disk sealed under a passphrase
// (seal.go, keystore.go).
package wallet

import (
	"errors"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// Recovery phrases carry 256 bits of entropy (24 words) and derive a
// 512-bit seed per BIP-39.
const (
	MnemonicEntropyBits = 256
	SeedSize            = 64
)

// ErrInvalidMnemonic reports a recovery phrase that fails BIP-39
// validation: wrong word count, unknown words, or a bad checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// GenerateMnemonic creates a new 24-word recovery phrase.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether a recovery phrase passes BIP-39
// validation.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the wallet seed from a recovery phrase and
// optional passphrase. The seed is the root of every owner address the
// wallet derives; callers zero it once the master key exists.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	return seed, nil
}
