// Package registry implements the token metadata registry.
//
// Each mint gets at most one metadata account, at an address derived
// from the mint under the metadata program. Records are written once
// and immutable from creation; creation requires the derivation proof
// for the mint authority.
package registry

import (
	"errors"

	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Field length limits for metadata records.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// Registry errors.
var (
	ErrMetadataExists   = errors.New("metadata account already exists")
	ErrMetadataNotFound = errors.New("metadata account not found")
	ErrAddressMismatch  = errors.New("metadata account does not match derivation")
	ErrMintNotFound     = errors.New("mint not found")
	ErrUnauthorized     = errors.New("mint authority proof rejected")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
	ErrSymbolTooLong    = errors.New("symbol exceeds maximum length")
	ErrURITooLong       = errors.New("uri exceeds maximum length")
)

// metadataTag seeds metadata account derivations.
var metadataTag = []byte("metadata")

// Metadata is a token metadata record.
type Metadata struct {
	Address              types.Address   `json:"address"`
	Mint                 types.Address   `json:"mint"`
	UpdateAuthority      types.Address   `json:"update_authority"`
	Name                 string          `json:"name"`
	Symbol               string          `json:"symbol"`
	URI                  string          `json:"uri"`
	SellerFeeBasisPoints uint16          `json:"seller_fee_basis_points"`
	Creators             []types.Address `json:"creators"`
	IsMutable            bool            `json:"is_mutable"`
}

// DeriveMetadataAddress computes the deterministic metadata account
// address for a mint under the metadata program.
func DeriveMetadataAddress(mint types.Address) (types.Address, uint8, error) {
	seeds := [][]byte{metadataTag, types.MetadataProgramID[:], mint[:]}
	return derive.FindProgramAddress(seeds, types.MetadataProgramID)
}
