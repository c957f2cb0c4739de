// Package forge mints planet tokens.
//
// A mint issues exactly one unit of a planet-specific token and records
// its immutable metadata. The forge derives the mint and its authority
// from the planet identifier, so no key material exists anywhere: the
// ledger and registry accept the operations because the forge presents
// the derivation proof for the authority address.
//
// Every collaborator write in a mint happens inside one host session.
// The session commits only after all steps succeed, so a failed mint
// leaves no trace.
package forge

import (
	"errors"

	"github.com/astralis-games/planetforge/pkg/crypto"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Seed tags for forge derivations.
var (
	mintTag      = []byte("planet_nft")
	authorityTag = []byte("mint_authority")
)

// Forge errors. Every failed mint wraps exactly one of these.
var (
	// ErrInvalidRequest reports a malformed mint request.
	ErrInvalidRequest = errors.New("invalid mint request")

	// ErrAuthorization reports a rejected authority proof.
	ErrAuthorization = errors.New("authorization rejected")

	// ErrInvalidMetadataAccount reports a caller-presented metadata
	// account that does not match the derivation for the mint.
	ErrInvalidMetadataAccount = errors.New("invalid metadata account")

	// ErrIssuance reports a failed ledger or registry operation.
	ErrIssuance = errors.New("issuance failed")
)

// Request asks for a one-unit issuance of a planet token.
type Request struct {
	PlanetID        string        `json:"planet_id"`
	Name            string        `json:"name"`
	URI             string        `json:"uri"`
	Owner           types.Address `json:"owner"`
	MetadataAccount types.Address `json:"metadata_account"`
}

// Receipt reports a completed mint.
type Receipt struct {
	PlanetID      string        `json:"planet_id"`
	Mint          types.Address `json:"mint"`
	Authority     types.Address `json:"authority"`
	AuthorityBump uint8         `json:"authority_bump"`
	Holding       types.Address `json:"holding"`
	Metadata      types.Address `json:"metadata"`
	Owner         types.Address `json:"owner"`
	Name          string        `json:"name"`
	Symbol        string        `json:"symbol"`
	URI           string        `json:"uri"`
	Signature     types.Digest  `json:"signature"`
}

// DeriveMint computes the mint address for a planet under program.
func DeriveMint(planetID string, program types.Address) (types.Address, uint8, error) {
	return derive.FindProgramAddress([][]byte{mintTag, []byte(planetID)}, program)
}

// DeriveAuthority computes the mint authority address for a planet
// under program.
func DeriveAuthority(planetID string, program types.Address) (types.Address, uint8, error) {
	return derive.FindProgramAddress([][]byte{authorityTag, []byte(planetID)}, program)
}

// receiptDigest computes the signature digest over the receipt content.
func receiptDigest(r *Receipt) types.Digest {
	return crypto.DigestParts(
		[]byte("forge/mint"),
		[]byte(r.PlanetID),
		r.Mint[:],
		r.Holding[:],
		r.Metadata[:],
		r.Owner[:],
		[]byte(r.Name),
		[]byte(r.Symbol),
		[]byte(r.URI),
	)
}
