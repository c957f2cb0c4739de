// Package ledger implements the token ledger.
//
// The ledger tracks mints and holding accounts as plain records. Supply
// only changes through MintTo, which demands the mint authority. For
// derived authorities no private key exists, so callers authorize by
// presenting the derivation proof that reproduces the authority address.
package ledger

import (
	"errors"

	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Ledger errors.
var (
	ErrMintExists      = errors.New("mint already exists")
	ErrMintNotFound    = errors.New("mint not found")
	ErrHoldingExists   = errors.New("holding account already exists")
	ErrHoldingNotFound = errors.New("holding account not found")
	ErrWrongMint       = errors.New("holding account is for a different mint")
	ErrUnauthorized    = errors.New("mint authority proof rejected")
	ErrZeroAmount      = errors.New("mint amount must be positive")
	ErrSupplyOverflow  = errors.New("mint supply overflow")
)

// holdingTag seeds holding account derivations.
var holdingTag = []byte("holding")

// Mint is a token mint account.
type Mint struct {
	Address   types.Address `json:"address"`
	Authority types.Address `json:"authority"`
	Decimals  uint8         `json:"decimals"`
	Supply    uint64        `json:"supply"`
}

// Holding is a token holding account binding one owner to one mint.
type Holding struct {
	Address types.Address `json:"address"`
	Owner   types.Address `json:"owner"`
	Mint    types.Address `json:"mint"`
	Amount  uint64        `json:"amount"`
}

// DeriveHoldingAddress computes the deterministic holding account
// address for an owner and mint under the token program. Every
// owner-mint pair maps to exactly one holding address.
func DeriveHoldingAddress(owner, mint types.Address) (types.Address, uint8, error) {
	return derive.FindProgramAddress([][]byte{holdingTag, owner[:], mint[:]}, types.TokenProgramID)
}
