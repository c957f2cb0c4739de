package registry

import (
	"fmt"

	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// MintReader provides mint records from the ledger.
type MintReader interface {
	GetMint(addr types.Address) (*ledger.Mint, error)
}

// Registry validates and records token metadata.
type Registry struct {
	store     *Store
	mints     MintReader
	authority types.Address
}

// New creates a registry over db. Mint authorities are resolved through
// mints, and authority proofs must derive under authorityProgram.
func New(db storage.DB, mints MintReader, authorityProgram types.Address) *Registry {
	return &Registry{store: NewStore(db), mints: mints, authority: authorityProgram}
}

// CreateParams carries the inputs for CreateMetadata. Account is the
// caller-presented metadata address; it must match the derivation for
// Mint exactly.
type CreateParams struct {
	Account   types.Address
	Mint      types.Address
	Name      string
	Symbol    string
	URI       string
	Authority derive.Proof
}

// CreateMetadata records metadata for a mint. The record is written
// once: it is immutable from creation and carries no royalty share.
func (r *Registry) CreateMetadata(p CreateParams) (*Metadata, error) {
	if len(p.Name) > MaxNameLength {
		return nil, fmt.Errorf("create metadata: %w", ErrNameTooLong)
	}
	if len(p.Symbol) > MaxSymbolLength {
		return nil, fmt.Errorf("create metadata: %w", ErrSymbolTooLong)
	}
	if len(p.URI) > MaxURILength {
		return nil, fmt.Errorf("create metadata: %w", ErrURITooLong)
	}

	expected, _, err := DeriveMetadataAddress(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}
	if p.Account != expected {
		return nil, fmt.Errorf("create metadata: account %s, derived %s: %w",
			p.Account.Short(), expected.Short(), ErrAddressMismatch)
	}

	m, err := r.mints.GetMint(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("create metadata for %s: %w: %w", p.Mint.Short(), ErrMintNotFound, err)
	}
	if !p.Authority.Verify(r.authority, m.Authority) {
		return nil, fmt.Errorf("create metadata for %s: %w", p.Mint.Short(), ErrUnauthorized)
	}

	exists, err := r.store.Has(expected)
	if err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("create metadata %s: %w", expected.Short(), ErrMetadataExists)
	}

	meta := &Metadata{
		Address:              expected,
		Mint:                 p.Mint,
		UpdateAuthority:      m.Authority,
		Name:                 p.Name,
		Symbol:               p.Symbol,
		URI:                  p.URI,
		SellerFeeBasisPoints: 0,
		Creators:             []types.Address{},
		IsMutable:            false,
	}
	if err := r.store.Put(meta); err != nil {
		return nil, fmt.Errorf("create metadata: %w", err)
	}

	log.Registry.Debug().
		Str("metadata", meta.Address.String()).
		Str("mint", meta.Mint.Short()).
		Str("name", meta.Name).
		Msg("metadata recorded")
	return meta, nil
}

// Get retrieves a metadata record by account address.
func (r *Registry) Get(addr types.Address) (*Metadata, error) {
	return r.store.Get(addr)
}

// GetByMint retrieves the metadata record for a mint.
func (r *Registry) GetByMint(mint types.Address) (*Metadata, error) {
	return r.store.GetByMint(mint)
}
