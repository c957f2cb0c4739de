package forge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/astralis-games/planetforge/config"
	"github.com/astralis-games/planetforge/internal/ledger"
	"github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/registry"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Service orchestrates planet mints. Mints are serialized: the ledger
// and registry enforce create-once semantics, and running one mint at a
// time keeps their existence checks race-free.
type Service struct {
	mu      sync.Mutex
	host    Host
	program types.Address
}

// New creates a forge issuing under program, writing through host.
func New(host Host, program types.Address) *Service {
	return &Service{host: host, program: program}
}

// Program returns the program address the forge issues under.
func (s *Service) Program() types.Address {
	return s.program
}

// Mint issues one unit of the planet token for req.PlanetID to
// req.Owner and records its metadata. The returned error wraps
// ErrInvalidRequest, ErrAuthorization, ErrInvalidMetadataAccount, or
// ErrIssuance. On error no state changes.
func (s *Service) Mint(ctx context.Context, req Request) (*Receipt, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIssuance, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mintAddr, _, err := DeriveMint(req.PlanetID, s.program)
	if err != nil {
		return nil, fmt.Errorf("%w: derive mint: %w", ErrInvalidRequest, err)
	}

	authSeeds := [][]byte{authorityTag, []byte(req.PlanetID)}
	authority, authBump, err := derive.FindProgramAddress(authSeeds, s.program)
	if err != nil {
		return nil, fmt.Errorf("%w: derive authority: %w", ErrInvalidRequest, err)
	}
	proof := derive.NewProof(authSeeds, authBump)

	// The caller names the metadata account it expects. Anything but
	// the exact derivation for this mint is rejected before any write.
	expectedMeta, _, err := registry.DeriveMetadataAddress(mintAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: derive metadata: %w", ErrIssuance, err)
	}
	if req.MetadataAccount != expectedMeta {
		return nil, fmt.Errorf("%w: got %s, derived %s",
			ErrInvalidMetadataAccount, req.MetadataAccount.Short(), expectedMeta.Short())
	}

	holdingAddr, _, err := ledger.DeriveHoldingAddress(req.Owner, mintAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: derive holding: %w", ErrIssuance, err)
	}

	session, err := s.host.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin session: %w", ErrIssuance, err)
	}

	view := session.View()
	led := ledger.New(view, s.program)
	reg := registry.New(view, led, s.program)

	meta, err := s.issue(led, reg, req, mintAddr, authority, holdingAddr, proof)
	if err != nil {
		session.Discard()
		return nil, err
	}
	if err := session.Commit(); err != nil {
		session.Discard()
		return nil, fmt.Errorf("%w: commit: %w", ErrIssuance, err)
	}

	receipt := &Receipt{
		PlanetID:      req.PlanetID,
		Mint:          mintAddr,
		Authority:     authority,
		AuthorityBump: authBump,
		Holding:       holdingAddr,
		Metadata:      meta.Address,
		Owner:         req.Owner,
		Name:          req.Name,
		Symbol:        config.TokenSymbol,
		URI:           req.URI,
	}
	receipt.Signature = receiptDigest(receipt)

	log.Forge.Info().
		Str("planet_id", req.PlanetID).
		Str("mint", mintAddr.String()).
		Str("owner", req.Owner.Short()).
		Str("holding", holdingAddr.Short()).
		Str("metadata", meta.Address.Short()).
		Msg("planet minted")
	return receipt, nil
}

// issue runs the collaborator sequence against one session view.
func (s *Service) issue(led *ledger.Ledger, reg *registry.Registry, req Request,
	mintAddr, authority, holdingAddr types.Address, proof derive.Proof) (*registry.Metadata, error) {

	err := led.CreateMint(ledger.Mint{
		Address:   mintAddr,
		Authority: authority,
		Decimals:  0,
	})
	if err != nil {
		return nil, classify(err)
	}

	err = led.CreateHoldingAccount(ledger.Holding{
		Address: holdingAddr,
		Owner:   req.Owner,
		Mint:    mintAddr,
	})
	if err != nil {
		return nil, classify(err)
	}

	if err := led.MintTo(mintAddr, holdingAddr, config.MintAmount, proof); err != nil {
		return nil, classify(err)
	}

	meta, err := reg.CreateMetadata(registry.CreateParams{
		Account:   req.MetadataAccount,
		Mint:      mintAddr,
		Name:      req.Name,
		Symbol:    config.TokenSymbol,
		URI:       req.URI,
		Authority: proof,
	})
	if err != nil {
		return nil, classify(err)
	}
	return meta, nil
}

// validate rejects malformed requests before any derivation.
func (req Request) validate() error {
	if req.PlanetID == "" {
		return fmt.Errorf("%w: planet id must be set", ErrInvalidRequest)
	}
	if req.Name == "" {
		return fmt.Errorf("%w: name must be set", ErrInvalidRequest)
	}
	if req.URI == "" {
		return fmt.Errorf("%w: uri must be set", ErrInvalidRequest)
	}
	if req.Owner.IsZero() {
		return fmt.Errorf("%w: owner must be set", ErrInvalidRequest)
	}
	return nil
}

// classify maps collaborator errors onto the forge error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, ledger.ErrUnauthorized) || errors.Is(err, registry.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrAuthorization, err)
	case errors.Is(err, registry.ErrAddressMismatch):
		return fmt.Errorf("%w: %w", ErrInvalidMetadataAccount, err)
	default:
		return fmt.Errorf("%w: %w", ErrIssuance, err)
	}
}
