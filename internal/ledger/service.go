package ledger

import (
	"fmt"
	"math"

	"github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/derive"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Ledger applies supply operations against a database view. Authority
// proofs are verified as derivations under the configured program.
type Ledger struct {
	store     *Store
	authority types.Address
}

// New creates a ledger over db. Proofs presented to MintTo must derive
// the mint authority under authorityProgram.
func New(db storage.DB, authorityProgram types.Address) *Ledger {
	return &Ledger{store: NewStore(db), authority: authorityProgram}
}

// CreateMint records a new mint with zero supply. The mint address must
// be unused.
func (l *Ledger) CreateMint(m Mint) error {
	if m.Address.IsZero() {
		return fmt.Errorf("create mint: zero mint address")
	}
	if m.Authority.IsZero() {
		return fmt.Errorf("create mint %s: zero authority", m.Address.Short())
	}
	exists, err := l.store.HasMint(m.Address)
	if err != nil {
		return fmt.Errorf("create mint: %w", err)
	}
	if exists {
		return fmt.Errorf("create mint %s: %w", m.Address.Short(), ErrMintExists)
	}

	m.Supply = 0
	if err := l.store.PutMint(&m); err != nil {
		return fmt.Errorf("create mint: %w", err)
	}

	log.Ledger.Debug().
		Str("mint", m.Address.String()).
		Str("authority", m.Authority.Short()).
		Uint8("decimals", m.Decimals).
		Msg("mint created")
	return nil
}

// CreateHoldingAccount records a new holding account with zero balance.
// The mint must exist and the holding address must be unused.
func (l *Ledger) CreateHoldingAccount(h Holding) error {
	if h.Address.IsZero() || h.Owner.IsZero() {
		return fmt.Errorf("create holding: zero address")
	}
	hasMint, err := l.store.HasMint(h.Mint)
	if err != nil {
		return fmt.Errorf("create holding: %w", err)
	}
	if !hasMint {
		return fmt.Errorf("create holding %s: %w", h.Address.Short(), ErrMintNotFound)
	}
	exists, err := l.store.HasHolding(h.Address)
	if err != nil {
		return fmt.Errorf("create holding: %w", err)
	}
	if exists {
		return fmt.Errorf("create holding %s: %w", h.Address.Short(), ErrHoldingExists)
	}

	h.Amount = 0
	if err := l.store.PutHolding(&h); err != nil {
		return fmt.Errorf("create holding: %w", err)
	}

	log.Ledger.Debug().
		Str("holding", h.Address.String()).
		Str("owner", h.Owner.Short()).
		Str("mint", h.Mint.Short()).
		Msg("holding account created")
	return nil
}

// MintTo issues amount units of mint to the holding account dest. The
// proof must reproduce the mint authority under the ledger's configured
// program; anything else is rejected with ErrUnauthorized.
func (l *Ledger) MintTo(mint, dest types.Address, amount uint64, proof derive.Proof) error {
	if amount == 0 {
		return fmt.Errorf("mint to %s: %w", dest.Short(), ErrZeroAmount)
	}

	m, err := l.store.GetMint(mint)
	if err != nil {
		return fmt.Errorf("mint to %s: %w: %w", dest.Short(), ErrMintNotFound, err)
	}
	if !proof.Verify(l.authority, m.Authority) {
		return fmt.Errorf("mint %s to %s: %w", mint.Short(), dest.Short(), ErrUnauthorized)
	}

	h, err := l.store.GetHolding(dest)
	if err != nil {
		return fmt.Errorf("mint to %s: %w: %w", dest.Short(), ErrHoldingNotFound, err)
	}
	if h.Mint != mint {
		return fmt.Errorf("mint to %s: %w", dest.Short(), ErrWrongMint)
	}

	if m.Supply > math.MaxUint64-amount {
		return fmt.Errorf("mint %s: %w", mint.Short(), ErrSupplyOverflow)
	}
	m.Supply += amount
	h.Amount += amount

	if err := l.store.PutMint(m); err != nil {
		return fmt.Errorf("mint to: %w", err)
	}
	if err := l.store.PutHolding(h); err != nil {
		return fmt.Errorf("mint to: %w", err)
	}

	log.Ledger.Debug().
		Str("mint", mint.Short()).
		Str("holding", dest.Short()).
		Uint64("amount", amount).
		Uint64("supply", m.Supply).
		Msg("supply issued")
	return nil
}

// GetMint retrieves a mint record.
func (l *Ledger) GetMint(addr types.Address) (*Mint, error) {
	return l.store.GetMint(addr)
}

// GetHolding retrieves a holding account.
func (l *Ledger) GetHolding(addr types.Address) (*Holding, error) {
	return l.store.GetHolding(addr)
}

// HoldingsByOwner returns all holding accounts of one owner.
func (l *Ledger) HoldingsByOwner(owner types.Address) ([]Holding, error) {
	return l.store.HoldingsByOwner(owner)
}
