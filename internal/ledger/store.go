package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/types"
)

var (
	prefixMint    = []byte("m/") // m/<mint(32)> -> Mint JSON
	prefixHolding = []byte("h/") // h/<holding(32)> -> Holding JSON
	prefixOwner   = []byte("o/") // o/<owner(32)><holding(32)> -> nil (index)
)

// Store persists mints and holding accounts.
type Store struct {
	db storage.DB
}

// NewStore creates a ledger store. All keys live under the store's
// own namespace, so the ledger can share a database with the registry
// and the archive.
func NewStore(db storage.DB) *Store {
	return &Store{db: storage.NewNamespace(db, "ledger")}
}

// PutMint stores a mint record.
func (s *Store) PutMint(m *Mint) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("mint marshal: %w", err)
	}
	return s.db.Put(mintKey(m.Address), data)
}

// GetMint retrieves a mint record.
func (s *Store) GetMint(addr types.Address) (*Mint, error) {
	data, err := s.db.Get(mintKey(addr))
	if err != nil {
		return nil, fmt.Errorf("mint get: %w", err)
	}
	var m Mint
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("mint unmarshal: %w", err)
	}
	return &m, nil
}

// HasMint checks if a mint record exists.
func (s *Store) HasMint(addr types.Address) (bool, error) {
	return s.db.Has(mintKey(addr))
}

// PutHolding stores a holding account and maintains the owner index.
func (s *Store) PutHolding(h *Holding) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("holding marshal: %w", err)
	}
	if err := s.db.Put(holdingKey(h.Address), data); err != nil {
		return err
	}
	return s.db.Put(ownerKey(h.Owner, h.Address), nil)
}

// GetHolding retrieves a holding account.
func (s *Store) GetHolding(addr types.Address) (*Holding, error) {
	data, err := s.db.Get(holdingKey(addr))
	if err != nil {
		return nil, fmt.Errorf("holding get: %w", err)
	}
	var h Holding
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("holding unmarshal: %w", err)
	}
	return &h, nil
}

// HasHolding checks if a holding account exists.
func (s *Store) HasHolding(addr types.Address) (bool, error) {
	return s.db.Has(holdingKey(addr))
}

// ForEachHoldingByOwner iterates over the holding accounts of one owner.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEachHoldingByOwner(owner types.Address, fn func(*Holding) error) error {
	prefix := make([]byte, len(prefixOwner)+types.AddressSize)
	copy(prefix, prefixOwner)
	copy(prefix[len(prefixOwner):], owner[:])

	return s.db.ForEach(prefix, func(key, _ []byte) error {
		// Key layout: "o/" + owner(32) + holding(32).
		if len(key) < len(prefix)+types.AddressSize {
			return nil // Malformed key, skip.
		}
		var addr types.Address
		copy(addr[:], key[len(prefix):])

		h, err := s.GetHolding(addr)
		if err != nil {
			return nil // Dangling index entry, skip.
		}
		return fn(h)
	})
}

// HoldingsByOwner returns all holding accounts of one owner.
func (s *Store) HoldingsByOwner(owner types.Address) ([]Holding, error) {
	var holdings []Holding
	err := s.ForEachHoldingByOwner(owner, func(h *Holding) error {
		holdings = append(holdings, *h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if holdings == nil {
		holdings = []Holding{}
	}
	return holdings, nil
}

func mintKey(addr types.Address) []byte {
	key := make([]byte, len(prefixMint)+types.AddressSize)
	copy(key, prefixMint)
	copy(key[len(prefixMint):], addr[:])
	return key
}

func holdingKey(addr types.Address) []byte {
	key := make([]byte, len(prefixHolding)+types.AddressSize)
	copy(key, prefixHolding)
	copy(key[len(prefixHolding):], addr[:])
	return key
}

func ownerKey(owner, holding types.Address) []byte {
	key := make([]byte, len(prefixOwner)+2*types.AddressSize)
	copy(key, prefixOwner)
	copy(key[len(prefixOwner):], owner[:])
	copy(key[len(prefixOwner)+types.AddressSize:], holding[:])
	return key
}
