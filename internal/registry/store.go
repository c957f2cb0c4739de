package registry

import (
	"encoding/json"
	"fmt"

	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/types"
)

var (
	prefixMetadata  = []byte("d/") // d/<metadata(32)> -> Metadata JSON
	prefixMintIndex = []byte("n/") // n/<mint(32)> -> metadata address (32)
)

// Store persists metadata records.
type Store struct {
	db storage.DB
}

// NewStore creates a metadata store running in its own key namespace
// of the shared database.
func NewStore(db storage.DB) *Store {
	return &Store{db: storage.NewNamespace(db, "registry")}
}

// Put stores a metadata record and maintains the mint index.
func (s *Store) Put(meta *Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("metadata marshal: %w", err)
	}
	if err := s.db.Put(metadataKey(meta.Address), data); err != nil {
		return err
	}
	return s.db.Put(mintIndexKey(meta.Mint), meta.Address[:])
}

// Get retrieves a metadata record by account address.
func (s *Store) Get(addr types.Address) (*Metadata, error) {
	data, err := s.db.Get(metadataKey(addr))
	if err != nil {
		return nil, fmt.Errorf("metadata get: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("metadata unmarshal: %w", err)
	}
	return &meta, nil
}

// GetByMint retrieves the metadata record for a mint.
func (s *Store) GetByMint(mint types.Address) (*Metadata, error) {
	raw, err := s.db.Get(mintIndexKey(mint))
	if err != nil {
		return nil, fmt.Errorf("metadata index get: %w", err)
	}
	addr, err := types.AddressFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("metadata index: %w", err)
	}
	return s.Get(addr)
}

// Has checks if a metadata record exists.
func (s *Store) Has(addr types.Address) (bool, error) {
	return s.db.Has(metadataKey(addr))
}

func metadataKey(addr types.Address) []byte {
	key := make([]byte, len(prefixMetadata)+types.AddressSize)
	copy(key, prefixMetadata)
	copy(key[len(prefixMetadata):], addr[:])
	return key
}

func mintIndexKey(mint types.Address) []byte {
	key := make([]byte, len(prefixMintIndex)+types.AddressSize)
	copy(key, prefixMintIndex)
	copy(key[len(prefixMintIndex):], mint[:])
	return key
}
