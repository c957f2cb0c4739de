package archive

import (
	"encoding/json"
	"fmt"

	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/crypto"
	"github.com/astralis-games/planetforge/pkg/types"
)

var (
	prefixRecord     = []byte("r/") // r/<digest(player,planet)(32)> -> Record JSON
	prefixPlayer     = []byte("p/") // p/<digest(player)(32)><digest(player,planet)(32)> -> nil (index)
	prefixDescriptor = []byte("d/") // d/<digest(planet)(32)> -> Descriptor JSON
)

// Store persists planet records.
type Store struct {
	db storage.DB
}

// NewStore creates an archive store running in its own key namespace
// of the shared database.
func NewStore(db storage.DB) *Store {
	return &Store{db: storage.NewNamespace(db, "archive")}
}

// Put stores a record and maintains the player index.
func (s *Store) Put(rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("record marshal: %w", err)
	}
	id := recordID(rec.Player, rec.PlanetID)
	if err := s.db.Put(recordKey(id), data); err != nil {
		return err
	}
	return s.db.Put(playerKey(rec.Player, id), nil)
}

// Get retrieves the record for a player's planet.
func (s *Store) Get(player, planetID string) (*Record, error) {
	data, err := s.db.Get(recordKey(recordID(player, planetID)))
	if err != nil {
		return nil, fmt.Errorf("record get: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("record unmarshal: %w", err)
	}
	return &rec, nil
}

// Has checks if a record exists.
func (s *Store) Has(player, planetID string) (bool, error) {
	return s.db.Has(recordKey(recordID(player, planetID)))
}

// ForEachByPlayer iterates over one player's records.
// Return a non-nil error from fn to stop iteration early.
func (s *Store) ForEachByPlayer(player string, fn func(*Record) error) error {
	playerDigest := crypto.Digest([]byte(player))
	prefix := make([]byte, len(prefixPlayer)+types.DigestSize)
	copy(prefix, prefixPlayer)
	copy(prefix[len(prefixPlayer):], playerDigest[:])

	return s.db.ForEach(prefix, func(key, _ []byte) error {
		// Key layout: "p/" + playerDigest(32) + recordID(32).
		if len(key) < len(prefix)+types.DigestSize {
			return nil // Malformed key, skip.
		}
		var id types.Digest
		copy(id[:], key[len(prefix):])

		data, err := s.db.Get(recordKey(id))
		if err != nil {
			return nil // Dangling index entry, skip.
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil // Skip corrupt entries.
		}
		return fn(&rec)
	})
}

// PutDescriptor stores the rendered metadata document for a planet.
func (s *Store) PutDescriptor(planetID string, data []byte) error {
	return s.db.Put(descriptorKey(planetID), data)
}

// GetDescriptor retrieves the stored metadata document for a planet.
func (s *Store) GetDescriptor(planetID string) ([]byte, error) {
	return s.db.Get(descriptorKey(planetID))
}

// recordID derives the storage identity of a player-planet pair.
func recordID(player, planetID string) types.Digest {
	return crypto.DigestParts([]byte(player), []byte(planetID))
}

func recordKey(id types.Digest) []byte {
	key := make([]byte, len(prefixRecord)+types.DigestSize)
	copy(key, prefixRecord)
	copy(key[len(prefixRecord):], id[:])
	return key
}

func descriptorKey(planetID string) []byte {
	id := crypto.Digest([]byte(planetID))
	key := make([]byte, len(prefixDescriptor)+types.DigestSize)
	copy(key, prefixDescriptor)
	copy(key[len(prefixDescriptor):], id[:])
	return key
}

func playerKey(player string, id types.Digest) []byte {
	playerDigest := crypto.Digest([]byte(player))
	key := make([]byte, len(prefixPlayer)+2*types.DigestSize)
	copy(key, prefixPlayer)
	copy(key[len(prefixPlayer):], playerDigest[:])
	copy(key[len(prefixPlayer)+types.DigestSize:], id[:])
	return key
}
