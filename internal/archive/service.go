package archive

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/astralis-games/planetforge/internal/log"
	"github.com/astralis-games/planetforge/internal/storage"
	"github.com/astralis-games/planetforge/pkg/types"
)

// Archive records earned planets and their mint outcomes.
type Archive struct {
	store *Store
}

// New creates an archive over db.
func New(db storage.DB) *Archive {
	return &Archive{store: NewStore(db)}
}

// Earn records that player earned planetID. Earning the same planet
// again refreshes the name and traits but never clears mint state.
func (a *Archive) Earn(player, planetID, planetName string, traits Traits) (*Record, error) {
	if player == "" || planetID == "" {
		return nil, fmt.Errorf("earn: %w", ErrEmptyField)
	}

	now := time.Now().UTC()
	rec, err := a.store.Get(player, planetID)
	if err != nil {
		rec = &Record{
			Player:   player,
			PlanetID: planetID,
			EarnedAt: now,
		}
	}
	rec.PlanetName = planetName
	rec.Traits = traits
	rec.UpdatedAt = now

	if err := a.store.Put(rec); err != nil {
		return nil, fmt.Errorf("earn: %w", err)
	}

	log.Archive.Debug().
		Str("player", player).
		Str("planet_id", planetID).
		Str("planet_name", planetName).
		Msg("planet earned")
	return rec, nil
}

// Get retrieves the record for a player's planet.
func (a *Archive) Get(player, planetID string) (*Record, error) {
	rec, err := a.store.Get(player, planetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecordNotFound, err)
	}
	return rec, nil
}

// ListEarned returns all of a player's records, most recently earned
// first.
func (a *Archive) ListEarned(player string) ([]Record, error) {
	var records []Record
	err := a.store.ForEachByPlayer(player, func(rec *Record) error {
		records = append(records, *rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list earned: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	sortRecords(records)
	return records, nil
}

// ListUnminted returns the player's records that have not been minted,
// most recently earned first.
func (a *Archive) ListUnminted(player string) ([]Record, error) {
	var records []Record
	err := a.store.ForEachByPlayer(player, func(rec *Record) error {
		if !rec.Minted {
			records = append(records, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list unminted: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	sortRecords(records)
	return records, nil
}

// MarkMinted stores the mint outcome on a record. A record can only be
// marked once.
func (a *Archive) MarkMinted(player, planetID string, mint types.Address, sig types.Digest, metadataURI string) (*Record, error) {
	rec, err := a.store.Get(player, planetID)
	if err != nil {
		return nil, fmt.Errorf("mark minted: %w: %w", ErrRecordNotFound, err)
	}
	if rec.Minted {
		return nil, fmt.Errorf("mark minted %s/%s: %w", player, planetID, ErrAlreadyMinted)
	}

	rec.Minted = true
	rec.Mint = mint
	rec.Signature = sig
	rec.MetadataURI = metadataURI
	rec.UpdatedAt = time.Now().UTC()

	if err := a.store.Put(rec); err != nil {
		return nil, fmt.Errorf("mark minted: %w", err)
	}

	log.Archive.Info().
		Str("player", player).
		Str("planet_id", planetID).
		Str("mint", mint.Short()).
		Msg("planet marked minted")
	return rec, nil
}

// UploadMetadata renders and stores the metadata document for a
// player's planet and returns the URI it will be served at. The record
// must exist; re-uploading overwrites the stored document.
func (a *Archive) UploadMetadata(player, planetID, baseURL string) (string, error) {
	rec, err := a.store.Get(player, planetID)
	if err != nil {
		return "", fmt.Errorf("upload metadata: %w: %w", ErrRecordNotFound, err)
	}

	desc := BuildDescriptor(rec, baseURL)
	data, err := json.Marshal(desc)
	if err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}
	if err := a.store.PutDescriptor(planetID, data); err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}

	uri := MetadataURI(baseURL, planetID)
	log.Archive.Debug().
		Str("player", player).
		Str("planet_id", planetID).
		Str("uri", uri).
		Msg("metadata document stored")
	return uri, nil
}

// Descriptor returns the stored metadata document for a planet as JSON.
func (a *Archive) Descriptor(planetID string) ([]byte, error) {
	data, err := a.store.GetDescriptor(planetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDescriptorNotFound, err)
	}
	return data, nil
}

// sortRecords orders records newest earn time first, then planet ID
// for stability.
func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].EarnedAt.Equal(records[j].EarnedAt) {
			return records[i].EarnedAt.After(records[j].EarnedAt)
		}
		return records[i].PlanetID < records[j].PlanetID
	})
}
