// Package archive tracks earned planets per player.
//
// A record is created when a player earns a planet in the game and
// updated once the planet is minted. The archive also renders the
// off-ledger metadata document that a planet's metadata URI points to.
package archive

import (
	"errors"
	"time"

	"github.com/astralis-games/planetforge/pkg/types"
)

// Archive errors.
var (
	ErrRecordNotFound     = errors.New("planet record not found")
	ErrDescriptorNotFound = errors.New("metadata document not found")
	ErrAlreadyMinted      = errors.New("planet already minted")
	ErrEmptyField         = errors.New("player and planet id must be set")
)

// Traits describes the physical characteristics of a planet.
type Traits struct {
	Color         string  `json:"color"`
	AvgTemp       float64 `json:"avg_temp"`
	OceanCoverage float64 `json:"ocean_coverage"`
	Gravity       float64 `json:"gravity"`
}

// Record is one earned planet for one player.
type Record struct {
	Player      string        `json:"player"`
	PlanetID    string        `json:"planet_id"`
	PlanetName  string        `json:"planet_name"`
	Traits      Traits        `json:"traits"`
	EarnedAt    time.Time     `json:"earned_at"`
	Minted      bool          `json:"minted"`
	Mint        types.Address `json:"mint,omitempty"`
	Signature   types.Digest  `json:"signature,omitempty"`
	MetadataURI string        `json:"metadata_uri,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
