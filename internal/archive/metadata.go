package archive

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/astralis-games/planetforge/config"
)

// Descriptor is the off-ledger metadata document a metadata URI
// resolves to.
type Descriptor struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute is one display trait in a metadata document.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// MetadataURI returns the canonical metadata document URI for a planet.
func MetadataURI(base, planetID string) string {
	return fmt.Sprintf("%s/metadata/%s.json", strings.TrimRight(base, "/"), url.PathEscape(planetID))
}

// ImageURI returns the canonical image URI for a planet.
func ImageURI(base, planetID string) string {
	return fmt.Sprintf("%s/images/%s.png", strings.TrimRight(base, "/"), url.PathEscape(planetID))
}

// BuildDescriptor renders the metadata document for a record.
func BuildDescriptor(rec *Record, base string) *Descriptor {
	return &Descriptor{
		Name:        rec.PlanetName,
		Symbol:      config.TokenSymbol,
		Description: fmt.Sprintf("Planet %s, charted in the Planetforge galaxy.", rec.PlanetName),
		Image:       ImageURI(base, rec.PlanetID),
		Attributes: []Attribute{
			{TraitType: "color", Value: rec.Traits.Color},
			{TraitType: "avg_temp", Value: rec.Traits.AvgTemp},
			{TraitType: "ocean_coverage", Value: rec.Traits.OceanCoverage},
			{TraitType: "gravity", Value: rec.Traits.Gravity},
			{TraitType: "earned_date", Value: rec.EarnedAt.UTC().Format(time.RFC3339)},
		},
	}
}
