// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Rating bounds accepted by Validate.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// ErrInvalidPackage is returned by Package.Validate.
var ErrInvalidPackage = errors.New("invalid package")

// Package is a bookable event offering. The ideal-* lists describe the
// audience the package was designed for; rating and review count are
// quality signals used for tie-breaking.
type Package struct {
	ID                  string   `json:"id" koanf:"id" yaml:"id"`
	Name                string   `json:"name" koanf:"name" yaml:"name"`
	IdealGatheringSizes []string `json:"ideal_gathering_sizes" koanf:"ideal_gathering_sizes" yaml:"ideal_gathering_sizes"`
	IdealEnergyLevels   []string `json:"ideal_energy_levels" koanf:"ideal_energy_levels" yaml:"ideal_energy_levels"`
	IdealVibes          []string `json:"ideal_vibes" koanf:"ideal_vibes" yaml:"ideal_vibes"`
	Rating              float64  `json:"rating" koanf:"rating" yaml:"rating"`
	ReviewCount         int      `json:"review_count" koanf:"review_count" yaml:"review_count"`
}

// Clone returns a deep copy so callers can hand packages across goroutines
// without sharing the tag slices.
func (p Package) Clone() Package {
	p.IdealGatheringSizes = slices.Clone(p.IdealGatheringSizes)
	p.IdealEnergyLevels = slices.Clone(p.IdealEnergyLevels)
	p.IdealVibes = slices.Clone(p.IdealVibes)
	return p
}

// Validate checks the fields a catalog needs before accepting a package.
// Scoring itself never validates; it treats any shape as scoreable.
func (p Package) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidPackage)
	case math.IsNaN(p.Rating) || p.Rating < MinRating || p.Rating > MaxRating:
		return fmt.Errorf("%w: rating must be within [%g, %g]", ErrInvalidPackage, MinRating, MaxRating)
	case p.ReviewCount < 0:
		return fmt.Errorf("%w: negative review_count", ErrInvalidPackage)
	}
	return nil
}

// Preferences is one user's stated wishes for an event. Empty fields mean
// "no preference" and contribute nothing to a match score.
type Preferences struct {
	GatheringSize   string   `json:"gathering_size,omitempty" koanf:"gathering_size" yaml:"gathering_size,omitempty"`
	EnergyLevel     string   `json:"energy_level,omitempty" koanf:"energy_level" yaml:"energy_level,omitempty"`
	VibePreferences []string `json:"vibe_preferences,omitempty" koanf:"vibe_preferences" yaml:"vibe_preferences,omitempty"`
}

// IsEmpty reports whether no preference is set.
func (p Preferences) IsEmpty() bool {
	return p.GatheringSize == "" && p.EnergyLevel == "" && len(p.VibePreferences) == 0
}

// Clone returns a deep copy of p.
func (p Preferences) Clone() Preferences {
	p.VibePreferences = slices.Clone(p.VibePreferences)
	return p
}
