// Package matching scores event packages against a user's preferences and
// ranks them.
//
// A match score is the sum of three weighted components:
//
//	gathering size  40  exact tag, or partial credit by distance on GatheringLevel
//	energy level    30  exact tag, or partial credit for adjacent EnergyLevel
//	vibe            30  fuzzy overlap between preferred and package vibes
//
// Everything here is a pure function of its arguments. Inputs are never
// modified and no state is shared, so callers may score concurrently.
package matching

// Component weights. They sum to MaxScore.
const (
	GatheringWeight = 40
	EnergyWeight    = 30
	VibeWeight      = 30
)

// Score bounds and the best-match cut-off.
const (
	MinScore           = 0
	MaxScore           = 100
	BestMatchThreshold = 70
)

// Partial credit, as a fraction of the component weight, for tags that sit
// near the preferred level on an ordinal scale.
const (
	adjacentCredit = 0.6
	twoApartCredit = 0.3
)

// Fuzzy match tiers.
const (
	exactMatch     = 1.0
	substringMatch = 0.8
	tokenOverlap   = 0.6
)

// Vibe blend: how much the share of matched preferences counts against
// the average quality of those matches.
const (
	vibeCoverageShare = 0.7
	vibeQualityShare  = 0.3
)

// IsBestMatchScore reports whether score qualifies a package as best match.
func IsBestMatchScore(score int) bool {
	return score >= BestMatchThreshold
}
