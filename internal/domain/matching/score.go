package matching

import (
	"math"

	"github.com/okian/eventmatch/internal/domain/model"
)

// Breakdown is the per-component view of a match score.
type Breakdown struct {
	GatheringScore int `json:"gathering_score" yaml:"gathering_score"`
	EnergyScore    int `json:"energy_score" yaml:"energy_score"`
	VibeScore      int `json:"vibe_score" yaml:"vibe_score"`
	TotalScore     int `json:"total_score" yaml:"total_score"`
}

// components holds the unrounded component scores.
type components struct {
	gathering float64
	energy    float64
	vibe      float64
}

func compute(pkg model.Package, prefs model.Preferences) components {
	return components{
		gathering: GatheringScore(pkg.IdealGatheringSizes, prefs.GatheringSize),
		energy:    EnergyScore(pkg.IdealEnergyLevels, prefs.EnergyLevel),
		vibe:      float64(VibeScore(pkg.IdealVibes, prefs.VibePreferences)),
	}
}

func (c components) total() int {
	return clamp(int(math.Round(c.gathering + c.energy + c.vibe)))
}

// Score returns how well pkg fits prefs, in [MinScore, MaxScore]. Zero-value
// preferences score 0 for every package.
func Score(pkg model.Package, prefs model.Preferences) int {
	return compute(pkg, prefs).total()
}

// ScoreBreakdown is Score with the rounded component scores attached.
// TotalScore always equals Score(pkg, prefs).
func ScoreBreakdown(pkg model.Package, prefs model.Preferences) Breakdown {
	c := compute(pkg, prefs)
	return Breakdown{
		GatheringScore: int(math.Round(c.gathering)),
		EnergyScore:    int(math.Round(c.energy)),
		VibeScore:      int(c.vibe),
		TotalScore:     c.total(),
	}
}

func clamp(score int) int {
	return max(MinScore, min(MaxScore, score))
}
