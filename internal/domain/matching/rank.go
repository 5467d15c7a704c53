package matching

import (
	"math"
	"sort"

	"github.com/okian/eventmatch/internal/domain/model"
)

// ScoredPackage is a package annotated with its match against one set of
// preferences.
type ScoredPackage struct {
	model.Package `yaml:",inline"`
	MatchScore    int  `json:"match_score" yaml:"match_score"`
	IsBestMatch   bool `json:"is_best_match" yaml:"is_best_match"`
}

// Ranking is a scored collection ordered best first.
type Ranking struct {
	Packages     []ScoredPackage `json:"packages" yaml:"packages"`
	BestMatch    *ScoredPackage  `json:"best_match" yaml:"best_match"`
	HasBestMatch bool            `json:"has_best_match" yaml:"has_best_match"`
	AverageScore int             `json:"average_score" yaml:"average_score"`
}

// Rank scores every package against prefs and orders them by match score,
// then rating, both descending. Only the top package can be the best match,
// and only when its score reaches BestMatchThreshold. Ties on both keys
// keep input order.
func Rank(pkgs []model.Package, prefs model.Preferences) Ranking {
	scored := make([]ScoredPackage, 0, len(pkgs))
	for _, p := range pkgs {
		scored = append(scored, ScoredPackage{
			Package:    p.Clone(),
			MatchScore: Score(p, prefs),
		})
	}
	return finalize(scored)
}

// finalize sorts already-scored packages and fills in the best match and
// average. It owns scored.
func finalize(scored []ScoredPackage) Ranking {
	r := Ranking{Packages: scored}
	if len(scored) == 0 {
		return r
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return scored[i].Rating > scored[j].Rating
	})

	sum := 0
	for i := range scored {
		scored[i].IsBestMatch = false
		sum += scored[i].MatchScore
	}
	r.AverageScore = int(math.Round(float64(sum) / float64(len(scored))))

	if IsBestMatchScore(scored[0].MatchScore) {
		scored[0].IsBestMatch = true
		best := scored[0]
		r.BestMatch = &best
		r.HasBestMatch = true
	}
	return r
}

// Top returns r limited to its first n packages. The best match and average
// still describe the full ranking. n <= 0 returns r unchanged.
func (r Ranking) Top(n int) Ranking {
	if n <= 0 || n >= len(r.Packages) {
		return r
	}
	r.Packages = r.Packages[:n:n]
	return r
}
