package matching

import "math"

// VibeScore scores free-form vibe overlap out of VibeWeight. Each preferred
// vibe is matched against its closest package vibe; the score blends the
// share of preferences that matched at all with the average match quality.
func VibeScore(packageVibes, preferred []string) int {
	if len(packageVibes) == 0 || len(preferred) == 0 {
		return 0
	}

	matched := make(map[string]struct{}, len(preferred))
	total := 0.0
	for _, want := range preferred {
		best := 0.0
		for _, have := range packageVibes {
			if s := FuzzyMatch(want, have); s > best {
				best = s
			}
		}
		total += best
		if best > 0 {
			matched[want] = struct{}{}
		}
	}

	n := float64(len(preferred))
	coverage := float64(len(matched)) / n
	quality := total / n
	return int(math.Round((vibeCoverageShare*coverage + vibeQualityShare*quality) * VibeWeight))
}
