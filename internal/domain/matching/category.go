package matching

// proximity describes how much of a component's weight a near miss earns,
// by distance on the component's scale. Distances without a rule earn 0.
type proximity struct {
	adjacent float64
	twoApart float64
}

func (p proximity) credit(distance int) float64 {
	switch distance {
	case 1:
		return p.adjacent
	case 2:
		return p.twoApart
	default:
		return 0
	}
}

// Energy has no two-step rule.
var (
	gatheringProximity = proximity{adjacent: adjacentCredit, twoApart: twoApartCredit}
	energyProximity    = proximity{adjacent: adjacentCredit}
)

// GatheringScore scores a package's gathering sizes against the preferred
// size, out of GatheringWeight. The result is not rounded.
func GatheringScore(packageSizes []string, preferred string) float64 {
	return categoryScore(packageSizes, preferred, GatheringWeight, gatheringProximity,
		func(tag string) (int, bool) {
			l, ok := ParseGatheringLevel(tag)
			return int(l), ok
		})
}

// EnergyScore scores a package's energy levels against the preferred level,
// out of EnergyWeight. The result is not rounded.
func EnergyScore(packageLevels []string, preferred string) float64 {
	return categoryScore(packageLevels, preferred, EnergyWeight, energyProximity,
		func(tag string) (int, bool) {
			l, ok := ParseEnergyLevel(tag)
			return int(l), ok
		})
}

// categoryScore awards full weight for an exact tag. Otherwise it walks the
// package tags in order and returns the credit of the first one that earns
// any; tags off the scale are skipped.
func categoryScore(tags []string, preferred string, weight float64, rule proximity, level func(string) (int, bool)) float64 {
	want := Normalize(preferred)
	if len(tags) == 0 || want == "" {
		return 0
	}

	for _, tag := range tags {
		if Normalize(tag) == want {
			return weight
		}
	}

	wantLevel, ok := level(preferred)
	if !ok {
		return 0
	}
	for _, tag := range tags {
		have, ok := level(tag)
		if !ok {
			continue
		}
		if c := rule.credit(abs(have - wantLevel)); c > 0 {
			return weight * c
		}
	}
	return 0
}
