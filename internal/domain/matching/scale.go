package matching

// GatheringLevel is a point on the ordered gathering-size scale.
type GatheringLevel int

// Gathering sizes from smallest to largest.
const (
	GatheringIntimate GatheringLevel = iota
	GatheringSmallGroup
	GatheringParty
	GatheringLarge
)

var gatheringNames = [...]string{
	GatheringIntimate:   "intimate",
	GatheringSmallGroup: "small_group",
	GatheringParty:      "party",
	GatheringLarge:      "large",
}

// String returns the canonical tag for l.
func (l GatheringLevel) String() string {
	if l < 0 || int(l) >= len(gatheringNames) {
		return "unknown"
	}
	return gatheringNames[l]
}

// Distance is the number of steps between two levels.
func (l GatheringLevel) Distance(o GatheringLevel) int {
	return abs(int(l) - int(o))
}

// ParseGatheringLevel maps a tag to its level. Tags are compared in
// normalized form, so "Small-Group" parses as GatheringSmallGroup.
func ParseGatheringLevel(tag string) (GatheringLevel, bool) {
	i, ok := position(gatheringNames[:], tag)
	return GatheringLevel(i), ok
}

// EnergyLevel is a point on the ordered energy scale.
type EnergyLevel int

// Energy levels from calmest to liveliest.
const (
	EnergyLowKey EnergyLevel = iota
	EnergyModerate
	EnergyHigh
)

var energyNames = [...]string{
	EnergyLowKey:   "low_key",
	EnergyModerate: "moderate",
	EnergyHigh:     "high_energy",
}

// String returns the canonical tag for l.
func (l EnergyLevel) String() string {
	if l < 0 || int(l) >= len(energyNames) {
		return "unknown"
	}
	return energyNames[l]
}

// Distance is the number of steps between two levels.
func (l EnergyLevel) Distance(o EnergyLevel) int {
	return abs(int(l) - int(o))
}

// ParseEnergyLevel maps a tag to its level.
func ParseEnergyLevel(tag string) (EnergyLevel, bool) {
	i, ok := position(energyNames[:], tag)
	return EnergyLevel(i), ok
}

// GatheringLevels lists every gathering tag in scale order.
func GatheringLevels() []string {
	return append([]string(nil), gatheringNames[:]...)
}

// EnergyLevels lists every energy tag in scale order.
func EnergyLevels() []string {
	return append([]string(nil), energyNames[:]...)
}

func position(names []string, tag string) (int, bool) {
	n := Normalize(tag)
	if n == "" {
		return -1, false
	}
	for i, name := range names {
		if Normalize(name) == n {
			return i, true
		}
	}
	return -1, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
