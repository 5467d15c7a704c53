package matching

import (
	"strings"
	"unicode"
)

// Normalize returns the comparable form of a category or vibe tag: lower
// case, trimmed, '-' and '_' turned into spaces, whitespace runs collapsed.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// FuzzyMatch rates how similar two tags are, in [0, 1]. The first rule that
// applies wins: equal after normalization (1.0), one contains the other
// (0.8), otherwise token Jaccard similarity scaled by 0.6.
func FuzzyMatch(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	if na == nb {
		return exactMatch
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return substringMatch
	}
	return jaccard(tokens(na), tokens(nb)) * tokenOverlap
}

func tokens(s string) map[string]struct{} {
	parts := strings.Split(s, " ")
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		set[p] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
