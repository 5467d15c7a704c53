// Package types contains the batch request and response shapes shared by the
// worker pool, the service and the HTTP layer.
package types

import (
	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/internal/domain/model"
)

// PreferenceSet is one named set of preferences inside a batch request.
type PreferenceSet struct {
	Name        string            `json:"name" yaml:"name"`
	Preferences model.Preferences `json:"preferences" yaml:"preferences"`
}

// RankingResult is the ranking produced for one PreferenceSet.
type RankingResult struct {
	Name    string           `json:"name" yaml:"name"`
	Ranking matching.Ranking `json:"ranking" yaml:"ranking"`
}

// Names returns the set names in request order.
func Names(sets []PreferenceSet) []string {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.Name
	}
	return names
}
