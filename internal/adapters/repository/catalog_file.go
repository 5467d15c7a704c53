package repository

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/eventmatch/internal/domain/model"
)

// catalogKey is the top-level YAML key holding the package list.
const catalogKey = "packages"

// LoadCatalogFile reads packages from a YAML file shaped like:
//
//	packages:
//	  - id: rooftop
//	    name: Rooftop Social
//	    ideal_gathering_sizes: [party]
//	    ideal_energy_levels: [moderate]
//	    ideal_vibes: [nightlife, chill]
//	    rating: 4.6
//	    review_count: 120
//
// Packages are returned as written; validation happens when they are stored.
func LoadCatalogFile(_ context.Context, path string) ([]model.Package, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoadCatalog, path, err)
	}

	var pkgs []model.Package
	if err := k.UnmarshalWithConf(catalogKey, &pkgs, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrLoadCatalog, path, err)
	}
	return pkgs, nil
}
