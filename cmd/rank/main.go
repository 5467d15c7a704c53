// Command rank scores a YAML package catalog against one set of
// preferences without running the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	repository "github.com/okian/eventmatch/internal/adapters/repository"
	app "github.com/okian/eventmatch/internal/app"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/pkg/logger"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

// Flag names.
const (
	debugFlag     = "debug"
	catalogFlag   = "catalog"
	formatFlag    = "format"
	gatheringFlag = "gathering"
	energyFlag    = "energy"
	vibeFlag      = "vibe"
	limitFlag     = "limit"
	idFlag        = "id"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "rank",
		Version: fmt.Sprintf("%s - (commit: %s)", version, commit),
		Usage:   "Rank catalog packages against event preferences",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs to stderr (optional, default: false)",
			},
			&cli.StringFlag{
				Name:    catalogFlag,
				Usage:   "Path to the YAML catalog file (packages: [...])",
				Sources: cli.EnvVars("EVENTMATCH_CATALOG_FILE"),
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.StringFlag{
				Name:  gatheringFlag,
				Usage: "Preferred gathering size (intimate, small_group, party, large)",
			},
			&cli.StringFlag{
				Name:  energyFlag,
				Usage: "Preferred energy level (low_key, moderate, high_energy)",
			},
			&cli.StringSliceFlag{
				Name:  vibeFlag,
				Usage: "Preferred vibe, repeat for several",
			},
			&cli.IntFlag{
				Name:  limitFlag,
				Usage: "Limits the number of packages printed (0 prints all)",
			},
		},
		Action: cmdRank,
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "Print the score breakdown of one package",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  idFlag,
						Usage: "Package id to score",
					},
				},
				Action: cmdScore,
			},
		},
	}
}

func cmdRank(ctx context.Context, cmd *cli.Command) error {
	svc, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	ranking, err := svc.Match(ctx, preferences(cmd), int(cmd.Int(limitFlag)))
	if err != nil {
		return fmt.Errorf("ranking catalog: %w", err)
	}
	return encode(cmd, ranking)
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	svc, err := loadService(ctx, cmd)
	if err != nil {
		return err
	}
	id := cmd.String(idFlag)
	if id == "" {
		return errors.New("missing --id")
	}
	b, err := svc.ScorePackage(ctx, id, preferences(cmd))
	if err != nil {
		return fmt.Errorf("scoring package: %w", err)
	}
	return encode(cmd, b)
}

// loadService initializes logging and builds a service seeded with the
// catalog file. The worker pool is not started; only single matches run.
func loadService(ctx context.Context, cmd *cli.Command) (*app.Service, error) {
	if err := initLogging(cmd.Root().ErrWriter, cmd.Bool(debugFlag)); err != nil {
		return nil, err
	}

	path := cmd.String(catalogFlag)
	if path == "" {
		return nil, errors.New("missing --catalog")
	}
	pkgs, err := repository.LoadCatalogFile(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug(ctx, "catalog loaded", logger.String("path", path), logger.Int("packages", len(pkgs)))

	return app.New(
		app.WithLogger(logger.Named("rank")),
		app.WithSeedPackages(pkgs),
	), nil
}

func initLogging(w io.Writer, debug bool) error {
	if w == nil {
		w = os.Stderr
	}
	if err := logger.Init(logger.WithOutput(w)); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	level := "warn"
	if debug {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

func preferences(cmd *cli.Command) model.Preferences {
	return model.Preferences{
		GatheringSize:   cmd.String(gatheringFlag),
		EnergyLevel:     cmd.String(energyFlag),
		VibePreferences: cmd.StringSlice(vibeFlag),
	}
}

func encode(cmd *cli.Command, v any) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	switch f := strings.ToLower(cmd.String(formatFlag)); f {
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}
