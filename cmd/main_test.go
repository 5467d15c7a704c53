package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	app "github.com/okian/eventmatch/internal/app"
	"github.com/okian/eventmatch/internal/config"
	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const catalogYAML = `
packages:
  - id: jazz
    name: Jazz Lounge
    ideal_gathering_sizes: [small_group]
    ideal_energy_levels: [low_key]
    ideal_vibes: [classy, music]
    rating: 4.8
  - id: arcade
    name: Retro Arcade
    ideal_gathering_sizes: [party]
    ideal_energy_levels: [high_energy]
    ideal_vibes: [playful, nostalgic]
    rating: 4.3
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(catalogYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := config.New()
	cfg.Addr = "127.0.0.1:0"
	cfg.CatalogFile = path
	cfg.WorkerCount = 2
	return cfg
}

func TestNewServer(t *testing.T) {
	convey.Convey("Given a server built from configuration", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		srv, svc, err := newServer(ctx, testConfig(t), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		convey.Convey("Then the catalog file is loaded", func() {
			stats := svc.GetStats()
			convey.So(stats["totalPackages"], convey.ShouldEqual, 2)
			convey.So(stats["started"], convey.ShouldEqual, true)
			convey.So(srv.Addr, convey.ShouldEqual, "127.0.0.1:0")
		})

		convey.Convey("And matching works end to end", func() {
			body := `{"gathering_size":"party","energy_level":"high energy","vibe_preferences":["playful"]}`
			req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body))
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var ranking matching.Ranking
			convey.So(json.Unmarshal(w.Body.Bytes(), &ranking), convey.ShouldBeNil)
			convey.So(ranking.Packages[0].ID, convey.ShouldEqual, "arcade")
			convey.So(ranking.Packages[0].MatchScore, convey.ShouldEqual, 100)
			convey.So(ranking.HasBestMatch, convey.ShouldBeTrue)
		})

		convey.Convey("And batch matching goes through the worker pool", func() {
			body := `[{"name":"a","preferences":{"gathering_size":"small_group"}},{"name":"b","preferences":{"gathering_size":"party"}}]`
			req := httptest.NewRequest(http.MethodPost, "/match/batch", strings.NewReader(body))
			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"name":"a"`)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"name":"b"`)
		})

		convey.Convey("And the docs and metrics routes are served", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats", "/packages"} {
				req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, req)
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})

	convey.Convey("Given a missing catalog file", t, func() {
		cfg := testConfig(t)
		cfg.CatalogFile = filepath.Join(t.TempDir(), "missing.yaml")

		convey.Convey("Then the server is not built", func() {
			_, _, err := newServer(context.Background(), cfg, logger.Nop())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a running server", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, testConfig(t), logger.Nop()) }()

		convey.Convey("When the context is canceled", func() {
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					t.Fatal("run did not return after cancel")
				}
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		svc := app.New(app.WithLogger(logger.Nop()))

		convey.Convey("Then they update without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("And the loops stop with their context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			finished := make(chan struct{}, 2)
			go func() { startSystemMetricsUpdater(ctx); finished <- struct{}{} }()
			go func() { startServiceMetricsUpdater(ctx, svc); finished <- struct{}{} }()
			for i := 0; i < 2; i++ {
				select {
				case <-finished:
				case <-time.After(time.Second):
					t.Fatal("updater did not stop")
				}
			}
		})
	})
}
