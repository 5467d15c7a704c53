// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/eventmatch/internal/domain/matching"
	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// CatalogDependencies covers package catalog operations.
type CatalogDependencies interface {
	ListPackages(ctx context.Context) ([]model.Package, error)
	GetPackage(ctx context.Context, id string) (model.Package, error)
	PutPackage(ctx context.Context, pkg model.Package) (model.Package, bool, error)
	DeletePackage(ctx context.Context, id string) error
	ScorePackage(ctx context.Context, id string, prefs model.Preferences) (matching.Breakdown, error)
}

// MatchDependencies covers ranking operations.
type MatchDependencies interface {
	Match(ctx context.Context, prefs model.Preferences, limit int) (matching.Ranking, error)
	MatchBatch(ctx context.Context, sets []types.PreferenceSet) ([]types.RankingResult, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CatalogDependencies
	MatchDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	packagesHandler *PackagesHandler
	matchHandler    *MatchHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		packagesHandler: NewPackagesHandler(deps),
		matchHandler:    NewMatchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/packages", MetricsMiddleware(s.packagesHandler.HandlePackages, "packages"))
	mux.HandleFunc("/packages/", MetricsMiddleware(s.packagesHandler.HandlePackage, "package"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/match/batch", MetricsMiddleware(s.matchHandler.HandleBatch, "match_batch"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err with the status its kind maps to.
func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	writeJSON(w, code, errorResponse{Code: name, Message: err.Error()})
}

// decode reads a JSON body into v. Any failure is a bad request.
func decode(op string, w http.ResponseWriter, r *http.Request, v any) error {
	return decodeBody(op, w, r, v, false)
}

// decodeOptional is decode for bodies that may be omitted; an empty body
// leaves v at its zero value.
func decodeOptional(op string, w http.ResponseWriter, r *http.Request, v any) error {
	return decodeBody(op, w, r, v, true)
}

func decodeBody(op string, w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return WrapKind(op, ErrBadRequest, fmt.Errorf("body exceeds %d bytes", maxErr.Limit))
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
