package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/eventmatch/internal/domain/model"
	"github.com/okian/eventmatch/internal/domain/types"
)

// MatchHandler serves ranking requests.
type MatchHandler struct {
	deps MatchDependencies
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies) *MatchHandler {
	return &MatchHandler{deps: deps}
}

// matchRequest is a preferences body with an optional result limit.
type matchRequest struct {
	model.Preferences
	Limit int `json:"limit,omitempty"`
}

type batchResponse struct {
	Results []types.RankingResult `json:"results"`
}

// HandleMatch handles POST /match[?limit=N]. A query limit overrides the
// body limit.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchRequest
	if err := decodeOptional(op, w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", raw)))
			return
		}
		req.Limit = n
	}

	ranking, err := h.deps.Match(r.Context(), req.Preferences, req.Limit)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// HandleBatch handles POST /match/batch. The body is a JSON array of named
// preference sets; results keep request order.
func (h *MatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.match_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var sets []types.PreferenceSet
	if err := decode(op, w, r, &sets); err != nil {
		writeError(w, err)
		return
	}

	results, err := h.deps.MatchBatch(r.Context(), sets)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}
