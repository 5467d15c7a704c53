package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/eventmatch/internal/domain/model"
)

// PackagesHandler serves the package catalog.
type PackagesHandler struct {
	deps CatalogDependencies
}

// NewPackagesHandler creates a new packages handler.
func NewPackagesHandler(deps CatalogDependencies) *PackagesHandler {
	return &PackagesHandler{deps: deps}
}

type listResponse struct {
	Packages []model.Package `json:"packages"`
	Count    int             `json:"count"`
}

// HandlePackages handles GET and POST /packages.
func (h *PackagesHandler) HandlePackages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.put(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PackagesHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_packages"
	pkgs, err := h.deps.ListPackages(r.Context())
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Packages: pkgs, Count: len(pkgs)})
}

func (h *PackagesHandler) put(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_package"
	var pkg model.Package
	if err := decode(op, w, r, &pkg); err != nil {
		writeError(w, err)
		return
	}
	stored, created, err := h.deps.PutPackage(r.Context(), pkg)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	writeJSON(w, code, stored)
}

// HandlePackage handles GET and DELETE /packages/{id} and
// POST /packages/{id}/score.
func (h *PackagesHandler) HandlePackage(w http.ResponseWriter, r *http.Request) {
	const op = "api.package"
	path := strings.TrimPrefix(r.URL.Path, "/packages/")
	id, sub, nested := strings.Cut(path, "/")
	if id == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("missing package id")))
		return
	}

	switch {
	case !nested && r.Method == http.MethodGet:
		h.get(w, r, id)
	case !nested && r.Method == http.MethodDelete:
		h.remove(w, r, id)
	case nested && sub == "score" && r.Method == http.MethodPost:
		h.score(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *PackagesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_package"
	pkg, err := h.deps.GetPackage(r.Context(), id)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackagesHandler) remove(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.delete_package"
	if err := h.deps.DeletePackage(r.Context(), id); err != nil {
		writeError(w, classify(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PackagesHandler) score(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.score_package"
	var prefs model.Preferences
	if err := decodeOptional(op, w, r, &prefs); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.deps.ScorePackage(r.Context(), id, prefs)
	if err != nil {
		writeError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, b)
}
