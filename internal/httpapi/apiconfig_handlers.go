package httpapi

import (
	"net/http"
	"strings"

	"jobradar-engine/internal/apiconfig"
)

type APIConfigHandler struct {
	Store *apiconfig.Store
}

// List returns every discovered API config keyed by company slug.
func (h APIConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Store.Load()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// GetBySlug expects /apiconfigs/{slug}.
func (h APIConfigHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/apiconfigs/")
	if slug == "" {
		writeError(w, r, http.StatusBadRequest, "bad_slug", "missing company slug")
		return
	}

	cfg, ok, err := h.Store.Get(slug)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "no api config for "+slug)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}
