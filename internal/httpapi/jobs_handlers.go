package httpapi

import (
	"database/sql"
	"net/http"
	"strconv"

	"jobradar-engine/internal/store"
)

type JobsHandler struct {
	DB *sql.DB
}

// List serves the sqlite archive. Query params: window=24h|7d|all,
// limit=N.
func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeError(w, r, http.StatusServiceUnavailable, "no_archive", "job archive is disabled")
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	jobs, err := store.ListJobs(r.Context(), h.DB, q.Get("window"), limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if jobs == nil {
		jobs = []store.ArchivedJob{}
	}
	writeJSON(w, http.StatusOK, jobs)
}
