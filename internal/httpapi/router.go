package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux returns the raw mux so main() can still attach extra routes.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handle(map[string]http.HandlerFunc{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		},
	}))

	// Archived jobs
	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/jobs", handle(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))

	// Discovered API configs
	ah := APIConfigHandler{Store: d.Configs}
	mux.HandleFunc("/apiconfigs", handle(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	}))
	mux.HandleFunc("/apiconfigs/", handle(map[string]http.HandlerFunc{
		http.MethodGet: ah.GetBySlug, // expects /apiconfigs/{slug}
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", handle(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", handle(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))

	// Poll
	ph := PollHandler{
		CfgVal:     d.CfgVal,
		PollStatus: d.PollStatus,
		Hub:        d.Hub,
		RunPoll:    d.RunPoll,
	}
	mux.HandleFunc("/poll/status", handle(map[string]http.HandlerFunc{
		http.MethodGet: ph.Status,
	}))
	mux.HandleFunc("/poll/run", handle(map[string]http.HandlerFunc{
		http.MethodPost: ph.Run,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", handle(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
