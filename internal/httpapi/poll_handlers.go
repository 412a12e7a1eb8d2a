package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
)

type PollHandler struct {
	CfgVal     *atomic.Value // config.Config
	PollStatus *atomic.Value // httpapi.PollStatus
	Hub        *events.Hub
	RunPoll    func(ctx context.Context, cfg config.Config) (newJobs int, err error)
}

func (h PollHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.PollStatus.Load().(PollStatus)
	writeJSON(w, http.StatusOK, st)
}

func (h PollHandler) Run(w http.ResponseWriter, r *http.Request) {
	st := h.PollStatus.Load().(PollStatus)
	if st.Running {
		writeJSON(w, http.StatusOK, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	h.PollStatus.Store(PollStatus{
		LastRunAt: time.Now().Format(time.RFC3339),
		Running:   true,
		LastError: "",
		LastNew:   0,
		LastOkAt:  st.LastOkAt,
	})

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		added, err := h.RunPoll(context.Background(), cfg)

		now := time.Now().Format(time.RFC3339)
		next := h.PollStatus.Load().(PollStatus)
		next.Running = false
		next.LastRunAt = now
		next.LastNew = added
		if err != nil {
			next.LastError = err.Error()
		} else {
			next.LastError = ""
			next.LastOkAt = now
		}
		h.PollStatus.Store(next)

		if h.Hub != nil {
			h.Hub.Publish(events.MakeEvent("poll_finished", map[string]any{"new": added}))
		}
	}()

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
