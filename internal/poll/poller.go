package poll

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"jobradar-engine/internal/config"
)

// StartPoller runs PollOnce on the configured interval until ctx is done.
// The config is re-read from cfgVal before every cycle so a PUT /config
// takes effect on the next tick without a restart. setStatus mirrors run
// state into the status API.
func StartPoller(ctx context.Context, cfgVal *atomic.Value, d Deps, setStatus func(running bool, added int, err error)) {
	go func() {
		for {
			interval := time.Hour
			if cfgAny := cfgVal.Load(); cfgAny != nil {
				if s := cfgAny.(config.Config).Polling.IntervalSeconds; s > 0 {
					interval = time.Duration(s) * time.Second
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(interval):
			}

			cfgAny := cfgVal.Load()
			if cfgAny == nil {
				continue
			}
			cfg := cfgAny.(config.Config)
			if len(cfg.Companies) == 0 {
				continue
			}

			setStatus(true, 0, nil)
			added, err := PollOnce(ctx, cfg, d)
			if err != nil {
				log.Printf("[poll] error: %v", err)
			} else {
				log.Printf("[poll] ok new=%d", added)
			}
			setStatus(false, added, err)
		}
	}()
}
