package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/events"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	Configs *apiconfig.Store

	// Atomic stores
	CfgVal     *atomic.Value // stores config.Config
	PollStatus *atomic.Value // stores httpapi.PollStatus

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Poll entrypoint (inject for testability)
	RunPoll func(ctx context.Context, cfg config.Config) (newJobs int, err error)
}
