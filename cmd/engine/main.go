package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"jobradar-engine/internal/apiconfig"
	"jobradar-engine/internal/config"
	"jobradar-engine/internal/discover"
	"jobradar-engine/internal/events"
	"jobradar-engine/internal/history"
	"jobradar-engine/internal/httpapi"
	"jobradar-engine/internal/notify"
	"jobradar-engine/internal/poll"
	"jobradar-engine/internal/scrape/dynamic"
	"jobradar-engine/internal/scrape/htmlpage"
	"jobradar-engine/internal/scrape/util"
	"jobradar-engine/internal/store"
)

func main() {
	// Secrets come from the environment; .env is a convenience for dev runs.
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBRADAR_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config invalid (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open(resolve(dataDir, cfg.Paths.ArchiveDB))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		log.Fatal(err)
	}

	configs := apiconfig.NewStore(resolve(dataDir, cfg.Paths.APIConfigs))
	hist := history.NewStore(resolve(dataDir, cfg.Paths.JobsHistory))
	limiter := util.NewHostLimiter(cfg.Polling.HostRatePerSec, cfg.Polling.HostBurst)
	hub := events.NewHub()

	deps := poll.Deps{
		Configs: configs,
		History: hist,
		DB:      db,
		API:     dynamic.New(configs, limiter),
		HTML:    htmlpage.New(),
		Discoverer: &discover.Browser{
			Headless: !cfg.Discovery.Headful,
			Timeout:  time.Duration(cfg.Discovery.TimeoutSeconds) * time.Second,
		},
		Hub: hub,
	}
	deps.Notifiers = buildNotifiers(cfg)

	var pollStatus atomic.Value
	pollStatus.Store(httpapi.PollStatus{})

	runPoll := func(ctx context.Context, c config.Config) (int, error) {
		return poll.PollOnce(ctx, c, deps)
	}

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db,
		Hub:         hub,
		Configs:     configs,
		CfgVal:      &cfgVal,
		PollStatus:  &pollStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		RunPoll:     runPoll,
	})

	handler := httpapi.Wrap(mux)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[engine] listening on http://%s data_dir=%q companies=%d", addr, dataDir, len(cfg.Companies))

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setStatus := func(running bool, added int, err error) {
		now := time.Now().Format(time.RFC3339)
		st := pollStatus.Load().(httpapi.PollStatus)
		st.Running = running
		if running {
			st.LastRunAt = now
			st.LastError = ""
			pollStatus.Store(st)
			return
		}
		st.LastNew = added
		if err != nil {
			st.LastError = err.Error()
		} else {
			st.LastError = ""
			st.LastOkAt = now
		}
		pollStatus.Store(st)
	}
	poll.StartPoller(ctx, &cfgVal, deps, setStatus)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
	log.Printf("[engine] stopped")
}

// resolve keeps absolute paths as given and anchors relative ones under
// the data dir.
func resolve(dataDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

func buildNotifiers(cfg config.Config) []poll.Notifier {
	var out []poll.Notifier
	if cfg.Notify.Email.Enabled {
		out = append(out, notify.NewEmailSender(cfg))
	}
	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.Token, cfg.Notify.Telegram.ChatID)
		if err != nil {
			log.Printf("[engine] telegram disabled: %v", err)
		} else {
			out = append(out, tg)
		}
	}
	return out
}
