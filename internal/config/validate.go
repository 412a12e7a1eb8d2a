package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if cfg.Polling.IntervalSeconds < 0 {
		errs = append(errs, "polling.interval_seconds must be >= 0")
	}
	if cfg.Polling.HostRatePerSec <= 0 {
		errs = append(errs, "polling.host_rate_per_sec must be > 0")
	}

	for i, co := range cfg.Companies {
		if strings.TrimSpace(co.Name) == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].name is required", i))
		}
		if strings.TrimSpace(co.URL) == "" {
			errs = append(errs, fmt.Sprintf("companies[%d].url is required", i))
		}
	}

	if cfg.Notify.Email.Enabled {
		if cfg.Notify.Email.From == "" {
			errs = append(errs, "notify.email.from is required when email is enabled")
		}
		if cfg.Notify.Email.To == "" {
			errs = append(errs, "notify.email.to is required when email is enabled")
		}
	}
	if cfg.Notify.Telegram.Enabled && cfg.Notify.Telegram.ChatID == 0 {
		errs = append(errs, "notify.telegram.chat_id is required when telegram is enabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// SaveAtomic validates and rewrites the config file via tmp+rename, keeping
// the previous version as .bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
