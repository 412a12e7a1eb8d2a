package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Company struct {
	Name     string   `yaml:"name"`
	Slug     string   `yaml:"slug"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
	UseAPI   *bool    `yaml:"use_api"` // nil means true
}

// APIEnabled reports whether discovery/replay should be tried before the
// HTML fallback. Defaults on when the config file says nothing.
func (c Company) APIEnabled() bool {
	return c.UseAPI == nil || *c.UseAPI
}

type EmailNotify struct {
	Enabled        bool   `yaml:"enabled"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	From           string `yaml:"from"`
	To             string `yaml:"to"`
	KeyringAccount string `yaml:"keyring_account"`
}

type TelegramNotify struct {
	Enabled bool   `yaml:"enabled"`
	ChatID  int64  `yaml:"chat_id"`
	Token   string `yaml:"-"` // env only, never persisted
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Polling struct {
		IntervalSeconds     int     `yaml:"interval_seconds"`
		CompanyDelaySeconds int     `yaml:"company_delay_seconds"`
		HostRatePerSec      float64 `yaml:"host_rate_per_sec"`
		HostBurst           int     `yaml:"host_burst"`
	} `yaml:"polling"`

	Discovery struct {
		TimeoutSeconds int  `yaml:"timeout_seconds"`
		Headful        bool `yaml:"headful"` // visible browser, for debugging sessions
	} `yaml:"discovery"`

	Search struct {
		Keywords   []string `yaml:"keywords"`
		Location   string   `yaml:"location"`
		MaxResults int      `yaml:"max_results"`
	} `yaml:"search"`

	Filters struct {
		TypeKeywords  []string `yaml:"type_keywords"`
		FieldKeywords []string `yaml:"field_keywords"`
	} `yaml:"filters"`

	Companies []Company `yaml:"companies"`

	Notify struct {
		Email    EmailNotify    `yaml:"email"`
		Telegram TelegramNotify `yaml:"telegram"`
	} `yaml:"notify"`

	Paths struct {
		APIConfigs  string `yaml:"api_configs"`
		JobsHistory string `yaml:"jobs_history"`
		ArchiveDB   string `yaml:"archive_db"`
	} `yaml:"paths"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Port == 0 {
		cfg.App.Port = 38562
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}
	if cfg.Polling.IntervalSeconds == 0 {
		cfg.Polling.IntervalSeconds = 3600
	}
	if cfg.Polling.CompanyDelaySeconds == 0 {
		cfg.Polling.CompanyDelaySeconds = 2
	}
	if cfg.Polling.HostRatePerSec == 0 {
		cfg.Polling.HostRatePerSec = 1.0
	}
	if cfg.Polling.HostBurst == 0 {
		cfg.Polling.HostBurst = 2
	}
	if cfg.Discovery.TimeoutSeconds == 0 {
		cfg.Discovery.TimeoutSeconds = 90
	}
	if len(cfg.Search.Keywords) == 0 {
		cfg.Search.Keywords = []string{"intern", "internship"}
	}
	if cfg.Search.Location == "" {
		cfg.Search.Location = "DEU"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 100
	}
	if cfg.Notify.Email.SMTPHost == "" {
		cfg.Notify.Email.SMTPHost = "smtp.gmail.com"
	}
	if cfg.Notify.Email.SMTPPort == 0 {
		cfg.Notify.Email.SMTPPort = 587
	}
	if cfg.Paths.APIConfigs == "" {
		cfg.Paths.APIConfigs = "data/api_configs.json"
	}
	if cfg.Paths.JobsHistory == "" {
		cfg.Paths.JobsHistory = "data/jobs_history.json"
	}
	if cfg.Paths.ArchiveDB == "" {
		cfg.Paths.ArchiveDB = "data/jobradar.db"
	}
}

// Secrets and per-host overrides come from the environment (or .env via
// godotenv in main), never from the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notify.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("EMAIL_RECIPIENT"); v != "" {
		cfg.Notify.Email.To = v
	}
	if v := os.Getenv("GMAIL_EMAIL"); v != "" {
		cfg.Notify.Email.From = v
	}
}
