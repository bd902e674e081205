package config

import (
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Flags holds parsed command-line flag values and which were set.
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// EffectiveConfigResult is the single resolved configuration the app runs
// with, plus where the winning values came from.
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // "flags", "config", or "env"
}

// ParseCommandFlags parses command-line flags and returns them as a Flags struct.
func ParseCommandFlags() Flags {
	addrPtr := flag.String("addr", ":3001", "HTTP listen address")
	dbPtr := flag.String("db", "./.database", "Pebble DB path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: setFlags}
}

// applyEnvOverrides layers KIARACHAT_* (and OPENAI_API_KEY) environment
// values over a file-loaded config. Returns whether any env var was used.
func applyEnvOverrides(cfg *Config) bool {
	used := false
	if v := os.Getenv("KIARACHAT_SERVER_ADDR"); v != "" {
		used = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("KIARACHAT_DB_PATH"); v != "" {
		used = true
		cfg.Server.DBPath = v
	}
	if v := os.Getenv("KIARACHAT_WEB_DIR"); v != "" {
		used = true
		cfg.Server.WebDir = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		used = true
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("KIARACHAT_OPENAI_MODEL"); v != "" {
		used = true
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("KIARACHAT_LOG_LEVEL"); v != "" {
		used = true
		cfg.Logging.Level = v
	}
	if v := os.Getenv("KIARACHAT_CORS_ALLOWED_ORIGINS"); v != "" {
		used = true
		cfg.Security.CORS.AllowedOrigins = splitList(v)
	}
	return used
}

func splitList(v string) []string {
	parts := []string{}
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// LoadEffective loads the config file (missing file is not an error),
// applies env overrides and flag wins, fills defaults and reports the
// dominant source.
func LoadEffective(flags Flags) (EffectiveConfigResult, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := Load(cfgPath)
	source := "config"
	if err != nil {
		if !os.IsNotExist(err) {
			return EffectiveConfigResult{}, err
		}
		cfg = &Config{}
		source = "defaults"
	}

	if applyEnvOverrides(cfg) {
		source = "env"
	}

	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
		source = "flags"
	}
	dbPath := cfg.Server.DBPath
	if dbPath == "" || flags.Set["db"] {
		dbPath = flags.DB
		if flags.Set["db"] {
			source = "flags"
		}
	}

	applyDefaults(cfg)
	return EffectiveConfigResult{Config: cfg, Addr: addr, DBPath: dbPath, Source: source}, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Chat.HistoryWindow.Duration() <= 0 {
		cfg.Chat.HistoryWindow = Duration(7 * 24 * time.Hour)
	}
	if cfg.Chat.HistoryLimit <= 0 {
		cfg.Chat.HistoryLimit = 50
	}
	if cfg.Chat.MaxMessageBytes <= 0 {
		cfg.Chat.MaxMessageBytes = 4 * 1024
	}
	if cfg.Retention.Period.Duration() <= 0 {
		cfg.Retention.Period = cfg.Chat.HistoryWindow
	}
	if cfg.Retention.BatchSize <= 0 {
		cfg.Retention.BatchSize = 500
	}
}
