package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	NATS    NATSConfig    `yaml:"nats"`
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port               int    `yaml:"port"`
	MetricsPort        int    `yaml:"metrics_port"`
	AdminToken         string `yaml:"admin_token"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
}

// StoreConfig selects the persistence backend. The sqlite driver keeps
// everything in a single file and is the default for single-node runs;
// postgres takes a DSN.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
}

// NATSConfig enables eventing and the async comparison worker. An empty
// URL disables both.
type NATSConfig struct {
	URL string `yaml:"url"`
}

type EngineConfig struct {
	Weights        WeightsConfig  `yaml:"weights"`
	Tunables       TunablesConfig `yaml:"tunables"`
	ScorePrecision int            `yaml:"score_precision"`
}

// WeightsConfig is the dimension weight vector. It must sum to 1.0; the
// engine rejects it otherwise at startup.
type WeightsConfig struct {
	Cost        float64 `yaml:"cost"`
	Latency     float64 `yaml:"latency"`
	Scalability float64 `yaml:"scalability"`
	Compliance  float64 `yaml:"compliance"`
	Cloud       float64 `yaml:"cloud"`
	Skill       float64 `yaml:"skill"`
}

// TunablesConfig holds the scoring policy constants. Defaults match the
// documented policy; the engine validates them at startup.
type TunablesConfig struct {
	OverBudgetPenalty    float64 `yaml:"over_budget_penalty"`
	OverLatencyPenalty   float64 `yaml:"over_latency_penalty"`
	UnderScalePenalty    float64 `yaml:"under_scale_penalty"`
	ComplianceGapPenalty float64 `yaml:"compliance_gap_penalty"`
	SkillGapPenalty      float64 `yaml:"skill_gap_penalty"`
	CloudMismatchScore   float64 `yaml:"cloud_mismatch_score"`
	TradeoffThreshold    float64 `yaml:"tradeoff_threshold"`
	HighImpactGap        float64 `yaml:"high_impact_gap"`
	MediumImpactGap      float64 `yaml:"medium_impact_gap"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "decisions.db",
		},
		Engine: EngineConfig{
			Weights: WeightsConfig{
				Cost:        0.25,
				Latency:     0.20,
				Scalability: 0.20,
				Compliance:  0.15,
				Cloud:       0.10,
				Skill:       0.10,
			},
			Tunables: TunablesConfig{
				OverBudgetPenalty:    1.5,
				OverLatencyPenalty:   1.5,
				UnderScalePenalty:    1.5,
				ComplianceGapPenalty: 3.0,
				SkillGapPenalty:      3.0,
				CloudMismatchScore:   4.0,
				TradeoffThreshold:    1.0,
				HighImpactGap:        4.0,
				MediumImpactGap:      2.0,
			},
			ScorePrecision: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the service-level settings. Engine weights and
// tunables are validated by the engine itself at construction.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.MetricsPort <= 0 {
		return fmt.Errorf("invalid config: ports must be positive, got %d and %d", c.Server.Port, c.Server.MetricsPort)
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("invalid config: rate_limit_per_minute must be positive, got %d", c.Server.RateLimitPerMinute)
	}
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("invalid config: sqlite driver requires sqlite_path")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("invalid config: postgres driver requires dsn")
		}
	default:
		return fmt.Errorf("invalid config: unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DECISION_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("DECISION_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("DECISION_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("DECISION_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("DECISION_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DECISION_DATABASE_URL"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("DECISION_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("DECISION_NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("DECISION_SCORE_PRECISION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.ScorePrecision = n
		}
	}
	if v := os.Getenv("DECISION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("DECISION_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
