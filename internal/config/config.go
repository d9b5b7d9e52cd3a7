package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	// GatewayStore writes submitted scores straight to the assessment store.
	GatewayStore = "store"
	// GatewayHTTP sends submitted scores to a remote assessment API.
	GatewayHTTP = "http"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`
	Storage struct {
		Driver     string `yaml:"driver"`
		SQLitePath string `yaml:"sqlitePath"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Assessment struct {
		PointsPerQuestion int    `yaml:"pointsPerQuestion"`
		QuestionTTL       string `yaml:"questionTTL"`
		SubmitTimeout     string `yaml:"submitTimeout"`
	} `yaml:"assessment"`
	Gateway struct {
		Mode    string `yaml:"mode"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"gateway"`
	Generator struct {
		Endpoint      string `yaml:"endpoint"`
		QuestionCount int    `yaml:"questionCount"`
		Timeout       string `yaml:"timeout"`
	} `yaml:"generator"`
}

// Load reads YAML config from path, applies defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
		if c.Postgres.URL != "" {
			c.Storage.Driver = StoragePostgres
		}
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "data/assessments.db"
	}
	if c.Assessment.PointsPerQuestion == 0 {
		c.Assessment.PointsPerQuestion = 10
	}
	if c.Gateway.Mode == "" {
		c.Gateway.Mode = GatewayStore
	}
	if c.Generator.QuestionCount == 0 {
		c.Generator.QuestionCount = 10
	}
}

// Validate reports configuration that cannot be started.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("storage.driver postgres requires postgres.url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.driver %q", c.Storage.Driver))
	}
	switch c.Gateway.Mode {
	case GatewayStore:
	case GatewayHTTP:
		if c.Gateway.BaseURL == "" {
			errs = append(errs, errors.New("gateway.mode http requires gateway.baseURL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown gateway.mode %q", c.Gateway.Mode))
	}
	if c.Assessment.PointsPerQuestion < 0 {
		errs = append(errs, errors.New("assessment.pointsPerQuestion must be positive"))
	}
	if c.Generator.QuestionCount < 0 {
		errs = append(errs, errors.New("generator.questionCount must be positive"))
	}
	return errors.Join(errs...)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
