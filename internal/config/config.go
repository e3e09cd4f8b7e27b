package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. Values come from the yaml file
// first, then environment variables override individual fields.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Cache struct {
		SymbolTTLSeconds int `yaml:"symbol_ttl_seconds"`
		PriceTTLSeconds  int `yaml:"price_ttl_seconds"`
	} `yaml:"cache"`
	Calculator struct {
		// MaxRiskPercent caps the risk percentage a specification may
		// request. 0 disables the cap; futures sizing is allowed to imply
		// leverage, so permissive is the default.
		MaxRiskPercent float64 `yaml:"max_risk_percent"`
	} `yaml:"calculator"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Exchanges []ExchangeConfig `yaml:"exchanges"`
}

// ExchangeConfig overrides one venue's REST endpoint, mainly for tests and
// regional mirrors.
type ExchangeConfig struct {
	Name         string `yaml:"name"`
	RESTEndpoint string `yaml:"rest_endpoint"`
}

// Load reads the yaml config at path and applies env overrides. A missing
// file is not an error; defaults plus environment are enough to run.
func Load(path string) (*Config, error) {
	// Load .env if present, allow pure env vars otherwise.
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Cache.SymbolTTLSeconds = 300
	cfg.Cache.PriceTTLSeconds = 30
	cfg.Database.Path = "calculations.db"
	cfg.Logging.Level = "info"

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Cache.SymbolTTLSeconds = getEnvAsInt("SYMBOL_CACHE_TTL", cfg.Cache.SymbolTTLSeconds)
	cfg.Cache.PriceTTLSeconds = getEnvAsInt("PRICE_CACHE_TTL", cfg.Cache.PriceTTLSeconds)
	cfg.Calculator.MaxRiskPercent = getEnvAsFloat("MAX_RISK_PERCENT", cfg.Calculator.MaxRiskPercent)
	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	return cfg, nil
}

func (c *Config) SymbolTTL() time.Duration {
	return time.Duration(c.Cache.SymbolTTLSeconds) * time.Second
}

func (c *Config) PriceTTL() time.Duration {
	return time.Duration(c.Cache.PriceTTLSeconds) * time.Second
}

// BaseURLs maps exchange names to configured REST endpoints. Venues without
// an override use their production defaults.
func (c *Config) BaseURLs() map[string]string {
	urls := make(map[string]string, len(c.Exchanges))
	for _, e := range c.Exchanges {
		if e.RESTEndpoint != "" {
			urls[e.Name] = e.RESTEndpoint
		}
	}
	return urls
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
