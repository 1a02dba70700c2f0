package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"5000" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stderr" validate:"required"`
	} `yaml:"log"`
	Portfolio struct {
		File string `yaml:"file" default:"portfolio.json" validate:"required"`
	} `yaml:"portfolio"`
	Refresh struct {
		Interval time.Duration `yaml:"interval" default:"5s" validate:"gt=0"`
		Once     bool          `yaml:"once"`
	} `yaml:"refresh"`
	Provider struct {
		Type           string        `yaml:"type" default:"finnhub" validate:"oneof=finnhub static"`
		MaxConcurrency int           `yaml:"max_concurrency" default:"4" validate:"gte=1,lte=64"`
		Timeout        time.Duration `yaml:"timeout" default:"5s"`
		SnapshotTTL    time.Duration `yaml:"snapshot_ttl" default:"0s"`
		YearStartTTL   time.Duration `yaml:"year_start_ttl" default:"12h"`
		Rate           struct {
			Capacity     float64 `yaml:"capacity" default:"30" validate:"gte=0"`
			RefillPerSec float64 `yaml:"refill_per_sec" default:"1" validate:"gte=0"`
		} `yaml:"rate"`
	} `yaml:"provider"`
	Finnhub struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url" default:"https://finnhub.io/api/v1" validate:"url"`
	} `yaml:"finnhub"`
	Static struct {
		File string `yaml:"file" default:"config/prices.yaml"`
	} `yaml:"static"`
	Cache struct {
		Backend string `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		Redis   struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"foliopull"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Sinks struct {
		Terminal bool `yaml:"terminal" default:"true"`
		Web      bool `yaml:"web" default:"true"`
		CSV      struct {
			Enabled bool   `yaml:"enabled" default:"true"`
			Path    string `yaml:"path" default:"portfolio_data.csv"`
		} `yaml:"csv"`
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic" default:"portfolio.performance"`
			RequiredAcks int           `yaml:"required_acks" default:"-1"`
			Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"kafka"`
	} `yaml:"sinks"`
	Watchlist struct {
		Symbols []string `yaml:"symbols"`
	} `yaml:"watchlist"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func decode(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error here; defaults and the environment still apply.
func LoadWithEnv(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := decode(b)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := getenv("PORTFOLIO_FILE"); v != "" {
		c.Portfolio.File = v
	}
	if v := getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		c.Refresh.Interval = d
	}
	if v := getenv("WATCHLIST"); v != "" {
		c.Watchlist.Symbols = splitList(v)
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Sinks.Kafka.Brokers = splitList(v)
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Provider.Type == "finnhub" && c.Finnhub.APIKey == "" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	if c.Sinks.Kafka.Enabled && len(c.Sinks.Kafka.Brokers) == 0 {
		return fmt.Errorf("sinks.kafka.brokers cannot be empty when kafka sink is enabled")
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
