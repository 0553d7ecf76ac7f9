package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Cheertaboi/coupon-dashboard/pkg/db"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	SourceLive    = "live"
	SourceOffline = "offline"
)

type Config struct {
	Env      string        `yaml:"env" env:"APP_ENV" env-default:"local"`
	Timezone string        `yaml:"timezone" env:"APP_TIMEZONE" env-default:"America/Sao_Paulo"`
	ViewIdle time.Duration `yaml:"view_idle" env:"VIEW_IDLE" env-default:"30m"`
	HTTP     HTTP          `yaml:"http"`
	Upstream Upstream      `yaml:"upstream"`
	Cache    Cache         `yaml:"cache"`
	Lookup   Lookup        `yaml:"lookup"`
	Source   Source        `yaml:"source"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type Upstream struct {
	ComprasBaseURL string        `yaml:"compras_base_url" env:"COMPRAS_API_URL" env-default:"http://localhost:3000"`
	GeoBaseURL     string        `yaml:"geo_base_url" env:"GEO_API_URL" env-default:"https://servicodados.ibge.gov.br/api/v1/localidades"`
	Timeout        time.Duration `yaml:"timeout" env:"UPSTREAM_TIMEOUT" env-default:"15s"`
}

type Cache struct {
	TTL         time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"5m"`
	MaxStale    time.Duration `yaml:"max_stale" env:"CACHE_MAX_STALE" env-default:"30m"`
	LoadTimeout time.Duration `yaml:"load_timeout" env:"CACHE_LOAD_TIMEOUT" env-default:"20s"`
	MaxEntries  int           `yaml:"max_entries" env:"CACHE_MAX_ENTRIES" env-default:"1000"`
	LookupTTL   time.Duration `yaml:"lookup_ttl" env:"LOOKUP_CACHE_TTL" env-default:"1h"`
}

type Lookup struct {
	RetryAttempts uint          `yaml:"retry_attempts" env:"LOOKUP_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"LOOKUP_RETRY_DELAY" env-default:"200ms"`
	RetryMaxDelay time.Duration `yaml:"retry_max_delay" env:"LOOKUP_RETRY_MAX_DELAY" env-default:"2s"`
}

// Source selects where purchases come from. Offline mode reads a JSON
// fixture, or the Postgres snapshot when a database is configured.
type Source struct {
	Mode        string            `yaml:"mode" env:"SOURCE_MODE" env-default:"live"`
	FixturePath string            `yaml:"fixture_path" env:"SOURCE_FIXTURE"`
	Postgres    db.PostgresConfig `yaml:"postgres"`
}

// Load reads an optional .env file, then the YAML file named by
// CONFIG_PATH when set, with environment variables taking precedence.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Source.Mode {
	case SourceLive:
		if c.Upstream.ComprasBaseURL == "" {
			return errors.New("config: compras_base_url is required in live mode")
		}
	case SourceOffline:
		if c.Source.FixturePath == "" && !c.Source.Postgres.Enabled() {
			return errors.New("config: offline mode needs fixture_path or a postgres host")
		}
	default:
		return fmt.Errorf("config: unknown source mode %q", c.Source.Mode)
	}
	if c.Cache.MaxStale < c.Cache.TTL {
		return errors.New("config: cache max_stale must not be shorter than ttl")
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC when it
// cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Usage extends a flag usage func with the environment variables
// understood by Load.
func Usage(w io.Writer, base func()) func() {
	var cfg Config
	return cleanenv.FUsage(w, &cfg, nil, base)
}
