// Package config reads the service and CLI settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the atv commands.
// Command-line flags take precedence over these values.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	Types           string        `env:"TYPES" envDefault:"."`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	Concurrency     int           `env:"CONCURRENCY" envDefault:"0"`
	Strict          bool          `env:"STRICT" envDefault:"false"`
	PrimitiveChecks bool          `env:"PRIMITIVE_CHECKS" envDefault:"false"`
	Metrics         bool          `env:"METRICS" envDefault:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	Redis Redis `envPrefix:"REDIS_"`
}

// Redis configures the optional Redis type store and uniqueness registry.
// An empty Addr disables Redis.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"atv:"`
}

// Prefix is prepended to every variable name.
const Prefix = "ATV_"

// Load reads the given dotenv files (".env" when none are given) and then
// parses the environment. Missing dotenv files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return Parse(nil)
}

// Parse reads the configuration from environ, or from the process
// environment when environ is nil.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: Prefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Concurrency < 0 {
		return Config{}, fmt.Errorf("parse config: %sCONCURRENCY must not be negative", Prefix)
	}
	return cfg, nil
}
