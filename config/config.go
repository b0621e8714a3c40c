// Package config reads the pager's settings from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory. Every field has a default, so an empty
// environment yields a runnable configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amp-labs/amp-flux/network"
	"github.com/amp-labs/amp-flux/pagination"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidPageSize is returned for a non-positive page size.
	ErrInvalidPageSize = errors.New("page size must be positive")

	// ErrInvalidTotal is returned for a negative item count.
	ErrInvalidTotal = errors.New("total items must not be negative")

	// ErrInvalidDelay is returned for a negative fetch delay.
	ErrInvalidDelay = errors.New("fetch delay must not be negative")

	// ErrInvalidWorkerCount is returned for a non-positive worker count.
	ErrInvalidWorkerCount = errors.New("worker count must be positive")

	// ErrInvalidOverlapPolicy is returned for an overlap policy outside the known set.
	ErrInvalidOverlapPolicy = errors.New("invalid overlap policy")
)

// Config is the full pager configuration.
type Config struct {
	// PageSize is the number of items requested per fetch.
	PageSize int `env:"PAGER_PAGE_SIZE" envDefault:"5"`
	// TotalItems is the size of the simulated collection.
	TotalItems int `env:"PAGER_TOTAL_ITEMS" envDefault:"23"`
	// FetchDelay is the simulated latency of each fetch.
	FetchDelay time.Duration `env:"PAGER_FETCH_DELAY" envDefault:"500ms"`
	// FailAtOffset makes the first fetch at this offset fail. Negative disables it.
	FailAtOffset int `env:"PAGER_FAIL_AT_OFFSET" envDefault:"-1"`
	// Overlap is "reject" or "allow".
	Overlap pagination.OverlapPolicy `env:"PAGER_OVERLAP" envDefault:"reject"`
	// Recovery enables Retry out of the error state.
	Recovery bool `env:"PAGER_RECOVERY" envDefault:"true"`
	// Workers sizes the background pool that runs fetches.
	Workers int `env:"BACKGROUND_WORKER_COUNT" envDefault:"4"`
	// MetricsAddr serves /metrics when not empty.
	MetricsAddr string `env:"METRICS_ADDR"`

	Log       Log
	Telemetry Telemetry
}

// Log configures the logger.
type Log struct {
	JSON  bool       `env:"LOG_JSON"  envDefault:"false"`
	Level slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Telemetry configures OpenTelemetry export.
type Telemetry struct {
	Enabled     bool   `env:"OTEL_ENABLED"                envDefault:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME"           envDefault:"amp-flux-pager"`
}

var dotenvLoaded sync.Once //nolint:gochecknoglobals

// Load reads the configuration from the process environment, after loading
// .env from the working directory the first time it is called. Variables
// already set in the environment win over the file.
func Load() (Config, error) {
	dotenvLoaded.Do(func() {
		// The file is optional.
		_ = godotenv.Load()
	})

	return parse(env.Options{})
}

// FromMap reads the configuration from environ instead of the process
// environment. Missing keys take their defaults.
func FromMap(environ map[string]string) (Config, error) {
	if environ == nil {
		// env falls back to the process environment on a nil map.
		environ = map[string]string{}
	}

	return parse(env.Options{Environment: environ})
}

// FromFile reads the configuration from a .env formatted file only.
func FromFile(path string) (Config, error) {
	environ, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return FromMap(environ)
}

func parse(opts env.Options) (Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.PageSize <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	case c.TotalItems < 0:
		return fmt.Errorf("%w: %d", ErrInvalidTotal, c.TotalItems)
	case c.FetchDelay < 0:
		return fmt.Errorf("%w: %s", ErrInvalidDelay, c.FetchDelay)
	case c.Workers <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, c.Workers)
	case c.Overlap != pagination.OverlapReject && c.Overlap != pagination.OverlapAllow:
		return fmt.Errorf("%w: %s", ErrInvalidOverlapPolicy, c.Overlap)
	default:
		return nil
	}
}

// Failures returns the failure injector for the network stub, or nil when
// no failure is configured.
func (c Config) Failures() func(int) error {
	if c.FailAtOffset < 0 {
		return nil
	}

	return network.FailOnceAt(c.FailAtOffset)
}
