package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultCalendarID is the board calendar in the organization mailbox.
const DefaultCalendarID = "AAMkAGIzNmQ2MDA1LTlkMTMtNGNiZi1iYjY2LWRlZDEzNWFiNzVmNQBGAAAAAADJ4TgkPNd9Q771_1BO6Dr1BwABqql-VSwlT5kITws8w7qPAAAAAAEGAAABqql-VSwlT5kITws8w7qPAAAGbdtUAAA="

// Config contains client configuration parameters.
type Config struct {
	LogLevel    int         `env:"LOG_LEVEL" envDefault:"0"`
	Membership  Membership  `envPrefix:"MEMBERSHIP_"`
	Graph       Graph       `envPrefix:"GRAPH_"`
	Credentials Credentials `envPrefix:"CREDENTIALS_"`
	HTTP        HTTP        `envPrefix:"HTTP_"`
}

// Membership contains membership REST API parameters.
type Membership struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://api.jlssrv.de/mitgliederinfo/"`
}

// Graph contains groupware API parameters.
type Graph struct {
	BaseURL          string `env:"BASE_URL" envDefault:"https://graph.microsoft.com/v1.0"`
	CalendarUser     string `env:"CALENDAR_USER" envDefault:"info@julis-sh.de"`
	CalendarID       string `env:"CALENDAR_ID"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"50"`
	MaxPages         int    `env:"MAX_PAGES" envDefault:"100"`
	MaxParallelLists int    `env:"MAX_PARALLEL_LISTS" envDefault:"8"`
	// LenientDates maps unparsable event date-times to the current time
	// instead of failing the whole calendar fetch.
	LenientDates bool `env:"LENIENT_DATES" envDefault:"false"`
}

// Credentials contains session token persistence parameters. An empty DSN
// keeps the token in memory only.
type Credentials struct {
	DSN     string `env:"DSN"`
	Service string `env:"SERVICE" envDefault:"authToken"`
	Account string `env:"ACCOUNT" envDefault:"user"`
}

// HTTP contains shared transport parameters.
type HTTP struct {
	Timeout              time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxRetries           uint64        `env:"MAX_RETRIES" envDefault:"2"`
	RetryInitialInterval time.Duration `env:"RETRY_INITIAL_INTERVAL" envDefault:"200ms"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Graph.CalendarID == "" {
		cfg.Graph.CalendarID = DefaultCalendarID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"MEMBERSHIP_BASE_URL": c.Membership.BaseURL,
		"GRAPH_BASE_URL":      c.Graph.BaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
		}
	}
	if c.Graph.PageSize < 1 || c.Graph.PageSize > 999 {
		errs = append(errs, fmt.Errorf("GRAPH_PAGE_SIZE must be between 1 and 999, got %d", c.Graph.PageSize))
	}
	if c.Graph.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("GRAPH_MAX_PAGES must be positive, got %d", c.Graph.MaxPages))
	}
	if c.Graph.MaxParallelLists < 1 {
		errs = append(errs, fmt.Errorf("GRAPH_MAX_PARALLEL_LISTS must be positive, got %d", c.Graph.MaxParallelLists))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
