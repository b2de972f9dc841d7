package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Downloads
	HTTPTimeout   time.Duration
	SocketTimeout time.Duration
	UserAgent     string
	Proxy         string
	Headers       []string

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Resolution
	ResolveTimeout   time.Duration
	BatchConcurrency int
	LineEnding       string
}

// Load builds a Config by combining defaults, environment variables and
// CLI flags, in that order of precedence. Caller should pass the root
// *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{
		LogLevel:         DefaultLogLevel,
		JSONLog:          DefaultJSONLog,
		HTTPTimeout:      DefaultHTTPTimeout,
		SocketTimeout:    DefaultSocketTimeout,
		ResolveTimeout:   DefaultResolveTimeout,
		UserAgent:        DefaultUserAgent,
		RateLimitRPS:     DefaultRateLimitRPS,
		RateLimitBurst:   DefaultRateLimitBurst,
		BatchConcurrency: DefaultBatchConcurrency,
		LineEnding:       DefaultLineEnding,
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if cmd != nil {
		if err := loadFlags(cmd, cfg); err != nil {
			return nil, fmt.Errorf("invalid flags: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("PGNFETCH_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("PGNFETCH_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PGNFETCH_LINE_ENDING"); v != "" {
		cfg.LineEnding = strings.ToLower(v)
	}
	if v := os.Getenv("PGNFETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PGNFETCH_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("PGNFETCH_RESOLVE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PGNFETCH_RESOLVE_TIMEOUT: %w", err)
		}
		cfg.ResolveTimeout = d
	}
	if v := os.Getenv("PGNFETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PGNFETCH_CONCURRENCY: %w", err)
		}
		cfg.BatchConcurrency = n
	}
	return nil
}

func loadFlags(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()

	if f := flags.Lookup("user-agent"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.UserAgent = s
		}
	}
	if f := flags.Lookup("proxy"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.Proxy = s
		}
	}
	if f := flags.Lookup("header"); f != nil && f.Changed {
		headers, err := flags.GetStringArray("header")
		if err != nil {
			return err
		}
		cfg.Headers = headers
	}
	for name, target := range map[string]*time.Duration{
		"timeout":         &cfg.HTTPTimeout,
		"socket-timeout":  &cfg.SocketTimeout,
		"resolve-timeout": &cfg.ResolveTimeout,
	} {
		if f := flags.Lookup(name); f != nil {
			if s := f.Value.String(); s != "" {
				d, err := time.ParseDuration(s)
				if err != nil {
					return fmt.Errorf("--%s: %w", name, err)
				}
				*target = d
			}
		}
	}
	if f := flags.Lookup("rate"); f != nil && f.Changed {
		rps, err := flags.GetFloat64("rate")
		if err != nil {
			return err
		}
		cfg.RateLimitRPS = rps
	}
	if f := flags.Lookup("line-ending"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.LineEnding = strings.ToLower(s)
		}
	}
	if f := flags.Lookup("json"); f != nil {
		if f.Value.String() == "true" {
			cfg.JSONLog = true
		}
	}
	if f := flags.Lookup("quiet"); f != nil {
		if f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
	}
	if f := flags.Lookup("verbose"); f != nil {
		if f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
	}
	return nil
}

// Terminator returns the line terminator selected by LineEnding. An empty
// string means the host convention.
func (c *Config) Terminator() string {
	switch c.LineEnding {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	default:
		return ""
	}
}
