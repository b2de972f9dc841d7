// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/pgnfetch/internal/config"
	"github.com/law-makers/pgnfetch/internal/proxy"
	"github.com/law-makers/pgnfetch/internal/ratelimit"
	"github.com/law-makers/pgnfetch/internal/resolver"
	"github.com/law-makers/pgnfetch/internal/transport"
	"github.com/law-makers/pgnfetch/internal/utils/headers"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.Pool
	HTTPClient  *http.Client
	Client      *transport.Client
	Resolver    *resolver.Resolver
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the rate limiter for per-site request throttling
//   - Builds the proxy rotation, if proxies are configured
//   - Initializes the HTTP client and the download transport
//   - Creates the resolver over the default provider registry
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := setupLogger(cfg)

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	extraHeaders, err := headers.ParseHeaders(cfg.Headers)
	if err != nil {
		return nil, err
	}

	proxies, err := proxy.Parse(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	pool := proxy.NewPool(proxies)

	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	var roundTripper http.RoundTripper = base
	socketProxy := http.ProxyFromEnvironment
	if pool.Len() > 0 {
		roundTripper = pool.Transport(base)
		socketProxy = pool.ProxyFunc
		logger.Debug().Int("proxies", pool.Len()).Msg("Proxy rotation enabled")
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: roundTripper,
	}
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Msg("HTTP client initialized")

	client := transport.New(httpClient, rateLimiter, cfg.UserAgent).
		WithHeaders(extraHeaders).
		WithSocket(cfg.SocketTimeout, socketProxy)

	res := resolver.New(client, resolver.Options{
		LineEnding: cfg.Terminator(),
		Timeout:    cfg.ResolveTimeout,
	})
	logger.Debug().
		Int("providers", len(res.Providers())).
		Dur("timeout", res.Timeout()).
		Msg("Resolver initialized")

	app := &Application{
		Config:      cfg,
		Logger:      &logger,
		RateLimiter: rateLimiter,
		Proxies:     pool,
		HTTPClient:  httpClient,
		Client:      client,
		Resolver:    res,
		startTime:   time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

func setupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := zerolog.ErrorLevel // default: suppress non-verbose info logs
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// Treat "info" as non-verbose (don't display info logs unless -v is used)
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	logger := log.Output(logWriter).With().Timestamp().Logger()
	// Providers and the transport log through the global logger
	log.Logger = logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return logger
}

// Close releases the idle connections of the HTTP client.
// Any errors during shutdown are logged but do not prevent other shutdown steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Info().Msg("Shutting down application")

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Info().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
