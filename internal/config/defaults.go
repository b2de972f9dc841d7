package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel         = "info"
	DefaultJSONLog          = false
	DefaultUserAgent        = "pgnfetch/1.0 (https://github.com/law-makers/pgnfetch)"
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultSocketTimeout    = 20 * time.Second
	DefaultResolveTimeout   = 2 * time.Minute
	DefaultRateLimitRPS     = 2.0
	DefaultRateLimitBurst   = 4
	DefaultBatchConcurrency = 0 // auto
	MaxBatchConcurrency     = 64
	DefaultLineEnding       = "auto"
)

// Accepted values of the line ending setting
const (
	LineEndingAuto = "auto"
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)
