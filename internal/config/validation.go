package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.SocketTimeout <= 0 {
		return fmt.Errorf("socket timeout must be > 0")
	}
	if c.ResolveTimeout <= 0 {
		return fmt.Errorf("resolve timeout must be > 0")
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be > 0")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be > 0")
	}
	if c.BatchConcurrency < 0 || c.BatchConcurrency > MaxBatchConcurrency {
		return fmt.Errorf("batch concurrency must be between 0 (auto) and %d", MaxBatchConcurrency)
	}
	switch c.LineEnding {
	case LineEndingAuto, LineEndingLF, LineEndingCRLF:
	default:
		return fmt.Errorf("line ending must be one of auto, lf, crlf (got %q)", c.LineEnding)
	}
	return nil
}
