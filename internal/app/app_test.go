package app

import (
	"context"
	"testing"

	"github.com/law-makers/pgnfetch/internal/config"
)

func TestNew(t *testing.T) {
	cfg, err := config.Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Proxy = "http://localhost:3128"

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close(context.Background())

	if a.Resolver == nil || a.Client == nil {
		t.Fatal("Expected resolver and transport to be wired")
	}
	if got := len(a.Resolver.Providers()); got != 19 {
		t.Errorf("Expected 19 providers, got %d", got)
	}
	if a.Resolver.Timeout() != cfg.ResolveTimeout || a.HTTPClient.Timeout != cfg.HTTPTimeout {
		t.Errorf("Expected resolve timeout %v and request timeout %v, got %v and %v",
			cfg.ResolveTimeout, cfg.HTTPTimeout, a.Resolver.Timeout(), a.HTTPClient.Timeout)
	}
	if a.Proxies.Len() != 1 {
		t.Errorf("Expected one proxy, got %d", a.Proxies.Len())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(context.Background(), nil); err == nil {
		t.Error("Expected an error without config")
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad proxy", func(c *config.Config) { c.Proxy = "ftp://proxy.example" }},
		{"bad header", func(c *config.Config) { c.Headers = []string{"NoColon"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(nil)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			tt.mutate(cfg)
			if _, err := New(context.Background(), cfg); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
