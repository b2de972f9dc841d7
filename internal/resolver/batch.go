package resolver

import (
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/pgnfetch/internal/ratelimit"
	"github.com/law-makers/pgnfetch/pkg/models"
)

// maxConcurrency caps the automatic concurrency of batches
const maxConcurrency = 32

// OptimalConcurrency returns the default number of parallel resolutions.
// Resolutions are I/O bound and each site is rate limited on its own.
func OptimalConcurrency() int {
	optimal := runtime.NumCPU() * 3
	if optimal > maxConcurrency {
		optimal = maxConcurrency
	}
	return optimal
}

// groupBySite groups requests by site so that sites are visited in turn
func groupBySite(requests []models.ResolveOptions) ([]string, map[string][]models.ResolveOptions) {
	var order []string
	groups := make(map[string][]models.ResolveOptions)
	for _, req := range requests {
		site := ratelimit.SiteKey(req.URL)
		if _, ok := groups[site]; !ok {
			order = append(order, site)
		}
		groups[site] = append(groups[site], req)
	}
	return order, groups
}

// ResolveBatch resolves requests with at most concurrency resolutions in
// flight. concurrency <= 0 auto-tunes. Results arrive in completion order
// and the channel is closed once every started resolution has reported.
func (r *Resolver) ResolveBatch(ctx context.Context, requests []models.ResolveOptions, concurrency int) <-chan models.ResolveResult {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	results := make(chan models.ResolveResult, len(requests))
	order, groups := groupBySite(requests)

	log.Debug().
		Int("requests", len(requests)).
		Int("sites", len(order)).
		Int("concurrency", concurrency).
		Msg("Starting batch")

	go func() {
		var wg sync.WaitGroup
		sem := make(chan struct{}, concurrency)
		defer func() {
			wg.Wait()
			close(results)
		}()

		for _, site := range order {
			for _, req := range groups[site] {
				select {
				case <-ctx.Done():
					return
				case sem <- struct{}{}:
				}

				wg.Add(1)
				go func(opts models.ResolveOptions) {
					defer wg.Done()
					defer func() { <-sem }()

					data, err := r.Fetch(ctx, opts)
					results <- models.ResolveResult{Data: data, Error: err}
				}(req)
			}
		}
	}()

	return results
}
