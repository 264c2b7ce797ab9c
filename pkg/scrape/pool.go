package scrape

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/brajen/contentbrief/pkg/brief"
)

const (
	defaultWorkers      = 6
	maxTotalCleanedBytes = 200 * 1024
)

// Target is one URL to scrape, carrying its organic rank so results can be
// re-aligned to the original SERP order after concurrent completion.
type Target struct {
	Rank  int
	URL   string
	Title string
}

// FetchFunc fetches one target; production callers pass Fetcher.Fetch.
type FetchFunc func(ctx context.Context, url, title string) *brief.Source

// PoolScrape dispatches targets across a fixed-size worker pool, preserving
// original rank order in the returned slice, and stops accepting further
// results once the total cleaned-text budget is exhausted (spec §4.N step
// 2, §5 budgets).
func PoolScrape(ctx context.Context, targets []Target, fetch FetchFunc, workers int) []brief.Source {
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]*brief.Source, len(targets))
	var mu sync.Mutex
	totalBytes := 0
	budgetExhausted := false

	group, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	for i, target := range targets {
		i, target := i, target
		group.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			exhausted := budgetExhausted
			mu.Unlock()
			if exhausted {
				return nil
			}

			src := fetch(gctx, target.URL, target.Title)
			if src == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if budgetExhausted {
				return nil
			}
			results[i] = src
			totalBytes += len(src.Text)
			if totalBytes >= maxTotalCleanedBytes {
				budgetExhausted = true
			}
			return nil
		})
	}
	_ = group.Wait()

	sources := make([]brief.Source, 0, len(results))
	for _, s := range results {
		if s != nil {
			sources = append(sources, *s)
		}
	}
	return sources
}
