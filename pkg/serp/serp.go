// Package serp implements the provider-agnostic SERP client (spec §4.D):
// two interchangeable backends behind circuit breakers, a cascade that
// back-fills missing PAA/AI-overview/featured-snippet fields from the
// second provider, an LLM-based PAA fallback, and a sticky process-lifetime
// auth-failed flag for the primary provider.
package serp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/brajen/contentbrief/pkg/brief"
)

// Provider fetches SERP metadata for a keyword.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, keyword string, depth int) (*brief.SerpMetadata, error)
}

// Mode selects which provider(s) to use.
type Mode int

const (
	ModeAuto Mode = iota
	ModePrimaryOnly
	ModeSecondaryOnly
)

// authFailed is the sticky, process-lifetime flag set on the primary
// provider's first organic-empty response (spec §5 "shared resources").
var authFailed struct {
	mu  sync.Mutex
	set bool
}

func markAuthFailed() {
	authFailed.mu.Lock()
	authFailed.set = true
	authFailed.mu.Unlock()
}

// IsAuthFailed reports whether the primary provider has been flagged
// unavailable for the remainder of the process lifetime.
func IsAuthFailed() bool {
	authFailed.mu.Lock()
	defer authFailed.mu.Unlock()
	return authFailed.set
}

// ResetAuthFailed clears the sticky flag; exposed for tests only.
func ResetAuthFailed() {
	authFailed.mu.Lock()
	authFailed.set = false
	authFailed.mu.Unlock()
}

// Client wraps primary/secondary providers with circuit breakers and the
// cascade/back-fill policy.
type Client struct {
	primary    Provider
	secondary  Provider
	mode       Mode
	breakers   map[string]*gobreaker.CircuitBreaker
	paaFallback func(ctx context.Context, keyword string, topSnippets []string) []brief.PAAEntry
}

// NewClient builds a Client. Either provider may be nil.
func NewClient(primary, secondary Provider, mode Mode, paaFallback func(ctx context.Context, keyword string, topSnippets []string) []brief.PAAEntry) *Client {
	breakers := map[string]*gobreaker.CircuitBreaker{}
	for _, p := range []Provider{primary, secondary} {
		if p == nil {
			continue
		}
		breakers[p.Name()] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        p.Name(),
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}
	return &Client{primary: primary, secondary: secondary, mode: mode, breakers: breakers, paaFallback: paaFallback}
}

func (c *Client) callProvider(ctx context.Context, p Provider, keyword string, depth int) (*brief.SerpMetadata, error) {
	breaker := c.breakers[p.Name()]
	result, err := breaker.Execute(func() (interface{}, error) {
		return p.Fetch(ctx, keyword, depth)
	})
	if err != nil {
		return nil, err
	}
	return result.(*brief.SerpMetadata), nil
}

// Fetch runs the selection-mode/cascade/fallback policy of spec §4.D.
func (c *Client) Fetch(ctx context.Context, keyword string, depth int, topSnippets []string) *brief.SerpMetadata {
	var chosen Provider
	switch c.mode {
	case ModePrimaryOnly:
		chosen = c.primary
	case ModeSecondaryOnly:
		chosen = c.secondary
	default:
		if c.primary != nil && !IsAuthFailed() {
			chosen = c.primary
		} else {
			chosen = c.secondary
		}
	}
	if chosen == nil {
		return &brief.SerpMetadata{}
	}

	meta, err := c.callProvider(ctx, chosen, keyword, depth)
	if err != nil || meta == nil {
		meta = &brief.SerpMetadata{Provider: chosen.Name()}
	}
	if len(meta.Organic) == 0 && chosen == c.primary && c.mode == ModeAuto {
		markAuthFailed()
		if c.secondary != nil {
			meta2, err2 := c.callProvider(ctx, c.secondary, keyword, depth)
			if err2 == nil && meta2 != nil {
				meta = meta2
			}
		}
	}

	other := c.otherProvider(chosen)
	if other != nil && c.mode == ModeAuto {
		meta = c.backfill(ctx, meta, other, keyword, depth)
	}

	if len(meta.PAA) == 0 && c.paaFallback != nil {
		meta.PAA = c.paaFallback(ctx, keyword, topSnippets)
	}

	return meta
}

// Debug fetches raw SERP metadata from exactly the named provider ("serpapi"
// or "dataforseo"), bypassing mode selection and cascade/fallback — used by
// the operator-facing /debug/<provider> diagnostic endpoint.
func (c *Client) Debug(ctx context.Context, providerName, keyword string, depth int) (*brief.SerpMetadata, error) {
	for _, p := range []Provider{c.primary, c.secondary} {
		if p != nil && p.Name() == providerName {
			return c.callProvider(ctx, p, keyword, depth)
		}
	}
	return nil, fmt.Errorf("unknown provider: %s", providerName)
}

func (c *Client) otherProvider(chosen Provider) Provider {
	if chosen == c.primary {
		return c.secondary
	}
	return c.primary
}

func (c *Client) backfill(ctx context.Context, meta *brief.SerpMetadata, other Provider, keyword string, depth int) *brief.SerpMetadata {
	missing := len(meta.PAA) == 0 || meta.AIOverview == nil || meta.FeaturedSnippet == nil
	if !missing || IsAuthFailed() && other == c.primary {
		return meta
	}
	fill, err := c.callProvider(ctx, other, keyword, depth)
	if err != nil || fill == nil {
		return meta
	}
	if len(meta.PAA) == 0 {
		meta.PAA = fill.PAA
	}
	if meta.AIOverview == nil {
		meta.AIOverview = fill.AIOverview
	}
	if meta.FeaturedSnippet == nil {
		meta.FeaturedSnippet = fill.FeaturedSnippet
	}
	return meta
}
