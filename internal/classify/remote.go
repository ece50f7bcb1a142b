package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/abhi-wadhwa/bp-flow/internal/cache"
	"github.com/abhi-wadhwa/bp-flow/internal/llm"
	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

// Classifier combines the synchronous heuristic path with the remote-model
// path. The remote path is optional: with a nil provider every call resolves
// heuristically. Remote failures of any kind are never surfaced as errors
// for single-point classification; the caller only sees a lower-provenance
// result.
type Classifier struct {
	provider   llm.Provider // nil disables the remote path
	heuristic  *Heuristic
	thresholds model.ThresholdsConfig

	store    cache.Cache // nil disables caching
	cacheTTL time.Duration
	limiter  *rate.Limiter

	verbose bool
}

// Option configures a Classifier
type Option func(*Classifier)

// WithCache enables caching of validated remote results
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Classifier) {
		c.store = store
		c.cacheTTL = ttl
	}
}

// WithRateLimit bounds the call rate against the provider
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(c *Classifier) {
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithVerbose enables diagnostic output on stderr
func WithVerbose(verbose bool) Option {
	return func(c *Classifier) {
		c.verbose = verbose
	}
}

// NewClassifier creates a classifier. Provider may be nil.
func NewClassifier(provider llm.Provider, keywords KeywordTable, thresholds model.ThresholdsConfig, opts ...Option) *Classifier {
	c := &Classifier{
		provider:   provider,
		heuristic:  NewHeuristic(keywords, thresholds),
		thresholds: thresholds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RemoteEnabled reports whether a provider is configured
func (c *Classifier) RemoteEnabled() bool {
	return c.provider != nil
}

// Heuristic exposes the synchronous path for instant feedback while the
// remote call is in flight
func (c *Classifier) Heuristic() *Heuristic {
	return c.heuristic
}

// Classify classifies one point. It consults the remote provider when one
// is configured and falls back to the heuristic path on any transport or
// parse failure. Every returned Classification satisfies the graph
// invariants.
func (c *Classifier) Classify(ctx context.Context, text, speaker string, team model.Team, speechOrder int, existing []model.Point, themes []string) model.Classification {
	if c.provider == nil {
		return c.heuristic.Classify(text, existing, themes, team)
	}

	key := cache.Key(text, string(team), len(existing))
	if c.store != nil {
		if raw, found := c.store.Get(key); found {
			var cached model.Classification
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached
			}
		}
	}

	result, err := c.remoteClassify(ctx, text, speaker, team, speechOrder, existing, themes)
	if err != nil {
		c.logf("remote classification failed, using heuristic: %v", err)
		return c.heuristic.Classify(text, existing, themes, team)
	}

	if c.store != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = c.store.Set(key, raw, c.cacheTTL)
		}
	}

	return result
}

// remoteClassify performs one provider round trip and repairs the parsed
// response against the current graph
func (c *Classifier) remoteClassify(ctx context.Context, text, speaker string, team model.Team, speechOrder int, existing []model.Point, themes []string) (model.Classification, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return model.Classification{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:      classifySystemPrompt(team, len(themes) > 0),
		Prompt:      classifyUserPrompt(text, speaker, team, speechOrder, existing, themes, c.thresholds.ContextWindow),
		MaxTokens:   250,
		Temperature: 0.1,
		JSONOnly:    true,
	})
	if err != nil {
		return model.Classification{}, err
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &raw); err != nil {
		return model.Classification{}, fmt.Errorf("parse provider response: %w", err)
	}

	return repair(raw, existing, team, c.thresholds), nil
}

func (c *Classifier) logf(format string, args ...any) {
	if c.verbose {
		fmt.Fprintf(os.Stderr, "classify: "+format+"\n", args...)
	}
}
