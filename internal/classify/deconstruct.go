package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/abhi-wadhwa/bp-flow/internal/llm"
	"github.com/abhi-wadhwa/bp-flow/internal/model"
	"github.com/abhi-wadhwa/bp-flow/internal/textutil"
)

// rawDeconstruction is the loosely-typed batch shape parsed from provider
// output
type rawDeconstruction struct {
	Points []rawDeconstructedPoint `json:"points"`
}

type rawDeconstructedPoint struct {
	Claim          any   `json:"claim"`
	Mechanisms     []any `json:"mechanisms"`
	Impacts        []any `json:"impacts"`
	ClashTheme     any   `json:"clash_theme"`
	IsRefutation   bool  `json:"is_refutation"`
	RespondsTo     any   `json:"responds_to"`
	RebuttalTarget any   `json:"rebuttal_target"`
}

// ShouldDeconstruct gates the batch path: it engages only when a provider
// is configured and the input is long enough to plausibly hold multiple
// argument units. Short inputs always take the single-point path.
func (c *Classifier) ShouldDeconstruct(text string) bool {
	if c.provider == nil {
		return false
	}
	return len(textutil.StripMarkup(text)) >= c.thresholds.DeconstructMinChars
}

// Deconstruct decomposes a pasted speech into an ordered list of classified
// points in one provider call. Each element is validated independently so a
// single malformed element cannot invalidate an otherwise-good batch; a
// completely unparseable payload fails the whole call. Unlike single-point
// classification there is no heuristic batch fallback — the caller is
// expected to degrade to the single-point flow on error.
func (c *Classifier) Deconstruct(ctx context.Context, text, speaker string, team model.Team, speechOrder int, existing []model.Point, themes []string) ([]model.DeconstructedPoint, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("deconstruction requires a configured LLM provider")
	}

	plain := textutil.StripMarkup(text)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		System:      deconstructSystemPrompt(team, len(themes) > 0),
		Prompt:      deconstructUserPrompt(plain, speaker, team, speechOrder, existing, themes, c.thresholds.ContextWindow),
		MaxTokens:   2000,
		Temperature: 0.15,
		JSONOnly:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("deconstruction request failed: %w", err)
	}

	var raw rawDeconstruction
	if err := json.Unmarshal([]byte(stripFences(resp.Text)), &raw); err != nil {
		return nil, fmt.Errorf("parse deconstruction response: %w", err)
	}

	var points []model.DeconstructedPoint
	for _, rp := range raw.Points {
		point := c.validateElement(rp, existing)
		if point.Claim == "" {
			continue // malformed element, drop without failing the batch
		}
		points = append(points, point)
	}

	return points, nil
}

// validateElement repairs one batch element: strings are truncated to the
// field cap, refutation links must resolve against the supplied context or
// are discarded together with the rebuttal target, and an empty restated
// claim marks the element as droppable.
func (c *Classifier) validateElement(rp rawDeconstructedPoint, existing []model.Point) model.DeconstructedPoint {
	maxChars := c.thresholds.MaxFieldChars

	point := model.DeconstructedPoint{
		Claim:        truncate(coerceString(rp.Claim), maxChars),
		Mechanisms:   truncateAll(rp.Mechanisms, maxChars),
		Impacts:      truncateAll(rp.Impacts, maxChars),
		ClashTheme:   coerceString(rp.ClashTheme),
		IsRefutation: rp.IsRefutation,
	}

	if point.IsRefutation {
		if id := coerceID(rp.RespondsTo); id != "" && pointExists(existing, id) {
			point.RespondsTo = id
			if target := coerceTarget(rp.RebuttalTarget); target != model.TargetNone {
				point.RebuttalTarget = target
			}
		}
	}

	return point
}

// truncate caps s at max bytes without splitting a multibyte rune
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func truncateAll(items []any, max int) []string {
	var out []string
	for _, item := range items {
		s := truncate(coerceString(item), max)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
