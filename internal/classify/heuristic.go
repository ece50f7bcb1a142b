package classify

import (
	"strings"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
	"github.com/abhi-wadhwa/bp-flow/internal/textutil"
)

// Heuristic is the always-available classification path. It is a pure
// function of its inputs and the keyword table: no network, no clock, no
// hidden state, so it can run in tests and when no provider is configured.
type Heuristic struct {
	keywords   KeywordTable
	thresholds model.ThresholdsConfig
}

// NewHeuristic creates a heuristic classifier
func NewHeuristic(keywords KeywordTable, thresholds model.ThresholdsConfig) *Heuristic {
	return &Heuristic{
		keywords:   keywords,
		thresholds: thresholds,
	}
}

// Classify classifies one submitted point against the current argument set.
// Priority order is refutation, then mechanism, then impact; absence of all
// indicators defaults to claim.
func (h *Heuristic) Classify(text string, existing []model.Point, themes []string, team model.Team) model.Classification {
	lower := strings.ToLower(text)

	hasResponse := containsAny(lower, h.keywords.Response)
	hasMechanism := containsAny(lower, h.keywords.MechanismIndicator)
	hasImpact := containsAny(lower, h.keywords.ImpactIndicator)

	result := model.Classification{
		ArgumentType: model.TypeClaim,
		Source:       model.SourceHeuristic,
	}

	switch {
	case hasResponse:
		result.ArgumentType = model.TypeRefutation
		result.RespondsTo = findOpposingTarget(text, existing, team, h.thresholds.RefutationSimFloor)
		result.RebuttalTarget = h.detectRebuttalTarget(lower)
	case hasMechanism:
		result.ArgumentType = model.TypeMechanism
		result.BelongsTo = findSameTeamParent(existing, team)
	case hasImpact:
		result.ArgumentType = model.TypeImpact
		result.BelongsTo = findSameTeamParent(existing, team)
	}

	result.ClashTheme = h.resolveTheme(text, existing, themes)

	// Mechanisms and impacts with a resolved parent inherit its theme
	if (result.ArgumentType == model.TypeMechanism || result.ArgumentType == model.TypeImpact) &&
		result.BelongsTo != "" && result.ClashTheme == "" {
		for i := range existing {
			if existing[i].ID == result.BelongsTo {
				result.ClashTheme = existing[i].ClashTheme
				break
			}
		}
	}

	switch {
	case hasResponse && result.RespondsTo != "":
		result.Confidence = 0.5
	case (hasMechanism || hasImpact) && result.BelongsTo != "":
		result.Confidence = 0.5
	default:
		result.Confidence = 0.3
	}

	result.IsNewTheme = result.ArgumentType == model.TypeClaim && result.ClashTheme == ""

	return result
}

// detectRebuttalTarget scans for the secondary keyword families that reveal
// which facet of the target is under attack. Mechanism attacks win over
// impact attacks, which win over generic falsity phrases.
func (h *Heuristic) detectRebuttalTarget(lower string) model.RebuttalTarget {
	if containsAny(lower, h.keywords.MechanismAttack) {
		return model.TargetMechanism
	}
	if containsAny(lower, h.keywords.ImpactAttack) {
		return model.TargetImpact
	}
	if containsAny(lower, h.keywords.ClaimAttack) {
		return model.TargetClaim
	}
	return model.TargetNone
}

// resolveTheme assigns a clash theme in two stages: direct similarity
// against existing labels first, then aggregate similarity against each
// theme's member points.
func (h *Heuristic) resolveTheme(text string, existing []model.Point, themes []string) string {
	best := ""
	bestSim := 0.0
	for _, theme := range themes {
		sim := textutil.Similarity(text, theme)
		if sim > bestSim && sim > h.thresholds.ThemeLabelSimFloor {
			bestSim = sim
			best = theme
		}
	}
	if best != "" {
		return best
	}

	scores := make(map[string]float64)
	for i := range existing {
		p := &existing[i]
		if p.ClashTheme == "" {
			continue
		}
		scores[p.ClashTheme] += textutil.Similarity(text, p.DisplayClaim())
	}

	bestScore := 0.0
	for theme, score := range scores {
		if score > bestScore {
			bestScore = score
			best = theme
		}
	}
	if bestScore < h.thresholds.ThemeAggregateFloor {
		return ""
	}
	return best
}

// findSameTeamParent scans backward through submission order for the most
// recent point owned by the submitting team, skipping POIs and judge notes.
// Returns "" when the team has no attachable point yet.
func findSameTeamParent(existing []model.Point, team model.Team) string {
	for i := len(existing) - 1; i >= 0; i-- {
		p := &existing[i]
		if p.Team == team && !p.IsJudgeNote && !p.IsPOI {
			return p.ID
		}
	}
	return ""
}

// findOpposingTarget picks the opposing-bench point with the highest token
// overlap against the submitted text, provided it clears the similarity
// floor. Judge notes and same-team points are never candidates.
func findOpposingTarget(text string, existing []model.Point, team model.Team, floor float64) string {
	bestID := ""
	bestSim := 0.0

	for i := range existing {
		p := &existing[i]
		if p.Team == team || p.IsJudgeNote {
			continue
		}
		sim := textutil.Similarity(text, p.DisplayClaim())
		if sim > bestSim && sim > floor {
			bestSim = sim
			bestID = p.ID
		}
	}

	return bestID
}
