package classify

import (
	"strconv"
	"strings"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

// rawClassification is the loosely-typed shape parsed from provider output.
// Ids may arrive as strings or numbers; everything is coerced and checked
// before a model.Classification is built from it.
type rawClassification struct {
	ArgumentType   string  `json:"argument_type"`
	BelongsTo      any     `json:"belongs_to"`
	RespondsTo     any     `json:"responds_to"`
	RebuttalTarget any     `json:"rebuttal_target"`
	ClashTheme     any     `json:"clash_theme"`
	IsNewTheme     bool    `json:"is_new_theme"`
	Confidence     float64 `json:"confidence"`
}

// repair turns an untrusted parsed response into an invariant-satisfying
// Classification. Rules, in order:
//   - unknown argument_type coerces to claim
//   - mechanism/impact: belongs_to must name an existing point, else it is
//     backfilled by the same-team backward scan; responds_to and
//     rebuttal_target are forced null
//   - refutation: responds_to must name an existing point, else it is nulled
//     together with rebuttal_target and confidence is capped; belongs_to is
//     forced null
//   - claim: all three link fields are forced null
func repair(raw rawClassification, existing []model.Point, team model.Team, thresholds model.ThresholdsConfig) model.Classification {
	result := model.Classification{
		ArgumentType:   model.ArgumentType(raw.ArgumentType),
		BelongsTo:      coerceID(raw.BelongsTo),
		RespondsTo:     coerceID(raw.RespondsTo),
		RebuttalTarget: coerceTarget(raw.RebuttalTarget),
		ClashTheme:     coerceString(raw.ClashTheme),
		IsNewTheme:     raw.IsNewTheme,
		Confidence:     clamp01(raw.Confidence),
		Source:         model.SourceRemote,
	}

	if !result.ArgumentType.Valid() {
		result.ArgumentType = model.TypeClaim
	}

	switch result.ArgumentType {
	case model.TypeMechanism, model.TypeImpact:
		if result.BelongsTo == "" || !pointExists(existing, result.BelongsTo) {
			result.BelongsTo = findSameTeamParent(existing, team)
		}
		result.RespondsTo = ""
		result.RebuttalTarget = model.TargetNone

	case model.TypeRefutation:
		if result.RespondsTo != "" && !pointExists(existing, result.RespondsTo) {
			result.RespondsTo = ""
			result.RebuttalTarget = model.TargetNone
			if result.Confidence > thresholds.UnresolvedRefutationCap {
				result.Confidence = thresholds.UnresolvedRefutationCap
			}
		}
		result.BelongsTo = ""
		if !result.RebuttalTarget.Valid() || result.RespondsTo == "" {
			result.RebuttalTarget = model.TargetNone
		}

	case model.TypeClaim:
		result.BelongsTo = ""
		result.RespondsTo = ""
		result.RebuttalTarget = model.TargetNone
	}

	return result
}

// pointExists reports whether id names a point in the collection
func pointExists(existing []model.Point, id string) bool {
	for i := range existing {
		if existing[i].ID == id {
			return true
		}
	}
	return false
}

// coerceID normalizes an id field that may arrive as a string, a number,
// JSON null, or the literal "null"
func coerceID(v any) string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") {
			return ""
		}
		return s
	case float64:
		return strconv.FormatInt(int64(t), 10)
	}
	return ""
}

// coerceString normalizes a string field that may arrive as null
func coerceString(v any) string {
	if s, ok := v.(string); ok {
		if strings.EqualFold(strings.TrimSpace(s), "null") {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return ""
}

// coerceTarget normalizes a rebuttal target, mapping anything unknown to none
func coerceTarget(v any) model.RebuttalTarget {
	t := model.RebuttalTarget(coerceString(v))
	if !t.Valid() {
		return model.TargetNone
	}
	return t
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// stripFences removes markdown code-fence markers some providers wrap
// around JSON payloads
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
