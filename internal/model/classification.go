package model

// ClassificationSource identifies which path produced a classification
type ClassificationSource string

const (
	SourceHeuristic ClassificationSource = "heuristic" // Keyword/similarity fallback path
	SourceRemote    ClassificationSource = "remote"    // Remote model, validated
)

// Classification is the ephemeral result of classifying one submitted point
// against the current argument graph. Every Classification the engine hands
// out already satisfies the Point invariants: references resolve, and
// link fields are exclusive per type.
type Classification struct {
	ArgumentType   ArgumentType         `json:"argument_type"`
	BelongsTo      string               `json:"belongs_to,omitempty"`      // Parent point id, mechanism/impact only
	RespondsTo     string               `json:"responds_to,omitempty"`     // Attacked point id, refutation only
	RebuttalTarget RebuttalTarget       `json:"rebuttal_target,omitempty"` // Meaningful only with RespondsTo
	ClashTheme     string               `json:"clash_theme,omitempty"`
	IsNewTheme     bool                 `json:"is_new_theme"`
	Confidence     float64              `json:"confidence"`
	Source         ClassificationSource `json:"source"`
}

// DeconstructedPoint is one element of a batch extracted from a pasted
// speech. Deconstruction assumes claim-with-annotations-or-refutation
// framing, so there is no top-level argument type.
type DeconstructedPoint struct {
	Claim          string         `json:"claim"`
	Mechanisms     []string       `json:"mechanisms"`
	Impacts        []string       `json:"impacts"`
	ClashTheme     string         `json:"clash_theme,omitempty"`
	IsRefutation   bool           `json:"is_refutation"`
	RespondsTo     string         `json:"responds_to,omitempty"`
	RebuttalTarget RebuttalTarget `json:"rebuttal_target,omitempty"`
}
