// Package classify implements the argument classification engine: a pure
// keyword-and-similarity heuristic path, a remote-model path whose output is
// validated and repaired before it escapes, and batch deconstruction of
// pasted speeches. Every Classification leaving this package satisfies the
// graph invariants; downstream code never re-checks references.
package classify

import "strings"

// KeywordTable holds the versioned phrase lists driving the heuristic path.
// The lists are data, not code: they serialize to YAML so golden tests can
// pin classification outputs for known phrase sets.
type KeywordTable struct {
	Version string `yaml:"version"`

	// Response marks refutation-style framing ("but", "however", ...)
	Response []string `yaml:"response"`

	// MechanismIndicator marks causal framing ("because", "since", ...)
	MechanismIndicator []string `yaml:"mechanism_indicator"`

	// ImpactIndicator marks consequence framing ("leading to", ...)
	ImpactIndicator []string `yaml:"impact_indicator"`

	// MechanismAttack marks rebuttals aimed at a causal link
	MechanismAttack []string `yaml:"mechanism_attack"`

	// ImpactAttack marks rebuttals aimed at significance/weighing
	ImpactAttack []string `yaml:"impact_attack"`

	// ClaimAttack marks rebuttals aimed at the assertion itself
	ClaimAttack []string `yaml:"claim_attack"`
}

// DefaultKeywords returns the standard keyword table
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		Version: "v1",
		Response: []string{
			"resp", "rebut", "even if", "on that", "turns", "on their",
			"counter", "but", "however", "against", "response", "reply",
			"refute", "deny", "reject", "challenge", "undermine",
		},
		MechanismIndicator: []string{
			"because", "this works by", "the reason is", "the link is", "causally",
			"the mechanism is", "this happens through", "the way this works",
			"since", "due to", "as a result of", "driven by", "enabled by",
		},
		ImpactIndicator: []string{
			"leading to", "resulting in", "this matters because", "the harm is",
			"the benefit is", "consequences", "the impact is", "which means",
			"therefore", "so this causes", "the outcome is", "ultimately",
			"the significance is", "what this means is",
		},
		MechanismAttack: []string{
			"link breaks", "no link", "no mechanism", "mechanism fails",
			"doesn't lead to", "doesn't cause", "causal", "no reason why",
			"why would", "how does", "doesn't follow", "non-sequitur",
			"no evidence", "assertion", "unsubstantiated",
		},
		ImpactAttack: []string{
			"even if", "so what", "doesn't matter", "negligible",
			"outweigh", "outweighs", "not significant", "marginal",
			"minor impact", "small harm", "low magnitude", "who cares",
			"no real impact", "scale is small", "limited effect",
		},
		ClaimAttack: []string{
			"not true", "untrue", "false", "wrong", "incorrect",
			"mischaracteriz", "lie", "fabricat",
		},
	}
}

// containsAny reports whether lower contains any of the given phrases.
// Callers lowercase once and pass the result in.
func containsAny(lower string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
