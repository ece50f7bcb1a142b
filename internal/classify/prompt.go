package classify

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

// classifySystemPrompt builds the fixed task instruction for single-point
// classification
func classifySystemPrompt(team model.Team, hasThemes bool) string {
	themeRule := "Create a new descriptive theme name."
	if hasThemes {
		themeRule = "Reuse an existing theme if the argument fits."
	}

	return fmt.Sprintf(`You are a classifier for British Parliamentary (BP) debate arguments. Your job is to determine what TYPE of point has been made, where it belongs, and organize arguments into "clashes" (topic areas).

In BP debate, speakers make different types of points:
- CLAIM: A new assertion or argument (e.g., "Free trade helps developing nations")
- MECHANISM: An explanation of WHY/HOW a claim works, supporting an existing claim (e.g., "Because lower tariffs enable cheaper imports")
- IMPACT: A consequence or result of a claim, supporting an existing claim (e.g., "Leading to GDP growth and poverty reduction")
- REFUTATION: A response that attacks an opponent's argument (e.g., "The link breaks because tariff reduction doesn't help countries without export capacity")

CLASSIFICATION RULES:
- argument_type: One of "claim", "mechanism", "impact", "refutation"
  * "claim" = a new standalone assertion or argument
  * "mechanism" = explains WHY/HOW — look for words like "because", "the reason is", "this works by", "since", "due to"
  * "impact" = states WHAT HAPPENS — look for words like "leading to", "resulting in", "this matters because", "the harm is", "the benefit is"
  * "refutation" = attacks an opponent's point — look for words like "but", "however", "against", "response", "even if", "counter"

- belongs_to: The "id" of an existing argument this mechanism/impact attaches to. Must be set when argument_type is "mechanism" or "impact". Should be a same-team argument. Use null for claims and refutations.

- responds_to: The "id" of an opponent's argument being rebutted. Only set when argument_type is "refutation". Use null otherwise.

- rebuttal_target: Which part of the target argument is being attacked: "claim", "mechanism", "impact", or null. Only set when argument_type is "refutation" and responds_to is set.

- clash_theme: A short label (2-5 words) for the topic area. %s For mechanisms/impacts, inherit the theme from the parent argument.

- is_new_theme: true only if this is a claim introducing a genuinely new topic.

- confidence: How confident you are in the full classification (0.0-1.0). Use 0.7+ when clear, 0.3-0.6 when uncertain.

CONSISTENCY RULES:
- mechanism/impact MUST have belongs_to set to a valid same-team argument id
- refutation MUST have responds_to set to a valid opponent argument id
- claim should have belongs_to: null and responds_to: null
- rebuttal_target only makes sense when responds_to is set

The current speaker is on team "%s".

You MUST respond with valid JSON only. No markdown, no explanation.`, themeRule, team)
}

// classifyUserPrompt serializes the submitted point plus the bounded graph
// context into the user message
func classifyUserPrompt(text, speaker string, team model.Team, speechOrder int, existing []model.Point, themes []string, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "NEW POINT: %q\nSpeaker: %s (%s), Speech #%d", text, speaker, team, speechOrder)

	if len(themes) > 0 {
		encoded, _ := json.Marshal(themes)
		fmt.Fprintf(&b, "\n\nEXISTING THEMES: %s", encoded)
	}

	recent := recentPoints(existing, window)
	if len(recent) > 0 {
		b.WriteString("\n\nRECENT ARGUMENTS:\n")
		for i := range recent {
			p := &recent[i]
			fmt.Fprintf(&b, "[id=%s] %s (%s): CLAIM: %q", p.ID, p.Speaker, p.Team, p.DisplayClaim())
			if len(p.Mechanisms) > 0 {
				fmt.Fprintf(&b, " | MECH: %s", quoteJoin(p.Mechanisms))
			}
			if len(p.Impacts) > 0 {
				fmt.Fprintf(&b, " | IMPACT: %s", quoteJoin(p.Impacts))
			}
			if len(p.Refutations) > 0 {
				fmt.Fprintf(&b, " | REFUT: %s", quoteJoin(p.Refutations))
			}
			if p.ClashTheme != "" {
				fmt.Fprintf(&b, " [theme: %s]", p.ClashTheme)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(`
Classify this point. Respond with: {"argument_type": "claim"|"mechanism"|"impact"|"refutation", "belongs_to": "id_or_null", "responds_to": "id_or_null", "rebuttal_target": "claim"|"mechanism"|"impact"|null, "clash_theme": "string", "is_new_theme": boolean, "confidence": number}`)

	return b.String()
}

// deconstructSystemPrompt builds the fixed task instruction for speech
// deconstruction
func deconstructSystemPrompt(team model.Team, hasThemes bool) string {
	themeRule := ""
	if hasThemes {
		themeRule = " Reuse existing themes where appropriate."
	}

	return fmt.Sprintf(`You are a debate flow analyst for British Parliamentary (BP) debate. Your job is to take ANY input — from a single sentence to a full speech — and extract its logical structure into claims, mechanisms, and impacts.

Each argument should have:
- claim: The core assertion, rewritten to be TERSE and clear (max 15 words). Use flowing shorthand — capture the essence, not the exact words. Write like a judge scribbling notes fast.
- mechanisms: Array of strings explaining WHY/HOW the claim works. Each mechanism should be terse (max 15 words). Only include if the text actually provides reasoning for this claim.
- impacts: Array of strings explaining WHAT HAPPENS as a result. Each impact should be terse (max 15 words). Only include if the text actually states consequences.
- clash_theme: A short label (2-5 words) for the topic area.%s
- is_refutation: true if this point is attacking an opponent's argument.
- responds_to: If is_refutation is true, the "id" of the opponent argument being attacked. null otherwise. Only use IDs from the provided list.
- rebuttal_target: "claim", "mechanism", or "impact" — what part is being attacked. null if not a refutation.

IMPORTANT RULES:
- ALWAYS extract structure. Even a single sentence should produce a claim with any mechanisms and impacts it states.
- Be TERSE. Each claim/mechanism/impact should be 5-15 words max. Think judge shorthand, not essay prose.
- Rewrite freely for clarity — capture the logical structure, not the rhetoric.
- Identify DISTINCT arguments — don't combine unrelated points into one.
- Mechanisms explain causation (WHY/HOW). Impacts explain consequences/harms/benefits (SO WHAT).
- Group mechanisms and impacts under their parent claim — don't make them separate arguments.
- If a point ONLY makes an assertion with no reasoning or consequences, return it with empty mechanisms and impacts arrays.
- The speaker is on team "%s".

You MUST respond with valid JSON: {"points": [...]}. No markdown, no explanation.`, themeRule, team)
}

// deconstructUserPrompt serializes the speech text plus compact graph
// context into the user message
func deconstructUserPrompt(text, speaker string, team model.Team, speechOrder int, existing []model.Point, themes []string, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SPEECH TEXT:\n\"\"\"%s\"\"\"\n\nSpeaker: %s (%s), Speech #%d", text, speaker, team, speechOrder)

	if len(themes) > 0 {
		encoded, _ := json.Marshal(themes)
		fmt.Fprintf(&b, "\n\nEXISTING THEMES: %s", encoded)
	}

	recent := recentPoints(existing, window)
	if len(recent) > 0 {
		b.WriteString("\n\nEXISTING ARGUMENTS (for responds_to references):\n")
		for i := range recent {
			p := &recent[i]
			fmt.Fprintf(&b, "[id=%s] %s (%s): %q", p.ID, p.Speaker, p.Team, p.DisplayClaim())
			if p.ClashTheme != "" {
				fmt.Fprintf(&b, " [theme: %s]", p.ClashTheme)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(`
Deconstruct this speech into structured arguments. Respond with: {"points": [{"claim": "string", "mechanisms": ["string"], "impacts": ["string"], "clash_theme": "string", "is_refutation": boolean, "responds_to": "id_or_null", "rebuttal_target": "claim"|"mechanism"|"impact"|null}]}`)

	return b.String()
}

// recentPoints returns the last window points, excluding judge notes
func recentPoints(existing []model.Point, window int) []model.Point {
	var recent []model.Point
	for i := range existing {
		if !existing[i].IsJudgeNote {
			recent = append(recent, existing[i])
		}
	}
	if window > 0 && len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	return recent
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
