package model

import "time"

// ArgumentType categorizes the rhetorical role of a point
type ArgumentType string

const (
	TypeClaim      ArgumentType = "claim"      // New standalone assertion
	TypeMechanism  ArgumentType = "mechanism"  // Explains why/how a claim works
	TypeImpact     ArgumentType = "impact"     // States the consequence of a claim
	TypeRefutation ArgumentType = "refutation" // Attacks an opponent's point
)

// Valid reports whether t is one of the four known argument types
func (t ArgumentType) Valid() bool {
	switch t {
	case TypeClaim, TypeMechanism, TypeImpact, TypeRefutation:
		return true
	}
	return false
}

// RebuttalTarget identifies which facet of the attacked point a refutation addresses
type RebuttalTarget string

const (
	TargetNone      RebuttalTarget = ""          // No specific facet identified
	TargetClaim     RebuttalTarget = "claim"     // The assertion itself is false
	TargetMechanism RebuttalTarget = "mechanism" // The causal link fails
	TargetImpact    RebuttalTarget = "impact"    // The consequence is negligible or outweighed
)

// Valid reports whether t is a known rebuttal target (TargetNone included)
func (t RebuttalTarget) Valid() bool {
	switch t {
	case TargetNone, TargetClaim, TargetMechanism, TargetImpact:
		return true
	}
	return false
}

// Team is one of the four BP teams
type Team string

const (
	TeamOG Team = "OG" // Opening Government
	TeamOO Team = "OO" // Opening Opposition
	TeamCG Team = "CG" // Closing Government
	TeamCO Team = "CO" // Closing Opposition
)

// Side is the gov/opp bench grouping of the four teams
type Side string

const (
	SideGov     Side = "gov"
	SideOpp     Side = "opp"
	SideUnknown Side = ""
)

// Side maps a team to its bench
func (t Team) Side() Side {
	switch t {
	case TeamOG, TeamCG:
		return SideGov
	case TeamOO, TeamCO:
		return SideOpp
	}
	return SideUnknown
}

// Speaker describes one speaking slot in a BP round
type Speaker struct {
	Role  string `json:"role" yaml:"role"`
	Title string `json:"title" yaml:"title"`
	Team  Team   `json:"team" yaml:"team"`
	Order int    `json:"order" yaml:"order"`
}

// FullRoundSpeakers is the canonical BP speaking order
var FullRoundSpeakers = []Speaker{
	{Role: "PM", Title: "Prime Minister", Team: TeamOG, Order: 1},
	{Role: "LO", Title: "Leader of Opposition", Team: TeamOO, Order: 2},
	{Role: "DPM", Title: "Deputy PM", Team: TeamOG, Order: 3},
	{Role: "DLO", Title: "Deputy LO", Team: TeamOO, Order: 4},
	{Role: "MG", Title: "Member of Government", Team: TeamCG, Order: 5},
	{Role: "MO", Title: "Member of Opposition", Team: TeamCO, Order: 6},
	{Role: "GW", Title: "Government Whip", Team: TeamCG, Order: 7},
	{Role: "OW", Title: "Opposition Whip", Team: TeamCO, Order: 8},
}

// TopHalfSpeakers is the first four slots, used for half-round practice formats
var TopHalfSpeakers = FullRoundSpeakers[:4]

// Point is the atomic unit of flow: one recorded piece of argumentation
type Point struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`                                   // Raw submitted text
	Claim       string   `json:"claim" yaml:"claim"`                                 // Terse restated claim (defaults to Text)
	Mechanisms  []string `json:"mechanisms,omitempty" yaml:"mechanisms,omitempty"`   // Why/how the claim works
	Impacts     []string `json:"impacts,omitempty" yaml:"impacts,omitempty"`         // What happens as a result
	Refutations []string `json:"refutations,omitempty" yaml:"refutations,omitempty"` // Inline responses noted against it

	// Legacy singular fields from earlier round files; folded into the
	// arrays by Normalize and never read elsewhere.
	Mechanism string `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
	Impact    string `json:"impact,omitempty" yaml:"impact,omitempty"`

	Speaker     string `json:"speaker" yaml:"speaker"`
	Team        Team   `json:"team" yaml:"team"`
	SpeechOrder int    `json:"speech_order" yaml:"speech_order"`

	IsPOI       bool   `json:"is_poi,omitempty" yaml:"is_poi,omitempty"`
	POIFrom     string `json:"poi_from,omitempty" yaml:"poi_from,omitempty"`
	IsExtension bool   `json:"is_extension,omitempty" yaml:"is_extension,omitempty"`
	IsWeighing  bool   `json:"is_weighing,omitempty" yaml:"is_weighing,omitempty"`
	IsJudgeNote bool   `json:"is_judge_note,omitempty" yaml:"is_judge_note,omitempty"`

	ClashTheme     string         `json:"clash_theme,omitempty" yaml:"clash_theme,omitempty"`
	RespondsTo     string         `json:"responds_to,omitempty" yaml:"responds_to,omitempty"`
	RebuttalTarget RebuttalTarget `json:"rebuttal_target,omitempty" yaml:"rebuttal_target,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// DisplayClaim returns the restated claim, falling back to the raw text
func (p *Point) DisplayClaim() string {
	if p.Claim != "" {
		return p.Claim
	}
	return p.Text
}

// Substantive reports whether the point counts as a real argument for
// dropped-argument analysis (POIs, weighing notes, extension markers and
// judge notes do not)
func (p *Point) Substantive() bool {
	return !p.IsPOI && !p.IsWeighing && !p.IsExtension && !p.IsJudgeNote
}

// Normalize folds legacy singular mechanism/impact fields into the array
// fields and defaults the restated claim. Called once when a point enters
// the engine; all other code assumes array-valued fields.
func (p *Point) Normalize() {
	if p.Mechanism != "" {
		p.Mechanisms = append(p.Mechanisms, p.Mechanism)
		p.Mechanism = ""
	}
	if p.Impact != "" {
		p.Impacts = append(p.Impacts, p.Impact)
		p.Impact = ""
	}
	if p.Claim == "" {
		p.Claim = p.Text
	}
}
