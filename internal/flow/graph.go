// Package flow owns the argument graph: the point collection, the
// classification-application rules that mutate it, and the read-only
// analyses views consume. All mutations are atomic from the caller's
// perspective; invariants are enforced at mutation time.
package flow

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
	"github.com/abhi-wadhwa/bp-flow/internal/textutil"
)

// IDGenerator issues unique point ids for the lifetime of a session.
// Injected rather than ambient so parallel tests get independent counters.
type IDGenerator interface {
	Next() string

	// Advance marks an already-taken id so Next never reissues it. Called
	// for every point loaded from an existing round.
	Advance(id string)
}

// SequentialIDs issues monotonically increasing decimal ids starting at 1
type SequentialIDs struct {
	mu   sync.Mutex
	next int
}

// NewSequentialIDs creates a sequential id generator
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{next: 1}
}

// Next returns the next id
func (g *SequentialIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := strconv.Itoa(g.next)
	g.next++
	return id
}

// Advance moves the counter past a numeric id already in use. Non-numeric
// ids cannot collide with the counter and are ignored.
func (g *SequentialIDs) Advance(id string) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if n >= g.next {
		g.next = n + 1
	}
}

// Submission carries the provisional metadata of a submitted point before
// classification commits it
type Submission struct {
	Text        string
	Speaker     string
	Team        model.Team
	SpeechOrder int
	IsPOI       bool
	POIFrom     string
	IsExtension bool
	IsWeighing  bool
}

// JudgeNote is a private note excluded from the argument graph proper
type JudgeNote struct {
	Text      string
	Speaker   string
	CreatedAt time.Time
}

// AnnotationField names a point's appendable list
type AnnotationField string

const (
	FieldMechanisms  AnnotationField = "mechanisms"
	FieldImpacts     AnnotationField = "impacts"
	FieldRefutations AnnotationField = "refutations"
)

// Graph is the single shared mutable resource of a round
type Graph struct {
	mu         sync.Mutex
	points     []model.Point
	judgeNotes []JudgeNote
	ids        IDGenerator
	now        func() time.Time
}

// NewGraph creates an empty graph with the given id generator
func NewGraph(ids IDGenerator) *Graph {
	return &Graph{
		ids: ids,
		now: time.Now,
	}
}

// Load seeds the graph with existing points, normalizing legacy field
// shapes at the boundary
func (g *Graph) Load(points []model.Point) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range points {
		points[i].Normalize()
		g.ids.Advance(points[i].ID)
	}
	g.points = append(g.points, points...)
}

// Points returns a copy of the point collection in submission order
func (g *Graph) Points() []model.Point {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.Point, len(g.points))
	copy(out, g.points)
	return out
}

// Find returns the point with the given id
func (g *Graph) Find(id string) (model.Point, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.find(id); p != nil {
		return *p, true
	}
	return model.Point{}, false
}

func (g *Graph) find(id string) *model.Point {
	for i := range g.points {
		if g.points[i].ID == id {
			return &g.points[i]
		}
	}
	return nil
}

// Themes returns the distinct clash theme labels in first-seen order
func (g *Graph) Themes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	seen := make(map[string]struct{})
	var themes []string
	for i := range g.points {
		t := g.points[i].ClashTheme
		if t == "" {
			continue
		}
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			themes = append(themes, t)
		}
	}
	return themes
}

// AddJudgeNote records a private note outside the argument graph
func (g *Graph) AddJudgeNote(text, speaker string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.judgeNotes = append(g.judgeNotes, JudgeNote{
		Text:      text,
		Speaker:   speaker,
		CreatedAt: g.now(),
	})
}

// JudgeNotes returns a copy of the judge notes
func (g *Graph) JudgeNotes() []JudgeNote {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]JudgeNote, len(g.judgeNotes))
	copy(out, g.judgeNotes)
	return out
}

// Apply commits a classification for a submitted point. It returns the id
// of the affected point and whether a new point was created:
//   - claim: a new standalone point is appended
//   - mechanism/impact with a resolvable target: the text is appended to the
//     parent's list, no new point
//   - mechanism/impact with no target: demoted to a standalone claim
//   - refutation: a new point carrying the (possibly null) link fields
func (g *Graph) Apply(sub Submission, cls model.Classification) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch cls.ArgumentType {
	case model.TypeMechanism, model.TypeImpact:
		if parent := g.find(cls.BelongsTo); cls.BelongsTo != "" && parent != nil {
			if cls.ArgumentType == model.TypeMechanism {
				parent.Mechanisms = append(parent.Mechanisms, sub.Text)
			} else {
				parent.Impacts = append(parent.Impacts, sub.Text)
			}
			return parent.ID, false
		}
		// No resolvable parent: demote to a standalone claim
		return g.appendPoint(sub, cls.ClashTheme, "", model.TargetNone), true

	case model.TypeRefutation:
		return g.appendPoint(sub, cls.ClashTheme, cls.RespondsTo, cls.RebuttalTarget), true

	default:
		return g.appendPoint(sub, cls.ClashTheme, "", model.TargetNone), true
	}
}

func (g *Graph) appendPoint(sub Submission, theme, respondsTo string, target model.RebuttalTarget) string {
	if respondsTo == "" {
		target = model.TargetNone
	}
	p := model.Point{
		ID:             g.ids.Next(),
		Text:           sub.Text,
		Claim:          sub.Text,
		Speaker:        sub.Speaker,
		Team:           sub.Team,
		SpeechOrder:    sub.SpeechOrder,
		IsPOI:          sub.IsPOI,
		POIFrom:        sub.POIFrom,
		IsExtension:    sub.IsExtension,
		IsWeighing:     sub.IsWeighing,
		ClashTheme:     theme,
		RespondsTo:     respondsTo,
		RebuttalTarget: target,
		CreatedAt:      g.now(),
	}
	g.points = append(g.points, p)
	return p.ID
}

// ApplyBatch commits a confirmed deconstruction batch in order, returning
// the ids of the created points
func (g *Graph) ApplyBatch(sub Submission, batch []model.DeconstructedPoint) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, 0, len(batch))
	for _, dp := range batch {
		target := dp.RebuttalTarget
		respondsTo := dp.RespondsTo
		if !dp.IsRefutation || respondsTo == "" {
			respondsTo = ""
			target = model.TargetNone
		}
		p := model.Point{
			ID:             g.ids.Next(),
			Text:           dp.Claim,
			Claim:          dp.Claim,
			Mechanisms:     append([]string(nil), dp.Mechanisms...),
			Impacts:        append([]string(nil), dp.Impacts...),
			Speaker:        sub.Speaker,
			Team:           sub.Team,
			SpeechOrder:    sub.SpeechOrder,
			IsPOI:          sub.IsPOI,
			POIFrom:        sub.POIFrom,
			IsExtension:    sub.IsExtension,
			IsWeighing:     sub.IsWeighing,
			ClashTheme:     dp.ClashTheme,
			RespondsTo:     respondsTo,
			RebuttalTarget: target,
			CreatedAt:      g.now(),
		}
		g.points = append(g.points, p)
		ids = append(ids, p.ID)
	}
	return ids
}

// OverrideType switches a pending classification's type before it is
// applied, enforcing field consistency for the new type: claims carry no
// links, mechanism/impact clear refutation fields and backfill the parent
// from the same-team backward scan, refutations clear attachment fields and
// keep an existing responds_to for manual linking
func (g *Graph) OverrideType(cls model.Classification, newType model.ArgumentType, team model.Team) model.Classification {
	g.mu.Lock()
	defer g.mu.Unlock()

	cls.ArgumentType = newType
	switch newType {
	case model.TypeClaim:
		cls.BelongsTo = ""
		cls.RespondsTo = ""
		cls.RebuttalTarget = model.TargetNone

	case model.TypeMechanism, model.TypeImpact:
		cls.RespondsTo = ""
		cls.RebuttalTarget = model.TargetNone
		if cls.BelongsTo == "" {
			cls.BelongsTo = g.lastSameTeamID(team)
		}

	case model.TypeRefutation:
		cls.BelongsTo = ""
	}
	return cls
}

func (g *Graph) lastSameTeamID(team model.Team) string {
	for i := len(g.points) - 1; i >= 0; i-- {
		p := &g.points[i]
		if p.Team == team && !p.IsJudgeNote && !p.IsPOI {
			return p.ID
		}
	}
	return ""
}

// LinkPending points a pending classification at an explicitly chosen
// target, inheriting the target's theme when the classification has none
func (g *Graph) LinkPending(cls model.Classification, targetID string) (model.Classification, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.find(targetID)
	if target == nil {
		return cls, fmt.Errorf("no point with id %s", targetID)
	}
	cls.RespondsTo = targetID
	if cls.ClashTheme == "" {
		cls.ClashTheme = target.ClashTheme
	}
	return cls, nil
}

// Relink replaces a committed point's responds_to link, backfilling its
// theme from the new target if it had none
func (g *Graph) Relink(id, targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return fmt.Errorf("no point with id %s", id)
	}
	target := g.find(targetID)
	if target == nil {
		return fmt.Errorf("no point with id %s", targetID)
	}

	p.RespondsTo = targetID
	if p.ClashTheme == "" {
		p.ClashTheme = target.ClashTheme
	}
	return nil
}

// EditText replaces a point's raw text and restated claim
func (g *Graph) EditText(id, newText string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return fmt.Errorf("no point with id %s", id)
	}
	p.Text = newText
	p.Claim = newText
	return nil
}

// SetTheme assigns a point's clash theme directly
func (g *Graph) SetTheme(id, theme string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return fmt.Errorf("no point with id %s", id)
	}
	p.ClashTheme = theme
	return nil
}

// Annotate appends text to one of a point's list fields
func (g *Graph) Annotate(id string, field AnnotationField, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.find(id)
	if p == nil {
		return fmt.Errorf("no point with id %s", id)
	}
	return annotate(p, field, text)
}

// AnnotateLast appends text to a list field of the most recently submitted
// point, returning its id
func (g *Graph) AnnotateLast(field AnnotationField, text string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := len(g.points) - 1; i >= 0; i-- {
		p := &g.points[i]
		if !p.IsJudgeNote {
			return p.ID, annotate(p, field, text)
		}
	}
	return "", fmt.Errorf("no point to annotate")
}

func annotate(p *model.Point, field AnnotationField, text string) error {
	switch field {
	case FieldMechanisms:
		p.Mechanisms = append(p.Mechanisms, text)
	case FieldImpacts:
		p.Impacts = append(p.Impacts, text)
	case FieldRefutations:
		p.Refutations = append(p.Refutations, text)
	default:
		return fmt.Errorf("unknown annotation field %q", field)
	}
	return nil
}

// Retheme rewrites the clash theme across every point carrying the old
// label. Idempotent: a second identical call finds no points with the old
// label and changes nothing. Returns how many points were relabeled.
func (g *Graph) Retheme(oldLabel, newLabel string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for i := range g.points {
		if g.points[i].ClashTheme == oldLabel {
			g.points[i].ClashTheme = newLabel
			n++
		}
	}
	return n
}

// Search finds link-target candidates whose claim text, speaker, team or
// theme matches the query, or whose claim shares tokens with it
func (g *Graph) Search(query string) []model.Point {
	g.mu.Lock()
	defer g.mu.Unlock()

	lower := strings.ToLower(query)
	var matches []model.Point
	for i := range g.points {
		p := &g.points[i]
		if p.IsJudgeNote {
			continue
		}
		if strings.Contains(strings.ToLower(p.DisplayClaim()), lower) ||
			strings.EqualFold(p.Speaker, query) ||
			strings.EqualFold(string(p.Team), query) ||
			strings.Contains(strings.ToLower(p.ClashTheme), lower) ||
			textutil.Similarity(query, p.DisplayClaim()) > 0 {
			matches = append(matches, *p)
		}
	}
	return matches
}

// Clash groups the points addressing one theme
type Clash struct {
	Theme  string
	Points []model.Point
}

// ClashSummary groups substantive points per theme in first-seen theme
// order; unthemed points are collected under an empty label at the end
func (g *Graph) ClashSummary() []Clash {
	g.mu.Lock()
	defer g.mu.Unlock()

	index := make(map[string]int)
	var clashes []Clash
	var unthemed []model.Point

	for i := range g.points {
		p := g.points[i]
		if p.IsJudgeNote {
			continue
		}
		if p.ClashTheme == "" {
			unthemed = append(unthemed, p)
			continue
		}
		pos, ok := index[p.ClashTheme]
		if !ok {
			pos = len(clashes)
			index[p.ClashTheme] = pos
			clashes = append(clashes, Clash{Theme: p.ClashTheme})
		}
		clashes[pos].Points = append(clashes[pos].Points, p)
	}

	if len(unthemed) > 0 {
		clashes = append(clashes, Clash{Points: unthemed})
	}
	return clashes
}
