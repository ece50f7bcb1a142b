package flow

import (
	"testing"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

func newTestGraph() *Graph {
	return NewGraph(NewSequentialIDs())
}

func TestSequentialIDs(t *testing.T) {
	ids := NewSequentialIDs()
	for i, want := range []string{"1", "2", "3"} {
		if got := ids.Next(); got != want {
			t.Errorf("id %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestGraph_ApplyClaimCreatesPoint(t *testing.T) {
	g := newTestGraph()

	id, created := g.Apply(
		Submission{Text: "free trade helps poor nations", Speaker: "PM", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "trade"},
	)

	if !created || id != "1" {
		t.Fatalf("Expected new point 1, got id=%q created=%v", id, created)
	}
	p, ok := g.Find("1")
	if !ok {
		t.Fatal("Point 1 not found")
	}
	if p.ClashTheme != "trade" || p.Team != model.TeamOG || p.RespondsTo != "" {
		t.Errorf("Unexpected point state: %+v", p)
	}
}

func TestGraph_ApplyMechanismAppendsToParent(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "free trade helps poor nations", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim})

	id, created := g.Apply(
		Submission{Text: "because transaction costs fall", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeMechanism, BelongsTo: "1"},
	)

	if created {
		t.Error("Attachment must not create a new point")
	}
	if id != "1" {
		t.Errorf("Expected parent id 1, got %q", id)
	}
	parent, _ := g.Find("1")
	if len(parent.Mechanisms) != 1 || parent.Mechanisms[0] != "because transaction costs fall" {
		t.Errorf("Expected mechanism appended to parent, got %+v", parent.Mechanisms)
	}
	if len(g.Points()) != 1 {
		t.Errorf("Expected 1 point, got %d", len(g.Points()))
	}
}

func TestGraph_ApplyImpactAppendsToParent(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "free trade helps poor nations", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim})

	g.Apply(Submission{Text: "leading to sustained growth", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeImpact, BelongsTo: "1"})

	parent, _ := g.Find("1")
	if len(parent.Impacts) != 1 || parent.Impacts[0] != "leading to sustained growth" {
		t.Errorf("Expected impact appended to parent, got %+v", parent.Impacts)
	}
}

func TestGraph_ApplyOrphanedMechanismDemotedToClaim(t *testing.T) {
	g := newTestGraph()

	id, created := g.Apply(
		Submission{Text: "because transaction costs fall", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeMechanism, BelongsTo: "99"},
	)

	if !created {
		t.Fatal("Expected demotion to create a standalone point")
	}
	p, _ := g.Find(id)
	if p.RespondsTo != "" || p.RebuttalTarget != model.TargetNone {
		t.Errorf("Demoted claim must carry no links, got %+v", p)
	}
}

func TestGraph_ApplyRefutationCarriesLinks(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "tariffs protect jobs", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeClaim})

	id, created := g.Apply(
		Submission{Text: "tariffs raise consumer prices", Team: model.TeamOG, SpeechOrder: 3},
		model.Classification{ArgumentType: model.TypeRefutation, RespondsTo: "1", RebuttalTarget: model.TargetImpact},
	)

	if !created {
		t.Fatal("Expected refutation to create a point")
	}
	p, _ := g.Find(id)
	if p.RespondsTo != "1" || p.RebuttalTarget != model.TargetImpact {
		t.Errorf("Expected links carried, got %+v", p)
	}
}

func TestGraph_ApplyRefutationWithoutTargetHasNoRebuttalTarget(t *testing.T) {
	g := newTestGraph()

	id, _ := g.Apply(
		Submission{Text: "however their whole case fails", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeRefutation, RebuttalTarget: model.TargetClaim},
	)

	p, _ := g.Find(id)
	if p.RebuttalTarget != model.TargetNone {
		t.Errorf("Expected rebuttal_target cleared without responds_to, got %q", p.RebuttalTarget)
	}
}

func TestGraph_ApplyBatch(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "tariffs protect jobs", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeClaim})

	ids := g.ApplyBatch(
		Submission{Speaker: "DPM", Team: model.TeamOG, SpeechOrder: 3},
		[]model.DeconstructedPoint{
			{Claim: "free trade helps poor nations", Mechanisms: []string{"lower costs"}, Impacts: []string{"growth"}, ClashTheme: "trade"},
			{Claim: "the jobs point fails", IsRefutation: true, RespondsTo: "1", RebuttalTarget: model.TargetClaim},
		},
	)

	if len(ids) != 2 {
		t.Fatalf("Expected 2 ids, got %v", ids)
	}
	first, _ := g.Find(ids[0])
	if len(first.Mechanisms) != 1 || len(first.Impacts) != 1 || first.ClashTheme != "trade" {
		t.Errorf("Batch point malformed: %+v", first)
	}
	second, _ := g.Find(ids[1])
	if second.RespondsTo != "1" || second.RebuttalTarget != model.TargetClaim {
		t.Errorf("Batch refutation malformed: %+v", second)
	}
}

func TestGraph_OverrideTypeFieldConsistency(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "free trade helps poor nations", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim})

	base := model.Classification{
		ArgumentType:   model.TypeRefutation,
		RespondsTo:     "1",
		RebuttalTarget: model.TargetClaim,
	}

	asClaim := g.OverrideType(base, model.TypeClaim, model.TeamOG)
	if asClaim.BelongsTo != "" || asClaim.RespondsTo != "" || asClaim.RebuttalTarget != model.TargetNone {
		t.Errorf("Claim override must clear all links, got %+v", asClaim)
	}

	asMechanism := g.OverrideType(base, model.TypeMechanism, model.TeamOG)
	if asMechanism.RespondsTo != "" || asMechanism.RebuttalTarget != model.TargetNone {
		t.Errorf("Mechanism override must clear refutation fields, got %+v", asMechanism)
	}
	if asMechanism.BelongsTo != "1" {
		t.Errorf("Expected parent backfill from same-team scan, got %q", asMechanism.BelongsTo)
	}

	asRefutation := g.OverrideType(
		model.Classification{ArgumentType: model.TypeMechanism, BelongsTo: "1"},
		model.TypeRefutation, model.TeamOO)
	if asRefutation.BelongsTo != "" {
		t.Errorf("Refutation override must clear belongs_to, got %q", asRefutation.BelongsTo)
	}
}

func TestGraph_LinkPendingInheritsTheme(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "tariffs protect jobs", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "jobs"})

	linked, err := g.LinkPending(model.Classification{ArgumentType: model.TypeRefutation}, "1")
	if err != nil {
		t.Fatalf("LinkPending failed: %v", err)
	}
	if linked.RespondsTo != "1" || linked.ClashTheme != "jobs" {
		t.Errorf("Expected link and theme inheritance, got %+v", linked)
	}

	if _, err := g.LinkPending(model.Classification{}, "404"); err == nil {
		t.Error("Expected error for unknown target")
	}
}

func TestGraph_RelinkBackfillsTheme(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "tariffs protect jobs", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "jobs"})
	g.Apply(Submission{Text: "however that is wrong", Team: model.TeamOG, SpeechOrder: 3},
		model.Classification{ArgumentType: model.TypeRefutation})

	if err := g.Relink("2", "1"); err != nil {
		t.Fatalf("Relink failed: %v", err)
	}
	p, _ := g.Find("2")
	if p.RespondsTo != "1" || p.ClashTheme != "jobs" {
		t.Errorf("Expected relink with theme backfill, got %+v", p)
	}
}

func TestGraph_RethemeIdempotent(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "a", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "econ"})
	g.Apply(Submission{Text: "b", Team: model.TeamOO, SpeechOrder: 2},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "econ"})
	g.Apply(Submission{Text: "c", Team: model.TeamOG, SpeechOrder: 3},
		model.Classification{ArgumentType: model.TypeClaim, ClashTheme: "rights"})

	if n := g.Retheme("econ", "economics"); n != 2 {
		t.Errorf("Expected 2 relabeled, got %d", n)
	}
	if n := g.Retheme("econ", "economics"); n != 0 {
		t.Errorf("Expected second call to be a no-op, got %d", n)
	}

	themes := g.Themes()
	if len(themes) != 2 || themes[0] != "economics" || themes[1] != "rights" {
		t.Errorf("Unexpected themes after retheme: %v", themes)
	}
}

func TestGraph_AnnotateAndAnnotateLast(t *testing.T) {
	g := newTestGraph()
	g.Apply(Submission{Text: "free trade helps poor nations", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim})

	if err := g.Annotate("1", FieldRefutations, "contested by LO"); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
	id, err := g.AnnotateLast(FieldImpacts, "growth compounds")
	if err != nil {
		t.Fatalf("AnnotateLast failed: %v", err)
	}
	if id != "1" {
		t.Errorf("Expected last point 1, got %q", id)
	}

	p, _ := g.Find("1")
	if len(p.Refutations) != 1 || len(p.Impacts) != 1 {
		t.Errorf("Annotations missing: %+v", p)
	}

	if err := g.Annotate("1", AnnotationField("bogus"), "x"); err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestGraph_LoadAdvancesIDGenerator(t *testing.T) {
	g := newTestGraph()
	g.Load([]model.Point{
		{ID: "1", Claim: "free trade helps poor nations", Team: model.TeamOG, SpeechOrder: 1},
		{ID: "2", Claim: "tariffs protect domestic jobs", Team: model.TeamOO, SpeechOrder: 2},
	})

	id, created := g.Apply(
		Submission{Text: "a fresh point", Team: model.TeamOG, SpeechOrder: 3},
		model.Classification{ArgumentType: model.TypeClaim},
	)
	if !created {
		t.Fatal("Expected a new point")
	}

	seen := make(map[string]int)
	for _, p := range g.Points() {
		seen[p.ID]++
	}
	if seen[id] != 1 {
		t.Errorf("New id %q collides with a loaded point: %v", id, seen)
	}
	if id != "3" {
		t.Errorf("Expected the counter advanced past loaded ids, got %q", id)
	}
}

func TestGraph_LoadIgnoresNonNumericIDs(t *testing.T) {
	g := newTestGraph()
	g.Load([]model.Point{
		{ID: "p-abc", Claim: "imported point", Team: model.TeamOG, SpeechOrder: 1},
	})

	if id, _ := g.Apply(
		Submission{Text: "a fresh point", Team: model.TeamOG, SpeechOrder: 1},
		model.Classification{ArgumentType: model.TypeClaim},
	); id != "1" {
		t.Errorf("Non-numeric loaded ids must not move the counter, got %q", id)
	}
}

func TestGraph_LoadNormalizesLegacyFields(t *testing.T) {
	g := newTestGraph()
	g.Load([]model.Point{
		{ID: "1", Text: "old point", Mechanism: "legacy mechanism", Impact: "legacy impact", Team: model.TeamOG},
	})

	p, _ := g.Find("1")
	if p.Mechanism != "" || p.Impact != "" {
		t.Errorf("Legacy fields must be cleared, got %+v", p)
	}
	if len(p.Mechanisms) != 1 || len(p.Impacts) != 1 {
		t.Errorf("Legacy fields must be folded into arrays, got %+v", p)
	}
	if p.Claim != "old point" {
		t.Errorf("Expected claim defaulted from text, got %q", p.Claim)
	}
}

func TestGraph_SearchSkipsJudgeNotes(t *testing.T) {
	g := newTestGraph()
	g.Load([]model.Point{
		{ID: "1", Text: "free trade helps", Claim: "free trade helps", Team: model.TeamOG},
		{ID: "2", Text: "free trade note", Claim: "free trade note", Team: model.TeamOG, IsJudgeNote: true},
	})

	matches := g.Search("free trade")
	if len(matches) != 1 || matches[0].ID != "1" {
		t.Errorf("Expected only the substantive point, got %+v", matches)
	}
}

func TestGraph_ClashSummary(t *testing.T) {
	g := newTestGraph()
	g.Load([]model.Point{
		{ID: "1", Claim: "a", Team: model.TeamOG, ClashTheme: "econ"},
		{ID: "2", Claim: "b", Team: model.TeamOO, ClashTheme: "rights"},
		{ID: "3", Claim: "c", Team: model.TeamOG, ClashTheme: "econ"},
		{ID: "4", Claim: "d", Team: model.TeamCO},
		{ID: "5", Claim: "note", Team: model.TeamOG, IsJudgeNote: true},
	})

	clashes := g.ClashSummary()
	if len(clashes) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(clashes))
	}
	if clashes[0].Theme != "econ" || len(clashes[0].Points) != 2 {
		t.Errorf("First group wrong: %+v", clashes[0])
	}
	if clashes[1].Theme != "rights" || len(clashes[1].Points) != 1 {
		t.Errorf("Second group wrong: %+v", clashes[1])
	}
	if clashes[2].Theme != "" || len(clashes[2].Points) != 1 || clashes[2].Points[0].ID != "4" {
		t.Errorf("Unthemed bucket wrong: %+v", clashes[2])
	}
}

func TestGraph_JudgeNotesOutsideGraph(t *testing.T) {
	g := newTestGraph()
	g.AddJudgeNote("speaker lost the room", "judge")

	if len(g.Points()) != 0 {
		t.Error("Judge notes must not enter the point collection")
	}
	notes := g.JudgeNotes()
	if len(notes) != 1 || notes[0].Text != "speaker lost the room" {
		t.Errorf("Unexpected notes: %+v", notes)
	}
}
