package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

func TestLoadRound_EmptyPath(t *testing.T) {
	round, err := loadRound("")
	if err != nil {
		t.Fatalf("Empty path must yield an empty round: %v", err)
	}
	if round.Motion != "" || len(round.Points) != 0 {
		t.Errorf("Expected empty round, got %+v", round)
	}
}

func TestLoadRound_MissingFile(t *testing.T) {
	if _, err := loadRound(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestRoundFile_SaveLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.yaml")

	// A legacy-shaped file written by hand
	legacy := `motion: "THW abolish tariffs"
points:
  - id: "1"
    text: "tariffs protect jobs"
    claim: ""
    mechanism: "import substitution"
    impact: "employment stays high"
    speaker: LO
    team: OO
    speech_order: 2
`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	round, err := loadRound(path)
	if err != nil {
		t.Fatalf("loadRound failed: %v", err)
	}
	if round.Motion != "THW abolish tariffs" {
		t.Errorf("Unexpected motion: %q", round.Motion)
	}
	if len(round.Points) != 1 {
		t.Fatalf("Expected 1 point, got %d", len(round.Points))
	}

	p := round.Points[0]
	if p.Mechanism != "" || p.Impact != "" {
		t.Errorf("Legacy fields must be folded on load, got %+v", p)
	}
	if len(p.Mechanisms) != 1 || len(p.Impacts) != 1 {
		t.Errorf("Expected folded arrays, got %+v", p)
	}
	if p.Claim != "tariffs protect jobs" {
		t.Errorf("Claim must default to text, got %q", p.Claim)
	}
	if p.Team != model.TeamOO {
		t.Errorf("Unexpected team: %q", p.Team)
	}

	// Round-trip through saveRound keeps the modern shape
	if err := saveRound(path, round); err != nil {
		t.Fatalf("saveRound failed: %v", err)
	}
	again, err := loadRound(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.Points[0].Mechanism != "" || len(again.Points[0].Mechanisms) != 1 {
		t.Errorf("Saved round regressed to legacy shape: %+v", again.Points[0])
	}
}

func TestResolveSpeaker(t *testing.T) {
	sp, err := resolveSpeaker("DPM")
	if err != nil {
		t.Fatalf("resolveSpeaker failed: %v", err)
	}
	if sp.Team != model.TeamOG || sp.Order != 3 {
		t.Errorf("Unexpected slot: %+v", sp)
	}

	if _, err := resolveSpeaker("PMX"); err == nil {
		t.Error("Expected error for unknown role")
	}
}
