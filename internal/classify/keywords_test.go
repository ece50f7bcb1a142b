package classify

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

func TestKeywordTable_YAMLRoundTrip(t *testing.T) {
	original := DefaultKeywords()

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded KeywordTable
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Error("Keyword table changed across the YAML round trip")
	}
	if decoded.Version != "v1" {
		t.Errorf("Expected version v1, got %q", decoded.Version)
	}
}

// Pin the classification of known phrases against the default table so
// keyword edits that shift behavior fail loudly.
func TestDefaultKeywords_PinnedClassifications(t *testing.T) {
	h := NewHeuristic(DefaultKeywords(), model.DefaultThresholds())

	tests := []struct {
		text string
		want model.ArgumentType
	}{
		{"but that assumes perfect markets", model.TypeRefutation},
		{"however the evidence points the other way", model.TypeRefutation},
		{"even if true, the harm is small", model.TypeRefutation},
		{"because incentives shift toward savings", model.TypeMechanism},
		{"this works by pooling risk across the population", model.TypeMechanism},
		{"due to falling marginal costs", model.TypeMechanism},
		{"leading to widespread unemployment", model.TypeImpact},
		{"which means millions lose coverage", model.TypeImpact},
		{"ultimately the policy pays for itself", model.TypeImpact},
		{"we should nationalize the railways", model.TypeClaim},
		{"privacy is a fundamental right", model.TypeClaim},
	}

	for _, tt := range tests {
		got := h.Classify(tt.text, nil, nil, model.TeamOG)
		if got.ArgumentType != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.text, tt.want, got.ArgumentType)
		}
	}
}

func TestContainsAny(t *testing.T) {
	phrases := []string{"no link", "negligible"}

	if !containsAny("there is no link here", phrases) {
		t.Error("Expected substring match")
	}
	if containsAny("a strong causal chain", phrases) {
		t.Error("Expected no match")
	}
	if containsAny("anything", nil) {
		t.Error("Empty phrase list must never match")
	}
}
