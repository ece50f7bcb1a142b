package flow

import (
	"testing"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

func TestPendingSlot_ResolveAndTake(t *testing.T) {
	slot := NewPendingSlot()
	sub := Submission{Text: "free trade helps", Team: model.TeamOG}

	gen := slot.Begin(sub)
	if !slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim}) {
		t.Fatal("Resolve against current generation must succeed")
	}

	taken, cls, ok := slot.Take()
	if !ok || taken.Text != sub.Text || cls.ArgumentType != model.TypeClaim {
		t.Fatalf("Take returned wrong pair: %+v %+v %v", taken, cls, ok)
	}
	if _, _, ok := slot.Current(); ok {
		t.Error("Slot must be empty after Take")
	}
}

func TestPendingSlot_StaleResolveDiscarded(t *testing.T) {
	slot := NewPendingSlot()

	oldGen := slot.Begin(Submission{Text: "first point"})
	slot.Begin(Submission{Text: "second point"})

	if slot.Resolve(oldGen, model.Classification{ArgumentType: model.TypeRefutation}) {
		t.Error("Stale resolve must be rejected")
	}
	if _, _, ok := slot.Current(); ok {
		t.Error("Stale resolve must not install a result")
	}
}

func TestPendingSlot_TakeBumpsGeneration(t *testing.T) {
	slot := NewPendingSlot()

	gen := slot.Begin(Submission{Text: "point"})
	slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim})
	slot.Take()

	// An async result arriving after Take targets a dead submission
	if slot.Resolve(gen, model.Classification{ArgumentType: model.TypeMechanism}) {
		t.Error("Resolve after Take must be rejected")
	}
}

func TestPendingSlot_TakeIf(t *testing.T) {
	slot := NewPendingSlot()

	gen := slot.Begin(Submission{Text: "point"})
	slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim})

	if _, ok := slot.TakeIf(gen + 1); ok {
		t.Error("TakeIf with wrong generation must fail")
	}
	if sub, ok := slot.TakeIf(gen); !ok || sub.Text != "point" {
		t.Errorf("TakeIf with current generation must succeed, got %+v %v", sub, ok)
	}
	if _, ok := slot.TakeIf(gen); ok {
		t.Error("Second TakeIf must fail, slot was cleared")
	}
}

func TestPendingSlot_UpdateRequiresPending(t *testing.T) {
	slot := NewPendingSlot()

	if slot.Update(model.Classification{ArgumentType: model.TypeClaim}) {
		t.Error("Update on an empty slot must fail")
	}

	gen := slot.Begin(Submission{Text: "point"})
	slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim})
	if !slot.Update(model.Classification{ArgumentType: model.TypeRefutation}) {
		t.Fatal("Update on a pending slot must succeed")
	}
	_, cls, _ := slot.Current()
	if cls.ArgumentType != model.TypeRefutation {
		t.Errorf("Expected updated type, got %s", cls.ArgumentType)
	}
}

func TestPendingSlot_Clear(t *testing.T) {
	slot := NewPendingSlot()
	gen := slot.Begin(Submission{Text: "point"})
	slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim})

	slot.Clear()
	if _, _, ok := slot.Current(); ok {
		t.Error("Clear must empty the slot")
	}
	if slot.Resolve(gen, model.Classification{ArgumentType: model.TypeClaim}) {
		t.Error("Resolve after Clear must be rejected")
	}
}
