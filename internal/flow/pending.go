package flow

import (
	"sync"

	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

// PendingSlot holds the single surfaced pending classification: one
// submission awaiting confirmation together with its best classification so
// far. Each submission bumps a generation counter; an async result
// resolving against a stale generation is discarded instead of overwriting
// the slot, so rapid input can never attach a classification to the wrong
// point.
type PendingSlot struct {
	mu         sync.Mutex
	generation uint64
	submission Submission
	result     *model.Classification
}

// NewPendingSlot creates an empty pending slot
func NewPendingSlot() *PendingSlot {
	return &PendingSlot{}
}

// Begin claims the slot for a new submission and returns the generation any
// later async result must present. Whatever was pending is dropped.
func (s *PendingSlot) Begin(sub Submission) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.submission = sub
	s.result = nil
	return s.generation
}

// Resolve installs a result if its generation is still current. Returns
// false when the result is stale and was discarded.
func (s *PendingSlot) Resolve(generation uint64, cls model.Classification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.result = &cls
	return true
}

// Update replaces the classification of the currently pending submission,
// for overrides and manual linking. Returns false if nothing is pending.
func (s *PendingSlot) Update(cls model.Classification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return false
	}
	s.result = &cls
	return true
}

// Current returns the pending submission and classification, if any
func (s *PendingSlot) Current() (Submission, model.Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Submission{}, model.Classification{}, false
	}
	return s.submission, *s.result, true
}

// Take removes and returns the pending pair for application. The
// generation moves on, so in-flight async results against the taken
// submission are rejected.
func (s *PendingSlot) Take() (Submission, model.Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return Submission{}, model.Classification{}, false
	}
	sub, cls := s.submission, *s.result
	s.clearLocked()
	return sub, cls, true
}

// TakeIf is Take restricted to a specific generation, used by auto-apply to
// guarantee the slot has not been reassigned while the remote call was in
// flight
func (s *PendingSlot) TakeIf(generation uint64) (Submission, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return Submission{}, false
	}
	sub := s.submission
	s.clearLocked()
	return sub, true
}

// Clear dismisses whatever is pending
func (s *PendingSlot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *PendingSlot) clearLocked() {
	s.generation++
	s.submission = Submission{}
	s.result = nil
}
