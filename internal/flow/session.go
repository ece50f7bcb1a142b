package flow

import (
	"context"
	"errors"
	"sync"

	"github.com/abhi-wadhwa/bp-flow/internal/classify"
	"github.com/abhi-wadhwa/bp-flow/internal/model"
)

var errNoPending = errors.New("no pending classification")

// Session ties the graph, the classifier and the pending slot together into
// the submit/confirm/override control flow the interactive caller drives.
type Session struct {
	graph      *Graph
	classifier *classify.Classifier
	pending    *PendingSlot
	thresholds model.ThresholdsConfig
	wg         sync.WaitGroup
}

// NewSession creates a session over an empty graph
func NewSession(graph *Graph, classifier *classify.Classifier, thresholds model.ThresholdsConfig) *Session {
	return &Session{
		graph:      graph,
		classifier: classifier,
		pending:    NewPendingSlot(),
		thresholds: thresholds,
	}
}

// Graph returns the session's argument graph
func (s *Session) Graph() *Graph {
	return s.graph
}

// Pending returns the session's pending slot
func (s *Session) Pending() *PendingSlot {
	return s.pending
}

// Submit runs the control flow for one point. The heuristic classification
// is computed synchronously, returned for instant feedback, and parked in
// the pending slot. When a remote provider is configured, a background
// classification is launched whose result supersedes the heuristic one:
// auto-applied above the auto-apply threshold, reduced to a theme-only
// suggestion below the surface floor, surfaced as-is in between. A result
// arriving after the slot has moved on to a newer submission is discarded.
func (s *Session) Submit(ctx context.Context, sub Submission) model.Classification {
	points := s.graph.Points()
	themes := s.graph.Themes()

	heuristic := s.classifier.Heuristic().Classify(sub.Text, points, themes, sub.Team)

	gen := s.pending.Begin(sub)
	s.pending.Resolve(gen, heuristic)

	if s.classifier.RemoteEnabled() {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			remote := s.classifier.Classify(ctx, sub.Text, sub.Speaker, sub.Team, sub.SpeechOrder, points, themes)

			if remote.Confidence >= s.thresholds.AutoApply {
				if taken, ok := s.pending.TakeIf(gen); ok {
					s.graph.Apply(taken, remote)
				}
				return
			}
			if remote.Confidence < s.thresholds.SurfaceFloor {
				// Links this weak never surface; a resolved theme still does
				if remote.ClashTheme == "" {
					return
				}
				remote = model.Classification{
					ArgumentType: model.TypeClaim,
					ClashTheme:   remote.ClashTheme,
					IsNewTheme:   remote.IsNewTheme,
					Confidence:   remote.Confidence,
					Source:       remote.Source,
				}
			}
			if remote.Confidence > heuristic.Confidence || remote.Source == model.SourceRemote {
				s.pending.Resolve(gen, remote)
			}
		}()
	}

	return heuristic
}

// Confirm applies the pending classification to the graph. Returns the
// affected point id.
func (s *Session) Confirm() (string, bool) {
	sub, cls, ok := s.pending.Take()
	if !ok {
		return "", false
	}
	id, _ := s.graph.Apply(sub, cls)
	return id, true
}

// Dismiss discards the pending link but keeps the suggested theme: the
// point is committed as a plain claim carrying the theme, never the link
func (s *Session) Dismiss() (string, bool) {
	sub, cls, ok := s.pending.Take()
	if !ok {
		return "", false
	}
	id, _ := s.graph.Apply(sub, model.Classification{
		ArgumentType: model.TypeClaim,
		ClashTheme:   cls.ClashTheme,
		Confidence:   cls.Confidence,
		Source:       cls.Source,
	})
	return id, true
}

// Override switches the pending classification's type, enforcing
// type-specific field consistency
func (s *Session) Override(newType model.ArgumentType) bool {
	sub, cls, ok := s.pending.Current()
	if !ok {
		return false
	}
	return s.pending.Update(s.graph.OverrideType(cls, newType, sub.Team))
}

// ManualLink points the pending classification at an explicitly chosen
// target, inheriting the target's theme if the pending result has none
func (s *Session) ManualLink(targetID string) error {
	_, cls, ok := s.pending.Current()
	if !ok {
		return errNoPending
	}
	linked, err := s.graph.LinkPending(cls, targetID)
	if err != nil {
		return err
	}
	s.pending.Update(linked)
	return nil
}

// Wait blocks until in-flight background classifications have resolved
func (s *Session) Wait() {
	s.wg.Wait()
}
