package flow

import "github.com/abhi-wadhwa/bp-flow/internal/model"

// ComputeDroppedIDs derives which substantive points were never answered by
// the opposing bench despite that bench speaking again afterwards. A point
// is dropped iff it is unanswered AND the opposing side delivered at least
// one speech with a strictly later speech order; if the debate ended before
// the opponent spoke again, no fair opportunity existed and the point is
// not dropped.
func ComputeDroppedIDs(points []model.Point) map[string]bool {
	// Ids answered by anyone, at any point, settle the question outright
	respondedTo := make(map[string]bool)
	for i := range points {
		p := &points[i]
		if p.IsJudgeNote {
			continue
		}
		if p.RespondsTo != "" {
			respondedTo[p.RespondsTo] = true
		}
	}

	// Speech orders that actually occurred, per bench
	govOrders := make(map[int]bool)
	oppOrders := make(map[int]bool)
	for i := range points {
		p := &points[i]
		if p.IsJudgeNote {
			continue
		}
		switch p.Team.Side() {
		case model.SideGov:
			govOrders[p.SpeechOrder] = true
		case model.SideOpp:
			oppOrders[p.SpeechOrder] = true
		}
	}

	dropped := make(map[string]bool)
	for i := range points {
		p := &points[i]
		if !p.Substantive() {
			continue
		}
		if respondedTo[p.ID] {
			continue
		}

		side := p.Team.Side()
		if side == model.SideUnknown {
			continue
		}

		opposing := oppOrders
		if side == model.SideOpp {
			opposing = govOrders
		}

		for order := range opposing {
			if order > p.SpeechOrder {
				dropped[p.ID] = true
				break
			}
		}
	}

	return dropped
}
