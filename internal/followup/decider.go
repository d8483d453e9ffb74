// Package followup implements the pure follow-up decision function: no
// I/O, no side effects, trivially testable with synthetic evaluations.
package followup

import (
	"fmt"

	"interviewengine/internal/domain"
)

// Decision is the Follow-up Decider's output.
type Decision struct {
	NeedsFollowUp   bool
	Reason          string
	FollowUpCount   int
	CumulativeGaps  []string
}

// Decide implements spec §4.3's four ordered rules (first match fires).
// followUpCount is the number of follow-ups already generated for
// parentQuestionID. priorFollowUpEvaluations are the evaluations of all
// previously answered follow-ups for the same parent, in the order they
// were generated; latest is the evaluation of the most recently answered
// attempt (main or follow-up).
func Decide(followUpCount int, latest *domain.Evaluation, priorFollowUpEvaluations []*domain.Evaluation) Decision {
	if followUpCount >= 3 {
		return Decision{NeedsFollowUp: false, Reason: "max follow-ups reached", FollowUpCount: 3}
	}

	if latest.SimilarityScore != nil && *latest.SimilarityScore >= 0.8 {
		return Decision{NeedsFollowUp: false, Reason: "similarity >= 0.8", FollowUpCount: followUpCount}
	}

	if !latest.HasUnresolvedGaps() {
		return Decision{NeedsFollowUp: false, Reason: "no gaps", FollowUpCount: followUpCount}
	}

	cumulative := accumulateGaps(latest, priorFollowUpEvaluations)
	if len(cumulative) == 0 {
		return Decision{NeedsFollowUp: false, Reason: "no cumulative gaps", FollowUpCount: followUpCount}
	}

	return Decision{
		NeedsFollowUp:  true,
		Reason:         fmt.Sprintf("%d missing concepts: %s", len(cumulative), joinGaps(cumulative)),
		FollowUpCount:  followUpCount,
		CumulativeGaps: cumulative,
	}
}

func joinGaps(gaps []string) string {
	out := ""
	for i, g := range gaps {
		if i > 0 {
			out += ", "
		}
		out += g
	}
	return out
}

// accumulateGaps unions unresolved concept names from latest and every
// prior follow-up evaluation, preserving first-seen order (spec.md §4.3
// step 4 — diverging from the source's unordered set-based accumulation).
func accumulateGaps(latest *domain.Evaluation, prior []*domain.Evaluation) []string {
	seen := make(map[string]bool)
	var ordered []string

	appendUnresolved := func(e *domain.Evaluation) {
		for _, g := range e.Gaps {
			if g.Resolved || seen[g.Concept] {
				continue
			}
			seen[g.Concept] = true
			ordered = append(ordered, g.Concept)
		}
	}

	appendUnresolved(latest)
	for _, e := range prior {
		appendUnresolved(e)
	}
	return ordered
}
