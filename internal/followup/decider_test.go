package followup

import (
	"strings"
	"testing"

	"interviewengine/internal/domain"
)

func sim(v float64) *float64 { return &v }

func evalWithGaps(gaps ...domain.ConceptGap) *domain.Evaluation {
	return &domain.Evaluation{Gaps: gaps}
}

func gap(concept string, resolved bool) domain.ConceptGap {
	return domain.ConceptGap{Concept: concept, Resolved: resolved}
}

func TestDecide_MaxFollowUpsReached(t *testing.T) {
	d := Decide(3, evalWithGaps(gap("x", false)), nil)
	if d.NeedsFollowUp {
		t.Fatal("expected no follow-up at max count")
	}
	if d.Reason != "max follow-ups reached" {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}

func TestDecide_HighSimilarityStops(t *testing.T) {
	latest := evalWithGaps(gap("x", false))
	latest.SimilarityScore = sim(0.85)
	d := Decide(0, latest, nil)
	if d.NeedsFollowUp {
		t.Fatal("expected no follow-up when similarity >= 0.8")
	}
	if d.Reason != "similarity >= 0.8" {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}

func TestDecide_NoGapsStops(t *testing.T) {
	latest := evalWithGaps(gap("x", true))
	d := Decide(0, latest, nil)
	if d.NeedsFollowUp {
		t.Fatal("expected no follow-up when no unresolved gaps")
	}
	if d.Reason != "no gaps" {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}

func TestDecide_NilGapsStopsWithNoGapsReason(t *testing.T) {
	latest := evalWithGaps()
	latest.Gaps = nil
	// HasUnresolvedGaps is false for nil Gaps, so this takes the "no gaps"
	// path. The "no cumulative gaps" rule cannot fire through Decide: any
	// unresolved gap on latest is itself added to the cumulative list.
	d := Decide(0, latest, nil)
	if d.NeedsFollowUp {
		t.Fatal("expected no follow-up")
	}
	if d.Reason != "no gaps" {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}

func TestDecide_NeedsFollowUpWithOrderedCumulativeGaps(t *testing.T) {
	latest := evalWithGaps(gap("mutexes", false), gap("channels", false))
	prior := []*domain.Evaluation{
		evalWithGaps(gap("channels", false), gap("goroutines", false)),
	}
	d := Decide(1, latest, prior)
	if !d.NeedsFollowUp {
		t.Fatal("expected a follow-up to be needed")
	}
	if len(d.CumulativeGaps) != 3 {
		t.Fatalf("expected 3 deduped cumulative gaps, got %v", d.CumulativeGaps)
	}
	if d.CumulativeGaps[0] != "mutexes" || d.CumulativeGaps[1] != "channels" || d.CumulativeGaps[2] != "goroutines" {
		t.Errorf("expected first-seen order preserved, got %v", d.CumulativeGaps)
	}
	if !strings.HasPrefix(d.Reason, "3 missing concepts: ") {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}

func TestDecide_ResolvedGapsExcludedFromAccumulation(t *testing.T) {
	latest := evalWithGaps(gap("x", true))
	prior := []*domain.Evaluation{evalWithGaps(gap("y", true))}
	d := Decide(0, latest, prior)
	if d.NeedsFollowUp {
		t.Fatal("resolved gaps must not trigger a follow-up")
	}
	if d.Reason != "no gaps" {
		t.Errorf("unexpected reason: %q", d.Reason)
	}
}
