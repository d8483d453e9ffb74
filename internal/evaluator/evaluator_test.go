package evaluator

import (
	"context"
	"testing"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

type stubLLM struct {
	raw      ports.RawEvaluation
	gapCalls int
	gaps     ports.GapDetectionResult
}

func (s *stubLLM) GenerateQuestion(ctx context.Context, genCtx ports.GenerationContext, skill string, difficulty domain.Difficulty, exemplars []string) (string, error) {
	return "", nil
}
func (s *stubLLM) GenerateIdealAnswer(ctx context.Context, questionText string, genCtx ports.GenerationContext) (string, error) {
	return "", nil
}
func (s *stubLLM) GenerateRationale(ctx context.Context, questionText, idealAnswer string) (string, error) {
	return "", nil
}
func (s *stubLLM) EvaluateAnswer(ctx context.Context, question *domain.Question, answerText string, genCtx ports.GenerationContext) (ports.RawEvaluation, error) {
	return s.raw, nil
}
func (s *stubLLM) DetectConceptGaps(ctx context.Context, answer, ideal string, question *domain.Question, candidateKeywords []string) (ports.GapDetectionResult, error) {
	s.gapCalls++
	return s.gaps, nil
}
func (s *stubLLM) GenerateFollowUpQuestion(ctx context.Context, parentText, answerText string, missingConcepts []string, severity domain.GapSeverity, order int, cumulativeGaps, previousFollowUps []string) (string, error) {
	return "", nil
}
func (s *stubLLM) GenerateInterviewRecommendations(ctx context.Context, recCtx ports.RecommendationContext) (domain.Recommendations, error) {
	return domain.Recommendations{}, nil
}

type stubEmbedder struct {
	answerVec []float32
	idealVec  []float32
	sim       float64
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "ideal" {
		return s.idealVec, nil
	}
	return s.answerVec, nil
}
func (s *stubEmbedder) CosineSimilarity(a, b []float32) float64 { return s.sim }
func (s *stubEmbedder) FindSimilarQuestions(ctx context.Context, queryVec []float32, topK int, skill string, difficulty domain.Difficulty, qType domain.QuestionType) ([]ports.SimilarityMatch, error) {
	return nil, nil
}

func plannedQuestion() *domain.Question {
	return &domain.Question{ID: "q1", Text: "q", IdealAnswer: "ideal"}
}

func TestEvaluate_PenaltyByAttemptNumber(t *testing.T) {
	cases := []struct {
		attempt int
		penalty float64
	}{
		{1, 0}, {2, -5}, {3, -15},
	}
	for _, c := range cases {
		llm := &stubLLM{raw: ports.RawEvaluation{Score: 70}}
		emb := &stubEmbedder{sim: 0.5}
		e := New(llm, emb)
		answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: "some answer text"}
		eval, err := e.Evaluate(context.Background(), answer, plannedQuestion(), c.attempt, ports.GenerationContext{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if eval.Penalty != c.penalty {
			t.Errorf("attempt %d: expected penalty %v, got %v", c.attempt, c.penalty, eval.Penalty)
		}
		if eval.FinalScore != 70+c.penalty {
			t.Errorf("attempt %d: expected final score %v, got %v", c.attempt, 70+c.penalty, eval.FinalScore)
		}
	}
}

func TestEvaluate_PenaltyPanicsOnInvalidAttempt(t *testing.T) {
	llm := &stubLLM{raw: ports.RawEvaluation{Score: 70}}
	emb := &stubEmbedder{sim: 0.5}
	e := New(llm, emb)
	answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: "x"}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for invalid attempt number")
		}
	}()
	e.Evaluate(context.Background(), answer, plannedQuestion(), 4, ports.GenerationContext{})
}

func TestEvaluate_EmptyAnswerForcesZeroScore(t *testing.T) {
	llm := &stubLLM{raw: ports.RawEvaluation{Score: 70}}
	emb := &stubEmbedder{sim: 0.5}
	e := New(llm, emb)
	answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: ""}

	eval, err := e.Evaluate(context.Background(), answer, plannedQuestion(), 1, ports.GenerationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.RawScore != 0 {
		t.Errorf("expected raw score 0 for empty answer, got %v", eval.RawScore)
	}
}

func TestEvaluate_SkipsSimilarityAndGapsForUnplannedQuestion(t *testing.T) {
	llm := &stubLLM{raw: ports.RawEvaluation{Score: 60}}
	emb := &stubEmbedder{sim: 0.9}
	e := New(llm, emb)
	answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: "answer"}
	unplanned := &domain.Question{ID: "q1", Text: "tell me about yourself"} // no IdealAnswer

	eval, err := e.Evaluate(context.Background(), answer, unplanned, 1, ports.GenerationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.SimilarityScore != nil {
		t.Errorf("expected nil similarity score for unplanned question, got %v", *eval.SimilarityScore)
	}
	if len(eval.Gaps) != 0 {
		t.Errorf("expected no gaps for unplanned question, got %v", eval.Gaps)
	}
	if llm.gapCalls != 0 {
		t.Errorf("expected no LLM gap-detection call for unplanned question")
	}
}

func TestKeywordGapCandidates_ThresholdGatesLLMCall(t *testing.T) {
	llm := &stubLLM{raw: ports.RawEvaluation{Score: 50}, gaps: ports.GapDetectionResult{Concepts: []string{"x"}}}
	emb := &stubEmbedder{sim: 0.1}
	e := New(llm, emb)

	q := &domain.Question{ID: "q1", IdealAnswer: "short answer here"}
	answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: "short answer here too, basically verbatim"}

	_, err := e.Evaluate(context.Background(), answer, q, 1, ports.GenerationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.gapCalls != 0 {
		t.Errorf("expected no LLM call when candidate count <= 3, got %d calls", llm.gapCalls)
	}
}

func TestKeywordGapCandidates_AboveThresholdCallsLLM(t *testing.T) {
	llm := &stubLLM{raw: ports.RawEvaluation{Score: 50}, gaps: ports.GapDetectionResult{Concepts: []string{"concurrency", "channels"}, Severity: domain.GapModerate}}
	emb := &stubEmbedder{sim: 0.1}
	e := New(llm, emb)

	q := &domain.Question{ID: "q1", IdealAnswer: "concurrency channels goroutines mutexes wait groups select statements buffered unbuffered"}
	answer := &domain.Answer{ID: "a1", InterviewID: "i1", Text: "i don't know much about this topic"}

	eval, err := e.Evaluate(context.Background(), answer, q, 1, ports.GenerationContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if llm.gapCalls != 1 {
		t.Errorf("expected exactly one LLM call, got %d", llm.gapCalls)
	}
	if len(eval.Gaps) != 2 {
		t.Fatalf("expected 2 gaps materialized, got %d", len(eval.Gaps))
	}
	for _, g := range eval.Gaps {
		if g.Resolved {
			t.Errorf("newly detected gap must start unresolved")
		}
		if g.EvaluationID != eval.ID {
			t.Errorf("gap must reference its parent evaluation id")
		}
	}
}

func TestSignificantTokens_FiltersStopWordsAndShortTokens(t *testing.T) {
	toks := significantTokens("The quick brown fox jumps over the lazy dog, and this is that.")
	for _, tok := range toks {
		if stopWords[tok] {
			t.Errorf("stop word %q leaked into significant tokens", tok)
		}
		if len(tok) <= 3 {
			t.Errorf("short token %q leaked into significant tokens", tok)
		}
	}
}
