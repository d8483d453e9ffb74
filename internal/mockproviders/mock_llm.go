// Package mockproviders implements in-memory, deterministic peers of
// every external port for local development and tests — first-class
// adapters, not stand-ins, per spec §9's "mock providers are first-class
// peers of real ones."
package mockproviders

import (
	"context"
	"fmt"
	"strings"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

// MockLLM returns deterministic, content-derived text instead of calling
// a real model. Grounded on the source system's mock LLM adapter.
type MockLLM struct{}

// NewMockLLM builds a MockLLM.
func NewMockLLM() *MockLLM { return &MockLLM{} }

func (m *MockLLM) GenerateQuestion(ctx context.Context, genCtx ports.GenerationContext, skill string, difficulty domain.Difficulty, exemplars []string) (string, error) {
	return fmt.Sprintf("Describe how you would apply %s at a %s level, drawing on your experience with %s.", skill, strings.ToLower(string(difficulty)), strings.Join(genCtx.Skills, ", ")), nil
}

func (m *MockLLM) GenerateIdealAnswer(ctx context.Context, questionText string, genCtx ports.GenerationContext) (string, error) {
	return fmt.Sprintf("A strong answer names the core mechanism, a concrete example, and a trade-off relevant to: %s", questionText), nil
}

func (m *MockLLM) GenerateRationale(ctx context.Context, questionText, idealAnswer string) (string, error) {
	return "This answer is ideal because it covers mechanism, example, and trade-offs without unnecessary detail.", nil
}

func (m *MockLLM) EvaluateAnswer(ctx context.Context, question *domain.Question, answerText string, genCtx ports.GenerationContext) (ports.RawEvaluation, error) {
	wordCount := len(strings.Fields(answerText))
	score := clampScore(float64(wordCount) * 2.5)
	return ports.RawEvaluation{
		Score:                  score,
		Completeness:           clamp01(float64(wordCount) / 60.0),
		Relevance:              0.8,
		Sentiment:              "neutral",
		Strengths:              []string{"addresses the question directly"},
		Weaknesses:             []string{"could elaborate further on trade-offs"},
		ImprovementSuggestions: []string{"add a concrete example"},
		Reasoning:              "Mock evaluation derived from answer length.",
	}, nil
}

func (m *MockLLM) DetectConceptGaps(ctx context.Context, answer, ideal string, question *domain.Question, candidateKeywords []string) (ports.GapDetectionResult, error) {
	if len(candidateKeywords) == 0 {
		return ports.GapDetectionResult{Confirmed: false}, nil
	}
	limit := len(candidateKeywords)
	if limit > 3 {
		limit = 3
	}
	return ports.GapDetectionResult{
		Concepts:  candidateKeywords[:limit],
		Confirmed: true,
		Severity:  domain.GapModerate,
	}, nil
}

func (m *MockLLM) GenerateFollowUpQuestion(ctx context.Context, parentText, answerText string, missingConcepts []string, severity domain.GapSeverity, order int, cumulativeGaps, previousFollowUps []string) (string, error) {
	return fmt.Sprintf("Can you say more about %s?", strings.Join(missingConcepts, " and ")), nil
}

func (m *MockLLM) GenerateInterviewRecommendations(ctx context.Context, recCtx ports.RecommendationContext) (domain.Recommendations, error) {
	return domain.Recommendations{
		Strengths:     []string{"Communicates clearly", "Structures answers logically", "Engages with follow-up probes"},
		Weaknesses:    []string{"Misses some edge cases", "Light on trade-off discussion"},
		StudyTopics:   []string{"Core algorithms", "System design basics", "Testing strategy"},
		TechniqueTips: []string{"State assumptions before answering", "Summarize before moving on"},
	}, nil
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
