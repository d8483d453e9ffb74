// Package evaluator scores one answer, computes similarity to the ideal
// answer, and detects concept gaps.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

// stopWords is the fixed set excluded from keyword-gap candidates.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "with": true,
	"this": true, "from": true, "have": true, "will": true, "would": true,
	"there": true, "their": true, "which": true, "about": true, "into": true,
	"when": true, "what": true, "where": true, "then": true, "than": true,
	"these": true, "those": true, "been": true, "were": true, "your": true,
	"also": true, "such": true, "some": true, "more": true, "most": true,
	"over": true, "other": true, "because": true, "while": true, "should": true,
}

// Evaluator scores answers against an LLM provider and embedding service.
type Evaluator struct {
	llm      ports.LLMProvider
	embedder ports.EmbeddingAndSimilarity
}

// New builds an Evaluator.
func New(llm ports.LLMProvider, embedder ports.EmbeddingAndSimilarity) *Evaluator {
	return &Evaluator{llm: llm, embedder: embedder}
}

// Evaluate implements spec §4.2.
func (e *Evaluator) Evaluate(ctx context.Context, answer *domain.Answer, question *domain.Question, attemptNumber int, genCtx ports.GenerationContext) (*domain.Evaluation, error) {
	answerText := answer.Text

	raw, err := e.llm.EvaluateAnswer(ctx, question, answerText, genCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: evaluate_answer: %v", domain.ErrExternalProvider, err)
	}
	if answerText == "" {
		raw.Score = 0
	}

	eval := &domain.Evaluation{
		ID:                     uuid.New().String(),
		AnswerID:               answer.ID,
		QuestionID:             question.ID,
		InterviewID:            answer.InterviewID,
		RawScore:               raw.Score,
		Completeness:           raw.Completeness,
		Relevance:              raw.Relevance,
		Sentiment:              raw.Sentiment,
		Reasoning:              raw.Reasoning,
		Strengths:              raw.Strengths,
		Weaknesses:             raw.Weaknesses,
		ImprovementSuggestions: raw.ImprovementSuggestions,
	}

	var candidateKeywords []string
	if question.IsPlanned() {
		sim, err := e.computeSimilarity(ctx, answerText, question.IdealAnswer)
		if err != nil {
			return nil, fmt.Errorf("%w: similarity: %v", domain.ErrExternalProvider, err)
		}
		eval.SimilarityScore = &sim

		candidateKeywords = keywordGapCandidates(question.IdealAnswer, answerText)
		gapResult, err := e.detectGaps(ctx, answerText, question, candidateKeywords)
		if err != nil {
			return nil, fmt.Errorf("%w: detect_concept_gaps: %v", domain.ErrExternalProvider, err)
		}
		for _, concept := range gapResult.Concepts {
			eval.Gaps = append(eval.Gaps, domain.ConceptGap{
				ID:           uuid.New().String(),
				EvaluationID: eval.ID,
				Concept:      concept,
				Severity:     gapResult.Severity,
				Resolved:     false,
			})
		}
	}

	eval.ApplyPenalty(attemptNumber)
	return eval, nil
}

func (e *Evaluator) computeSimilarity(ctx context.Context, answerText, idealAnswer string) (float64, error) {
	answerVec, err := e.embedder.Embed(ctx, answerText)
	if err != nil {
		return 0, err
	}
	idealVec, err := e.embedder.Embed(ctx, idealAnswer)
	if err != nil {
		return 0, err
	}
	return e.embedder.CosineSimilarity(answerVec, idealVec), nil
}

// detectGaps runs the hybrid two-stage gap detection: a keyword diff
// (already computed by the caller) confirmed by the LLM only when more
// than 3 keyword candidates exist.
func (e *Evaluator) detectGaps(ctx context.Context, answerText string, question *domain.Question, candidates []string) (ports.GapDetectionResult, error) {
	if len(candidates) <= 3 {
		return ports.GapDetectionResult{Concepts: nil, Confirmed: false}, nil
	}
	return e.llm.DetectConceptGaps(ctx, answerText, question.IdealAnswer, question, candidates)
}

// keywordGapCandidates extracts significant tokens (length > 3, not a
// stop word, punctuation stripped) present in ideal but absent from
// answer.
func keywordGapCandidates(ideal, answer string) []string {
	idealTokens := significantTokens(ideal)
	answerSet := make(map[string]bool)
	for _, tok := range significantTokens(answer) {
		answerSet[tok] = true
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, tok := range idealTokens {
		if answerSet[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		candidates = append(candidates, tok)
	}
	return candidates
}

func significantTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) > 3 && !stopWords[f] {
			out = append(out, f)
		}
	}
	return out
}
