package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

// HTTPProvider adapts a Client bound to an LLM completion endpoint into
// ports.LLMProvider. Every operation sends a single prompt and decodes a
// single JSON response shaped {"text": "...", ...optional structured
// fields}, matching the request/response idiom of the teacher's own
// embedder client (internal/memory/embedder.go) generalized to chat
// completion instead of embeddings.
type HTTPProvider struct {
	client *Client
	url    string
	model  string
}

// NewHTTPProvider builds an HTTPProvider bound to the given completion
// endpoint and model name.
func NewHTTPProvider(client *Client, url, model string) *HTTPProvider {
	return &HTTPProvider{client: client, url: url, model: model}
}

func (p *HTTPProvider) call(ctx context.Context, systemPrompt, userPrompt string, out interface{}) error {
	payload := map[string]interface{}{
		"model":  p.model,
		"system": systemPrompt,
		"prompt": userPrompt,
	}
	body, err := p.client.Call(ctx, p.url, payload)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalProvider, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrExternalProvider, err)
	}
	return nil
}

type textResponse struct {
	Text string `json:"text"`
}

func (p *HTTPProvider) GenerateQuestion(ctx context.Context, genCtx ports.GenerationContext, skill string, difficulty domain.Difficulty, exemplars []string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate one %s-difficulty interview question about %s for a candidate with skills %s.\nExemplars:\n%s",
		difficulty, skill, strings.Join(genCtx.Skills, ", "), strings.Join(exemplars, "\n"),
	)
	var resp textResponse
	if err := p.call(ctx, "You are a technical interview question generator.", prompt, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (p *HTTPProvider) GenerateIdealAnswer(ctx context.Context, questionText string, genCtx ports.GenerationContext) (string, error) {
	prompt := fmt.Sprintf("Write the ideal reference answer to this interview question:\n%s", questionText)
	var resp textResponse
	if err := p.call(ctx, "You are an expert interviewer writing reference answers.", prompt, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (p *HTTPProvider) GenerateRationale(ctx context.Context, questionText, idealAnswer string) (string, error) {
	prompt := fmt.Sprintf("Question:\n%s\n\nIdeal answer:\n%s\n\nExplain briefly why this answer is ideal.", questionText, idealAnswer)
	var resp textResponse
	if err := p.call(ctx, "You are an expert interviewer explaining answer rationale.", prompt, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

type evaluateResponse struct {
	Score                  float64  `json:"score"`
	Completeness           float64  `json:"completeness"`
	Relevance              float64  `json:"relevance"`
	Sentiment              string   `json:"sentiment"`
	Strengths              []string `json:"strengths"`
	Weaknesses             []string `json:"weaknesses"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	Reasoning              string   `json:"reasoning"`
}

func (p *HTTPProvider) EvaluateAnswer(ctx context.Context, question *domain.Question, answerText string, genCtx ports.GenerationContext) (ports.RawEvaluation, error) {
	prompt := fmt.Sprintf(
		"Question:\n%s\n\nIdeal answer:\n%s\n\nCandidate answer:\n%s\n\nScore the candidate answer 0-100 and return JSON with score, completeness (0-1), relevance (0-1), sentiment, strengths, weaknesses, improvement_suggestions, reasoning.",
		question.Text, question.IdealAnswer, answerText,
	)
	var resp evaluateResponse
	if err := p.call(ctx, "You are a rigorous technical interview evaluator.", prompt, &resp); err != nil {
		return ports.RawEvaluation{}, err
	}
	return ports.RawEvaluation{
		Score:                  resp.Score,
		Completeness:           resp.Completeness,
		Relevance:              resp.Relevance,
		Sentiment:              resp.Sentiment,
		Strengths:              resp.Strengths,
		Weaknesses:             resp.Weaknesses,
		ImprovementSuggestions: resp.ImprovementSuggestions,
		Reasoning:              resp.Reasoning,
	}, nil
}

type gapResponse struct {
	Concepts  []string `json:"concepts"`
	Confirmed bool     `json:"confirmed"`
	Severity  string   `json:"severity"`
}

func (p *HTTPProvider) DetectConceptGaps(ctx context.Context, answer, ideal string, question *domain.Question, candidateKeywords []string) (ports.GapDetectionResult, error) {
	prompt := fmt.Sprintf(
		"Ideal answer:\n%s\n\nCandidate answer:\n%s\n\nCandidate missing-keyword hints: %s\n\nConfirm which of these are genuine concept gaps and rate overall severity (minor/moderate/major). Return JSON {concepts, confirmed, severity}.",
		ideal, answer, strings.Join(candidateKeywords, ", "),
	)
	var resp gapResponse
	if err := p.call(ctx, "You detect missing technical concepts in interview answers.", prompt, &resp); err != nil {
		return ports.GapDetectionResult{}, err
	}
	severity := domain.GapSeverity(resp.Severity)
	if severity == "" {
		severity = domain.GapMinor
	}
	return ports.GapDetectionResult{Concepts: resp.Concepts, Confirmed: resp.Confirmed, Severity: severity}, nil
}

func (p *HTTPProvider) GenerateFollowUpQuestion(ctx context.Context, parentText, answerText string, missingConcepts []string, severity domain.GapSeverity, order int, cumulativeGaps, previousFollowUps []string) (string, error) {
	prompt := fmt.Sprintf(
		"Parent question:\n%s\n\nCandidate's latest answer:\n%s\n\nMissing concepts (%s severity): %s\nCumulative gaps so far: %s\nPrevious follow-ups already asked: %s\n\nWrite follow-up #%d probing the missing concepts.",
		parentText, answerText, severity, strings.Join(missingConcepts, ", "),
		strings.Join(cumulativeGaps, ", "), strings.Join(previousFollowUps, " | "), order,
	)
	var resp textResponse
	if err := p.call(ctx, "You write targeted interview follow-up questions.", prompt, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (p *HTTPProvider) GenerateInterviewRecommendations(ctx context.Context, recCtx ports.RecommendationContext) (domain.Recommendations, error) {
	b, _ := json.Marshal(recCtx)
	prompt := fmt.Sprintf("Interview summary context:\n%s\n\nReturn JSON {strengths[3-5], weaknesses[3-5], study_topics[3-7], technique_tips[2-5]}.", string(b))
	var resp domain.Recommendations
	if err := p.call(ctx, "You write closing interview feedback recommendations.", prompt, &resp); err != nil {
		return safeFallbackRecommendations(), nil
	}
	if len(resp.Strengths) == 0 && len(resp.Weaknesses) == 0 {
		return safeFallbackRecommendations(), nil
	}
	return resp, nil
}

// safeFallbackRecommendations is substituted when the LLM's response
// cannot be parsed into structured recommendations (spec §4.5).
func safeFallbackRecommendations() domain.Recommendations {
	return domain.Recommendations{
		Strengths:     []string{"Communicated answers clearly", "Engaged with follow-up questions", "Demonstrated baseline familiarity with core topics"},
		Weaknesses:    []string{"Some concepts need reinforcement", "Depth of explanation varied across questions", "Consider more concrete examples"},
		StudyTopics:   []string{"Core data structures", "System design fundamentals", "Language-specific idioms"},
		TechniqueTips: []string{"Structure answers with a brief outline before diving in", "State assumptions explicitly"},
	}
}
