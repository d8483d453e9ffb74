// Package ports declares the interfaces the adaptive interview core
// consumes from its external collaborators: a language model, an
// embedding/similarity service, speech-to-text, text-to-speech, and
// persistence for every entity. Concrete adapters live in internal/llm,
// internal/embedding, internal/speech, internal/storage, and
// internal/mockproviders.
package ports

import (
	"context"

	"interviewengine/internal/domain"
)

// GenerationContext carries candidate/CV context into question and
// answer generation calls.
type GenerationContext struct {
	CVSummary  string
	Skills     []string
	Experience *float64
}

// RawEvaluation is the unprocessed scoring output of the LLM, before
// similarity, gap detection, and attempt-penalty are applied.
type RawEvaluation struct {
	Score                  float64
	Completeness           float64
	Relevance              float64
	Sentiment              string
	Strengths              []string
	Weaknesses             []string
	ImprovementSuggestions []string
	Reasoning              string
}

// GapDetectionResult is the LLM's confirmation of candidate concept gaps.
type GapDetectionResult struct {
	Concepts  []string
	Confirmed bool
	Severity  domain.GapSeverity
}

// RecommendationContext carries per-answer summaries into the closing
// recommendations call.
type RecommendationContext struct {
	InterviewID    string
	TotalAnswers   int
	GapProgression domain.GapProgression
	PerAnswer      []RecommendationAnswerContext
}

// RecommendationAnswerContext is one answer's contribution to the
// recommendations context.
type RecommendationAnswerContext struct {
	Score      float64
	Strengths  []string
	Weaknesses []string
}

// LLMProvider is the language-model capability port. Concrete
// implementations may be HTTP-backed (internal/llm) or in-memory mocks
// (internal/mockproviders) — they are first-class peers of each other.
type LLMProvider interface {
	GenerateQuestion(ctx context.Context, genCtx GenerationContext, skill string, difficulty domain.Difficulty, exemplars []string) (string, error)
	GenerateIdealAnswer(ctx context.Context, questionText string, genCtx GenerationContext) (string, error)
	GenerateRationale(ctx context.Context, questionText, idealAnswer string) (string, error)
	EvaluateAnswer(ctx context.Context, question *domain.Question, answerText string, genCtx GenerationContext) (RawEvaluation, error)
	DetectConceptGaps(ctx context.Context, answer, ideal string, question *domain.Question, candidateKeywords []string) (GapDetectionResult, error)
	GenerateFollowUpQuestion(ctx context.Context, parentText, answerText string, missingConcepts []string, severity domain.GapSeverity, order int, cumulativeGaps, previousFollowUps []string) (string, error)
	GenerateInterviewRecommendations(ctx context.Context, recCtx RecommendationContext) (domain.Recommendations, error)
}

// SimilarityMatch is one hit from exemplar retrieval.
type SimilarityMatch struct {
	QuestionID string
	Score      float64
	Metadata   map[string]interface{}
}

// EmbeddingAndSimilarity is the embedding/vector-similarity capability
// port. FindSimilarQuestions is optional: a failing or absent backing
// service must never hard-fail the Planner (spec §9).
type EmbeddingAndSimilarity interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	CosineSimilarity(a, b []float32) float64
	FindSimilarQuestions(ctx context.Context, queryVec []float32, topK int, skill string, difficulty domain.Difficulty, qType domain.QuestionType) ([]SimilarityMatch, error)
}

// SpeechToText produces a transcript and voice-quality metrics from a
// completed audio clip. Streaming partial transcripts are out of scope
// (spec §9 "STT integration timing").
type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, metrics domain.VoiceMetrics, durationSeconds float64, err error)
}

// TextToSpeech synthesizes opaque audio bytes for a question prompt.
type TextToSpeech interface {
	Synthesize(ctx context.Context, text string, voice string, speed float64) ([]byte, error)
}

// CandidateRepository persists Candidate entities.
type CandidateRepository interface {
	Save(ctx context.Context, c *domain.Candidate) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	Update(ctx context.Context, c *domain.Candidate) error
	Delete(ctx context.Context, id string) error
}

// CVAnalysisRepository persists CVAnalysis entities.
type CVAnalysisRepository interface {
	Save(ctx context.Context, a *domain.CVAnalysis) error
	GetByID(ctx context.Context, id string) (*domain.CVAnalysis, error)
	GetLatestByCandidateID(ctx context.Context, candidateID string) (*domain.CVAnalysis, error)
	Delete(ctx context.Context, id string) error
}

// QuestionRepository persists planned main Questions.
type QuestionRepository interface {
	Save(ctx context.Context, q *domain.Question) error
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	Update(ctx context.Context, q *domain.Question) error
	Delete(ctx context.Context, id string) error
	FindBySkillDifficultyType(ctx context.Context, skill string, difficulty domain.Difficulty, qType domain.QuestionType, limit int) ([]*domain.Question, error)
}

// FollowUpQuestionRepository persists FollowUpQuestions.
type FollowUpQuestionRepository interface {
	Save(ctx context.Context, f *domain.FollowUpQuestion) error
	GetByID(ctx context.Context, id string) (*domain.FollowUpQuestion, error)
	GetByParentQuestionID(ctx context.Context, parentQuestionID string) ([]*domain.FollowUpQuestion, error)
	CountByParentQuestionID(ctx context.Context, parentQuestionID string) (int, error)
}

// InterviewRepository persists the Interview aggregate root.
type InterviewRepository interface {
	Save(ctx context.Context, i *domain.Interview) error
	GetByID(ctx context.Context, id string) (*domain.Interview, error)
	Update(ctx context.Context, i *domain.Interview) error
	Delete(ctx context.Context, id string) error
}

// AnswerRepository persists Answers.
type AnswerRepository interface {
	Save(ctx context.Context, a *domain.Answer) error
	GetByID(ctx context.Context, id string) (*domain.Answer, error)
	GetByQuestionID(ctx context.Context, questionID string) (*domain.Answer, error)
	GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Answer, error)
}

// EvaluationRepository persists Evaluations (with their ConceptGaps).
type EvaluationRepository interface {
	Save(ctx context.Context, e *domain.Evaluation) error
	GetByID(ctx context.Context, id string) (*domain.Evaluation, error)
	GetByAnswerID(ctx context.Context, answerID string) (*domain.Evaluation, error)
	GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Evaluation, error)
	GetByQuestionID(ctx context.Context, questionID string) ([]*domain.Evaluation, error)
}
