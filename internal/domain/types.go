// Package domain holds the entities and enums of the adaptive interview
// core: Candidate, CVAnalysis, Question, FollowUpQuestion, Interview,
// Answer, Evaluation and ConceptGap, plus their value enums.
package domain

import "time"

// QuestionType classifies a planned question.
type QuestionType string

const (
	QuestionTechnical   QuestionType = "TECHNICAL"
	QuestionBehavioral  QuestionType = "BEHAVIORAL"
	QuestionSituational QuestionType = "SITUATIONAL"
)

// Difficulty tags a planned question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// InterviewStatus is the Session Orchestrator's state machine state.
type InterviewStatus string

const (
	StatusPlanning   InterviewStatus = "PLANNING"
	StatusIdle       InterviewStatus = "IDLE"
	StatusQuestioning InterviewStatus = "QUESTIONING"
	StatusEvaluating InterviewStatus = "EVALUATING"
	StatusFollowUp   InterviewStatus = "FOLLOW_UP"
	StatusComplete   InterviewStatus = "COMPLETE"
	StatusCancelled  InterviewStatus = "CANCELLED"
)

// GapSeverity classifies a ConceptGap.
type GapSeverity string

const (
	GapMinor    GapSeverity = "minor"
	GapModerate GapSeverity = "moderate"
	GapMajor    GapSeverity = "major"
)

// Candidate is the person being interviewed.
type Candidate struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	DisplayName    string `gorm:"size:128;not null"`
	ContactEmail   string `gorm:"size:256;uniqueIndex;not null"`
	CVArtifactID   string `gorm:"type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SkillEntry is one extracted skill inside a CVAnalysis.
type SkillEntry struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
	Years       *float64 `json:"years,omitempty"`
}

// CVAnalysis is a precomputed profile of a candidate, used for planning.
type CVAnalysis struct {
	ID                 string       `gorm:"type:uuid;primaryKey"`
	CandidateID        string       `gorm:"type:uuid;index;not null"`
	ExtractedText      string       `gorm:"type:text"`
	Skills             []SkillEntry `gorm:"serializer:json"`
	ExperienceYears    *float64
	EducationLevel     string `gorm:"size:64"`
	SuggestedTopics    []string `gorm:"serializer:json"`
	SuggestedDifficulty Difficulty `gorm:"size:16"`
	Summary            string     `gorm:"type:text"`
	Embedding          []float32  `gorm:"serializer:json"`
	CreatedAt          time.Time
}

// Question is a planned main question, produced by the Planner.
// It is "planned" iff IdealAnswer is non-empty.
type Question struct {
	ID          string       `gorm:"type:uuid;primaryKey"`
	Text        string       `gorm:"type:text;not null"`
	Type        QuestionType `gorm:"size:16;not null"`
	Difficulty  Difficulty   `gorm:"size:16;not null"`
	Skills      []string     `gorm:"serializer:json"`
	Tags        []string     `gorm:"serializer:json"`
	IdealAnswer string       `gorm:"type:text"`
	Rationale   string       `gorm:"type:text"`
	Version     int          `gorm:"not null;default:1"`
	Embedding   []float32    `gorm:"serializer:json"`
	CreatedAt   time.Time
}

// IsPlanned reports whether this question carries a reference answer.
func (q *Question) IsPlanned() bool {
	return q.IdealAnswer != ""
}

// FollowUpQuestion probes a gap in the preceding answer to a main question.
type FollowUpQuestion struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	ParentQuestionID string `gorm:"type:uuid;index;not null"`
	InterviewID      string `gorm:"type:uuid;index;not null"`
	Text             string `gorm:"type:text;not null"`
	GeneratedReason  string `gorm:"type:text"`
	OrderInSequence  int    `gorm:"not null"` // 1, 2 or 3
	CreatedAt        time.Time
}

// PlanMetadata records how an Interview was planned and, once complete,
// its cached completion summary.
type PlanMetadata struct {
	N                 int                `json:"n"`
	GeneratedAt       time.Time          `json:"generated_at"`
	Strategy          string             `json:"strategy"`
	CVSummary         string             `json:"cv_summary"`
	CompletionSummary *DetailedFeedback  `json:"completion_summary,omitempty"`
}

// Interview is the aggregate root driven by the Session Orchestrator.
type Interview struct {
	ID                     string          `gorm:"type:uuid;primaryKey"`
	CandidateID            string          `gorm:"type:uuid;index;not null"`
	CVAnalysisID           string          `gorm:"type:uuid"`
	Status                 InterviewStatus `gorm:"size:16;not null"`
	QuestionIDs            []string        `gorm:"serializer:json"`
	AnswerIDs              []string        `gorm:"serializer:json"`
	CurrentQuestionIndex   int             `gorm:"not null;default:0"`
	AdaptiveFollowUps      []string        `gorm:"serializer:json"`
	CurrentParentQuestionID string         `gorm:"type:uuid"`
	CurrentFollowUpCount   int             `gorm:"not null;default:0"`
	PlanMetadata           PlanMetadata    `gorm:"serializer:json"`
	StartedAt              *time.Time
	CompletedAt            *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// VoiceMetrics carries speech-quality signals produced by transcription.
type VoiceMetrics struct {
	Intonation      float64 `json:"intonation"`
	Fluency         float64 `json:"fluency"`
	Confidence      float64 `json:"confidence"`
	SpeakingRateWPM float64 `json:"speaking_rate_wpm"`
	OverallScore    float64 `json:"overall_score"`
}

// Answer is one candidate response to a main or follow-up question.
type Answer struct {
	ID          string        `gorm:"type:uuid;primaryKey"`
	InterviewID string        `gorm:"type:uuid;index;not null"`
	QuestionID  string        `gorm:"type:uuid;index;not null"`
	CandidateID string        `gorm:"type:uuid;not null"`
	Text        string        `gorm:"type:text"`
	IsVoice     bool          `gorm:"not null;default:false"`
	AudioRef    string        `gorm:"size:256"`
	DurationSec *float64
	VoiceMetrics *VoiceMetrics `gorm:"serializer:json"`
	CreatedAt   time.Time
	EvaluatedAt *time.Time
}

// ConceptGap is a concept present in the ideal answer but missing from an
// answer under evaluation. Resolved is forward-only: once true, it is
// never flipped back (see Evaluation.apply/resolve helpers).
type ConceptGap struct {
	ID           string      `gorm:"type:uuid;primaryKey"`
	EvaluationID string      `gorm:"type:uuid;index;not null"`
	Concept      string      `gorm:"size:256;not null"`
	Severity     GapSeverity `gorm:"size:16;not null"`
	Resolved     bool        `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

// Evaluation is the 1:1 scoring record for an Answer.
type Evaluation struct {
	ID                    string       `gorm:"type:uuid;primaryKey"`
	AnswerID              string       `gorm:"type:uuid;uniqueIndex;not null"`
	QuestionID            string       `gorm:"type:uuid;index;not null"`
	InterviewID           string       `gorm:"type:uuid;index;not null"`
	RawScore              float64      `gorm:"not null"`
	Penalty               float64      `gorm:"not null;default:0"`
	FinalScore            float64      `gorm:"not null"`
	SimilarityScore       *float64
	Completeness          float64
	Relevance             float64
	Sentiment             string `gorm:"size:32"`
	Reasoning             string `gorm:"type:text"`
	Strengths             []string `gorm:"serializer:json"`
	Weaknesses            []string `gorm:"serializer:json"`
	ImprovementSuggestions []string `gorm:"serializer:json"`
	AttemptNumber         int    `gorm:"not null;default:1"`
	ParentEvaluationID    string `gorm:"type:uuid"`
	Gaps                  []ConceptGap `gorm:"foreignKey:EvaluationID"`
	CreatedAt             time.Time
	EvaluatedAt           *time.Time
}

// ApplyPenalty sets Penalty and FinalScore from attempt_number per the
// fixed 0/-5/-15 progression and clamps FinalScore to [0,100].
func (e *Evaluation) ApplyPenalty(attemptNumber int) {
	switch attemptNumber {
	case 1:
		e.Penalty = 0
	case 2:
		e.Penalty = -5
	case 3:
		e.Penalty = -15
	default:
		panic("invalid attempt_number: must be 1, 2 or 3")
	}
	e.AttemptNumber = attemptNumber
	final := e.RawScore + e.Penalty
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}
	e.FinalScore = final
}

// HasUnresolvedGaps reports whether any gap is still unresolved.
func (e *Evaluation) HasUnresolvedGaps() bool {
	for _, g := range e.Gaps {
		if !g.Resolved {
			return true
		}
	}
	return false
}

// ResolveGaps marks every gap resolved. Forward-only: never un-resolves.
func (e *Evaluation) ResolveGaps() {
	for i := range e.Gaps {
		e.Gaps[i].Resolved = true
	}
}

// IsPassing reports whether FinalScore is at least threshold.
func (e *Evaluation) IsPassing(threshold float64) bool {
	return e.FinalScore >= threshold
}

// GapsResolvedByCriteria reports whether this evaluation's gaps should be
// considered resolved going into the next attempt: completeness >= 0.8,
// OR final_score >= 80, OR this was the third (last) attempt.
func (e *Evaluation) GapsResolvedByCriteria() bool {
	return e.Completeness >= 0.8 || e.FinalScore >= 80 || e.AttemptNumber == 3
}

// IsAdaptiveComplete reports whether this evaluation alone satisfies the
// Follow-up Decider's completion criteria: similarity >= 0.8, or no
// unresolved gaps.
func (e *Evaluation) IsAdaptiveComplete() bool {
	if e.SimilarityScore != nil && *e.SimilarityScore >= 0.8 {
		return true
	}
	return !e.HasUnresolvedGaps()
}

// QuestionGroup is one main question's per-question breakdown, produced
// by the Summarizer.
type QuestionGroup struct {
	QuestionID      string   `json:"question_id"`
	QuestionText    string   `json:"question_text"`
	MainAnswerScore float64  `json:"main_answer_score"`
	FollowUpCount   int      `json:"follow_up_count"`
	InitialGaps     []string `json:"initial_gaps"`
	FinalGaps       []string `json:"final_gaps"`
	Improvement     bool     `json:"improvement"`
}

// GapProgression aggregates gap-filling behavior interview-wide.
type GapProgression struct {
	QuestionsWithFollowUps  int     `json:"questions_with_followups"`
	GapsFilled              int     `json:"gaps_filled"`
	GapsRemaining           int     `json:"gaps_remaining"`
	AvgFollowUpsPerQuestion float64 `json:"avg_followups_per_question"`
}

// Recommendations is the LLM-generated closing advice for a candidate.
type Recommendations struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	StudyTopics   []string `json:"study_topics"`
	TechniqueTips []string `json:"technique_tips"`
}

// DetailedFeedback is the Summarizer's output, cached into
// Interview.PlanMetadata.CompletionSummary.
type DetailedFeedback struct {
	InterviewID     string          `json:"interview_id"`
	TheoreticalAvg  float64         `json:"theoretical_avg"`
	SpeakingAvg     float64         `json:"speaking_avg"`
	OverallScore    float64         `json:"overall_score"`
	TotalQuestions  int             `json:"total_questions"`
	QuestionGroups  []QuestionGroup `json:"question_groups"`
	GapProgression  GapProgression  `json:"gap_progression"`
	Recommendations Recommendations `json:"recommendations"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
