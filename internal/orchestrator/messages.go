package orchestrator

import "interviewengine/internal/domain"

// OutboundType enumerates wire-neutral outbound message kinds (spec §6).
type OutboundType string

const (
	OutQuestion          OutboundType = "question"
	OutFollowUpQuestion  OutboundType = "follow_up_question"
	OutEvaluation        OutboundType = "evaluation"
	OutInterviewComplete OutboundType = "interview_complete"
	OutError             OutboundType = "error"
)

// Outbound is emitted by a session on every state transition. Fields are
// populated according to Type; zero-valued fields for other types are
// omitted on JSON encoding.
type Outbound struct {
	Type OutboundType `json:"type"`

	// question / follow_up_question
	QuestionID       string              `json:"question_id,omitempty"`
	ParentQuestionID string              `json:"parent_question_id,omitempty"`
	Text             string              `json:"text,omitempty"`
	QuestionType     domain.QuestionType `json:"question_type,omitempty"`
	Difficulty       domain.Difficulty   `json:"difficulty,omitempty"`
	Index            int                 `json:"index,omitempty"`
	Total            int                 `json:"total,omitempty"`
	AudioPayload     string              `json:"audio_payload,omitempty"` // base64
	GeneratedReason  string              `json:"generated_reason,omitempty"`
	OrderInSequence  int                 `json:"order_in_sequence,omitempty"`

	// evaluation
	AnswerID        string   `json:"answer_id,omitempty"`
	Score           float64  `json:"score,omitempty"`
	Feedback        string   `json:"feedback,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
	Gaps            []string `json:"gaps,omitempty"`

	// interview_complete
	InterviewID    string  `json:"interview_id,omitempty"`
	OverallScore   float64 `json:"overall_score,omitempty"`
	TotalQuestions int     `json:"total_questions,omitempty"`
	FeedbackURL    string  `json:"feedback_url,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// InboundType enumerates wire-neutral inbound message kinds (spec §6),
// plus an explicit cancel trigger used by §4.4's "any non-terminal →
// CANCELLED" rule and an internal session-start trigger.
type InboundType string

const (
	InTextAnswer      InboundType = "text_answer"
	InAudioChunk      InboundType = "audio_chunk"
	InGetNextQuestion InboundType = "get_next_question"
	InCancel          InboundType = "cancel"
	inStart           InboundType = "start" // internal: fired once by StartSession
)

// Inbound is a candidate-originated (or transport-originated) event
// queued to a session's inbox.
type Inbound struct {
	Type       InboundType `json:"type"`
	QuestionID string      `json:"question_id,omitempty"`
	AnswerText string      `json:"answer_text,omitempty"`
	AudioBytes []byte      `json:"audio_bytes,omitempty"`
	Final      bool        `json:"final,omitempty"`
}
