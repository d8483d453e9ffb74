// Package orchestrator drives one interview at a time from IDLE to
// COMPLETE, enforcing the state machine of spec §4.4 and fanning work
// out to the Evaluator, Follow-up Decider, and Summarizer.
package orchestrator

import (
	"context"
	"fmt"

	"interviewengine/internal/domain"
	"interviewengine/internal/evaluator"
	"interviewengine/internal/ports"
	"interviewengine/internal/summarizer"
)

// Deps wires every external collaborator the orchestrator needs.
type Deps struct {
	InterviewRepo ports.InterviewRepository
	QuestionRepo  ports.QuestionRepository
	FollowUpRepo  ports.FollowUpQuestionRepository
	AnswerRepo    ports.AnswerRepository
	EvaluationRepo ports.EvaluationRepository
	CVRepo        ports.CVAnalysisRepository
	LLM           ports.LLMProvider
	TTS           ports.TextToSpeech
	STT           ports.SpeechToText
	Evaluator     *evaluator.Evaluator
	Summarizer    *summarizer.Summarizer
}

// Orchestrator is the process-wide entry point: one instance serves every
// interview, dispatching to per-interview sessions via the Registry.
type Orchestrator struct {
	deps     *Deps
	registry *Registry
}

// New builds an Orchestrator.
func New(deps *Deps) *Orchestrator {
	return &Orchestrator{deps: deps, registry: NewRegistry()}
}

// StartSession implements the validate-before-mutate IDLE→QUESTIONING
// start-session protocol (spec §4.4): an orchestrator that cannot find
// its subject never leaves IDLE. On success it spawns the session's
// goroutine and returns its outbound message stream.
func (o *Orchestrator) StartSession(ctx context.Context, interviewID string) (<-chan Outbound, error) {
	interview, err := o.deps.InterviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: interview %s: %v", domain.ErrNotFound, interviewID, err)
	}
	if len(interview.QuestionIDs) == 0 {
		return nil, fmt.Errorf("%w: interview %s has no planned questions", domain.ErrInvalidInput, interviewID)
	}
	if !CanTransition(interview.Status, domain.StatusQuestioning) {
		return nil, fmt.Errorf("%w: cannot start session from state %s", domain.ErrInvalidTransition, interview.Status)
	}
	if _, active := o.registry.get(interviewID); active {
		return nil, fmt.Errorf("%w: interview %s already has an active session", domain.ErrInvalidTransition, interviewID)
	}

	var cv *domain.CVAnalysis
	if interview.CVAnalysisID != "" {
		cv, _ = o.deps.CVRepo.GetByID(ctx, interview.CVAnalysisID)
	}

	sess := newSession(interview, cv, o.deps, func() { o.registry.remove(interviewID) })
	o.registry.put(interviewID, sess)
	go sess.run()
	sess.Send(Inbound{Type: inStart})

	return sess.Outbox(), nil
}

// Dispatch routes an inbound candidate event to its interview's running
// session. Returns NotFound if no session is active for that interview.
func (o *Orchestrator) Dispatch(interviewID string, msg Inbound) error {
	sess, ok := o.registry.get(interviewID)
	if !ok {
		return fmt.Errorf("%w: no active session for interview %s", domain.ErrNotFound, interviewID)
	}
	sess.Send(msg)
	return nil
}

// Cancel transitions an active interview to CANCELLED from any
// non-terminal state (spec §4.4).
func (o *Orchestrator) Cancel(interviewID string) error {
	return o.Dispatch(interviewID, Inbound{Type: InCancel})
}
