package orchestrator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"interviewengine/internal/domain"
	"interviewengine/internal/followup"
	"interviewengine/internal/ports"
)

// Session is the per-interview logical task described in spec §5 and §9:
// one goroutine owns all mutable state for one interview; external code
// communicates only through inbox/outbox channels, never by touching
// Session fields directly. This is the generalization of the dialogue
// package's single-goroutine worker loop to a per-interview task model.
type Session struct {
	interview *domain.Interview
	cv        *domain.CVAnalysis

	parentQuestionID  string
	currentQuestionID string
	followUpCount     int
	threadEvaluations []*domain.Evaluation
	followUpTexts     []string

	inbox   chan Inbound
	outbox  chan Outbound
	deps    *Deps
	onExit  func()
}

func newSession(interview *domain.Interview, cv *domain.CVAnalysis, deps *Deps, onExit func()) *Session {
	return &Session{
		interview: interview,
		cv:        cv,
		inbox:     make(chan Inbound, 32),
		outbox:    make(chan Outbound, 32),
		deps:      deps,
		onExit:    onExit,
	}
}

// Send enqueues an inbound event. FIFO per session (spec §5).
func (s *Session) Send(msg Inbound) {
	s.inbox <- msg
}

// Outbox is the session's outbound message stream.
func (s *Session) Outbox() <-chan Outbound {
	return s.outbox
}

// run is the session's single goroutine: it processes exactly one
// inbound event at a time, in arrival order, until a terminal state is
// reached.
func (s *Session) run() {
	defer close(s.outbox)
	defer func() {
		if s.onExit != nil {
			s.onExit()
		}
	}()
	for msg := range s.inbox {
		s.handle(context.Background(), msg)
		if s.terminal() {
			s.drain()
			return
		}
	}
}

func (s *Session) terminal() bool {
	return s.interview.Status == domain.StatusComplete || s.interview.Status == domain.StatusCancelled
}

func (s *Session) drain() {
	for {
		select {
		case <-s.inbox:
		default:
			return
		}
	}
}

func (s *Session) handle(ctx context.Context, msg Inbound) {
	switch msg.Type {
	case inStart:
		s.handleStart(ctx)
	case InTextAnswer:
		s.handleTextAnswer(ctx, msg)
	case InAudioChunk:
		s.handleAudioAnswer(ctx, msg)
	case InGetNextQuestion:
		s.handleGetNextQuestion(ctx)
	case InCancel:
		s.handleCancel(ctx)
	default:
		s.emitError("invalid_input", fmt.Sprintf("unknown inbound message type %q", msg.Type))
	}
}

// handleStart implements the IDLE→QUESTIONING start-session protocol
// (spec §4.4). Subject existence was already validated by
// Orchestrator.StartSession before this session was even created.
func (s *Session) handleStart(ctx context.Context) {
	if !CanTransition(s.interview.Status, domain.StatusQuestioning) {
		s.emitError("invalid_transition", fmt.Sprintf("cannot start session from state %s", s.interview.Status))
		return
	}
	q, err := s.deps.QuestionRepo.GetByID(ctx, s.interview.QuestionIDs[s.interview.CurrentQuestionIndex])
	if err != nil {
		s.emitError("not_found", err.Error())
		return
	}

	s.parentQuestionID = q.ID
	s.currentQuestionID = q.ID
	s.followUpCount = 0
	s.threadEvaluations = nil
	s.followUpTexts = nil

	now := time.Now().UTC()
	s.interview.Status = domain.StatusQuestioning
	s.interview.StartedAt = &now
	if err := s.deps.InterviewRepo.Update(ctx, s.interview); err != nil {
		s.failFatal(ctx, err)
		return
	}

	audio := s.synthesizeBestEffort(ctx, q.Text)
	s.emitQuestion(q, audio)
}

func (s *Session) handleGetNextQuestion(ctx context.Context) {
	if s.interview.Status != domain.StatusQuestioning && s.interview.Status != domain.StatusFollowUp {
		s.emitError("invalid_transition", fmt.Sprintf("no active question in state %s", s.interview.Status))
		return
	}
	if s.currentQuestionID == s.parentQuestionID {
		q, err := s.deps.QuestionRepo.GetByID(ctx, s.currentQuestionID)
		if err != nil {
			s.emitError("not_found", err.Error())
			return
		}
		s.emitQuestion(q, s.synthesizeBestEffort(ctx, q.Text))
		return
	}
	fu, err := s.deps.FollowUpRepo.GetByID(ctx, s.currentQuestionID)
	if err != nil {
		s.emitError("not_found", err.Error())
		return
	}
	s.emitFollowUpQuestion(fu, s.synthesizeBestEffort(ctx, fu.Text))
}

func (s *Session) handleAudioAnswer(ctx context.Context, msg Inbound) {
	if !msg.Final {
		// Streaming partial transcripts are out of scope (spec §9); only
		// the final chunk of a clip is transcribed.
		return
	}
	if s.interview.Status != domain.StatusQuestioning && s.interview.Status != domain.StatusFollowUp {
		s.emitError("invalid_transition", fmt.Sprintf("answer rejected in state %s", s.interview.Status))
		return
	}
	text, metrics, duration, err := s.deps.STT.Transcribe(ctx, msg.AudioBytes, "en")
	if err != nil {
		s.emitError("external_provider_failure", err.Error())
		return
	}
	s.processAnswer(ctx, msg.QuestionID, text, true, &metrics, &duration)
}

func (s *Session) handleTextAnswer(ctx context.Context, msg Inbound) {
	if s.interview.Status != domain.StatusQuestioning && s.interview.Status != domain.StatusFollowUp {
		s.emitError("invalid_transition", fmt.Sprintf("answer rejected in state %s", s.interview.Status))
		return
	}
	if msg.QuestionID == "" {
		s.emitError("invalid_input", "answer missing question_id")
		return
	}
	s.processAnswer(ctx, msg.QuestionID, msg.AnswerText, false, nil, nil)
}

// processAnswer implements the answer-received protocol (spec §4.4
// steps 1-7), shared by text and voice answers.
func (s *Session) processAnswer(ctx context.Context, questionID, text string, isVoice bool, metrics *domain.VoiceMetrics, durationSec *float64) {
	if questionID != s.currentQuestionID {
		s.emitError("invalid_input", "answer does not target the active question")
		return
	}
	prevState := s.interview.Status

	// step 1: transition to EVALUATING
	if !CanTransition(prevState, domain.StatusEvaluating) {
		s.emitError("invalid_transition", fmt.Sprintf("cannot evaluate from state %s", prevState))
		return
	}
	s.interview.Status = domain.StatusEvaluating

	parentQuestion, err := s.deps.QuestionRepo.GetByID(ctx, s.parentQuestionID)
	if err != nil {
		s.interview.Status = prevState
		s.emitError("not_found", err.Error())
		return
	}

	answer := &domain.Answer{
		ID:          uuid.New().String(),
		InterviewID: s.interview.ID,
		QuestionID:  questionID,
		CandidateID: s.interview.CandidateID,
		Text:        text,
		IsVoice:     isVoice,
		DurationSec: durationSec,
		VoiceMetrics: metrics,
		CreatedAt:   time.Now().UTC(),
	}

	// step 2: persist answer, run evaluator, persist evaluation
	if err := s.deps.AnswerRepo.Save(ctx, answer); err != nil {
		s.failFatal(ctx, err)
		return
	}
	s.interview.AnswerIDs = append(s.interview.AnswerIDs, answer.ID)

	// Attempt numbers stop at 3: an answer to the third follow-up is
	// scored as attempt 3, like the answer to the second.
	attemptNumber := s.followUpCount + 1
	if attemptNumber > 3 {
		attemptNumber = 3
	}
	eval, err := s.deps.Evaluator.Evaluate(ctx, answer, parentQuestion, attemptNumber, s.generationContext())
	if err != nil {
		s.interview.Status = prevState
		s.emitError("external_provider_failure", err.Error())
		return
	}
	// Evaluation.QuestionID tracks the actually-answered question (main
	// or follow-up), matching Answer.QuestionID; parentQuestion was only
	// the reference used for similarity/gap comparison.
	eval.QuestionID = questionID
	now := time.Now().UTC()
	eval.EvaluatedAt = &now
	answer.EvaluatedAt = &now

	if err := s.deps.EvaluationRepo.Save(ctx, eval); err != nil {
		s.failFatal(ctx, err)
		return
	}

	// step 3: emit evaluation message
	s.emitEvaluation(eval)

	// step 4: decide follow-up
	prior := s.threadEvaluations
	decision := followup.Decide(s.followUpCount, eval, prior)
	s.threadEvaluations = append(s.threadEvaluations, eval)

	if decision.NeedsFollowUp {
		s.generateFollowUp(ctx, parentQuestion, answer, eval, decision)
		return
	}

	if s.interview.CurrentQuestionIndex+1 < len(s.interview.QuestionIDs) {
		s.advanceToNextQuestion(ctx)
		return
	}

	s.completeInterview(ctx)
}

// generateFollowUp implements step 5 of the answer-received protocol.
func (s *Session) generateFollowUp(ctx context.Context, parentQuestion *domain.Question, answer *domain.Answer, eval *domain.Evaluation, decision followup.Decision) {
	severity := domain.GapModerate
	if len(eval.Gaps) > 0 {
		severity = eval.Gaps[0].Severity
	}

	text, err := s.deps.LLM.GenerateFollowUpQuestion(ctx, parentQuestion.Text, answer.Text, decision.CumulativeGaps, severity, s.followUpCount+1, decision.CumulativeGaps, s.followUpTexts)
	if err != nil {
		// Restore the pre-EVALUATING state so the same answer can be resent.
		if s.followUpCount > 0 {
			s.interview.Status = domain.StatusFollowUp
		} else {
			s.interview.Status = domain.StatusQuestioning
		}
		s.emitError("external_provider_failure", err.Error())
		return
	}

	fu := &domain.FollowUpQuestion{
		ID:               uuid.New().String(),
		ParentQuestionID: s.parentQuestionID,
		InterviewID:      s.interview.ID,
		Text:             text,
		GeneratedReason:  decision.Reason,
		OrderInSequence:  s.followUpCount + 1,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.deps.FollowUpRepo.Save(ctx, fu); err != nil {
		s.failFatal(ctx, err)
		return
	}

	s.interview.AdaptiveFollowUps = append(s.interview.AdaptiveFollowUps, fu.ID)
	s.currentQuestionID = fu.ID
	s.interview.CurrentParentQuestionID = s.parentQuestionID
	s.followUpCount++
	s.interview.CurrentFollowUpCount = s.followUpCount
	s.followUpTexts = append(s.followUpTexts, text)

	audio := s.synthesizeBestEffort(ctx, text)

	s.interview.Status = domain.StatusFollowUp
	if err := s.deps.InterviewRepo.Update(ctx, s.interview); err != nil {
		s.failFatal(ctx, err)
		return
	}
	s.emitFollowUpQuestion(fu, audio)
}

// advanceToNextQuestion implements step 6 of the answer-received protocol.
func (s *Session) advanceToNextQuestion(ctx context.Context) {
	s.interview.CurrentQuestionIndex++
	nextQ, err := s.deps.QuestionRepo.GetByID(ctx, s.interview.QuestionIDs[s.interview.CurrentQuestionIndex])
	if err != nil {
		s.failFatal(ctx, err)
		return
	}

	s.parentQuestionID = nextQ.ID
	s.currentQuestionID = nextQ.ID
	s.followUpCount = 0
	s.threadEvaluations = nil
	s.followUpTexts = nil
	s.interview.CurrentParentQuestionID = ""
	s.interview.CurrentFollowUpCount = 0

	audio := s.synthesizeBestEffort(ctx, nextQ.Text)

	s.interview.Status = domain.StatusQuestioning
	if err := s.deps.InterviewRepo.Update(ctx, s.interview); err != nil {
		s.failFatal(ctx, err)
		return
	}
	s.emitQuestion(nextQ, audio)
}

// completeInterview implements step 7 of the answer-received protocol.
func (s *Session) completeInterview(ctx context.Context) {
	s.interview.Status = domain.StatusComplete
	now := time.Now().UTC()
	s.interview.CompletedAt = &now
	s.interview.CurrentQuestionIndex = len(s.interview.QuestionIDs)

	summary, err := s.deps.Summarizer.Summarize(ctx, s.interview.ID)
	if err != nil {
		s.failFatal(ctx, err)
		return
	}
	s.interview.PlanMetadata.CompletionSummary = summary

	if err := s.deps.InterviewRepo.Update(ctx, s.interview); err != nil {
		s.failFatal(ctx, err)
		return
	}

	s.send(Outbound{
		Type:           OutInterviewComplete,
		InterviewID:    s.interview.ID,
		OverallScore:   summary.OverallScore,
		TotalQuestions: summary.TotalQuestions,
		FeedbackURL:    fmt.Sprintf("/interviews/%s/summary", s.interview.ID),
	})
}

func (s *Session) handleCancel(ctx context.Context) {
	if s.terminal() {
		s.emitError("invalid_transition", "interview is already terminal")
		return
	}
	s.interview.Status = domain.StatusCancelled
	if err := s.deps.InterviewRepo.Update(ctx, s.interview); err != nil {
		log.Printf("[Orchestrator] failed to persist cancellation for interview %s: %v", s.interview.ID, err)
	}
}

// failFatal treats a persistence failure as fatal for the session (spec
// §7): transition to CANCELLED and emit an error.
func (s *Session) failFatal(ctx context.Context, err error) {
	s.interview.Status = domain.StatusCancelled
	if uerr := s.deps.InterviewRepo.Update(ctx, s.interview); uerr != nil {
		log.Printf("[Orchestrator] failed to persist cancellation for interview %s after %v: %v", s.interview.ID, err, uerr)
	}
	s.emitError("persistence_failure", err.Error())
}

// synthesizeBestEffort treats TTS failure as non-fatal: audio is a
// convenience channel, never a gate on session progress. A failure is
// logged and the outbound message carries no audio_payload.
func (s *Session) synthesizeBestEffort(ctx context.Context, text string) []byte {
	audio, err := s.deps.TTS.Synthesize(ctx, text, "", 1.0)
	if err != nil {
		log.Printf("[Orchestrator] TTS synthesis failed for interview %s, continuing without audio: %v", s.interview.ID, err)
		return nil
	}
	return audio
}

func (s *Session) generationContext() ports.GenerationContext {
	if s.cv == nil {
		return ports.GenerationContext{Skills: []string{"general"}}
	}
	skills := make([]string, len(s.cv.Skills))
	for i, sk := range s.cv.Skills {
		skills[i] = sk.Name
	}
	return ports.GenerationContext{
		CVSummary:  s.cv.Summary,
		Skills:     skills,
		Experience: s.cv.ExperienceYears,
	}
}

func (s *Session) send(o Outbound) {
	s.outbox <- o
}

func (s *Session) emitError(code, message string) {
	s.send(Outbound{Type: OutError, Code: code, Message: message})
}

func (s *Session) emitQuestion(q *domain.Question, audio []byte) {
	s.send(Outbound{
		Type:         OutQuestion,
		QuestionID:   q.ID,
		Text:         q.Text,
		QuestionType: q.Type,
		Difficulty:   q.Difficulty,
		Index:        s.interview.CurrentQuestionIndex,
		Total:        len(s.interview.QuestionIDs),
		AudioPayload: encodeAudio(audio),
	})
}

func (s *Session) emitFollowUpQuestion(fu *domain.FollowUpQuestion, audio []byte) {
	s.send(Outbound{
		Type:             OutFollowUpQuestion,
		QuestionID:       fu.ID,
		ParentQuestionID: fu.ParentQuestionID,
		Text:             fu.Text,
		GeneratedReason:  fu.GeneratedReason,
		OrderInSequence:  fu.OrderInSequence,
		AudioPayload:     encodeAudio(audio),
	})
}

func (s *Session) emitEvaluation(eval *domain.Evaluation) {
	gaps := make([]string, 0, len(eval.Gaps))
	for _, g := range eval.Gaps {
		if !g.Resolved {
			gaps = append(gaps, g.Concept)
		}
	}
	s.send(Outbound{
		Type:            OutEvaluation,
		AnswerID:        eval.AnswerID,
		Score:           eval.FinalScore,
		Feedback:        eval.Reasoning,
		Strengths:       eval.Strengths,
		Weaknesses:      eval.Weaknesses,
		SimilarityScore: eval.SimilarityScore,
		Gaps:            gaps,
	})
}

func encodeAudio(audio []byte) string {
	if len(audio) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(audio)
}
