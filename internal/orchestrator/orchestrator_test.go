package orchestrator_test

import (
	"context"
	"testing"
	"time"

	"interviewengine/internal/domain"
	"interviewengine/internal/evaluator"
	"interviewengine/internal/mockproviders"
	"interviewengine/internal/orchestrator"
	"interviewengine/internal/summarizer"
)

func newHarness(t *testing.T) (*orchestrator.Orchestrator, *mockproviders.MockStore) {
	t.Helper()
	store := mockproviders.NewMockStore()
	llm := mockproviders.NewMockLLM()
	embedder := mockproviders.NewMockEmbedder()

	deps := &orchestrator.Deps{
		InterviewRepo:  store.Interviews,
		QuestionRepo:   store.Questions,
		FollowUpRepo:   store.FollowUps,
		AnswerRepo:     store.Answers,
		EvaluationRepo: store.Evaluations,
		CVRepo:         store.CVAnalyses,
		LLM:            llm,
		TTS:            mockproviders.NewMockSynthesizer(),
		STT:            mockproviders.NewMockTranscriber(),
		Evaluator:      evaluator.New(llm, embedder),
		Summarizer:     summarizer.New(store.Interviews, store.Answers, store.Evaluations, store.FollowUps, store.Questions, llm),
	}
	return orchestrator.New(deps), store
}

func mustRead(t *testing.T, ch <-chan orchestrator.Outbound) orchestrator.Outbound {
	t.Helper()
	select {
	case out, ok := <-ch:
		if !ok {
			t.Fatal("outbox closed before expected message")
		}
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
	}
	return orchestrator.Outbound{}
}

func seedQuestion(t *testing.T, store *mockproviders.MockStore, id string, qType domain.QuestionType, idealAnswer string) {
	t.Helper()
	q := &domain.Question{
		ID:          id,
		Text:        "Explain the concept for: " + id,
		Type:        qType,
		Difficulty:  domain.DifficultyMedium,
		IdealAnswer: idealAnswer,
	}
	if err := store.Questions.Save(context.Background(), q); err != nil {
		t.Fatalf("seed question: %v", err)
	}
}

func seedInterview(t *testing.T, store *mockproviders.MockStore, id string, questionIDs []string) *domain.Interview {
	t.Helper()
	iv := &domain.Interview{
		ID:          id,
		CandidateID: "candidate-1",
		Status:      domain.StatusIdle,
		QuestionIDs: questionIDs,
	}
	if err := store.Interviews.Save(context.Background(), iv); err != nil {
		t.Fatalf("seed interview: %v", err)
	}
	return iv
}

// S4: a behavioral (unplanned) question never produces similarity or
// gaps, so the decider's "no gaps" rule always fires and the session
// advances unconditionally after a single answer.
func TestOrchestrator_UnplannedQuestionAdvancesUnconditionally(t *testing.T) {
	orch, store := newHarness(t)
	ctx := context.Background()

	seedQuestion(t, store, "q1", domain.QuestionBehavioral, "")
	seedQuestion(t, store, "q2", domain.QuestionBehavioral, "")
	seedInterview(t, store, "iv1", []string{"q1", "q2"})

	out, err := orch.StartSession(ctx, "iv1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	first := mustRead(t, out)
	if first.Type != orchestrator.OutQuestion || first.QuestionID != "q1" {
		t.Fatalf("unexpected first message: %+v", first)
	}

	if err := orch.Dispatch("iv1", orchestrator.Inbound{
		Type: orchestrator.InTextAnswer, QuestionID: "q1", AnswerText: "I led a small team through a tight deadline.",
	}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	evalMsg := mustRead(t, out)
	if evalMsg.Type != orchestrator.OutEvaluation {
		t.Fatalf("expected evaluation message, got %+v", evalMsg)
	}
	if len(evalMsg.Gaps) != 0 {
		t.Fatalf("unplanned question should carry no gaps, got %v", evalMsg.Gaps)
	}

	next := mustRead(t, out)
	if next.Type != orchestrator.OutQuestion || next.QuestionID != "q2" {
		t.Fatalf("expected advance to q2, got %+v", next)
	}

	iv, err := store.Interviews.GetByID(ctx, "iv1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(iv.AdaptiveFollowUps) != 0 {
		t.Fatalf("expected no follow-ups, got %d", len(iv.AdaptiveFollowUps))
	}
}

// S2: a weak first answer against a planned question triggers exactly
// one follow-up; answering the follow-up with the ideal answer itself
// yields similarity 1.0, stopping the follow-up loop; with a single
// planned question the interview then completes.
func TestOrchestrator_SingleFollowUpThenAdvance(t *testing.T) {
	orch, store := newHarness(t)
	ctx := context.Background()

	ideal := "Mutexes provide mutual exclusion over shared memory while channels coordinate goroutines through message passing across boundaries safely during concurrent execution scenarios."
	seedQuestion(t, store, "q1", domain.QuestionTechnical, ideal)
	seedInterview(t, store, "iv1", []string{"q1"})

	out, err := orch.StartSession(ctx, "iv1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	mustRead(t, out) // question

	if err := orch.Dispatch("iv1", orchestrator.Inbound{
		Type: orchestrator.InTextAnswer, QuestionID: "q1", AnswerText: "not sure",
	}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	mustRead(t, out) // evaluation

	followUp := mustRead(t, out)
	if followUp.Type != orchestrator.OutFollowUpQuestion {
		t.Fatalf("expected a follow-up question, got %+v", followUp)
	}

	iv, err := store.Interviews.GetByID(ctx, "iv1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(iv.AdaptiveFollowUps) != 1 {
		t.Fatalf("expected exactly one follow-up, got %d", len(iv.AdaptiveFollowUps))
	}

	if err := orch.Dispatch("iv1", orchestrator.Inbound{
		Type: orchestrator.InTextAnswer, QuestionID: followUp.QuestionID, AnswerText: ideal,
	}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	evalMsg := mustRead(t, out)
	if evalMsg.SimilarityScore == nil || *evalMsg.SimilarityScore < 0.8 {
		t.Fatalf("expected high similarity on exact-match answer, got %+v", evalMsg.SimilarityScore)
	}

	complete := mustRead(t, out)
	if complete.Type != orchestrator.OutInterviewComplete {
		t.Fatalf("expected interview_complete, got %+v", complete)
	}

	iv, err = store.Interviews.GetByID(ctx, "iv1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(iv.AdaptiveFollowUps) != 1 {
		t.Fatalf("follow-up count should still be 1, got %d", len(iv.AdaptiveFollowUps))
	}
	if iv.Status != domain.StatusComplete {
		t.Fatalf("expected COMPLETE, got %s", iv.Status)
	}
}

// S3: repeatedly weak answers exhaust the maximum of three follow-ups,
// after which the decider's "max follow-ups reached" rule forces
// completion regardless of remaining gaps.
func TestOrchestrator_MaxFollowUpsExhausted(t *testing.T) {
	orch, store := newHarness(t)
	ctx := context.Background()

	ideal := "Mutexes provide mutual exclusion over shared memory while channels coordinate goroutines through message passing across boundaries safely during concurrent execution scenarios."
	seedQuestion(t, store, "q1", domain.QuestionTechnical, ideal)
	seedInterview(t, store, "iv1", []string{"q1"})

	out, err := orch.StartSession(ctx, "iv1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	mustRead(t, out) // initial question

	currentQuestionID := "q1"
	for i := 0; i < 4; i++ {
		if err := orch.Dispatch("iv1", orchestrator.Inbound{
			Type: orchestrator.InTextAnswer, QuestionID: currentQuestionID, AnswerText: "nope",
		}); err != nil {
			t.Fatalf("Dispatch #%d: %v", i, err)
		}
		mustRead(t, out) // evaluation

		next := mustRead(t, out)
		switch next.Type {
		case orchestrator.OutFollowUpQuestion:
			currentQuestionID = next.QuestionID
		case orchestrator.OutInterviewComplete:
			i = 4 // exit loop after this iteration
		default:
			t.Fatalf("unexpected message after answer #%d: %+v", i, next)
		}
	}

	iv, err := store.Interviews.GetByID(ctx, "iv1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(iv.AdaptiveFollowUps) != 3 {
		t.Fatalf("expected exactly 3 follow-ups, got %d", len(iv.AdaptiveFollowUps))
	}
	if iv.Status != domain.StatusComplete {
		t.Fatalf("expected COMPLETE, got %s", iv.Status)
	}
}

// S5: an answer submitted against an interview with no active session
// (still IDLE) is rejected at dispatch and never reaches the state
// machine, so interview state is untouched.
func TestOrchestrator_DispatchWithoutActiveSessionRejected(t *testing.T) {
	orch, store := newHarness(t)
	ctx := context.Background()

	seedQuestion(t, store, "q1", domain.QuestionTechnical, "some ideal answer")
	seedInterview(t, store, "iv1", []string{"q1"})

	err := orch.Dispatch("iv1", orchestrator.Inbound{Type: orchestrator.InTextAnswer, QuestionID: "q1", AnswerText: "x"})
	if err == nil {
		t.Fatal("expected error dispatching to a session that was never started")
	}

	iv, getErr := store.Interviews.GetByID(ctx, "iv1")
	if getErr != nil {
		t.Fatalf("GetByID: %v", getErr)
	}
	if iv.Status != domain.StatusIdle {
		t.Fatalf("expected interview to remain IDLE, got %s", iv.Status)
	}
}

// A cancel request moves an active session straight to CANCELLED and
// the session goroutine exits, closing its outbox.
func TestOrchestrator_CancelTerminatesSession(t *testing.T) {
	orch, store := newHarness(t)
	ctx := context.Background()

	seedQuestion(t, store, "q1", domain.QuestionBehavioral, "")
	seedInterview(t, store, "iv1", []string{"q1"})

	out, err := orch.StartSession(ctx, "iv1")
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	mustRead(t, out) // initial question

	if err := orch.Cancel("iv1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected no further outbound messages after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbox to close after cancel")
	}

	iv, getErr := store.Interviews.GetByID(ctx, "iv1")
	if getErr != nil {
		t.Fatalf("GetByID: %v", getErr)
	}
	if iv.Status != domain.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", iv.Status)
	}

	if _, err := orch.StartSession(ctx, "iv1"); err == nil {
		t.Fatal("expected starting a session on a cancelled interview to fail")
	}
}
