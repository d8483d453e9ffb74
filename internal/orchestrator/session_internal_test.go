package orchestrator

import (
	"context"
	"testing"
	"time"

	"interviewengine/internal/domain"
	"interviewengine/internal/evaluator"
	"interviewengine/internal/mockproviders"
	"interviewengine/internal/summarizer"
)

func newTestSession(t *testing.T, status domain.InterviewStatus) (*Session, *mockproviders.MockStore) {
	t.Helper()
	store := mockproviders.NewMockStore()
	llm := mockproviders.NewMockLLM()
	embedder := mockproviders.NewMockEmbedder()

	iv := &domain.Interview{
		ID:          "iv1",
		CandidateID: "cand1",
		Status:      status,
		QuestionIDs: []string{"q1"},
	}
	q := &domain.Question{ID: "q1", Text: "explain x", Type: domain.QuestionBehavioral}
	ctx := context.Background()
	if err := store.Interviews.Save(ctx, iv); err != nil {
		t.Fatalf("save interview: %v", err)
	}
	if err := store.Questions.Save(ctx, q); err != nil {
		t.Fatalf("save question: %v", err)
	}

	deps := &Deps{
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

	s := newSession(iv, nil, deps, nil)
	s.parentQuestionID = "q1"
	s.currentQuestionID = "q1"
	return s, store
}

func drainOne(t *testing.T, s *Session) Outbound {
	t.Helper()
	select {
	case out := <-s.outbox:
		return out
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound message")
	}
	return Outbound{}
}

// A text answer arriving while the interview is IDLE (no question in
// flight yet) is rejected without any state mutation.
func TestHandleTextAnswer_RejectsWrongState(t *testing.T) {
	s, _ := newTestSession(t, domain.StatusIdle)
	ctx := context.Background()

	s.handleTextAnswer(ctx, Inbound{Type: InTextAnswer, QuestionID: "q1", AnswerText: "hi"})

	out := drainOne(t, s)
	if out.Type != OutError || out.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition error, got %+v", out)
	}
	if s.interview.Status != domain.StatusIdle {
		t.Fatalf("expected status to remain IDLE, got %s", s.interview.Status)
	}
}

// An answer whose question_id does not match the active question is
// rejected as invalid input.
func TestProcessAnswer_RejectsMismatchedQuestionID(t *testing.T) {
	s, _ := newTestSession(t, domain.StatusQuestioning)
	ctx := context.Background()

	s.handleTextAnswer(ctx, Inbound{Type: InTextAnswer, QuestionID: "not-the-active-question", AnswerText: "hi"})

	out := drainOne(t, s)
	if out.Type != OutError || out.Code != "invalid_input" {
		t.Fatalf("expected invalid_input error, got %+v", out)
	}
	if s.interview.Status != domain.StatusQuestioning {
		t.Fatalf("expected status to remain QUESTIONING, got %s", s.interview.Status)
	}
}
