package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"interviewengine/internal/auth"
	"interviewengine/internal/config"
	"interviewengine/internal/domain"
	"interviewengine/internal/evaluator"
	"interviewengine/internal/mockproviders"
	"interviewengine/internal/orchestrator"
	"interviewengine/internal/summarizer"
)

func TestHealthHandler_ReportsOK(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.JWTSecret = "secret"
	r := SetupRouter(cfg, nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status=ok, got %v", body["status"])
	}
}

func TestWSInterviewHandler_StreamsFirstQuestion(t *testing.T) {
	store := mockproviders.NewMockStore()
	llm := mockproviders.NewMockLLM()
	embedder := mockproviders.NewMockEmbedder()

	interview := &domain.Interview{
		ID:          "iv1",
		CandidateID: "cand1",
		Status:      domain.StatusIdle,
		QuestionIDs: []string{"q1"},
	}
	question := &domain.Question{ID: "q1", Text: "explain channels", Type: domain.QuestionTechnical, Difficulty: domain.DifficultyEasy, IdealAnswer: "an ideal answer"}
	ctx := context.Background()
	if err := store.Interviews.Save(ctx, interview); err != nil {
		t.Fatalf("seed interview: %v", err)
	}
	if err := store.Questions.Save(ctx, question); err != nil {
		t.Fatalf("seed question: %v", err)
	}

	orch := orchestrator.New(&orchestrator.Deps{
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
	})

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Server.JWTSecret = "test-secret"

	token, err := auth.GenerateJWT(cfg.Server.JWTSecret, "cand1", time.Hour)
	if err != nil {
		t.Fatalf("generate jwt: %v", err)
	}
	if err := auth.SetSession(rdb, "cand1", token, time.Hour); err != nil {
		t.Fatalf("set session: %v", err)
	}

	router := SetupRouter(cfg, rdb, nil, orch)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/interviews/iv1/ws"
	u, err := url.Parse(wsURL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	header := http.Header{"Authorization": []string{"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("expected an outbound question message: %v", err)
	}
	if msg["type"] != "question" {
		t.Errorf("expected first message type=question, got %v", msg)
	}
}
