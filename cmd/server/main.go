package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"interviewengine/internal/api"
	"interviewengine/internal/cache"
	"interviewengine/internal/config"
	"interviewengine/internal/db"
	"interviewengine/internal/embedding"
	"interviewengine/internal/evaluator"
	"interviewengine/internal/llm"
	"interviewengine/internal/mockproviders"
	"interviewengine/internal/orchestrator"
	"interviewengine/internal/ports"
	redisdb "interviewengine/internal/redis"
	"interviewengine/internal/speech"
	"interviewengine/internal/storage"
	"interviewengine/internal/summarizer"
	"interviewengine/internal/tools"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	store := storage.New(db.DB)

	rdb := redisdb.NewClient(cfg)
	c2 := cache.New(rdb)

	llmProvider, embedder, transcriber, synthesizer := buildProviders(cfg)

	eval := evaluator.New(llmProvider, embedder)
	summ := summarizer.New(store.Interviews, store.Answers, store.Evaluations, store.FollowUps, store.Questions, llmProvider)

	orch := orchestrator.New(&orchestrator.Deps{
		InterviewRepo:  store.Interviews,
		QuestionRepo:   store.Questions,
		FollowUpRepo:   store.FollowUps,
		AnswerRepo:     store.Answers,
		EvaluationRepo: store.Evaluations,
		CVRepo:         store.CVAnalyses,
		LLM:            llmProvider,
		TTS:            synthesizer,
		STT:            transcriber,
		Evaluator:      eval,
		Summarizer:     summ,
	})

	router := api.SetupRouter(cfg, rdb, c2, orch)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// buildProviders wires the real HTTP-backed adapters behind
// internal/tools.CircuitBreaker, or the deterministic mocks from
// internal/mockproviders when cfg.UseMockProviders is set for local and
// offline runs, mirroring the original system's mock-adapter-behind-a-
// flag design (spec §9).
func buildProviders(cfg *config.Config) (ports.LLMProvider, ports.EmbeddingAndSimilarity, ports.SpeechToText, ports.TextToSpeech) {
	if cfg.UseMockProviders {
		return mockproviders.NewMockLLM(), mockproviders.NewMockEmbedder(), mockproviders.NewMockTranscriber(), mockproviders.NewMockSynthesizer()
	}

	cb := tools.NewCircuitBreaker(cfg.CircuitBreaker.FailureThreshold, time.Duration(cfg.CircuitBreaker.OpenSeconds)*time.Second)

	llmConfig := &llm.Config{
		MaxConcurrent:       cfg.LLMQueue.MaxConcurrent,
		CriticalQueueSize:   cfg.LLMQueue.CriticalQueueSize,
		BackgroundQueueSize: cfg.LLMQueue.BackgroundQueueSize,
		CriticalTimeout:     time.Duration(cfg.LLMQueue.CriticalTimeoutSeconds) * time.Second,
		BackgroundTimeout:   time.Duration(cfg.LLMQueue.BackgroundTimeoutSeconds) * time.Second,
	}
	llmManager := llm.NewManager(llmConfig, cb)
	llmClient := llm.NewClient(llmManager, llm.PriorityCritical, llmConfig.CriticalTimeout)

	var primaryURL, primaryModel string
	if len(cfg.LLMs) > 0 {
		primaryURL, primaryModel = cfg.LLMs[0].URL, cfg.LLMs[0].Name
	}
	llmProvider := llm.NewHTTPProvider(llmClient, primaryURL, primaryModel)

	httpEmbedder := embedding.NewHTTPEmbedder(cfg.Embedding.URL, "")
	index, err := embedding.NewQuestionIndex(cfg.Embedding.Qdrant.URL, cfg.Embedding.Qdrant.Collection, cfg.Embedding.Qdrant.APIKey)
	if err != nil {
		log.Printf("[Server] Qdrant exemplar index unavailable, proceeding with zero exemplars: %v", err)
		index = nil
	}
	embedder := embedding.NewProvider(httpEmbedder, index)

	transcriber := speech.NewHTTPTranscriber(cfg.Speech.TranscribeURL)
	synthesizer := speech.NewHTTPSynthesizer(cfg.Speech.SynthesizeURL)

	return llmProvider, embedder, transcriber, synthesizer
}
