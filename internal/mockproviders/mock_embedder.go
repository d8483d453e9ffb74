package mockproviders

import (
	"context"
	"hash/fnv"
	"math"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

const mockVectorSize = 32

// MockEmbedder produces deterministic pseudo-embeddings derived from a
// text hash, and exposes no exemplar store (always returns zero
// matches) — exercising the Planner's "exemplar retrieval is optional"
// path (spec §9). Grounded on the source system's mock vector-search
// adapter, adapted to be deterministic rather than random so tests are
// reproducible.
type MockEmbedder struct{}

// NewMockEmbedder builds a MockEmbedder.
func NewMockEmbedder() *MockEmbedder { return &MockEmbedder{} }

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, mockVectorSize)
	state := seed
	for i := range vec {
		state = state*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(state>>40)%1000) / 1000.0
	}
	return vec, nil
}

func (m *MockEmbedder) CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	if sim == 0 {
		sim = 0.01 // same zero-sentinel convention as the real embedder
	}
	return sim
}

// FindSimilarQuestions always returns zero exemplars: the mock carries
// no backing vector store, exercising the Planner's degrade-to-zero path.
func (m *MockEmbedder) FindSimilarQuestions(ctx context.Context, queryVec []float32, topK int, skill string, difficulty domain.Difficulty, qType domain.QuestionType) ([]ports.SimilarityMatch, error) {
	return nil, nil
}
