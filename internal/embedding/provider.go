package embedding

import (
	"context"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

// Provider composes the HTTP embedding client and the Qdrant exemplar
// index into a single ports.EmbeddingAndSimilarity: the two externals are
// dialed separately (one plain HTTP endpoint, one Qdrant collection) but
// the core depends on them as one capability.
type Provider struct {
	*HTTPEmbedder
	index *QuestionIndex
}

// NewProvider builds a Provider. index may be nil when no Qdrant exemplar
// store is configured or reachable; FindSimilarQuestions then returns no
// matches rather than failing the caller, matching spec §9's "on any
// Qdrant error the planner proceeds with zero exemplars" rule.
func NewProvider(embedder *HTTPEmbedder, index *QuestionIndex) *Provider {
	return &Provider{HTTPEmbedder: embedder, index: index}
}

func (p *Provider) CosineSimilarity(a, b []float32) float64 {
	return CosineSimilarity(a, b)
}

func (p *Provider) FindSimilarQuestions(ctx context.Context, queryVec []float32, topK int, skill string, difficulty domain.Difficulty, qType domain.QuestionType) ([]ports.SimilarityMatch, error) {
	if p.index == nil {
		return nil, nil
	}
	return p.index.FindSimilarQuestions(ctx, queryVec, topK, skill, difficulty, qType)
}
