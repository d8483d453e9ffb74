package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"github.com/google/uuid"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

const questionVectorSize = 384

// QuestionIndex is a Qdrant-backed exemplar question store, used by the
// Planner for exemplar retrieval. It is optional by design (spec §9):
// callers should treat any error from FindSimilarQuestions as "zero
// exemplars", never as a fatal planning error.
type QuestionIndex struct {
	Client         *qdrant.Client
	CollectionName string
}

// NewQuestionIndex connects to Qdrant and ensures the exemplar
// collection exists.
func NewQuestionIndex(qdrantURL, collectionName, apiKey string) (*QuestionIndex, error) {
	qdrantURL = strings.TrimPrefix(qdrantURL, "http://")
	qdrantURL = strings.TrimPrefix(qdrantURL, "https://")

	host := qdrantURL
	if idx := strings.Index(qdrantURL, ":"); idx != -1 {
		host = qdrantURL[:idx]
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   6334,
		APIKey: apiKey,
		UseTLS: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	qi := &QuestionIndex{Client: client, CollectionName: collectionName}
	if err := qi.ensureCollection(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	return qi, nil
}

func (qi *QuestionIndex) ensureCollection(ctx context.Context) error {
	exists, err := qi.Client.CollectionExists(ctx, qi.CollectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if !exists {
		err = qi.Client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: qi.CollectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     questionVectorSize,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}
	return nil
}

// IndexQuestion upserts one planned question's embedding and filterable
// payload fields into the exemplar store.
func (qi *QuestionIndex) IndexQuestion(ctx context.Context, q *domain.Question) error {
	if len(q.Embedding) != questionVectorSize {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", questionVectorSize, len(q.Embedding))
	}

	skillValues := make([]*qdrant.Value, len(q.Skills))
	for i, sk := range q.Skills {
		skillValues[i] = qdrant.NewValueString(sk)
	}

	payload := map[string]*qdrant.Value{
		"question_id": qdrant.NewValueString(q.ID),
		"text":        qdrant.NewValueString(q.Text),
		"type":        qdrant.NewValueString(string(q.Type)),
		"difficulty":  qdrant.NewValueString(string(q.Difficulty)),
		"skills":      {Kind: &qdrant.Value_ListValue{ListValue: &qdrant.ListValue{Values: skillValues}}},
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(q.ID),
		Vectors: qdrant.NewVectors(q.Embedding...),
		Payload: payload,
	}

	_, err := qi.Client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: qi.CollectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	return err
}

// FindSimilarQuestions retrieves up to topK exemplar questions matching
// skill/difficulty/type, nearest to queryVec. Callers must treat any
// returned error as "degrade to zero exemplars", per spec §9.
func (qi *QuestionIndex) FindSimilarQuestions(ctx context.Context, queryVec []float32, topK int, skill string, difficulty domain.Difficulty, qType domain.QuestionType) ([]ports.SimilarityMatch, error) {
	var must []*qdrant.Condition
	if skill != "" {
		must = append(must, qdrant.NewMatch("skills", skill))
	}
	if difficulty != "" {
		must = append(must, qdrant.NewMatch("difficulty", string(difficulty)))
	}
	if qType != "" {
		must = append(must, qdrant.NewMatch("type", string(qType)))
	}

	var filter *qdrant.Filter
	if len(must) > 0 {
		filter = &qdrant.Filter{Must: must}
	}

	limit := uint64(topK)
	points, err := qi.Client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: qi.CollectionName,
		Query:          qdrant.NewQuery(queryVec...),
		Filter:         filter,
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("exemplar query failed: %w", err)
	}

	matches := make([]ports.SimilarityMatch, 0, len(points))
	for _, p := range points {
		qid := getStringField(p.GetPayload(), "question_id")
		if qid == "" {
			qid = uuid.Nil.String()
		}
		matches = append(matches, ports.SimilarityMatch{
			QuestionID: qid,
			Score:      float64(p.GetScore()),
			Metadata: map[string]interface{}{
				"text": getStringField(p.GetPayload(), "text"),
			},
		})
	}
	return matches, nil
}

func getStringField(payload map[string]*qdrant.Value, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}
