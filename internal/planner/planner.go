// Package planner pre-computes a bounded sequence of main questions,
// each paired with an ideal reference answer, before a session begins.
package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

// Planner implements spec §4.1.
type Planner struct {
	cvRepo        ports.CVAnalysisRepository
	interviewRepo ports.InterviewRepository
	questionRepo  ports.QuestionRepository
	llm           ports.LLMProvider
	embedder      ports.EmbeddingAndSimilarity
}

// New builds a Planner.
func New(cvRepo ports.CVAnalysisRepository, interviewRepo ports.InterviewRepository, questionRepo ports.QuestionRepository, llm ports.LLMProvider, embedder ports.EmbeddingAndSimilarity) *Planner {
	return &Planner{cvRepo: cvRepo, interviewRepo: interviewRepo, questionRepo: questionRepo, llm: llm, embedder: embedder}
}

// Plan implements spec §4.1's full algorithm, including rollback-on-
// failure compensation (step 5).
func (p *Planner) Plan(ctx context.Context, cvAnalysisID, candidateID string) (*domain.Interview, error) {
	cv, err := p.cvRepo.GetByID(ctx, cvAnalysisID)
	if err != nil {
		return nil, fmt.Errorf("%w: cv_analysis %s: %v", domain.ErrNotFound, cvAnalysisID, err)
	}

	n := computeQuestionCount(len(cv.Skills))

	interview := &domain.Interview{
		ID:           uuid.New().String(),
		CandidateID:  candidateID,
		CVAnalysisID: cvAnalysisID,
		Status:       domain.StatusPlanning,
	}
	if err := p.interviewRepo.Save(ctx, interview); err != nil {
		return nil, fmt.Errorf("%w: save interview: %v", domain.ErrPersistence, err)
	}

	genCtx := ports.GenerationContext{
		CVSummary:  cv.Summary,
		Skills:     skillNames(cv.Skills),
		Experience: cv.ExperienceYears,
	}

	questionIDs, err := p.generateQuestions(ctx, interview, cv, genCtx, n)
	if err != nil {
		p.rollback(ctx, questionIDs)
		return nil, err
	}

	interview.QuestionIDs = questionIDs
	interview.PlanMetadata = domain.PlanMetadata{
		N:           n,
		GeneratedAt: time.Now().UTC(),
		Strategy:    "adaptive_planning_v1",
		CVSummary:   cv.Summary,
	}
	interview.Status = domain.StatusIdle

	if err := p.interviewRepo.Update(ctx, interview); err != nil {
		return nil, fmt.Errorf("%w: update interview: %v", domain.ErrPersistence, err)
	}
	return interview, nil
}

// computeQuestionCount implements the skill-diversity thresholds from
// spec §4.1 step 2 (experience is deliberately ignored).
func computeQuestionCount(skillCount int) int {
	switch {
	case skillCount <= 2:
		return 2
	case skillCount <= 4:
		return 3
	case skillCount <= 7:
		return 4
	default:
		return 5
	}
}

// questionDistribution returns (type, difficulty) for position i of n,
// per spec §4.1 step 4: first 60% TECHNICAL, next 30% BEHAVIORAL, rest
// SITUATIONAL; first 50% EASY, next 30% MEDIUM, rest HARD.
func questionDistribution(i, n int) (domain.QuestionType, domain.Difficulty) {
	technicalCount := int(float64(n) * 0.6)
	behavioralCount := int(float64(n) * 0.3)

	var qType domain.QuestionType
	switch {
	case i < technicalCount:
		qType = domain.QuestionTechnical
	case i < technicalCount+behavioralCount:
		qType = domain.QuestionBehavioral
	default:
		qType = domain.QuestionSituational
	}

	easyCount := int(float64(n) * 0.5)
	mediumCount := int(float64(n) * 0.3)

	var difficulty domain.Difficulty
	switch {
	case i < easyCount:
		difficulty = domain.DifficultyEasy
	case i < easyCount+mediumCount:
		difficulty = domain.DifficultyMedium
	default:
		difficulty = domain.DifficultyHard
	}

	return qType, difficulty
}

func skillNames(skills []domain.SkillEntry) []string {
	if len(skills) == 0 {
		return []string{"general"}
	}
	names := make([]string, len(skills))
	for i, s := range skills {
		names[i] = s.Name
	}
	return names
}

func (p *Planner) generateQuestions(ctx context.Context, interview *domain.Interview, cv *domain.CVAnalysis, genCtx ports.GenerationContext, n int) ([]string, error) {
	skills := skillNames(cv.Skills)
	var ids []string

	for i := 0; i < n; i++ {
		skill := skills[i%len(skills)]
		qType, difficulty := questionDistribution(i, n)

		exemplars := p.retrieveExemplars(ctx, skill, difficulty, qType)

		text, err := p.llm.GenerateQuestion(ctx, genCtx, skill, difficulty, exemplars)
		if err != nil {
			return ids, fmt.Errorf("%w: generate_question: %v", domain.ErrExternalProvider, err)
		}

		idealAnswer, err := p.llm.GenerateIdealAnswer(ctx, text, genCtx)
		if err != nil {
			return ids, fmt.Errorf("%w: generate_ideal_answer: %v", domain.ErrExternalProvider, err)
		}

		rationale, err := p.llm.GenerateRationale(ctx, text, idealAnswer)
		if err != nil {
			return ids, fmt.Errorf("%w: generate_rationale: %v", domain.ErrExternalProvider, err)
		}

		q := &domain.Question{
			ID:          uuid.New().String(),
			Text:        text,
			Type:        qType,
			Difficulty:  difficulty,
			Skills:      []string{skill},
			IdealAnswer: idealAnswer,
			Rationale:   rationale,
			Version:     1,
		}
		if err := p.questionRepo.Save(ctx, q); err != nil {
			return ids, fmt.Errorf("%w: save question: %v", domain.ErrPersistence, err)
		}
		ids = append(ids, q.ID)
	}

	return ids, nil
}

// retrieveExemplars fetches up to 3 exemplar question texts. On any
// failure of the optional vector search it proceeds with zero exemplars
// (spec §9 "Exemplar retrieval is optional").
func (p *Planner) retrieveExemplars(ctx context.Context, skill string, difficulty domain.Difficulty, qType domain.QuestionType) []string {
	vec, err := p.embedder.Embed(ctx, skill)
	if err != nil {
		log.Printf("[Planner] exemplar embedding failed, proceeding with zero exemplars: %v", err)
		return nil
	}
	matches, err := p.embedder.FindSimilarQuestions(ctx, vec, 3, skill, difficulty, qType)
	if err != nil {
		log.Printf("[Planner] exemplar retrieval failed, proceeding with zero exemplars: %v", err)
		return nil
	}
	exemplars := make([]string, 0, len(matches))
	for _, m := range matches {
		if text, ok := m.Metadata["text"].(string); ok && text != "" {
			exemplars = append(exemplars, text)
		}
	}
	return exemplars
}

// rollback best-effort deletes questions persisted before a failure,
// logging rather than raising if deletion itself fails (spec §4.1 step 5).
func (p *Planner) rollback(ctx context.Context, questionIDs []string) {
	for _, id := range questionIDs {
		if err := p.questionRepo.Delete(ctx, id); err != nil {
			log.Printf("[Planner] rollback: failed to delete question %s: %v", id, err)
		}
	}
}
