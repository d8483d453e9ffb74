// Package summarizer aggregates an interview's evaluations and gap
// history into a DetailedFeedback report on the EVALUATING→COMPLETE
// transition.
package summarizer

import (
	"context"
	"fmt"

	"interviewengine/internal/domain"
	"interviewengine/internal/ports"
)

const defaultSpeakingScore = 50.0

// Summarizer implements spec §4.5.
type Summarizer struct {
	interviewRepo ports.InterviewRepository
	answerRepo    ports.AnswerRepository
	evaluationRepo ports.EvaluationRepository
	followUpRepo  ports.FollowUpQuestionRepository
	questionRepo  ports.QuestionRepository
	llm           ports.LLMProvider
}

// New builds a Summarizer.
func New(interviewRepo ports.InterviewRepository, answerRepo ports.AnswerRepository, evaluationRepo ports.EvaluationRepository, followUpRepo ports.FollowUpQuestionRepository, questionRepo ports.QuestionRepository, llm ports.LLMProvider) *Summarizer {
	return &Summarizer{
		interviewRepo:  interviewRepo,
		answerRepo:     answerRepo,
		evaluationRepo: evaluationRepo,
		followUpRepo:   followUpRepo,
		questionRepo:   questionRepo,
		llm:            llm,
	}
}

// Summarize implements spec §4.5's contract. It is idempotent: calling
// it twice on the same interview state produces equal output.
func (s *Summarizer) Summarize(ctx context.Context, interviewID string) (*domain.DetailedFeedback, error) {
	interview, err := s.interviewRepo.GetByID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: interview %s: %v", domain.ErrNotFound, interviewID, err)
	}

	evaluations, err := s.evaluationRepo.GetByInterviewID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: evaluations for interview %s: %v", domain.ErrPersistence, interviewID, err)
	}
	answers, err := s.answerRepo.GetByInterviewID(ctx, interviewID)
	if err != nil {
		return nil, fmt.Errorf("%w: answers for interview %s: %v", domain.ErrPersistence, interviewID, err)
	}
	answerByID := make(map[string]*domain.Answer, len(answers))
	for _, a := range answers {
		answerByID[a.ID] = a
	}

	theoreticalAvg, speakingAvg := aggregateScores(evaluations, answerByID)
	overallScore := 0.7*theoreticalAvg + 0.3*speakingAvg

	groups, err := s.buildQuestionGroups(ctx, interview, evaluations)
	if err != nil {
		return nil, err
	}
	progression := gapProgression(groups)

	recommendations := s.generateRecommendations(ctx, interviewID, evaluations, progression)

	return &domain.DetailedFeedback{
		InterviewID:     interviewID,
		TheoreticalAvg:  theoreticalAvg,
		SpeakingAvg:     speakingAvg,
		OverallScore:    overallScore,
		TotalQuestions:  len(interview.QuestionIDs),
		QuestionGroups:  groups,
		GapProgression:  progression,
		Recommendations: recommendations,
	}, nil
}

func aggregateScores(evaluations []*domain.Evaluation, answerByID map[string]*domain.Answer) (theoreticalAvg, speakingAvg float64) {
	if len(evaluations) == 0 {
		return 0, defaultSpeakingScore
	}
	var theoreticalSum, speakingSum float64
	for _, e := range evaluations {
		theoreticalSum += e.FinalScore
		speakingSum += speakingScoreFor(e, answerByID)
	}
	n := float64(len(evaluations))
	return theoreticalSum / n, speakingSum / n
}

func speakingScoreFor(e *domain.Evaluation, answerByID map[string]*domain.Answer) float64 {
	answer, ok := answerByID[e.AnswerID]
	if !ok || answer.VoiceMetrics == nil {
		return defaultSpeakingScore
	}
	return answer.VoiceMetrics.OverallScore
}

// buildQuestionGroups groups answers by main question, associating
// follow-up answers via their FollowUpQuestion.ParentQuestionID.
func (s *Summarizer) buildQuestionGroups(ctx context.Context, interview *domain.Interview, evaluations []*domain.Evaluation) ([]domain.QuestionGroup, error) {
	parentOf, err := s.parentLookup(ctx, interview)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		main      *domain.Evaluation
		followUps []*domain.Evaluation
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, len(interview.QuestionIDs))
	for _, qid := range interview.QuestionIDs {
		buckets[qid] = &bucket{}
		order = append(order, qid)
	}

	for _, e := range evaluations {
		parentID, isMain := parentOf(e.QuestionID)
		b, ok := buckets[parentID]
		if !ok {
			b = &bucket{}
			buckets[parentID] = b
			order = append(order, parentID)
		}
		if isMain {
			b.main = e
		} else {
			b.followUps = append(b.followUps, e)
		}
	}

	groups := make([]domain.QuestionGroup, 0, len(order))
	for _, qid := range order {
		b := buckets[qid]
		q, err := s.questionRepo.GetByID(ctx, qid)
		if err != nil {
			continue // question was deleted or never planned; skip defensively
		}

		var mainScore float64
		var initialGaps []string
		if b.main != nil {
			mainScore = b.main.FinalScore
			initialGaps = unresolvedConcepts(b.main)
		}

		finalGaps := initialGaps
		latest := b.main
		for _, fe := range b.followUps {
			latest = fe
		}
		if latest != nil {
			finalGaps = unresolvedConcepts(latest)
		}

		groups = append(groups, domain.QuestionGroup{
			QuestionID:      qid,
			QuestionText:    q.Text,
			MainAnswerScore: mainScore,
			FollowUpCount:   len(b.followUps),
			InitialGaps:     initialGaps,
			FinalGaps:       finalGaps,
			Improvement:     len(finalGaps) < len(initialGaps),
		})
	}
	return groups, nil
}

// parentLookup returns a function resolving a question id to (parent
// main question id, isMain).
func (s *Summarizer) parentLookup(ctx context.Context, interview *domain.Interview) (func(questionID string) (string, bool), error) {
	mainIDs := make(map[string]bool, len(interview.QuestionIDs))
	for _, id := range interview.QuestionIDs {
		mainIDs[id] = true
	}

	parentOfFollowUp := make(map[string]string, len(interview.AdaptiveFollowUps))
	for _, fuID := range interview.AdaptiveFollowUps {
		fu, err := s.followUpRepo.GetByID(ctx, fuID)
		if err != nil {
			return nil, fmt.Errorf("%w: follow-up %s: %v", domain.ErrPersistence, fuID, err)
		}
		parentOfFollowUp[fuID] = fu.ParentQuestionID
	}

	return func(questionID string) (string, bool) {
		if mainIDs[questionID] {
			return questionID, true
		}
		if parent, ok := parentOfFollowUp[questionID]; ok {
			return parent, false
		}
		return questionID, true
	}, nil
}

func unresolvedConcepts(e *domain.Evaluation) []string {
	out := make([]string, 0, len(e.Gaps))
	for _, g := range e.Gaps {
		if !g.Resolved {
			out = append(out, g.Concept)
		}
	}
	return out
}

func gapProgression(groups []domain.QuestionGroup) domain.GapProgression {
	var p domain.GapProgression
	totalFollowUps := 0
	for _, g := range groups {
		if g.FollowUpCount > 0 {
			p.QuestionsWithFollowUps++
		}
		totalFollowUps += g.FollowUpCount
		filled := len(g.InitialGaps) - len(g.FinalGaps)
		if filled > 0 {
			p.GapsFilled += filled
		}
		p.GapsRemaining += len(g.FinalGaps)
	}
	if p.QuestionsWithFollowUps > 0 {
		p.AvgFollowUpsPerQuestion = float64(totalFollowUps) / float64(p.QuestionsWithFollowUps)
	}
	return p
}

var safeFallbackRecommendations = domain.Recommendations{
	Strengths:     []string{"Clear communication", "Structured problem-solving approach", "Willingness to reason through edge cases"},
	Weaknesses:    []string{"Depth on some core concepts", "Precision of technical terminology", "Coverage of trade-offs"},
	StudyTopics:   []string{"Core data structures", "System design fundamentals", "Concurrency patterns"},
	TechniqueTips: []string{"Narrate your reasoning out loud", "Restate the question before answering"},
}

func (s *Summarizer) generateRecommendations(ctx context.Context, interviewID string, evaluations []*domain.Evaluation, progression domain.GapProgression) domain.Recommendations {
	perAnswer := make([]ports.RecommendationAnswerContext, 0, len(evaluations))
	for _, e := range evaluations {
		perAnswer = append(perAnswer, ports.RecommendationAnswerContext{
			Score:      e.FinalScore,
			Strengths:  e.Strengths,
			Weaknesses: e.Weaknesses,
		})
	}

	recs, err := s.llm.GenerateInterviewRecommendations(ctx, ports.RecommendationContext{
		InterviewID:    interviewID,
		TotalAnswers:   len(evaluations),
		GapProgression: progression,
		PerAnswer:      perAnswer,
	})
	if err != nil || len(recs.Strengths) == 0 {
		return safeFallbackRecommendations
	}
	return recs
}
