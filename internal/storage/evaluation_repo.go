package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// EvaluationRepo implements ports.EvaluationRepository.
type EvaluationRepo struct{ db *gorm.DB }

// Save persists an Evaluation and its ConceptGaps inside one transaction,
// so a failed gap insert leaves no scoreless evaluation behind. The answer
// is saved earlier by its own AnswerRepo.Save call, outside this transaction.
func (r *EvaluationRepo) Save(ctx context.Context, e *domain.Evaluation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(e).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save evaluation: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *EvaluationRepo) GetByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	var e domain.Evaluation
	if err := r.db.WithContext(ctx).Preload("Gaps").First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: evaluation %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get evaluation: %v", domain.ErrPersistence, err)
	}
	return &e, nil
}

func (r *EvaluationRepo) GetByAnswerID(ctx context.Context, answerID string) (*domain.Evaluation, error) {
	var e domain.Evaluation
	err := r.db.WithContext(ctx).Preload("Gaps").Where("answer_id = ?", answerID).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: evaluation for answer %s", domain.ErrNotFound, answerID)
		}
		return nil, fmt.Errorf("%w: get evaluation by answer: %v", domain.ErrPersistence, err)
	}
	return &e, nil
}

func (r *EvaluationRepo) GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Evaluation, error) {
	var es []*domain.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Gaps").
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get evaluations by interview: %v", domain.ErrPersistence, err)
	}
	return es, nil
}

func (r *EvaluationRepo) GetByQuestionID(ctx context.Context, questionID string) ([]*domain.Evaluation, error) {
	var es []*domain.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Gaps").
		Where("question_id = ?", questionID).
		Order("attempt_number ASC").
		Find(&es).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get evaluations by question: %v", domain.ErrPersistence, err)
	}
	return es, nil
}
