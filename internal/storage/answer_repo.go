package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// AnswerRepo implements ports.AnswerRepository.
type AnswerRepo struct{ db *gorm.DB }

func (r *AnswerRepo) Save(ctx context.Context, a *domain.Answer) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("%w: save answer: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *AnswerRepo) GetByID(ctx context.Context, id string) (*domain.Answer, error) {
	var a domain.Answer
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: answer %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get answer: %v", domain.ErrPersistence, err)
	}
	return &a, nil
}

func (r *AnswerRepo) GetByQuestionID(ctx context.Context, questionID string) (*domain.Answer, error) {
	var a domain.Answer
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: answer for question %s", domain.ErrNotFound, questionID)
		}
		return nil, fmt.Errorf("%w: get answer by question: %v", domain.ErrPersistence, err)
	}
	return &a, nil
}

func (r *AnswerRepo) GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Answer, error) {
	var as []*domain.Answer
	err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&as).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get answers by interview: %v", domain.ErrPersistence, err)
	}
	return as, nil
}
