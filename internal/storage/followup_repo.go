package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// FollowUpRepo implements ports.FollowUpQuestionRepository.
type FollowUpRepo struct{ db *gorm.DB }

func (r *FollowUpRepo) Save(ctx context.Context, f *domain.FollowUpQuestion) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("%w: save follow_up_question: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *FollowUpRepo) GetByID(ctx context.Context, id string) (*domain.FollowUpQuestion, error) {
	var f domain.FollowUpQuestion
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: follow_up_question %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get follow_up_question: %v", domain.ErrPersistence, err)
	}
	return &f, nil
}

func (r *FollowUpRepo) GetByParentQuestionID(ctx context.Context, parentQuestionID string) ([]*domain.FollowUpQuestion, error) {
	var fs []*domain.FollowUpQuestion
	err := r.db.WithContext(ctx).
		Where("parent_question_id = ?", parentQuestionID).
		Order("order_in_sequence ASC").
		Find(&fs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: get follow_ups by parent: %v", domain.ErrPersistence, err)
	}
	return fs, nil
}

func (r *FollowUpRepo) CountByParentQuestionID(ctx context.Context, parentQuestionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.FollowUpQuestion{}).
		Where("parent_question_id = ?", parentQuestionID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count follow_ups: %v", domain.ErrPersistence, err)
	}
	return int(count), nil
}
