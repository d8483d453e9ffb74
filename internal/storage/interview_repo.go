package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// InterviewRepo implements ports.InterviewRepository.
type InterviewRepo struct{ db *gorm.DB }

func (r *InterviewRepo) Save(ctx context.Context, i *domain.Interview) error {
	if err := r.db.WithContext(ctx).Create(i).Error; err != nil {
		return fmt.Errorf("%w: save interview: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	var i domain.Interview
	if err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: interview %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get interview: %v", domain.ErrPersistence, err)
	}
	return &i, nil
}

func (r *InterviewRepo) Update(ctx context.Context, i *domain.Interview) error {
	if err := r.db.WithContext(ctx).Save(i).Error; err != nil {
		return fmt.Errorf("%w: update interview: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *InterviewRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Interview{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete interview: %v", domain.ErrPersistence, err)
	}
	return nil
}
