package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// CandidateRepo implements ports.CandidateRepository.
type CandidateRepo struct{ db *gorm.DB }

func (r *CandidateRepo) Save(ctx context.Context, c *domain.Candidate) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("%w: save candidate: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *CandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	var c domain.Candidate
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: candidate %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get candidate: %v", domain.ErrPersistence, err)
	}
	return &c, nil
}

func (r *CandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("%w: update candidate: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *CandidateRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Candidate{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete candidate: %v", domain.ErrPersistence, err)
	}
	return nil
}
