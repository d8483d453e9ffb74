package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// CVAnalysisRepo implements ports.CVAnalysisRepository.
type CVAnalysisRepo struct{ db *gorm.DB }

func (r *CVAnalysisRepo) Save(ctx context.Context, a *domain.CVAnalysis) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("%w: save cv_analysis: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *CVAnalysisRepo) GetByID(ctx context.Context, id string) (*domain.CVAnalysis, error) {
	var a domain.CVAnalysis
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cv_analysis %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get cv_analysis: %v", domain.ErrPersistence, err)
	}
	return &a, nil
}

func (r *CVAnalysisRepo) GetLatestByCandidateID(ctx context.Context, candidateID string) (*domain.CVAnalysis, error) {
	var a domain.CVAnalysis
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cv_analysis for candidate %s", domain.ErrNotFound, candidateID)
		}
		return nil, fmt.Errorf("%w: get latest cv_analysis: %v", domain.ErrPersistence, err)
	}
	return &a, nil
}

func (r *CVAnalysisRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.CVAnalysis{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete cv_analysis: %v", domain.ErrPersistence, err)
	}
	return nil
}
