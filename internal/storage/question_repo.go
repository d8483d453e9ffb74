package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"interviewengine/internal/domain"
)

// QuestionRepo implements ports.QuestionRepository.
type QuestionRepo struct{ db *gorm.DB }

func (r *QuestionRepo) Save(ctx context.Context, q *domain.Question) error {
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return fmt.Errorf("%w: save question: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	var q domain.Question
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: get question: %v", domain.ErrPersistence, err)
	}
	return &q, nil
}

func (r *QuestionRepo) Update(ctx context.Context, q *domain.Question) error {
	if err := r.db.WithContext(ctx).Save(q).Error; err != nil {
		return fmt.Errorf("%w: update question: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Question{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("%w: delete question: %v", domain.ErrPersistence, err)
	}
	return nil
}

// FindBySkillDifficultyType supports both exemplar grounding and the
// Planner's rollback verification (it is the only "list" query the
// repository exposes). Skills is a JSON-serialized column, so the match
// uses a LIKE on its serialized form rather than a containment operator,
// matching the teacher's preference for portable SQL over Postgres-only
// JSONB operators.
func (r *QuestionRepo) FindBySkillDifficultyType(ctx context.Context, skill string, difficulty domain.Difficulty, qType domain.QuestionType, limit int) ([]*domain.Question, error) {
	var qs []*domain.Question
	err := r.db.WithContext(ctx).
		Where("difficulty = ? AND type = ? AND skills LIKE ?", difficulty, qType, "%\""+skill+"\"%").
		Limit(limit).
		Find(&qs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find questions by skill: %v", domain.ErrPersistence, err)
	}
	return qs, nil
}
