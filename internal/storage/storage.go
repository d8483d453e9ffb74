// Package storage is the Postgres/GORM adapter for every repository port
// declared in internal/ports, grounded on the teacher's internal/db.go
// connection idiom. Unlike the teacher, which reaches for the global
// *gorm.DB directly from HTTP handlers, each entity gets its own thin
// repository type so the orchestrator/planner/evaluator/summarizer depend
// only on internal/ports, never on GORM.
package storage

import "gorm.io/gorm"

// Store bundles one repository per entity, all sharing a single
// connection, mirroring internal/mockproviders.MockStore's shape.
type Store struct {
	Candidates  *CandidateRepo
	CVAnalyses  *CVAnalysisRepo
	Questions   *QuestionRepo
	FollowUps   *FollowUpRepo
	Interviews  *InterviewRepo
	Answers     *AnswerRepo
	Evaluations *EvaluationRepo
}

// New builds a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{
		Candidates:  &CandidateRepo{db: db},
		CVAnalyses:  &CVAnalysisRepo{db: db},
		Questions:   &QuestionRepo{db: db},
		FollowUps:   &FollowUpRepo{db: db},
		Interviews:  &InterviewRepo{db: db},
		Answers:     &AnswerRepo{db: db},
		Evaluations: &EvaluationRepo{db: db},
	}
}
