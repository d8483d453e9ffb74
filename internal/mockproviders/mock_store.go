package mockproviders

import (
	"context"
	"fmt"
	"sync"

	"interviewengine/internal/domain"
)

// sharedData is the in-memory backing store threaded through every
// per-entity mock repository below. Two ports (AnswerRepository,
// EvaluationRepository) both declare a GetByQuestionID/GetByInterviewID
// method with different return types, so one struct cannot implement
// both — each entity gets its own repository type instead, all sharing
// this data and its mutex.
type sharedData struct {
	mu sync.RWMutex

	candidates  map[string]*domain.Candidate
	cvAnalyses  map[string]*domain.CVAnalysis
	questions   map[string]*domain.Question
	followUps   map[string]*domain.FollowUpQuestion
	interviews  map[string]*domain.Interview
	answers     map[string]*domain.Answer
	evaluations map[string]*domain.Evaluation
}

func newSharedData() *sharedData {
	return &sharedData{
		candidates:  make(map[string]*domain.Candidate),
		cvAnalyses:  make(map[string]*domain.CVAnalysis),
		questions:   make(map[string]*domain.Question),
		followUps:   make(map[string]*domain.FollowUpQuestion),
		interviews:  make(map[string]*domain.Interview),
		answers:     make(map[string]*domain.Answer),
		evaluations: make(map[string]*domain.Evaluation),
	}
}

// MockStore bundles an in-memory implementation of every repository
// port in internal/ports, for tests and local development without a
// database.
type MockStore struct {
	Candidates  *MockCandidateRepo
	CVAnalyses  *MockCVAnalysisRepo
	Questions   *MockQuestionRepo
	FollowUps   *MockFollowUpRepo
	Interviews  *MockInterviewRepo
	Answers     *MockAnswerRepo
	Evaluations *MockEvaluationRepo
}

// NewMockStore builds an empty in-memory store with one repository per
// entity, all sharing the same underlying maps.
func NewMockStore() *MockStore {
	data := newSharedData()
	return &MockStore{
		Candidates:  &MockCandidateRepo{data: data},
		CVAnalyses:  &MockCVAnalysisRepo{data: data},
		Questions:   &MockQuestionRepo{data: data},
		FollowUps:   &MockFollowUpRepo{data: data},
		Interviews:  &MockInterviewRepo{data: data},
		Answers:     &MockAnswerRepo{data: data},
		Evaluations: &MockEvaluationRepo{data: data},
	}
}

// --- MockCandidateRepo : ports.CandidateRepository ---

type MockCandidateRepo struct{ data *sharedData }

func (r *MockCandidateRepo) Save(ctx context.Context, c *domain.Candidate) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *c
	r.data.candidates[c.ID] = &cp
	return nil
}

func (r *MockCandidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	c, ok := r.data.candidates[id]
	if !ok {
		return nil, fmt.Errorf("%w: candidate %s", domain.ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (r *MockCandidateRepo) Update(ctx context.Context, c *domain.Candidate) error {
	return r.Save(ctx, c)
}

func (r *MockCandidateRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	delete(r.data.candidates, id)
	return nil
}

// --- MockCVAnalysisRepo : ports.CVAnalysisRepository ---

type MockCVAnalysisRepo struct{ data *sharedData }

func (r *MockCVAnalysisRepo) Save(ctx context.Context, a *domain.CVAnalysis) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *a
	r.data.cvAnalyses[a.ID] = &cp
	return nil
}

func (r *MockCVAnalysisRepo) GetByID(ctx context.Context, id string) (*domain.CVAnalysis, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	a, ok := r.data.cvAnalyses[id]
	if !ok {
		return nil, fmt.Errorf("%w: cv_analysis %s", domain.ErrNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (r *MockCVAnalysisRepo) GetLatestByCandidateID(ctx context.Context, candidateID string) (*domain.CVAnalysis, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var latest *domain.CVAnalysis
	for _, a := range r.data.cvAnalyses {
		if a.CandidateID != candidateID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: no cv_analysis for candidate %s", domain.ErrNotFound, candidateID)
	}
	cp := *latest
	return &cp, nil
}

func (r *MockCVAnalysisRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	delete(r.data.cvAnalyses, id)
	return nil
}

// --- MockQuestionRepo : ports.QuestionRepository ---

type MockQuestionRepo struct{ data *sharedData }

func (r *MockQuestionRepo) Save(ctx context.Context, q *domain.Question) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *q
	r.data.questions[q.ID] = &cp
	return nil
}

func (r *MockQuestionRepo) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	q, ok := r.data.questions[id]
	if !ok {
		return nil, fmt.Errorf("%w: question %s", domain.ErrNotFound, id)
	}
	cp := *q
	return &cp, nil
}

func (r *MockQuestionRepo) Update(ctx context.Context, q *domain.Question) error {
	return r.Save(ctx, q)
}

func (r *MockQuestionRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	delete(r.data.questions, id)
	return nil
}

func (r *MockQuestionRepo) FindBySkillDifficultyType(ctx context.Context, skill string, difficulty domain.Difficulty, qType domain.QuestionType, limit int) ([]*domain.Question, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var out []*domain.Question
	for _, q := range r.data.questions {
		if q.Difficulty != difficulty || q.Type != qType {
			continue
		}
		matches := false
		for _, sk := range q.Skills {
			if sk == skill {
				matches = true
				break
			}
		}
		if !matches {
			continue
		}
		cp := *q
		out = append(out, &cp)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// --- MockFollowUpRepo : ports.FollowUpQuestionRepository ---

type MockFollowUpRepo struct{ data *sharedData }

func (r *MockFollowUpRepo) Save(ctx context.Context, f *domain.FollowUpQuestion) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *f
	r.data.followUps[f.ID] = &cp
	return nil
}

func (r *MockFollowUpRepo) GetByID(ctx context.Context, id string) (*domain.FollowUpQuestion, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	f, ok := r.data.followUps[id]
	if !ok {
		return nil, fmt.Errorf("%w: follow_up_question %s", domain.ErrNotFound, id)
	}
	cp := *f
	return &cp, nil
}

func (r *MockFollowUpRepo) GetByParentQuestionID(ctx context.Context, parentQuestionID string) ([]*domain.FollowUpQuestion, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var out []*domain.FollowUpQuestion
	for _, f := range r.data.followUps {
		if f.ParentQuestionID == parentQuestionID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockFollowUpRepo) CountByParentQuestionID(ctx context.Context, parentQuestionID string) (int, error) {
	fs, _ := r.GetByParentQuestionID(ctx, parentQuestionID)
	return len(fs), nil
}

// --- MockInterviewRepo : ports.InterviewRepository ---

type MockInterviewRepo struct{ data *sharedData }

func (r *MockInterviewRepo) Save(ctx context.Context, i *domain.Interview) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *i
	r.data.interviews[i.ID] = &cp
	return nil
}

func (r *MockInterviewRepo) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	i, ok := r.data.interviews[id]
	if !ok {
		return nil, fmt.Errorf("%w: interview %s", domain.ErrNotFound, id)
	}
	cp := *i
	return &cp, nil
}

func (r *MockInterviewRepo) Update(ctx context.Context, i *domain.Interview) error {
	return r.Save(ctx, i)
}

func (r *MockInterviewRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	delete(r.data.interviews, id)
	return nil
}

// --- MockAnswerRepo : ports.AnswerRepository ---

type MockAnswerRepo struct{ data *sharedData }

func (r *MockAnswerRepo) Save(ctx context.Context, a *domain.Answer) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *a
	r.data.answers[a.ID] = &cp
	return nil
}

func (r *MockAnswerRepo) GetByID(ctx context.Context, id string) (*domain.Answer, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	a, ok := r.data.answers[id]
	if !ok {
		return nil, fmt.Errorf("%w: answer %s", domain.ErrNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (r *MockAnswerRepo) GetByQuestionID(ctx context.Context, questionID string) (*domain.Answer, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	for _, a := range r.data.answers {
		if a.QuestionID == questionID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: answer for question %s", domain.ErrNotFound, questionID)
}

func (r *MockAnswerRepo) GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Answer, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var out []*domain.Answer
	for _, a := range r.data.answers {
		if a.InterviewID == interviewID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// --- MockEvaluationRepo : ports.EvaluationRepository ---

type MockEvaluationRepo struct{ data *sharedData }

func (r *MockEvaluationRepo) Save(ctx context.Context, e *domain.Evaluation) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	cp := *e
	r.data.evaluations[e.ID] = &cp
	return nil
}

func (r *MockEvaluationRepo) GetByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	e, ok := r.data.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("%w: evaluation %s", domain.ErrNotFound, id)
	}
	cp := *e
	return &cp, nil
}

func (r *MockEvaluationRepo) GetByAnswerID(ctx context.Context, answerID string) (*domain.Evaluation, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	for _, e := range r.data.evaluations {
		if e.AnswerID == answerID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: evaluation for answer %s", domain.ErrNotFound, answerID)
}

func (r *MockEvaluationRepo) GetByInterviewID(ctx context.Context, interviewID string) ([]*domain.Evaluation, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var out []*domain.Evaluation
	for _, e := range r.data.evaluations {
		if e.InterviewID == interviewID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockEvaluationRepo) GetByQuestionID(ctx context.Context, questionID string) ([]*domain.Evaluation, error) {
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()
	var out []*domain.Evaluation
	for _, e := range r.data.evaluations {
		if e.QuestionID == questionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}
