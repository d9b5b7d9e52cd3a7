package memory

import (
	"context"
	"sort"
	"sync"

	"assessment-service/internal/domain"
)

// AssessmentStore keeps assessments in a map. It also serves as a QuestionLoader and
// as the score submitter when no external gateway is configured.
type AssessmentStore struct {
	mu          sync.RWMutex
	assessments map[string]domain.Assessment
}

func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{assessments: make(map[string]domain.Assessment)}
}

func (s *AssessmentStore) Create(_ context.Context, a domain.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Questions = clone(a.Questions)
	s.assessments[a.ID] = a
	return nil
}

func (s *AssessmentStore) Get(_ context.Context, id string) (domain.Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	a.Questions = clone(a.Questions)
	return a, nil
}

func (s *AssessmentStore) UpdateScore(_ context.Context, id string, score int) (domain.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	a.Score = score
	s.assessments[id] = a
	a.Questions = clone(a.Questions)
	return a, nil
}

func (s *AssessmentStore) ListByUser(_ context.Context, userID string) ([]domain.Assessment, error) {
	return s.filter(func(a domain.Assessment) bool { return a.UserID == userID }), nil
}

func (s *AssessmentStore) ListByCourse(_ context.Context, courseID, userID string) ([]domain.Assessment, error) {
	return s.filter(func(a domain.Assessment) bool {
		return a.CourseID == courseID && (userID == "" || a.UserID == userID)
	}), nil
}

func (s *AssessmentStore) filter(keep func(domain.Assessment) bool) []domain.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Assessment, 0)
	for _, a := range s.assessments {
		if keep(a) {
			a.Questions = clone(a.Questions)
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LoadQuestions implements QuestionLoader.
func (s *AssessmentStore) LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	a, err := s.Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return a.Questions, nil
}

// SubmitScore implements app.ScoreSubmitter.
func (s *AssessmentStore) SubmitScore(ctx context.Context, assessmentID string, score int) error {
	_, err := s.UpdateScore(ctx, assessmentID, score)
	return err
}
