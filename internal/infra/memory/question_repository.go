package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing store (assessment store, fixtures).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error)
}

// QuestionRepository caches question sets with TTL to avoid repeated store hits.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	if qs, ok := r.lookup(assessmentID); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(assessmentID, func() (interface{}, error) {
		if qs, ok := r.lookup(assessmentID); ok {
			return qs, nil
		}
		qs, err := r.loader.LoadQuestions(ctx, assessmentID)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[assessmentID] = cachedSet{
			questions: qs,
			expiresAt: r.clock().Add(r.ttlWithJitterLocked()),
		}
		r.mu.Unlock()
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(result.([]domain.Question)), nil
}

func (r *QuestionRepository) lookup(assessmentID string) ([]domain.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[assessmentID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return clone(entry.questions), true
}

func (r *QuestionRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticQuestionLoader struct {
	sets map[string][]domain.Question
}

func NewStaticQuestionLoader(sets map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{sets: sets}
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, assessmentID string) ([]domain.Question, error) {
	if qs, ok := l.sets[assessmentID]; ok {
		return qs, nil
	}
	return nil, domain.ErrAssessmentNotFound
}

func clone(qs []domain.Question) []domain.Question {
	return append([]domain.Question(nil), qs...)
}
