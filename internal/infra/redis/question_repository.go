package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"assessment-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionLoader fetches question sets from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error)
}

// QuestionRepository caches question sets in Redis (hash per assessment) and falls back to a
// loader on cache miss. Questions are stored as:
//
//	HSET assessment:{id}:questions {index} {question json}
type QuestionRepository struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	key := questionsKey(assessmentID)

	if qs, ok := r.fromCache(ctx, key); ok {
		return qs, nil
	}

	result, err, _ := r.sf.Do(assessmentID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if qs, ok := r.fromCache(ctx, key); ok {
			return qs, nil
		}

		qs, err := r.loader.LoadQuestions(ctx, assessmentID)
		if err != nil {
			return nil, err
		}

		fields := make(map[string]interface{}, len(qs))
		for i, q := range qs {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, fmt.Errorf("encode question %d: %w", i, err)
			}
			fields[strconv.Itoa(i)] = data
		}
		if len(fields) > 0 {
			pipe := r.client.TxPipeline()
			pipe.Del(ctx, key)
			pipe.HSet(ctx, key, fields)
			if ttl := r.ttlWithJitter(); ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
			// Cache writes are best effort; the loaded set is still served.
			_, _ = pipe.Exec(ctx)
		}
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.Question(nil), result.([]domain.Question)...), nil
}

func (r *QuestionRepository) fromCache(ctx context.Context, key string) ([]domain.Question, bool) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}
	qs, err := buildQuestionsFromCache(fields)
	if err != nil {
		return nil, false
	}
	return qs, true
}

// buildQuestionsFromCache restores question order from the hash field indices.
// A gap or undecodable entry invalidates the whole cached set.
func buildQuestionsFromCache(fields map[string]string) ([]domain.Question, error) {
	qs := make([]domain.Question, len(fields))
	for field, raw := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 0 || idx >= len(qs) {
			return nil, fmt.Errorf("unexpected cache field %q", field)
		}
		if err := json.Unmarshal([]byte(raw), &qs[idx]); err != nil {
			return nil, fmt.Errorf("decode cached question %d: %w", idx, err)
		}
	}
	return qs, nil
}

func questionsKey(assessmentID string) string {
	return "assessment:" + assessmentID + ":questions"
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
