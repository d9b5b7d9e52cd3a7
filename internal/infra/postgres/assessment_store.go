package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"assessment-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const selectColumns = `id, user_id, topic, course_id, questions, score, created_at`

// AssessmentStore persists assessments in Postgres; questions live in a JSONB column.
// It doubles as the question loader and as the store-backed score submitter.
type AssessmentStore struct {
	pool *pgxpool.Pool
}

func NewAssessmentStore(pool *pgxpool.Pool) *AssessmentStore {
	return &AssessmentStore{pool: pool}
}

func (s *AssessmentStore) Create(ctx context.Context, a domain.Assessment) error {
	data, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO assessments (id, user_id, topic, course_id, questions, score, created_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`,
		a.ID, a.UserID, a.Topic, nullable(a.CourseID), string(data), a.Score, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *AssessmentStore) Get(ctx context.Context, id string) (domain.Assessment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM assessments WHERE id=$1`, id)
	return scanAssessment(row)
}

func (s *AssessmentStore) UpdateScore(ctx context.Context, id string, score int) (domain.Assessment, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE assessments SET score=$2 WHERE id=$1 RETURNING `+selectColumns, id, score)
	return scanAssessment(row)
}

func (s *AssessmentStore) ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error) {
	return s.list(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE user_id=$1 ORDER BY created_at, id`, userID)
}

func (s *AssessmentStore) ListByCourse(ctx context.Context, courseID, userID string) ([]domain.Assessment, error) {
	if userID == "" {
		return s.list(ctx,
			`SELECT `+selectColumns+` FROM assessments WHERE course_id=$1 ORDER BY created_at, id`, courseID)
	}
	return s.list(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE course_id=$1 AND user_id=$2 ORDER BY created_at, id`,
		courseID, userID)
}

// LoadQuestions implements the question loader used by the caches.
func (s *AssessmentStore) LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT questions FROM assessments WHERE id=$1`, assessmentID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAssessmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	var qs []domain.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return qs, nil
}

// SubmitScore implements app.ScoreSubmitter.
func (s *AssessmentStore) SubmitScore(ctx context.Context, assessmentID string, score int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE assessments SET score=$2 WHERE id=$1`, assessmentID, score)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssessmentNotFound
	}
	return nil
}

func (s *AssessmentStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.Assessment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return out, nil
}

func scanAssessment(row pgx.Row) (domain.Assessment, error) {
	var (
		a        domain.Assessment
		courseID *string
		raw      []byte
		created  time.Time
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Topic, &courseID, &raw, &a.Score, &created)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("scan assessment: %w", err)
	}
	if courseID != nil {
		a.CourseID = *courseID
	}
	if err := json.Unmarshal(raw, &a.Questions); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	a.CreatedAt = created.UTC()
	return a, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
