// Package sqlite provides a file-backed assessment store for single-node and offline use.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"assessment-service/internal/domain"
	_ "modernc.org/sqlite"
)

const selectColumns = `id, user_id, topic, course_id, questions, score, created_at`

// AssessmentStore implements the assessment store on SQLite.
type AssessmentStore struct {
	db *sql.DB
}

// Open creates the database file if needed and applies the schema.
// The special path ":memory:" opens a private in-memory database.
func Open(path string) (*AssessmentStore, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &AssessmentStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *AssessmentStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		course_id TEXT,
		questions TEXT NOT NULL,
		score INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_user ON assessments(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_assessments_course ON assessments(course_id, user_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *AssessmentStore) Close() error {
	return s.db.Close()
}

func (s *AssessmentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *AssessmentStore) Create(ctx context.Context, a domain.Assessment) error {
	data, err := json.Marshal(a.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	var courseID interface{}
	if a.CourseID != "" {
		courseID = a.CourseID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, user_id, topic, course_id, questions, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Topic, courseID, string(data), a.Score, a.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *AssessmentStore) Get(ctx context.Context, id string) (domain.Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM assessments WHERE id = ?`, id)
	return scanAssessment(row)
}

func (s *AssessmentStore) UpdateScore(ctx context.Context, id string, score int) (domain.Assessment, error) {
	if err := s.SubmitScore(ctx, id, score); err != nil {
		return domain.Assessment{}, err
	}
	return s.Get(ctx, id)
}

func (s *AssessmentStore) ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error) {
	return s.list(ctx, `SELECT `+selectColumns+` FROM assessments WHERE user_id = ? ORDER BY created_at, id`, userID)
}

func (s *AssessmentStore) ListByCourse(ctx context.Context, courseID, userID string) ([]domain.Assessment, error) {
	if userID == "" {
		return s.list(ctx, `SELECT `+selectColumns+` FROM assessments WHERE course_id = ? ORDER BY created_at, id`, courseID)
	}
	return s.list(ctx,
		`SELECT `+selectColumns+` FROM assessments WHERE course_id = ? AND user_id = ? ORDER BY created_at, id`,
		courseID, userID)
}

// LoadQuestions implements the question loader used by the caches.
func (s *AssessmentStore) LoadQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error) {
	a, err := s.Get(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	return a.Questions, nil
}

// SubmitScore implements app.ScoreSubmitter.
func (s *AssessmentStore) SubmitScore(ctx context.Context, assessmentID string, score int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE assessments SET score = ? WHERE id = ?`, score, assessmentID)
	if err != nil {
		return fmt.Errorf("update score: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAssessmentNotFound
	}
	return nil
}

func (s *AssessmentStore) list(ctx context.Context, query string, args ...interface{}) ([]domain.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAssessment(row scanner) (domain.Assessment, error) {
	var (
		a         domain.Assessment
		courseID  sql.NullString
		questions string
		createdAt int64
	)
	err := row.Scan(&a.ID, &a.UserID, &a.Topic, &courseID, &questions, &a.Score, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("scan assessment row: %w", err)
	}
	a.CourseID = courseID.String
	if err := json.Unmarshal([]byte(questions), &a.Questions); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	a.CreatedAt = time.Unix(0, createdAt).UTC()
	return a, nil
}
