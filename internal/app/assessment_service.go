package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"assessment-service/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AssessmentStore persists assessments (in-memory, Postgres, SQLite).
type AssessmentStore interface {
	Create(ctx context.Context, assessment domain.Assessment) error
	Get(ctx context.Context, id string) (domain.Assessment, error)
	UpdateScore(ctx context.Context, id string, score int) (domain.Assessment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error)
	ListByCourse(ctx context.Context, courseID, userID string) ([]domain.Assessment, error)
}

// QuestionGenerator produces a validated question set for a request.
type QuestionGenerator interface {
	Generate(ctx context.Context, req domain.GenerateRequest) ([]domain.Question, error)
}

// AssessmentService manages stored assessments: generation, lookup and score updates.
type AssessmentService struct {
	store     AssessmentStore
	generator QuestionGenerator
	validate  *validator.Validate
	logger    *slog.Logger
	now       func() time.Time
}

func NewAssessmentService(store AssessmentStore, generator QuestionGenerator, logger *slog.Logger) *AssessmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentService{
		store:     store,
		generator: generator,
		validate:  validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Generate asks the generator for questions and stores them as a new assessment.
func (s *AssessmentService) Generate(ctx context.Context, req domain.GenerateRequest) (domain.Assessment, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	questions, err := s.generator.Generate(ctx, req)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("generate questions: %w", err)
	}
	return s.create(ctx, req.UserID, req.Topic, req.CourseID, questions)
}

// Import stores an already parsed question set.
func (s *AssessmentService) Import(ctx context.Context, userID, topic, courseID string, questions []domain.Question) (domain.Assessment, error) {
	if userID == "" || topic == "" {
		return domain.Assessment{}, fmt.Errorf("%w: user and topic are required", domain.ErrInvalidRequest)
	}
	if len(questions) == 0 {
		return domain.Assessment{}, domain.ErrEmptyQuestionSet
	}
	return s.create(ctx, userID, topic, courseID, questions)
}

func (s *AssessmentService) create(ctx context.Context, userID, topic, courseID string, questions []domain.Question) (domain.Assessment, error) {
	assessment := domain.Assessment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     topic,
		CourseID:  courseID,
		Questions: questions,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Create(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("store assessment: %w", err)
	}
	s.logger.Info("assessment created", "assessment_id", assessment.ID, "user_id", userID, "course_id", courseID, "questions", len(questions))
	return assessment, nil
}

func (s *AssessmentService) Get(ctx context.Context, id string) (domain.Assessment, error) {
	return s.store.Get(ctx, id)
}

// UpdateScore overwrites the stored score of an assessment.
func (s *AssessmentService) UpdateScore(ctx context.Context, id string, score int) (domain.Assessment, error) {
	if score < 0 {
		return domain.Assessment{}, fmt.Errorf("%w: score must not be negative", domain.ErrInvalidRequest)
	}
	return s.store.UpdateScore(ctx, id, score)
}

// ListByUser returns a user's assessments, oldest first.
func (s *AssessmentService) ListByUser(ctx context.Context, userID string) ([]domain.Assessment, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListByCourse returns a user's assessments for a course, oldest first.
func (s *AssessmentService) ListByCourse(ctx context.Context, courseID, userID string) ([]domain.Assessment, error) {
	return s.store.ListByCourse(ctx, courseID, userID)
}
