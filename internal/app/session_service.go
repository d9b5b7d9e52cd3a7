package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"assessment-service/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository abstracts how assessment sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	// Save persists the latest state of a session that is already stored.
	Save(session *Session)
	Delete(sessionID string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, assessmentID string) ([]domain.Question, error)
}

// ScoreSubmitter persists a submitted score with a remote collaborator.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, assessmentID string, score int) error
}

const defaultSubmitTimeout = 5 * time.Second

// SessionService runs the assessment lifecycle: load, navigate, answer, submit, review, restart.
type SessionService struct {
	sessions  SessionRepository
	questions QuestionRepository
	submitter ScoreSubmitter
	logger    *slog.Logger

	pointsPerQuestion int
	submitTimeout     time.Duration
	newID             func() string
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

func WithPointsPerQuestion(n int) SessionOption {
	return func(s *SessionService) {
		if n > 0 {
			s.pointsPerQuestion = n
		}
	}
}

func WithSubmitTimeout(d time.Duration) SessionOption {
	return func(s *SessionService) {
		if d > 0 {
			s.submitTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) SessionOption {
	return func(s *SessionService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides session ID generation (tests use fixed IDs).
func WithIDGenerator(gen func() string) SessionOption {
	return func(s *SessionService) { s.newID = gen }
}

// NewSessionService wires the lifecycle use cases. submitter may be nil, in which case
// results are never persisted remotely.
func NewSessionService(store SessionRepository, questions QuestionRepository, submitter ScoreSubmitter, opts ...SessionOption) *SessionService {
	s := &SessionService{
		sessions:          store,
		questions:         questions,
		submitter:         submitter,
		logger:            slog.Default(),
		pointsPerQuestion: domain.DefaultPointsPerQuestion,
		submitTimeout:     defaultSubmitTimeout,
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a session for an assessment and loads its questions. On a load failure
// the session stays registered in the failed phase and the error wraps ErrFetchFailed.
func (s *SessionService) Start(ctx context.Context, assessmentID string) (domain.SessionView, error) {
	session := NewSession(s.newID(), assessmentID)
	s.sessions.Put(session)

	questions, err := s.questions.GetQuestions(ctx, assessmentID)
	if err != nil {
		session.Fail(err)
		s.sessions.Save(session)
		s.logger.Warn("question set fetch failed", "session_id", session.ID(), "assessment_id", assessmentID, "error", err)
		return session.View(), fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if err := session.Load(questions); err != nil {
		s.sessions.Save(session)
		return session.View(), err
	}
	s.sessions.Save(session)
	s.logger.Info("assessment session started", "session_id", session.ID(), "assessment_id", assessmentID, "questions", len(questions))
	return session.View(), nil
}

// View returns the current state of a session.
func (s *SessionService) View(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// GoTo jumps to a question. Out-of-range indices leave the cursor unchanged.
func (s *SessionService) GoTo(_ context.Context, sessionID string, index int) (domain.SessionView, error) {
	return s.mutate(sessionID, func(session *Session) { session.GoTo(index) })
}

func (s *SessionService) Next(_ context.Context, sessionID string) (domain.SessionView, error) {
	return s.mutate(sessionID, func(session *Session) { session.Next() })
}

func (s *SessionService) Previous(_ context.Context, sessionID string) (domain.SessionView, error) {
	return s.mutate(sessionID, func(session *Session) { session.Previous() })
}

// Answer records option for the current question.
func (s *SessionService) Answer(_ context.Context, sessionID, option string) (domain.SessionView, error) {
	return s.mutate(sessionID, func(session *Session) { session.Select(option) })
}

// Record records option for an explicit question index.
func (s *SessionService) Record(_ context.Context, sessionID string, index int, option string) (domain.SessionView, error) {
	return s.mutate(sessionID, func(session *Session) { session.Record(index, option) })
}

// Submit scores the attempt and hands the scaled score to the submitter. A failing
// submitter is logged and otherwise ignored: the local result is always returned.
// Repeated submits return the first result without contacting the submitter again.
func (s *SessionService) Submit(ctx context.Context, sessionID string) (domain.Result, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Result{}, err
	}

	score, already, err := session.submit(s.pointsPerQuestion)
	if err != nil {
		return domain.Result{}, err
	}
	if already {
		return session.Result()
	}
	s.sessions.Save(session)

	if s.submitter != nil {
		// The submission outlives a disconnecting client but not the timeout.
		subCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.submitTimeout)
		err := s.submitter.SubmitScore(subCtx, session.AssessmentID(), score.Scaled)
		cancel()
		if err != nil {
			s.logger.Error("score submission failed", "session_id", sessionID, "assessment_id", session.AssessmentID(), "score", score.Scaled, "error", err)
		} else {
			session.markPersisted(true)
			s.sessions.Save(session)
		}
	}

	result, err := session.Result()
	if err != nil {
		return domain.Result{}, err
	}
	s.logger.Info("assessment submitted", "session_id", sessionID, "correct", result.Correct, "total", result.Total, "persisted", result.Persisted)
	return result, nil
}

// Result returns the result of a submitted session.
func (s *SessionService) Result(_ context.Context, sessionID string) (domain.Result, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Result{}, err
	}
	return session.Result()
}

// Review renders the recap of a submitted session.
func (s *SessionService) Review(_ context.Context, sessionID string) (domain.Review, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.Review{}, err
	}
	review, err := session.Review()
	if err != nil {
		return domain.Review{}, err
	}
	s.sessions.Save(session)
	return review, nil
}

// Restart clears the attempt so the same questions can be taken again.
func (s *SessionService) Restart(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionView{}, err
	}
	if err := session.Restart(); err != nil {
		return session.View(), err
	}
	s.sessions.Save(session)
	return session.View(), nil
}

// Close drops a session; late results for it are discarded.
func (s *SessionService) Close(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *SessionService) session(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) mutate(sessionID string, fn func(*Session)) (domain.SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return domain.SessionView{}, err
	}
	fn(session)
	s.sessions.Save(session)
	return session.View(), nil
}
