package app

import (
	"fmt"
	"sync"
	"time"

	"assessment-service/internal/domain"
)

// Session is one run through a fixed question set. All state is guarded by mu;
// callers never see the underlying slices or maps.
type Session struct {
	id           string
	assessmentID string
	createdAt    time.Time
	now          func() time.Time

	mu         sync.Mutex
	phase      domain.Phase
	questions  []domain.Question
	current    int
	answers    Answers
	submitted  bool
	score      domain.ScoreResult
	persisted  bool
	failReason string
}

// NewSession creates a session in the loading phase.
func NewSession(id, assessmentID string) *Session {
	return newSessionWithClock(id, assessmentID, time.Now)
}

// NewSessionWithClock is NewSession with an explicit clock.
func NewSessionWithClock(id, assessmentID string, now func() time.Time) *Session {
	return newSessionWithClock(id, assessmentID, now)
}

func newSessionWithClock(id, assessmentID string, now func() time.Time) *Session {
	return &Session{
		id:           id,
		assessmentID: assessmentID,
		createdAt:    now(),
		now:          now,
		phase:        domain.PhaseLoading,
		answers:      make(Answers),
	}
}

// RestoreSession rebuilds a session from a snapshot.
func RestoreSession(snap domain.SessionSnapshot) *Session {
	s := newSessionWithClock(snap.ID, snap.AssessmentID, time.Now)
	s.createdAt = snap.CreatedAt
	s.phase = snap.Phase
	s.questions = append([]domain.Question(nil), snap.Questions...)
	s.current = snap.CurrentIndex
	for k, v := range snap.Answers {
		s.answers.Record(k, v)
	}
	s.submitted = snap.Submitted
	s.score = snap.Score
	s.persisted = snap.Persisted
	s.failReason = snap.FailReason
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) AssessmentID() string { return s.assessmentID }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Phase returns the current lifecycle phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// CurrentIndex returns the navigation cursor.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Load moves a loading session to in progress. An empty set fails the session.
func (s *Session) Load(questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseLoading {
		return fmt.Errorf("load in phase %s: %w", s.phase, domain.ErrInvalidTransition)
	}
	if len(questions) == 0 {
		s.failLocked(domain.ErrEmptyQuestionSet)
		return domain.ErrEmptyQuestionSet
	}
	s.questions = append([]domain.Question(nil), questions...)
	s.current = 0
	s.phase = domain.PhaseInProgress
	return nil
}

// Fail marks a loading session as failed. Other phases are left untouched.
func (s *Session) Fail(reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == domain.PhaseLoading {
		s.failLocked(reason)
	}
}

func (s *Session) failLocked(reason error) {
	s.phase = domain.PhaseFailed
	if reason != nil {
		s.failReason = reason.Error()
	}
}

// GoTo moves the cursor to index. Out-of-range targets and non-active phases are ignored.
func (s *Session) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(index)
}

// Next advances the cursor; no-op on the last question.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current + 1)
}

// Previous moves the cursor back; no-op on the first question.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current - 1)
}

func (s *Session) goToLocked(index int) {
	if s.phase != domain.PhaseInProgress {
		return
	}
	if index < 0 || index >= len(s.questions) {
		return
	}
	s.current = index
}

// Record stores option for index. It reports false when the write had no effect:
// the index is out of range or the attempt is no longer in progress.
// The option value itself is not checked against the question's options.
func (s *Session) Record(index int, option string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(index, option)
}

// Select records option for the current question.
func (s *Session) Select(option string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(s.current, option)
}

func (s *Session) recordLocked(index int, option string) bool {
	if s.phase != domain.PhaseInProgress {
		return false
	}
	if index < 0 || index >= len(s.questions) {
		return false
	}
	s.answers.Record(index, option)
	return true
}

// IsAnswered reports whether index has a recorded selection.
func (s *Session) IsAnswered(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.IsAnswered(index)
}

// Answers returns a copy of the recorded selections.
func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Snapshot()
}

// submit freezes the attempt and scores it. The second return value is true when
// the attempt had already been submitted; the stored score is returned unchanged.
func (s *Session) submit(pointsPerQuestion int) (domain.ScoreResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case domain.PhaseSubmitted, domain.PhaseReviewing:
		return s.score, true, nil
	case domain.PhaseInProgress:
	default:
		return domain.ScoreResult{}, false, fmt.Errorf("submit in phase %s: %w", s.phase, domain.ErrInvalidTransition)
	}
	if s.current != len(s.questions)-1 {
		return domain.ScoreResult{}, false, domain.ErrNotOnLastQuestion
	}

	s.score = Score(s.questions, s.answers, pointsPerQuestion)
	s.submitted = true
	s.persisted = false
	s.phase = domain.PhaseSubmitted
	return s.score, false, nil
}

func (s *Session) markPersisted(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitted {
		s.persisted = ok
	}
}

// Result returns the submitted result, or ErrNotSubmitted.
func (s *Session) Result() (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitted {
		return domain.Result{}, domain.ErrNotSubmitted
	}
	return domain.NewResult(s.id, s.assessmentID, s.score, s.persisted), nil
}

// Review moves a submitted session to reviewing and renders the recap.
func (s *Session) Review() (domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case domain.PhaseSubmitted:
		s.phase = domain.PhaseReviewing
	case domain.PhaseReviewing:
	default:
		return domain.Review{}, domain.ErrNotSubmitted
	}
	return BuildReview(s.questions, s.answers), nil
}

// Restart clears answers, cursor and submission so the same questions can be retaken.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case domain.PhaseInProgress, domain.PhaseSubmitted, domain.PhaseReviewing:
	default:
		return fmt.Errorf("restart in phase %s: %w", s.phase, domain.ErrInvalidTransition)
	}
	s.answers.Clear()
	s.current = 0
	s.submitted = false
	s.persisted = false
	s.score = domain.ScoreResult{}
	s.phase = domain.PhaseInProgress
	return nil
}

// View renders the client-facing state.
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := domain.SessionView{
		SessionID:    s.id,
		AssessmentID: s.assessmentID,
		Phase:        s.phase,
		CurrentIndex: s.current,
		Total:        len(s.questions),
		Answered:     s.answers.Len(),
		Navigation:   make([]domain.NavigationEntry, 0, len(s.questions)),
		Error:        s.failReason,
	}
	for i := range s.questions {
		view.Navigation = append(view.Navigation, domain.NavigationEntry{
			Index:    i,
			Answered: s.answers.IsAnswered(i),
			Current:  i == s.current,
		})
	}
	if s.phase == domain.PhaseInProgress && len(s.questions) > 0 {
		q := s.questions[s.current]
		view.Question = &domain.QuestionView{
			Question: q.Question,
			Options:  append([]string(nil), q.Options...),
		}
		view.Selected, _ = s.answers.Get(s.current)
	}
	return view
}

// Snapshot captures the full session state.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{
		ID:           s.id,
		AssessmentID: s.assessmentID,
		Phase:        s.phase,
		Questions:    append([]domain.Question(nil), s.questions...),
		CurrentIndex: s.current,
		Answers:      s.answers.Snapshot(),
		Submitted:    s.submitted,
		Score:        s.score,
		Persisted:    s.persisted,
		FailReason:   s.failReason,
		CreatedAt:    s.createdAt,
	}
}
