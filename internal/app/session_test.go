package app_test

import (
	"errors"
	"testing"
	"time"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
)

func threeQuestions() []domain.Question {
	return []domain.Question{
		{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"},
		{Question: "Q2", Options: []string{"C", "D"}, Answer: "D"},
		{Question: "Q3", Options: []string{"E", "F", "G"}, Answer: "G"},
	}
}

func loadedSession(t *testing.T) *app.Session {
	t.Helper()
	s := app.NewSession("s1", "a1")
	if err := s.Load(threeQuestions()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestSessionGoTo(t *testing.T) {
	cases := []struct {
		name  string
		start int
		index int
		want  int
	}{
		{"first", 2, 0, 0},
		{"middle", 0, 1, 1},
		{"last", 0, 2, 2},
		{"negative ignored", 1, -1, 1},
		{"past end ignored", 1, 3, 1},
		{"far past end ignored", 0, 100, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := loadedSession(t)
			s.GoTo(tc.start)
			s.GoTo(tc.index)
			if got := s.CurrentIndex(); got != tc.want {
				t.Fatalf("expected index %d, got %d", tc.want, got)
			}
		})
	}
}

func TestSessionNextPreviousDoNotWrap(t *testing.T) {
	s := loadedSession(t)

	s.Previous()
	if s.CurrentIndex() != 0 {
		t.Fatalf("previous on first question moved to %d", s.CurrentIndex())
	}
	s.Next()
	s.Next()
	s.Next()
	if s.CurrentIndex() != 2 {
		t.Fatalf("expected to stop on last question, got %d", s.CurrentIndex())
	}
	s.Previous()
	if s.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", s.CurrentIndex())
	}
}

func TestSessionRecordLastWriteWins(t *testing.T) {
	s := loadedSession(t)

	if !s.Record(1, "C") {
		t.Fatalf("record rejected")
	}
	if !s.Record(1, "D") {
		t.Fatalf("overwrite rejected")
	}
	if !s.IsAnswered(1) {
		t.Fatalf("expected question 1 answered")
	}
	if got := s.Answers()[1]; got != "D" {
		t.Fatalf("expected last write D, got %q", got)
	}
	if s.IsAnswered(0) {
		t.Fatalf("question 0 should be unanswered")
	}
}

func TestSessionRecordAcceptsUnknownOption(t *testing.T) {
	s := loadedSession(t)
	if !s.Record(0, "not an option") {
		t.Fatalf("expected permissive record")
	}
	if got := s.Answers()[0]; got != "not an option" {
		t.Fatalf("unexpected stored option %q", got)
	}
}

func TestSessionRecordOutOfRangeIgnored(t *testing.T) {
	s := loadedSession(t)
	if s.Record(3, "A") || s.Record(-1, "A") {
		t.Fatalf("out-of-range record should be rejected")
	}
	if len(s.Answers()) != 0 {
		t.Fatalf("expected no answers, got %v", s.Answers())
	}
}

func TestSessionSelectUsesCursor(t *testing.T) {
	s := loadedSession(t)
	s.GoTo(2)
	s.Select("G")
	if got := s.Answers()[2]; got != "G" {
		t.Fatalf("expected answer at cursor, got %v", s.Answers())
	}
}

func TestSessionLoadEmptyFails(t *testing.T) {
	s := app.NewSession("s1", "a1")
	err := s.Load(nil)
	if !errors.Is(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected empty set error, got %v", err)
	}
	if s.Phase() != domain.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", s.Phase())
	}
	if err := s.Restart(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected restart to be refused from failed, got %v", err)
	}
}

func TestSessionLoadTwiceRefused(t *testing.T) {
	s := loadedSession(t)
	if err := s.Load(threeQuestions()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestSessionResultBeforeSubmit(t *testing.T) {
	s := loadedSession(t)
	if _, err := s.Result(); !errors.Is(err, domain.ErrNotSubmitted) {
		t.Fatalf("expected not submitted, got %v", err)
	}
	if _, err := s.Review(); !errors.Is(err, domain.ErrNotSubmitted) {
		t.Fatalf("expected review to require submission, got %v", err)
	}
}

func TestSessionRestartClearsState(t *testing.T) {
	s := loadedSession(t)
	s.Record(0, "A")
	s.Record(2, "E")
	s.GoTo(2)

	if err := s.Restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(s.Answers()) != 0 {
		t.Fatalf("expected answers cleared, got %v", s.Answers())
	}
	if s.CurrentIndex() != 0 {
		t.Fatalf("expected cursor reset, got %d", s.CurrentIndex())
	}
	if s.Phase() != domain.PhaseInProgress {
		t.Fatalf("expected in progress, got %s", s.Phase())
	}
	if _, err := s.Result(); !errors.Is(err, domain.ErrNotSubmitted) {
		t.Fatalf("expected submission cleared, got %v", err)
	}
}

func TestSessionViewHidesAnswer(t *testing.T) {
	s := loadedSession(t)
	s.Record(1, "C")

	view := s.View()
	if view.Question == nil || view.Question.Question != "Q1" {
		t.Fatalf("expected first question in view, got %+v", view.Question)
	}
	if view.Total != 3 || view.Answered != 1 {
		t.Fatalf("unexpected progress %d/%d", view.Answered, view.Total)
	}
	if len(view.Navigation) != 3 || !view.Navigation[0].Current || !view.Navigation[1].Answered {
		t.Fatalf("unexpected navigation %+v", view.Navigation)
	}
}

func TestSessionSnapshotRestore(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := app.NewSessionWithClock("s1", "a1", func() time.Time { return created })
	if err := s.Load(threeQuestions()); err != nil {
		t.Fatalf("load: %v", err)
	}
	s.Record(0, "A")
	s.GoTo(1)

	restored := app.RestoreSession(s.Snapshot())
	if restored.ID() != "s1" || restored.AssessmentID() != "a1" {
		t.Fatalf("identity lost: %s/%s", restored.ID(), restored.AssessmentID())
	}
	if !restored.CreatedAt().Equal(created) {
		t.Fatalf("created at lost: %v", restored.CreatedAt())
	}
	if restored.CurrentIndex() != 1 || restored.Answers()[0] != "A" {
		t.Fatalf("state lost: index=%d answers=%v", restored.CurrentIndex(), restored.Answers())
	}
	if restored.Phase() != domain.PhaseInProgress {
		t.Fatalf("phase lost: %s", restored.Phase())
	}
}
