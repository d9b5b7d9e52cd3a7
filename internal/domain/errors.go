package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when an assessment session does not exist.
	ErrSessionNotFound = errors.New("assessment session not found")
	// ErrAssessmentNotFound indicates the assessment could not be loaded.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrFetchFailed wraps any failure to obtain a question set.
	ErrFetchFailed = errors.New("question set unavailable")
	// ErrEmptyQuestionSet is returned when a question set has no questions.
	ErrEmptyQuestionSet = errors.New("question set is empty")
	// ErrMalformedQuestionSet is the sentinel behind MalformedQuestionSetError.
	ErrMalformedQuestionSet = errors.New("malformed question set")
	// ErrNotOnLastQuestion is returned when submit is attempted before reaching the last question.
	ErrNotOnLastQuestion = errors.New("submit is only allowed on the last question")
	// ErrNotSubmitted is returned when review is requested before submission.
	ErrNotSubmitted = errors.New("assessment not submitted")
	// ErrInvalidRequest marks caller input that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidTransition is returned when the session phase does not allow the operation.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// MalformedQuestionSetError describes why untrusted question data was rejected.
// Index is -1 when the problem is not tied to a single question.
type MalformedQuestionSetError struct {
	Index  int
	Reason string
}

func (e *MalformedQuestionSetError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("malformed question set: %s", e.Reason)
	}
	return fmt.Sprintf("malformed question set: question %d: %s", e.Index, e.Reason)
}

func (e *MalformedQuestionSetError) Unwrap() error {
	return ErrMalformedQuestionSet
}
