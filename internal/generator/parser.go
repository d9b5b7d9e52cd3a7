package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"assessment-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// rawQuestion accepts the key spellings seen from models and stored exams.
type rawQuestion struct {
	Question      string   `json:"question"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Parse turns untrusted model output into a question set. The payload may be wrapped in a
// markdown code fence and may be a bare array or an object with a "questions" array.
// Every failure is a *domain.MalformedQuestionSetError.
func Parse(raw string) ([]domain.Question, error) {
	payload := bytes.TrimSpace([]byte(stripFence(raw)))
	if len(payload) == 0 {
		return nil, &domain.MalformedQuestionSetError{Index: -1, Reason: "empty response"}
	}

	var items []rawQuestion
	switch payload[0] {
	case '[':
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, &domain.MalformedQuestionSetError{Index: -1, Reason: fmt.Sprintf("invalid json: %v", err)}
		}
	case '{':
		var wrapper struct {
			Questions []rawQuestion `json:"questions"`
		}
		if err := json.Unmarshal(payload, &wrapper); err != nil {
			return nil, &domain.MalformedQuestionSetError{Index: -1, Reason: fmt.Sprintf("invalid json: %v", err)}
		}
		items = wrapper.Questions
	default:
		return nil, &domain.MalformedQuestionSetError{Index: -1, Reason: "expected a json array or object"}
	}
	if len(items) == 0 {
		return nil, &domain.MalformedQuestionSetError{Index: -1, Reason: "no questions"}
	}

	questions := make([]domain.Question, 0, len(items))
	for i, item := range items {
		q := domain.Question{
			Question: strings.TrimSpace(firstNonEmpty(item.Question, item.QuestionText)),
			Options:  item.Options,
			Answer:   firstNonEmpty(item.Answer, item.CorrectAnswer),
		}
		if err := Validate(q); err != nil {
			return nil, &domain.MalformedQuestionSetError{Index: i, Reason: err.Error()}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// Validate checks a single question: text, at least one non-empty option, and an answer
// equal to one of the options.
func Validate(q domain.Question) error {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("field %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return fmt.Errorf("answer %q is not one of the options", q.Answer)
}

func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string, e.g. ```json.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimLeftFunc(s, func(r rune) bool { return r != '[' && r != '{' })
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
