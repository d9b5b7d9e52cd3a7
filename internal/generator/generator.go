package generator

import (
	"context"
	"fmt"
	"log/slog"

	"assessment-service/internal/domain"
)

// DefaultQuestionCount is how many questions a generated assessment asks for.
const DefaultQuestionCount = 10

// Model is a text-completion collaborator. Its output is untrusted.
type Model interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator builds prompts, calls the model, and parses the answer into questions.
type Generator struct {
	model  Model
	count  int
	logger *slog.Logger
}

func New(model Model, count int, logger *slog.Logger) *Generator {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{model: model, count: count, logger: logger}
}

// Generate returns a validated question set for req.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) ([]domain.Question, error) {
	prompt := TopicPrompt(req.Topic, g.count)
	if req.CourseEnd() {
		prompt = CourseEndPrompt(req.Topic, req.Difficulty, req.Skills, g.count)
	}

	text, err := g.model.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model completion: %w", err)
	}
	questions, err := Parse(text)
	if err != nil {
		g.logger.Warn("model returned malformed question set", "topic", req.Topic, "error", err)
		return nil, err
	}
	if len(questions) != g.count {
		g.logger.Info("model returned unexpected question count", "topic", req.Topic, "want", g.count, "got", len(questions))
	}
	return questions, nil
}
