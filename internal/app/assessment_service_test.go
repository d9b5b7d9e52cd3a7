package app_test

import (
	"context"
	"errors"
	"testing"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
)

type fakeGenerator struct {
	got       domain.GenerateRequest
	questions []domain.Question
	err       error
}

func (g *fakeGenerator) Generate(_ context.Context, req domain.GenerateRequest) ([]domain.Question, error) {
	g.got = req
	return g.questions, g.err
}

func TestAssessmentGenerateStores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAssessmentStore()
	gen := &fakeGenerator{questions: threeQuestions()}
	service := app.NewAssessmentService(store, gen, nil)

	a, err := service.Generate(ctx, domain.GenerateRequest{UserID: "u1", Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a.ID == "" || a.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", a)
	}

	stored, err := service.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(stored.Questions) != 3 || stored.Topic != "Go" {
		t.Fatalf("unexpected stored assessment %+v", stored)
	}
}

func TestAssessmentGenerateValidatesRequest(t *testing.T) {
	gen := &fakeGenerator{questions: threeQuestions()}
	service := app.NewAssessmentService(memory.NewAssessmentStore(), gen, nil)

	cases := []domain.GenerateRequest{
		{Topic: "Go"},
		{UserID: "u1"},
		{UserID: "u1", Topic: "Go", Skills: []string{""}},
	}
	for _, req := range cases {
		if _, err := service.Generate(context.Background(), req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Fatalf("expected invalid request for %+v, got %v", req, err)
		}
	}
	if gen.got.UserID != "" || gen.got.Topic != "" {
		t.Fatalf("generator called for an invalid request: %+v", gen.got)
	}
}

func TestAssessmentGenerateFailureNotStored(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAssessmentStore()
	gen := &fakeGenerator{err: &domain.MalformedQuestionSetError{Index: 1, Reason: "answer not in options"}}
	service := app.NewAssessmentService(store, gen, nil)

	_, err := service.Generate(ctx, domain.GenerateRequest{UserID: "u1", Topic: "Go"})
	if !errors.Is(err, domain.ErrMalformedQuestionSet) {
		t.Fatalf("expected malformed set, got %v", err)
	}
	list, _ := service.ListByUser(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(list))
	}
}

func TestAssessmentListsAndScore(t *testing.T) {
	ctx := context.Background()
	service := app.NewAssessmentService(memory.NewAssessmentStore(), &fakeGenerator{questions: threeQuestions()}, nil)

	topic, _ := service.Generate(ctx, domain.GenerateRequest{UserID: "u1", Topic: "Go"})
	course, err := service.Generate(ctx, domain.GenerateRequest{
		UserID:     "u1",
		Topic:      "Go",
		CourseID:   "c1",
		Skills:     []string{"channels"},
		Difficulty: "hard",
	})
	if err != nil {
		t.Fatalf("generate course end: %v", err)
	}
	_, _ = service.Generate(ctx, domain.GenerateRequest{UserID: "u2", Topic: "Go", CourseID: "c1"})

	byUser, _ := service.ListByUser(ctx, "u1")
	if len(byUser) != 2 {
		t.Fatalf("expected 2 for u1, got %d", len(byUser))
	}
	byCourse, _ := service.ListByCourse(ctx, "c1", "u1")
	if len(byCourse) != 1 || byCourse[0].ID != course.ID {
		t.Fatalf("unexpected course listing %+v", byCourse)
	}
	allCourse, _ := service.ListByCourse(ctx, "c1", "")
	if len(allCourse) != 2 {
		t.Fatalf("expected 2 course assessments, got %d", len(allCourse))
	}

	updated, err := service.UpdateScore(ctx, topic.ID, 30)
	if err != nil || updated.Score != 30 {
		t.Fatalf("update score: %+v %v", updated, err)
	}
	if _, err := service.UpdateScore(ctx, topic.ID, -1); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected negative score rejected, got %v", err)
	}
	if _, err := service.UpdateScore(ctx, "missing", 10); !errors.Is(err, domain.ErrAssessmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssessmentImport(t *testing.T) {
	ctx := context.Background()
	service := app.NewAssessmentService(memory.NewAssessmentStore(), &fakeGenerator{}, nil)

	if _, err := service.Import(ctx, "u1", "Go", "", nil); !errors.Is(err, domain.ErrEmptyQuestionSet) {
		t.Fatalf("expected empty set, got %v", err)
	}
	a, err := service.Import(ctx, "u1", "Go", "c1", threeQuestions())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if a.CourseID != "c1" {
		t.Fatalf("course lost: %+v", a)
	}
}
