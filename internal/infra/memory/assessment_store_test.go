package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"assessment-service/internal/domain"
)

func TestAssessmentStoreOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []domain.Assessment{
		{ID: "b", UserID: "u1", Topic: "Go", CourseID: "c1", Questions: sampleQuestions(), CreatedAt: base.Add(time.Hour)},
		{ID: "a", UserID: "u1", Topic: "Go", Questions: sampleQuestions(), CreatedAt: base},
		{ID: "c", UserID: "u2", Topic: "Go", CourseID: "c1", Questions: sampleQuestions(), CreatedAt: base},
	}
	for _, a := range fixtures {
		if err := store.Create(ctx, a); err != nil {
			t.Fatalf("create %s: %v", a.ID, err)
		}
	}

	byUser, _ := store.ListByUser(ctx, "u1")
	if len(byUser) != 2 || byUser[0].ID != "a" || byUser[1].ID != "b" {
		t.Fatalf("expected oldest first, got %+v", byUser)
	}
	byCourse, _ := store.ListByCourse(ctx, "c1", "")
	if len(byCourse) != 2 || byCourse[0].ID != "c" {
		t.Fatalf("unexpected course listing %+v", byCourse)
	}
	empty, _ := store.ListByUser(ctx, "nobody")
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}
}

func TestAssessmentStoreScoreAndLoader(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()
	_ = store.Create(ctx, domain.Assessment{ID: "a1", UserID: "u1", Topic: "Go", Questions: sampleQuestions()})

	if err := store.SubmitScore(ctx, "a1", 20); err != nil {
		t.Fatalf("submit score: %v", err)
	}
	a, _ := store.Get(ctx, "a1")
	if a.Score != 20 {
		t.Fatalf("expected score 20, got %d", a.Score)
	}
	if err := store.SubmitScore(ctx, "missing", 1); !errors.Is(err, domain.ErrAssessmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	qs, err := store.LoadQuestions(ctx, "a1")
	if err != nil || len(qs) != 2 {
		t.Fatalf("load questions: %v %v", qs, err)
	}
}
