package app_test

import (
	"testing"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
)

func TestBuildReviewClassification(t *testing.T) {
	qs := []domain.Question{{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"}}

	cases := []struct {
		name    string
		answers map[int]string
		status  domain.QuestionStatus
		marks   []domain.OptionMark
	}{
		{"unattempted", map[int]string{}, domain.StatusUnattempted, []domain.OptionMark{domain.MarkCorrect, domain.MarkNone}},
		{"correct", map[int]string{0: "A"}, domain.StatusCorrect, []domain.OptionMark{domain.MarkCorrect, domain.MarkNone}},
		{"incorrect", map[int]string{0: "B"}, domain.StatusIncorrect, []domain.OptionMark{domain.MarkCorrect, domain.MarkIncorrect}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			review := app.BuildReview(qs, tc.answers)
			if len(review.Items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(review.Items))
			}
			item := review.Items[0]
			if item.Status != tc.status {
				t.Fatalf("expected %s, got %s", tc.status, item.Status)
			}
			if item.Answer != "A" {
				t.Fatalf("expected correct answer A, got %q", item.Answer)
			}
			for i, want := range tc.marks {
				if got := item.Options[i].Mark; got != want {
					t.Fatalf("option %q: expected mark %s, got %s", item.Options[i].Text, want, got)
				}
			}
		})
	}
}

func TestBuildReviewSummary(t *testing.T) {
	review := app.BuildReview(threeQuestions(), map[int]string{0: "A", 1: "C"})
	if review.Correct != 1 || review.Total != 3 || review.Percentage != 33 {
		t.Fatalf("unexpected summary %+v", review)
	}
	if !review.Items[1].Options[0].Selected || review.Items[1].Options[1].Selected {
		t.Fatalf("expected selection flag on option C only: %+v", review.Items[1].Options)
	}
	if review.Items[2].Status != domain.StatusUnattempted {
		t.Fatalf("expected third question unattempted, got %s", review.Items[2].Status)
	}
}
