package app

import "assessment-service/internal/domain"

// BuildReview classifies every question against the recorded answers.
// The correct option is always marked; a wrong selection is marked alongside it.
func BuildReview(questions []domain.Question, answers map[int]string) domain.Review {
	score := Score(questions, answers, domain.DefaultPointsPerQuestion)
	items := make([]domain.ReviewItem, 0, len(questions))
	for i, q := range questions {
		selected, attempted := answers[i]

		status := domain.StatusUnattempted
		if attempted {
			status = domain.StatusIncorrect
			if selected == q.Answer {
				status = domain.StatusCorrect
			}
		}

		options := make([]domain.ReviewOption, 0, len(q.Options))
		for _, opt := range q.Options {
			mark := domain.MarkNone
			switch {
			case opt == q.Answer:
				mark = domain.MarkCorrect
			case attempted && opt == selected:
				mark = domain.MarkIncorrect
			}
			options = append(options, domain.ReviewOption{
				Text:     opt,
				Mark:     mark,
				Selected: attempted && opt == selected,
			})
		}

		items = append(items, domain.ReviewItem{
			Index:    i,
			Question: q.Question,
			Status:   status,
			Selected: selected,
			Answer:   q.Answer,
			Options:  options,
		})
	}
	return domain.Review{
		Correct:    score.Correct,
		Total:      score.Total,
		Percentage: score.Percentage(),
		Items:      items,
	}
}
