package app

import "assessment-service/internal/domain"

// Score counts exact matches between answers and the questions' correct options.
// Unanswered questions never match. A non-positive pointsPerQuestion falls back to the default.
func Score(questions []domain.Question, answers map[int]string, pointsPerQuestion int) domain.ScoreResult {
	if pointsPerQuestion <= 0 {
		pointsPerQuestion = domain.DefaultPointsPerQuestion
	}
	correct := 0
	for i, q := range questions {
		if selected, ok := answers[i]; ok && selected == q.Answer {
			correct++
		}
	}
	return domain.ScoreResult{
		Correct: correct,
		Total:   len(questions),
		Scaled:  correct * pointsPerQuestion,
	}
}
