package domain

import "time"

// DefaultPointsPerQuestion is the scaled value of one correct answer.
const DefaultPointsPerQuestion = 10

// Question models a multiple-choice question. Answer holds the text of the correct option.
type Question struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=1,dive,required"`
	Answer   string   `json:"answer" validate:"required"`
}

// Assessment is a stored question set owned by a user, optionally tied to a course.
type Assessment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Topic     string     `json:"topic"`
	CourseID  string     `json:"courseId,omitempty"`
	Questions []Question `json:"questions"`
	Score     int        `json:"score"`
	CreatedAt time.Time  `json:"createdAt"`
}

// GenerateRequest asks for a new AI-generated assessment. Skills and Difficulty are set for
// course-end assessments.
type GenerateRequest struct {
	UserID     string   `json:"userId" validate:"required"`
	Topic      string   `json:"topic" validate:"required"`
	CourseID   string   `json:"courseId,omitempty"`
	Skills     []string `json:"skills,omitempty" validate:"omitempty,dive,required"`
	Difficulty string   `json:"difficultyLevel,omitempty" validate:"omitempty,max=32"`
}

// CourseEnd reports whether the request is for a course-end assessment.
func (r GenerateRequest) CourseEnd() bool {
	return r.CourseID != ""
}

// Phase is the lifecycle position of an assessment session.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
	PhaseReviewing  Phase = "reviewing"
	PhaseFailed     Phase = "failed"
)

// ScoreResult is the outcome of scoring a set of answers.
type ScoreResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Scaled  int `json:"scaled"`
}

// Percentage returns Correct/Total*100 rounded half up. An empty set scores 0.
func (r ScoreResult) Percentage() int {
	if r.Total <= 0 {
		return 0
	}
	return (r.Correct*200 + r.Total) / (2 * r.Total)
}

// ResultMessage maps a percentage to the encouragement shown with a result.
func ResultMessage(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent!"
	case percentage >= 70:
		return "Good job!"
	case percentage >= 50:
		return "Well done!"
	default:
		return "Keep practicing!"
	}
}

// Result is what a learner sees after submitting.
type Result struct {
	SessionID    string `json:"sessionId"`
	AssessmentID string `json:"assessmentId"`
	Correct      int    `json:"correct"`
	Total        int    `json:"total"`
	Scaled       int    `json:"scaled"`
	Percentage   int    `json:"percentage"`
	Message      string `json:"message"`
	// Persisted reports whether the submission gateway accepted the score.
	Persisted bool `json:"persisted"`
}

// NewResult builds a Result from a score.
func NewResult(sessionID, assessmentID string, score ScoreResult, persisted bool) Result {
	pct := score.Percentage()
	return Result{
		SessionID:    sessionID,
		AssessmentID: assessmentID,
		Correct:      score.Correct,
		Total:        score.Total,
		Scaled:       score.Scaled,
		Percentage:   pct,
		Message:      ResultMessage(pct),
		Persisted:    persisted,
	}
}

// QuestionStatus classifies a reviewed question.
type QuestionStatus string

const (
	StatusCorrect     QuestionStatus = "correct"
	StatusIncorrect   QuestionStatus = "incorrect"
	StatusUnattempted QuestionStatus = "unattempted"
)

// OptionMark highlights an option in review.
type OptionMark string

const (
	MarkNone      OptionMark = "none"
	MarkCorrect   OptionMark = "correct"
	MarkIncorrect OptionMark = "incorrect"
)

// ReviewOption is one option of a reviewed question.
type ReviewOption struct {
	Text     string     `json:"text"`
	Mark     OptionMark `json:"mark"`
	Selected bool       `json:"selected"`
}

// ReviewItem is the recap of one question.
type ReviewItem struct {
	Index    int            `json:"index"`
	Question string         `json:"question"`
	Status   QuestionStatus `json:"status"`
	Selected string         `json:"selected,omitempty"`
	Answer   string         `json:"answer"`
	Options  []ReviewOption `json:"options"`
}

// Review is the read-only recap of a submitted attempt.
type Review struct {
	Correct    int          `json:"correct"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Items      []ReviewItem `json:"items"`
}

// NavigationEntry is one cell of the question navigation panel.
type NavigationEntry struct {
	Index    int  `json:"index"`
	Answered bool `json:"answered"`
	Current  bool `json:"current"`
}

// QuestionView is a question without its correct answer.
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SessionView is a snapshot-friendly view of a session for clients.
type SessionView struct {
	SessionID    string            `json:"sessionId"`
	AssessmentID string            `json:"assessmentId"`
	Phase        Phase             `json:"phase"`
	CurrentIndex int               `json:"currentIndex"`
	Total        int               `json:"total"`
	Answered     int               `json:"answered"`
	Question     *QuestionView     `json:"question,omitempty"`
	Selected     string            `json:"selected,omitempty"`
	Navigation   []NavigationEntry `json:"navigation"`
	Error        string            `json:"error,omitempty"`
}

// SessionSnapshot is the serializable state of a session, used to persist it between instances.
type SessionSnapshot struct {
	ID           string         `json:"id"`
	AssessmentID string         `json:"assessmentId"`
	Phase        Phase          `json:"phase"`
	Questions    []Question     `json:"questions"`
	CurrentIndex int            `json:"currentIndex"`
	Answers      map[int]string `json:"answers"`
	Submitted    bool           `json:"submitted"`
	Score        ScoreResult    `json:"score"`
	Persisted    bool           `json:"persisted"`
	FailReason   string         `json:"failReason,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}
