package quiz

import "encoding/json"

type Kind string

const (
	KindBoolean  Kind = "boolean"
	KindMultiple Kind = "multiple"
)

// Canonical Arabic true/false option labels used across the question banks.
const (
	TokenTrue  = "صح"
	TokenFalse = "خطأ"
)

// Question is the canonical form every source record normalizes into.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
	Kind    Kind     `json:"type"`

	Hint      string          `json:"hint,omitempty"`
	Rationale json.RawMessage `json:"rationale,omitempty"`

	// Raw keeps the original source record for rendering; never served to
	// students because it can contain the answer key.
	Raw json.RawMessage `json:"raw,omitempty"`

	// CorrectUnresolved is set when no correct answer could be resolved and
	// Correct silently defaulted to 0. Callers should log it; see bank.go.
	CorrectUnresolved bool `json:"-"`
}

// Redacted returns a student-safe copy: no correct index, no raw source.
// Hint and rationale survive so the quiz screen can render them.
func (q Question) Redacted() Question {
	q.Correct = -1
	q.Raw = nil
	q.CorrectUnresolved = false
	return q
}

type Attempt struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	LessonID  int        `json:"lesson_id"`
	Questions []Question `json:"questions"`
	Status    string     `json:"status"` // in_progress|submitted
	CreatedAt int64      `json:"created_at"`
}

// Answered pairs a question with the index the student picked.
type Answered struct {
	Question
	Selected int `json:"selected"`
}

// Summary is what the student sees when an attempt is graded. Saved reports
// whether the result row was persisted; grading succeeds either way.
type Summary struct {
	AttemptID  string     `json:"attempt_id"`
	LessonID   int        `json:"lesson_id"`
	Total      int        `json:"total"`
	Correct    int        `json:"correct"`
	Percentage int        `json:"percentage"`
	Questions  []Answered `json:"questions"`
	Saved      bool       `json:"saved"`
}

type Result struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id"`
	LessonID        int             `json:"lesson_id"`
	LessonName      string          `json:"lesson_name"`
	TotalQuestions  int             `json:"total_questions"`
	CorrectAnswers  int             `json:"correct_answers"`
	ScorePercentage int             `json:"score_percentage"`
	QuestionsData   json.RawMessage `json:"questions_data,omitempty"`
	CompletedAt     int64           `json:"completed_at"`
}

type UserStats struct {
	TotalQuizzes     int     `json:"total_quizzes"`
	AverageScore     float64 `json:"average_score"`
	BestScore        int     `json:"best_score"`
	CompletedLessons int     `json:"completed_lessons"`
}

// OverviewRow is one student line on the admin overview.
type OverviewRow struct {
	UserID           string `json:"user_id"`
	FullName         string `json:"full_name"`
	StudentID        string `json:"student_id"`
	Grade            string `json:"grade"`
	TotalQuizzes     int    `json:"total_quizzes"`
	AverageScore     int    `json:"average_score"`
	CompletedLessons int    `json:"completed_lessons"`
	LastTaken        int64  `json:"last_taken,omitempty"`
}
