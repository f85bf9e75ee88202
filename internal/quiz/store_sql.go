package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	syncx "github.com/seraj-edu/seraj/internal/sync"
)

type SQLStore struct {
	db           *sql.DB
	attemptLimit int
	events       *syncx.EventRepo // optional, nil disables activity logging
}

func NewSQLStore(db *sql.DB, attemptLimit int, events *syncx.EventRepo) *SQLStore {
	if attemptLimit <= 0 {
		attemptLimit = 3
	}
	return &SQLStore{db: db, attemptLimit: attemptLimit, events: events}
}

func (s *SQLStore) NewAttempt(ctx context.Context, userID string, lessonID int, qs []Question) (Attempt, error) {
	if lessonID > 1 {
		prev, err := s.CountResults(ctx, userID, lessonID-1)
		if err != nil {
			return Attempt{}, err
		}
		if prev == 0 {
			return Attempt{}, ErrLessonLocked
		}
	}
	n, err := s.CountResults(ctx, userID, lessonID)
	if err != nil {
		return Attempt{}, err
	}
	if n >= s.attemptLimit {
		return Attempt{}, ErrAttemptLimit
	}

	qj, err := json.Marshal(qs)
	if err != nil {
		return Attempt{}, err
	}
	a := Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		LessonID:  lessonID,
		Questions: qs,
		Status:    "in_progress",
		CreatedAt: time.Now().Unix(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_attempts (id,user_id,lesson_id,questions_json,status,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.UserID, a.LessonID, string(qj), a.Status, a.CreatedAt)
	if err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id, userID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,lesson_id,questions_json,status,created_at
		 FROM quiz_attempts WHERE id=$1 AND user_id=$2`, id, userID)
	var a Attempt
	var qjson string
	if err := row.Scan(&a.ID, &a.UserID, &a.LessonID, &qjson, &a.Status, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrAttemptNotFound
		}
		return Attempt{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &a.Questions); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) Submit(ctx context.Context, attemptID, userID string, answers []int) (Summary, error) {
	a, err := s.GetAttempt(ctx, attemptID, userID)
	if err != nil {
		return Summary{}, err
	}
	if a.Status == "submitted" {
		return Summary{}, ErrAlreadySubmitted
	}
	if len(answers) != len(a.Questions) {
		return Summary{}, fmt.Errorf("expected %d answers, got %d", len(a.Questions), len(answers))
	}

	sum := Summary{
		AttemptID: a.ID,
		LessonID:  a.LessonID,
		Total:     len(a.Questions),
		Questions: make([]Answered, len(a.Questions)),
	}
	for i, q := range a.Questions {
		sum.Questions[i] = Answered{Question: q, Selected: answers[i]}
		if answers[i] == q.Correct {
			sum.Correct++
		}
	}
	if sum.Total > 0 {
		sum.Percentage = int(math.Round(float64(sum.Correct) / float64(sum.Total) * 100))
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE quiz_attempts SET status='submitted' WHERE id=$1`, a.ID); err != nil {
		return Summary{}, err
	}

	sum.Saved = s.saveResult(ctx, a, sum)
	return sum, nil
}

// saveResult is best-effort: the graded summary has already been produced
// and a persistence failure must not take it away from the student. The
// attempt cap is re-checked here because the check at attempt start races
// with concurrent attempts by the same user.
func (s *SQLStore) saveResult(ctx context.Context, a Attempt, sum Summary) bool {
	n, err := s.CountResults(ctx, a.UserID, a.LessonID)
	if err != nil {
		log.Printf("quiz: result save skipped, count failed: %v", err)
		return false
	}
	if n >= s.attemptLimit {
		log.Printf("quiz: result save refused, attempt limit reached for user=%s lesson=%d", a.UserID, a.LessonID)
		return false
	}

	qd, _ := json.Marshal(sum.Questions)
	now := time.Now().Unix()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (user_id,lesson_id,lesson_name,total_questions,correct_answers,score_percentage,questions_data,completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.UserID, a.LessonID, fmt.Sprintf("Lesson %d", a.LessonID),
		sum.Total, sum.Correct, sum.Percentage, string(qd), now)
	if err != nil {
		log.Printf("quiz: result save failed: %v", err)
		return false
	}

	if s.events != nil {
		payload, _ := json.Marshal(map[string]any{
			"user_id": a.UserID, "lesson_id": a.LessonID, "score": sum.Percentage,
		})
		if err := s.events.Append(ctx, syncx.Event{Type: syncx.EventQuizSubmitted, Key: a.ID, DataJSON: string(payload)}); err != nil {
			log.Printf("quiz: activity log append failed: %v", err)
		}
	}
	return true
}

func (s *SQLStore) CountResults(ctx context.Context, userID string, lessonID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id=$1 AND lesson_id=$2`,
		userID, lessonID).Scan(&n)
	return n, err
}

func (s *SQLStore) ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error) {
	if opts.Limit <= 0 || opts.Limit > 200 {
		opts.Limit = 50
	}
	q := `SELECT id,user_id,lesson_id,lesson_name,total_questions,correct_answers,score_percentage,questions_data,completed_at
	      FROM quiz_results WHERE user_id=$1`
	args := []any{opts.UserID}
	if opts.LessonID > 0 {
		q += ` AND lesson_id=$2`
		args = append(args, opts.LessonID)
	}
	q += fmt.Sprintf(` ORDER BY completed_at DESC LIMIT %d OFFSET %d`, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		var qd string
		if err := rows.Scan(&r.ID, &r.UserID, &r.LessonID, &r.LessonName,
			&r.TotalQuestions, &r.CorrectAnswers, &r.ScorePercentage, &qd, &r.CompletedAt); err != nil {
			return nil, err
		}
		r.QuestionsData = json.RawMessage(qd)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Stats(ctx context.Context, userID string) (UserStats, error) {
	var st UserStats
	var avg sql.NullFloat64
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score_percentage), MAX(score_percentage), COUNT(DISTINCT lesson_id)
		 FROM quiz_results WHERE user_id=$1`, userID).
		Scan(&st.TotalQuizzes, &avg, &best, &st.CompletedLessons)
	if err != nil {
		return UserStats{}, err
	}
	st.AverageScore = avg.Float64
	st.BestScore = int(best.Int64)
	return st, nil
}

func (s *SQLStore) Overview(ctx context.Context) ([]OverviewRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.full_name, u.student_id, u.grade,
		        COUNT(r.id), COALESCE(AVG(r.score_percentage),0),
		        COUNT(DISTINCT r.lesson_id), COALESCE(MAX(r.completed_at),0)
		 FROM users u
		 LEFT JOIN quiz_results r ON r.user_id = u.id
		 WHERE u.role = 'student'
		 GROUP BY u.id, u.full_name, u.student_id, u.grade
		 ORDER BY u.full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OverviewRow{}
	for rows.Next() {
		var o OverviewRow
		var avg float64
		if err := rows.Scan(&o.UserID, &o.FullName, &o.StudentID, &o.Grade,
			&o.TotalQuizzes, &avg, &o.CompletedLessons, &o.LastTaken); err != nil {
			return nil, err
		}
		o.AverageScore = int(math.Round(avg))
		out = append(out, o)
	}
	return out, rows.Err()
}
