package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/seraj-edu/seraj/internal/db"
)

var memSeq int

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	memSeq++
	dsn := fmt.Sprintf("file:quizstore%d?mode=memory&cache=shared", memSeq)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h, err := db.Open(ctx, db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func someQuestions(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			ID:      fmt.Sprintf("q%d", i),
			Text:    fmt.Sprintf("سؤال %d", i),
			Options: []string{"أ", "ب", "ج"},
			Correct: i % 3,
			Kind:    KindMultiple,
		}
	}
	return qs
}

func correctAnswers(qs []Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.Correct
	}
	return out
}

func TestAttemptFlow(t *testing.T) {
	store := NewSQLStore(testDB(t), 3, nil)
	ctx := context.Background()

	a, err := store.NewAttempt(ctx, "u1", 1, someQuestions(4))
	if err != nil {
		t.Fatalf("new attempt: %v", err)
	}
	if a.ID == "" || a.Status != "in_progress" {
		t.Fatalf("attempt = %+v", a)
	}

	got, err := store.GetAttempt(ctx, a.ID, "u1")
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if len(got.Questions) != 4 || got.Questions[1].Correct != 1 {
		t.Fatalf("stored questions lost the answer key: %+v", got.Questions)
	}

	// Someone else's attempt is invisible.
	if _, err := store.GetAttempt(ctx, a.ID, "u2"); !errors.Is(err, ErrAttemptNotFound) {
		t.Fatalf("cross-user get: %v", err)
	}

	answers := correctAnswers(got.Questions)
	answers[0] = (answers[0] + 1) % 3 // one wrong
	sum, err := store.Submit(ctx, a.ID, "u1", answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sum.Total != 4 || sum.Correct != 3 || sum.Percentage != 75 {
		t.Fatalf("summary = %+v", sum)
	}
	if !sum.Saved {
		t.Fatal("result not saved")
	}

	if _, err := store.Submit(ctx, a.ID, "u1", answers); !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("double submit: %v", err)
	}

	res, err := store.ListResults(ctx, ResultListOpts{UserID: "u1"})
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(res) != 1 || res[0].ScorePercentage != 75 || res[0].LessonID != 1 {
		t.Fatalf("results = %+v", res)
	}
}

func TestSubmitAnswerCountMismatch(t *testing.T) {
	store := NewSQLStore(testDB(t), 3, nil)
	ctx := context.Background()
	a, _ := store.NewAttempt(ctx, "u1", 1, someQuestions(4))
	if _, err := store.Submit(ctx, a.ID, "u1", []int{0}); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestLessonGate(t *testing.T) {
	store := NewSQLStore(testDB(t), 3, nil)
	ctx := context.Background()

	if _, err := store.NewAttempt(ctx, "u1", 2, someQuestions(2)); !errors.Is(err, ErrLessonLocked) {
		t.Fatalf("lesson 2 before lesson 1: %v", err)
	}

	a, _ := store.NewAttempt(ctx, "u1", 1, someQuestions(2))
	if _, err := store.Submit(ctx, a.ID, "u1", []int{0, 1}); err != nil {
		t.Fatalf("submit lesson 1: %v", err)
	}
	if _, err := store.NewAttempt(ctx, "u1", 2, someQuestions(2)); err != nil {
		t.Fatalf("lesson 2 after lesson 1: %v", err)
	}

	// The gate is per user.
	if _, err := store.NewAttempt(ctx, "u2", 2, someQuestions(2)); !errors.Is(err, ErrLessonLocked) {
		t.Fatalf("other user lesson 2: %v", err)
	}
}

func TestAttemptLimit(t *testing.T) {
	store := NewSQLStore(testDB(t), 2, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		a, err := store.NewAttempt(ctx, "u1", 1, someQuestions(2))
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		if _, err := store.Submit(ctx, a.ID, "u1", []int{0, 1}); err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
	}
	if _, err := store.NewAttempt(ctx, "u1", 1, someQuestions(2)); !errors.Is(err, ErrAttemptLimit) {
		t.Fatalf("over-limit attempt: %v", err)
	}
}

func TestSubmitRefusesSaveOverLimit(t *testing.T) {
	h := testDB(t)
	store := NewSQLStore(h, 1, nil)
	ctx := context.Background()

	// The attempt opens under the cap, then a concurrent result lands before
	// submit. Grading must succeed but the save is refused.
	a, err := store.NewAttempt(ctx, "u1", 1, someQuestions(2))
	if err != nil {
		t.Fatalf("new attempt: %v", err)
	}
	_, err = h.ExecContext(ctx,
		`INSERT INTO quiz_results (user_id,lesson_id,lesson_name,total_questions,correct_answers,score_percentage,questions_data,completed_at)
		 VALUES ('u1',1,'Lesson 1',2,2,100,'[]',$1)`, time.Now().Unix())
	if err != nil {
		t.Fatalf("inject result: %v", err)
	}

	sum, err := store.Submit(ctx, a.ID, "u1", []int{0, 1})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sum.Saved {
		t.Fatal("save should be refused at the cap")
	}
	if n, _ := store.CountResults(ctx, "u1", 1); n != 1 {
		t.Fatalf("result rows = %d, want 1", n)
	}
}

func TestStatsAndOverview(t *testing.T) {
	h := testDB(t)
	store := NewSQLStore(h, 5, nil)
	ctx := context.Background()

	_, err := h.ExecContext(ctx,
		`INSERT INTO users (id,username,password_hash,role,full_name,student_id,grade,created_at)
		 VALUES ('u1','sara','x','student','سارة','S-100','10',0),
		        ('u2','omar','x','student','عمر','S-101','10',0),
		        ('a1','admin','x','admin','',  '',  '',  0)`)
	if err != nil {
		t.Fatalf("insert users: %v", err)
	}

	for i, score := range []int{60, 80} {
		a, _ := store.NewAttempt(ctx, "u1", 1, someQuestions(5))
		answers := correctAnswers(a.Questions)
		wrong := 5 - score/20
		for j := 0; j < wrong; j++ {
			answers[j] = (answers[j] + 1) % 3
		}
		if _, err := store.Submit(ctx, a.ID, "u1", answers); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	st, err := store.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalQuizzes != 2 || st.BestScore != 80 || st.CompletedLessons != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if st.AverageScore < 69.9 || st.AverageScore > 70.1 {
		t.Fatalf("average = %v, want 70", st.AverageScore)
	}

	rows, err := store.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("overview rows = %d, want students only", len(rows))
	}
	byID := map[string]OverviewRow{}
	for _, r := range rows {
		byID[r.UserID] = r
	}
	if r := byID["u1"]; r.TotalQuizzes != 2 || r.AverageScore != 70 || r.FullName != "سارة" {
		t.Fatalf("u1 overview = %+v", r)
	}
	if r := byID["u2"]; r.TotalQuizzes != 0 || r.LastTaken != 0 {
		t.Fatalf("u2 overview = %+v", r)
	}
}
