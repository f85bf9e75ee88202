package quiz

import (
	"context"
	"errors"
)

var (
	// ErrAttemptLimit is returned when the per-lesson attempt cap is hit.
	ErrAttemptLimit = errors.New("attempt limit reached for this lesson")
	// ErrLessonLocked is returned when the previous lesson has no result yet.
	ErrLessonLocked = errors.New("previous lesson not completed")
	// ErrAttemptNotFound covers both a missing id and someone else's attempt.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAlreadySubmitted rejects a second submit of the same attempt.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

type ResultListOpts struct {
	UserID   string
	LessonID int // 0 = all lessons
	Limit    int
	Offset   int
}

type Store interface {
	// NewAttempt enforces the access gates (attempt cap, previous-lesson
	// completion) before persisting the sampled question set.
	NewAttempt(ctx context.Context, userID string, lessonID int, qs []Question) (Attempt, error)
	GetAttempt(ctx context.Context, id, userID string) (Attempt, error)

	// Submit grades answers against the stored set and best-effort persists
	// a result row, re-checking the attempt cap immediately before insert.
	// A failed or refused save still returns the graded summary.
	Submit(ctx context.Context, attemptID, userID string, answers []int) (Summary, error)

	CountResults(ctx context.Context, userID string, lessonID int) (int, error)
	ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error)
	Stats(ctx context.Context, userID string) (UserStats, error)
	Overview(ctx context.Context) ([]OverviewRow, error)
}
