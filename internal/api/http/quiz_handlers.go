package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/seraj-edu/seraj/internal/auth/middleware"
	"github.com/seraj-edu/seraj/internal/lesson"
	"github.com/seraj-edu/seraj/internal/quiz"
	"github.com/seraj-edu/seraj/internal/rbac"
)

type startQuizReq struct {
	LessonID int `json:"lesson_id"`
	Count    int `json:"count,omitempty"`
}

type startQuizResp struct {
	AttemptID string          `json:"attempt_id"`
	LessonID  int             `json:"lesson_id"`
	Questions []quiz.Question `json:"questions"`
}

// StartQuizHandler samples a question set for the lesson and opens an
// attempt. The served questions are redacted; the answer key stays with the
// attempt row and is only consulted at submit time.
func StartQuizHandler(store quiz.Store, lessons *lesson.SQLStore, defaultCount int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req startQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.LessonID <= 0 {
			http.Error(w, "lesson_id required", http.StatusBadRequest)
			return
		}

		qs, err := lessonQuestions(r, lessons, req.LessonID)
		if errors.Is(err, lesson.ErrNotFound) {
			http.Error(w, "lesson not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(qs) == 0 {
			http.Error(w, "lesson has no questions", http.StatusNotFound)
			return
		}

		count := req.Count
		if count <= 0 {
			count = defaultCount
		}
		sampled := quiz.Sample(qs, count, nil)

		a, err := store.NewAttempt(r.Context(), userID, req.LessonID, sampled)
		if err != nil {
			writeQuizError(w, err)
			return
		}

		out := startQuizResp{AttemptID: a.ID, LessonID: a.LessonID}
		for _, q := range a.Questions {
			out.Questions = append(out.Questions, q.Redacted())
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

type submitQuizReq struct {
	Answers []int `json:"answers"`
}

func SubmitQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		attemptID := chi.URLParam(r, "attemptID")
		if attemptID == "" {
			http.Error(w, "attempt id required", http.StatusBadRequest)
			return
		}
		var req submitQuizReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		sum, err := store.Submit(r.Context(), attemptID, userID, req.Answers)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// ListResultsHandler returns quiz results, newest first. Students only see
// their own; a caller with results:view-all may pass ?user_id=.
func ListResultsHandler(store quiz.Store) http.HandlerFunc {
	checker := rbac.NewChecker(nil)
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())

		userID := r.URL.Query().Get("user_id")
		if userID == "" || !checker.Has(role, "results:view-all") {
			userID = sub
		}
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		opts := quiz.ResultListOpts{
			UserID:   userID,
			LessonID: parseIntDefault(r.URL.Query().Get("lesson_id"), 0),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		res, err := store.ListResults(r.Context(), opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrAttemptLimit), errors.Is(err, quiz.ErrLessonLocked):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, quiz.ErrAttemptNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrAlreadySubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
