package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seraj-edu/seraj/internal/quiz"
	syncx "github.com/seraj-edu/seraj/internal/sync"
)

// AdminOverviewHandler lists every student with their aggregate quiz
// numbers for the admin dashboard.
func AdminOverviewHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := store.Overview(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rows)
	}
}

// AdminUserResultsHandler drills into one student's full result list.
func AdminUserResultsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			http.Error(w, "user id required", http.StatusBadRequest)
			return
		}
		res, err := store.ListResults(r.Context(), quiz.ResultListOpts{
			UserID:   userID,
			LessonID: parseIntDefault(r.URL.Query().Get("lesson_id"), 0),
			Limit:    parseIntDefault(r.URL.Query().Get("limit"), 100),
			Offset:   parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// AdminActivityHandler exposes the recent event log entries, newest first.
func AdminActivityHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		evs, err := events.Recent(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 50))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(evs)
	}
}
