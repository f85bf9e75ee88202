package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/seraj-edu/seraj/internal/auth/middleware"
	"github.com/seraj-edu/seraj/internal/lesson"
	"github.com/seraj-edu/seraj/internal/quiz"
)

type dashboardResp struct {
	Stats   quiz.UserStats `json:"stats"`
	Recent  []quiz.Result  `json:"recent"`
	Lessons int            `json:"lesson_count"`
}

// DashboardHandler aggregates the signed-in student's stats and their most
// recent results into one payload for the progress screen.
func DashboardHandler(store quiz.Store, lessons *lesson.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		st, err := store.Stats(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		recent, err := store.ListResults(r.Context(), quiz.ResultListOpts{UserID: userID, Limit: 10})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		// The questions payload is heavy and the dashboard never renders it.
		for i := range recent {
			recent[i].QuestionsData = nil
		}

		out := dashboardResp{Stats: st, Recent: recent}
		if ls, err := lessons.List(r.Context()); err == nil {
			out.Lessons = len(ls)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
