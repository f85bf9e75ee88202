package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/seraj-edu/seraj/internal/auth/middleware"
	"github.com/seraj-edu/seraj/internal/chat"
)

// ChatHandler runs one assistant turn. The user id always comes from the
// token; the userId field in the body is accepted for older clients but
// never trusted.
func ChatHandler(svc *chat.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req chat.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.UserID = userID
		if !req.Continue && req.Message == "" {
			http.Error(w, "message required", http.StatusBadRequest)
			return
		}

		resp, err := svc.Handle(r.Context(), req)
		if err != nil {
			// Generation failed hard. The body still carries the fallback
			// text so the client has something to render.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func ChatHistoryHandler(store chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		turns, err := store.History(r.Context(), userID,
			r.URL.Query().Get("thread_id"),
			parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(turns)
	}
}

// ChatLatestHandler returns the newest persisted assistant turn. Clients
// poll it after sending a message to reconcile a chunked answer.
func ChatLatestHandler(store chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		t, ok, err := store.LatestAssistantTurn(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "no assistant turns", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(t)
	}
}

func ChatClearHandler(store chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := store.Clear(r.Context(), userID, r.URL.Query().Get("thread_id")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createThreadReq struct {
	Title string `json:"title"`
}

func CreateThreadHandler(store chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req createThreadReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		t, err := store.CreateThread(r.Context(), chat.Thread{UserID: userID, Title: req.Title})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(t)
	}
}

func ListThreadsHandler(store chat.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ts, err := store.Threads(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(ts)
	}
}
