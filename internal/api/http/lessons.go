package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/seraj-edu/seraj/internal/lesson"
	"github.com/seraj-edu/seraj/internal/quiz"
)

// ListLessonsHandler returns the catalog ordered by lesson number. Lessons
// with an embedded bank report that bank's question count instead of the
// (empty) questions_json column.
func ListLessonsHandler(store *lesson.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := store.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		for i := range ls {
			if qs, ok, _ := quiz.LocalBank(ls[i].ID); ok {
				ls[i].QuestionCount = len(qs)
			}
		}
		_ = json.NewEncoder(w).Encode(ls)
	}
}

func GetLessonHandler(store *lesson.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
		if err != nil {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		l, err := store.Get(r.Context(), id)
		if errors.Is(err, lesson.ErrNotFound) {
			http.Error(w, "lesson not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if qs, ok, _ := quiz.LocalBank(l.ID); ok {
			l.QuestionCount = len(qs)
		}
		_ = json.NewEncoder(w).Encode(l)
	}
}

// lessonQuestions resolves a lesson's bank: the embedded files win, the
// questions_json column is the fallback for lessons added at runtime.
func lessonQuestions(r *http.Request, lessons *lesson.SQLStore, lessonID int) ([]quiz.Question, error) {
	qs, ok, err := quiz.LocalBank(lessonID)
	if err != nil {
		return nil, err
	}
	if ok {
		return qs, nil
	}
	raw, err := lessons.QuestionsJSON(r.Context(), lessonID)
	if err != nil {
		return nil, err
	}
	return quiz.ParseQuestions(raw, lessonID)
}
