package lesson

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("lesson not found")

type SQLStore struct{ db *sql.DB }

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) List(ctx context.Context) ([]Lesson, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,lesson_number,lesson_title,COALESCE(lesson_description,''),COALESCE(video_url,''),questions_json
		 FROM lessons ORDER BY lesson_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id int) (Lesson, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,lesson_number,lesson_title,COALESCE(lesson_description,''),COALESCE(video_url,''),questions_json
		 FROM lessons WHERE id=$1`, id)
	l, err := scanLesson(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Lesson{}, ErrNotFound
	}
	return l, err
}

// QuestionsJSON returns the raw per-lesson question records for lessons
// whose bank lives in the table rather than in an embedded file.
func (s *SQLStore) QuestionsJSON(ctx context.Context, id int) ([]byte, error) {
	var qj string
	err := s.db.QueryRowContext(ctx, `SELECT questions_json FROM lessons WHERE id=$1`, id).Scan(&qj)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(qj), nil
}

func scanLesson(scan func(...any) error) (Lesson, error) {
	var l Lesson
	var qj string
	if err := scan(&l.ID, &l.LessonNumber, &l.LessonTitle, &l.LessonDescription, &l.VideoURL, &qj); err != nil {
		return Lesson{}, err
	}
	var qs []json.RawMessage
	if json.Unmarshal([]byte(qj), &qs) == nil {
		l.QuestionCount = len(qs)
	}
	return l, nil
}
