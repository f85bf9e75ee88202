package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	syncx "github.com/seraj-edu/seraj/internal/sync"
)

type SQLStore struct {
	db     *sql.DB
	events *syncx.EventRepo // optional
}

func NewSQLStore(db *sql.DB, events *syncx.EventRepo) *SQLStore {
	return &SQLStore{db: db, events: events}
}

func (s *SQLStore) RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,COALESCE(thread_id,''),message_type,message,COALESCE(response,''),created_at
		 FROM chat_history WHERE user_id=$1
		 ORDER BY created_at DESC, id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTurns(rows)
}

func (s *SQLStore) LatestAssistantTurn(ctx context.Context, userID string) (Turn, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,COALESCE(thread_id,''),message_type,message,COALESCE(response,''),created_at
		 FROM chat_history WHERE user_id=$1 AND message_type=$2
		 ORDER BY created_at DESC, id DESC LIMIT 1`, userID, RoleAssistant)
	var t Turn
	if err := row.Scan(&t.ID, &t.UserID, &t.ThreadID, &t.Role, &t.Message, &t.Response, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Turn{}, false, nil
		}
		return Turn{}, false, err
	}
	return t, true, nil
}

func (s *SQLStore) InsertTurn(ctx context.Context, t Turn) error {
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	// RETURNING works on both postgres and sqlite; LastInsertId does not.
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO chat_history (user_id,thread_id,message_type,message,response,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		t.UserID, nullable(t.ThreadID), t.Role, t.Message, t.Response, t.CreatedAt).Scan(&id)
	if err != nil {
		return err
	}
	if s.events != nil && t.Role == RoleAssistant {
		if err := s.events.Append(ctx, syncx.Event{
			Type: syncx.EventChatTurnSaved, Key: strconv.FormatInt(id, 10),
			DataJSON: fmt.Sprintf(`{"user_id":%q}`, t.UserID),
		}); err != nil {
			log.Printf("chat: activity log append failed: %v", err)
		}
	}
	return nil
}

func (s *SQLStore) History(ctx context.Context, userID, threadID string, limit int) ([]Turn, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id,user_id,COALESCE(thread_id,''),message_type,message,COALESCE(response,''),created_at
	      FROM chat_history WHERE user_id=$1`
	args := []any{userID}
	if threadID != "" {
		q += ` AND thread_id=$2`
		args = append(args, threadID)
	}
	q += fmt.Sprintf(` ORDER BY created_at ASC, id ASC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTurns(rows)
}

func (s *SQLStore) Clear(ctx context.Context, userID, threadID string) error {
	if threadID != "" {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM chat_history WHERE user_id=$1 AND thread_id=$2`, userID, threadID)
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_history WHERE user_id=$1`, userID)
	return err
}

func (s *SQLStore) CreateThread(ctx context.Context, t Thread) (Thread, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_threads (id,user_id,title,created_at) VALUES ($1,$2,$3,$4)`,
		t.ID, t.UserID, t.Title, t.CreatedAt)
	if err != nil {
		return Thread{}, err
	}
	return t, nil
}

func (s *SQLStore) Threads(ctx context.Context, userID string) ([]Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,title,created_at FROM chat_threads
		 WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Thread{}
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTurns(rows *sql.Rows) ([]Turn, error) {
	out := []Turn{}
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.ThreadID, &t.Role, &t.Message, &t.Response, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
