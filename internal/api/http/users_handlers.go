package http

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type rosterRow struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`     // defaults to "student"
	Password  string `json:"password,omitempty"` // required for new accounts
	FullName  string `json:"full_name,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Grade     string `json:"grade,omitempty"`
}

// ImportRosterHandler bulk-creates or updates student accounts. Accepts a
// JSON array in the body, or a multipart file= holding CSV or JSON.
func ImportRosterHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []rosterRow
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "multipart/form-data") {
			f, _, err := r.FormFile("file")
			if err != nil {
				http.Error(w, "file required", http.StatusBadRequest)
				return
			}
			defer f.Close()
			buf := make([]byte, 1)
			if _, err := f.Read(buf); err != nil {
				http.Error(w, "empty file", http.StatusBadRequest)
				return
			}
			if s, ok := f.(io.Seeker); ok {
				_, _ = s.Seek(0, io.SeekStart)
			}
			if buf[0] == '[' || buf[0] == '{' {
				if err := json.NewDecoder(f).Decode(&rows); err != nil {
					http.Error(w, "bad json", http.StatusBadRequest)
					return
				}
			} else {
				rs, err := parseRosterCSV(f)
				if err != nil {
					http.Error(w, "bad csv: "+err.Error(), http.StatusBadRequest)
					return
				}
				rows = rs
			}
		} else {
			if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
				http.Error(w, "expected JSON array or multipart file", http.StatusBadRequest)
				return
			}
		}
		if len(rows) == 0 {
			_ = json.NewEncoder(w).Encode(map[string]any{"inserted": 0, "updated": 0})
			return
		}

		ins, upd, err := upsertRoster(r.Context(), db, rows)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"inserted": ins, "updated": upd})
	}
}

// ListUsersHandler returns accounts with their profile fields, optionally
// filtered by ?role=.
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := r.URL.Query().Get("role")
		q := `SELECT id,username,role,COALESCE(full_name,''),COALESCE(student_id,''),COALESCE(grade,'')
		      FROM users`
		args := []any{}
		if role != "" {
			q += ` WHERE role=$1`
			args = append(args, role)
		}
		q += ` ORDER BY username`

		rows, err := db.QueryContext(r.Context(), q, args...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		out := []rosterRow{}
		for rows.Next() {
			var u rosterRow
			if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.FullName, &u.StudentID, &u.Grade); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			out = append(out, u)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func parseRosterCSV(r io.Reader) ([]rosterRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["username"]; !ok {
		return nil, errors.New("missing column: username")
	}
	get := func(rec []string, col string) string {
		if i, ok := idx[col]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}
	var rows []rosterRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rosterRow{
			ID:        get(rec, "id"),
			Username:  get(rec, "username"),
			Role:      strings.ToLower(get(rec, "role")),
			Password:  get(rec, "password"),
			FullName:  get(rec, "full_name"),
			StudentID: get(rec, "student_id"),
			Grade:     get(rec, "grade"),
		})
	}
	return rows, nil
}

func upsertRoster(ctx context.Context, db *sql.DB, rows []rosterRow) (inserted, updated int, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	now := time.Now().Unix()
	for _, row := range rows {
		if row.Username == "" {
			return inserted, updated, errors.New("row without username")
		}
		if row.Role == "" {
			row.Role = "student"
		}
		if row.Role != "student" && row.Role != "admin" {
			return inserted, updated, errors.New("invalid role: " + row.Role)
		}
		var phash string
		if row.Password != "" {
			b, e := bcrypt.GenerateFromPassword([]byte(row.Password), 12)
			if e != nil {
				return inserted, updated, e
			}
			phash = string(b)
		}

		var existingID string
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM users WHERE username=$1`, row.Username).Scan(&existingID)
		switch {
		case err == nil:
			if phash != "" {
				_, err = tx.ExecContext(ctx,
					`UPDATE users SET role=$1, password_hash=$2, full_name=$3, student_id=$4, grade=$5 WHERE id=$6`,
					row.Role, phash, row.FullName, row.StudentID, row.Grade, existingID)
			} else {
				_, err = tx.ExecContext(ctx,
					`UPDATE users SET role=$1, full_name=$2, student_id=$3, grade=$4 WHERE id=$5`,
					row.Role, row.FullName, row.StudentID, row.Grade, existingID)
			}
			if err != nil {
				return inserted, updated, err
			}
			updated++

		case errors.Is(err, sql.ErrNoRows):
			if phash == "" {
				return inserted, updated, errors.New("password required for new user: " + row.Username)
			}
			id := row.ID
			if id == "" {
				id = uuid.NewString()
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (id, username, password_hash, role, full_name, student_id, grade, created_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				id, row.Username, phash, row.Role, row.FullName, row.StudentID, row.Grade, now)
			if err != nil {
				return inserted, updated, err
			}
			inserted++

		default:
			return inserted, updated, err
		}
	}
	return
}
