package http

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/seraj-edu/seraj/internal/rbac"
	"github.com/seraj-edu/seraj/internal/storage"
)

// MountAssets serves lesson media (slides, worksheets, video posters) out of
// the blob store. Upload is admin-only and keyed per lesson; download keys
// are whatever follows /assets/. The router mounting this must have run the
// JWT and role middleware already.
func MountAssets(r chi.Router, bs storage.BlobStore) {
	r.With(rbac.Require("assets:upload")).Post("/lessons/{lessonID}", func(w http.ResponseWriter, r *http.Request) {
		lessonID := chi.URLParam(r, "lessonID")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		name := filepath.Base(hdr.Filename)
		if name == "" || name == "." {
			name = "upload.bin"
		}
		key := "lessons/" + lessonID + "/" + name
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
	})

	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(filepath.Ext(key))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
