package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"parts": []any{
						map[string]any{"text": "الجزء الأول"},
						map[string]any{"text": "الجزء الثاني."},
					},
				},
			}},
		})
	}))
	defer srv.Close()

	c := New("test-key", "gemini-2.0-flash-exp")
	c.BaseURL = srv.URL

	out, err := c.Generate(context.Background(), "اشرح القوائم", 4096)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "الجزء الأول\nالجزء الثاني." {
		t.Fatalf("out = %q", out)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash-exp:generateContent" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header = %q", gotKey)
	}
	gc, _ := gotBody["generationConfig"].(map[string]any)
	if gc["maxOutputTokens"] != float64(4096) || gc["temperature"] != 0.7 {
		t.Fatalf("generationConfig = %v", gc)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer srv.Close()

	c := New("k", "m")
	c.BaseURL = srv.URL
	out, err := c.Generate(context.Background(), "x", 100)
	if err != nil || out != "" {
		t.Fatalf("got %q, %v; want empty, nil", out, err)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("k", "m")
	c.BaseURL = srv.URL
	if _, err := c.Generate(context.Background(), "x", 100); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestGenerateMissingKey(t *testing.T) {
	c := New("", "m")
	if _, err := c.Generate(context.Background(), "x", 100); err == nil {
		t.Fatal("expected error without api key")
	}
}
