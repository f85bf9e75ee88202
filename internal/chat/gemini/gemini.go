package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the generative-language REST endpoint. Fixed sampling
// temperature; the per-call output budget comes from the caller.
type Client struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64

	httpc *http.Client
}

func New(apiKey, model string) *Client {
	return &Client{
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     defaultBaseURL,
		Temperature: 0.7,
		httpc:       &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is empty")
	}

	body := map[string]any{
		"contents": []any{
			map[string]any{
				"parts": []any{
					map[string]any{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     c.Temperature,
			"maxOutputTokens": maxOutputTokens,
		},
	}
	payload, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, c.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini %d: %s", resp.StatusCode, string(x))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 {
		return "", nil
	}

	// A candidate may arrive split over several parts; join them so a long
	// answer is not silently cut at a part boundary.
	parts := make([]string, 0, len(out.Candidates[0].Content.Parts))
	for _, p := range out.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
