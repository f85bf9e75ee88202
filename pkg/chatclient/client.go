// Package chatclient is the Go client for the portal's assistant endpoint.
// It mirrors what the web client does: send a message, render the first
// chunk immediately, then reconcile against the persisted answer in the
// background because the server may still be extending it.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// ErrBusy is returned when Send is called while a previous Send for the
// same client is still running. One turn at a time per conversation.
var ErrBusy = errors.New("chatclient: a message is already in flight")

const (
	defaultPollInterval = 700 * time.Millisecond
	defaultPollAttempts = 4
)

type Client struct {
	BaseURL string
	Token   string

	// HTTPClient defaults to a 90s-timeout client; a turn can span several
	// server-side generations.
	HTTPClient *http.Client

	// Reconciliation poll cadence. Zero values take the defaults.
	PollInterval time.Duration
	PollAttempts int

	inFlight atomic.Bool
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
	}
}

type request struct {
	Message  string `json:"message,omitempty"`
	Continue bool   `json:"continue,omitempty"`
	Cursor   int    `json:"cursor,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
}

type response struct {
	Response  string `json:"response"`
	Truncated bool   `json:"truncated"`
	Cursor    int    `json:"cursor"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type turn struct {
	Message  string `json:"message"`
	Response string `json:"response,omitempty"`
}

func (t turn) text() string {
	if t.Response != "" {
		return t.Response
	}
	return t.Message
}

// Send runs one assistant turn and returns the drained answer text.
// onUpdate is called with the answer text as it grows; later calls replace
// the previous text wholesale, and final=true marks the last call. onUpdate
// may be nil.
//
// The first callback fires as soon as the server answers, then Send drains
// any remaining chunks. The in-flight guard only covers that much: once the
// drain is done a new Send may start. If the drained answer still looks cut
// off, a background poller keeps comparing it against the persisted copy
// and delivers the final text through onUpdate.
func (c *Client) Send(ctx context.Context, message, threadID string, onUpdate func(text string, final bool)) (string, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return "", ErrBusy
	}

	first, err := c.post(ctx, request{Message: message, ThreadID: threadID})
	if err != nil {
		c.inFlight.Store(false)
		if onUpdate != nil && first.Response != "" {
			onUpdate(first.Response, true)
		}
		return "", err
	}
	answer := first.Response
	if onUpdate != nil {
		onUpdate(answer, false)
	}

	answer, err = c.drain(ctx, first, answer)
	c.inFlight.Store(false)
	if err != nil || onUpdate == nil || endsTerminated(answer) {
		if onUpdate != nil {
			onUpdate(answer, true)
		}
		return answer, err
	}

	go func() {
		onUpdate(c.reconcile(ctx, answer), true)
	}()
	return answer, nil
}

// FetchAll returns the complete current answer by issuing continue requests
// from cursor zero until the server reports no more chunks.
func (c *Client) FetchAll(ctx context.Context) (string, error) {
	resp, err := c.post(ctx, request{Continue: true, Cursor: 0})
	if err != nil {
		return "", err
	}
	return c.drain(ctx, resp, resp.Response)
}

// drain follows the cursor until the answer is no longer truncated.
func (c *Client) drain(ctx context.Context, last response, acc string) (string, error) {
	for last.Truncated {
		next, err := c.post(ctx, request{Continue: true, Cursor: last.Cursor})
		if err != nil {
			return acc, err
		}
		if next.Response == "" {
			break
		}
		acc += next.Response
		last = next
	}
	return acc, nil
}

// reconcile polls the latest persisted assistant turn and adopts it when it
// is strictly longer than what we have. Poll errors are ignored; the text
// already in hand is a valid answer.
func (c *Client) reconcile(ctx context.Context, answer string) string {
	interval := c.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := c.PollAttempts
	if attempts <= 0 {
		attempts = defaultPollAttempts
	}

	for i := 0; i < attempts; i++ {
		if endsTerminated(answer) {
			return answer
		}
		select {
		case <-ctx.Done():
			return answer
		case <-time.After(interval):
		}

		t, err := c.latest(ctx)
		if err != nil {
			continue
		}
		if utf8.RuneCountInString(t.text()) > utf8.RuneCountInString(answer) {
			answer = t.text()
		}
	}
	return answer
}

func (c *Client) post(ctx context.Context, reqBody request) (response, error) {
	payload, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.httpc().Do(req)
	if err != nil {
		return response{}, err
	}
	defer res.Body.Close()

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return response{}, err
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("chat request failed with status %d", res.StatusCode)
		}
		// The fallback body is still worth showing.
		return out, errors.New(msg)
	}
	return out, nil
}

func (c *Client) latest(ctx context.Context) (turn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/chat/latest", nil)
	if err != nil {
		return turn{}, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	res, err := c.httpc().Do(req)
	if err != nil {
		return turn{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return turn{}, fmt.Errorf("latest: status %d", res.StatusCode)
	}
	var t turn
	if err := json.NewDecoder(res.Body).Decode(&t); err != nil {
		return turn{}, err
	}
	return t, nil
}

func (c *Client) httpc() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func endsTerminated(s string) bool {
	var last rune
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' && r != '\r' {
			last = r
		}
	}
	switch last {
	case '.', '؟', '!', '…':
		return true
	}
	return false
}
