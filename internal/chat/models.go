package chat

// Roles as stored in chat_history.message_type.
const (
	RoleUser      = "user"
	RoleAssistant = "bot"
)

type Turn struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	ThreadID  string `json:"thread_id,omitempty"`
	Role      string `json:"message_type"`
	Message   string `json:"message"`
	Response  string `json:"response,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Text is the turn's effective text: assistant turns carry it in response
// (with message mirroring it for older rows), user turns in message.
func (t Turn) Text() string {
	if t.Role == RoleAssistant && t.Response != "" {
		return t.Response
	}
	return t.Message
}

type Thread struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"`
}

// Request is the completion request the client sends. Continue resumes
// delivery of the latest persisted answer from Cursor instead of generating.
type Request struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Continue bool   `json:"continue,omitempty"`
	Cursor   int    `json:"cursor,omitempty"`
	ThreadID string `json:"threadId,omitempty"`
}

// Response carries one sentence-bounded chunk of the answer. Cursor is a
// rune offset into the full persisted answer, not into the chunk.
type Response struct {
	Response  string `json:"response"`
	Truncated bool   `json:"truncated"`
	Cursor    int    `json:"cursor"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}
