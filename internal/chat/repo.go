package chat

import "context"

type Store interface {
	// RecentTurns returns the latest turns for a user, newest first.
	RecentTurns(ctx context.Context, userID string, limit int) ([]Turn, error)
	// LatestAssistantTurn returns the newest persisted assistant turn;
	// ok=false when the user has none yet.
	LatestAssistantTurn(ctx context.Context, userID string) (t Turn, ok bool, err error)
	InsertTurn(ctx context.Context, t Turn) error

	// History returns turns in chronological order, optionally scoped to a
	// thread.
	History(ctx context.Context, userID, threadID string, limit int) ([]Turn, error)
	// Clear deletes a user's turns; empty threadID clears everything.
	Clear(ctx context.Context, userID, threadID string) error

	CreateThread(ctx context.Context, t Thread) (Thread, error)
	Threads(ctx context.Context, userID string) ([]Thread, error)
}

// Generator is the completion backend. It returns the candidate's text
// parts joined with newlines; an empty string means the model produced no
// usable text.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}
