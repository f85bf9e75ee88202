package chat

import (
	"context"
	"log"
	"time"
)

const (
	contextWindow    = 10
	maxContinuations = 3

	primaryTokenBudget      = 4096
	continuationTokenBudget = 2048

	defaultBackoff = 300 * time.Millisecond
)

// Fixed Arabic fallback texts, shown when the model returns nothing usable
// and when the generation request fails outright.
const (
	fallbackEmpty = "عذراً، لم أتمكن من فهم سؤالك. هل يمكنك إعادة صياغته؟"
	fallbackError = "عذراً، حدث خطأ تقني. الرجاء المحاولة مرة أخرى أو طرح سؤالك بطريقة مختلفة."
)

// Service runs one conversation turn end to end: assemble context, generate,
// extend truncated output, persist exactly one assistant turn, chunk for
// delivery. It is stateless between calls; everything lives in the store.
type Service struct {
	store   Store
	gen     Generator
	backoff time.Duration // between continuation attempts
}

func NewService(store Store, gen Generator) *Service {
	return &Service{store: store, gen: gen, backoff: defaultBackoff}
}

// Handle processes one completion request. A non-nil error means the
// generation request failed hard; the returned Response still carries the
// fallback body the client should render.
func (s *Service) Handle(ctx context.Context, req Request) (Response, error) {
	if req.Continue {
		return s.resume(ctx, req), nil
	}

	// 1. Context: last N persisted turns, oldest first. A history fetch
	// failure degrades to an empty context rather than failing the turn.
	var history string
	turns, err := s.store.RecentTurns(ctx, req.UserID, contextWindow)
	if err != nil {
		log.Printf("chat: history fetch failed for user=%s: %v", req.UserID, err)
	} else {
		reverse(turns)
		history = RenderContext(turns)
	}

	// 2. Primary generation. A failure here is fatal for the turn; nothing
	// is persisted.
	answer, err := s.gen.Generate(ctx, BuildPrompt(history, req.Message), primaryTokenBudget)
	if err != nil {
		return Response{Response: fallbackError, Success: false, Error: err.Error()}, err
	}
	if answer == "" {
		answer = fallbackEmpty
	}

	// 3. Continuation loop for answers cut off mid-sentence. Failures stop
	// the loop silently; a partial answer is acceptable degraded output.
	answer = s.extend(ctx, history, req.Message, answer)

	// 4. Persist the user turn, then the assistant turn, skipping the
	// latter when it is byte-identical to the last persisted one, so a
	// retried request does not duplicate rows.
	if err := s.store.InsertTurn(ctx, Turn{
		UserID: req.UserID, ThreadID: req.ThreadID, Role: RoleUser, Message: req.Message,
	}); err != nil {
		log.Printf("chat: user turn insert failed for user=%s: %v", req.UserID, err)
	}
	last, ok, err := s.store.LatestAssistantTurn(ctx, req.UserID)
	if err != nil {
		log.Printf("chat: latest turn lookup failed for user=%s: %v", req.UserID, err)
	}
	if !ok || last.Text() != answer {
		if err := s.store.InsertTurn(ctx, Turn{
			UserID: req.UserID, ThreadID: req.ThreadID, Role: RoleAssistant,
			Message: answer, Response: answer,
		}); err != nil {
			log.Printf("chat: assistant turn insert failed for user=%s: %v", req.UserID, err)
		}
	}

	// 5. First chunk only; the cursor lets the client pull the rest.
	head, tail := CutAtSentence(answer, ChunkSize)
	return Response{
		Response:  head,
		Truncated: tail != "",
		Cursor:    runeLen(head),
		Success:   true,
	}, nil
}

// extend issues up to maxContinuations follow-up generations while the
// answer does not end in terminal punctuation, appending whatever comes
// back. Stops early on error, empty output, or context cancellation.
func (s *Service) extend(ctx context.Context, history, message, answer string) string {
	for attempt := 0; !EndsTerminated(answer) && attempt < maxContinuations; attempt++ {
		cont, err := s.gen.Generate(ctx, BuildContinuationPrompt(history, message, answer), continuationTokenBudget)
		if err != nil {
			log.Printf("chat: continuation attempt %d failed: %v", attempt+1, err)
			break
		}
		if cont == "" {
			break
		}
		answer += "\n" + cont

		if !EndsTerminated(answer) && attempt+1 < maxContinuations {
			select {
			case <-ctx.Done():
				return answer
			case <-time.After(s.backoff):
			}
		}
	}
	return answer
}

// resume slices the latest persisted assistant answer from the request's
// cursor and re-applies the sentence-bounded cut.
func (s *Service) resume(ctx context.Context, req Request) Response {
	last, ok, err := s.store.LatestAssistantTurn(ctx, req.UserID)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	if !ok {
		return Response{Success: false, Error: "no previous assistant response"}
	}

	full := []rune(last.Text())
	start := req.Cursor
	if start < 0 {
		start = 0
	}
	if start > len(full) {
		start = len(full)
	}

	head, _ := CutAtSentence(string(full[start:]), ChunkSize)
	cursor := start + runeLen(head)
	return Response{
		Response:  head,
		Truncated: cursor < len(full),
		Cursor:    cursor,
		Success:   true,
	}
}

func reverse(ts []Turn) {
	for i, j := 0, len(ts)-1; i < j; i, j = i+1, j-1 {
		ts[i], ts[j] = ts[j], ts[i]
	}
}
