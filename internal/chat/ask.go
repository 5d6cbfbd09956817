package chat

import (
	"context"
	"time"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/session"
)

// askState tracks where a question is in its retry lifecycle.
type askState int

const (
	askAttempting askState = iota
	askRetrying
	askSucceeded
	askFailed
)

// Ask sends one question through the bounded retry loop. The question joins
// the history immediately and stays there whatever happens; exactly one
// assistant message is appended on success and none on failure.
func (c *Controller) Ask(ctx context.Context, question string) {
	c.sess.AddUser(question)

	// The request is composed once, after the question is recorded, so the
	// outbound window includes it. Retries resend the identical payload.
	req := api.QueryRequest{
		Question:       question,
		History:        c.sess.Window(session.HistoryWindow),
		ConversationID: c.sess.ConversationID,
	}

	c.io.TypingStart()

	var (
		resp    *api.QueryResponse
		lastErr error
	)
	state := askAttempting
	for attempt := 1; state == askAttempting || state == askRetrying; attempt++ {
		if state == askRetrying {
			if err := sleepWithContext(ctx, c.cfg.Query.RetryBackoff()); err != nil {
				state = askFailed
				lastErr = err
				break
			}
			// The wait hid the typing indicator's meaning; show it again
			// so the user knows another attempt is in flight.
			c.io.TypingStart()
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Query.Timeout())
		resp, lastErr = c.client.Query(attemptCtx, req)
		cancel()

		switch {
		case lastErr == nil:
			state = askSucceeded
		case ctx.Err() != nil:
			// The whole chat is shutting down, not just this attempt.
			state = askFailed
		case attempt < c.cfg.Query.MaxAttempts && retryableQueryError(lastErr):
			state = askRetrying
		default:
			state = askFailed
		}
	}

	if state != askSucceeded {
		c.io.TypingStop()
		if ctx.Err() == nil {
			c.io.Error(describeQueryFailure(lastErr))
		}
		return
	}

	// Adopt the server's conversation id only when we do not have one yet;
	// a continuing conversation keeps the id it started with.
	c.sess.AdoptConversationID(resp.ConversationID)

	answer := api.NormalizeAnswer(resp.Answer)
	c.sess.AddAssistant(answer)
	c.io.AssistantMessage(answer, resp.Sources)
	c.persistTranscript()
}

// retryableQueryError reports whether a failed attempt deserves another try:
// a per-attempt timeout or a server-side rejection. A plain network failure
// (nothing answered at all) fails immediately.
func retryableQueryError(err error) bool {
	return api.IsTimeout(err) || api.IsApplicationError(err)
}

// describeQueryFailure maps the final error of an exhausted ask to user copy.
func describeQueryFailure(err error) string {
	if api.IsApplicationError(err) {
		return describeError(err, "failed to get a response")
	}
	return "Service is waking up. Please try again in a moment."
}

// sleepWithContext sleeps for d, but returns early if ctx is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
