// Package chat implements the chat session controller: it owns the session
// state, talks to the backend through the api client, applies the bounded
// retry policy to queries, and drives the UI through the tui.IO contract.
package chat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/config"
	"github.com/doctalk-ai/doctalk/internal/session"
	"github.com/doctalk-ai/doctalk/internal/tui"
)

// Controller coordinates one logged-in chat. All state mutation happens on
// the single chat goroutine; the UI is only reached through the IO interface.
type Controller struct {
	client *api.Client
	cfg    *config.Config
	sess   *session.Session
	store  session.Store
	io     tui.IO

	credsPath string

	// localID identifies the current conversation's transcript record.
	// Empty until the first turn is persisted; cleared on every reset.
	localID string

	docs []api.DocumentRef
}

// New creates a controller for an authenticated session. store may be a
// session.NullStore when local persistence is disabled.
func New(client *api.Client, cfg *config.Config, sess *session.Session, store session.Store, ui tui.IO) *Controller {
	return &Controller{
		client: client,
		cfg:    cfg,
		sess:   sess,
		store:  store,
		io:     ui,
	}
}

// SetCredentialsPath tells the controller where the durable login state
// lives, so /logout can clear it.
func (c *Controller) SetCredentialsPath(path string) { c.credsPath = path }

// Run is the interactive chat loop: read input, dispatch slash commands,
// otherwise ask the backend. Returns when the user quits or input ends.
func (c *Controller) Run(ctx context.Context) error {
	// Entering the chat refreshes the document list, like the original
	// client does on login.
	if err := c.RefreshDocuments(ctx); err != nil {
		c.io.Error(describeError(err, "could not load your documents"))
	}

	for {
		input, err := c.io.ReadInput()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			handled, quit := c.handleSlashCommand(ctx, input)
			if quit {
				return nil
			}
			if handled {
				continue
			}
		}

		c.io.UserMessage(input)
		c.Ask(ctx, input)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// resetConversation starts a new conversation: history and conversation id
// cleared, next turn gets a fresh transcript record.
func (c *Controller) resetConversation() {
	c.sess.Reset()
	c.localID = ""
}

// persistTranscript saves the full conversation so far. Persistence failures
// never interrupt the chat; the transcript is a convenience copy.
func (c *Controller) persistTranscript() {
	if c.store == nil {
		return
	}
	if c.localID == "" {
		c.localID = uuid.New().String()
	}
	err := c.store.Save(&session.Transcript{
		LocalID:        c.localID,
		ConversationID: c.sess.ConversationID,
		Email:          c.sess.Email,
		Messages:       c.sess.Messages,
	})
	if err != nil {
		c.io.SystemMessage("note: could not save conversation locally: " + err.Error())
	}
}

// describeError maps an error to user-facing copy, preserving the
// distinction between an application rejection (server said no, show its
// message) and a network failure (no response at all).
func describeError(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}
	if api.IsTimeout(err) {
		return "the request timed out, please try again"
	}
	return "network error, please check your connection and try again"
}
