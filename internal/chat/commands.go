package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/doctalk-ai/doctalk/internal/session"
)

const helpText = `Commands:
  /help           show this help
  /docs           list your uploaded documents
  /upload <path>  upload a PDF
  /delete <ref>   delete one document (by id or filename)
  /delete-all     delete all documents
  /new            start a new conversation
  /history        list locally saved conversations
  /logout         log out and quit
  /quit           exit`

// handleSlashCommand processes built-in commands.
// Returns (handled, shouldQuit).
func (c *Controller) handleSlashCommand(ctx context.Context, input string) (bool, bool) {
	parts := strings.SplitN(strings.TrimSpace(input), " ", 2)
	cmd := parts[0]
	arg := ""
	if len(parts) > 1 {
		arg = strings.TrimSpace(parts[1])
	}

	switch cmd {
	case "/quit", "/exit", "/q":
		c.io.SystemMessage("Bye.")
		return true, true
	case "/help", "/?":
		c.io.SystemMessage(helpText)
		return true, false
	case "/docs", "/documents":
		c.showDocuments(ctx)
		return true, false
	case "/upload":
		if arg == "" {
			c.io.Error("Usage: /upload <path-to-pdf>")
			return true, false
		}
		c.Upload(ctx, arg)
		return true, false
	case "/delete", "/rm":
		if arg == "" {
			c.io.Error("Usage: /delete <id-or-filename>")
			return true, false
		}
		c.DeleteDocument(ctx, arg)
		return true, false
	case "/delete-all":
		c.DeleteAllDocuments(ctx)
		return true, false
	case "/new", "/clear":
		c.resetConversation()
		c.io.SystemMessage("Started a new conversation.")
		return true, false
	case "/history", "/sessions":
		c.showHistory()
		return true, false
	case "/logout":
		return true, c.logout()
	default:
		c.io.Error(fmt.Sprintf("Unknown command %s. Try /help.", cmd))
		return true, false
	}
}

// showHistory lists locally saved conversations for the logged-in user.
func (c *Controller) showHistory() {
	if c.store == nil {
		c.io.SystemMessage("Local history is disabled.")
		return
	}
	infos, err := c.store.List(c.sess.Email)
	if err != nil {
		c.io.Error("could not read local history: " + err.Error())
		return
	}
	if len(infos) == 0 {
		c.io.SystemMessage("No saved conversations yet.")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Saved conversations (%d):\n", len(infos))
	for _, in := range infos {
		fmt.Fprintf(&b, "  %s  %s  (%d messages)  %s\n",
			shortID(in.LocalID), in.UpdatedAt.Format("2006-01-02 15:04"), in.Messages, in.FirstLine)
	}
	c.io.SystemMessage(strings.TrimRight(b.String(), "\n"))
}

// logout clears the stored credentials and ends the chat. Returns true when
// the user confirmed and the chat should quit.
func (c *Controller) logout() bool {
	if !c.io.Confirm("Log out? You will need your password to log back in.") {
		c.io.SystemMessage("Logout cancelled.")
		return false
	}
	if c.credsPath != "" {
		if err := session.ClearCredentials(c.credsPath); err != nil {
			c.io.Error("could not clear saved credentials: " + err.Error())
			return false
		}
	}
	c.resetConversation()
	c.io.SystemMessage("Logged out. Bye.")
	return true
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
