package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/doctalk-ai/doctalk/internal/api"
)

// RefreshDocuments re-fetches the document list from the server. This is the
// only place the cached list and the UI counter are updated, so every
// mutation path funnels through it.
func (c *Controller) RefreshDocuments(ctx context.Context) error {
	docs, err := c.client.ListDocuments(ctx)
	if err != nil {
		return err
	}
	c.docs = docs
	c.io.SetDocumentCount(len(docs))
	return nil
}

// Documents returns the most recently fetched document list.
func (c *Controller) Documents() []api.DocumentRef { return c.docs }

// showDocuments prints the current list without touching the server.
func (c *Controller) showDocuments(ctx context.Context) {
	if err := c.RefreshDocuments(ctx); err != nil {
		c.io.Error(describeError(err, "could not load your documents"))
		return
	}
	if len(c.docs) == 0 {
		c.io.SystemMessage("No documents uploaded yet. Use /upload <path> to add one.")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Your documents (%d):\n", len(c.docs))
	for _, d := range c.docs {
		fmt.Fprintf(&b, "  [%d] %s\n", d.ID, d.Filename)
	}
	c.io.SystemMessage(strings.TrimRight(b.String(), "\n"))
}

// Upload sends a local PDF to the backend. The filename is validated locally
// before any request is made. A slow upload is not treated as a failure: the
// server may still be processing, so after the deadline we tell the user and
// re-check the list once after a short delay.
func (c *Controller) Upload(ctx context.Context, path string) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		c.io.Error("Please upload a PDF file only.")
		return
	}
	name := filepath.Base(path)

	c.io.SystemMessage(fmt.Sprintf("Uploading %q (extracting text, chunking, embedding). This usually takes 10-20 seconds.", name))

	uploadCtx, cancel := context.WithTimeout(ctx, c.cfg.Upload.Timeout())
	res, err := c.client.Upload(uploadCtx, path)
	cancel()

	switch {
	case err == nil:
		c.io.SystemMessage(fmt.Sprintf("%q uploaded (%d chunks processed).", name, res.NumChunks))
		if err := c.RefreshDocuments(ctx); err != nil {
			c.io.Error(describeError(err, "could not refresh your documents"))
		}
		c.resetConversation()
		c.io.SystemMessage("Started a new conversation for the updated documents.")
	case api.IsTimeout(err) && ctx.Err() == nil:
		// The server may well still be processing; check the list once
		// after a grace period instead of declaring failure.
		c.io.SystemMessage("Upload is taking longer than expected. The document may still be processing; checking again shortly.")
		if serr := sleepWithContext(ctx, c.cfg.Upload.ReconcileDelay()); serr != nil {
			return
		}
		if err := c.RefreshDocuments(ctx); err != nil {
			c.io.Error(describeError(err, "could not refresh your documents"))
		}
	default:
		c.io.Error(describeError(err, "upload failed"))
	}
}

// DeleteDocument removes one document after confirmation. The ref argument
// is a numeric id or an exact filename from the list.
func (c *Controller) DeleteDocument(ctx context.Context, ref string) {
	doc, ok := c.findDocument(ref)
	if !ok {
		c.io.Error(fmt.Sprintf("No document matching %q. Use /docs to see the list.", ref))
		return
	}
	if !c.io.Confirm(fmt.Sprintf("Delete %q?", doc.Filename)) {
		c.io.SystemMessage("Delete cancelled.")
		return
	}
	if err := c.client.DeleteDocument(ctx, doc.ID); err != nil {
		c.io.Error(describeError(err, "could not delete the document"))
		return
	}
	c.io.SystemMessage(fmt.Sprintf("%q deleted.", doc.Filename))
	c.afterDocumentChange(ctx)
}

// DeleteAllDocuments removes every document after confirmation.
func (c *Controller) DeleteAllDocuments(ctx context.Context) {
	if !c.io.Confirm("Delete ALL documents? This cannot be undone.") {
		c.io.SystemMessage("Delete cancelled.")
		return
	}
	if err := c.client.DeleteAllDocuments(ctx); err != nil {
		c.io.Error(describeError(err, "could not delete your documents"))
		return
	}
	c.io.SystemMessage("All documents deleted.")
	c.afterDocumentChange(ctx)
}

// afterDocumentChange re-syncs with the server and starts a fresh
// conversation. The list is re-fetched unconditionally: the server is the
// source of truth after any mutation.
func (c *Controller) afterDocumentChange(ctx context.Context) {
	if err := c.RefreshDocuments(ctx); err != nil {
		c.io.Error(describeError(err, "could not refresh your documents"))
	}
	c.resetConversation()
	c.io.SystemMessage("Started a new conversation.")
}

func (c *Controller) findDocument(ref string) (api.DocumentRef, bool) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, d := range c.docs {
			if d.ID == id {
				return d, true
			}
		}
	}
	for _, d := range c.docs {
		if d.Filename == ref {
			return d, true
		}
	}
	return api.DocumentRef{}, false
}
