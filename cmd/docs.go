package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/chat"
	"github.com/doctalk-ai/doctalk/internal/session"
	"github.com/doctalk-ai/doctalk/internal/tui"
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage uploaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDocs()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List uploaded documents",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listDocs()
			},
		},
		&cobra.Command{
			Use:   "upload <path>",
			Short: "Upload a PDF",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, ctx, err := docsController()
				if err != nil {
					return err
				}
				c.Upload(ctx, args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id-or-filename>",
			Short: "Delete one document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, ctx, err := docsController()
				if err != nil {
					return err
				}
				c.DeleteDocument(ctx, args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all documents",
			RunE: func(cmd *cobra.Command, args []string) error {
				c, ctx, err := docsController()
				if err != nil {
					return err
				}
				c.DeleteAllDocuments(ctx)
				return nil
			},
		},
	)
	return cmd
}

// authedClient builds an api client from the saved credentials.
func authedClient() (*api.Client, *session.Credentials, error) {
	cfg := initConfig()
	path, err := session.DefaultCredentialsPath()
	if err != nil {
		return nil, nil, err
	}
	creds, err := session.LoadCredentials(path)
	if errors.Is(err, session.ErrNotLoggedIn) {
		return nil, nil, errors.New("not logged in; run `doctalk login` first")
	}
	if err != nil {
		return nil, nil, err
	}
	client := api.New(cfg.Server)
	client.SetToken(creds.Token)
	return client, creds, nil
}

// docsController builds a one-shot controller over plain terminal IO, so the
// subcommands share the chat's upload and delete behavior, confirmations
// included.
func docsController() (*chat.Controller, context.Context, error) {
	client, creds, err := authedClient()
	if err != nil {
		return nil, nil, err
	}
	cfg := initConfig()
	sess := session.New(creds.Email)
	c := chat.New(client, cfg, sess, session.NullStore{}, tui.NewPlainIO())
	if err := c.RefreshDocuments(context.Background()); err != nil {
		return nil, nil, fmt.Errorf("could not load documents: %w", err)
	}
	return c, context.Background(), nil
}

func listDocs() error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}
	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("could not load documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Println("No documents uploaded yet.")
		return nil
	}
	fmt.Printf("Documents (%d):\n", len(docs))
	for _, d := range docs {
		fmt.Printf("  [%s] %s\n", strconv.FormatInt(d.ID, 10), d.Filename)
	}
	return nil
}
