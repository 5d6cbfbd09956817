package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/doctalk-ai/doctalk/internal/api"
	"github.com/doctalk-ai/doctalk/internal/chat"
	"github.com/doctalk-ai/doctalk/internal/session"
	"github.com/doctalk-ai/doctalk/internal/tui"
)

// runChat starts the interactive chat (REPL) mode.
func runChat() error {
	cfg := initConfig()
	client := api.New(cfg.Server)

	credsPath, err := session.DefaultCredentialsPath()
	if err != nil {
		return fmt.Errorf("credentials path: %w", err)
	}

	creds, err := session.LoadCredentials(credsPath)
	if errors.Is(err, session.ErrNotLoggedIn) {
		// First run: authenticate inline instead of bouncing the user to a
		// separate command.
		fmt.Println("You are not logged in.")
		creds, err = runLogin(client, "")
	}
	if err != nil {
		return err
	}
	client.SetToken(creds.Token)

	dbPath := cfg.HistoryDB
	if dbPath == "" {
		dbPath, err = session.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("history db path: %w", err)
		}
	}
	var store session.Store
	store, err = session.NewSQLiteStore(dbPath)
	if err != nil {
		// Chat works without local history; say so and carry on.
		fmt.Fprintf(os.Stderr, "warning: local history disabled: %v\n", err)
		store = session.NullStore{}
	}
	defer store.Close()

	sess := session.New(creds.Email)

	if useTUI {
		tuiCfg := tui.TUIConfig{
			Version:     displayVersion(),
			Server:      cfg.Server,
			Email:       creds.Email,
			ShowWelcome: true,
		}

		// ctx is managed by RunTUI: cancelled on Ctrl+C, TUI exit, or OS signal.
		return tui.RunTUI(tuiCfg, func(ui tui.IO, ctx context.Context) error {
			c := chat.New(client, cfg, sess, store, ui)
			c.SetCredentialsPath(credsPath)
			return c.Run(ctx)
		})
	}

	// Plain IO mode
	ui := tui.NewPlainIO()
	c := chat.New(client, cfg, sess, store, ui)
	c.SetCredentialsPath(credsPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return c.Run(ctx)
}
