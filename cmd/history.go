package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doctalk-ai/doctalk/internal/session"
)

func newHistoryCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List locally saved conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := initConfig()

			email := ""
			if !all {
				path, err := session.DefaultCredentialsPath()
				if err != nil {
					return err
				}
				if creds, err := session.LoadCredentials(path); err == nil {
					email = creds.Email
				}
			}

			dbPath := cfg.HistoryDB
			if dbPath == "" {
				var err error
				dbPath, err = session.DefaultDBPath()
				if err != nil {
					return err
				}
			}
			store, err := session.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer store.Close()

			infos, err := store.List(email)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No saved conversations.")
				return nil
			}
			for _, in := range infos {
				id := in.LocalID
				if len(id) > 8 {
					id = id[:8]
				}
				fmt.Printf("%s  %s  %3d messages  %s\n",
					id, in.UpdatedAt.Format("2006-01-02 15:04"), in.Messages, in.FirstLine)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include conversations from every account on this machine")
	return cmd
}
