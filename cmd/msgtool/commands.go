package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"minitwit/internal/config"
	"minitwit/internal/db"
	"minitwit/internal/logging"
	"minitwit/internal/service"
	"minitwit/internal/store"
)

type rootOptions struct {
	Driver  string
	DSN     string
	Verbose bool
}

func (o *rootOptions) logger(cmd *cobra.Command) *logrus.Logger {
	level := "error"
	if o.Verbose {
		level = "debug"
	}
	return logging.NewWithOutput(cmd.ErrOrStderr(), level, "text")
}

func (o *rootOptions) open() (*sqlx.DB, error) {
	conn, err := db.Open(o.Driver, o.DSN)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}
	return conn, nil
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "msgtool",
		Short:         "Minitwit message tool",
		Long:          "Inspect and maintain the accounts and messages of a minitwit database.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", cfg.DBDriver, "database driver (sqlite3|postgres)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", cfg.DBDSN, "database data source name")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newDumpCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newAccountCommand(opts))
	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(opts.Driver, opts.DSN); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
			return nil
		},
	}
}

func newDumpCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every message as id,posted_by,text,time_posted_epoch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			messages, err := store.NewMessageStore(conn, opts.logger(cmd)).FindAll(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range messages {
				fmt.Fprintf(out, "%d,%d,%s,%d\n", m.ID, m.PostedBy, m.Text, m.PostedAt)
			}
			return nil
		},
	}
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message_id>...",
		Short: "Delete messages by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			log := opts.logger(cmd)
			accounts := store.NewAccountStore(conn, log)
			messages := service.NewMessageService(store.NewMessageStore(conn, log), accounts, log)
			return deleteMessages(cmd, messages, args)
		},
	}
}

func deleteMessages(cmd *cobra.Command, messages *service.MessageService, args []string) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	failed := false
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(errOut, "Invalid message ID: %s\n", arg)
			failed = true
			continue
		}

		msg, err := messages.DeleteByID(cmd.Context(), id)
		switch {
		case errors.Is(err, service.ErrNotFound):
			fmt.Fprintf(out, "No message with ID %d\n", id)
		case err != nil:
			fmt.Fprintf(errOut, "SQL error: %s\n", err)
			failed = true
		default:
			fmt.Fprintf(out, "Deleted message %d: %s\n", msg.ID, msg.Text)
		}
	}
	if failed {
		return errors.New("some messages could not be deleted")
	}
	return nil
}

func newAccountCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts [username]",
		Short: "List accounts, or show one by username",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := opts.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			accounts := store.NewAccountStore(conn, opts.logger(cmd))
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				acct, err := accounts.FindByUsername(cmd.Context(), args[0])
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no account named %q", args[0])
				}
				if err != nil {
					return err
				}
				printAccount(out, acct.ID, acct.Username)
				return nil
			}

			all, err := accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, acct := range all {
				printAccount(out, acct.ID, acct.Username)
			}
			return nil
		},
	}
}

func printAccount(w io.Writer, id int, username string) {
	fmt.Fprintf(w, "%d,%s\n", id, username)
}
