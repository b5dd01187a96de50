// Package main provides ankictl, a command line client for the flashcard bridge.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/ankibridge/internal/app"
	"github.com/vytor/ankibridge/internal/bridge"
	"github.com/vytor/ankibridge/internal/config"
	"github.com/vytor/ankibridge/internal/logger"
)

const version = "0.1.0"

// Exit codes.
const (
	exitSuccess   = 0
	exitCallError = 1
	exitSysError  = 2
)

var (
	flagCollection string
	flagReadOnly   bool

	// running is opened by PersistentPreRunE and closed by PersistentPostRunE.
	running *app.App
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	// PersistentPostRunE is skipped when a command fails.
	defer func() { _ = closeApp() }()
	if err := root.ExecuteContext(context.Background()); err != nil {
		if f, ok := err.(callError); ok {
			out, _ := json.MarshalIndent(f.Failure, "", "  ")
			fmt.Fprintln(os.Stderr, string(out))
			return exitCallError
		}
		fmt.Fprintln(os.Stderr, err)
		return exitSysError
	}
	return exitSuccess
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ankictl",
		Short:         "Read and annotate AnkiDroid flashcards",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return openApp(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeApp()
		},
	}

	root.PersistentFlags().StringVar(&flagCollection, "collection", "", "collection file (default: $ANKI_COLLECTION_PATH)")
	root.PersistentFlags().BoolVar(&flagReadOnly, "read-only", false, "reject note updates")

	root.AddCommand(statusCmd())
	root.AddCommand(decksCmd())
	root.AddCommand(newCardsCmd())
	root.AddCommand(appendCmd())
	root.AddCommand(mcpCmd())
	return root
}

// openApp loads configuration, applies flag overrides and opens the collection.
func openApp(ctx context.Context) error {
	cfg := config.Load()
	if flagCollection != "" {
		cfg.CollectionPath = flagCollection
	}
	if flagReadOnly {
		cfg.ReadOnly = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	a, err := app.New(logger.NewContext(ctx, log), cfg)
	if err != nil {
		return err
	}
	running = a
	return nil
}

func closeApp() error {
	if running == nil {
		return nil
	}
	err := running.Close()
	running = nil
	return err
}

// callError carries a bridge failure to run so it can be printed as JSON.
type callError struct {
	bridge.Failure
}

func (e callError) Error() string {
	return e.Code + ": " + e.Message
}

// call runs a bridge method and prints the result as indented JSON.
func call(cmd *cobra.Command, method string, args bridge.Args) error {
	res, err := running.Bridge.Call(cmd.Context(), method, args)
	if err != nil {
		return callError{bridge.FailureOf(err)}
	}
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
