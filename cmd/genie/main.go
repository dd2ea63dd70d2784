package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/genie-client/internal/builder"
	"github.com/futig/genie-client/internal/tui"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// options shared by every command
type rootOptions struct {
	environment string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "genie",
		Short: "Genie - chat with your documents",
		Long: `Genie is a client for a retrieval-augmented chat backend.

Run without arguments to open the interactive terminal UI with a Chat tab and
a Documents tab. The subcommands perform single operations for scripting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.environment, "env", "local", "environment name, selects .env.<env>")

	rootCmd.AddCommand(newAskCmd(opts))
	rootCmd.AddCommand(newDocsCmd(opts))
	rootCmd.AddCommand(newClearCmd(opts))
	rootCmd.AddCommand(newResetCmd(opts))

	return rootCmd
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	client, err := builder.BuildClient(opts.environment, false)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logger.Sync() }()

	bridge := tui.NewBridge()
	controller := client.NewSession(bridge)

	ctx := ctxzap.ToContext(cmd.Context(), client.Logger)
	client.Logger.Info("starting terminal UI")

	if err := tui.Run(ctx, controller, bridge, client.TUIOptions()); err != nil {
		client.Logger.Error("terminal UI stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
