package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/futig/genie-client/internal/builder"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/futig/genie-client/internal/render"
	"github.com/futig/genie-client/internal/session"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/spf13/cobra"
)

const resetQuestion = "Rebuild the knowledge base index from the stored documents?"

var (
	errRequestFailed = errors.New("request failed, see the log for details")
	errCancelled     = errors.New("cancelled")
)

// cliSession is one controller living for a single command
type cliSession struct {
	ctx        context.Context
	controller *session.Controller
	prompter   *cliPrompter
}

func openSession(cmd *cobra.Command, opts *rootOptions, assumeYes bool) (*cliSession, error) {
	client, err := builder.BuildClient(opts.environment, false)
	if err != nil {
		return nil, err
	}

	prompter := newCLIPrompter(cmd.InOrStdin(), cmd.ErrOrStderr(), assumeYes)
	return &cliSession{
		ctx:        ctxzap.ToContext(cmd.Context(), client.Logger),
		controller: client.NewSession(prompter),
		prompter:   prompter,
	}, nil
}

// lastTurn is the newest entry of the conversation, empty when there is none
func (s *cliSession) lastTurn() string {
	history := s.controller.Snapshot().History
	if len(history) == 0 {
		return ""
	}
	return history[len(history)-1].Content
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		timeout int
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Sends one question to the backend and prints the reply.

Example:
  genie ask --timeout 60 "Summarise the Q3 sales report"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("timeout") {
				s.controller.SetResponseTimeout(timeout)
			}

			outcome := s.controller.Submit(s.ctx, strings.Join(args, " "))
			if outcome == session.OutcomeSkipped {
				return entity.ErrEmptyMessage
			}

			printReply(cmd.OutOrStdout(), s.lastTurn(), raw)

			if outcome == session.OutcomeFailed {
				return errRequestFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", session.DefaultResponseTimeout, "response timeout in seconds (0 = no limit, max 120)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply as plain markdown")

	return cmd
}

func newDocsCmd(opts *rootOptions) *cobra.Command {
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage documents in the knowledge base",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}

			if s.controller.RefreshDocuments(s.ctx) != session.OutcomeDone {
				return errRequestFailed
			}

			docs := s.controller.Snapshot().Documents
			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents uploaded")
				return nil
			}
			for _, doc := range docs {
				fmt.Fprintln(out, doc.Name)
			}
			return nil
		},
	}

	uploadCmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Upload .pdf, .xlsx, .xls or .csv files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}

			for _, path := range args {
				// the backend has the final word on file types
				if !validator.IsSupported(path) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not a .pdf, .xlsx, .xls or .csv file, uploading anyway\n", path)
				}
				if s.controller.Upload(s.ctx, entity.FileFromPath(path)) != session.OutcomeDone {
					return fmt.Errorf("%s: %w", path, errRequestFailed)
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.lastTurn())
			}
			return nil
		},
	}

	var assumeYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a document after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, assumeYes)
			if err != nil {
				return err
			}

			switch s.controller.DeleteDocument(s.ctx, args[0]) {
			case session.OutcomeSkipped:
				return errCancelled
			case session.OutcomeFailed:
				return errRequestFailed
			}

			fmt.Fprintln(cmd.OutOrStdout(), s.lastTurn())
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	docsCmd.AddCommand(listCmd, uploadCmd, deleteCmd)
	return docsCmd
}

func newClearCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Start a new conversation on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, false)
			if err != nil {
				return err
			}

			if s.controller.ClearConversation(s.ctx) != session.OutcomeDone {
				return errRequestFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Conversation cleared")
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Rebuild the backend's document index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, assumeYes)
			if err != nil {
				return err
			}

			if !s.prompter.Confirm(s.ctx, resetQuestion) {
				return errCancelled
			}
			if s.controller.ResetBackend(s.ctx) != session.OutcomeDone {
				return errRequestFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Knowledge base index rebuilt")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// printReply prints prose as plain text and highlights code blocks unless
// raw output is requested
func printReply(out io.Writer, content string, raw bool) {
	if raw {
		fmt.Fprintln(out, content)
		return
	}

	for _, seg := range render.Segments(content) {
		if seg.Kind == render.KindCode {
			block := render.Fenced(seg)
			if rendered, err := glamour.Render(block, "auto"); err == nil {
				block = rendered
			}
			fmt.Fprint(out, block)
			continue
		}
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		fmt.Fprintln(out, strings.Join(render.Lines(strings.TrimSuffix(seg.Text, "\n")), "\n"))
	}
}
