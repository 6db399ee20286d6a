package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lookup-workers/internal/lookup/conversation"
)

// terminalSender prints replies and their buttons.
type terminalSender struct {
	w io.Writer
}

func (s terminalSender) Send(_ context.Context, reply conversation.Reply) error {
	if _, err := fmt.Fprintln(s.w, reply.Text); err != nil {
		return err
	}
	for _, b := range reply.Buttons {
		if _, err := fmt.Fprintf(s.w, "  /%s  %s\n", b.Data, b.Label); err != nil {
			return err
		}
	}
	return nil
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive search session",
		Long:  "Reads commands and queries from stdin. Menu choices are typed as /fio, /phone or /newsearch; /quit exits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, log, err := opts.buildService()
			if err != nil {
				return err
			}
			session := conversation.NewSession(svc, terminalSender{w: cmd.OutOrStdout()}, log)
			return runChat(cmd.Context(), session, cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	}
}

func runChat(ctx context.Context, session *conversation.Session, in io.Reader, errOut io.Writer) error {
	if err := session.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		switch {
		case line == "/quit":
			return nil
		case line == "/start":
			err = session.Reset(ctx)
		case strings.HasPrefix(line, "/"):
			err = session.Choose(ctx, strings.TrimPrefix(line, "/"))
		default:
			err = session.Submit(ctx, line)
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}
	return scanner.Err()
}
