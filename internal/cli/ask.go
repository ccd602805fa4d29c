// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeranaias/mio/internal/actions"
	"github.com/jeranaias/mio/internal/conversation"
	"github.com/jeranaias/mio/internal/export"
	"github.com/jeranaias/mio/internal/ui/components"
)

// replyWidth is the wrap width for rendered replies.
const replyWidth = 80

// oneShot describes a command that runs a single exchange and prints it.
type oneShot struct {
	use     string
	short   string
	example string
	mode    actions.Mode
}

func (a *app) newAskCmd() *cobra.Command {
	return a.newOneShotCmd(oneShot{
		use:     `ask "<prompt>"`,
		short:   "Ask Mio one question",
		example: `  mio ask "What is mitosis?"
  mio ask --json "Explain osmosis" > osmosis.json`,
		mode: actions.ModeChat,
	})
}

func (a *app) newSummarizeCmd() *cobra.Command {
	return a.newOneShotCmd(oneShot{
		use:     `summarize "<topic>"`,
		short:   "Summarize a topic with its key concepts in bold",
		example: `  mio summarize "The French Revolution"`,
		mode:    actions.ModeSummarize,
	})
}

func (a *app) newOneShotCmd(shot oneShot) *cobra.Command {
	var asJSON, plain bool

	cmd := &cobra.Command{
		Use:     shot.use,
		Short:   shot.short,
		Example: shot.example,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger, err := a.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			gw, err := a.gateway(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			turns, err := exchange(cmd.Context(), actions.New(gw), shot.mode, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return export.JSON(turns, out)
			}
			reply, _ := turns[len(turns)-1].Text()
			return printReply(out, reply, plain)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the exchange as a JSON transcript")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the raw reply without Markdown rendering")
	return cmd
}

// exchange runs prompt through a fresh reducer and returns the settled
// transcript: the user turn followed by the model turn.
func exchange(ctx context.Context, runner *actions.Actions, mode actions.Mode, prompt string) ([]conversation.Turn, error) {
	r := conversation.NewReducer(conversation.WithGreeting(false))
	req, err := r.Submit(prompt)
	if err != nil {
		return nil, err
	}

	state := runner.Respond(ctx, mode, req.LatestMessage, req.History)
	if note := r.Resolve(state.Result()); note != nil {
		return nil, errors.New(note.Message)
	}
	return r.Turns(), nil
}

// printReply writes reply to w, rendered through glamour unless plain is set.
func printReply(w io.Writer, reply string, plain bool) error {
	if !plain {
		if r, err := components.NewMarkdownRenderer(replyWidth, lipgloss.HasDarkBackground()); err == nil {
			if rendered, err := r.Render(reply); err == nil {
				_, err = io.WriteString(w, rendered)
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, reply)
	return err
}
