package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"docs-chat/internal/domain"
	"docs-chat/internal/render"
	"docs-chat/internal/usecase"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer with its citations",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cmd)}))

	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	plain, _ := cmd.Flags().GetBool("plain")
	var md *glamour.TermRenderer
	if !plain {
		md, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(a.prefs.Load(ctx).String()),
			glamour.WithWordWrap(cfg.UI.WordWrap),
		)
		if err != nil {
			logger.WarnContext(ctx, "markdown renderer unavailable", "err", err)
		}
	}

	out := cmd.OutOrStdout()
	conv, err := usecase.NewConversation(a.client,
		usecase.WithLogger(logger),
		usecase.WithListener(func(ev usecase.Event) {
			if ev.Kind == usecase.EventAppended && ev.Message.Sender == domain.SenderBot {
				printBotMessage(out, ev.Message, md)
			}
		}),
	)
	if err != nil {
		return err
	}

	bot := conv.Submit(ctx, strings.Join(args, " "))
	if !bot.IsReply() {
		return errors.New("request failed")
	}
	return nil
}

func printBotMessage(w io.Writer, msg domain.Message, md *glamour.TermRenderer) {
	if !msg.IsReply() {
		fmt.Fprintln(w, msg.Text)
		return
	}
	view := render.RenderResponse(msg.Reply)
	text := view.Text
	if md != nil {
		if rendered, err := md.Render(text); err == nil {
			text = rendered
		}
	}
	fmt.Fprintln(w, strings.TrimRight(text, "\n"))
	if citations := render.PlainCitations(view); citations != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, citations)
	}
}
