// Package notify reports auto-apply batches to operators.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobpilot/internal/infra"
)

// Summary is the outcome of one auto-apply batch.
type Summary struct {
	UserID    string
	UserName  string
	Trigger   string
	JobsFound int
	Sent      int
	Failed    int
	Skipped   int
	Errors    []string
}

// Reporter delivers batch summaries.
type Reporter interface {
	Report(ctx context.Context, s Summary) error
}

// Nop drops summaries.
type Nop struct{}

func (Nop) Report(context.Context, Summary) error { return nil }

// New returns a Telegram reporter when a token and chat are configured.
func New(cfg *infra.Config, token string, logger infra.Logger) (Reporter, error) {
	if strings.TrimSpace(token) == "" || cfg.TelegramChatID == 0 {
		logger.Info().Msg("telegram reporting disabled")
		return Nop{}, nil
	}
	return NewTelegramReporter(token, cfg.TelegramChatID)
}

type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramReporter posts summaries to a chat.
type TelegramReporter struct {
	bot    botSender
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramReporter{bot: bot, chatID: chatID}, nil
}

func (t *TelegramReporter) Report(ctx context.Context, s Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.bot == nil {
		return errors.New("notify: telegram bot not initialised")
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatSummary(s))
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.bot.Send(msg)
	return err
}

// FormatSummary renders s as Telegram HTML.
func FormatSummary(s Summary) string {
	who := s.UserName
	if who == "" {
		who = s.UserID
	}
	trigger := s.Trigger
	if trigger == "" {
		trigger = "api"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Auto-apply batch</b> for %s (%s)\n", html.EscapeString(who), html.EscapeString(trigger))
	fmt.Fprintf(&b, "Jobs found: %d\nSent: %d\nFailed: %d\nSkipped: %d", s.JobsFound, s.Sent, s.Failed, s.Skipped)
	for i, e := range s.Errors {
		if i == 3 {
			fmt.Fprintf(&b, "\n… and %d more", len(s.Errors)-i)
			break
		}
		fmt.Fprintf(&b, "\n⚠️ %s", html.EscapeString(e))
	}
	return b.String()
}
