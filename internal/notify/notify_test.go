package notify

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobpilot/internal/infra"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramReporterReport(t *testing.T) {
	bot := &fakeBot{}
	r := &TelegramReporter{bot: bot, chatID: 42}

	err := r.Report(context.Background(), Summary{UserName: "Jane <Doe>", Trigger: "worker", JobsFound: 12, Sent: 3, Failed: 1, Skipped: 2})
	require.NoError(t, err)
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Jane &lt;Doe&gt; (worker)")
	assert.Contains(t, msg.Text, "Sent: 3")
}

func TestFormatSummaryTruncatesErrors(t *testing.T) {
	text := FormatSummary(Summary{UserID: "u1", Errors: []string{"a", "b", "c", "d", "e"}})
	assert.Contains(t, text, "for u1 (api)")
	assert.Contains(t, text, "and 2 more")
	assert.NotContains(t, text, "⚠️ d")
}

func TestNewDisabled(t *testing.T) {
	r, err := New(&infra.Config{TelegramChatID: 1}, "", infra.NewLogger("test"))
	require.NoError(t, err)
	assert.IsType(t, Nop{}, r)
}
