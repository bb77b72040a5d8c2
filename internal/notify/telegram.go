package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintrend/internal/config"
)

// TelegramChannel sends the message body to a chat via the Bot API. The
// subject is folded into the text since Telegram messages have no subject.
type TelegramChannel struct {
	cfg *config.Config
}

func NewTelegramChannel(cfg *config.Config) *TelegramChannel {
	return &TelegramChannel{cfg: cfg}
}

func (t *TelegramChannel) Name() string {
	return "telegram"
}

func (t *TelegramChannel) Configured() bool {
	return t.cfg.TelegramConfigured()
}

func (t *TelegramChannel) Send(ctx context.Context, subject, body string) error {
	timeout := 15 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	api, err := tgbotapi.NewBotAPIWithClient(t.cfg.TelegramBotToken,
		tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return fmt.Errorf("create telegram client: %w", err)
	}

	text := body
	if subject != "" {
		text = subject + "\n\n" + body
	}
	if _, err := api.Send(tgbotapi.NewMessage(t.cfg.TelegramChatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
