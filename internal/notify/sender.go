package notify

import (
	"context"

	"gh-telegram-relay/pkg/telegram"
)

// TelegramSender delivers Markdown messages through the Telegram Bot API.
type TelegramSender struct {
	bot *telegram.Bot
}

func NewTelegramSender(bot *telegram.Bot) *TelegramSender {
	return &TelegramSender{bot: bot}
}

// Send posts text to the chat identified by destination.
func (s *TelegramSender) Send(ctx context.Context, destination, text string) error {
	return s.bot.SendMessageWithMode(ctx, destination, text, telegram.ParseModeMarkdown)
}
