package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"lingofolio/internal/models"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts contact messages to a Telegram chat
type TelegramNotifier struct {
	bot     telegramSender
	chatID  int64
	enabled bool
	logger  *zap.Logger
}

// NewTelegramNotifier connects to the bot API. Without a token or chat it returns a disabled
// notifier.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		logger.Info("Telegram notifications disabled: telegram.token or telegram.chat_id not configured")
		return &TelegramNotifier{logger: logger}, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram notifications enabled", zap.String("bot", bot.Self.UserName))

	return newTelegramNotifier(bot, chatID, logger), nil
}

func newTelegramNotifier(bot telegramSender, chatID int64, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID, enabled: true, logger: logger}
}

func (n *TelegramNotifier) Name() string  { return "telegram" }
func (n *TelegramNotifier) Enabled() bool { return n.enabled }

// NotifyContact posts msg to the configured chat
func (n *TelegramNotifier) NotifyContact(ctx context.Context, msg models.ContactMessage) error {
	if !n.enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("✉️ %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message)
	out := tgbotapi.NewMessage(n.chatID, text)
	out.DisableWebPagePreview = true

	if _, err := n.bot.Send(out); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
