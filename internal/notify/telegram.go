package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bishwashp/ShiftPlanner-sub003/internal/service"
	"github.com/bishwashp/ShiftPlanner-sub003/pkg/telegram"
)

// TelegramNotifier delivers workflow notifications through the bot client.
type TelegramNotifier struct {
	client *telegram.Client
}

var _ service.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

func (n *TelegramNotifier) Notify(chatID int64, message string) error {
	msg := tgbotapi.NewMessage(chatID, message)
	_, err := n.client.Bot.Send(msg)
	return err
}
