package telegram_api

import (
	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/lifecycle"
)

// Notifier — адаптер BotClient под интерфейс уведомлений ядра.
type Notifier struct {
	client *BotClient
}

// NewNotifier оборачивает клиента бота.
func NewNotifier(client *BotClient) *Notifier {
	return &Notifier{client: client}
}

// Notify отправляет простое текстовое сообщение.
func (n *Notifier) Notify(chatID int64, text string) error {
	_, err := n.client.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// NotifyButtons отправляет сообщение с инлайн-клавиатурой,
// собранной из нейтральных кнопок ядра.
func (n *Notifier) NotifyButtons(chatID int64, text string, rows [][]lifecycle.Button) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(rows) > 0 {
		msg.ReplyMarkup = BuildKeyboard(rows)
	}
	_, err := n.client.Send(msg)
	return err
}

// BuildKeyboard переводит нейтральные кнопки в разметку Telegram.
func BuildKeyboard(rows [][]lifecycle.Button) tgbotapi.InlineKeyboardMarkup {
	var kbRows [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		var kbRow []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.URL != "" {
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
			}
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}
