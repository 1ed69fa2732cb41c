package reports

import (
	"fmt"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/telegram_api"
)

// SendWorkbook отправляет xlsx документом в чат админа.
func SendWorkbook(client *telegram_api.BotClient, chatID int64, fileBytes []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("unpaid_%s.xlsx", time.Now().Format("2006-01-02")),
		Bytes: fileBytes,
	})
	doc.Caption = "📊 Невыплаченные начисления"
	if _, err := client.Send(doc); err != nil {
		return fmt.Errorf("не удалось отправить отчёт: %w", err)
	}
	return nil
}
