package handlers

import (
	"database/sql"
	"errors"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/broadcast"
	"github.com/ragshata/RabotaHULT/internal/config"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/models"
	"github.com/ragshata/RabotaHULT/internal/session"
	"github.com/ragshata/RabotaHULT/internal/telegram_api"
)

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
type HandlerDependencies struct {
	Config         *config.Config
	BotClient      *telegram_api.BotClient
	SessionManager *session.SessionManager
	Lifecycle      *lifecycle.Manager
	Broadcaster    *broadcast.Broadcaster
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.BotClient == nil || deps.SessionManager == nil ||
		deps.Lifecycle == nil || deps.Broadcaster == nil {
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}

// getWorkerFromDB возвращает работника по chatID или false, если его нет.
func (bh *BotHandler) getWorkerFromDB(chatID int64) (models.Worker, bool) {
	worker, err := db.GetWorkerByTelegramID(chatID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("getWorkerFromDB: ошибка получения работника %d: %v", chatID, err)
		}
		return models.Worker{}, false
	}
	return worker, true
}

// sendMessage отправляет простое текстовое сообщение.
func (bh *BotHandler) sendMessage(chatID int64, text string) {
	if _, err := bh.Deps.BotClient.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("sendMessage: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

// sendOrEditMenuHelper отправляет или редактирует сообщение-меню.
// Возвращает ID итогового сообщения.
func (bh *BotHandler) sendOrEditMenuHelper(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) int {
	sent, err := telegram_api.SendOrEditMessage(bh.Deps.BotClient, chatID, messageID, text, keyboard, "")
	if err != nil {
		return 0
	}
	return sent.MessageID
}

// sendErrorMessageHelper отправляет стандартизированное сообщение об ошибке.
func (bh *BotHandler) sendErrorMessageHelper(chatID int64, messageID int, errorText string) {
	_, _ = telegram_api.SendErrorMessage(bh.Deps.BotClient, chatID, messageID, errorText)
}

// deleteMessageHelper удаляет сообщение, игнорируя ошибки.
func (bh *BotHandler) deleteMessageHelper(chatID int64, messageID int) {
	telegram_api.DeleteMessage(bh.Deps.BotClient, chatID, messageID)
}

// answerCallback закрывает "часики" на кнопке, опционально с всплывающим текстом.
func (bh *BotHandler) answerCallback(callbackID string, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := bh.Deps.BotClient.Request(cb); err != nil {
		log.Printf("answerCallback: ошибка ответа на коллбэк %s: %v", callbackID, err)
	}
}
