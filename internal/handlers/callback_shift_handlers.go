package handlers

import (
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/models"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

// handleTakeOrder — работник берет заказ из ленты или рассылки.
func (bh *BotHandler) handleTakeOrder(query *tgbotapi.CallbackQuery, workerID, orderID int64) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	shift, err := bh.Deps.Lifecycle.Claim(workerID, orderID)
	if err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		// Карточку обновляем только если заказ уже неактуален
		if errors.Is(err, lifecycle.ErrCapacityFull) || errors.Is(err, lifecycle.ErrOrderNotOpen) || errors.Is(err, lifecycle.ErrNotFound) {
			worker, ok := bh.getWorkerFromDB(chatID)
			if ok {
				bh.showOrdersFeed(chatID, worker, 0, messageID)
			}
		}
		return
	}

	bh.answerCallback(query.ID, "Вы записаны на смену! ✅")
	text := fmt.Sprintf(
		"✅ Вы записаны на смену\n%s\nАдрес: %s\nНачало: %s\n\nЗа 2 часа и за 30 минут придут напоминания. Не опаздывайте!",
		shift.OrderDescription, shift.OrderAddress,
		shift.StartTime.In(bh.Deps.Config.Timezone).Format("02.01 в 15:04"))
	bh.sendOrEditMenuHelper(chatID, messageID, text, nil)
}

// handleSkipOrder скрывает заказ из ленты работника на 48 часов.
func (bh *BotHandler) handleSkipOrder(query *tgbotapi.CallbackQuery, workerID, orderID int64) {
	chatID := query.Message.Chat.ID

	if err := db.SkipOrder(workerID, orderID); err != nil {
		bh.answerCallback(query.ID, "Не получилось, попробуйте ещё раз")
		return
	}
	bh.answerCallback(query.ID, "Заказ скрыт из ленты")
	worker, ok := bh.getWorkerFromDB(chatID)
	if ok {
		bh.showOrdersFeed(chatID, worker, 0, query.Message.MessageID)
	}
}

// handleShiftArrive — отметка "Я на месте".
func (bh *BotHandler) handleShiftArrive(query *tgbotapi.CallbackQuery, workerID, shiftID int64) {
	chatID := query.Message.Chat.ID

	if err := bh.Deps.Lifecycle.Arrive(shiftID, workerID); err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		return
	}
	bh.answerCallback(query.ID, "Отметили прибытие. Хорошей смены! 💪")
	worker, ok := bh.getWorkerFromDB(chatID)
	if ok {
		bh.showShiftCard(chatID, worker, shiftID, query.Message.MessageID)
	}
}

// handleShiftDone — завершение смены работником.
func (bh *BotHandler) handleShiftDone(query *tgbotapi.CallbackQuery, workerID, shiftID int64) {
	chatID := query.Message.Chat.ID

	amount, err := bh.Deps.Lifecycle.Complete(shiftID, workerID)
	if err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		return
	}
	bh.answerCallback(query.ID, "Смена завершена!")
	text := fmt.Sprintf("🏁 Смена завершена!\nНачислено: %s\nСумма появится в «💰 Баланс» и будет выплачена администратором.",
		utils.FormatMoney(amount))
	bh.sendOrEditMenuHelper(chatID, query.Message.MessageID, text, nil)
}

// handleShiftCancel — отмена записи работником до начала смены.
func (bh *BotHandler) handleShiftCancel(query *tgbotapi.CallbackQuery, workerID, shiftID int64) {
	chatID := query.Message.Chat.ID

	penalty, err := bh.Deps.Lifecycle.WorkerCancel(shiftID, workerID)
	if err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		return
	}
	bh.answerCallback(query.ID, "Запись отменена")
	text := fmt.Sprintf("❌ Запись отменена.\nШтраф к рейтингу: %.1f", penalty.RatingDelta)
	bh.sendOrEditMenuHelper(chatID, query.Message.MessageID, text, nil)
}

// handleShiftIssue — работник сообщает о проблеме на смене.
// Пересылаем сигнал админам, смену не трогаем.
func (bh *BotHandler) handleShiftIssue(query *tgbotapi.CallbackQuery, worker models.Worker, shiftID int64) {
	bh.answerCallback(query.ID, "Передали администратору, с вами свяжутся")

	shift, err := db.GetShiftByID(shiftID)
	if err != nil {
		log.Printf("handleShiftIssue: смена %d не найдена: %v", shiftID, err)
		return
	}
	text := fmt.Sprintf("⚠️ Проблема на смене #%d\nЗаказ: %s\nАдрес: %s\nРаботник: %s (%s)",
		shift.ID, shift.OrderDescription, shift.OrderAddress,
		worker.Name, utils.FormatPhoneNumber(worker.Phone))
	for _, adminID := range bh.Deps.Config.AdminChatIDs {
		bh.sendMessage(adminID, text)
	}
}
