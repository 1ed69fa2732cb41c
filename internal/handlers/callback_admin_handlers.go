package handlers

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

// handleAdminCallback маршрутизирует админские коллбэки.
func (bh *BotHandler) handleAdminCallback(query *tgbotapi.CallbackQuery, prefix string, args []string) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch prefix {
	case constants.CALLBACK_ADMIN_PAY:
		bh.handleAdminPay(query, argInt64(args, 0))

	case constants.CALLBACK_ADMIN_CANCEL:
		bh.answerCallback(query.ID, "")
		orderID := argInt64(args, 0)
		data := bh.Deps.SessionManager.GetTempOrder(chatID)
		data.TargetOrderID = orderID
		data.CurrentMessageID = messageID
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ADMIN_CANCEL_REASON)
		bh.sendOrEditMenuHelper(chatID, messageID,
			fmt.Sprintf("Укажите причину отмены заказа #%d (её увидят записанные работники):", orderID), nil)

	case constants.CALLBACK_ADMIN_EDIT:
		bh.answerCallback(query.ID, "")
		if len(args) >= 2 {
			bh.startAdminEditField(chatID, messageID, argInt64(args, 0), argString(args, 1))
		} else {
			bh.showAdminEditMenu(chatID, messageID, argInt64(args, 0))
		}

	case constants.CALLBACK_ADMIN_BROADCAST:
		order, err := db.GetOrderByID(argInt64(args, 0))
		if err != nil {
			bh.answerCallback(query.ID, "Заказ не найден")
			return
		}
		bh.answerCallback(query.ID, "Рассылка запущена")
		go bh.Deps.Broadcaster.BroadcastOrder(order)

	case constants.CALLBACK_ADMIN_ORDER_QR:
		bh.handleAdminOrderQR(query, argInt64(args, 0))

	case constants.CALLBACK_ADMIN_ASSIGN:
		if len(args) >= 2 {
			bh.handleAdminAssign(query, argInt64(args, 0), argInt64(args, 1))
		} else {
			bh.answerCallback(query.ID, "")
			bh.showAssignCandidates(chatID, messageID, argInt64(args, 0))
		}

	case constants.CALLBACK_ADMIN_UNASSIGN:
		if len(args) >= 2 {
			bh.handleAdminUnassign(query, argInt64(args, 0), argInt64(args, 1))
		} else {
			bh.answerCallback(query.ID, "")
			bh.showUnassignCandidates(chatID, messageID, argInt64(args, 0))
		}

	case constants.CALLBACK_ADMIN_WORKERS:
		bh.answerCallback(query.ID, "")
		bh.showWorkersList(chatID, argInt(args, 0), messageID)

	case constants.CALLBACK_ADMIN_WORKER:
		bh.answerCallback(query.ID, "")
		bh.showWorkerCard(chatID, argInt64(args, 0), argInt(args, 1), messageID)

	case constants.CALLBACK_ADMIN_W_TOGGLE:
		workerID := argInt64(args, 0)
		newStatus, err := db.ToggleWorkerBlock(workerID)
		if err != nil {
			bh.answerCallback(query.ID, "Не удалось изменить статус")
			return
		}
		if newStatus == constants.WORKER_STATUS_BLOCKED {
			bh.answerCallback(query.ID, "Работник заблокирован")
		} else {
			bh.answerCallback(query.ID, "Работник разблокирован")
		}
		bh.showWorkerCard(chatID, workerID, argInt(args, 1), messageID)

	case constants.CALLBACK_ADMIN_W_PURGE:
		workerID := argInt64(args, 0)
		if err := db.PurgeWorker(workerID); err != nil {
			bh.answerCallback(query.ID, "Не удалось удалить")
			return
		}
		bh.answerCallback(query.ID, "Работник удалён")
		bh.showWorkersList(chatID, argInt(args, 1), messageID)

	case constants.CALLBACK_DISTRICT:
		bh.answerCallback(query.ID, "")
		bh.handleWizardDistrict(chatID, messageID, argString(args, 0))

	case constants.CALLBACK_CITIZENSHIP:
		bh.answerCallback(query.ID, "")
		bh.handleWizardCitizenship(chatID, messageID, argString(args, 0))

	case constants.CALLBACK_FORMAT:
		bh.answerCallback(query.ID, "")
		bh.handleWizardFormat(chatID, messageID, argString(args, 0))

	case constants.CALLBACK_CONFIRM_ORDER:
		bh.handleWizardConfirm(query)

	case constants.CALLBACK_CANCEL_CREATION:
		bh.answerCallback(query.ID, "Создание отменено")
		bh.Deps.SessionManager.ClearState(chatID)
		bh.Deps.SessionManager.ClearTempOrder(chatID)
		bh.deleteMessageHelper(chatID, messageID)

	default:
		log.Printf("handleAdminCallback: неизвестный коллбэк '%s' от chatID %d", prefix, chatID)
		bh.answerCallback(query.ID, "")
	}
}

// handleAdminPay отмечает все начисления работника выплаченными.
func (bh *BotHandler) handleAdminPay(query *tgbotapi.CallbackQuery, workerID int64) {
	chatID := query.Message.Chat.ID

	worker, err := db.GetWorkerByID(workerID)
	if err != nil {
		bh.answerCallback(query.ID, "Работник не найден")
		return
	}
	paid, err := db.MarkWorkerPaid(workerID)
	if err != nil {
		bh.answerCallback(query.ID, "Не удалось отметить выплату")
		return
	}
	bh.answerCallback(query.ID, fmt.Sprintf("Отмечено %d начислений", paid))
	bh.sendMessage(worker.TelegramID, "💸 Ваши начисления отмечены как выплаченные. Проверьте «💰 Баланс».")
	bh.showPayouts(chatID, query.Message.MessageID)
}

// handleAdminCancelReasonInput — админ ввёл причину, отменяем заказ каскадно.
func (bh *BotHandler) handleAdminCancelReasonInput(chatID int64, reason string) {
	if len([]rune(reason)) < 3 {
		bh.sendMessage(chatID, "❌ Причина слишком короткая, напишите подробнее.")
		return
	}
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	orderID := data.TargetOrderID
	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempOrder(chatID)

	notified, err := bh.Deps.Lifecycle.AdminCancelOrder(orderID, reason)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, 0, lifecycle.UserMessage(err))
		return
	}
	bh.sendMessage(chatID, fmt.Sprintf("🚫 Заказ #%d отменён. Уведомлено работников: %d.", orderID, notified))
}

// showAdminEditMenu — выбор редактируемого поля заказа.
func (bh *BotHandler) showAdminEditMenu(chatID int64, messageID int, orderID int64) {
	fields := []struct {
		key   string
		label string
	}{
		{"description", "📋 Описание"},
		{"address", "📍 Адрес"},
		{"start_time", "🕒 Время начала"},
		{"features", "❗ Особенности"},
		{"places", "👥 Количество мест"},
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, f := range fields {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.label, callbackData(constants.CALLBACK_ADMIN_EDIT, orderID, f.key)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 К заказу", callbackData(constants.CALLBACK_ORDER_CARD, orderID, 0)),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	bh.sendOrEditMenuHelper(chatID, messageID, fmt.Sprintf("Что изменить в заказе #%d?", orderID), &kb)
}

// startAdminEditField запоминает поле и просит новое значение.
func (bh *BotHandler) startAdminEditField(chatID int64, messageID int, orderID int64, field string) {
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	data.TargetOrderID = orderID
	data.EditField = field
	data.CurrentMessageID = messageID
	bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ADMIN_EDIT_VALUE)

	prompt := "Введите новое значение:"
	if field == "start_time" {
		prompt = "Введите новое время начала в формате ДД.ММ ЧЧ:ММ, например 15.09 09:00:"
	}
	bh.sendOrEditMenuHelper(chatID, messageID, prompt, nil)
}

// handleAdminEditValueInput применяет правку и уведомляет записанных работников.
func (bh *BotHandler) handleAdminEditValueInput(chatID int64, input string) {
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	orderID := data.TargetOrderID
	field := data.EditField

	var value any = input
	switch field {
	case "start_time":
		t, err := utils.ParseStartTime(input, time.Now(), bh.Deps.Config.Timezone)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		value = t
	case "places":
		n, err := utils.ValidatePlaces(input)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		value = n
	}

	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempOrder(chatID)

	if err := db.UpdateOrderField(orderID, field, value); err != nil {
		bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось обновить заказ.")
		return
	}
	bh.sendMessage(chatID, fmt.Sprintf("✏️ Заказ #%d обновлён.", orderID))

	// Записанные должны узнать об изменении условий
	order, err := db.GetOrderByID(orderID)
	if err != nil {
		return
	}
	ids, err := db.ListAssignedTelegramIDs(orderID)
	if err != nil {
		log.Printf("handleAdminEditValueInput: ошибка списка уведомлений заказа #%d: %v", orderID, err)
		return
	}
	text := fmt.Sprintf("✏️ Изменились условия вашей смены\n%s\nАдрес: %s\nНачало: %s\nПроверьте карточку смены.",
		order.Description, order.Address,
		order.StartTime.In(bh.Deps.Config.Timezone).Format("02.01 в 15:04"))
	for _, id := range ids {
		bh.sendMessage(id, text)
	}
}

// showAssignCandidates — выбор работника для ручной записи на заказ.
func (bh *BotHandler) showAssignCandidates(chatID int64, messageID int, orderID int64) {
	order, err := db.GetOrderByID(orderID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Заказ не найден.")
		return
	}
	workers, err := db.ListEligibleWorkers(order.CitizenshipRequired, time.Now())
	if err != nil || len(workers) == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID, "Подходящих работников нет.", nil)
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, w := range workers {
		if i >= constants.WORKERS_PAGE_SIZE {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s · %.1f", w.Name, w.Rating),
				callbackData(constants.CALLBACK_ADMIN_ASSIGN, orderID, w.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 К заказу", callbackData(constants.CALLBACK_ORDER_CARD, orderID, 0)),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	bh.sendOrEditMenuHelper(chatID, messageID, fmt.Sprintf("Кого записать на заказ #%d?", orderID), &kb)
}

// handleAdminAssign записывает работника на заказ вручную.
func (bh *BotHandler) handleAdminAssign(query *tgbotapi.CallbackQuery, orderID, workerID int64) {
	chatID := query.Message.Chat.ID

	if _, err := bh.Deps.Lifecycle.AdminAssign(orderID, workerID); err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		return
	}
	bh.answerCallback(query.ID, "Работник записан")
	bh.showAdminOrderCard(chatID, orderID, query.Message.MessageID)
}

// showUnassignCandidates — выбор работника для снятия с заказа.
func (bh *BotHandler) showUnassignCandidates(chatID int64, messageID int, orderID int64) {
	assigned, err := db.ListAssignedWorkers(orderID)
	if err != nil || len(assigned) == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID, "На заказе нет активных работников.", nil)
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, w := range assigned {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				w.Name, callbackData(constants.CALLBACK_ADMIN_UNASSIGN, orderID, w.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 К заказу", callbackData(constants.CALLBACK_ORDER_CARD, orderID, 0)),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	bh.sendOrEditMenuHelper(chatID, messageID, fmt.Sprintf("Кого снять с заказа #%d?", orderID), &kb)
}

// handleAdminUnassign снимает работника с заказа без штрафа.
func (bh *BotHandler) handleAdminUnassign(query *tgbotapi.CallbackQuery, orderID, workerID int64) {
	chatID := query.Message.Chat.ID

	if err := bh.Deps.Lifecycle.AdminUnassign(orderID, workerID); err != nil {
		bh.answerCallback(query.ID, lifecycle.UserMessage(err))
		return
	}
	bh.answerCallback(query.ID, "Работник снят с заказа")
	bh.showAdminOrderCard(chatID, orderID, query.Message.MessageID)
}

// handleAdminOrderQR шлёт QR-код со ссылкой на заказ для печати.
func (bh *BotHandler) handleAdminOrderQR(query *tgbotapi.CallbackQuery, orderID int64) {
	chatID := query.Message.Chat.ID

	if bh.Deps.Config.BotUsername == "" {
		bh.answerCallback(query.ID, "BOT_USERNAME не настроен")
		return
	}
	png, err := utils.OrderQRCode(bh.Deps.Config.BotUsername, orderID)
	if err != nil {
		bh.answerCallback(query.ID, "Не удалось сгенерировать QR")
		return
	}
	bh.answerCallback(query.ID, "")

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("order_%d_qr.png", orderID),
		Bytes: png,
	})
	photo.Caption = fmt.Sprintf("QR заказа #%d\n%s", orderID, utils.OrderDeepLink(bh.Deps.Config.BotUsername, orderID))
	if _, errSend := bh.Deps.BotClient.Send(photo); errSend != nil {
		log.Printf("handleAdminOrderQR: ошибка отправки QR для заказа #%d: %v", orderID, errSend)
	}
}
