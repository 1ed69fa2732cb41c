package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
)

// HandleMessage обрабатывает входящие сообщения от Telegram.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	log.Printf("HandleMessage: ChatID=%d, Text='%s', Contact: %v", chatID, text, message.Contact != nil)

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			bh.handleStart(message)
		case "help":
			bh.showHelp(chatID)
		default:
			log.Printf("HandleMessage: Неизвестная команда '%s' от chatID %d", message.Command(), chatID)
			bh.sendMessage(chatID, "Неизвестная команда. Используйте меню или /start.")
		}
		return
	}

	worker, exists := bh.getWorkerFromDB(chatID)
	if !exists {
		bh.sendMessage(chatID, "Пожалуйста, начните с команды /start.")
		return
	}

	currentState := bh.Deps.SessionManager.GetState(chatID)

	// Онбординг: принимаем и текст, и контакт
	if strings.HasPrefix(currentState, "onboard_") {
		bh.handleOnboardingInput(message, currentState)
		return
	}

	// Редактирование профиля: имя, телефон, страна
	if strings.HasPrefix(currentState, "profile_") {
		bh.handleProfileInput(message, currentState)
		return
	}

	if bh.Deps.Config.IsAdmin(chatID) {
		switch {
		case currentState == constants.STATE_ADMIN_CANCEL_REASON:
			bh.handleAdminCancelReasonInput(chatID, text)
			return
		case currentState == constants.STATE_ADMIN_EDIT_VALUE:
			bh.handleAdminEditValueInput(chatID, text)
			return
		case strings.HasPrefix(currentState, "order_"):
			bh.handleOrderWizardInput(chatID, currentState, text)
			return
		}
	}

	// Анкета не заполнена — в меню не пускаем
	if worker.Name == "" {
		bh.startOnboarding(chatID)
		return
	}

	switch text {
	case constants.MENU_NEW_ORDERS:
		bh.showOrdersFeed(chatID, worker, 0, 0)
	case constants.MENU_MY_SHIFTS:
		bh.showShiftsTab(chatID, worker, "accepted", 0)
	case constants.MENU_BALANCE:
		bh.showBalance(chatID, worker)
	case constants.MENU_PROFILE:
		bh.showProfile(chatID, worker, 0)
	case constants.MENU_HELP:
		bh.showHelp(chatID)
	case constants.MENU_ADMIN_CREATE:
		if bh.Deps.Config.IsAdmin(chatID) {
			bh.startOrderWizard(chatID)
		}
	case constants.MENU_ADMIN_PAYOUT:
		if bh.Deps.Config.IsAdmin(chatID) {
			bh.showPayouts(chatID, 0)
		}
	case constants.MENU_ADMIN_STAFF:
		if bh.Deps.Config.IsAdmin(chatID) {
			bh.showWorkersList(chatID, 0, 0)
		}
	case constants.MENU_ADMIN_EXPORT:
		if bh.Deps.Config.IsAdmin(chatID) {
			bh.sendUnpaidExport(chatID)
		}
	default:
		bh.sendMessage(chatID, "Не понимаю. Используйте кнопки меню ниже.")
	}
}

// handleStart обрабатывает /start, в том числе deep-link вида order_<id>.
func (bh *BotHandler) handleStart(message *tgbotapi.Message) {
	chatID := message.Chat.ID

	var login string
	if message.From != nil {
		login = message.From.UserName
	}
	worker, err := db.EnsureWorker(chatID, login)
	if err != nil {
		log.Printf("handleStart: ошибка регистрации chatID %d: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID, 0, "❌ Произошла ошибка при обработке ваших данных. Попробуйте еще раз.")
		return
	}

	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempOrder(chatID)
	bh.Deps.SessionManager.ClearTempWorker(chatID)

	if worker.Name == "" {
		bh.startOnboarding(chatID)
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("С возвращением, %s! 👷", worker.Name))
	msg.ReplyMarkup = bh.mainMenuKeyboard(chatID)
	if _, errSend := bh.Deps.BotClient.Send(msg); errSend != nil {
		log.Printf("handleStart: ошибка отправки меню для chatID %d: %v", chatID, errSend)
	}

	// Deep-link с объявления: /start order_<id> открывает карточку заказа
	payload := strings.TrimSpace(message.CommandArguments())
	if strings.HasPrefix(payload, "order_") {
		if orderID, errParse := strconv.ParseInt(strings.TrimPrefix(payload, "order_"), 10, 64); errParse == nil {
			bh.showOrderCard(chatID, worker, orderID, 0, 0)
		}
	}
}

func (bh *BotHandler) showHelp(chatID int64) {
	help := "ℹ️ Как это работает:\n\n" +
		"1. «📦 Новые заказы» — лента доступных смен. Берите те, что подходят.\n" +
		"2. За час до начала можно отметиться «📍 Я на месте».\n" +
		"3. После окончания нажмите «🏁 Завершить смену» — оплата начислится на баланс.\n" +
		"4. «💰 Баланс» — сколько вам должны и история начислений.\n\n" +
		"⚠️ Отмена записи снижает рейтинг, неявка блокирует взятие смен на неделю.\n" +
		"По вопросам выплат пишите администратору."
	bh.sendMessage(chatID, help)
}
