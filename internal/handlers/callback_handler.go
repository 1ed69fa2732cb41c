package handlers

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

// HandleCallbackQuery маршрутизирует нажатия инлайн-кнопок.
// Формат callback_data: "prefix:arg1:arg2".
func (bh *BotHandler) HandleCallbackQuery(update tgbotapi.Update) {
	if update.CallbackQuery == nil {
		return
	}
	query := update.CallbackQuery
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	data := query.Data

	log.Printf("HandleCallbackQuery: ChatID=%d, Data='%s'", chatID, data)

	parts := strings.Split(data, ":")
	prefix := parts[0]
	args := parts[1:]

	worker, workerExists := bh.getWorkerFromDB(chatID)
	if !workerExists {
		bh.answerCallback(query.ID, "Начните с команды /start")
		return
	}

	// Онбординг: кнопки района и гражданства
	state := bh.Deps.SessionManager.GetState(chatID)
	if strings.HasPrefix(state, "onboard_") {
		switch prefix {
		case constants.CALLBACK_DISTRICT:
			bh.answerCallback(query.ID, "")
			bh.handleOnboardingDistrict(chatID, messageID, argString(args, 0))
		case constants.CALLBACK_CITIZENSHIP:
			bh.answerCallback(query.ID, "")
			bh.handleOnboardingCitizenship(chatID, messageID, argString(args, 0))
		default:
			bh.answerCallback(query.ID, "Сначала закончите анкету")
		}
		return
	}

	// Редактирование профиля: район и гражданство выбираются кнопками
	if strings.HasPrefix(state, "profile_") {
		switch prefix {
		case constants.CALLBACK_DISTRICT:
			bh.answerCallback(query.ID, "")
			bh.handleProfileDistrict(chatID, messageID, argString(args, 0))
			return
		case constants.CALLBACK_CITIZENSHIP:
			bh.answerCallback(query.ID, "")
			bh.handleProfileCitizenship(chatID, messageID, argString(args, 0))
			return
		}
	}

	isAdmin := bh.Deps.Config.IsAdmin(chatID)

	switch prefix {
	case constants.CALLBACK_ORDERS_PAGE:
		bh.answerCallback(query.ID, "")
		page := argInt(args, 0)
		if isAdmin {
			bh.showAdminOrdersList(chatID, page, messageID)
		} else {
			bh.showOrdersFeed(chatID, worker, page, messageID)
		}

	case constants.CALLBACK_ORDER_CARD:
		bh.answerCallback(query.ID, "")
		orderID := argInt64(args, 0)
		page := argInt(args, 1)
		if isAdmin {
			bh.showAdminOrderCard(chatID, orderID, messageID)
		} else {
			bh.showOrderCard(chatID, worker, orderID, page, messageID)
		}

	case constants.CALLBACK_TAKE_ORDER:
		bh.handleTakeOrder(query, worker.ID, argInt64(args, 0))

	case constants.CALLBACK_SKIP_ORDER:
		bh.handleSkipOrder(query, worker.ID, argInt64(args, 0))

	case constants.CALLBACK_SHIFTS_TAB:
		bh.answerCallback(query.ID, "")
		bh.showShiftsTab(chatID, worker, argString(args, 0), messageID)

	case constants.CALLBACK_SHIFT_CARD:
		bh.answerCallback(query.ID, "")
		bh.showShiftCard(chatID, worker, argInt64(args, 0), messageID)

	case constants.CALLBACK_SHIFT_ARRIVE:
		bh.handleShiftArrive(query, worker.ID, argInt64(args, 0))

	case constants.CALLBACK_SHIFT_DONE:
		bh.handleShiftDone(query, worker.ID, argInt64(args, 0))

	case constants.CALLBACK_SHIFT_CANCEL:
		bh.handleShiftCancel(query, worker.ID, argInt64(args, 0))

	case constants.CALLBACK_SHIFT_STILL:
		bh.answerCallback(query.ID, "Хорошо, работайте! Не забудьте завершить смену.")

	case constants.CALLBACK_SHIFT_ISSUE:
		bh.handleShiftIssue(query, worker, argInt64(args, 0))

	case constants.CALLBACK_PROFILE_EDIT:
		bh.answerCallback(query.ID, "")
		bh.handleProfileEdit(chatID, messageID, argString(args, 0))

	case constants.CALLBACK_BACK_TO_MAIN:
		bh.answerCallback(query.ID, "")
		bh.deleteMessageHelper(chatID, messageID)

	default:
		if isAdmin {
			bh.handleAdminCallback(query, prefix, args)
			return
		}
		log.Printf("HandleCallbackQuery: неизвестный коллбэк '%s' от chatID %d", data, chatID)
		bh.answerCallback(query.ID, "")
	}
}

func argString(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func argInt(args []string, i int) int {
	n, _ := strconv.Atoi(argString(args, i))
	return n
}

func argInt64(args []string, i int) int64 {
	n, _ := strconv.ParseInt(argString(args, i), 10, 64)
	return n
}
