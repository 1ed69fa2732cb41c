package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"slices"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/formatters"
	"github.com/ragshata/RabotaHULT/internal/session"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

// Мастер создания заказа: админ вводит поля по одному,
// в конце получает сводку с кнопкой публикации.

func (bh *BotHandler) startOrderWizard(chatID int64) {
	bh.Deps.SessionManager.ClearTempOrder(chatID)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_CLIENT_NAME)
	bh.sendMessage(chatID, "📝 Новый заказ.\n\nШаг 1. Введите имя клиента:")
}

func (bh *BotHandler) handleOrderWizardInput(chatID int64, state, text string) {
	data := bh.Deps.SessionManager.GetTempOrder(chatID)

	switch state {
	case constants.STATE_ORDER_CLIENT_NAME:
		name, err := utils.ValidateName(text)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.ClientName = name
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_CLIENT_PHONE)
		bh.sendMessage(chatID, "Шаг 2. Введите телефон клиента:")

	case constants.STATE_ORDER_CLIENT_PHONE:
		phone, err := utils.ValidatePhoneNumber(text)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.ClientPhone = phone
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_DESCRIPTION)
		bh.sendMessage(chatID, "Шаг 3. Опишите работу (что делать):")

	case constants.STATE_ORDER_DESCRIPTION:
		if len([]rune(text)) < 5 {
			bh.sendMessage(chatID, "❌ Описание слишком короткое, напишите подробнее.")
			return
		}
		data.Description = text
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_ADDRESS)
		bh.sendMessage(chatID, "Шаг 4. Введите адрес объекта:")

	case constants.STATE_ORDER_ADDRESS:
		if len([]rune(text)) < 5 {
			bh.sendMessage(chatID, "❌ Адрес слишком короткий.")
			return
		}
		data.Address = text
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_DISTRICT)
		msgID := bh.sendOrEditMenuHelper(chatID, 0, "Шаг 5. Выберите район:", districtKeyboard())
		data.CurrentMessageID = msgID
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)

	case constants.STATE_ORDER_START_TIME:
		start, err := utils.ParseStartTime(text, time.Now(), bh.Deps.Config.Timezone)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.StartTime = start
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_PLACES)
		bh.sendMessage(chatID, "Шаг 7. Сколько работников нужно?")

	case constants.STATE_ORDER_PLACES:
		places, err := utils.ValidatePlaces(text)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.PlacesTotal = places
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_FORMAT)
		msgID := bh.sendOrEditMenuHelper(chatID, 0, "Шаг 8. Выберите формат оплаты:", formatKeyboard())
		data.CurrentMessageID = msgID
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)

	case constants.STATE_ORDER_FEATURES:
		if text != "-" {
			data.Features = sql.NullString{String: text, Valid: true}
		}
		bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
		bh.showOrderConfirmation(chatID, data)

	default:
		bh.sendMessage(chatID, "Используйте кнопки под сообщением.")
	}
}

func (bh *BotHandler) handleWizardDistrict(chatID int64, messageID int, district string) {
	if bh.Deps.SessionManager.GetState(chatID) != constants.STATE_ORDER_DISTRICT {
		return
	}
	if !slices.Contains(constants.ValidDistricts, district) {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Неизвестный район, выберите из списка.")
		return
	}
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	data.District = district
	bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_START_TIME)
	bh.sendOrEditMenuHelper(chatID, messageID,
		"Шаг 6. Введите дату и время начала в формате ДД.ММ ЧЧ:ММ, например 15.09 09:00:", nil)
}

func (bh *BotHandler) handleWizardFormat(chatID int64, messageID int, format string) {
	if bh.Deps.SessionManager.GetState(chatID) != constants.STATE_ORDER_FORMAT {
		return
	}
	if _, ok := constants.FormatDisplayMap[format]; !ok {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Выберите формат из списка.")
		return
	}
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	data.Format = format
	bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_CITIZENSHIP)
	bh.sendOrEditMenuHelper(chatID, messageID, "Шаг 9. Требование к гражданству:", citizenshipKeyboard(true))
}

func (bh *BotHandler) handleWizardCitizenship(chatID int64, messageID int, citizenship string) {
	if bh.Deps.SessionManager.GetState(chatID) != constants.STATE_ORDER_CITIZENSHIP {
		return
	}
	switch citizenship {
	case constants.CITIZENSHIP_RF, constants.CITIZENSHIP_FOREIGN, constants.CITIZENSHIP_ANY:
	default:
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Выберите вариант из списка.")
		return
	}
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	data.CitizenshipRequired = citizenship
	bh.Deps.SessionManager.UpdateTempOrder(chatID, data)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_FEATURES)
	bh.sendOrEditMenuHelper(chatID, messageID,
		"Шаг 10. Особенности (спецодежда, инструмент и т.п.).\nЕсли их нет — отправьте «-»:", nil)
}

func (bh *BotHandler) showOrderConfirmation(chatID int64, data session.TempOrderData) {
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ORDER_CONFIRM)
	text := formatters.FormatOrderConfirmation(data.Order, bh.Deps.Config.Timezone)
	bh.sendOrEditMenuHelper(chatID, 0, text, confirmOrderKeyboard())
}

// handleWizardConfirm публикует заказ и запускает рассылку.
func (bh *BotHandler) handleWizardConfirm(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID

	if bh.Deps.SessionManager.GetState(chatID) != constants.STATE_ORDER_CONFIRM {
		bh.answerCallback(query.ID, "Заказ уже обработан")
		return
	}
	data := bh.Deps.SessionManager.GetTempOrder(chatID)
	order := data.Order
	order.Status = constants.ORDER_STATUS_CREATED

	orderID, err := db.CreateOrder(order)
	if err != nil {
		log.Printf("handleWizardConfirm: ошибка создания заказа: %v", err)
		bh.answerCallback(query.ID, "Не удалось сохранить заказ")
		return
	}
	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempOrder(chatID)

	bh.answerCallback(query.ID, "Заказ опубликован")
	bh.sendOrEditMenuHelper(chatID, query.Message.MessageID,
		fmt.Sprintf("✅ Заказ #%d опубликован. Рассылка работникам запущена.", orderID), nil)

	created, err := db.GetOrderByID(orderID)
	if err != nil {
		log.Printf("handleWizardConfirm: заказ #%d сохранён, но не прочитан: %v", orderID, err)
		return
	}
	go bh.Deps.Broadcaster.BroadcastOrder(created)
}
