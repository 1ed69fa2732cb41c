package handlers

import (
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/formatters"
	"github.com/ragshata/RabotaHULT/internal/models"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

// showProfile показывает карточку профиля с кнопками редактирования.
func (bh *BotHandler) showProfile(chatID int64, worker models.Worker, messageID int) {
	bh.sendOrEditMenuHelper(chatID, messageID, formatters.FormatWorkerProfile(worker), profileKeyboard())
}

func profileKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить имя", callbackData(constants.CALLBACK_PROFILE_EDIT, "name")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📱 Изменить телефон", callbackData(constants.CALLBACK_PROFILE_EDIT, "phone")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Изменить район", callbackData(constants.CALLBACK_PROFILE_EDIT, "district")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Изменить гражданство", callbackData(constants.CALLBACK_PROFILE_EDIT, "citizenship")),
		),
	)
	return &kb
}

// handleProfileEdit запускает редактирование выбранного поля профиля.
func (bh *BotHandler) handleProfileEdit(chatID int64, messageID int, field string) {
	switch field {
	case "name":
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_PROFILE_NAME)
		bh.sendOrEditMenuHelper(chatID, messageID, "Введите новое имя (Фамилия и имя):", nil)

	case "phone":
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_PROFILE_PHONE)
		bh.deleteMessageHelper(chatID, messageID)
		msg := tgbotapi.NewMessage(chatID,
			"Отправьте новый номер кнопкой ниже или введите вручную (формат +7XXXXXXXXXX).")
		contactBtn := tgbotapi.NewKeyboardButtonContact("📱 Отправить номер")
		kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(contactBtn))
		kb.ResizeKeyboard = true
		kb.OneTimeKeyboard = true
		msg.ReplyMarkup = kb
		if _, err := bh.Deps.BotClient.Send(msg); err != nil {
			log.Printf("handleProfileEdit: ошибка отправки для chatID %d: %v", chatID, err)
		}

	case "district":
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_PROFILE_DISTRICT)
		bh.sendOrEditMenuHelper(chatID, messageID, "Выберите новый район:", districtKeyboard())

	case "citizenship":
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_PROFILE_CITIZENSHIP)
		bh.sendOrEditMenuHelper(chatID, messageID, "Выберите гражданство:", citizenshipKeyboard(false))

	default:
		log.Printf("handleProfileEdit: неизвестное поле '%s' от chatID %d", field, chatID)
	}
}

// handleProfileInput принимает текстовые шаги редактирования профиля.
func (bh *BotHandler) handleProfileInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch state {
	case constants.STATE_PROFILE_NAME:
		name, err := utils.ValidateName(text)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		if err := db.UpdateWorkerField(chatID, "name", name); err != nil {
			bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось сохранить имя.")
			return
		}
		bh.finishProfileEdit(chatID, "✅ Имя обновлено.")

	case constants.STATE_PROFILE_PHONE:
		raw := text
		if message.Contact != nil {
			raw = message.Contact.PhoneNumber
		}
		phone, err := utils.ValidatePhoneNumber(raw)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		if err := db.UpdateWorkerField(chatID, "phone", phone); err != nil {
			bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось сохранить телефон.")
			return
		}
		msg := tgbotapi.NewMessage(chatID, "✅ Телефон обновлён.")
		msg.ReplyMarkup = bh.mainMenuKeyboard(chatID)
		_, _ = bh.Deps.BotClient.Send(msg)
		bh.finishProfileEdit(chatID, "")

	case constants.STATE_PROFILE_COUNTRY:
		if len([]rune(text)) < 2 {
			bh.sendMessage(chatID, "❌ Укажите страну гражданства.")
			return
		}
		if err := db.SetWorkerCitizenship(chatID, constants.CITIZENSHIP_FOREIGN, text); err != nil {
			bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось сохранить гражданство.")
			return
		}
		bh.finishProfileEdit(chatID, "✅ Гражданство обновлено.")

	default:
		bh.sendMessage(chatID, "Пожалуйста, используйте кнопки выше.")
	}
}

// handleProfileDistrict — выбор нового района кнопкой.
func (bh *BotHandler) handleProfileDistrict(chatID int64, messageID int, district string) {
	valid := false
	for _, d := range constants.ValidDistricts {
		if d == district {
			valid = true
			break
		}
	}
	if !valid {
		bh.sendErrorMessageHelper(chatID, messageID, "Неизвестный район, выберите из списка.")
		return
	}
	if err := db.UpdateWorkerField(chatID, "district", district); err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось сохранить район.")
		return
	}
	bh.deleteMessageHelper(chatID, messageID)
	bh.finishProfileEdit(chatID, "✅ Район обновлён.")
}

// handleProfileCitizenship — выбор гражданства кнопкой.
// Иностранцев дополнительно спрашиваем о стране.
func (bh *BotHandler) handleProfileCitizenship(chatID int64, messageID int, citizenship string) {
	if citizenship == constants.CITIZENSHIP_FOREIGN {
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_PROFILE_COUNTRY)
		bh.sendOrEditMenuHelper(chatID, messageID, "Из какой вы страны?", nil)
		return
	}
	if err := db.SetWorkerCitizenship(chatID, constants.CITIZENSHIP_RF, ""); err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось сохранить гражданство.")
		return
	}
	bh.deleteMessageHelper(chatID, messageID)
	bh.finishProfileEdit(chatID, "✅ Гражданство обновлено.")
}

// finishProfileEdit сбрасывает состояние и показывает свежую карточку.
func (bh *BotHandler) finishProfileEdit(chatID int64, note string) {
	bh.Deps.SessionManager.ClearState(chatID)
	worker, err := db.GetWorkerByTelegramID(chatID)
	if err != nil {
		log.Printf("finishProfileEdit: ошибка чтения профиля chatID %d: %v", chatID, err)
		return
	}
	if note != "" {
		bh.sendMessage(chatID, note)
	}
	bh.showProfile(chatID, worker, 0)
}
