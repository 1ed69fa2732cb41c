package handlers

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/utils"
)

// startOnboarding запускает анкету нового работника с запроса телефона.
func (bh *BotHandler) startOnboarding(chatID int64) {
	bh.Deps.SessionManager.ClearTempWorker(chatID)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ONBOARD_PHONE)

	msg := tgbotapi.NewMessage(chatID,
		"👋 Добро пожаловать! Чтобы получать заказы, заполните короткую анкету.\n\n"+
			"Отправьте ваш номер телефона кнопкой ниже или введите вручную (формат +7XXXXXXXXXX).")
	contactBtn := tgbotapi.NewKeyboardButtonContact("📱 Отправить номер")
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(contactBtn))
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	msg.ReplyMarkup = kb
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("startOnboarding: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

// handleOnboardingInput ведет работника по шагам анкеты.
func (bh *BotHandler) handleOnboardingInput(message *tgbotapi.Message, state string) {
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	data := bh.Deps.SessionManager.GetTempWorker(chatID)

	switch state {
	case constants.STATE_ONBOARD_PHONE:
		raw := text
		if message.Contact != nil {
			raw = message.Contact.PhoneNumber
		}
		phone, err := utils.ValidatePhoneNumber(raw)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.Phone = phone
		bh.Deps.SessionManager.UpdateTempWorker(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ONBOARD_NAME)

		msg := tgbotapi.NewMessage(chatID, "Как вас зовут? (Фамилия и имя)")
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		_, _ = bh.Deps.BotClient.Send(msg)

	case constants.STATE_ONBOARD_NAME:
		name, err := utils.ValidateName(text)
		if err != nil {
			bh.sendMessage(chatID, "❌ "+err.Error())
			return
		}
		data.Name = name
		data.City = bh.Deps.Config.City
		bh.Deps.SessionManager.UpdateTempWorker(chatID, data)
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ONBOARD_DISTRICT)
		bh.sendOrEditMenuHelper(chatID, 0, "В каком районе вы живёте?", districtKeyboard())

	case constants.STATE_ONBOARD_COUNTRY:
		if len([]rune(text)) < 2 {
			bh.sendMessage(chatID, "❌ Укажите страну гражданства.")
			return
		}
		data.Country = text
		bh.Deps.SessionManager.UpdateTempWorker(chatID, data)
		bh.finishOnboarding(chatID, data.Country)

	default:
		// Район и гражданство выбираются кнопками, текст здесь не ждем
		bh.sendMessage(chatID, "Пожалуйста, используйте кнопки выше.")
	}
}

// handleOnboardingDistrict — выбор района кнопкой.
func (bh *BotHandler) handleOnboardingDistrict(chatID int64, messageID int, district string) {
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
	data := bh.Deps.SessionManager.GetTempWorker(chatID)
	data.District = district
	bh.Deps.SessionManager.UpdateTempWorker(chatID, data)
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_ONBOARD_CITIZENSHIP)
	bh.sendOrEditMenuHelper(chatID, messageID, "Ваше гражданство?", citizenshipKeyboard(false))
}

// handleOnboardingCitizenship — выбор гражданства кнопкой.
// Иностранцев дополнительно спрашиваем о стране.
func (bh *BotHandler) handleOnboardingCitizenship(chatID int64, messageID int, citizenship string) {
	data := bh.Deps.SessionManager.GetTempWorker(chatID)
	data.Citizenship = citizenship
	bh.Deps.SessionManager.UpdateTempWorker(chatID, data)

	if citizenship == constants.CITIZENSHIP_FOREIGN {
		bh.Deps.SessionManager.SetState(chatID, constants.STATE_ONBOARD_COUNTRY)
		bh.sendOrEditMenuHelper(chatID, messageID, "Из какой вы страны?", nil)
		return
	}
	bh.deleteMessageHelper(chatID, messageID)
	bh.finishOnboarding(chatID, "")
}

// finishOnboarding сохраняет анкету и открывает главное меню.
func (bh *BotHandler) finishOnboarding(chatID int64, country string) {
	data := bh.Deps.SessionManager.GetTempWorker(chatID)
	err := db.CompleteOnboarding(chatID, data.Name, data.Phone, data.City, data.District, data.Citizenship, country)
	if err != nil {
		log.Printf("finishOnboarding: ошибка сохранения анкеты chatID %d: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось сохранить анкету. Попробуйте ещё раз: /start")
		return
	}
	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempWorker(chatID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Анкета сохранена, %s!\nТеперь вам будут приходить подходящие заказы. Загляните в «%s».",
		data.Name, constants.MENU_NEW_ORDERS))
	msg.ReplyMarkup = bh.mainMenuKeyboard(chatID)
	if _, errSend := bh.Deps.BotClient.Send(msg); errSend != nil {
		log.Printf("finishOnboarding: ошибка отправки меню для chatID %d: %v", chatID, errSend)
	}
}
