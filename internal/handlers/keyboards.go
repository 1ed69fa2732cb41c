package handlers

import (
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// mainMenuKeyboard — реплай-клавиатура главного меню.
// Админы получают дополнительный ряд кнопок.
func (bh *BotHandler) mainMenuKeyboard(chatID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(constants.MENU_NEW_ORDERS),
			tgbotapi.NewKeyboardButton(constants.MENU_MY_SHIFTS),
		},
		{
			tgbotapi.NewKeyboardButton(constants.MENU_BALANCE),
			tgbotapi.NewKeyboardButton(constants.MENU_PROFILE),
		},
		{
			tgbotapi.NewKeyboardButton(constants.MENU_HELP),
		},
	}
	if bh.Deps.Config.IsAdmin(chatID) {
		rows = append(rows,
			[]tgbotapi.KeyboardButton{
				tgbotapi.NewKeyboardButton(constants.MENU_ADMIN_CREATE),
				tgbotapi.NewKeyboardButton(constants.MENU_ADMIN_PAYOUT),
			},
			[]tgbotapi.KeyboardButton{
				tgbotapi.NewKeyboardButton(constants.MENU_ADMIN_STAFF),
				tgbotapi.NewKeyboardButton(constants.MENU_ADMIN_EXPORT),
			})
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// callbackData собирает callback_data вида "prefix:arg1:arg2".
func callbackData(prefix string, args ...any) string {
	data := prefix
	for _, a := range args {
		data += fmt.Sprintf(":%v", a)
	}
	return data
}

// orderCardKeyboard — кнопки карточки заказа в ленте работника.
func orderCardKeyboard(orderID int64, page int) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Взять заказ", callbackData(constants.CALLBACK_TAKE_ORDER, orderID)),
			tgbotapi.NewInlineKeyboardButtonData("👀 Пропустить", callbackData(constants.CALLBACK_SKIP_ORDER, orderID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 К списку", callbackData(constants.CALLBACK_ORDERS_PAGE, page)),
		),
	)
	return &kb
}

// ordersListKeyboard — список заказов с пагинацией.
func ordersListKeyboard(orders []models.Order, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orders {
		label := fmt.Sprintf("#%d · %s · %s", o.ID, o.StartTime.Format("02.01 15:04"), o.District)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(constants.CALLBACK_ORDER_CARD, o.ID, page)),
		))
	}
	if nav := paginationRow(constants.CALLBACK_ORDERS_PAGE, page, totalPages); nav != nil {
		rows = append(rows, nav)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// paginationRow — ряд навигации "⬅️ / страница / ➡️". Возвращает nil,
// если страница одна.
func paginationRow(prefix string, page, totalPages int) []tgbotapi.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}
	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️", callbackData(prefix, page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", page+1, totalPages), callbackData(prefix, page)))
	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("➡️", callbackData(prefix, page+1)))
	}
	return row
}

// shiftTabsKeyboard — вкладки "Мои смены" плюс список смен текущей вкладки.
func shiftTabsKeyboard(shifts []models.Shift, activeTab string) *tgbotapi.InlineKeyboardMarkup {
	tabs := []struct {
		key   string
		label string
	}{
		{"accepted", "Активные"},
		{constants.SHIFT_STATUS_DONE, "Завершённые"},
		{constants.SHIFT_STATUS_CANCELLED, "Отменённые"},
	}
	var tabRow []tgbotapi.InlineKeyboardButton
	for _, tab := range tabs {
		label := tab.label
		if tab.key == activeTab {
			label = "• " + label + " •"
		}
		tabRow = append(tabRow, tgbotapi.NewInlineKeyboardButtonData(label, callbackData(constants.CALLBACK_SHIFTS_TAB, tab.key)))
	}
	rows := [][]tgbotapi.InlineKeyboardButton{tabRow}
	for _, s := range shifts {
		label := fmt.Sprintf("#%d · %s · %s", s.ID, s.StartTime.Format("02.01 15:04"), constants.ShiftStatusDisplayMap[s.Status])
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(constants.CALLBACK_SHIFT_CARD, s.ID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// shiftCardKeyboard — действия в карточке смены по её статусу.
func shiftCardKeyboard(shift models.Shift) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	switch shift.Status {
	case constants.SHIFT_STATUS_ACCEPTED:
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📍 Я на месте", callbackData(constants.CALLBACK_SHIFT_ARRIVE, shift.ID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Отменить запись", callbackData(constants.CALLBACK_SHIFT_CANCEL, shift.ID)),
			))
	case constants.SHIFT_STATUS_ARRIVED:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏁 Завершить смену", callbackData(constants.CALLBACK_SHIFT_DONE, shift.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 К сменам", callbackData(constants.CALLBACK_SHIFTS_TAB, "accepted")),
	))
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// adminOrderCardKeyboard — действия админа над заказом.
func adminOrderCardKeyboard(order models.Order) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	if order.Status == constants.ORDER_STATUS_CREATED || order.Status == constants.ORDER_STATUS_STARTED {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏️ Редактировать", callbackData(constants.CALLBACK_ADMIN_EDIT, order.ID)),
				tgbotapi.NewInlineKeyboardButtonData("🚫 Отменить заказ", callbackData(constants.CALLBACK_ADMIN_CANCEL, order.ID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📣 Разослать ещё раз", callbackData(constants.CALLBACK_ADMIN_BROADCAST, order.ID)),
				tgbotapi.NewInlineKeyboardButtonData("🔳 QR-код", callbackData(constants.CALLBACK_ADMIN_ORDER_QR, order.ID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("➕ Записать работника", callbackData(constants.CALLBACK_ADMIN_ASSIGN, order.ID)),
				tgbotapi.NewInlineKeyboardButtonData("➖ Снять работника", callbackData(constants.CALLBACK_ADMIN_UNASSIGN, order.ID)),
			))
	}
	// у закрытых заказов действий нет
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// districtKeyboard — выбор района из справочника.
func districtKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(constants.ValidDistricts); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(constants.ValidDistricts[i], callbackData(constants.CALLBACK_DISTRICT, constants.ValidDistricts[i])),
		}
		if i+1 < len(constants.ValidDistricts) {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(constants.ValidDistricts[i+1], callbackData(constants.CALLBACK_DISTRICT, constants.ValidDistricts[i+1])))
		}
		rows = append(rows, row)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// citizenshipKeyboard — выбор гражданства. forOrder добавляет вариант "Любое".
func citizenshipKeyboard(forOrder bool) *tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("🇷🇺 РФ", callbackData(constants.CALLBACK_CITIZENSHIP, constants.CITIZENSHIP_RF)),
		tgbotapi.NewInlineKeyboardButtonData("🌍 Иностранец", callbackData(constants.CALLBACK_CITIZENSHIP, constants.CITIZENSHIP_FOREIGN)),
	}
	if forOrder {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Любое", callbackData(constants.CALLBACK_CITIZENSHIP, constants.CITIZENSHIP_ANY)))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
	return &kb
}

// formatKeyboard — выбор формата оплаты заказа.
func formatKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Почасовая", callbackData(constants.CALLBACK_FORMAT, constants.FORMAT_HOUR)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Смена 8ч", callbackData(constants.CALLBACK_FORMAT, constants.FORMAT_SHIFT8)),
			tgbotapi.NewInlineKeyboardButtonData("День 12ч", callbackData(constants.CALLBACK_FORMAT, constants.FORMAT_DAY12)),
		),
	)
	return &kb
}

// confirmOrderKeyboard — подтверждение публикации заказа.
func confirmOrderKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Опубликовать", constants.CALLBACK_CONFIRM_ORDER),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", constants.CALLBACK_CANCEL_CREATION),
		),
	)
	return &kb
}

// workersListKeyboard — список работников для админа с пагинацией.
func workersListKeyboard(workers []models.Worker, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, w := range workers {
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("без анкеты (tg %d)", w.TelegramID)
		}
		label := fmt.Sprintf("%s · %.1f", name, w.Rating)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(constants.CALLBACK_ADMIN_WORKER, w.ID, page)),
		))
	}
	if nav := paginationRow(constants.CALLBACK_ADMIN_WORKERS, page, totalPages); nav != nil {
		rows = append(rows, nav)
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// workerCardKeyboard — действия админа над работником.
func workerCardKeyboard(w models.Worker, page int) *tgbotapi.InlineKeyboardMarkup {
	toggleLabel := "🚫 Заблокировать"
	if w.Status == constants.WORKER_STATUS_BLOCKED {
		toggleLabel = "✅ Разблокировать"
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, callbackData(constants.CALLBACK_ADMIN_W_TOGGLE, w.ID, page)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", callbackData(constants.CALLBACK_ADMIN_W_PURGE, w.ID, page)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 К списку", callbackData(constants.CALLBACK_ADMIN_WORKERS, page)),
		),
	)
	return &kb
}

// payoutKeyboard — кнопки "выплачено" по каждому работнику из сводки.
func payoutKeyboard(summaries []models.UnpaidSummary) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range summaries {
		label := fmt.Sprintf("✅ %s — выплачено", s.Name)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(constants.CALLBACK_ADMIN_PAY, s.WorkerID)),
		))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}
