package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/formatters"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// showOrdersFeed показывает работнику ленту доступных заказов.
func (bh *BotHandler) showOrdersFeed(chatID int64, worker models.Worker, page int, messageID int) {
	now := time.Now()
	if worker.IsBlockedAt(now) {
		text := "🚫 Взятие смен для вас временно закрыто."
		if worker.BlockedUntil.Valid && worker.Status != constants.WORKER_STATUS_BLOCKED {
			text = fmt.Sprintf("🚫 Взятие смен закрыто до %s (неявка на смену).",
				worker.BlockedUntil.Time.In(bh.Deps.Config.Timezone).Format("02.01.2006"))
		}
		bh.sendOrEditMenuHelper(chatID, messageID, text, nil)
		return
	}

	orders, total, err := db.ListOpenOrdersForWorker(worker.ID, now, page, constants.ORDERS_PAGE_SIZE)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось загрузить заказы. Попробуйте позже.")
		return
	}
	if total == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID,
			"Пока нет подходящих заказов. Новые приходят уведомлением — не выключайте бота.", nil)
		return
	}

	totalPages := (total + constants.ORDERS_PAGE_SIZE - 1) / constants.ORDERS_PAGE_SIZE
	text := fmt.Sprintf("📦 Доступные заказы (%d):", total)
	bh.sendOrEditMenuHelper(chatID, messageID, text, ordersListKeyboard(orders, page, totalPages))
}

// showOrderCard показывает карточку заказа из ленты.
func (bh *BotHandler) showOrderCard(chatID int64, worker models.Worker, orderID int64, page int, messageID int) {
	order, err := db.GetOrderByID(orderID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Заказ не найден. Обновите список.")
		return
	}
	text := formatters.FormatOrderCardForWorker(order, bh.Deps.Config.Timezone)
	bh.sendOrEditMenuHelper(chatID, messageID, text, orderCardKeyboard(order.ID, page))
}

// showShiftsTab показывает вкладку "Мои смены".
func (bh *BotHandler) showShiftsTab(chatID int64, worker models.Worker, tab string, messageID int) {
	shifts, err := db.ListWorkerShifts(worker.ID, tab)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось загрузить смены.")
		return
	}

	text := "📅 Мои смены"
	if len(shifts) == 0 {
		switch tab {
		case "accepted":
			text += "\n\nАктивных смен нет. Возьмите заказ в ленте!"
		default:
			text += "\n\nВ этой вкладке пусто."
		}
	}
	bh.sendOrEditMenuHelper(chatID, messageID, text, shiftTabsKeyboard(shifts, tab))
}

// showShiftCard показывает карточку смены с действиями по статусу.
func (bh *BotHandler) showShiftCard(chatID int64, worker models.Worker, shiftID int64, messageID int) {
	shift, err := db.GetShiftByID(shiftID)
	if err != nil || shift.WorkerID != worker.ID {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Смена не найдена.")
		return
	}
	text := formatters.FormatShiftCard(shift, bh.Deps.Config.Timezone)
	bh.sendOrEditMenuHelper(chatID, messageID, text, shiftCardKeyboard(shift))
}

// showBalance показывает баланс и последние начисления.
func (bh *BotHandler) showBalance(chatID int64, worker models.Worker) {
	total, history, err := db.GetWorkerBalance(worker.ID, 10)
	if err != nil {
		log.Printf("showBalance: ошибка получения баланса работника %d: %v", worker.ID, err)
		bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось загрузить баланс.")
		return
	}
	bh.sendMessage(chatID, formatters.FormatBalance(total, history, bh.Deps.Config.Timezone))
}
