package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/formatters"
	"github.com/ragshata/RabotaHULT/internal/reports"
)

// showAdminOrdersList показывает админу все заказы с пагинацией.
func (bh *BotHandler) showAdminOrdersList(chatID int64, page int, messageID int) {
	orders, total, err := db.ListOrdersForAdmin(page, constants.ORDERS_PAGE_SIZE)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось загрузить заказы.")
		return
	}
	if total == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID,
			fmt.Sprintf("Заказов пока нет. Создайте первый через «%s».", constants.MENU_ADMIN_CREATE), nil)
		return
	}
	totalPages := (total + constants.ORDERS_PAGE_SIZE - 1) / constants.ORDERS_PAGE_SIZE
	text := fmt.Sprintf("📦 Все заказы (%d):", total)
	bh.sendOrEditMenuHelper(chatID, messageID, text, ordersListKeyboard(orders, page, totalPages))
}

// showAdminOrderCard показывает админскую карточку заказа с действиями.
func (bh *BotHandler) showAdminOrderCard(chatID int64, orderID int64, messageID int) {
	order, err := db.GetOrderByID(orderID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Заказ не найден.")
		return
	}
	assigned, err := db.ListAssignedWorkers(orderID)
	if err != nil {
		log.Printf("showAdminOrderCard: ошибка списка работников заказа #%d: %v", orderID, err)
	}
	text := formatters.FormatOrderCardForAdmin(order, assigned, bh.Deps.Config.Timezone)
	bh.sendOrEditMenuHelper(chatID, messageID, text, adminOrderCardKeyboard(order))
}

// showPayouts показывает сводку невыплаченных сумм по работникам.
func (bh *BotHandler) showPayouts(chatID int64, messageID int) {
	summaries, err := db.GetUnpaidSummary()
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось загрузить выплаты.")
		return
	}
	text := formatters.FormatUnpaidSummaryList(summaries)
	if len(summaries) == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID, text, nil)
		return
	}
	bh.sendOrEditMenuHelper(chatID, messageID, text, payoutKeyboard(summaries))
}

// showWorkersList показывает список работников с пагинацией.
func (bh *BotHandler) showWorkersList(chatID int64, page int, messageID int) {
	workers, total, err := db.ListWorkers(page, constants.WORKERS_PAGE_SIZE)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Не удалось загрузить работников.")
		return
	}
	if total == 0 {
		bh.sendOrEditMenuHelper(chatID, messageID, "Работников пока нет.", nil)
		return
	}
	totalPages := (total + constants.WORKERS_PAGE_SIZE - 1) / constants.WORKERS_PAGE_SIZE
	text := fmt.Sprintf("👷 Работники (%d):", total)
	bh.sendOrEditMenuHelper(chatID, messageID, text, workersListKeyboard(workers, page, totalPages))
}

// showWorkerCard показывает карточку работника для админа.
func (bh *BotHandler) showWorkerCard(chatID int64, workerID int64, page int, messageID int) {
	worker, err := db.GetWorkerByID(workerID)
	if err != nil {
		bh.sendErrorMessageHelper(chatID, messageID, "❌ Работник не найден.")
		return
	}
	shiftsDone, err := db.CountWorkerShifts(workerID)
	if err != nil {
		log.Printf("showWorkerCard: ошибка подсчета смен работника %d: %v", workerID, err)
	}
	text := formatters.FormatWorkerCardForAdmin(worker, shiftsDone, time.Now(), bh.Deps.Config.Timezone)
	bh.sendOrEditMenuHelper(chatID, messageID, text, workerCardKeyboard(worker, page))
}

// sendUnpaidExport формирует Excel с невыплаченными начислениями и шлёт файлом.
func (bh *BotHandler) sendUnpaidExport(chatID int64) {
	fileBytes, err := reports.BuildUnpaidWorkbook(bh.Deps.Config.Timezone)
	if err != nil {
		log.Printf("sendUnpaidExport: ошибка сборки отчета: %v", err)
		bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось собрать выгрузку.")
		return
	}
	if err := reports.SendWorkbook(bh.Deps.BotClient, chatID, fileBytes); err != nil {
		log.Printf("sendUnpaidExport: ошибка отправки отчета для chatID %d: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID, 0, "❌ Не удалось отправить файл.")
	}
}
