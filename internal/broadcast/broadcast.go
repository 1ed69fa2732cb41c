package broadcast

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// Broadcaster рассылает карточку заказа подходящим работникам пачками,
// чтобы не упереться в лимиты Telegram, и шлёт админам сводку.
type Broadcaster struct {
	notifier lifecycle.Notifier
	admins   lifecycle.AdminDirectory
	loc      *time.Location

	batchSize int
	batchWait time.Duration
}

// New собирает рассыльщик с боевыми параметрами пачек.
func New(notifier lifecycle.Notifier, admins lifecycle.AdminDirectory, loc *time.Location) *Broadcaster {
	if loc == nil {
		loc = time.Local
	}
	return &Broadcaster{
		notifier:  notifier,
		admins:    admins,
		loc:       loc,
		batchSize: constants.BROADCAST_BATCH_SIZE,
		batchWait: constants.BROADCAST_BATCH_WAIT,
	}
}

// BroadcastOrder рассылает новый заказ. Блокирует до конца рассылки,
// вызывающий при необходимости запускает в горутине.
func (b *Broadcaster) BroadcastOrder(order models.Order) {
	b.run(order, "📦 Новый заказ")
}

// Rebroadcast повторно рассылает заказ, в котором освободилось место.
func (b *Broadcaster) Rebroadcast(order models.Order) {
	b.run(order, "🔄 Освободилось место в заказе")
}

func (b *Broadcaster) run(order models.Order, header string) {
	runID := uuid.NewString()[:8]
	workers, err := db.ListEligibleWorkers(order.CitizenshipRequired, time.Now())
	if err != nil {
		log.Printf("broadcast %s: не удалось выбрать получателей заказа %d: %v", runID, order.ID, err)
		return
	}

	text := fmt.Sprintf("%s\n%s\nАдрес: %s (%s)\nНачало: %s\nОплата: %s",
		header, order.Description, order.Address, order.District,
		order.StartTime.In(b.loc).Format("02.01 15:04"), payLabel(order.Format))
	rows := [][]lifecycle.Button{{
		{Text: "✅ Взять заказ", Data: fmt.Sprintf("%s:%d", constants.CALLBACK_TAKE_ORDER, order.ID)},
		{Text: "👀 Пропустить", Data: fmt.Sprintf("%s:%d", constants.CALLBACK_SKIP_ORDER, order.ID)},
	}}

	ids := make([]int64, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.TelegramID)
	}
	sent, failures := b.fanOut(ids, text, rows)

	log.Printf("broadcast %s: заказ %d, отправлено %d, ошибок %d", runID, order.ID, sent, len(failures))
	b.notifyAdmins(summary(runID, order.ID, header, sent, failures))
}

// fanOut шлёт сообщение пачками с паузой между ними.
// Возвращает число доставленных и список ошибок вида "tg_id: причина".
func (b *Broadcaster) fanOut(ids []int64, text string, rows [][]lifecycle.Button) (int, []string) {
	var sent int
	var failures []string
	for i, id := range ids {
		if i > 0 && i%b.batchSize == 0 && b.batchWait > 0 {
			time.Sleep(b.batchWait)
		}
		if err := b.notifier.NotifyButtons(id, text, rows); err != nil {
			failures = append(failures, fmt.Sprintf("%d: %v", id, err))
			continue
		}
		sent++
	}
	return sent, failures
}

// summary готовит сводку рассылки для админов: счётчики и не больше
// пяти примеров ошибок.
func summary(runID string, orderID int64, header string, sent int, failures []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📣 Рассылка %s\n%s #%d\nДоставлено: %d\nОшибок: %d", runID, header, orderID, sent, len(failures))
	if len(failures) > 0 {
		sb.WriteString("\nПримеры ошибок:")
		limit := len(failures)
		if limit > constants.BROADCAST_MAX_ERRORS {
			limit = constants.BROADCAST_MAX_ERRORS
		}
		for _, f := range failures[:limit] {
			sb.WriteString("\n• " + f)
		}
	}
	return sb.String()
}

func (b *Broadcaster) notifyAdmins(text string) {
	if b.admins == nil {
		return
	}
	for _, chatID := range b.admins.AdminChatIDs() {
		if err := b.notifier.Notify(chatID, text); err != nil {
			log.Printf("broadcast: не удалось отправить сводку админу %d: %v", chatID, err)
		}
	}
}

func payLabel(format string) string {
	switch format {
	case constants.FORMAT_SHIFT8:
		return fmt.Sprintf("%.0f ₽ за смену 8ч", constants.SHIFT8_RATE)
	case constants.FORMAT_DAY12:
		return fmt.Sprintf("%.0f ₽ за день 12ч", constants.DAY12_RATE)
	default:
		return fmt.Sprintf("%.0f ₽/час, минимум %d часа", constants.HOUR_RATE, constants.HOUR_MIN_UNIT)
	}
}
