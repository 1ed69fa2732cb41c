package lifecycle

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// Button — кнопка инлайн-клавиатуры в нейтральном виде,
// чтобы ядро не зависело от telegram-библиотеки.
type Button struct {
	Text string
	Data string
	URL  string
}

// Notifier отправляет сообщения получателям. Реализуется адаптером
// поверх telegram-клиента, в тестах подменяется фейком.
type Notifier interface {
	Notify(chatID int64, text string) error
	NotifyButtons(chatID int64, text string, rows [][]Button) error
}

// AdminDirectory отдаёт chat_id администраторов для служебных уведомлений.
type AdminDirectory interface {
	AdminChatIDs() []int64
}

// StaticAdmins — AdminDirectory поверх фиксированного списка из конфига.
type StaticAdmins []int64

func (a StaticAdmins) AdminChatIDs() []int64 { return a }

// Broadcaster запускает повторную рассылку заказа, когда в нём
// освободилось место.
type Broadcaster interface {
	Rebroadcast(order models.Order)
}

// Manager выполняет переходы жизненного цикла заказов и смен.
// Каждая мутация — одна транзакция, уведомления уходят после коммита.
type Manager struct {
	notifier    Notifier
	admins      AdminDirectory
	broadcaster Broadcaster
	loc         *time.Location

	now func() time.Time // подменяется в тестах
}

// NewManager собирает менеджер жизненного цикла.
func NewManager(notifier Notifier, admins AdminDirectory, broadcaster Broadcaster, loc *time.Location) *Manager {
	if loc == nil {
		loc = time.Local
	}
	return &Manager{
		notifier:    notifier,
		admins:      admins,
		broadcaster: broadcaster,
		loc:         loc,
		now:         time.Now,
	}
}

// Claim записывает работника на заказ: проверяет допуск, занимает место
// и создаёт смену в статусе accepted.
func (m *Manager) Claim(workerID, orderID int64) (models.Shift, error) {
	now := m.now()
	worker, err := db.GetWorkerByID(workerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Shift{}, ErrNotFound
		}
		return models.Shift{}, err
	}

	tx, err := db.DB.Begin()
	if err != nil {
		return models.Shift{}, fmt.Errorf("Claim: begin: %w", err)
	}
	defer tx.Rollback()

	shiftID, err := m.claimTx(tx, worker, orderID, now)
	if err != nil {
		return models.Shift{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Shift{}, fmt.Errorf("Claim: commit: %w", err)
	}
	return db.GetShiftByID(shiftID)
}

// claimTx — общая часть Claim и AdminAssign внутри открытой транзакции.
func (m *Manager) claimTx(tx *sql.Tx, worker models.Worker, orderID int64, now time.Time) (int64, error) {
	var o models.Order
	row := tx.QueryRow(`
        SELECT id, status, start_time, format, citizenship_required, places_total, places_taken
        FROM orders WHERE id=$1 FOR UPDATE`, orderID)
	err := row.Scan(&o.ID, &o.Status, &o.StartTime, &o.Format,
		&o.CitizenshipRequired, &o.PlacesTotal, &o.PlacesTaken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("claimTx: заказ %d: %w", orderID, err)
	}

	if o.Status != constants.ORDER_STATUS_CREATED {
		return 0, ErrOrderNotOpen
	}
	if !now.Before(o.StartTime) {
		return 0, ErrOrderNotOpen
	}
	if o.IsFull() {
		return 0, ErrCapacityFull
	}
	if err := ClaimGuard(worker, o, now); err != nil {
		return 0, err
	}

	var exists bool
	err = tx.QueryRow(`
        SELECT EXISTS(SELECT 1 FROM shifts
         WHERE worker_id=$1 AND order_id=$2 AND status IN ('accepted','arrived'))`,
		worker.ID, orderID).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("claimTx: проверка дубликата: %w", err)
	}
	if exists {
		return 0, ErrAlreadyClaimed
	}

	// Блокировка строки работника сериализует его параллельные записи:
	// без неё две транзакции не видят смен друг друга и обе проходят
	// проверку пересечения.
	var one int
	if err := tx.QueryRow("SELECT 1 FROM workers WHERE id=$1 FOR UPDATE", worker.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("claimTx: блокировка работника %d: %w", worker.ID, err)
	}

	conflict, err := db.HasTimeConflict(tx, worker.ID, o.StartTime, o.Format)
	if err != nil {
		return 0, err
	}
	if conflict {
		return 0, ErrTimeConflict
	}

	var shiftID int64
	err = tx.QueryRow(`
        INSERT INTO shifts (order_id, worker_id, status, start_time, accepted_at)
        VALUES ($1, $2, $3, $4, NOW()) RETURNING id`,
		orderID, worker.ID, constants.SHIFT_STATUS_ACCEPTED, o.StartTime).Scan(&shiftID)
	if err != nil {
		// 23505 — сработал частичный уникальный индекс активных смен
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrAlreadyClaimed
		}
		return 0, fmt.Errorf("claimTx: вставка смены: %w", err)
	}

	res, err := tx.Exec(`
        UPDATE orders SET places_taken = places_taken + 1, updated_at = NOW()
        WHERE id=$1 AND places_taken < places_total`, orderID)
	if err != nil {
		return 0, fmt.Errorf("claimTx: занятие места: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrCapacityFull
	}
	return shiftID, nil
}

// Arrive отмечает прибытие работника на смену. Первый прибывший
// переводит заказ в статус started.
func (m *Manager) Arrive(shiftID, workerID int64) error {
	now := m.now()
	shift, err := db.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if shift.WorkerID != workerID {
		return ErrNotFound
	}
	if shift.Status != constants.SHIFT_STATUS_ACCEPTED {
		return ErrShiftState
	}
	if !ArriveWindowOpen(shift.StartTime, now) {
		return ErrArriveWindow
	}

	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("Arrive: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE shifts SET status=$1, arrived_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND status=$3`,
		constants.SHIFT_STATUS_ARRIVED, shiftID, constants.SHIFT_STATUS_ACCEPTED)
	if err != nil {
		return fmt.Errorf("Arrive: смена %d: %w", shiftID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShiftState
	}

	// Первое прибытие запускает заказ; повторные обновления не матчатся.
	_, err = tx.Exec(`
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`,
		constants.ORDER_STATUS_STARTED, shift.OrderID, constants.ORDER_STATUS_CREATED)
	if err != nil {
		return fmt.Errorf("Arrive: заказ %d: %w", shift.OrderID, err)
	}
	return tx.Commit()
}

// Complete завершает смену, начисляет выплату и при необходимости
// закрывает заказ. Возвращает сумму начисления.
func (m *Manager) Complete(shiftID, workerID int64) (float64, error) {
	now := m.now()
	shift, err := db.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if shift.WorkerID != workerID {
		return 0, ErrNotFound
	}
	if !shift.IsActive() {
		return 0, ErrShiftState
	}
	if !MinDurationElapsed(shift.OrderFormat, shift.StartTime, now) {
		return 0, ErrTooEarlyToComplete
	}

	payStart := shift.StartTime
	if shift.ArrivedAt.Valid {
		payStart = shift.ArrivedAt.Time
	}
	amount := PayoutAmount(shift.OrderFormat, payStart, now)

	tx, err := db.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("Complete: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE shifts SET status=$1, finished_at=NOW(), updated_at=NOW()
        WHERE id=$2 AND status IN ('accepted','arrived')`,
		constants.SHIFT_STATUS_DONE, shiftID)
	if err != nil {
		return 0, fmt.Errorf("Complete: смена %d: %w", shiftID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrShiftState
	}

	_, err = tx.Exec(`
        INSERT INTO transactions (worker_id, order_id, amount, status)
        VALUES ($1, $2, $3, $4)`,
		shift.WorkerID, shift.OrderID, amount, constants.TX_STATUS_UNPAID)
	if err != nil {
		return 0, fmt.Errorf("Complete: транзакция: %w", err)
	}

	// Заказ закрывается, когда не осталось активных смен.
	_, err = tx.Exec(`
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status IN ('created','started')
          AND NOT EXISTS (SELECT 1 FROM shifts
               WHERE order_id=$2 AND status IN ('accepted','arrived'))`,
		constants.ORDER_STATUS_DONE, shift.OrderID)
	if err != nil {
		return 0, fmt.Errorf("Complete: заказ %d: %w", shift.OrderID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("Complete: commit: %w", err)
	}
	return amount, nil
}

// WorkerCancel отменяет смену по инициативе работника: освобождает место,
// применяет штраф к рейтингу и уведомляет админов. Если заказ был
// полностью укомплектован, запускается повторная рассылка.
func (m *Manager) WorkerCancel(shiftID, workerID int64) (Penalty, error) {
	now := m.now()
	shift, err := db.GetShiftByID(shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Penalty{}, ErrNotFound
		}
		return Penalty{}, err
	}
	if shift.WorkerID != workerID {
		return Penalty{}, ErrNotFound
	}
	if shift.Status != constants.SHIFT_STATUS_ACCEPTED {
		return Penalty{}, ErrShiftState
	}
	if !now.Before(shift.StartTime) {
		return Penalty{}, ErrCancelAfterStart
	}

	penalty := CancellationPenalty(now, shift.AcceptedAt)

	tx, err := db.DB.Begin()
	if err != nil {
		return Penalty{}, fmt.Errorf("WorkerCancel: begin: %w", err)
	}
	defer tx.Rollback()

	var order models.Order
	row := tx.QueryRow(`
        SELECT id, description, address, start_time, places_total, places_taken, status
        FROM orders WHERE id=$1 FOR UPDATE`, shift.OrderID)
	err = row.Scan(&order.ID, &order.Description, &order.Address,
		&order.StartTime, &order.PlacesTotal, &order.PlacesTaken, &order.Status)
	if err != nil {
		return Penalty{}, fmt.Errorf("WorkerCancel: заказ %d: %w", shift.OrderID, err)
	}
	wasFull := order.IsFull()

	res, err := tx.Exec(`
        UPDATE shifts SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`,
		constants.SHIFT_STATUS_CANCELLED, shiftID, constants.SHIFT_STATUS_ACCEPTED)
	if err != nil {
		return Penalty{}, fmt.Errorf("WorkerCancel: смена %d: %w", shiftID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// параллельно сработал no-show или админская отмена
		return Penalty{}, ErrShiftState
	}

	if err := freePlace(tx, shift.OrderID); err != nil {
		return Penalty{}, err
	}
	if err := applyPenalty(tx, shift.WorkerID, penalty); err != nil {
		return Penalty{}, err
	}
	if err := tx.Commit(); err != nil {
		return Penalty{}, fmt.Errorf("WorkerCancel: commit: %w", err)
	}

	m.notifyAdmins(fmt.Sprintf(
		"❗ Работник отменил смену\nЗаказ #%d: %s\nАдрес: %s\nНачало: %s\nШтраф к рейтингу: %.1f",
		order.ID, order.Description, order.Address,
		order.StartTime.In(m.loc).Format("02.01 15:04"), penalty.RatingDelta))

	if wasFull && m.broadcaster != nil {
		fresh, err := db.GetOrderByID(shift.OrderID)
		if err == nil && fresh.Status == constants.ORDER_STATUS_CREATED {
			m.broadcaster.Rebroadcast(fresh)
		}
	}
	return penalty, nil
}

// AdminCancelOrder отменяет заказ с причиной: каскадно снимает активные
// смены без штрафов и уведомляет задетых работников.
func (m *Manager) AdminCancelOrder(orderID int64, reason string) (int, error) {
	tx, err := db.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE orders SET status=$1, reason=$2, updated_at=NOW()
        WHERE id=$3 AND status IN ('created','started')`,
		constants.ORDER_STATUS_CANCELLED, reason, orderID)
	if err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: заказ %d: %w", orderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrOrderNotOpen
	}

	rows, err := tx.Query(`
        SELECT s.id, w.telegram_id, o.description, o.address, o.start_time
        FROM shifts s
        JOIN workers w ON w.id = s.worker_id
        JOIN orders o ON o.id = s.order_id
        WHERE s.order_id=$1 AND s.status IN ('accepted','arrived')`, orderID)
	if err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: активные смены: %w", err)
	}
	type victim struct {
		telegramID  int64
		description string
		address     string
		start       time.Time
	}
	var victims []victim
	for rows.Next() {
		var shiftID int64
		var v victim
		if errScan := rows.Scan(&shiftID, &v.telegramID, &v.description, &v.address, &v.start); errScan != nil {
			rows.Close()
			return 0, fmt.Errorf("AdminCancelOrder: скан смены: %w", errScan)
		}
		victims = append(victims, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	_, err = tx.Exec(`
        UPDATE shifts SET status=$1, updated_at=NOW()
        WHERE order_id=$2 AND status IN ('accepted','arrived')`,
		constants.SHIFT_STATUS_CANCELLED, orderID)
	if err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: снятие смен: %w", err)
	}
	// Завершённые смены продолжают занимать места, обнулять счётчик нельзя.
	_, err = tx.Exec(`
        UPDATE orders SET places_taken = (
            SELECT COUNT(*) FROM shifts WHERE order_id=$1 AND status=$2
        ), updated_at=NOW() WHERE id=$1`,
		orderID, constants.SHIFT_STATUS_DONE)
	if err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: освобождение мест: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("AdminCancelOrder: commit: %w", err)
	}

	for _, v := range victims {
		text := fmt.Sprintf(
			"⚠️ Заказ отменён организатором\n%s\nАдрес: %s\nНачало: %s\nПричина: %s\nЭто не влияет на ваш рейтинг.",
			v.description, v.address, v.start.In(m.loc).Format("02.01 15:04"), reason)
		if errNotify := m.notifier.Notify(v.telegramID, text); errNotify != nil {
			log.Printf("AdminCancelOrder: не удалось уведомить tg_id %d: %v", v.telegramID, errNotify)
		}
	}
	return len(victims), nil
}

// AdminAssign вручную записывает работника на заказ с теми же проверками,
// что и самостоятельная запись, и уведомляет его.
func (m *Manager) AdminAssign(orderID, workerID int64) (models.Shift, error) {
	shift, err := m.Claim(workerID, orderID)
	if err != nil {
		return models.Shift{}, err
	}
	text := fmt.Sprintf(
		"📌 Администратор записал вас на смену\n%s\nАдрес: %s\nНачало: %s",
		shift.OrderDescription, shift.OrderAddress,
		shift.StartTime.In(m.loc).Format("02.01 15:04"))
	if errNotify := m.notifier.Notify(shift.WorkerTelegramID, text); errNotify != nil {
		log.Printf("AdminAssign: не удалось уведомить tg_id %d: %v", shift.WorkerTelegramID, errNotify)
	}
	return shift, nil
}

// AdminUnassign снимает работника с заказа без штрафа и уведомляет его.
func (m *Manager) AdminUnassign(orderID, workerID int64) error {
	tx, err := db.DB.Begin()
	if err != nil {
		return fmt.Errorf("AdminUnassign: begin: %w", err)
	}
	defer tx.Rollback()

	var shiftID, telegramID int64
	var description string
	err = tx.QueryRow(`
        UPDATE shifts SET status=$1, updated_at=NOW()
        WHERE id = (SELECT s.id FROM shifts s
             WHERE s.order_id=$2 AND s.worker_id=$3 AND s.status IN ('accepted','arrived')
             LIMIT 1)
        RETURNING id`, constants.SHIFT_STATUS_CANCELLED, orderID, workerID).Scan(&shiftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("AdminUnassign: заказ %d, работник %d: %w", orderID, workerID, err)
	}

	if err := freePlace(tx, orderID); err != nil {
		return err
	}
	err = tx.QueryRow(`
        SELECT w.telegram_id, o.description
        FROM workers w, orders o WHERE w.id=$1 AND o.id=$2`,
		workerID, orderID).Scan(&telegramID, &description)
	if err != nil {
		return fmt.Errorf("AdminUnassign: данные для уведомления: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("AdminUnassign: commit: %w", err)
	}

	text := fmt.Sprintf(
		"ℹ️ Администратор снял вас со смены\n%s\nЭто не влияет на ваш рейтинг.", description)
	if errNotify := m.notifier.Notify(telegramID, text); errNotify != nil {
		log.Printf("AdminUnassign: не удалось уведомить tg_id %d: %v", telegramID, errNotify)
	}
	return nil
}

// MarkNoShow фиксирует неявку: терминальный статус смены, штраф с недельной
// блокировкой и освобождение места. Повторная рассылка при неявке не
// запускается. Возвращает ErrShiftState, если работник успел отметиться.
func (m *Manager) MarkNoShow(shift models.Shift) (Penalty, error) {
	now := m.now()
	penalty := NoShowPenalty(now)

	tx, err := db.DB.Begin()
	if err != nil {
		return Penalty{}, fmt.Errorf("MarkNoShow: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
        UPDATE shifts SET status=$1, updated_at=NOW()
        WHERE id=$2 AND status=$3`,
		constants.SHIFT_STATUS_NO_SHOW, shift.ID, constants.SHIFT_STATUS_ACCEPTED)
	if err != nil {
		return Penalty{}, fmt.Errorf("MarkNoShow: смена %d: %w", shift.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Penalty{}, ErrShiftState
	}

	if err := freePlace(tx, shift.OrderID); err != nil {
		return Penalty{}, err
	}
	if err := applyPenalty(tx, shift.WorkerID, penalty); err != nil {
		return Penalty{}, err
	}
	// Лог уведомлений держит сметатель идемпотентным между тиками.
	_, err = tx.Exec(`
        INSERT INTO notifications_log (shift_id, kind) VALUES ($1, $2)
        ON CONFLICT (shift_id, kind) DO NOTHING`,
		shift.ID, constants.NOTIFY_KIND_NO_SHOW)
	if err != nil {
		return Penalty{}, fmt.Errorf("MarkNoShow: лог уведомлений: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Penalty{}, fmt.Errorf("MarkNoShow: commit: %w", err)
	}

	text := fmt.Sprintf(
		"🚫 Зафиксирована неявка на смену\n%s\nРейтинг: %.1f. Взятие новых смен закрыто до %s.",
		shift.OrderDescription, penalty.RatingDelta,
		penalty.BlockedUntil.In(m.loc).Format("02.01.2006"))
	if errNotify := m.notifier.Notify(shift.WorkerTelegramID, text); errNotify != nil {
		log.Printf("MarkNoShow: не удалось уведомить tg_id %d: %v", shift.WorkerTelegramID, errNotify)
	}
	return penalty, nil
}

// freePlace освобождает одно место в заказе, не уходя ниже нуля.
func freePlace(tx *sql.Tx, orderID int64) error {
	_, err := tx.Exec(`
        UPDATE orders SET places_taken = GREATEST(places_taken - 1, 0), updated_at = NOW()
        WHERE id=$1`, orderID)
	if err != nil {
		return fmt.Errorf("freePlace: заказ %d: %w", orderID, err)
	}
	return nil
}

// applyPenalty применяет штраф к работнику внутри транзакции.
func applyPenalty(tx *sql.Tx, workerID int64, p Penalty) error {
	_, err := tx.Exec(`
        UPDATE workers SET
            rating = rating + $1,
            blocked_until = CASE WHEN $2::timestamptz IS NULL THEN blocked_until ELSE $2 END,
            cooldown_until = CASE WHEN $3::timestamptz IS NULL THEN cooldown_until ELSE $3 END,
            updated_at = NOW()
        WHERE id=$4`,
		p.RatingDelta, nullableTime(p.BlockedUntil), nullableTime(p.CooldownUntil), workerID)
	if err != nil {
		return fmt.Errorf("applyPenalty: работник %d: %w", workerID, err)
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// notifyAdmins рассылает служебное сообщение всем администраторам.
func (m *Manager) notifyAdmins(text string) {
	if m.admins == nil {
		return
	}
	for _, chatID := range m.admins.AdminChatIDs() {
		if err := m.notifier.Notify(chatID, text); err != nil {
			log.Printf("notifyAdmins: не удалось уведомить админа %d: %v", chatID, err)
		}
	}
}
