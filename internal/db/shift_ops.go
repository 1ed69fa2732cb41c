package db

import (
	"database/sql"
	"log"
	"time"

	"github.com/lib/pq" // Для передачи массивов в запросы

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// Запросы чтения смен. Все мутации жизненного цикла живут в пакете lifecycle
// и выполняются одной SQL-транзакцией.

const shiftJoinColumns = `s.id, s.order_id, s.worker_id, s.status, s.start_time,
        s.accepted_at, s.arrived_at, s.finished_at, s.created_at, s.updated_at,
        o.description, o.address, o.district, o.format, o.features,
        w.telegram_id`

func scanShift(row interface{ Scan(dest ...any) error }) (models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID, &s.OrderID, &s.WorkerID, &s.Status, &s.StartTime,
		&s.AcceptedAt, &s.ArrivedAt, &s.FinishedAt, &s.CreatedAt, &s.UpdatedAt,
		&s.OrderDescription, &s.OrderAddress, &s.OrderDistrict, &s.OrderFormat, &s.OrderFeatures,
		&s.WorkerTelegramID,
	)
	return s, err
}

// GetShiftByID возвращает смену вместе с данными заказа и работника.
func GetShiftByID(shiftID int64) (models.Shift, error) {
	row := DB.QueryRow(`
        SELECT `+shiftJoinColumns+`
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        JOIN workers w ON w.id = s.worker_id
        WHERE s.id=$1`, shiftID)
	s, err := scanShift(row)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("GetShiftByID: ошибка получения смены #%d: %v", shiftID, err)
	}
	return s, err
}

// ListWorkerShifts возвращает смены работника для вкладки.
// Вкладка "accepted" объединяет активные статусы accepted и arrived.
func ListWorkerShifts(workerID int64, tab string) ([]models.Shift, error) {
	var rows *sql.Rows
	var err error
	if tab == constants.SHIFT_STATUS_ACCEPTED {
		rows, err = DB.Query(`
            SELECT `+shiftJoinColumns+`
            FROM shifts s
            JOIN orders o ON o.id = s.order_id
            JOIN workers w ON w.id = s.worker_id
            WHERE s.worker_id=$1 AND s.status IN ($2, $3)
            ORDER BY s.start_time ASC`,
			workerID, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
	} else {
		rows, err = DB.Query(`
            SELECT `+shiftJoinColumns+`
            FROM shifts s
            JOIN orders o ON o.id = s.order_id
            JOIN workers w ON w.id = s.worker_id
            WHERE s.worker_id=$1 AND s.status=$2
            ORDER BY s.start_time ASC`,
			workerID, tab)
	}
	if err != nil {
		log.Printf("ListWorkerShifts: ошибка запроса смен работника %d: %v", workerID, err)
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		s, errScan := scanShift(rows)
		if errScan != nil {
			log.Printf("ListWorkerShifts: ошибка сканирования смены: %v", errScan)
			continue
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// ListRecentWorkerShifts возвращает последние N смен работника для карточки в админке.
func ListRecentWorkerShifts(workerID int64, limit int) ([]models.Shift, error) {
	rows, err := DB.Query(`
        SELECT `+shiftJoinColumns+`
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        JOIN workers w ON w.id = s.worker_id
        WHERE s.worker_id=$1
        ORDER BY s.start_time DESC
        LIMIT $2`, workerID, limit)
	if err != nil {
		log.Printf("ListRecentWorkerShifts: ошибка запроса истории работника %d: %v", workerID, err)
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		s, errScan := scanShift(rows)
		if errScan != nil {
			continue
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Querier покрывает *sql.DB и *sql.Tx: проверки внутри открытой
// транзакции обязаны читать её собственный снимок, а не глобальный.
type Querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// HasTimeConflict проверяет пересечение новой смены с активными сменами
// работника. Интервалы [start, start+duration) по плановой длительности формата.
func HasTimeConflict(q Querier, workerID int64, newStart time.Time, newFormat string) (bool, error) {
	rows, err := q.Query(`
        SELECT s.start_time, o.format
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        WHERE s.worker_id=$1 AND s.status IN ($2, $3)`,
		workerID, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
	if err != nil {
		log.Printf("HasTimeConflict: ошибка запроса активных смен работника %d: %v", workerID, err)
		return false, err
	}
	defer rows.Close()

	newDur := constants.FormatDuration(newFormat)
	for rows.Next() {
		var oldStart time.Time
		var oldFormat string
		if errScan := rows.Scan(&oldStart, &oldFormat); errScan != nil {
			continue
		}
		oldDur := constants.FormatDuration(oldFormat)
		if IntervalsOverlap(newStart, newDur, oldStart, oldDur) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// IntervalsOverlap — пересечение полуоткрытых интервалов [start, start+dur).
func IntervalsOverlap(aStart time.Time, aDur time.Duration, bStart time.Time, bDur time.Duration) bool {
	aEnd := aStart.Add(aDur)
	bEnd := bStart.Add(bDur)
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ListReminderCandidates возвращает принятые смены, чей плановый старт
// попадает в окно [from, to) и по которым ещё не отправляли уведомление kind.
// Существующая запись в notifications_log — окончательное "уже обработано".
func ListReminderCandidates(kind string, from, to time.Time, orderStatuses []string) ([]models.Shift, error) {
	rows, err := DB.Query(`
        SELECT `+shiftJoinColumns+`
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        JOIN workers w ON w.id = s.worker_id
        WHERE s.status = $1
          AND o.status = ANY($2)
          AND s.start_time >= $3 AND s.start_time < $4
          AND NOT EXISTS (
                SELECT 1 FROM notifications_log nl
                WHERE nl.shift_id = s.id AND nl.kind = $5
          )`,
		constants.SHIFT_STATUS_ACCEPTED, pq.Array(orderStatuses), from, to, kind)
	if err != nil {
		log.Printf("ListReminderCandidates(%s): ошибка запроса: %v", kind, err)
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

// ListNoShowCandidates возвращает смены в accepted, чей старт прошёл
// больше чем на grace-период, без записи 'no_show' в логе.
func ListNoShowCandidates(threshold time.Time) ([]models.Shift, error) {
	rows, err := DB.Query(`
        SELECT `+shiftJoinColumns+`
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        JOIN workers w ON w.id = s.worker_id
        WHERE s.status = $1
          AND s.start_time <= $2
          AND NOT EXISTS (
                SELECT 1 FROM notifications_log nl
                WHERE nl.shift_id = s.id AND nl.kind = $3
          )`,
		constants.SHIFT_STATUS_ACCEPTED, threshold, constants.NOTIFY_KIND_NO_SHOW)
	if err != nil {
		log.Printf("ListNoShowCandidates: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

// ListAutopingCandidates возвращает активные смены по незакрытым заказам,
// без отправленного автопинга. Фильтр по плановому концу делает вызывающий:
// конец зависит от формата и считается в коде, а не в SQL.
func ListAutopingCandidates() ([]models.Shift, error) {
	rows, err := DB.Query(`
        SELECT `+shiftJoinColumns+`
        FROM shifts s
        JOIN orders o ON o.id = s.order_id
        JOIN workers w ON w.id = s.worker_id
        WHERE s.status IN ($1, $2)
          AND o.status IN ($3, $4)
          AND NOT EXISTS (
                SELECT 1 FROM notifications_log nl
                WHERE nl.shift_id = s.id AND nl.kind = $5
          )`,
		constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED,
		constants.ORDER_STATUS_CREATED, constants.ORDER_STATUS_STARTED,
		constants.NOTIFY_KIND_AUTOPING)
	if err != nil {
		log.Printf("ListAutopingCandidates: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

func collectShifts(rows *sql.Rows) ([]models.Shift, error) {
	var shifts []models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			log.Printf("collectShifts: ошибка сканирования смены: %v", err)
			continue
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}
