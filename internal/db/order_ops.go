package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

const orderColumns = `id, client_name, client_phone, description, address, district,
        start_time, format, citizenship_required, places_total, places_taken,
        features, status, reason, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.ClientName, &o.ClientPhone, &o.Description, &o.Address, &o.District,
		&o.StartTime, &o.Format, &o.CitizenshipRequired, &o.PlacesTotal, &o.PlacesTaken,
		&o.Features, &o.Status, &o.Reason, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOrder сохраняет новый заказ, созданный админом.
func CreateOrder(o models.Order) (int64, error) {
	if o.PlacesTotal < 1 {
		return 0, fmt.Errorf("количество мест должно быть положительным")
	}
	if _, ok := constants.FormatDurations[o.Format]; !ok {
		return 0, fmt.Errorf("неизвестный формат заказа '%s'", o.Format)
	}

	var id int64
	err := DB.QueryRow(`
        INSERT INTO orders (
            client_name, client_phone, description, address, district,
            start_time, format, citizenship_required, places_total,
            places_taken, features, status, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, NULLIF($10,''), $11, NOW(), NOW())
        RETURNING id`,
		o.ClientName, o.ClientPhone, o.Description, o.Address, o.District,
		o.StartTime, o.Format, o.CitizenshipRequired, o.PlacesTotal,
		o.Features.String, constants.ORDER_STATUS_CREATED).Scan(&id)
	if err != nil {
		log.Printf("CreateOrder: ошибка сохранения заказа: %v", err)
		return 0, err
	}
	log.Printf("Создан заказ #%d ('%s', старт %s, мест %d).", id, o.Description, o.StartTime.Format("02.01 15:04"), o.PlacesTotal)
	return id, nil
}

// GetOrderByID возвращает заказ по id.
func GetOrderByID(orderID int64) (models.Order, error) {
	row := DB.QueryRow("SELECT "+orderColumns+" FROM orders WHERE id=$1", orderID)
	o, err := scanOrder(row)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("GetOrderByID: ошибка получения заказа #%d: %v", orderID, err)
	}
	return o, err
}

// ListOpenOrdersForWorker возвращает страницу ленты заказов для работника:
// только открытые, со стартом минимум через час, со свободными местами,
// без пропущенных им за последние 48 часов.
func ListOpenOrdersForWorker(workerID int64, now time.Time, page, pageSize int) ([]models.Order, int, error) {
	minStart := now.Add(constants.FEED_MIN_LEAD)
	skipCutoff := now.Add(-constants.SKIP_SUPPRESS_WINDOW)

	rows, err := DB.Query(`
        SELECT `+orderColumns+`
        FROM orders o
        WHERE o.status = $1
          AND o.start_time > $2
          AND o.places_taken < o.places_total
          AND NOT EXISTS (
                SELECT 1 FROM skipped_orders so
                WHERE so.worker_id = $3 AND so.order_id = o.id AND so.skipped_at > $4
          )
        ORDER BY o.start_time ASC
        LIMIT $5 OFFSET $6`,
		constants.ORDER_STATUS_CREATED, minStart, workerID, skipCutoff,
		pageSize, page*pageSize)
	if err != nil {
		log.Printf("ListOpenOrdersForWorker: ошибка запроса ленты для работника %d: %v", workerID, err)
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, errScan := scanOrder(rows)
		if errScan != nil {
			log.Printf("ListOpenOrdersForWorker: ошибка сканирования заказа: %v", errScan)
			continue
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = DB.QueryRow(`
        SELECT COUNT(*)
        FROM orders o
        WHERE o.status = $1
          AND o.start_time > $2
          AND o.places_taken < o.places_total
          AND NOT EXISTS (
                SELECT 1 FROM skipped_orders so
                WHERE so.worker_id = $3 AND so.order_id = o.id AND so.skipped_at > $4
          )`,
		constants.ORDER_STATUS_CREATED, minStart, workerID, skipCutoff).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SkipOrder скрывает заказ из ленты работника на 48 часов.
func SkipOrder(workerID, orderID int64) error {
	_, err := DB.Exec(`
        INSERT INTO skipped_orders (worker_id, order_id, skipped_at)
        VALUES ($1, $2, NOW())`,
		workerID, orderID)
	if err != nil {
		log.Printf("SkipOrder: ошибка скрытия заказа #%d для работника %d: %v", orderID, workerID, err)
		return err
	}
	return nil
}

// UpdateOrderField обновляет одно редактируемое поле заказа.
// Возвращает ошибку для немодифицируемых полей.
func UpdateOrderField(orderID int64, field string, value any) error {
	allowed := map[string]string{
		"description": "description",
		"address":     "address",
		"district":    "district",
		"start_time":  "start_time",
		"features":    "features",
		"places":      "places_total",
	}
	column, ok := allowed[field]
	if !ok {
		return fmt.Errorf("поле '%s' нельзя редактировать", field)
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("UpdateOrderField: begin: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("UPDATE orders SET %s=$2, updated_at=NOW() WHERE id=$1", column)
	res, err := tx.Exec(query, orderID, value)
	if err != nil {
		log.Printf("UpdateOrderField: ошибка обновления поля %s заказа #%d: %v", field, orderID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	// Плановый старт копируется в смену при записи. Перенос времени обязан
	// синхронизировать активные смены, иначе напоминания, отметка неявки и
	// окно "Я на месте" считаются по старому времени.
	if field == "start_time" {
		_, err = tx.Exec(`
            UPDATE shifts SET start_time=$2, updated_at=NOW()
            WHERE order_id=$1 AND status IN ($3, $4)`,
			orderID, value, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
		if err != nil {
			log.Printf("UpdateOrderField: ошибка переноса смен заказа #%d: %v", orderID, err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("UpdateOrderField: commit: %w", err)
	}
	log.Printf("Заказ #%d: поле %s обновлено.", orderID, field)
	return nil
}

// ListOrdersForAdmin возвращает страницу заказов для админ-панели,
// свежие сверху, вместе с общим количеством.
func ListOrdersForAdmin(page, pageSize int) ([]models.Order, int, error) {
	var total int
	if err := DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&total); err != nil {
		log.Printf("ListOrdersForAdmin: ошибка подсчета заказов: %v", err)
		return nil, 0, err
	}

	rows, err := DB.Query(
		"SELECT "+orderColumns+" FROM orders ORDER BY start_time DESC, id DESC LIMIT $1 OFFSET $2",
		pageSize, page*pageSize)
	if err != nil {
		log.Printf("ListOrdersForAdmin: ошибка запроса: %v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, errScan := scanOrder(rows)
		if errScan != nil {
			log.Printf("ListOrdersForAdmin: ошибка сканирования: %v", errScan)
			continue
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// ListAssignedWorkers возвращает работников с активными сменами по заказу
// для админской карточки.
func ListAssignedWorkers(orderID int64) ([]models.Worker, error) {
	rows, err := DB.Query(`
        SELECT w.id, w.telegram_id, w.telegram_login, w.name, w.phone, w.city,
               w.district, w.citizenship, w.country, w.rating, w.status,
               w.blocked_until, w.cooldown_until, w.created_at, w.updated_at
        FROM shifts s
        JOIN workers w ON w.id = s.worker_id
        WHERE s.order_id=$1 AND s.status IN ($2, $3)
        ORDER BY s.accepted_at`,
		orderID, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
	if err != nil {
		log.Printf("ListAssignedWorkers: ошибка запроса для заказа #%d: %v", orderID, err)
		return nil, err
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		w, errScan := scanWorker(rows)
		if errScan != nil {
			continue
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// ListAssignedTelegramIDs возвращает telegram_id всех работников с активными
// сменами по заказу. Нужен для уведомлений при правках заказа.
func ListAssignedTelegramIDs(orderID int64) ([]int64, error) {
	rows, err := DB.Query(`
        SELECT w.telegram_id
        FROM shifts s
        JOIN workers w ON w.id = s.worker_id
        WHERE s.order_id=$1 AND s.status IN ($2, $3)`,
		orderID, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
	if err != nil {
		log.Printf("ListAssignedTelegramIDs: ошибка запроса для заказа #%d: %v", orderID, err)
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if errScan := rows.Scan(&id); errScan != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
