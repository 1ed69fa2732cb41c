package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// scanWorker читает строку workers в модель.
func scanWorker(row interface{ Scan(dest ...any) error }) (models.Worker, error) {
	var w models.Worker
	err := row.Scan(
		&w.ID, &w.TelegramID, &w.TelegramLogin, &w.Name, &w.Phone, &w.City,
		&w.District, &w.Citizenship, &w.Country, &w.Rating, &w.Status,
		&w.BlockedUntil, &w.CooldownUntil, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

const workerColumns = `id, telegram_id, telegram_login, name, phone, city,
        district, citizenship, country, rating, status,
        blocked_until, cooldown_until, created_at, updated_at`

// GetWorkerByTelegramID возвращает работника по его telegram_id.
func GetWorkerByTelegramID(telegramID int64) (models.Worker, error) {
	row := DB.QueryRow(
		"SELECT "+workerColumns+" FROM workers WHERE telegram_id=$1", telegramID)
	w, err := scanWorker(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Worker{}, err
		}
		log.Printf("GetWorkerByTelegramID: ошибка получения работника tg_id %d: %v", telegramID, err)
	}
	return w, err
}

// GetWorkerByID возвращает работника по внутреннему id.
func GetWorkerByID(workerID int64) (models.Worker, error) {
	row := DB.QueryRow(
		"SELECT "+workerColumns+" FROM workers WHERE id=$1", workerID)
	w, err := scanWorker(row)
	if err != nil && err != sql.ErrNoRows {
		log.Printf("GetWorkerByID: ошибка получения работника id %d: %v", workerID, err)
	}
	return w, err
}

// EnsureWorker создаёт пустую оболочку профиля при первом контакте.
// Повторный вызов обновляет только telegram_login.
func EnsureWorker(telegramID int64, telegramLogin string) (models.Worker, error) {
	_, err := DB.Exec(`
        INSERT INTO workers (telegram_id, telegram_login, created_at, updated_at)
        VALUES ($1, NULLIF($2,''), NOW(), NOW())
        ON CONFLICT (telegram_id) DO UPDATE SET
        telegram_login = COALESCE(NULLIF(EXCLUDED.telegram_login,''), workers.telegram_login),
        updated_at = NOW()`,
		telegramID, telegramLogin)
	if err != nil {
		log.Printf("EnsureWorker: ошибка создания оболочки профиля tg_id %d: %v", telegramID, err)
		return models.Worker{}, err
	}
	return GetWorkerByTelegramID(telegramID)
}

// CompleteOnboarding заполняет профиль данными онбординга.
func CompleteOnboarding(telegramID int64, name, phone, city, district, citizenship, country string) error {
	res, err := DB.Exec(`
        UPDATE workers SET
            name=$2, phone=$3, city=NULLIF($4,''), district=$5,
            citizenship=$6, country=NULLIF($7,''), updated_at=NOW()
        WHERE telegram_id=$1`,
		telegramID, name, phone, city, district, citizenship, country)
	if err != nil {
		log.Printf("CompleteOnboarding: ошибка сохранения профиля tg_id %d: %v", telegramID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("работник с telegram_id %d не найден", telegramID)
	}
	log.Printf("Онбординг завершён для tg_id %d (%s, %s).", telegramID, name, district)
	return nil
}

// UpdateWorkerField обновляет одно текстовое поле профиля работника.
func UpdateWorkerField(telegramID int64, field, value string) error {
	allowed := map[string]string{
		"name":     "name",
		"phone":    "phone",
		"district": "district",
	}
	column, ok := allowed[field]
	if !ok {
		return fmt.Errorf("поле профиля '%s' нельзя редактировать", field)
	}

	query := fmt.Sprintf("UPDATE workers SET %s=$2, updated_at=NOW() WHERE telegram_id=$1", column)
	res, err := DB.Exec(query, telegramID, value)
	if err != nil {
		log.Printf("UpdateWorkerField: ошибка обновления поля %s tg_id %d: %v", field, telegramID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetWorkerCitizenship меняет гражданство. Для граждан РФ страна очищается.
func SetWorkerCitizenship(telegramID int64, citizenship, country string) error {
	res, err := DB.Exec(`
        UPDATE workers SET citizenship=$2, country=NULLIF($3,''), updated_at=NOW()
        WHERE telegram_id=$1`,
		telegramID, citizenship, country)
	if err != nil {
		log.Printf("SetWorkerCitizenship: ошибка обновления tg_id %d: %v", telegramID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListWorkers возвращает страницу работников и общее количество.
func ListWorkers(page, pageSize int) ([]models.Worker, int, error) {
	rows, err := DB.Query(
		"SELECT "+workerColumns+" FROM workers ORDER BY id DESC LIMIT $1 OFFSET $2",
		pageSize, page*pageSize)
	if err != nil {
		log.Printf("ListWorkers: ошибка запроса списка работников: %v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		w, errScan := scanWorker(rows)
		if errScan != nil {
			log.Printf("ListWorkers: ошибка сканирования работника: %v", errScan)
			continue
		}
		workers = append(workers, w)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err = DB.QueryRow("SELECT COUNT(*) FROM workers").Scan(&total); err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

// ListEligibleWorkers возвращает активных, не заблокированных работников,
// подходящих под требование гражданства заказа. Используется рассылкой.
func ListEligibleWorkers(citizenshipRequired string, now time.Time) ([]models.Worker, error) {
	rows, err := DB.Query(`
        SELECT `+workerColumns+`
        FROM workers
        WHERE status = $1
          AND name <> ''
          AND (blocked_until IS NULL OR blocked_until <= $2)
        ORDER BY id`,
		constants.WORKER_STATUS_ACTIVE, now)
	if err != nil {
		log.Printf("ListEligibleWorkers: ошибка запроса: %v", err)
		return nil, err
	}
	defer rows.Close()

	var workers []models.Worker
	for rows.Next() {
		w, errScan := scanWorker(rows)
		if errScan != nil {
			log.Printf("ListEligibleWorkers: ошибка сканирования: %v", errScan)
			continue
		}
		if !models.CitizenshipEligible(w.Citizenship, citizenshipRequired) {
			continue
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// ToggleWorkerBlock переключает ручную блокировку работника.
// Возвращает новый статус.
func ToggleWorkerBlock(workerID int64) (string, error) {
	var newStatus string
	err := DB.QueryRow(`
        UPDATE workers SET
            status = CASE WHEN status=$2 THEN $3 ELSE $2 END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING status`,
		workerID, constants.WORKER_STATUS_BLOCKED, constants.WORKER_STATUS_ACTIVE).Scan(&newStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("работник id %d не найден", workerID)
		}
		log.Printf("ToggleWorkerBlock: ошибка переключения блокировки id %d: %v", workerID, err)
		return "", err
	}
	log.Printf("Работник id %d переведён в статус '%s'.", workerID, newStatus)
	return newStatus, nil
}

// PurgeWorker полностью удаляет работника. Смены и транзакции
// удаляются каскадом по внешним ключам, поэтому перед удалением
// в той же транзакции освобождаются места в заказах, где у работника
// остались активные смены: каскад занятых мест сам не вернёт.
func PurgeWorker(workerID int64) error {
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("PurgeWorker: begin: %w", err)
	}
	defer tx.Rollback()

	// Частичный уникальный индекс допускает максимум одну активную смену
	// на пару (работник, заказ), поэтому хватает декремента на единицу.
	_, err = tx.Exec(`
        UPDATE orders SET places_taken = GREATEST(places_taken - 1, 0), updated_at = NOW()
        WHERE id IN (SELECT order_id FROM shifts
             WHERE worker_id=$1 AND status IN ($2, $3))`,
		workerID, constants.SHIFT_STATUS_ACCEPTED, constants.SHIFT_STATUS_ARRIVED)
	if err != nil {
		log.Printf("PurgeWorker: ошибка освобождения мест работника id %d: %v", workerID, err)
		return err
	}

	res, err := tx.Exec("DELETE FROM workers WHERE id=$1", workerID)
	if err != nil {
		log.Printf("PurgeWorker: ошибка удаления работника id %d: %v", workerID, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("работник id %d не найден", workerID)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("PurgeWorker: commit: %w", err)
	}
	log.Printf("Работник id %d удалён вместе со сменами и транзакциями.", workerID)
	return nil
}

// CountWorkerShifts возвращает количество всех смен работника.
func CountWorkerShifts(workerID int64) (int, error) {
	var n int
	err := DB.QueryRow("SELECT COUNT(*) FROM shifts WHERE worker_id=$1", workerID).Scan(&n)
	return n, err
}
