package db

import (
	"log"
)

// MarkNotificationSent записывает факт отправки уведомления (shift_id, kind).
// Возвращает true, если запись создана этим вызовом, и false, если она уже
// существовала — конкурирующий цикл планировщика успел первым.
func MarkNotificationSent(shiftID int64, kind string) (bool, error) {
	res, err := DB.Exec(`
        INSERT INTO notifications_log (shift_id, kind, sent_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (shift_id, kind) DO NOTHING`,
		shiftID, kind)
	if err != nil {
		log.Printf("MarkNotificationSent: ошибка записи лога (%d, %s): %v", shiftID, kind, err)
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// WasNotificationSent проверяет наличие записи в логе уведомлений.
func WasNotificationSent(shiftID int64, kind string) (bool, error) {
	var exists bool
	err := DB.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM notifications_log WHERE shift_id=$1 AND kind=$2
        )`, shiftID, kind).Scan(&exists)
	if err != nil {
		log.Printf("WasNotificationSent: ошибка проверки лога (%d, %s): %v", shiftID, kind, err)
		return false, err
	}
	return exists, nil
}
