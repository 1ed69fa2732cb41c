package db

import (
	"log"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// GetWorkerBalance возвращает сумму невыплаченного и последние транзакции работника.
func GetWorkerBalance(workerID int64, historyLimit int) (float64, []models.Transaction, error) {
	var total float64
	err := DB.QueryRow(`
        SELECT COALESCE(SUM(amount), 0)
        FROM transactions
        WHERE worker_id=$1 AND status=$2`,
		workerID, constants.TX_STATUS_UNPAID).Scan(&total)
	if err != nil {
		log.Printf("GetWorkerBalance: ошибка подсчёта баланса работника %d: %v", workerID, err)
		return 0, nil, err
	}

	rows, err := DB.Query(`
        SELECT t.id, t.worker_id, t.order_id, t.amount, t.status, t.created_at, t.paid_at, o.description
        FROM transactions t
        JOIN orders o ON o.id = t.order_id
        WHERE t.worker_id=$1
        ORDER BY t.created_at DESC
        LIMIT $2`, workerID, historyLimit)
	if err != nil {
		log.Printf("GetWorkerBalance: ошибка запроса истории работника %d: %v", workerID, err)
		return total, nil, err
	}
	defer rows.Close()

	var history []models.Transaction
	for rows.Next() {
		var t models.Transaction
		errScan := rows.Scan(&t.ID, &t.WorkerID, &t.OrderID, &t.Amount, &t.Status,
			&t.CreatedAt, &t.PaidAt, &t.OrderDescription)
		if errScan != nil {
			log.Printf("GetWorkerBalance: ошибка сканирования транзакции: %v", errScan)
			continue
		}
		history = append(history, t)
	}
	return total, history, rows.Err()
}

// GetUnpaidSummary собирает по работникам суммы к выплате (для экрана выплат).
func GetUnpaidSummary() ([]models.UnpaidSummary, error) {
	rows, err := DB.Query(`
        SELECT w.id, w.telegram_id, w.name, w.phone, SUM(t.amount) AS total, COUNT(*) AS tx_count
        FROM transactions t
        JOIN workers w ON w.id = t.worker_id
        WHERE t.status=$1
        GROUP BY w.id, w.telegram_id, w.name, w.phone
        ORDER BY total DESC`, constants.TX_STATUS_UNPAID)
	if err != nil {
		log.Printf("GetUnpaidSummary: ошибка запроса сводки: %v", err)
		return nil, err
	}
	defer rows.Close()

	var summary []models.UnpaidSummary
	for rows.Next() {
		var s models.UnpaidSummary
		if errScan := rows.Scan(&s.WorkerID, &s.TelegramID, &s.Name, &s.Phone, &s.Total, &s.TxCount); errScan != nil {
			log.Printf("GetUnpaidSummary: ошибка сканирования строки сводки: %v", errScan)
			continue
		}
		summary = append(summary, s)
	}
	return summary, rows.Err()
}

// ListUnpaidTransactions возвращает все невыплаченные транзакции с данными
// работников для выгрузки в Excel.
func ListUnpaidTransactions() ([]models.Transaction, map[int64]models.Worker, error) {
	rows, err := DB.Query(`
        SELECT t.id, t.worker_id, t.order_id, t.amount, t.status, t.created_at, t.paid_at, o.description
        FROM transactions t
        JOIN orders o ON o.id = t.order_id
        WHERE t.status=$1
        ORDER BY t.worker_id, t.created_at`, constants.TX_STATUS_UNPAID)
	if err != nil {
		log.Printf("ListUnpaidTransactions: ошибка запроса: %v", err)
		return nil, nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	workerIDs := make(map[int64]bool)
	for rows.Next() {
		var t models.Transaction
		errScan := rows.Scan(&t.ID, &t.WorkerID, &t.OrderID, &t.Amount, &t.Status,
			&t.CreatedAt, &t.PaidAt, &t.OrderDescription)
		if errScan != nil {
			continue
		}
		txs = append(txs, t)
		workerIDs[t.WorkerID] = true
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	workers := make(map[int64]models.Worker, len(workerIDs))
	for id := range workerIDs {
		w, errGet := GetWorkerByID(id)
		if errGet != nil {
			log.Printf("ListUnpaidTransactions: работник %d не найден: %v", id, errGet)
			continue
		}
		workers[id] = w
	}
	return txs, workers, nil
}

// MarkWorkerPaid массово помечает невыплаченные транзакции работника
// как выплаченные. Возвращает количество обновлённых строк.
func MarkWorkerPaid(workerID int64) (int64, error) {
	res, err := DB.Exec(`
        UPDATE transactions SET status=$2, paid_at=NOW()
        WHERE worker_id=$1 AND status=$3`,
		workerID, constants.TX_STATUS_PAID, constants.TX_STATUS_UNPAID)
	if err != nil {
		log.Printf("MarkWorkerPaid: ошибка отметки выплат работника %d: %v", workerID, err)
		return 0, err
	}
	n, _ := res.RowsAffected()
	log.Printf("Работник %d: %d транзакций отмечено выплаченными.", workerID, n)
	return n, nil
}
