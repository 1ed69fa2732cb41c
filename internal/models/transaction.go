package models

import (
	"database/sql"
	"time"
)

// Transaction — начисление за отработанную смену.
// Создаётся ровно один раз при переходе смены в done и неизменна,
// кроме массовой отметки unpaid -> paid админом.
type Transaction struct {
	ID        int64
	WorkerID  int64
	OrderID   int64
	Amount    float64
	Status    string // unpaid | paid
	CreatedAt time.Time
	PaidAt    sql.NullTime

	// Описание заказа для истории баланса (JOIN c orders)
	OrderDescription string
}

// UnpaidSummary — строка сводки задолженностей для экрана выплат.
type UnpaidSummary struct {
	WorkerID   int64
	TelegramID int64
	Name       string
	Phone      string
	Total      float64
	TxCount    int
}
