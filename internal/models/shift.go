package models

import (
	"database/sql"
	"time"
)

// Shift — запись рабочего на заказ со своим жизненным циклом.
// accepted -> arrived -> done, либо терминальные cancelled / no_show.
type Shift struct {
	ID         int64
	OrderID    int64
	WorkerID   int64
	Status     string
	StartTime  time.Time // плановый старт, копия order.start_time на момент записи
	AcceptedAt time.Time
	ArrivedAt  sql.NullTime
	FinishedAt sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Поля заказа, подтягиваемые JOIN-ом для карточек и планировщика
	OrderDescription string
	OrderAddress     string
	OrderDistrict    string
	OrderFormat      string
	OrderFeatures    sql.NullString

	// Telegram ID рабочего для уведомлений (JOIN с workers)
	WorkerTelegramID int64
}

// IsActive — смена ещё "живая" (занимает место в заказе и требует действий).
func (s *Shift) IsActive() bool {
	return s.Status == "accepted" || s.Status == "arrived"
}

// PlannedEnd — плановое окончание смены по формату заказа.
func (s *Shift) PlannedEnd(duration time.Duration) time.Time {
	return s.StartTime.Add(duration)
}
