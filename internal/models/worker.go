package models

import (
	"database/sql"
	"time"
)

// Worker — профиль рабочего.
// Создаётся пустой оболочкой при первом контакте, заполняется онбордингом.
type Worker struct {
	ID            int64
	TelegramID    int64
	TelegramLogin sql.NullString
	Name          string
	Phone         string
	City          sql.NullString
	District      string
	Citizenship   string // РФ | Иностранец
	Country       sql.NullString
	Rating        float64 // бегущая сумма, без пола и потолка
	Status        string  // active | blocked
	BlockedUntil  sql.NullTime
	CooldownUntil sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBlockedAt сообщает, действует ли блокировка на момент now.
// Учитываются и ручная блокировка статусом, и блокировка по времени.
func (w *Worker) IsBlockedAt(now time.Time) bool {
	if w.Status == "blocked" {
		return true
	}
	return w.BlockedUntil.Valid && w.BlockedUntil.Time.After(now)
}

// OnCooldownAt сообщает, действует ли ограничение на записи (cooldown).
func (w *Worker) OnCooldownAt(now time.Time) bool {
	return w.CooldownUntil.Valid && w.CooldownUntil.Time.After(now)
}
