package lifecycle

import (
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// ArriveWindowOpen сообщает, можно ли отметиться о прибытии:
// не раньше чем за час до начала и не позже чем через час после.
func ArriveWindowOpen(start, now time.Time) bool {
	return !now.Before(start.Add(-constants.ARRIVE_WINDOW)) &&
		!now.After(start.Add(constants.ARRIVE_WINDOW))
}

// MinDurationElapsed сообщает, прошла ли минимальная длительность формата
// с начала смены. Для почасового формата минимум — 4 часа.
func MinDurationElapsed(format string, start, now time.Time) bool {
	return !now.Before(start.Add(constants.FormatDuration(format)))
}

// ClaimGuard проверяет допуск работника к заказу без обращения к базе:
// блокировки, кулдаун и гражданство. Возвращает nil, если допуск есть.
func ClaimGuard(worker models.Worker, order models.Order, now time.Time) error {
	if worker.IsBlockedAt(now) {
		return ErrBlocked
	}
	if worker.OnCooldownAt(now) {
		return ErrCooldown
	}
	if !models.CitizenshipEligible(worker.Citizenship, order.CitizenshipRequired) {
		return ErrCitizenship
	}
	return nil
}
