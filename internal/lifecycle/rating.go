package lifecycle

import (
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

// Penalty — результат применения штрафа к работнику.
// Нулевые BlockedUntil/CooldownUntil означают отсутствие ограничения.
type Penalty struct {
	RatingDelta   float64
	BlockedUntil  time.Time
	CooldownUntil time.Time
}

// CancellationPenalty считает штраф за отмену смены работником до начала.
// Ранняя отмена (не позже 2 часов с момента взятия) стоит -0.1,
// поздняя -0.5. Блокировок и кулдаунов отмена не влечёт.
func CancellationPenalty(now, acceptedAt time.Time) Penalty {
	if now.Sub(acceptedAt) <= constants.EARLY_CANCEL_WINDOW {
		return Penalty{RatingDelta: constants.EARLY_CANCEL_RATING}
	}
	return Penalty{RatingDelta: constants.LATE_CANCEL_RATING}
}

// NoShowPenalty считает штраф за неявку: -1.0 к рейтингу и блокировка
// взятия новых смен на 7 дней.
func NoShowPenalty(now time.Time) Penalty {
	return Penalty{
		RatingDelta:  constants.NO_SHOW_RATING,
		BlockedUntil: now.AddDate(0, 0, constants.NO_SHOW_BLOCK_DAYS),
	}
}
