package lifecycle

import (
	"math"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

// PayoutAmount считает сумму выплаты за смену.
// Для почасового формата округляем отработанное время вверх до полного
// часа, но не меньше минимальных четырёх часов. Форматы "смена 8ч" и
// "день 12ч" оплачиваются фиксированной ставкой.
func PayoutAmount(format string, payStart, now time.Time) float64 {
	switch format {
	case constants.FORMAT_SHIFT8:
		return constants.SHIFT8_RATE
	case constants.FORMAT_DAY12:
		return constants.DAY12_RATE
	default:
		hours := int(math.Ceil(now.Sub(payStart).Hours()))
		if hours < constants.HOUR_MIN_UNIT {
			hours = constants.HOUR_MIN_UNIT
		}
		return float64(hours) * constants.HOUR_RATE
	}
}
