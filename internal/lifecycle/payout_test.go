package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

func TestPayoutAmountHourly(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"меньше минимума оплачивается как 4 часа", 2*time.Hour + 30*time.Minute, 1600},
		{"ровно 4 часа", 4 * time.Hour, 1600},
		{"3ч10м округляется вверх, но не ниже минимума", 3*time.Hour + 10*time.Minute, 1600},
		{"5ч05м округляется до 6 часов", 5*time.Hour + 5*time.Minute, 2400},
		{"ровно 7 часов без округления", 7 * time.Hour, 2800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PayoutAmount(constants.FORMAT_HOUR, start, start.Add(tt.elapsed))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayoutAmountFixedRates(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	// Фиксированные форматы не зависят от фактического времени.
	assert.Equal(t, 3500.0, PayoutAmount(constants.FORMAT_SHIFT8, start, start.Add(2*time.Hour)))
	assert.Equal(t, 3500.0, PayoutAmount(constants.FORMAT_SHIFT8, start, start.Add(11*time.Hour)))
	assert.Equal(t, 4800.0, PayoutAmount(constants.FORMAT_DAY12, start, start.Add(12*time.Hour)))
}

func TestPayoutAmountUnknownFormatFallsBackToHourly(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 1600.0, PayoutAmount("какой-то", start, start.Add(time.Hour)))
}
