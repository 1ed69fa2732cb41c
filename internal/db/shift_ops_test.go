package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

func TestIntervalsOverlap(t *testing.T) {
	base := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	hour := constants.FormatDuration(constants.FORMAT_HOUR)     // 4ч
	shift8 := constants.FormatDuration(constants.FORMAT_SHIFT8) // 8ч
	day12 := constants.FormatDuration(constants.FORMAT_DAY12)   // 12ч

	tests := []struct {
		name   string
		aStart time.Time
		aDur   time.Duration
		bStart time.Time
		bDur   time.Duration
		want   bool
	}{
		{"одинаковые интервалы", base, hour, base, hour, true},
		{"частичное пересечение", base, shift8, base.Add(4 * time.Hour), shift8, true},
		{"вложенный интервал", base, day12, base.Add(2 * time.Hour), hour, true},
		{"встык: конец первого равен началу второго", base, hour, base.Add(4 * time.Hour), hour, false},
		{"встык в обратную сторону", base.Add(4 * time.Hour), hour, base, hour, false},
		{"на минуту внахлёст", base, hour, base.Add(4*time.Hour - time.Minute), hour, true},
		{"разнесённые дни", base, day12, base.Add(24 * time.Hour), hour, false},
		{"короткая внутри длинной с общим стартом", base, day12, base, hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IntervalsOverlap(tt.aStart, tt.aDur, tt.bStart, tt.bDur))
			// Пересечение симметрично
			assert.Equal(t, tt.want, IntervalsOverlap(tt.bStart, tt.bDur, tt.aStart, tt.aDur))
		})
	}
}
