package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragshata/RabotaHULT/internal/constants"
)

func TestReminderWindowWidthMatchesSweepInterval(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 30 * time.Minute, 2 * time.Hour} {
		from, to := ReminderWindow(now, offset)
		assert.Equal(t, now.Add(offset), from)
		assert.Equal(t, constants.SWEEP_INTERVAL, to.Sub(from))
	}
}

// Старт каждой смены обязан попасть ровно в один тик планировщика:
// окна соседних тиков стыкуются без зазоров и перекрытий.
func TestReminderWindowsTile(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	_, prevTo := ReminderWindow(base, 2*time.Hour)
	nextFrom, _ := ReminderWindow(base.Add(constants.SWEEP_INTERVAL), 2*time.Hour)
	assert.True(t, prevTo.Equal(nextFrom))
}

func TestReminderSpecsCoverAllKinds(t *testing.T) {
	require.Len(t, reminderSpecs, 3)

	offsets := map[string]time.Duration{}
	for _, spec := range reminderSpecs {
		offsets[spec.kind] = spec.offset
	}
	assert.Equal(t, 2*time.Hour, offsets[constants.NOTIFY_KIND_PRE2H])
	assert.Equal(t, 30*time.Minute, offsets[constants.NOTIFY_KIND_PRE30M])
	assert.Equal(t, time.Duration(0), offsets[constants.NOTIFY_KIND_START_NOW])
}
