package lifecycle

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/models"
)

func TestArriveWindowOpen(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	assert.False(t, ArriveWindowOpen(start, start.Add(-61*time.Minute)))
	assert.True(t, ArriveWindowOpen(start, start.Add(-time.Hour)))
	assert.True(t, ArriveWindowOpen(start, start))
	assert.True(t, ArriveWindowOpen(start, start.Add(time.Hour)))
	assert.False(t, ArriveWindowOpen(start, start.Add(61*time.Minute)))
}

func TestMinDurationElapsed(t *testing.T) {
	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	assert.False(t, MinDurationElapsed(constants.FORMAT_HOUR, start, start.Add(3*time.Hour)))
	assert.True(t, MinDurationElapsed(constants.FORMAT_HOUR, start, start.Add(4*time.Hour)))
	assert.False(t, MinDurationElapsed(constants.FORMAT_SHIFT8, start, start.Add(7*time.Hour)))
	assert.True(t, MinDurationElapsed(constants.FORMAT_SHIFT8, start, start.Add(8*time.Hour)))
	assert.True(t, MinDurationElapsed(constants.FORMAT_DAY12, start, start.Add(12*time.Hour)))
}

func TestClaimGuard(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	order := models.Order{CitizenshipRequired: constants.CITIZENSHIP_RF}
	base := models.Worker{
		Citizenship: constants.CITIZENSHIP_RF,
		Status:      constants.WORKER_STATUS_ACTIVE,
	}

	t.Run("активный гражданин РФ проходит", func(t *testing.T) {
		assert.NoError(t, ClaimGuard(base, order, now))
	})

	t.Run("заблокированный по статусу", func(t *testing.T) {
		w := base
		w.Status = constants.WORKER_STATUS_BLOCKED
		assert.ErrorIs(t, ClaimGuard(w, order, now), ErrBlocked)
	})

	t.Run("временная блокировка после неявки", func(t *testing.T) {
		w := base
		w.BlockedUntil = sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true}
		assert.ErrorIs(t, ClaimGuard(w, order, now), ErrBlocked)
	})

	t.Run("истёкшая блокировка не мешает", func(t *testing.T) {
		w := base
		w.BlockedUntil = sql.NullTime{Time: now.Add(-time.Minute), Valid: true}
		assert.NoError(t, ClaimGuard(w, order, now))
	})

	t.Run("кулдаун", func(t *testing.T) {
		w := base
		w.CooldownUntil = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
		assert.ErrorIs(t, ClaimGuard(w, order, now), ErrCooldown)
	})

	t.Run("иностранец не проходит на заказ для РФ", func(t *testing.T) {
		w := base
		w.Citizenship = constants.CITIZENSHIP_FOREIGN
		assert.ErrorIs(t, ClaimGuard(w, order, now), ErrCitizenship)
	})

	t.Run("иностранец проходит на заказ без требований", func(t *testing.T) {
		w := base
		w.Citizenship = constants.CITIZENSHIP_FOREIGN
		o := order
		o.CitizenshipRequired = constants.CITIZENSHIP_ANY
		assert.NoError(t, ClaimGuard(w, o, now))
	})

	t.Run("гражданин РФ берёт заказ для иностранцев", func(t *testing.T) {
		o := order
		o.CitizenshipRequired = constants.CITIZENSHIP_FOREIGN
		assert.NoError(t, ClaimGuard(base, o, now))
	})
}

func TestUserMessageKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "Все места по заказу уже заняты.", UserMessage(ErrCapacityFull))
	assert.NotEmpty(t, UserMessage(assert.AnError))
}
