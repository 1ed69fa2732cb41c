package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationPenalty(t *testing.T) {
	acceptedAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ранняя отмена в пределах двух часов", func(t *testing.T) {
		p := CancellationPenalty(acceptedAt.Add(90*time.Minute), acceptedAt)
		assert.Equal(t, -0.1, p.RatingDelta)
		assert.True(t, p.BlockedUntil.IsZero())
		assert.True(t, p.CooldownUntil.IsZero())
	})

	t.Run("ровно два часа — ещё ранняя", func(t *testing.T) {
		p := CancellationPenalty(acceptedAt.Add(2*time.Hour), acceptedAt)
		assert.Equal(t, -0.1, p.RatingDelta)
	})

	t.Run("поздняя отмена", func(t *testing.T) {
		p := CancellationPenalty(acceptedAt.Add(2*time.Hour+time.Second), acceptedAt)
		assert.Equal(t, -0.5, p.RatingDelta)
		assert.True(t, p.BlockedUntil.IsZero())
	})
}

func TestNoShowPenalty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	p := NoShowPenalty(now)
	assert.Equal(t, -1.0, p.RatingDelta)
	assert.Equal(t, now.AddDate(0, 0, 7), p.BlockedUntil)
	assert.True(t, p.CooldownUntil.IsZero())
}
