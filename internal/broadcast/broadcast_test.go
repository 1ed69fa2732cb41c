package broadcast

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragshata/RabotaHULT/internal/lifecycle"
)

// fakeNotifier считает отправки и падает на заданных получателях.
type fakeNotifier struct {
	sent    []int64
	failFor map[int64]bool
}

func (f *fakeNotifier) Notify(chatID int64, text string) error {
	return f.NotifyButtons(chatID, text, nil)
}

func (f *fakeNotifier) NotifyButtons(chatID int64, text string, rows [][]lifecycle.Button) error {
	if f.failFor[chatID] {
		return errors.New("blocked by user")
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func TestFanOutCountsSentAndFailures(t *testing.T) {
	fake := &fakeNotifier{failFor: map[int64]bool{3: true, 7: true}}
	b := &Broadcaster{notifier: fake, batchSize: 10}

	ids := make([]int64, 0, 12)
	for i := int64(1); i <= 12; i++ {
		ids = append(ids, i)
	}
	sent, failures := b.fanOut(ids, "текст", nil)

	assert.Equal(t, 10, sent)
	assert.Len(t, failures, 2)
	assert.Contains(t, failures[0], "3: ")
	assert.Len(t, fake.sent, 10)
}

func TestFanOutEmptyRecipients(t *testing.T) {
	b := &Broadcaster{notifier: &fakeNotifier{}, batchSize: 10}
	sent, failures := b.fanOut(nil, "текст", nil)
	assert.Zero(t, sent)
	assert.Empty(t, failures)
}

func TestSummaryLimitsErrorSamples(t *testing.T) {
	failures := []string{"1: a", "2: b", "3: c", "4: d", "5: e", "6: f", "7: g"}
	text := summary("ab12cd34", 42, "📦 Новый заказ", 3, failures)

	assert.Contains(t, text, "Рассылка ab12cd34")
	assert.Contains(t, text, "#42")
	assert.Contains(t, text, "Доставлено: 3")
	assert.Contains(t, text, "Ошибок: 7")
	// не больше пяти примеров
	assert.Equal(t, 5, strings.Count(text, "• "))
	assert.NotContains(t, text, "6: f")
}

func TestSummaryWithoutFailures(t *testing.T) {
	text := summary("deadbeef", 7, "🔄 Освободилось место в заказе", 15, nil)
	assert.Contains(t, text, "Ошибок: 0")
	assert.NotContains(t, text, "Примеры ошибок")
}
