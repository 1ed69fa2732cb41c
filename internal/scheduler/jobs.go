package scheduler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/db"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
	"github.com/ragshata/RabotaHULT/internal/models"
)

// reminderSpec описывает один вид напоминания: за сколько до старта
// и каким текстом.
type reminderSpec struct {
	kind   string
	offset time.Duration
	text   func(s models.Shift, loc *time.Location) string
}

var reminderSpecs = []reminderSpec{
	{
		kind:   constants.NOTIFY_KIND_PRE2H,
		offset: 2 * time.Hour,
		text: func(s models.Shift, loc *time.Location) string {
			return fmt.Sprintf("⏰ Через 2 часа смена\n%s\nАдрес: %s\nНачало: %s",
				s.OrderDescription, s.OrderAddress, s.StartTime.In(loc).Format("15:04"))
		},
	},
	{
		kind:   constants.NOTIFY_KIND_PRE30M,
		offset: 30 * time.Minute,
		text: func(s models.Shift, loc *time.Location) string {
			return fmt.Sprintf("⏰ Через 30 минут смена\n%s\nАдрес: %s\nНачало: %s",
				s.OrderDescription, s.OrderAddress, s.StartTime.In(loc).Format("15:04"))
		},
	},
	{
		kind:   constants.NOTIFY_KIND_START_NOW,
		offset: 0,
		text: func(s models.Shift, loc *time.Location) string {
			return fmt.Sprintf("🚀 Смена начинается\n%s\nАдрес: %s\nОтметьтесь кнопкой «Я на месте» в карточке смены.",
				s.OrderDescription, s.OrderAddress)
		},
	},
}

// ReminderWindow — окно стартов [from, to) для напоминания со сдвигом
// offset при тике в момент now. Ширина окна равна шагу планировщика,
// поэтому каждый старт попадает ровно в один тик.
func ReminderWindow(now time.Time, offset time.Duration) (time.Time, time.Time) {
	from := now.Add(offset)
	return from, from.Add(constants.SWEEP_INTERVAL)
}

// sendReminders рассылает напоминания о приближающихся сменах.
// Отправка помечается в notifications_log до фактической отправки:
// лучше потерять одно напоминание при сбое, чем заспамить повтором.
func (s *Scheduler) sendReminders(now time.Time) {
	statuses := []string{constants.ORDER_STATUS_CREATED, constants.ORDER_STATUS_STARTED}
	for _, spec := range reminderSpecs {
		from, to := ReminderWindow(now, spec.offset)
		shifts, err := db.ListReminderCandidates(spec.kind, from, to, statuses)
		if err != nil {
			continue
		}
		for _, shift := range shifts {
			createdNow, errMark := db.MarkNotificationSent(shift.ID, spec.kind)
			if errMark != nil || !createdNow {
				continue
			}
			if errSend := s.notifier.Notify(shift.WorkerTelegramID, spec.text(shift, s.loc)); errSend != nil {
				log.Printf("sendReminders(%s): не удалось уведомить tg_id %d: %v",
					spec.kind, shift.WorkerTelegramID, errSend)
			}
		}
	}
}

// sweepNoShows фиксирует неявки: принятые смены, стартовавшие больше
// 15 минут назад без отметки прибытия.
func (s *Scheduler) sweepNoShows(now time.Time) {
	threshold := now.Add(-constants.NO_SHOW_GRACE)
	shifts, err := db.ListNoShowCandidates(threshold)
	if err != nil {
		return
	}
	for _, shift := range shifts {
		if _, errMark := s.manager.MarkNoShow(shift); errMark != nil {
			// ErrShiftState — работник успел отметиться между выборкой и фиксацией
			if !errors.Is(errMark, lifecycle.ErrShiftState) {
				log.Printf("sweepNoShows: смена %d: %v", shift.ID, errMark)
			}
		}
	}
}

// sendAutopings спрашивает статус у работников, чьи смены идут дольше
// планового времени на полчаса.
func (s *Scheduler) sendAutopings(now time.Time) {
	shifts, err := db.ListAutopingCandidates()
	if err != nil {
		return
	}
	for _, shift := range shifts {
		plannedEnd := shift.PlannedEnd(constants.FormatDuration(shift.OrderFormat))
		if now.Before(plannedEnd.Add(constants.AUTOPING_DELAY)) {
			continue
		}
		createdNow, errMark := db.MarkNotificationSent(shift.ID, constants.NOTIFY_KIND_AUTOPING)
		if errMark != nil || !createdNow {
			continue
		}
		text := fmt.Sprintf("❓ Смена «%s» по плану уже закончилась. Как дела?", shift.OrderDescription)
		rows := [][]lifecycle.Button{
			{{Text: "✅ Завершить смену", Data: fmt.Sprintf("%s:%d", constants.CALLBACK_SHIFT_DONE, shift.ID)}},
			{{Text: "⏳ Ещё работаю", Data: fmt.Sprintf("%s:%d", constants.CALLBACK_SHIFT_STILL, shift.ID)}},
			{{Text: "⚠️ Возникла проблема", Data: fmt.Sprintf("%s:%d", constants.CALLBACK_SHIFT_ISSUE, shift.ID)}},
		}
		if errSend := s.notifier.NotifyButtons(shift.WorkerTelegramID, text, rows); errSend != nil {
			log.Printf("sendAutopings: не удалось уведомить tg_id %d: %v", shift.WorkerTelegramID, errSend)
		}
	}
}
