package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ragshata/RabotaHULT/internal/constants"
	"github.com/ragshata/RabotaHULT/internal/lifecycle"
)

// Scheduler каждые пять минут сверяет расписание смен с реальностью:
// напоминания, фиксация неявок и автопинг затянувшихся смен.
type Scheduler struct {
	manager  *lifecycle.Manager
	notifier lifecycle.Notifier
	loc      *time.Location
	cron     *cron.Cron

	now func() time.Time // подменяется в тестах
}

// job — один проход планировщика. Джобы независимы: падение одной
// не мешает остальным.
type job struct {
	name string
	run  func(now time.Time)
}

// New собирает планировщик.
func New(manager *lifecycle.Manager, notifier lifecycle.Notifier, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		manager:  manager,
		notifier: notifier,
		loc:      loc,
		cron:     cron.New(cron.WithLocation(loc)),
		now:      time.Now,
	}
}

// Start запускает периодическую сверку в фоне.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@every 5m", s.RunSweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("Scheduler: запущен, интервал %s", constants.SWEEP_INTERVAL)
	return nil
}

// Stop останавливает планировщик и дожидается завершения текущего прохода.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler: остановлен")
}

// RunSweep выполняет один полный проход всех джобов.
func (s *Scheduler) RunSweep() {
	now := s.now()
	for _, j := range s.jobs() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("RunSweep: паника в джобе %s: %v", j.name, r)
				}
			}()
			j.run(now)
		}()
	}
}

func (s *Scheduler) jobs() []job {
	return []job{
		{"reminders", s.sendReminders},
		{"no_show_sweep", s.sweepNoShows},
		{"autoping", s.sendAutopings},
	}
}
