package nag

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ironwill-app/ironwill/internal/audit"
	"github.com/ironwill-app/ironwill/internal/config"
	"github.com/ironwill-app/ironwill/internal/goal"
	"github.com/ironwill-app/ironwill/internal/notification"
	"github.com/ironwill-app/ironwill/internal/user"
	util "github.com/ironwill-app/ironwill/internal/utils"
)

// Interval is how often the scheduler sweeps for overdue audits.
const Interval = 15 * time.Minute

// Quiet hours in the user's local time. No reminders land between
// 23:00 and 06:00.
const (
	quietStartHour = 23
	quietEndHour   = 6
)

// Scheduler nags users whose goals passed their review time without an
// audit for the day. Reminders repeat every sweep until the user
// submits; there is deliberately no per-day dedup.
type Scheduler struct {
	users    user.UserRepository
	goals    goal.GoalRepository
	audits   audit.Repository
	notifier notification.Service

	running atomic.Bool
}

func NewScheduler(
	users user.UserRepository,
	goals goal.GoalRepository,
	audits audit.Repository,
	notifier notification.Service,
) *Scheduler {
	return &Scheduler{
		users:    users,
		goals:    goals,
		audits:   audits,
		notifier: notifier,
	}
}

// Run drives sweeps until the context is cancelled. Each sweep runs in
// its own goroutine; a tick that arrives while the previous sweep is
// still going is skipped rather than queued.
func (s *Scheduler) Run(ctx context.Context) {
	log := config.WithContext(ctx)
	log.WithField("interval", Interval.String()).Info("Reminder scheduler started")

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Reminder scheduler stopped")
			return
		case now := <-ticker.C:
			go s.sweep(ctx, now)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context, now time.Time) {
	if !s.running.CompareAndSwap(false, true) {
		config.WithContext(ctx).Warn("Previous reminder sweep still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	if err := s.RunOnce(ctx, now); err != nil {
		config.WithContext(ctx).WithError(err).Error("Reminder sweep failed")
	}
}

// RunOnce performs a single sweep at the given instant. Failures on one
// user's goals are logged and do not stop the sweep.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	log := config.WithContext(ctx)

	users, err := s.users.FindAll()
	if err != nil {
		return err
	}

	for _, u := range users {
		local := now.In(u.Location())
		if inQuietHours(local) {
			continue
		}
		if err := s.remindUser(ctx, u, local); err != nil {
			log.WithError(err).WithField("user_id", u.ID).Error("Failed to process reminders for user")
		}
	}
	return nil
}

func (s *Scheduler) remindUser(ctx context.Context, u *user.User, local time.Time) error {
	goals, err := s.goals.FindByUserAndStatus(u.ID, goal.StatusActive)
	if err != nil {
		return err
	}

	clock := util.ClockOf(local)
	for _, g := range goals {
		if clock.Before(g.ReviewTime) {
			continue
		}

		existing, err := s.audits.FindByGoalAndDate(g.ID, audit.DateOf(local))
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		if err := s.notifier.Notify(ctx, u.ID, "Pending audit for: "+g.Title); err != nil {
			return err
		}
	}
	return nil
}

func inQuietHours(local time.Time) bool {
	h := local.Hour()
	return h >= quietStartHour || h < quietEndHour
}
