// Package reminder runs the periodic reminder scan in the background.
package reminder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"campusconnect/internal/model"
)

// Scanner emits due reminders for one user.
type Scanner interface {
	ScanReminders(ctx context.Context, userID string) ([]model.Notification, error)
}

// UserLister enumerates the users to scan.
type UserLister interface {
	ListUsers(ctx context.Context) ([]model.AppUser, error)
}

// Scheduler scans every user once on start and then on each tick.
type Scheduler struct {
	scanner  Scanner
	users    UserLister
	interval time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler ticking at interval.
func NewScheduler(scanner Scanner, users UserLister, interval time.Duration) *Scheduler {
	return &Scheduler{scanner: scanner, users: users, interval: interval}
}

// Start launches the worker. It stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop cancels the worker and waits for the current scan to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.ScanAll(ctx)
	for {
		select {
		case <-ticker.C:
			s.ScanAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// ScanAll runs one reminder pass over every user and returns how many
// notifications were created. Per-user failures are logged and skipped.
func (s *Scheduler) ScanAll(ctx context.Context) int {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		zap.L().Error("reminder scan: list users", zap.Error(err))
		return 0
	}

	total := 0
	for _, u := range users {
		if ctx.Err() != nil {
			return total
		}
		created, err := s.scanner.ScanReminders(ctx, u.ID)
		if err != nil {
			zap.L().Warn("reminder scan failed", zap.String("user_id", u.ID), zap.Error(err))
			continue
		}
		total += len(created)
	}
	if total > 0 {
		zap.L().Info("reminders emitted", zap.Int("count", total))
	}
	return total
}
