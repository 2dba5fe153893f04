package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/repository"
	"campusconnect/internal/store"
)

// ReminderWindow is how far ahead of an event a reminder fires.
const ReminderWindow = 24 * time.Hour

// NotificationService handles the per-user inbox and event reminders.
//
// The unexported methods run without taking the guard and are meant for other
// services that already hold it.
type NotificationService interface {
	Notify(ctx context.Context, userID, title, message string, severity model.Severity) (*model.Notification, error)
	ScanReminders(ctx context.Context, userID string) ([]model.Notification, error)
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error

	notifyLocked(ctx context.Context, userID, title, message string, severity model.Severity) (*model.Notification, error)
	clearLocked(ctx context.Context) error
	deleteUserLocked(ctx context.Context, userID string) error
}

type notificationService struct {
	notifications repository.NotificationRepository
	events        repository.EventRepository
	guard         *store.Guard
	now           func() time.Time
	newID         func() string
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notifications repository.NotificationRepository, events repository.EventRepository, guard *store.Guard) NotificationService {
	return &notificationService{
		notifications: notifications,
		events:        events,
		guard:         guard,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// Notify appends an unread notification for the user.
func (s *notificationService) Notify(ctx context.Context, userID, title, message string, severity model.Severity) (*model.Notification, error) {
	var n *model.Notification
	err := s.guard.Do(func() error {
		var err error
		n, err = s.notifyLocked(ctx, userID, title, message, severity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ScanReminders emits one warning per event the user asked to be reminded of
// that starts within the next 24 hours. Repeated scans never duplicate a reminder.
func (s *notificationService) ScanReminders(ctx context.Context, userID string) ([]model.Notification, error) {
	var created []model.Notification
	err := s.guard.Do(func() error {
		events, err := s.events.SeedIfEmpty(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		for _, e := range events {
			if !e.HasReminder(userID) {
				continue
			}
			until := e.Date.Sub(now)
			if until <= 0 || until > ReminderWindow {
				continue
			}

			key := reminderKey(e.ID)
			exists, err := s.notifications.ExistsByDedupeKey(ctx, userID, key)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			created = append(created, newNotification(s.newID(), now, userID, "Upcoming Event Reminder",
				fmt.Sprintf("Reminder: \"%s\" starts in less than 24 hours at %s.", e.Title, e.Location),
				model.SeverityWarning, key))
		}

		if len(created) == 0 {
			return nil
		}
		return s.notifications.Append(ctx, created...)
	})
	if err != nil {
		return nil, fmt.Errorf("scan reminders: %w", err)
	}
	return created, nil
}

// ListNotifications returns the user's notifications, newest first.
func (s *notificationService) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one of the user's notifications as read. Unknown IDs and
// notifications owned by someone else are ignored.
func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	return s.guard.Do(func() error {
		err := s.notifications.MarkRead(ctx, userID, id)
		if errors.Is(err, errors.ErrNotificationNotFound) {
			return nil
		}
		return err
	})
}

func (s *notificationService) notifyLocked(ctx context.Context, userID, title, message string, severity model.Severity) (*model.Notification, error) {
	n := newNotification(s.newID(), s.now(), userID, title, message, severity, "")
	if err := s.notifications.Append(ctx, n); err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	return &n, nil
}

func (s *notificationService) clearLocked(ctx context.Context) error {
	return s.notifications.Clear(ctx)
}

func (s *notificationService) deleteUserLocked(ctx context.Context, userID string) error {
	return s.notifications.DeleteByUser(ctx, userID)
}

func reminderKey(eventID string) string {
	return "reminder:" + eventID
}

func newNotification(id string, at time.Time, userID, title, message string, severity model.Severity, dedupeKey string) model.Notification {
	return model.Notification{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Message:   message,
		Timestamp: at,
		Type:      severity,
		DedupeKey: dedupeKey,
	}
}
