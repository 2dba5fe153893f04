package repository

import (
	"context"
	"sort"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/store"
)

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	Append(ctx context.Context, notifications ...model.Notification) error
	ExistsByDedupeKey(ctx context.Context, userID, key string) (bool, error)
	MarkRead(ctx context.Context, userID, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	Clear(ctx context.Context) error
}

type notificationRepository struct {
	store store.Store
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(s store.Store) NotificationRepository {
	return &notificationRepository{store: s}
}

func (r *notificationRepository) all(ctx context.Context) ([]model.Notification, error) {
	return store.Load(ctx, r.store, store.KeyNotifications, []model.Notification{})
}

func (r *notificationRepository) save(ctx context.Context, notifications []model.Notification) error {
	return store.Save(ctx, r.store, store.KeyNotifications, notifications)
}

// ListByUser returns the user's notifications, newest first.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0)
	for _, n := range all {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Append stores new notifications ahead of the existing ones.
func (r *notificationRepository) Append(ctx context.Context, notifications ...model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	all, err := r.all(ctx)
	if err != nil {
		return err
	}
	merged := make([]model.Notification, 0, len(all)+len(notifications))
	merged = append(merged, notifications...)
	merged = append(merged, all...)
	return r.save(ctx, merged)
}

// ExistsByDedupeKey reports whether the user already holds a notification with key.
func (r *notificationRepository) ExistsByDedupeKey(ctx context.Context, userID, key string) (bool, error) {
	all, err := r.all(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range all {
		if n.UserID == userID && n.DedupeKey == key {
			return true, nil
		}
	}
	return false, nil
}

// MarkRead flags the user's notification as read. A notification owned by
// another user is reported as ErrNotificationNotFound.
func (r *notificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	all, err := r.all(ctx)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].ID != id || all[i].UserID != userID {
			continue
		}
		if all[i].Read {
			return nil
		}
		all[i].Read = true
		return r.save(ctx, all)
	}
	return errors.ErrNotificationNotFound
}

// DeleteByUser purges every notification owned by userID.
func (r *notificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	all, err := r.all(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Notification, 0, len(all))
	for _, n := range all {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	return r.save(ctx, kept)
}

// Clear drops the collection from the store.
func (r *notificationRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, store.KeyNotifications)
}
