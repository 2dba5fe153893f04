package repository

import (
	"context"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/store"
)

// EventRepository defines event registry persistence operations.
type EventRepository interface {
	List(ctx context.Context) ([]model.Event, error)
	SeedIfEmpty(ctx context.Context) ([]model.Event, error)
	SaveAll(ctx context.Context, events []model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	Upsert(ctx context.Context, event *model.Event) error
	DeleteMany(ctx context.Context, ids []string) error
	Reset(ctx context.Context) ([]model.Event, error)
}

type eventRepository struct {
	store store.Store
}

// NewEventRepository creates a new event repository.
func NewEventRepository(s store.Store) EventRepository {
	return &eventRepository{store: s}
}

// List returns the stored events in storage order.
func (r *eventRepository) List(ctx context.Context) ([]model.Event, error) {
	events, err := store.Load(ctx, r.store, store.KeyEvents, []model.Event{})
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Normalize()
	}
	return events, nil
}

// SeedIfEmpty stores the default registry when no event exists and returns
// the resulting collection.
func (r *eventRepository) SeedIfEmpty(ctx context.Context) ([]model.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		return events, nil
	}
	events = model.SeedEvents()
	if err := r.SaveAll(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveAll replaces the whole collection.
func (r *eventRepository) SaveAll(ctx context.Context, events []model.Event) error {
	return store.Save(ctx, r.store, store.KeyEvents, events)
}

// FindByID finds an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, errors.ErrEventNotFound
}

// Upsert replaces the event with the same ID or appends it.
func (r *eventRepository) Upsert(ctx context.Context, event *model.Event) error {
	events, err := r.List(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = *event
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, *event)
	}
	return r.SaveAll(ctx, events)
}

// DeleteMany removes every event whose ID is listed. Unknown IDs are ignored.
func (r *eventRepository) DeleteMany(ctx context.Context, ids []string) error {
	events, err := r.List(ctx)
	if err != nil {
		return err
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]model.Event, 0, len(events))
	for _, e := range events {
		if _, ok := drop[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	return r.SaveAll(ctx, kept)
}

// Reset overwrites the collection with the default registry.
func (r *eventRepository) Reset(ctx context.Context) ([]model.Event, error) {
	events := model.SeedEvents()
	if err := r.SaveAll(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}
