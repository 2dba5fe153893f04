package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campusconnect/internal/content"
	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/repository"
	"campusconnect/internal/store"
)

// AttendanceVerifier judges whether a captured frame shows the user at an event.
type AttendanceVerifier interface {
	VerifyAttendance(ctx context.Context, imageBase64 string) content.Verification
}

// CheckInRequest carries the evidence a student submits for a self check-in.
type CheckInRequest struct {
	Location    *model.Coordinates
	PhotoBase64 string
}

// EventStats is the per-event line of the admin dashboard.
type EventStats struct {
	EventID       string `json:"event_id"`
	Title         string `json:"title"`
	Registrations int    `json:"registrations"`
	CheckedIn     int    `json:"checked_in"`
	Capacity      int    `json:"capacity"`
	FillPercent   int    `json:"fill_percent"`
}

// Stats aggregates registration and attendance numbers across all events.
type Stats struct {
	TotalEvents        int          `json:"total_events"`
	TotalRegistrations int          `json:"total_registrations"`
	TotalCheckIns      int          `json:"total_check_ins"`
	Events             []EventStats `json:"events"`
}

// EventService handles the event registry and membership transitions.
type EventService interface {
	ListEvents(ctx context.Context, filter string) ([]model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	SaveEvent(ctx context.Context, event *model.Event) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	DeleteEvents(ctx context.Context, ids []string) error
	Register(ctx context.Context, eventID, userID string) (*model.Event, error)
	Unregister(ctx context.Context, eventID, userID string) (*model.Event, error)
	ToggleCheckIn(ctx context.Context, eventID, userID string) (*model.Event, error)
	CheckIn(ctx context.Context, eventID, userID string, req CheckInRequest) (*model.Event, error)
	ToggleReminder(ctx context.Context, eventID, userID string) (*model.Event, error)
	ResetAll(ctx context.Context) ([]model.Event, error)
	ClearUserData(ctx context.Context, userID string) error
	Stats(ctx context.Context) (*Stats, error)
}

type eventService struct {
	events       repository.EventRepository
	notifier     NotificationService
	issuer       CertificateService
	guard        *store.Guard
	verifier     AttendanceVerifier
	radiusMeters float64
	now          func() time.Time
	newID        func() string
}

// NewEventService creates a new event service. notifier and issuer must share
// guard. A radius of zero disables the geofence.
func NewEventService(
	events repository.EventRepository,
	notifier NotificationService,
	issuer CertificateService,
	guard *store.Guard,
	verifier AttendanceVerifier,
	radiusMeters float64,
) EventService {
	return &eventService{
		events:       events,
		notifier:     notifier,
		issuer:       issuer,
		guard:        guard,
		verifier:     verifier,
		radiusMeters: radiusMeters,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// ListEvents returns all events, newest date first, seeding the registry on first use.
func (s *eventService) ListEvents(ctx context.Context, filter string) ([]model.Event, error) {
	var events []model.Event
	err := s.guard.Do(func() error {
		var err error
		events, err = s.events.SeedIfEmpty(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return events, nil
	}
	matched := make([]model.Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Title), filter) ||
			strings.Contains(strings.ToLower(e.Location), filter) ||
			strings.Contains(strings.ToLower(string(e.Category)), filter) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// GetEvent retrieves a single event by ID.
func (s *eventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return s.events.FindByID(ctx, id)
}

// SaveEvent creates or updates an event. Membership lists are owned by the registry
// and survive an update untouched.
func (s *eventService) SaveEvent(ctx context.Context, event *model.Event) (*model.Event, error) {
	candidate := event.Clone()
	if candidate.ID == "" {
		candidate.ID = s.newID()
	}
	candidate.Registrations = nil
	candidate.CheckedIn = nil
	candidate.Reminders = nil
	candidate.VenueLinks = model.VenueLinksFor(candidate.Location)
	candidate.Normalize()

	if err := candidate.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidEvent, err)
	}

	err := s.guard.Do(func() error {
		existing, err := s.events.FindByID(ctx, candidate.ID)
		switch {
		case err == nil:
			candidate.Registrations = existing.Registrations
			candidate.CheckedIn = existing.CheckedIn
			candidate.Reminders = existing.Reminders
		case !errors.Is(err, errors.ErrEventNotFound):
			return err
		}
		return s.events.Upsert(ctx, &candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("save event: %w", err)
	}
	return &candidate, nil
}

// DeleteEvent removes an event; unknown IDs are ignored.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	return s.DeleteEvents(ctx, []string{id})
}

// DeleteEvents removes every listed event; unknown IDs are ignored.
func (s *eventService) DeleteEvents(ctx context.Context, ids []string) error {
	return s.guard.Do(func() error {
		return s.events.DeleteMany(ctx, ids)
	})
}

// Register books a seat for the user and notifies them the first time.
func (s *eventService) Register(ctx context.Context, eventID, userID string) (*model.Event, error) {
	return s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		if e.IsFull() {
			return false, errors.ErrCapacityExceeded
		}
		if e.IsRegistered(userID) {
			return false, nil
		}
		e.Registrations = append(e.Registrations, userID)
		return true, nil
	}, func(e *model.Event) error {
		_, err := s.notifier.notifyLocked(ctx, userID, "Registration Success",
			fmt.Sprintf("You are booked for %s!", e.Title), model.SeveritySuccess)
		return err
	})
}

// Unregister drops the user from every membership list of the event.
func (s *eventService) Unregister(ctx context.Context, eventID, userID string) (*model.Event, error) {
	return s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		e.RemoveUser(userID)
		return true, nil
	}, nil)
}

// ToggleCheckIn flips attendance for a registered user. Entering the checked-in
// state issues a certificate; leaving it never revokes one.
func (s *eventService) ToggleCheckIn(ctx context.Context, eventID, userID string) (*model.Event, error) {
	var entered bool
	return s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		if !e.IsRegistered(userID) && !e.IsCheckedIn(userID) {
			return false, errors.ErrNotRegistered
		}
		e.CheckedIn, entered = model.Toggle(e.CheckedIn, userID)
		return true, nil
	}, func(e *model.Event) error {
		if !entered {
			return nil
		}
		return s.issueCertificate(ctx, e, userID)
	})
}

// CheckIn is the student self check-in: photo verification, geofence, then an
// idempotent transition into the checked-in state.
func (s *eventService) CheckIn(ctx context.Context, eventID, userID string, req CheckInRequest) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsRegistered(userID) && !event.IsCheckedIn(userID) {
		return nil, errors.ErrNotRegistered
	}

	if req.PhotoBase64 != "" && s.verifier != nil {
		if v := s.verifier.VerifyAttendance(ctx, req.PhotoBase64); !v.Verified {
			return nil, fmt.Errorf("%w: %s", errors.ErrAttendanceRejected, v.Reason)
		}
	}

	if s.radiusMeters > 0 && event.Coordinates != nil {
		if req.Location == nil {
			return nil, fmt.Errorf("%w: location required", errors.ErrOutsideGeofence)
		}
		if d := distanceMeters(*req.Location, *event.Coordinates); d > s.radiusMeters {
			return nil, fmt.Errorf("%w: %.0fm away", errors.ErrOutsideGeofence, d)
		}
	}

	return s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		if e.IsCheckedIn(userID) {
			return false, nil
		}
		if !e.IsRegistered(userID) {
			return false, errors.ErrNotRegistered
		}
		e.CheckedIn = append(e.CheckedIn, userID)
		return true, nil
	}, func(e *model.Event) error {
		return s.issueCertificate(ctx, e, userID)
	})
}

// ToggleReminder flips whether the user wants a reminder for the event.
func (s *eventService) ToggleReminder(ctx context.Context, eventID, userID string) (*model.Event, error) {
	return s.mutate(ctx, eventID, func(e *model.Event) (bool, error) {
		e.Reminders, _ = model.Toggle(e.Reminders, userID)
		return true, nil
	}, nil)
}

// ResetAll restores the default events and clears notifications and certificates.
func (s *eventService) ResetAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := s.guard.Do(func() error {
		var err error
		if events, err = s.events.Reset(ctx); err != nil {
			return err
		}
		if err := s.notifier.clearLocked(ctx); err != nil {
			return err
		}
		return s.issuer.clearLocked(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	return events, nil
}

// ClearUserData removes every trace of a user: memberships, certificates and notifications.
func (s *eventService) ClearUserData(ctx context.Context, userID string) error {
	return s.guard.Do(func() error {
		events, err := s.events.List(ctx)
		if err != nil {
			return err
		}
		for i := range events {
			events[i].RemoveUser(userID)
		}
		if err := s.events.SaveAll(ctx, events); err != nil {
			return err
		}
		if err := s.issuer.deleteUserLocked(ctx, userID); err != nil {
			return err
		}
		return s.notifier.deleteUserLocked(ctx, userID)
	})
}

// Stats summarises registrations and attendance for the admin dashboard.
func (s *eventService) Stats(ctx context.Context) (*Stats, error) {
	events, err := s.ListEvents(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalEvents: len(events), Events: make([]EventStats, 0, len(events))}
	for _, e := range events {
		stats.TotalRegistrations += len(e.Registrations)
		stats.TotalCheckIns += len(e.CheckedIn)
		stats.Events = append(stats.Events, EventStats{
			EventID:       e.ID,
			Title:         e.Title,
			Registrations: len(e.Registrations),
			CheckedIn:     len(e.CheckedIn),
			Capacity:      e.Capacity,
			FillPercent:   fillPercent(len(e.Registrations), e.Capacity),
		})
	}
	return stats, nil
}

// mutate runs a read-modify-write on one event under the guard. change reports
// whether the event must be persisted; after runs once the change is stored.
// If after fails the previous events are written back.
func (s *eventService) mutate(
	ctx context.Context,
	eventID string,
	change func(e *model.Event) (bool, error),
	after func(e *model.Event) error,
) (*model.Event, error) {
	var updated model.Event
	err := s.guard.Do(func() error {
		events, err := s.events.List(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range events {
			if events[i].ID == eventID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.ErrEventNotFound
		}

		previous := make([]model.Event, len(events))
		for i := range events {
			previous[i] = events[i].Clone()
		}

		e := &events[idx]
		changed, err := change(e)
		if err != nil {
			return err
		}
		updated = e.Clone()
		if !changed {
			return nil
		}
		if err := s.events.SaveAll(ctx, events); err != nil {
			return fmt.Errorf("save events: %w", err)
		}
		if after == nil {
			return nil
		}
		if err := after(e); err != nil {
			if restoreErr := s.events.SaveAll(ctx, previous); restoreErr != nil {
				zap.L().Error("restore events",
					zap.String("event_id", eventID),
					zap.NamedError("cause", err),
					zap.Error(restoreErr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *eventService) issueCertificate(ctx context.Context, e *model.Event, userID string) error {
	_, err := s.issuer.issueLocked(ctx, &model.Certificate{
		ID:         s.newID(),
		UserID:     userID,
		EventID:    e.ID,
		EventTitle: e.Title,
		IssuedAt:   s.now(),
		Issuer:     e.Organizer,
	})
	return err
}

func fillPercent(registrations, capacity int) int {
	if capacity <= 0 {
		return 100
	}
	pct := int(math.Round(float64(registrations) / float64(capacity) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

const earthRadiusMeters = 6371000

// distanceMeters is the haversine great-circle distance between two points.
func distanceMeters(a, b model.Coordinates) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
