package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campusconnect/internal/content"
	"campusconnect/internal/errors"
	"campusconnect/internal/model"
	"campusconnect/internal/repository"
	"campusconnect/internal/store"
)

// MockVerifier is a mock implementation of AttendanceVerifier.
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyAttendance(ctx context.Context, imageBase64 string) content.Verification {
	args := m.Called(ctx, imageBase64)
	return args.Get(0).(content.Verification)
}

var fixedNow = time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)

// failingStore rejects writes to one key.
type failingStore struct {
	store.Store
	failKey string
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if key == s.failKey {
		return fmt.Errorf("write %s: disk full", key)
	}
	return s.Store.Set(ctx, key, value)
}

type fixture struct {
	events        repository.EventRepository
	notifications repository.NotificationRepository
	certificates  repository.CertificateRepository
	verifier      *MockVerifier
	svc           EventService
	notes         NotificationService
	certs         CertificateService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, store.NewMemoryStore())
}

func newFixtureWithStore(t *testing.T, s store.Store) *fixture {
	t.Helper()
	guard := store.NewGuard()
	f := &fixture{
		events:        repository.NewEventRepository(s),
		notifications: repository.NewNotificationRepository(s),
		certificates:  repository.NewCertificateRepository(s),
		verifier:      new(MockVerifier),
	}

	var seq int
	var mu sync.Mutex
	newID := func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("id-%d", seq)
	}

	notes := NewNotificationService(f.notifications, f.events, guard).(*notificationService)
	notes.now = func() time.Time { return fixedNow }
	notes.newID = newID
	f.notes = notes

	certs := NewCertificateService(f.certificates, guard).(*certificateService)
	certs.now = func() time.Time { return fixedNow }
	certs.newID = newID
	f.certs = certs

	svc := NewEventService(f.events, notes, certs, guard, f.verifier, 200).(*eventService)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = newID
	f.svc = svc

	_, err := f.svc.ListEvents(context.Background(), "")
	require.NoError(t, err)
	return f
}

func (f *fixture) addEvent(t *testing.T, id string, capacity int) {
	t.Helper()
	_, err := f.svc.SaveEvent(context.Background(), &model.Event{
		ID:        id,
		Title:     "Event " + id,
		Date:      fixedNow.Add(48 * time.Hour),
		Location:  "Main Auditorium",
		Category:  model.CategoryTechnical,
		Organizer: "Robotics Club",
		Capacity:  capacity,
	})
	require.NoError(t, err)
}

func TestEventService_ListEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	events, err := f.svc.ListEvents(ctx, "")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{events[0].ID, events[1].ID, events[2].ID})

	events, err = f.svc.ListEvents(ctx, "  BASKETBALL ")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "1", events[0].ID)

	events, err = f.svc.ListEvents(ctx, "cultural")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "3", events[0].ID)
}

func TestEventService_SaveEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.SaveEvent(ctx, &model.Event{
		Title:         "Robotics Expo",
		Date:          fixedNow.Add(72 * time.Hour),
		Location:      "Main Auditorium",
		Category:      model.CategoryTechnical,
		Organizer:     "Robotics Club",
		Capacity:      50,
		Registrations: []string{"intruder"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.Registrations)

	_, err = f.svc.Register(ctx, created.ID, "u1")
	require.NoError(t, err)

	update := *created
	update.Title = "Robotics Expo 2025"
	update.Registrations = nil
	updated, err := f.svc.SaveEvent(ctx, &update)
	require.NoError(t, err)
	assert.Equal(t, "Robotics Expo 2025", updated.Title)
	assert.Equal(t, []string{"u1"}, updated.Registrations)

	events, _ := f.svc.ListEvents(ctx, "")
	assert.Len(t, events, 4)
}

func TestEventService_SaveEventValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SaveEvent(context.Background(), &model.Event{Title: "x", Capacity: 0})
	assert.ErrorIs(t, err, errors.ErrInvalidEvent)

	events, _ := f.svc.ListEvents(context.Background(), "")
	assert.Len(t, events, 3)
}

func TestEventService_DeleteEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteEvent(ctx, "1"))
	require.NoError(t, f.svc.DeleteEvents(ctx, []string{"2", "missing"}))

	events, err := f.events.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "3", events[0].ID)
}

func TestEventService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEvent(t, "e", 2)

	event, err := f.svc.Register(ctx, "e", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, event.Registrations)

	event, err = f.svc.Register(ctx, "e", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, event.Registrations)

	notes, _ := f.notes.ListNotifications(ctx, "u1")
	require.Len(t, notes, 1)
	assert.Equal(t, "Registration Success", notes[0].Title)
	assert.Equal(t, "You are booked for Event e!", notes[0].Message)
	assert.Equal(t, model.SeveritySuccess, notes[0].Type)
	assert.False(t, notes[0].Read)

	_, err = f.svc.Register(ctx, "e", "u2")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "e", "u3")
	assert.ErrorIs(t, err, errors.ErrCapacityExceeded)

	_, err = f.svc.Register(ctx, "missing", "u1")
	assert.ErrorIs(t, err, errors.ErrEventNotFound)

	stored, _ := f.events.FindByID(ctx, "e")
	assert.Len(t, stored.Registrations, 2)
}

type membershipStep struct {
	op     string
	userID string
	err    error
}

func (f *fixture) apply(ctx context.Context, eventID string, step membershipStep) error {
	var err error
	switch step.op {
	case "register":
		_, err = f.svc.Register(ctx, eventID, step.userID)
	case "unregister":
		_, err = f.svc.Unregister(ctx, eventID, step.userID)
	case "check-in":
		_, err = f.svc.ToggleCheckIn(ctx, eventID, step.userID)
	case "reminder":
		_, err = f.svc.ToggleReminder(ctx, eventID, step.userID)
	default:
		err = fmt.Errorf("unknown op %q", step.op)
	}
	return err
}

func TestEventService_CapacityScenarios(t *testing.T) {
	tests := []struct {
		name  string
		steps []membershipStep
		want  []string
	}{
		{
			name: "third registration is refused",
			steps: []membershipStep{
				{op: "register", userID: "A"},
				{op: "register", userID: "B"},
				{op: "register", userID: "C", err: errors.ErrCapacityExceeded},
			},
			want: []string{"A", "B"},
		},
		{
			name: "freed seat is taken after a refusal",
			steps: []membershipStep{
				{op: "register", userID: "A"},
				{op: "register", userID: "B"},
				{op: "register", userID: "C", err: errors.ErrCapacityExceeded},
				{op: "unregister", userID: "A"},
				{op: "register", userID: "C"},
			},
			want: []string{"B", "C"},
		},
		{
			name: "re-registering on a full event is refused",
			steps: []membershipStep{
				{op: "register", userID: "A"},
				{op: "register", userID: "B"},
				{op: "register", userID: "A", err: errors.ErrCapacityExceeded},
			},
			want: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.addEvent(t, "e", 2)

			for i, step := range tt.steps {
				err := f.apply(ctx, "e", step)
				if step.err != nil {
					assert.ErrorIs(t, err, step.err, "step %d", i)
				} else {
					require.NoError(t, err, "step %d", i)
				}
			}

			stored, err := f.events.FindByID(ctx, "e")
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Registrations)
			assert.LessOrEqual(t, len(stored.Registrations), stored.Capacity)
		})
	}
}

func TestEventService_MembershipRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		middle []string
	}{
		{name: "register then unregister"},
		{name: "with reminder", middle: []string{"reminder"}},
		{name: "with check-in", middle: []string{"check-in"}},
		{name: "with check-in toggled back", middle: []string{"check-in", "check-in"}},
		{name: "with reminder and check-in", middle: []string{"reminder", "check-in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			// seeded event 1 already holds u1
			_, err := f.svc.ToggleReminder(ctx, "1", "u1")
			require.NoError(t, err)
			before, err := f.events.FindByID(ctx, "1")
			require.NoError(t, err)

			steps := []membershipStep{{op: "register", userID: "u7"}}
			for _, op := range tt.middle {
				steps = append(steps, membershipStep{op: op, userID: "u7"})
			}
			steps = append(steps, membershipStep{op: "unregister", userID: "u7"})
			for i, step := range steps {
				require.NoError(t, f.apply(ctx, "1", step), "step %d", i)
			}

			after, err := f.events.FindByID(ctx, "1")
			require.NoError(t, err)
			assert.False(t, after.IsRegistered("u7"))
			assert.False(t, after.IsCheckedIn("u7"))
			assert.False(t, after.HasReminder("u7"))
			assert.Equal(t, before.Registrations, after.Registrations)
			assert.Equal(t, before.CheckedIn, after.CheckedIn)
			assert.Equal(t, before.Reminders, after.Reminders)
		})
	}
}

func TestEventService_FailedSideEffectRestoresEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("registration notice not stored", func(t *testing.T) {
		blobs := &failingStore{Store: store.NewMemoryStore()}
		f := newFixtureWithStore(t, blobs)
		blobs.failKey = store.KeyNotifications

		_, err := f.svc.Register(ctx, "2", "u9")
		require.Error(t, err)
		assert.ErrorContains(t, err, "disk full")

		stored, err := f.events.FindByID(ctx, "2")
		require.NoError(t, err)
		assert.False(t, stored.IsRegistered("u9"))
		notes, _ := f.notes.ListNotifications(ctx, "u9")
		assert.Empty(t, notes)

		blobs.failKey = ""
		event, err := f.svc.Register(ctx, "2", "u9")
		require.NoError(t, err)
		assert.True(t, event.IsRegistered("u9"))
		notes, _ = f.notes.ListNotifications(ctx, "u9")
		assert.Len(t, notes, 1)
	})

	t.Run("certificate not stored on toggle", func(t *testing.T) {
		blobs := &failingStore{Store: store.NewMemoryStore()}
		f := newFixtureWithStore(t, blobs)
		blobs.failKey = store.KeyCertificates

		_, err := f.svc.ToggleCheckIn(ctx, "1", "u1")
		require.Error(t, err)

		stored, err := f.events.FindByID(ctx, "1")
		require.NoError(t, err)
		assert.False(t, stored.IsCheckedIn("u1"))
		assert.True(t, stored.IsRegistered("u1"))
	})

	t.Run("certificate not stored on self check-in", func(t *testing.T) {
		blobs := &failingStore{Store: store.NewMemoryStore()}
		f := newFixtureWithStore(t, blobs)
		blobs.failKey = store.KeyCertificates

		_, err := f.svc.CheckIn(ctx, "1", "u1", CheckInRequest{})
		require.Error(t, err)

		stored, err := f.events.FindByID(ctx, "1")
		require.NoError(t, err)
		assert.False(t, stored.IsCheckedIn("u1"))
		certs, _ := f.certs.ListCertificates(ctx, "u1")
		assert.Empty(t, certs)
	})
}

func TestEventService_SideEffectsGoThroughServices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notes := &countingNotifier{NotificationService: f.notes}
	certs := &countingIssuer{CertificateService: f.certs}
	svc := f.svc.(*eventService)
	svc.notifier = notes
	svc.issuer = certs

	_, err := f.svc.Register(ctx, "2", "u1")
	require.NoError(t, err)
	_, err = f.svc.ToggleCheckIn(ctx, "2", "u1")
	require.NoError(t, err)
	_, err = f.svc.ToggleCheckIn(ctx, "2", "u1")
	require.NoError(t, err)
	_, err = f.svc.ToggleCheckIn(ctx, "2", "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, notes.calls)
	assert.Equal(t, 2, certs.calls)

	issued, err := f.certs.ListCertificates(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, issued, 1)
	assert.Equal(t, "2", issued[0].EventID)
}

type countingNotifier struct {
	NotificationService
	calls int
}

func (n *countingNotifier) notifyLocked(ctx context.Context, userID, title, message string, severity model.Severity) (*model.Notification, error) {
	n.calls++
	return n.NotificationService.notifyLocked(ctx, userID, title, message, severity)
}

type countingIssuer struct {
	CertificateService
	calls int
}

func (i *countingIssuer) issueLocked(ctx context.Context, cert *model.Certificate) (bool, error) {
	i.calls++
	return i.CertificateService.issueLocked(ctx, cert)
}

func TestEventService_RegisterIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEvent(t, "e", 10)

	var wg sync.WaitGroup
	var mu sync.Mutex
	full := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Register(ctx, "e", fmt.Sprintf("user-%d", i))
			if errors.Is(err, errors.ErrCapacityExceeded) {
				mu.Lock()
				full++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	stored, err := f.events.FindByID(ctx, "e")
	require.NoError(t, err)
	assert.Len(t, stored.Registrations, 10)
	assert.Equal(t, 15, full)
}

func TestEventService_Unregister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleCheckIn(ctx, "1", "u1")
	require.NoError(t, err)
	_, err = f.svc.ToggleReminder(ctx, "1", "u1")
	require.NoError(t, err)

	event, err := f.svc.Unregister(ctx, "1", "u1")
	require.NoError(t, err)
	assert.Empty(t, event.Registrations)
	assert.Empty(t, event.CheckedIn)
	assert.Empty(t, event.Reminders)

	_, err = f.svc.Unregister(ctx, "1", "u1")
	assert.NoError(t, err)

	_, err = f.svc.Unregister(ctx, "missing", "u1")
	assert.ErrorIs(t, err, errors.ErrEventNotFound)
}

func TestEventService_ToggleCheckIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ToggleCheckIn(ctx, "2", "u1")
	assert.ErrorIs(t, err, errors.ErrNotRegistered)

	event, err := f.svc.ToggleCheckIn(ctx, "1", "u1")
	require.NoError(t, err)
	assert.True(t, event.IsCheckedIn("u1"))

	certs, _ := f.certificates.ListByUser(ctx, "u1")
	require.Len(t, certs, 1)
	assert.Equal(t, "1", certs[0].EventID)
	assert.Equal(t, event.Title, certs[0].EventTitle)
	assert.Equal(t, event.Organizer, certs[0].Issuer)
	assert.Equal(t, fixedNow, certs[0].IssuedAt)

	event, err = f.svc.ToggleCheckIn(ctx, "1", "u1")
	require.NoError(t, err)
	assert.False(t, event.IsCheckedIn("u1"))
	assert.True(t, event.IsRegistered("u1"))

	_, err = f.svc.ToggleCheckIn(ctx, "1", "u1")
	require.NoError(t, err)

	certs, _ = f.certificates.ListByUser(ctx, "u1")
	assert.Len(t, certs, 1, "certificates are issued once and never revoked")
}

func TestEventService_ToggleReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event, err := f.svc.ToggleReminder(ctx, "2", "u1")
	require.NoError(t, err)
	assert.True(t, event.HasReminder("u1"))

	event, err = f.svc.ToggleReminder(ctx, "2", "u1")
	require.NoError(t, err)
	assert.False(t, event.HasReminder("u1"))

	_, err = f.svc.ToggleReminder(ctx, "missing", "u1")
	assert.ErrorIs(t, err, errors.ErrEventNotFound)
}

func TestEventService_CheckIn(t *testing.T) {
	ctx := context.Background()
	venue := model.Coordinates{Lat: 12.9716, Lng: 77.5946}

	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		_, err := f.svc.SaveEvent(ctx, &model.Event{
			ID:          "geo",
			Title:       "Field Day",
			Date:        fixedNow.Add(time.Hour),
			Location:    "Sports Complex",
			Coordinates: &venue,
			Category:    model.CategorySports,
			Organizer:   "Sports Council",
			Capacity:    10,
		})
		require.NoError(t, err)
		_, err = f.svc.Register(ctx, "geo", "u1")
		require.NoError(t, err)
		return f
	}

	t.Run("not registered", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.CheckIn(ctx, "geo", "u2", CheckInRequest{Location: &venue})
		assert.ErrorIs(t, err, errors.ErrNotRegistered)
	})

	t.Run("photo rejected", func(t *testing.T) {
		f := setup(t)
		f.verifier.On("VerifyAttendance", mock.Anything, "selfie").
			Return(content.Verification{Verified: false, Reason: "no event visible"})

		_, err := f.svc.CheckIn(ctx, "geo", "u1", CheckInRequest{Location: &venue, PhotoBase64: "selfie"})
		assert.ErrorIs(t, err, errors.ErrAttendanceRejected)
		assert.ErrorContains(t, err, "no event visible")
	})

	t.Run("outside geofence", func(t *testing.T) {
		f := setup(t)
		far := model.Coordinates{Lat: venue.Lat + 0.1, Lng: venue.Lng}
		_, err := f.svc.CheckIn(ctx, "geo", "u1", CheckInRequest{Location: &far})
		assert.ErrorIs(t, err, errors.ErrOutsideGeofence)

		_, err = f.svc.CheckIn(ctx, "geo", "u1", CheckInRequest{})
		assert.ErrorIs(t, err, errors.ErrOutsideGeofence)
	})

	t.Run("verified and nearby", func(t *testing.T) {
		f := setup(t)
		f.verifier.On("VerifyAttendance", mock.Anything, "selfie").
			Return(content.Verification{Verified: true, Reason: "crowd and stage visible"})
		near := model.Coordinates{Lat: venue.Lat + 0.0005, Lng: venue.Lng}

		event, err := f.svc.CheckIn(ctx, "geo", "u1", CheckInRequest{Location: &near, PhotoBase64: "selfie"})
		require.NoError(t, err)
		assert.True(t, event.IsCheckedIn("u1"))

		event, err = f.svc.CheckIn(ctx, "geo", "u1", CheckInRequest{Location: &near, PhotoBase64: "selfie"})
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, event.CheckedIn)

		certs, _ := f.certificates.ListByUser(ctx, "u1")
		assert.Len(t, certs, 1)
		f.verifier.AssertExpectations(t)
	})

	t.Run("events without coordinates skip the geofence", func(t *testing.T) {
		f := newFixture(t)
		event, err := f.svc.CheckIn(ctx, "1", "u1", CheckInRequest{})
		require.NoError(t, err)
		assert.True(t, event.IsCheckedIn("u1"))
		f.verifier.AssertNotCalled(t, "VerifyAttendance", mock.Anything, mock.Anything)
	})
}

func TestEventService_ResetAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteEvents(ctx, []string{"1", "2"}))
	_, err := f.svc.Register(ctx, "3", "u1")
	require.NoError(t, err)
	_, err = f.svc.ToggleCheckIn(ctx, "3", "u1")
	require.NoError(t, err)

	events, err := f.svc.ResetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	notes, _ := f.notes.ListNotifications(ctx, "u1")
	assert.Empty(t, notes)
	certs, _ := f.certificates.ListByUser(ctx, "u1")
	assert.Empty(t, certs)

	stored, _ := f.events.FindByID(ctx, "1")
	assert.Equal(t, []string{"u1"}, stored.Registrations)
}

func TestEventService_ClearUserData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "2", "u1")
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "2", "u2")
	require.NoError(t, err)
	_, err = f.svc.ToggleCheckIn(ctx, "2", "u1")
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearUserData(ctx, "u1"))

	events, _ := f.events.List(ctx)
	for _, e := range events {
		assert.False(t, e.IsRegistered("u1"), e.ID)
		assert.False(t, e.IsCheckedIn("u1"), e.ID)
	}
	certs, _ := f.certificates.ListByUser(ctx, "u1")
	assert.Empty(t, certs)
	notes, _ := f.notes.ListNotifications(ctx, "u1")
	assert.Empty(t, notes)

	other, _ := f.notes.ListNotifications(ctx, "u2")
	assert.Len(t, other, 1)
}

func TestEventService_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEvent(t, "tiny", 2)
	_, _ = f.svc.Register(ctx, "tiny", "u1")
	_, _ = f.svc.Register(ctx, "tiny", "u2")
	_, _ = f.svc.ToggleCheckIn(ctx, "tiny", "u1")

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, 3, stats.TotalRegistrations)
	assert.Equal(t, 1, stats.TotalCheckIns)

	for _, e := range stats.Events {
		if e.EventID == "tiny" {
			assert.Equal(t, 100, e.FillPercent)
		}
		if e.EventID == "1" {
			assert.Equal(t, 1, e.FillPercent)
		}
	}
}

func TestFillPercent(t *testing.T) {
	assert.Equal(t, 0, fillPercent(0, 30))
	assert.Equal(t, 50, fillPercent(15, 30))
	assert.Equal(t, 100, fillPercent(40, 30))
	assert.Equal(t, 100, fillPercent(1, 0))
}

func TestDistanceMeters(t *testing.T) {
	a := model.Coordinates{Lat: 0, Lng: 0}
	b := model.Coordinates{Lat: 0, Lng: 1}
	assert.InDelta(t, 111195, distanceMeters(a, b), 50)
	assert.Zero(t, distanceMeters(a, a))
}
