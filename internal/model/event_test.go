package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() Event {
	return Event{
		Title:     "Robotics Expo",
		Date:      time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC),
		Location:  "Arena SJEC",
		Category:  CategoryTechnical,
		Organizer: "Robotics Club",
		Capacity:  10,
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Event) {}},
		{name: "missing title", mutate: func(e *Event) { e.Title = "" }, wantErr: true},
		{name: "zero capacity", mutate: func(e *Event) { e.Capacity = 0 }, wantErr: true},
		{name: "negative capacity", mutate: func(e *Event) { e.Capacity = -3 }, wantErr: true},
		{name: "unknown category", mutate: func(e *Event) { e.Category = "Gaming" }, wantErr: true},
		{name: "missing date", mutate: func(e *Event) { e.Date = time.Time{} }, wantErr: true},
		{name: "missing organizer", mutate: func(e *Event) { e.Organizer = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEvent_RemoveUser(t *testing.T) {
	e := validEvent()
	e.Registrations = []string{"a", "b", "c"}
	e.CheckedIn = []string{"b"}
	e.Reminders = []string{"b", "c"}

	e.RemoveUser("b")

	assert.Equal(t, []string{"a", "c"}, e.Registrations)
	assert.Empty(t, e.CheckedIn)
	assert.Equal(t, []string{"c"}, e.Reminders)
}

func TestToggle(t *testing.T) {
	list, present := Toggle([]string{"a"}, "b")
	assert.True(t, present)
	assert.Equal(t, []string{"a", "b"}, list)

	list, present = Toggle(list, "a")
	assert.False(t, present)
	assert.Equal(t, []string{"b"}, list)
}

func TestEvent_CloneIsDeep(t *testing.T) {
	e := validEvent()
	e.Registrations = []string{"a"}
	e.Coordinates = &Coordinates{Lat: 1, Lng: 2}

	c := e.Clone()
	c.Registrations[0] = "z"
	c.Coordinates.Lat = 9

	assert.Equal(t, "a", e.Registrations[0])
	assert.Equal(t, 1.0, e.Coordinates.Lat)
}

func TestNewMapsLink(t *testing.T) {
	link, err := NewMapsLink(" Canteen ", "https://maps.app.goo.gl/AKqmYziry2dJ3KeHA")
	require.NoError(t, err)
	assert.Equal(t, VenueLinkMaps, link.Kind)
	assert.Equal(t, "Canteen", link.Title)

	_, err = NewMapsLink("", "https://example.com")
	assert.Error(t, err)

	_, err = NewMapsLink("Canteen", "not a url")
	assert.Error(t, err)

	_, err = NewMapsLink("Canteen", "ftp://example.com/x")
	assert.Error(t, err)
}

func TestVenueLink_UnmarshalJSON(t *testing.T) {
	var link VenueLink
	err := json.Unmarshal([]byte(`{"kind":"maps","title":"Melodium","uri":"https://maps.app.goo.gl/86dPd4cHdM59ijaH9"}`), &link)
	require.NoError(t, err)
	assert.Equal(t, "Melodium", link.Title)

	err = json.Unmarshal([]byte(`{"kind":"street","title":"Melodium","uri":"https://example.com"}`), &link)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"kind":"maps","title":"Melodium","uri":""}`), &link)
	assert.Error(t, err)
}

func TestVenueLinksFor(t *testing.T) {
	links := VenueLinksFor("aero club")
	require.Len(t, links, 1)
	assert.Equal(t, "Aero Club", links[0].Title)

	assert.Nil(t, VenueLinksFor("Library"))
}

func TestSeedEvents(t *testing.T) {
	events := SeedEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "Inter-College Basketball Championship", events[0].Title)
	assert.Equal(t, "Aero-Modeling Workshop", events[1].Title)
	assert.Equal(t, "Cultural Night 2024", events[2].Title)
	assert.Equal(t, []string{"u1"}, events[0].Registrations)

	for _, e := range events {
		assert.NoError(t, e.Validate(), e.Title)
		assert.NotNil(t, e.CheckedIn)
		assert.Len(t, e.VenueLinks, 1)
	}

	// Each call must hand out an independent copy.
	events[0].Registrations[0] = "changed"
	assert.Equal(t, "u1", SeedEvents()[0].Registrations[0])
}

func TestSeedUsers(t *testing.T) {
	users := SeedUsers()
	require.Len(t, users, 2)
	assert.True(t, users[0].IsAdmin())
	assert.False(t, users[1].IsAdmin())
	assert.NotEqual(t, SeedPassword, users[0].PasswordHash)
}
