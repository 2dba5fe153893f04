package model

import (
	"fmt"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Category classifies an event.
type Category string

const (
	CategoryWorkshop  Category = "Workshop"
	CategorySeminar   Category = "Seminar"
	CategoryCultural  Category = "Cultural"
	CategorySports    Category = "Sports"
	CategoryTechnical Category = "Technical"
)

// Categories lists every valid event category.
var Categories = []Category{
	CategoryWorkshop,
	CategorySeminar,
	CategoryCultural,
	CategorySports,
	CategoryTechnical,
}

// Coordinates is a point used for geofenced check-in.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Event is a campus event together with its registration state.
// CheckedIn is expected to be a subset of Registrations.
type Event struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	AISummary     string       `json:"ai_summary,omitempty"`
	Date          time.Time    `json:"date"`
	Location      string       `json:"location"`
	Coordinates   *Coordinates `json:"coordinates,omitempty"`
	VenueLinks    []VenueLink  `json:"venue_links,omitempty"`
	Category      Category     `json:"category"`
	Organizer     string       `json:"organizer"`
	Capacity      int          `json:"capacity"`
	ImageURL      string       `json:"image_url,omitempty"`
	Registrations []string     `json:"registrations"`
	CheckedIn     []string     `json:"checked_in"`
	Reminders     []string     `json:"reminders"`
}

// Validate checks the admin-editable fields of an event.
func (e *Event) Validate() error {
	return validation.ValidateStruct(
		e,
		validation.Field(&e.Title, validation.Required, validation.Length(2, 120)),
		validation.Field(&e.Description, validation.Length(0, 2000)),
		validation.Field(&e.Location, validation.Required),
		validation.Field(&e.Organizer, validation.Required),
		validation.Field(&e.Category, validation.Required, validation.By(validCategory)),
		validation.Field(&e.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&e.Date, validation.By(nonZeroTime)),
	)
}

func validCategory(value interface{}) error {
	c, _ := value.(Category)
	if !slices.Contains(Categories, c) {
		return fmt.Errorf("must be one of %v", Categories)
	}
	return nil
}

func nonZeroTime(value interface{}) error {
	t, _ := value.(time.Time)
	if t.IsZero() {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}

// IsRegistered reports whether userID holds a registration.
func (e *Event) IsRegistered(userID string) bool {
	return slices.Contains(e.Registrations, userID)
}

// IsCheckedIn reports whether userID has been checked in.
func (e *Event) IsCheckedIn(userID string) bool {
	return slices.Contains(e.CheckedIn, userID)
}

// HasReminder reports whether userID opted into the 24h reminder.
func (e *Event) HasReminder(userID string) bool {
	return slices.Contains(e.Reminders, userID)
}

// IsFull reports whether no seat is left.
func (e *Event) IsFull() bool {
	return len(e.Registrations) >= e.Capacity
}

// RemoveUser drops userID from registrations, check-ins and reminders.
func (e *Event) RemoveUser(userID string) {
	e.Registrations = without(e.Registrations, userID)
	e.CheckedIn = without(e.CheckedIn, userID)
	e.Reminders = without(e.Reminders, userID)
}

// Normalize replaces nil membership lists with empty ones so they
// serialise as [] rather than null.
func (e *Event) Normalize() {
	if e.Registrations == nil {
		e.Registrations = []string{}
	}
	if e.CheckedIn == nil {
		e.CheckedIn = []string{}
	}
	if e.Reminders == nil {
		e.Reminders = []string{}
	}
}

// Clone returns a deep copy of the event.
func (e Event) Clone() Event {
	out := e
	if e.Coordinates != nil {
		c := *e.Coordinates
		out.Coordinates = &c
	}
	out.VenueLinks = slices.Clone(e.VenueLinks)
	out.Registrations = slices.Clone(e.Registrations)
	out.CheckedIn = slices.Clone(e.CheckedIn)
	out.Reminders = slices.Clone(e.Reminders)
	out.Normalize()
	return out
}

// Toggle flips the membership of id in list and reports whether id is
// present afterwards.
func Toggle(list []string, id string) ([]string, bool) {
	if slices.Contains(list, id) {
		return without(list, id), false
	}
	return append(list, id), true
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
