package model

import (
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SeedPassword is the password shared by the built-in accounts.
const SeedPassword = "password"

var seedUsers = sync.OnceValue(func() []AppUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return []AppUser{
		{ID: "admin_1", Email: "admin@college.edu", PasswordHash: string(hash), Name: "Professor Oak", Role: RoleAdmin},
		{ID: "u1", Email: "student@college.edu", PasswordHash: string(hash), Name: "Ash Ketchum", Role: RoleStudent},
	}
})

// SeedUsers returns the fixed set of application users.
func SeedUsers() []AppUser {
	users := seedUsers()
	out := make([]AppUser, len(users))
	copy(out, users)
	return out
}

// SeedEvents returns a fresh copy of the default event registry.
func SeedEvents() []Event {
	events := []Event{
		{
			ID:            "1",
			Title:         "Inter-College Basketball Championship",
			Description:   "The annual slam dunk contest and championship match. Bring your team spirit!",
			Date:          time.Date(2024, time.December, 10, 9, 0, 0, 0, time.UTC),
			Location:      "Basketball Court",
			Category:      CategorySports,
			Organizer:     "Physical Education Dept",
			Capacity:      100,
			ImageURL:      "https://images.unsplash.com/photo-1546519638-68e109498ffc?q=80&w=800&auto=format&fit=crop",
			Registrations: []string{"u1"},
		},
		{
			ID:          "2",
			Title:       "Aero-Modeling Workshop",
			Description: "Learn to build and fly your first drone with the Aero Club experts.",
			Date:        time.Date(2024, time.December, 15, 10, 30, 0, 0, time.UTC),
			Location:    "Aero Club",
			Category:    CategoryTechnical,
			Organizer:   "Aero Club SJEC",
			Capacity:    30,
			ImageURL:    "https://images.unsplash.com/photo-1508614589041-895b88991e3e?q=80&w=800&auto=format&fit=crop",
		},
		{
			ID:          "3",
			Title:       "Cultural Night 2024",
			Description: "A night of music, dance, and drama at the Melodium auditorium.",
			Date:        time.Date(2024, time.December, 20, 18, 0, 0, 0, time.UTC),
			Location:    "Melodium",
			Category:    CategoryCultural,
			Organizer:   "Cultural Committee",
			Capacity:    300,
			ImageURL:    "https://images.unsplash.com/photo-1501281668745-f7f57925c3b4?q=80&w=800&auto=format&fit=crop",
		},
	}
	for i := range events {
		events[i].VenueLinks = VenueLinksFor(events[i].Location)
		events[i].Normalize()
	}
	return events
}
