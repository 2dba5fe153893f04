package model

import "time"

// Certificate is a permanent proof of attendance, unique per (EventID, UserID).
type Certificate struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	IssuedAt   time.Time `json:"issued_at"`
	Issuer     string    `json:"issuer"`
}
