package model

import "time"

// Severity tags how a notification should be presented.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is a user-scoped inbox record. Only Read changes after creation.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Type      Severity  `json:"type"`
	// DedupeKey identifies notifications that must be emitted at most once
	// per user, e.g. "reminder:<eventID>".
	DedupeKey string `json:"dedupe_key,omitempty"`
}
