package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one uploaded conversation tracked in Postgres. The
// analysis record and recommendation batches for a session live in
// MongoDB, keyed by the session id.
type ChatSession struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	ContactName  string    `json:"contact_name" db:"contact_name"`
	ContactPhone string    `json:"contact_phone" db:"contact_phone"`

	MessageCount  int       `json:"message_count" db:"message_count"`
	SentCount     int       `json:"sent_count" db:"sent_count"`
	ReceivedCount int       `json:"received_count" db:"received_count"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	EndDate       time.Time `json:"end_date" db:"end_date"`
	DurationDays  int       `json:"duration_days" db:"duration_days"`

	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
