package domain

import (
	"time"
)

// MessageDirection indicates whether a message was sent or received
// relative to the device owner.
type MessageDirection string

const (
	DirectionSent     MessageDirection = "sent"
	DirectionReceived MessageDirection = "received"
)

// Message is a single normalized chat message. Instances are produced by
// the importer and are immutable afterwards; every downstream component
// assumes the containing slice is sorted ascending by Timestamp.
type Message struct {
	Timestamp time.Time        `json:"timestamp"`
	Sender    string           `json:"sender"`
	Content   string           `json:"content"`
	Direction MessageDirection `json:"direction"`
}

// ConversationStats summarizes an imported conversation.
type ConversationStats struct {
	TotalMessages int       `json:"total_messages"`
	SentCount     int       `json:"sent_count"`
	ReceivedCount int       `json:"received_count"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DurationDays  int       `json:"duration_days"`
	AvgLength     float64   `json:"avg_message_length"`
	PerDay        float64   `json:"messages_per_day"`
}

// Conversation is the importer output: sorted messages plus contact
// metadata and basic statistics.
type Conversation struct {
	Messages     []Message         `json:"messages"`
	ContactName  string            `json:"contact_name"`
	ContactPhone string            `json:"contact_phone"`
	Stats        ConversationStats `json:"statistics"`
}
