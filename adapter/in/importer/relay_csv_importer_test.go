package importer

import (
	"strings"
	"testing"

	"relay_server/core/domain"
)

const sampleCSV = `Type,Date,Name / Number,Sender,Content
Received,1/2/2024 09:15,Alex (A-Money) (+17185551234),Alex,Morning! Want to grab pizza later?
Sent,1/2/2024 09:17,Alex (A-Money) (+17185551234),,Sounds great
Received,1/2/2024 08:55,Alex (A-Money) (+17185551234),Alex,You up yet?
`

func TestParseSortsAndExtractsContact(t *testing.T) {
	conv, err := NewCSVImporter().Parse("chat.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if conv.ContactName != "Alex (A-Money)" {
		t.Errorf("contact name = %q, want Alex (A-Money)", conv.ContactName)
	}
	if conv.ContactPhone != "+17185551234" {
		t.Errorf("contact phone = %q, want +17185551234", conv.ContactPhone)
	}

	if len(conv.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(conv.Messages))
	}
	for i := 1; i < len(conv.Messages); i++ {
		if conv.Messages[i].Timestamp.Before(conv.Messages[i-1].Timestamp) {
			t.Errorf("messages not sorted at index %d", i)
		}
	}
	if conv.Messages[0].Content != "You up yet?" {
		t.Errorf("first message = %q, want the earliest", conv.Messages[0].Content)
	}
}

func TestParseDirectionsAndSenders(t *testing.T) {
	conv, err := NewCSVImporter().Parse("chat.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var sent, received int
	for _, m := range conv.Messages {
		switch m.Direction {
		case domain.DirectionSent:
			sent++
			if m.Sender != "You" {
				t.Errorf("sent message sender = %q, want You", m.Sender)
			}
		case domain.DirectionReceived:
			received++
		}
	}
	if sent != 1 || received != 2 {
		t.Errorf("sent=%d received=%d, want 1 and 2", sent, received)
	}

	stats := conv.Stats
	if stats.TotalMessages != 3 || stats.SentCount != 1 || stats.ReceivedCount != 2 {
		t.Errorf("stats = %+v, want totals 3/1/2", stats)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	csv := strings.Join([]string{
		"Type,Date,Name / Number,Sender,Content",
		"Received,not-a-date,Alex (+15551234567),Alex,bad timestamp",
		"Received,1/2/2024 10:00,Alex (+15551234567),Alex,",
		"Received,1/2/2024 10:05,Alex (+15551234567),Alex,still here",
	}, "\n")

	conv, err := NewCSVImporter().Parse("chat.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("got %d messages, want 1 surviving row", len(conv.Messages))
	}
	if conv.Messages[0].Content != "still here" {
		t.Errorf("message = %q, want the valid row", conv.Messages[0].Content)
	}
}

func TestParseRejectsMissingColumns(t *testing.T) {
	csv := "Type,Date,Content\nReceived,1/2/2024 10:00,hello\n"

	if _, err := NewCSVImporter().Parse("chat.csv", []byte(csv)); err == nil {
		t.Fatal("expected an error for a CSV without required columns")
	}
}

func TestParseRejectsEmptyFile(t *testing.T) {
	if _, err := NewCSVImporter().Parse("chat.csv", nil); err == nil {
		t.Fatal("expected an error for an empty file")
	}
}

func TestParseContactWithoutPhone(t *testing.T) {
	name, phone := parseContact("Mom")
	if name != "Mom" || phone != "Unknown" {
		t.Errorf("parseContact = %q/%q, want Mom/Unknown", name, phone)
	}
}
