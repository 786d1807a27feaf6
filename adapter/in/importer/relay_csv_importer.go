// Package importer parses SMS CSV exports into normalized
// conversations.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"relay_server/core/domain"
	"relay_server/pkg/apperr"
	"relay_server/pkg/logger"
)

// Expected header columns of an SMS export.
const (
	colType    = "Type"
	colDate    = "Date"
	colContact = "Name / Number"
	colSender  = "Sender"
	colContent = "Content"
)

var requiredColumns = []string{colType, colDate, colContact, colSender, colContent}

// Date layouts tried in order. Exports usually carry the first form.
var dateLayouts = []string{
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// Trailing "(+15551234567)" on the contact column.
var contactPhonePattern = regexp.MustCompile(`\((\+\d+)\)$`)

// CSVImporter parses SMS CSV exports with the columns Type, Date,
// Name / Number, Sender, Content. Malformed rows are skipped with a
// warning; only a missing or invalid header fails the import.
type CSVImporter struct{}

// NewCSVImporter creates the importer.
func NewCSVImporter() *CSVImporter {
	return &CSVImporter{}
}

// Parse reads the export and returns the sorted conversation with
// contact metadata and statistics.
func (p *CSVImporter) Parse(filename string, data []byte) (*domain.Conversation, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperr.BadRequest("empty or unreadable CSV file").WithError(err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		messages     []domain.Message
		contactName  string
		contactPhone string
		skipped      int
		rowNum       int
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			skipped++
			continue
		}

		if contactName == "" {
			contactName, contactPhone = parseContact(field(row, columns[colContact]))
		}

		msg, ok := parseRow(row, columns, contactName)
		if !ok {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}

	if skipped > 0 {
		logger.WithFields(map[string]any{
			"filename": filename,
			"rows":     rowNum,
			"skipped":  skipped,
		}).Warn("some rows could not be parsed")
	}
	if len(messages) == 0 {
		return nil, apperr.BadRequest("no parsable messages in CSV file")
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	return &domain.Conversation{
		Messages:     messages,
		ContactName:  contactName,
		ContactPhone: contactPhone,
		Stats:        buildStats(messages),
	}, nil
}

// mapColumns resolves header names to their indices and rejects files
// missing a required column.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, apperr.ValidationFailed(fmt.Sprintf("CSV is missing required column %q", name))
		}
	}
	return columns, nil
}

// parseContact splits "Alex (A-Money) (+17185551234)" into name and
// phone. Without a trailing phone the whole string is the name.
func parseContact(contact string) (name, phone string) {
	contact = strings.TrimSpace(contact)
	if m := contactPhonePattern.FindStringSubmatchIndex(contact); m != nil {
		return strings.TrimSpace(contact[:m[0]]), contact[m[2]:m[3]]
	}
	return contact, "Unknown"
}

func parseRow(row []string, columns map[string]int, contactName string) (domain.Message, bool) {
	timestamp, ok := parseDate(field(row, columns[colDate]))
	if !ok {
		return domain.Message{}, false
	}

	content := strings.TrimSpace(field(row, columns[colContent]))
	if content == "" {
		return domain.Message{}, false
	}

	direction := domain.DirectionReceived
	sender := strings.TrimSpace(field(row, columns[colSender]))
	if strings.EqualFold(field(row, columns[colType]), "Sent") {
		direction = domain.DirectionSent
		sender = "You"
	} else if sender == "" {
		sender = contactName
	}

	return domain.Message{
		Timestamp: timestamp,
		Sender:    sender,
		Content:   content,
		Direction: direction,
	}, true
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func buildStats(messages []domain.Message) domain.ConversationStats {
	total := len(messages)
	sent := 0
	contentLen := 0
	for _, m := range messages {
		if m.Direction == domain.DirectionSent {
			sent++
		}
		contentLen += len(m.Content)
	}

	start := messages[0].Timestamp
	end := messages[total-1].Timestamp
	durationDays := int(end.Sub(start).Hours() / 24)

	activeDays := durationDays
	if activeDays < 1 {
		activeDays = 1
	}

	return domain.ConversationStats{
		TotalMessages: total,
		SentCount:     sent,
		ReceivedCount: total - sent,
		StartDate:     start,
		EndDate:       end,
		DurationDays:  durationDays,
		AvgLength:     round1(float64(contentLen) / float64(total)),
		PerDay:        round1(float64(total) / float64(activeDays)),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
