package analysis

import (
	"time"

	"relay_server/core/domain"
)

// weekdayOrder is the Monday-first order used for the most-active-day
// tie-break.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// TemporalProfiler buckets messages by hour-of-day and weekday.
type TemporalProfiler struct{}

// NewTemporalProfiler creates a temporal profiler.
func NewTemporalProfiler() *TemporalProfiler {
	return &TemporalProfiler{}
}

// Profile counts messages per hour and weekday. Ties are deterministic:
// the lowest hour wins, and the earliest weekday Monday through Sunday
// wins.
func (t *TemporalProfiler) Profile(messages []domain.Message) domain.TemporalProfile {
	hourly := make(map[int]int)
	daily := make(map[string]int)

	for _, msg := range messages {
		hourly[msg.Timestamp.Hour()]++
		daily[msg.Timestamp.Weekday().String()]++
	}

	peakHour, best := 0, -1
	for hour := 0; hour < 24; hour++ {
		if n, ok := hourly[hour]; ok && n > best {
			peakHour = hour
			best = n
		}
	}

	mostActive, best := "", -1
	for _, day := range weekdayOrder {
		if n, ok := daily[day.String()]; ok && n > best {
			mostActive = day.String()
			best = n
		}
	}

	return domain.TemporalProfile{
		Hourly:        hourly,
		PeakHour:      peakHour,
		Daily:         daily,
		MostActiveDay: mostActive,
	}
}
