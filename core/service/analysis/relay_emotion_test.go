package analysis

import (
	"math"
	"testing"
	"time"

	"relay_server/core/domain"
)

func msgs(contents ...string) []domain.Message {
	out := make([]domain.Message, len(contents))
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	for i, c := range contents {
		out[i] = domain.Message{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Sender:    "Alex",
			Content:   c,
			Direction: domain.DirectionReceived,
		}
	}
	return out
}

func TestClassifyMessage(t *testing.T) {
	classifier := NewEmotionClassifier()

	tests := []struct {
		name        string
		content     string
		wantPrimary domain.Emotion
	}{
		{
			name:        "joy keyword",
			content:     "I'm so happy today!",
			wantPrimary: domain.EmotionJoy,
		},
		{
			name:        "no keyword falls back to neutral",
			content:     "see you at the station",
			wantPrimary: domain.EmotionNeutral,
		},
		{
			name:    "first lexicon emotion wins over later match",
			content: "love it but also kind of sad",
			// joy is declared before sadness, so joy is primary even
			// though both match.
			wantPrimary: domain.EmotionJoy,
		},
		{
			name:        "emoji match",
			content:     "that movie 😭",
			wantPrimary: domain.EmotionSadness,
		},
		{
			name:        "anger keyword",
			content:     "so annoyed right now",
			wantPrimary: domain.EmotionAnger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, counts := classifier.ClassifyMessage(tt.content)
			if primary != tt.wantPrimary {
				t.Errorf("primary = %s, want %s", primary, tt.wantPrimary)
			}
			if len(counts) == 0 {
				t.Error("counts is empty, want at least one entry")
			}
		})
	}
}

func TestClassifyMessageNeutralCountsOnce(t *testing.T) {
	classifier := NewEmotionClassifier()

	_, counts := classifier.ClassifyMessage("see you tomorrow")
	if counts[domain.EmotionNeutral] != 1 {
		t.Errorf("neutral count = %d, want 1", counts[domain.EmotionNeutral])
	}
	if len(counts) != 1 {
		t.Errorf("counts has %d entries, want 1", len(counts))
	}
}

func TestEmotionProfileAllJoy(t *testing.T) {
	classifier := NewEmotionClassifier()

	profile := classifier.Profile(msgs(
		"I'm so happy today!",
		"lol that's hilarious",
		"feeling great",
	))

	if profile.Dominant != domain.EmotionJoy {
		t.Errorf("dominant = %s, want joy", profile.Dominant)
	}
	if got := profile.Percentages[domain.EmotionJoy]; math.Abs(got-100) > 1e-9 {
		t.Errorf("joy percentage = %f, want 100", got)
	}
	if len(profile.PerMessage) != 3 {
		t.Fatalf("per-message labels = %d, want 3", len(profile.PerMessage))
	}
	for i, label := range profile.PerMessage {
		if label != domain.EmotionJoy {
			t.Errorf("message %d label = %s, want joy", i, label)
		}
	}
}

func TestEmotionProfilePercentagesSumTo100(t *testing.T) {
	classifier := NewEmotionClassifier()

	profile := classifier.Profile(msgs(
		"so happy and excited",
		"this is sad",
		"whatever",
		"omg wow",
	))

	var sum float64
	for _, pct := range profile.Percentages {
		sum += pct
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Errorf("percentages sum = %f, want 100", sum)
	}
}

func TestEmotionProfileDominantTieBreak(t *testing.T) {
	classifier := NewEmotionClassifier()

	// One sadness match and one anger match: sadness is declared
	// earlier in the lexicon so it must win the tie.
	profile := classifier.Profile(msgs("feeling down", "so mad"))
	if profile.Dominant != domain.EmotionSadness {
		t.Errorf("dominant = %s, want sadness on tie", profile.Dominant)
	}
}

func TestEmotionProfileMultiEmotionDenominator(t *testing.T) {
	classifier := NewEmotionClassifier()

	// "happy" (joy) and "sad" (sadness) in one message: both counts and
	// the denominator grow, so neither percentage is 100.
	profile := classifier.Profile(msgs("happy but sad"))
	if profile.Counts[domain.EmotionJoy] != 1 || profile.Counts[domain.EmotionSadness] != 1 {
		t.Fatalf("counts = %v, want joy:1 sadness:1", profile.Counts)
	}
	if got := profile.Percentages[domain.EmotionJoy]; math.Abs(got-50) > 1e-9 {
		t.Errorf("joy percentage = %f, want 50", got)
	}
}
