package domain

import (
	"time"
)

// Emotion is a label from the fixed lexicon set.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionSadness  Emotion = "sadness"
	EmotionAnger    Emotion = "anger"
	EmotionFear     Emotion = "fear"
	EmotionSurprise Emotion = "surprise"
	EmotionNeutral  Emotion = "neutral"
)

// EmotionOrder is the lexicon declaration order. Primary-emotion
// selection and dominant-emotion tie-breaking both follow this order,
// so it must never be reordered.
var EmotionOrder = []Emotion{
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionNeutral,
}

// EmotionProfile aggregates keyword-match counts over a conversation.
// Percentages are computed over the sum of all match counts, not the
// message count: one message can contribute to several emotions.
type EmotionProfile struct {
	Counts      map[Emotion]int     `json:"counts"`
	Percentages map[Emotion]float64 `json:"percentages"`
	Dominant    Emotion             `json:"dominant"`
	PerMessage  []Emotion           `json:"per_message_labels"`
}

// SentimentLabel is the aggregate polarity band.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// SentimentTrend is the direction of the polarity regression line.
type SentimentTrend string

const (
	TrendImproving SentimentTrend = "Improving"
	TrendDeclining SentimentTrend = "Declining"
	TrendStable    SentimentTrend = "Stable"
)

// SentimentPoint is one timeline entry.
type SentimentPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Polarity     float64   `json:"polarity"`
	Subjectivity float64   `json:"subjectivity"`
	Sender       string    `json:"sender"`
}

// SentimentProfile holds aggregate sentiment over a conversation.
type SentimentProfile struct {
	AveragePolarity     float64          `json:"average_polarity"`
	AverageSubjectivity float64          `json:"average_subjectivity"`
	Label               SentimentLabel   `json:"label"`
	Trend               SentimentTrend   `json:"trend"`
	Timeline            []SentimentPoint `json:"timeline"`
}

// TermCount is a ranked term with its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TopicProfile holds the frequency-ranked vocabulary of a conversation.
type TopicProfile struct {
	TopTerms           []TermCount `json:"top_terms"`
	TopPhrases         []TermCount `json:"top_phrases"`
	VocabularySize     int         `json:"vocabulary_size"`
	FilteredTokenCount int         `json:"filtered_token_count"`
}

// TemporalProfile buckets message activity by hour and weekday.
// Tie-breaks are deterministic: the lowest hour wins, and the earliest
// weekday in Monday-first order wins.
type TemporalProfile struct {
	Hourly        map[int]int    `json:"hourly"`
	PeakHour      int            `json:"peak_hour"`
	Daily         map[string]int `json:"daily"`
	MostActiveDay string         `json:"most_active_day"`
}

// AnalysisRecord is the complete one-shot analysis of a conversation.
// Created once per run and read-only afterwards.
type AnalysisRecord struct {
	Emotions     EmotionProfile   `json:"emotions"`
	Sentiment    SentimentProfile `json:"sentiment"`
	Topics       TopicProfile     `json:"topics"`
	Temporal     TemporalProfile  `json:"temporal_patterns"`
	MessageCount int              `json:"message_count"`
	Summary      string           `json:"summary"`
}
