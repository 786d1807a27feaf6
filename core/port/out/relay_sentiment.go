package out

import "context"

// SentimentScore is one text's polarity and subjectivity.
type SentimentScore struct {
	Polarity     float64 `json:"polarity"`     // -1 (negative) .. 1 (positive)
	Subjectivity float64 `json:"subjectivity"` // 0 (objective) .. 1 (subjective)
}

// SentimentProvider is the outbound port for the external text
// sentiment capability. Implementations are expected to behave as pure
// functions of the text: deterministic and side-effect free.
type SentimentProvider interface {
	Analyze(ctx context.Context, text string) (SentimentScore, error)
}
