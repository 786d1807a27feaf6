package analysis

import (
	"context"
	"math"

	"relay_server/core/domain"
	"relay_server/core/port/out"
	"relay_server/pkg/logger"
)

// Trend thresholds on the least-squares slope of polarity vs index.
const (
	trendImprovingSlope = 0.01
	trendDecliningSlope = -0.01
)

// SentimentEstimator aggregates per-message sentiment from the external
// sentiment provider. The pipeline performs no retries: a failed call
// degrades to a zero score for that message.
type SentimentEstimator struct {
	provider out.SentimentProvider
}

// NewSentimentEstimator creates an estimator over the given provider.
func NewSentimentEstimator(provider out.SentimentProvider) *SentimentEstimator {
	return &SentimentEstimator{provider: provider}
}

// Profile scores every message and aggregates polarity/subjectivity.
func (e *SentimentEstimator) Profile(ctx context.Context, messages []domain.Message) domain.SentimentProfile {
	timeline := make([]domain.SentimentPoint, 0, len(messages))
	polarities := make([]float64, 0, len(messages))

	var polaritySum, subjectivitySum float64
	for _, msg := range messages {
		score, err := e.provider.Analyze(ctx, msg.Content)
		if err != nil {
			// Collaborator failure is terminal for this call only.
			logger.WithError(err).Warn("sentiment provider failed, scoring message neutral")
			score = out.SentimentScore{}
		}

		timeline = append(timeline, domain.SentimentPoint{
			Timestamp:    msg.Timestamp,
			Polarity:     score.Polarity,
			Subjectivity: score.Subjectivity,
			Sender:       msg.Sender,
		})
		polarities = append(polarities, score.Polarity)
		polaritySum += score.Polarity
		subjectivitySum += score.Subjectivity
	}

	n := float64(len(messages))
	avgPolarity, avgSubjectivity := 0.0, 0.0
	if n > 0 {
		avgPolarity = round3(polaritySum / n)
		avgSubjectivity = round3(subjectivitySum / n)
	}

	label := domain.SentimentNeutral
	switch {
	case avgPolarity > 0.1:
		label = domain.SentimentPositive
	case avgPolarity < -0.1:
		label = domain.SentimentNegative
	}

	return domain.SentimentProfile{
		AveragePolarity:     avgPolarity,
		AverageSubjectivity: avgSubjectivity,
		Label:               label,
		Trend:               polarityTrend(polarities),
		Timeline:            timeline,
	}
}

// polarityTrend fits an ordinary least-squares line of polarity against
// message index. Fewer than 2 points is Stable by definition.
func polarityTrend(polarities []float64) domain.SentimentTrend {
	n := len(polarities)
	if n < 2 {
		return domain.TrendStable
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range polarities {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return domain.TrendStable
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	switch {
	case slope > trendImprovingSlope:
		return domain.TrendImproving
	case slope < trendDecliningSlope:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
