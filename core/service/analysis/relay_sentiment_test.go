package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"relay_server/core/domain"
	"relay_server/core/port/out"
)

// stubProvider scores text with a fixed word table, mimicking a pure
// sentiment function.
type stubProvider struct {
	scores map[string]out.SentimentScore
	err    error
}

func (p *stubProvider) Analyze(_ context.Context, text string) (out.SentimentScore, error) {
	if p.err != nil {
		return out.SentimentScore{}, p.err
	}
	for needle, score := range p.scores {
		if strings.Contains(text, needle) {
			return score, nil
		}
	}
	return out.SentimentScore{}, nil
}

func positiveProvider() *stubProvider {
	return &stubProvider{scores: map[string]out.SentimentScore{
		"happy":     {Polarity: 0.8, Subjectivity: 0.9},
		"hilarious": {Polarity: 0.5, Subjectivity: 0.6},
		"great":     {Polarity: 0.7, Subjectivity: 0.5},
	}}
}

func TestSentimentProfilePositive(t *testing.T) {
	estimator := NewSentimentEstimator(positiveProvider())

	profile := estimator.Profile(context.Background(), msgs(
		"I'm so happy today!",
		"lol that's hilarious",
		"feeling great",
	))

	if profile.Label != domain.SentimentPositive {
		t.Errorf("label = %s, want Positive", profile.Label)
	}
	if len(profile.Timeline) != 3 {
		t.Errorf("timeline length = %d, want 3", len(profile.Timeline))
	}
	if profile.AveragePolarity <= 0.1 {
		t.Errorf("average polarity = %f, want > 0.1", profile.AveragePolarity)
	}
}

func TestSentimentSingleMessageTrendStable(t *testing.T) {
	estimator := NewSentimentEstimator(positiveProvider())

	profile := estimator.Profile(context.Background(), msgs("okay"))
	if profile.Trend != domain.TrendStable {
		t.Errorf("trend = %s, want Stable for single message", profile.Trend)
	}
	if profile.Label != domain.SentimentNeutral {
		t.Errorf("label = %s, want Neutral", profile.Label)
	}
}

func TestSentimentProviderFailureDegrades(t *testing.T) {
	estimator := NewSentimentEstimator(&stubProvider{err: errors.New("upstream down")})

	profile := estimator.Profile(context.Background(), msgs("happy", "great"))
	if profile.AveragePolarity != 0 {
		t.Errorf("average polarity = %f, want 0 on provider failure", profile.AveragePolarity)
	}
	if profile.Label != domain.SentimentNeutral {
		t.Errorf("label = %s, want Neutral", profile.Label)
	}
	if len(profile.Timeline) != 2 {
		t.Errorf("timeline length = %d, want 2", len(profile.Timeline))
	}
}

func TestPolarityTrend(t *testing.T) {
	tests := []struct {
		name       string
		polarities []float64
		want       domain.SentimentTrend
	}{
		{"improving", []float64{-0.5, 0.0, 0.5, 0.9}, domain.TrendImproving},
		{"declining", []float64{0.9, 0.4, -0.2, -0.6}, domain.TrendDeclining},
		{"flat", []float64{0.2, 0.2, 0.2, 0.2}, domain.TrendStable},
		{"single point", []float64{0.9}, domain.TrendStable},
		{"empty", nil, domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := polarityTrend(tt.polarities); got != tt.want {
				t.Errorf("polarityTrend(%v) = %s, want %s", tt.polarities, got, tt.want)
			}
		})
	}
}
