package recommendation

import (
	"fmt"
	"sort"
	"strings"

	"relay_server/core/domain"
)

const (
	emotionWeight    = 0.6
	popularityWeight = 0.4

	// Score for candidates with no audio features and for the
	// popularity half when the candidate falls outside a requested
	// range.
	defaultScore = 0.5

	// Without an explicit preference, popularity peaks at 60 and
	// degrades linearly toward 0 and 100.
	popularitySweetSpot = 60
)

// Scorer computes relevance scores for candidate tracks against the
// conversation's dominant emotion and the listener's preferences.
type Scorer struct {
	mapper *Mapper
}

// NewScorer creates a scorer over the given mapper.
func NewScorer(mapper *Mapper) *Scorer {
	return &Scorer{mapper: mapper}
}

// Score scores every candidate and returns them ordered by descending
// relevance. Ordering is stable: equal scores keep input order.
func (s *Scorer) Score(candidates []domain.CandidateTrack, emotion domain.Emotion, prefs *domain.UserPreferenceProfile) []domain.ScoredRecommendation {
	target := s.mapper.FeatureTarget(emotion)
	popRange := prefs.PopularityPreference()

	scored := make([]domain.ScoredRecommendation, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, s.scoreOne(candidate, emotion, target, popRange))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

func (s *Scorer) scoreOne(candidate domain.CandidateTrack, emotion domain.Emotion, target domain.AudioFeatureTarget, popRange *domain.PopularityRange) domain.ScoredRecommendation {
	rec := domain.ScoredRecommendation{CandidateTrack: candidate}

	if len(candidate.AudioFeatures) == 0 {
		// No features, no penalty: a flat default with an empty map.
		rec.AudioFeatures = map[string]float64{}
		rec.RelevanceScore = defaultScore
		return rec
	}

	emotionScore := featureFit(candidate.AudioFeatures, target)
	popularityScore := popularityFit(candidate.Popularity, popRange)

	rec.RelevanceScore = emotionWeight*emotionScore + popularityWeight*popularityScore
	rec.EmotionMatchScore = &emotionScore
	rec.Reason = buildReason(emotion, candidate.AudioFeatures, emotionScore)
	return rec
}

// featureFit averages per-feature fit over the features present on both
// the candidate and the target table. With nothing comparable the fit
// defaults to 0.5.
func featureFit(features map[string]float64, target domain.AudioFeatureTarget) float64 {
	var sum float64
	compared := 0

	for name, r := range target {
		value, ok := features[name]
		if !ok {
			continue
		}
		sum += rangeFit(value, r)
		compared++
	}

	if compared == 0 {
		return defaultScore
	}
	return sum / float64(compared)
}

// rangeFit is 1.0 inside the range, else a linear penalty proportional
// to the distance outside it measured in range widths, floored at 0.
// Normalizing by the width keeps the fit in [0, 1] for features on any
// scale (tempo in BPM, loudness in dB).
func rangeFit(value float64, r domain.FeatureRange) float64 {
	if r.Contains(value) {
		return 1.0
	}

	width := r.Max - r.Min
	if width <= 0 {
		// Point ranges (e.g. mode) penalize by raw distance.
		width = 1
	}

	var distance float64
	if value < r.Min {
		distance = (r.Min - value) / width
	} else {
		distance = (value - r.Max) / width
	}

	if fit := 1 - distance; fit > 0 {
		return fit
	}
	return 0
}

// popularityFit scores against an explicit preference range when one
// exists, otherwise against the mainstream sweet spot.
func popularityFit(popularity int, popRange *domain.PopularityRange) float64 {
	if popRange != nil {
		if popRange.Contains(popularity) {
			return 1.0
		}
		return defaultScore
	}
	diff := float64(popularity - popularitySweetSpot)
	if diff < 0 {
		diff = -diff
	}
	return 1 - diff/popularitySweetSpot
}

// buildReason explains a recommendation from simple valence/energy
// rules plus a qualitative band on the emotion fit.
func buildReason(emotion domain.Emotion, features map[string]float64, score float64) string {
	var notes []string

	valence, hasValence := features[FeatureValence]
	energy, hasEnergy := features[FeatureEnergy]

	switch {
	case emotion == domain.EmotionJoy && hasValence && valence > 0.6:
		notes = append(notes, "upbeat and positive vibe")
	case emotion == domain.EmotionSadness && hasValence && valence < 0.4:
		notes = append(notes, "melancholic tone")
	case emotion == domain.EmotionAnger && hasEnergy && energy > 0.7:
		notes = append(notes, "high energy and intensity")
	}

	switch {
	case score > 0.8:
		if len(notes) > 0 {
			return fmt.Sprintf("Perfect match - %s", strings.Join(notes, ", "))
		}
		return "Perfect emotional match"
	case score > 0.6:
		if len(notes) > 0 {
			return fmt.Sprintf("Great match - %s", strings.Join(notes, ", "))
		}
		return "Strong emotional match"
	default:
		return "Matches your conversation's mood"
	}
}
