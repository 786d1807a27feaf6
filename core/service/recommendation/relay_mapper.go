// Package recommendation implements the music recommendation core:
// emotion-to-feature mapping, candidate generation and relevance
// scoring.
package recommendation

import (
	"math"

	"relay_server/core/domain"
)

// Audio feature names used in target tables and candidate maps.
const (
	FeatureValence          = "valence"
	FeatureEnergy           = "energy"
	FeatureDanceability     = "danceability"
	FeatureTempo            = "tempo"
	FeatureAcousticness     = "acousticness"
	FeatureLoudness         = "loudness"
	FeatureInstrumentalness = "instrumentalness"
	FeatureMode             = "mode"
)

// emotionFeatureTargets maps each emotion to its audio feature target
// ranges. Static configuration, loaded once and shared read-only.
var emotionFeatureTargets = map[domain.Emotion]domain.AudioFeatureTarget{
	domain.EmotionJoy: {
		FeatureValence:      {Min: 0.6, Max: 1.0},
		FeatureEnergy:       {Min: 0.5, Max: 0.9},
		FeatureDanceability: {Min: 0.5, Max: 1.0},
		FeatureTempo:        {Min: 100, Max: 150},
		FeatureAcousticness: {Min: 0.0, Max: 0.5},
		FeatureMode:         {Min: 1, Max: 1},
	},
	domain.EmotionSadness: {
		FeatureValence:      {Min: 0.0, Max: 0.4},
		FeatureEnergy:       {Min: 0.2, Max: 0.5},
		FeatureDanceability: {Min: 0.0, Max: 0.4},
		FeatureTempo:        {Min: 60, Max: 100},
		FeatureAcousticness: {Min: 0.3, Max: 1.0},
		FeatureMode:         {Min: 0, Max: 0},
	},
	domain.EmotionAnger: {
		FeatureValence:          {Min: 0.0, Max: 0.5},
		FeatureEnergy:           {Min: 0.7, Max: 1.0},
		FeatureDanceability:     {Min: 0.3, Max: 0.7},
		FeatureTempo:            {Min: 120, Max: 180},
		FeatureLoudness:         {Min: -5, Max: 0},
		FeatureInstrumentalness: {Min: 0.0, Max: 0.5},
	},
	domain.EmotionFear: {
		FeatureValence:          {Min: 0.2, Max: 0.5},
		FeatureEnergy:           {Min: 0.4, Max: 0.7},
		FeatureDanceability:     {Min: 0.2, Max: 0.5},
		FeatureTempo:            {Min: 80, Max: 120},
		FeatureAcousticness:     {Min: 0.2, Max: 0.7},
		FeatureInstrumentalness: {Min: 0.0, Max: 0.6},
	},
	domain.EmotionSurprise: {
		FeatureValence:      {Min: 0.5, Max: 0.8},
		FeatureEnergy:       {Min: 0.6, Max: 0.9},
		FeatureDanceability: {Min: 0.5, Max: 0.8},
		FeatureTempo:        {Min: 110, Max: 160},
		FeatureAcousticness: {Min: 0.0, Max: 0.5},
	},
	domain.EmotionNeutral: {
		FeatureValence:      {Min: 0.4, Max: 0.6},
		FeatureEnergy:       {Min: 0.4, Max: 0.6},
		FeatureDanceability: {Min: 0.4, Max: 0.6},
		FeatureTempo:        {Min: 90, Max: 130},
		FeatureAcousticness: {Min: 0.2, Max: 0.6},
	},
}

// emotionGenres maps each emotion to its genre suggestions.
var emotionGenres = map[domain.Emotion][]string{
	domain.EmotionJoy: {
		"pop", "dance", "funk", "disco", "reggae",
		"edm", "house", "indie-pop", "summer",
	},
	domain.EmotionSadness: {
		"indie", "acoustic", "blues", "r&b", "soul",
		"singer-songwriter", "folk", "ambient", "sad",
	},
	domain.EmotionAnger: {
		"metal", "punk", "hard-rock", "rap", "hardcore",
		"dubstep", "drum-and-bass", "grunge", "rock",
	},
	domain.EmotionFear: {
		"ambient", "electronic", "instrumental", "classical",
		"downtempo", "trip-hop", "dark-ambient",
	},
	domain.EmotionSurprise: {
		"electronic", "edm", "indie", "alternative",
		"experimental", "progressive", "indie-rock",
	},
	domain.EmotionNeutral: {
		"indie", "alternative", "rock", "pop", "jazz",
		"chill", "lo-fi", "study",
	},
}

// emotionSearchTerms maps each emotion to free-text search qualifiers
// used by the genre-based strategy.
var emotionSearchTerms = map[domain.Emotion][]string{
	domain.EmotionJoy:      {"happy", "upbeat", "cheerful", "positive"},
	domain.EmotionSadness:  {"sad", "melancholy", "emotional", "heartbreak"},
	domain.EmotionAnger:    {"intense", "aggressive", "powerful", "energy"},
	domain.EmotionFear:     {"dark", "tense", "atmospheric"},
	domain.EmotionSurprise: {"exciting", "dynamic", "unexpected"},
	domain.EmotionNeutral:  {"chill", "relaxed", "calm", "smooth"},
}

// moodDescriptions maps emotion and intensity band to a human-readable
// mood phrase.
var moodDescriptions = map[domain.Emotion][3]string{
	// index 0 = low, 1 = medium, 2 = high intensity
	domain.EmotionJoy:      {"contentedly cheerful", "happy and upbeat", "ecstatic and euphoric"},
	domain.EmotionSadness:  {"wistfully contemplative", "bittersweet and reflective", "deeply melancholic"},
	domain.EmotionAnger:    {"mildly irritated", "frustrated and energetic", "intensely aggressive"},
	domain.EmotionFear:     {"cautiously aware", "nervously uncertain", "anxiously tense"},
	domain.EmotionSurprise: {"mildly curious", "pleasantly unexpected", "excitedly astonished"},
	domain.EmotionNeutral:  {"calmly centered", "casually relaxed", "balanced and steady"},
}

// Mapper translates an emotion label (plus sentiment) into audio
// feature targets and genre suggestions.
type Mapper struct{}

// NewMapper creates a mapper over the static tables.
func NewMapper() *Mapper {
	return &Mapper{}
}

// FeatureTarget returns the target ranges for an emotion, falling back
// to neutral for unknown labels.
func (m *Mapper) FeatureTarget(emotion domain.Emotion) domain.AudioFeatureTarget {
	if target, ok := emotionFeatureTargets[emotion]; ok {
		return target
	}
	return emotionFeatureTargets[domain.EmotionNeutral]
}

// GenreSuggestions returns up to limit genres for an emotion.
func (m *Mapper) GenreSuggestions(emotion domain.Emotion, limit int) []string {
	genres, ok := emotionGenres[emotion]
	if !ok {
		genres = emotionGenres[domain.EmotionNeutral]
	}
	if limit > 0 && len(genres) > limit {
		genres = genres[:limit]
	}
	return genres
}

// SearchTerms returns the free-text qualifiers for an emotion.
func (m *Mapper) SearchTerms(emotion domain.Emotion) []string {
	if terms, ok := emotionSearchTerms[emotion]; ok {
		return terms
	}
	return emotionSearchTerms[domain.EmotionNeutral]
}

// AudioTargets derives a concrete target value per audio feature: the
// midpoint of the emotion's range, except valence which blends the
// range midpoint (70%) with a sentiment-derived valence (30%).
func (m *Mapper) AudioTargets(emotion domain.Emotion, polarity float64) map[string]float64 {
	target := m.FeatureTarget(emotion)
	sentimentValence := (polarity + 1) / 2

	out := make(map[string]float64, len(target))
	for feature, r := range target {
		if feature == FeatureValence {
			out[feature] = r.Mid()*0.7 + sentimentValence*0.3
			continue
		}
		out[feature] = r.Mid()
	}
	return out
}

// TargetParams derives catalog tuning parameters for similarity
// requests: valence maps the average polarity from [-1,1] onto [0,1]
// and energy is the emotion's target-range midpoint.
func (m *Mapper) TargetParams(emotion domain.Emotion, polarity float64) domain.TargetParams {
	energy := 0.5
	if er, ok := m.FeatureTarget(emotion)[FeatureEnergy]; ok {
		energy = er.Mid()
	}
	return domain.TargetParams{
		Valence: (polarity + 1) / 2,
		Energy:  energy,
	}
}

// MoodDescription renders the mood phrase for an emotion, with the
// intensity band selected by the absolute sentiment score.
func (m *Mapper) MoodDescription(emotion domain.Emotion, polarity float64) string {
	bands, ok := moodDescriptions[emotion]
	if !ok {
		bands = moodDescriptions[domain.EmotionNeutral]
	}

	switch abs := math.Abs(polarity); {
	case abs > 0.6:
		return bands[2]
	case abs > 0.3:
		return bands[1]
	default:
		return bands[0]
	}
}
