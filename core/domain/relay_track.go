package domain

// FeatureRange is an inclusive (min, max) target for one audio feature.
type FeatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Mid returns the range midpoint.
func (r FeatureRange) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// Contains reports whether v lies inside the range.
func (r FeatureRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// AudioFeatureTarget maps feature names to target ranges for one
// emotion. Static configuration data, never mutated at runtime.
type AudioFeatureTarget map[string]FeatureRange

// TargetParams are catalog-side tuning knobs derived from an emotion and
// the conversation sentiment.
type TargetParams struct {
	Valence float64 `json:"target_valence"`
	Energy  float64 `json:"target_energy"`
}

// CandidateTrack is a track returned by the catalog service before
// scoring. AudioFeatures may be empty when the feature lookup failed or
// was unavailable.
type CandidateTrack struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Artist        string             `json:"artist"`
	Album         string             `json:"album"`
	ExternalURL   string             `json:"external_url"`
	PreviewURL    string             `json:"preview_url,omitempty"`
	ImageURL      string             `json:"image_url,omitempty"`
	DurationMS    int                `json:"duration_ms"`
	Popularity    int                `json:"popularity"`
	AudioFeatures map[string]float64 `json:"audio_features,omitempty"`
	GenreSource   string             `json:"genre_source"`
	EmotionMatch  Emotion            `json:"emotion_match"`
}

// ScoredRecommendation is a candidate with its relevance scoring.
type ScoredRecommendation struct {
	CandidateTrack

	RelevanceScore    float64  `json:"relevance_score"`
	EmotionMatchScore *float64 `json:"emotion_match_score,omitempty"`
	Reason            string   `json:"reason"`
}

// SeedArtist is a catalog artist usable as a recommendation seed.
type SeedArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres,omitempty"`
}
