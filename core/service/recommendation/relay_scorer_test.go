package recommendation

import (
	"math"
	"strings"
	"testing"

	"relay_server/core/domain"
)

func track(id string, popularity int, features map[string]float64) domain.CandidateTrack {
	return domain.CandidateTrack{
		ID:            id,
		Name:          "track " + id,
		Artist:        "artist",
		Popularity:    popularity,
		AudioFeatures: features,
	}
}

func TestPopularitySweetSpotScoresExactlyOne(t *testing.T) {
	if got := popularityFit(60, nil); got != 1.0 {
		t.Errorf("popularityFit(60, nil) = %f, want exactly 1.0", got)
	}
}

func TestPopularityWithoutPreferenceDegradesLinearly(t *testing.T) {
	tests := []struct {
		popularity int
		want       float64
	}{
		{60, 1.0},
		{0, 0.0},
		{30, 0.5},
		{90, 0.5},
		{100, 1 - 40.0/60.0},
	}
	for _, tt := range tests {
		if got := popularityFit(tt.popularity, nil); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("popularityFit(%d, nil) = %f, want %f", tt.popularity, got, tt.want)
		}
	}
}

func TestPopularityAgainstPreferenceRange(t *testing.T) {
	r := &domain.PopularityRange{Min: 40, Max: 80}

	if got := popularityFit(60, r); got != 1.0 {
		t.Errorf("in-range popularity = %f, want 1.0", got)
	}
	if got := popularityFit(10, r); got != 0.5 {
		t.Errorf("out-of-range popularity = %f, want 0.5", got)
	}
}

func TestHighValenceAgainstSadnessIsPenalized(t *testing.T) {
	// Sadness targets valence (0.0, 0.4); 0.9 lies well above it.
	fit := rangeFit(0.9, domain.FeatureRange{Min: 0.0, Max: 0.4})

	if fit >= 1.0 {
		t.Fatalf("fit = %f, want strictly below 1.0", fit)
	}
	if fit < 0 {
		t.Fatalf("fit = %f, want non-negative", fit)
	}
	// distance = (0.9-0.4)/0.4 in range widths, more than a full
	// width out, so the fit floors at 0.
	if fit != 0 {
		t.Errorf("fit = %f, want 0.0", fit)
	}
}

func TestRangeFitEdges(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		r     domain.FeatureRange
		want  float64
	}{
		{"inside", 0.5, domain.FeatureRange{Min: 0.4, Max: 0.6}, 1.0},
		{"at min", 0.4, domain.FeatureRange{Min: 0.4, Max: 0.6}, 1.0},
		{"at max", 0.6, domain.FeatureRange{Min: 0.4, Max: 0.6}, 1.0},
		{"below zero-min range", 0.0, domain.FeatureRange{Min: 0.0, Max: 0.4}, 1.0},
		{"at unit max", 1.0, domain.FeatureRange{Min: 0.6, Max: 1.0}, 1.0},
		{"quarter width above", 1.1, domain.FeatureRange{Min: 0.6, Max: 1.0}, 0.75},
		{"quarter width below", -0.1, domain.FeatureRange{Min: 0.0, Max: 0.4}, 0.75},
		{"far below", 0.1, domain.FeatureRange{Min: 0.8, Max: 0.9}, 0.0},
		{"point range match", 1.0, domain.FeatureRange{Min: 1.0, Max: 1.0}, 1.0},
		{"point range miss", 0.0, domain.FeatureRange{Min: 1.0, Max: 1.0}, 0.0},
		{"tempo far above", 220, domain.FeatureRange{Min: 100, Max: 150}, 0.0},
		{"loudness far below", -20, domain.FeatureRange{Min: -5, Max: 0}, 0.0},
		{"loudness near miss", -6, domain.FeatureRange{Min: -5, Max: 0}, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rangeFit(tt.value, tt.r); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("rangeFit(%f, %+v) = %f, want %f", tt.value, tt.r, got, tt.want)
			}
		})
	}
}

func TestScoreStaysBoundedForOutOfScaleFeatures(t *testing.T) {
	scorer := NewScorer(NewMapper())

	// Tempo and loudness arrive on their native scales (BPM, dB), so
	// real catalog tracks routinely land far outside every emotion's
	// target ranges. Scores must stay inside [0, 1] regardless.
	scored := scorer.Score([]domain.CandidateTrack{
		track("quiet", 60, map[string]float64{FeatureLoudness: -20}),
		track("fast", 60, map[string]float64{FeatureTempo: 220}),
		track("both", 60, map[string]float64{FeatureLoudness: -20, FeatureTempo: 220}),
	}, domain.EmotionAnger, nil)

	for _, rec := range scored {
		if rec.RelevanceScore < 0 || rec.RelevanceScore > 1 {
			t.Errorf("%s relevance = %f, want within [0, 1]", rec.ID, rec.RelevanceScore)
		}
		if rec.EmotionMatchScore == nil {
			t.Fatalf("%s emotion match score is nil", rec.ID)
		}
		if *rec.EmotionMatchScore < 0 || *rec.EmotionMatchScore > 1 {
			t.Errorf("%s emotion match = %f, want within [0, 1]", rec.ID, *rec.EmotionMatchScore)
		}
	}
}

func TestFeaturelessCandidateScoresFlatDefault(t *testing.T) {
	scorer := NewScorer(NewMapper())

	scored := scorer.Score([]domain.CandidateTrack{track("bare", 60, nil)}, domain.EmotionJoy, nil)
	if len(scored) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(scored))
	}

	rec := scored[0]
	if rec.RelevanceScore != 0.5 {
		t.Errorf("relevance = %f, want exactly 0.5", rec.RelevanceScore)
	}
	if rec.AudioFeatures == nil || len(rec.AudioFeatures) != 0 {
		t.Errorf("audio features = %v, want empty non-nil map", rec.AudioFeatures)
	}
	if rec.EmotionMatchScore != nil {
		t.Errorf("emotion match score = %v, want nil", *rec.EmotionMatchScore)
	}
}

func TestScoreOrdersByDescendingRelevance(t *testing.T) {
	scorer := NewScorer(NewMapper())

	joyPerfect := map[string]float64{
		FeatureValence:      0.8,
		FeatureEnergy:       0.7,
		FeatureDanceability: 0.7,
		FeatureTempo:        120,
		FeatureAcousticness: 0.2,
		FeatureMode:         1,
	}
	joyPoor := map[string]float64{
		FeatureValence:      0.1,
		FeatureEnergy:       0.1,
		FeatureDanceability: 0.1,
		FeatureTempo:        60,
		FeatureAcousticness: 0.9,
		FeatureMode:         0,
	}

	scored := scorer.Score([]domain.CandidateTrack{
		track("poor", 60, joyPoor),
		track("perfect", 60, joyPerfect),
		track("bare", 60, nil),
	}, domain.EmotionJoy, nil)

	if scored[0].ID != "perfect" {
		t.Fatalf("top recommendation = %s, want perfect", scored[0].ID)
	}
	if math.Abs(scored[0].RelevanceScore-1.0) > 1e-9 {
		t.Errorf("perfect in-range candidate relevance = %f, want 1.0", scored[0].RelevanceScore)
	}
	for i := 1; i < len(scored); i++ {
		if scored[i].RelevanceScore > scored[i-1].RelevanceScore {
			t.Errorf("order violated at %d: %f > %f", i, scored[i].RelevanceScore, scored[i-1].RelevanceScore)
		}
	}
}

func TestScoreStableOnTies(t *testing.T) {
	scorer := NewScorer(NewMapper())

	scored := scorer.Score([]domain.CandidateTrack{
		track("first", 60, nil),
		track("second", 60, nil),
		track("third", 60, nil),
	}, domain.EmotionJoy, nil)

	for i, want := range []string{"first", "second", "third"} {
		if scored[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, scored[i].ID, want)
		}
	}
}

func TestReasonBands(t *testing.T) {
	scorer := NewScorer(NewMapper())

	perfect := map[string]float64{
		FeatureValence:      0.8,
		FeatureEnergy:       0.7,
		FeatureDanceability: 0.7,
		FeatureTempo:        120,
		FeatureAcousticness: 0.2,
		FeatureMode:         1,
	}
	scored := scorer.Score([]domain.CandidateTrack{track("a", 60, perfect)}, domain.EmotionJoy, nil)

	reason := scored[0].Reason
	if !strings.Contains(reason, "Perfect") {
		t.Errorf("reason = %q, want a Perfect band", reason)
	}
	if !strings.Contains(reason, "upbeat and positive vibe") {
		t.Errorf("reason = %q, want the high-valence joy note", reason)
	}
}
