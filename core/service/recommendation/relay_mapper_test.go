package recommendation

import (
	"math"
	"testing"

	"relay_server/core/domain"
)

func TestFeatureTargetFallsBackToNeutral(t *testing.T) {
	m := NewMapper()

	target := m.FeatureTarget(domain.Emotion("confusion"))
	want := emotionFeatureTargets[domain.EmotionNeutral]

	if len(target) != len(want) {
		t.Fatalf("target has %d features, want %d", len(target), len(want))
	}
	if target[FeatureValence] != want[FeatureValence] {
		t.Errorf("valence range = %+v, want %+v", target[FeatureValence], want[FeatureValence])
	}
}

func TestGenreSuggestionsLimit(t *testing.T) {
	m := NewMapper()

	genres := m.GenreSuggestions(domain.EmotionJoy, 3)
	if len(genres) != 3 {
		t.Fatalf("got %d genres, want 3", len(genres))
	}
	if genres[0] != "pop" {
		t.Errorf("first suggestion = %q, want pop", genres[0])
	}

	all := m.GenreSuggestions(domain.EmotionJoy, 0)
	if len(all) != len(emotionGenres[domain.EmotionJoy]) {
		t.Errorf("limit 0 returned %d genres, want the full table", len(all))
	}
}

func TestTargetParams(t *testing.T) {
	m := NewMapper()

	params := m.TargetParams(domain.EmotionJoy, 0.5)

	if got, want := params.Valence, 0.75; math.Abs(got-want) > 1e-9 {
		t.Errorf("valence = %f, want %f", got, want)
	}
	// Joy energy range is (0.5, 0.9); the target is its midpoint.
	if got, want := params.Energy, 0.7; math.Abs(got-want) > 1e-9 {
		t.Errorf("energy = %f, want %f", got, want)
	}
}

func TestAudioTargetsBlendsValence(t *testing.T) {
	m := NewMapper()

	targets := m.AudioTargets(domain.EmotionSadness, -0.5)

	// Sadness valence midpoint 0.2, sentiment valence 0.25:
	// 0.2*0.7 + 0.25*0.3 = 0.215.
	if got, want := targets[FeatureValence], 0.215; math.Abs(got-want) > 1e-9 {
		t.Errorf("valence target = %f, want %f", got, want)
	}
	if got, want := targets[FeatureEnergy], 0.35; math.Abs(got-want) > 1e-9 {
		t.Errorf("energy target = %f, want %f", got, want)
	}
	if got, want := targets[FeatureTempo], 80.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("tempo target = %f, want %f", got, want)
	}
}

func TestMoodDescriptionBands(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		name     string
		emotion  domain.Emotion
		polarity float64
		want     string
	}{
		{"joy high", domain.EmotionJoy, 0.8, "ecstatic and euphoric"},
		{"joy medium", domain.EmotionJoy, 0.5, "happy and upbeat"},
		{"joy low", domain.EmotionJoy, 0.1, "contentedly cheerful"},
		{"sadness high negative", domain.EmotionSadness, -0.7, "deeply melancholic"},
		{"neutral zero", domain.EmotionNeutral, 0, "calmly centered"},
		{"unknown emotion", domain.Emotion("confusion"), 0.5, "casually relaxed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MoodDescription(tt.emotion, tt.polarity); got != tt.want {
				t.Errorf("MoodDescription(%s, %f) = %q, want %q", tt.emotion, tt.polarity, got, tt.want)
			}
		})
	}
}
