package recommendation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"relay_server/core/domain"
	"relay_server/core/port/out"
)

// fakeCatalog satisfies out.CatalogService with per-call hooks, so each
// test overrides only the calls it cares about.
type fakeCatalog struct {
	searchTracks    func(query string, limit int) ([]domain.CandidateTrack, error)
	searchArtists   func(query string, limit int) ([]domain.SeedArtist, error)
	audioFeatures   func(ids []string) (map[string]map[string]float64, error)
	recommendations func(seeds out.RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error)
	topArtists      func(timeRange domain.TimeRange, limit int) ([]domain.SeedArtist, error)
	topTracks       func(timeRange domain.TimeRange, limit int) ([]domain.CandidateTrack, error)
}

func (c *fakeCatalog) SearchTracks(_ context.Context, query string, limit int) ([]domain.CandidateTrack, error) {
	if c.searchTracks == nil {
		return nil, nil
	}
	return c.searchTracks(query, limit)
}

func (c *fakeCatalog) SearchArtists(_ context.Context, query string, limit int) ([]domain.SeedArtist, error) {
	if c.searchArtists == nil {
		return nil, nil
	}
	return c.searchArtists(query, limit)
}

func (c *fakeCatalog) AudioFeatures(_ context.Context, ids []string) (map[string]map[string]float64, error) {
	if c.audioFeatures == nil {
		return map[string]map[string]float64{}, nil
	}
	return c.audioFeatures(ids)
}

func (c *fakeCatalog) Recommendations(_ context.Context, seeds out.RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error) {
	if c.recommendations == nil {
		return nil, nil
	}
	return c.recommendations(seeds, target, limit)
}

func (c *fakeCatalog) TopArtists(_ context.Context, timeRange domain.TimeRange, limit int) ([]domain.SeedArtist, error) {
	if c.topArtists == nil {
		return nil, nil
	}
	return c.topArtists(timeRange, limit)
}

func (c *fakeCatalog) TopTracks(_ context.Context, timeRange domain.TimeRange, limit int) ([]domain.CandidateTrack, error) {
	if c.topTracks == nil {
		return nil, nil
	}
	return c.topTracks(timeRange, limit)
}

func (c *fakeCatalog) AvailableGenres(_ context.Context) ([]string, error) {
	return []string{"pop", "rock", "indie"}, nil
}

func (c *fakeCatalog) CreatePlaylist(_ context.Context, _, _ string, _ []string) (string, error) {
	return "https://music.example/playlist/1", nil
}

func genrePrefs(genres ...string) *domain.UserPreferenceProfile {
	return &domain.UserPreferenceProfile{
		Method:         domain.MethodGenreSelection,
		GenreSelection: &domain.GenreSelection{Genres: genres},
	}
}

func TestGenreStrategyDeduplicatesAndStopsAtLimit(t *testing.T) {
	var queries []string
	catalog := &fakeCatalog{
		// Every query returns the same two ids plus one unique id, so
		// duplicates must be filtered between queries.
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			queries = append(queries, query)
			return []domain.CandidateTrack{
				track("shared-1", 50, nil),
				track("shared-2", 50, nil),
				track(fmt.Sprintf("unique-%d", len(queries)), 50, nil),
			}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, genrePrefs("pop", "dance"), 5)

	if len(candidates) != 5 {
		t.Fatalf("got %d candidates, want 5", len(candidates))
	}
	seen := map[string]bool{}
	for _, c := range candidates {
		if seen[c.ID] {
			t.Errorf("duplicate candidate id %s", c.ID)
		}
		seen[c.ID] = true
	}
	// 5 unique ids need 3 queries; the 4th cross-product pair is never
	// issued once the limit is hit.
	if len(queries) != 3 {
		t.Errorf("issued %d queries, want 3", len(queries))
	}
}

func TestGenreStrategyTagsCandidates(t *testing.T) {
	catalog := &fakeCatalog{
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			return []domain.CandidateTrack{track("t-"+query, 50, nil)}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	candidates := g.Generate(context.Background(), domain.EmotionSadness, -0.4, genrePrefs("blues"), 10)

	if len(candidates) == 0 {
		t.Fatal("got no candidates")
	}
	for _, c := range candidates {
		if c.GenreSource != "blues" {
			t.Errorf("genre source = %q, want blues", c.GenreSource)
		}
		if c.EmotionMatch != domain.EmotionSadness {
			t.Errorf("emotion match = %s, want sadness", c.EmotionMatch)
		}
	}
}

func TestGenreStrategySubstitutesSuggestionsWhenNonePicked(t *testing.T) {
	var queries []string
	catalog := &fakeCatalog{
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			queries = append(queries, query)
			return nil, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	g.Generate(context.Background(), domain.EmotionJoy, 0.5, genrePrefs(), 10)

	if len(queries) == 0 {
		t.Fatal("no searches issued")
	}
	// Suggested joy genres start with pop, dance, funk; terms with
	// happy, upbeat.
	for _, q := range queries {
		if !strings.Contains(q, "pop") && !strings.Contains(q, "dance") && !strings.Contains(q, "funk") {
			t.Errorf("query %q does not use a suggested genre", q)
		}
	}
}

func TestGenreStrategySkipsFailedQueries(t *testing.T) {
	calls := 0
	catalog := &fakeCatalog{
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("catalog unavailable")
			}
			return []domain.CandidateTrack{track(fmt.Sprintf("t%d", calls), 50, nil)}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, genrePrefs("pop"), 10)

	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1 from the surviving query", len(candidates))
	}
}

func TestProfileStrategySeedsAndTargets(t *testing.T) {
	var gotSeeds out.RecommendationSeeds
	var gotTarget domain.TargetParams
	catalog := &fakeCatalog{
		topArtists: func(_ domain.TimeRange, _ int) ([]domain.SeedArtist, error) {
			return []domain.SeedArtist{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}, nil
		},
		topTracks: func(_ domain.TimeRange, _ int) ([]domain.CandidateTrack, error) {
			return []domain.CandidateTrack{track("s1", 50, nil), track("s2", 50, nil), track("s3", 50, nil)}, nil
		},
		recommendations: func(seeds out.RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error) {
			gotSeeds = seeds
			gotTarget = target
			return []domain.CandidateTrack{track("rec1", 70, nil)}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	prefs := &domain.UserPreferenceProfile{
		Method:         domain.MethodCatalogProfile,
		CatalogProfile: &domain.CatalogProfile{Authenticated: true, TimeRange: domain.TimeRangeShort},
	}
	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.0, prefs, 10)

	if len(candidates) != 1 || candidates[0].ID != "rec1" {
		t.Fatalf("candidates = %v, want the similarity result", candidates)
	}
	if len(gotSeeds.ArtistIDs) != 2 || len(gotSeeds.TrackIDs) != 2 {
		t.Errorf("seeds = %d artists, %d tracks, want 2 and 2", len(gotSeeds.ArtistIDs), len(gotSeeds.TrackIDs))
	}
	if gotTarget.Valence != 0.5 {
		t.Errorf("target valence = %f, want 0.5 for zero polarity", gotTarget.Valence)
	}
	if candidates[0].EmotionMatch != domain.EmotionJoy {
		t.Errorf("emotion match = %s, want joy", candidates[0].EmotionMatch)
	}
	if candidates[0].GenreSource != "profile-based" {
		t.Errorf("source = %q, want profile-based", candidates[0].GenreSource)
	}
}

func TestProfileStrategyFallsBackToGenresOnFailure(t *testing.T) {
	var searched bool
	catalog := &fakeCatalog{
		topArtists: func(_ domain.TimeRange, _ int) ([]domain.SeedArtist, error) {
			return nil, errors.New("not authenticated")
		},
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			searched = true
			return []domain.CandidateTrack{track("fallback", 50, nil)}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	prefs := &domain.UserPreferenceProfile{
		Method:         domain.MethodCatalogProfile,
		CatalogProfile: &domain.CatalogProfile{},
	}
	candidates := g.Generate(context.Background(), domain.EmotionNeutral, 0.0, prefs, 10)

	if !searched {
		t.Fatal("genre fallback never ran")
	}
	if len(candidates) != 1 || candidates[0].ID != "fallback" {
		t.Errorf("candidates = %v, want the genre fallback result", candidates)
	}
}

func TestSeedStrategyCapsResolvedSeeds(t *testing.T) {
	var gotSeeds out.RecommendationSeeds
	catalog := &fakeCatalog{
		searchArtists: func(query string, limit int) ([]domain.SeedArtist, error) {
			return []domain.SeedArtist{{ID: "artist-" + query}}, nil
		},
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			return []domain.CandidateTrack{track("track-"+query, 50, nil)}, nil
		},
		recommendations: func(seeds out.RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error) {
			gotSeeds = seeds
			return []domain.CandidateTrack{track("rec", 60, nil)}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	prefs := &domain.UserPreferenceProfile{
		Method: domain.MethodSeedInput,
		SeedInput: &domain.SeedInput{
			ArtistNames: []string{"One", "Two", "Three"},
			TrackNames:  []string{"Alpha", "Beta", "Gamma"},
		},
	}
	candidates := g.Generate(context.Background(), domain.EmotionSurprise, 0.2, prefs, 10)

	// The catalog takes 5 seeds total: at most 2 artists and 3 tracks.
	if len(gotSeeds.ArtistIDs) != 2 {
		t.Errorf("artist seeds = %d, want 2", len(gotSeeds.ArtistIDs))
	}
	if len(gotSeeds.TrackIDs) != 3 {
		t.Errorf("track seeds = %d, want 3", len(gotSeeds.TrackIDs))
	}
	if len(candidates) != 1 || candidates[0].GenreSource != "seed-based" {
		t.Errorf("candidates = %v, want one seed-based result", candidates)
	}
}

func TestSeedStrategyFallsBackWhenNothingResolves(t *testing.T) {
	var genreQueries []string
	catalog := &fakeCatalog{
		searchArtists: func(query string, limit int) ([]domain.SeedArtist, error) {
			return nil, nil
		},
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			// Seed resolution probes resolve nothing; genre fallback
			// queries carry a search term prefix and do find tracks.
			if strings.Contains(query, " ") {
				genreQueries = append(genreQueries, query)
				return []domain.CandidateTrack{track("g-"+query, 40, nil)}, nil
			}
			return nil, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	prefs := &domain.UserPreferenceProfile{
		Method:    domain.MethodSeedInput,
		SeedInput: &domain.SeedInput{ArtistNames: []string{"Nobody"}, TrackNames: []string{"Nothing"}},
	}
	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, prefs, 10)

	if len(genreQueries) == 0 {
		t.Fatal("genre fallback never ran")
	}
	if len(candidates) == 0 {
		t.Error("fallback produced no candidates")
	}
}

func TestSeedStrategyEmptyOnSimilarityFailure(t *testing.T) {
	catalog := &fakeCatalog{
		searchArtists: func(query string, limit int) ([]domain.SeedArtist, error) {
			return []domain.SeedArtist{{ID: "a1"}}, nil
		},
		recommendations: func(_ out.RecommendationSeeds, _ domain.TargetParams, _ int) ([]domain.CandidateTrack, error) {
			return nil, errors.New("similarity unavailable")
		},
	}
	g := NewGenerator(catalog, NewMapper())

	prefs := &domain.UserPreferenceProfile{
		Method:    domain.MethodSeedInput,
		SeedInput: &domain.SeedInput{ArtistNames: []string{"One"}},
	}
	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, prefs, 10)

	if len(candidates) != 0 {
		t.Errorf("got %d candidates, want none after a similarity failure", len(candidates))
	}
}

func TestGenerateAttachesAudioFeatures(t *testing.T) {
	catalog := &fakeCatalog{
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			return []domain.CandidateTrack{track("t1", 50, nil), track("t2", 50, nil)}, nil
		},
		audioFeatures: func(ids []string) (map[string]map[string]float64, error) {
			return map[string]map[string]float64{
				"t1": {FeatureValence: 0.8},
			}, nil
		},
	}
	g := NewGenerator(catalog, NewMapper())

	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, genrePrefs("pop"), 10)

	byID := map[string]domain.CandidateTrack{}
	for _, c := range candidates {
		byID[c.ID] = c
	}
	if byID["t1"].AudioFeatures[FeatureValence] != 0.8 {
		t.Errorf("t1 features = %v, want valence 0.8", byID["t1"].AudioFeatures)
	}
	if len(byID["t2"].AudioFeatures) != 0 {
		t.Errorf("t2 features = %v, want none", byID["t2"].AudioFeatures)
	}
}

func TestGenerateSurvivesFeatureLookupFailure(t *testing.T) {
	catalog := &fakeCatalog{
		searchTracks: func(query string, limit int) ([]domain.CandidateTrack, error) {
			return []domain.CandidateTrack{track("t1", 50, nil)}, nil
		},
		audioFeatures: func(ids []string) (map[string]map[string]float64, error) {
			return nil, errors.New("features unavailable")
		},
	}
	g := NewGenerator(catalog, NewMapper())

	candidates := g.Generate(context.Background(), domain.EmotionJoy, 0.5, genrePrefs("pop"), 10)

	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	if len(candidates[0].AudioFeatures) != 0 {
		t.Errorf("features = %v, want none after lookup failure", candidates[0].AudioFeatures)
	}
}
