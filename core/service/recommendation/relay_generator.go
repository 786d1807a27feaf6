package recommendation

import (
	"context"

	"relay_server/core/domain"
	"relay_server/core/port/out"
	"relay_server/pkg/logger"
)

const (
	// Genre-based strategy caps.
	maxQueryGenres      = 3
	maxQueryTerms       = 2
	tracksPerQuery      = 5
	genreSuggestionSize = 5

	// Profile / seed strategy caps. The catalog accepts 5 seeds total.
	profileSeedArtists = 2
	profileSeedTracks  = 2
	maxSeedArtists     = 2
	maxSeedTracks      = 3
	maxSeedNames       = 3

	topItemLimit = 5

	// Source labels for candidates produced by the similarity
	// strategies. Genre-based candidates carry the genre itself.
	sourceProfile = "profile-based"
	sourceSeeds   = "seed-based"
)

// Generator builds the candidate track pool for one recommendation
// request. It dispatches on the preference variant and never lets a
// catalog failure escape: every strategy degrades to a fallback or an
// empty pool.
type Generator struct {
	catalog out.CatalogService
	mapper  *Mapper
}

// NewGenerator creates a generator over the given catalog and mapper.
func NewGenerator(catalog out.CatalogService, mapper *Mapper) *Generator {
	return &Generator{catalog: catalog, mapper: mapper}
}

// Generate produces up to limit candidates for the dominant emotion and
// the listener's preference variant.
func (g *Generator) Generate(ctx context.Context, emotion domain.Emotion, polarity float64, prefs *domain.UserPreferenceProfile, limit int) []domain.CandidateTrack {
	var method domain.PreferenceMethod
	if prefs != nil {
		method = prefs.Method
	}

	var candidates []domain.CandidateTrack
	switch method {
	case domain.MethodCatalogProfile:
		candidates = g.fromProfile(ctx, emotion, polarity, prefs, limit)
	case domain.MethodSeedInput:
		candidates = g.fromSeeds(ctx, emotion, polarity, prefs, limit)
	default:
		candidates = g.fromGenres(ctx, emotion, prefs, limit)
	}

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	g.attachFeatures(ctx, candidates)
	return candidates
}

// fromGenres cross-products the selected genres with the emotion's
// search terms, deduplicating by track id and stopping once the limit
// is reached. Without user-picked genres the static suggestions for the
// emotion are used instead.
func (g *Generator) fromGenres(ctx context.Context, emotion domain.Emotion, prefs *domain.UserPreferenceProfile, limit int) []domain.CandidateTrack {
	genres := prefs.SelectedGenres()
	if len(genres) == 0 {
		genres = g.mapper.GenreSuggestions(emotion, genreSuggestionSize)
	}
	if len(genres) > maxQueryGenres {
		genres = genres[:maxQueryGenres]
	}

	terms := g.mapper.SearchTerms(emotion)
	if len(terms) > maxQueryTerms {
		terms = terms[:maxQueryTerms]
	}

	seen := make(map[string]struct{}, limit)
	candidates := make([]domain.CandidateTrack, 0, limit)

	for _, genre := range genres {
		for _, term := range terms {
			if len(candidates) >= limit {
				return candidates
			}

			tracks, err := g.catalog.SearchTracks(ctx, term+" "+genre, tracksPerQuery)
			if err != nil {
				logger.WithError(err).WithFields(map[string]any{
					"genre": genre,
					"term":  term,
				}).Warn("genre search failed, skipping query")
				continue
			}

			for _, track := range tracks {
				if _, dup := seen[track.ID]; dup {
					continue
				}
				seen[track.ID] = struct{}{}

				track.GenreSource = genre
				track.EmotionMatch = emotion
				candidates = append(candidates, track)
				if len(candidates) >= limit {
					return candidates
				}
			}
		}
	}
	return candidates
}

// fromProfile seeds a similarity request with the listener's top
// artists and tracks. Any catalog failure along the way falls back to
// the genre-based strategy.
func (g *Generator) fromProfile(ctx context.Context, emotion domain.Emotion, polarity float64, prefs *domain.UserPreferenceProfile, limit int) []domain.CandidateTrack {
	timeRange := domain.TimeRangeMedium
	if prefs.CatalogProfile != nil && prefs.CatalogProfile.TimeRange != "" {
		timeRange = prefs.CatalogProfile.TimeRange
	}

	artists, err := g.catalog.TopArtists(ctx, timeRange, topItemLimit)
	if err != nil {
		logger.WithError(err).Warn("top artists unavailable, falling back to genre search")
		return g.fromGenres(ctx, emotion, prefs, limit)
	}
	tracks, err := g.catalog.TopTracks(ctx, timeRange, topItemLimit)
	if err != nil {
		logger.WithError(err).Warn("top tracks unavailable, falling back to genre search")
		return g.fromGenres(ctx, emotion, prefs, limit)
	}

	seeds := out.RecommendationSeeds{}
	for _, a := range artists {
		if len(seeds.ArtistIDs) >= profileSeedArtists {
			break
		}
		seeds.ArtistIDs = append(seeds.ArtistIDs, a.ID)
	}
	for _, t := range tracks {
		if len(seeds.TrackIDs) >= profileSeedTracks {
			break
		}
		seeds.TrackIDs = append(seeds.TrackIDs, t.ID)
	}
	if len(seeds.ArtistIDs) == 0 && len(seeds.TrackIDs) == 0 {
		logger.Warn("listener profile empty, falling back to genre search")
		return g.fromGenres(ctx, emotion, prefs, limit)
	}

	candidates, err := g.similar(ctx, seeds, sourceProfile, emotion, polarity, limit)
	if err != nil {
		logger.WithError(err).Warn("profile similarity failed, falling back to genre search")
		return g.fromGenres(ctx, emotion, prefs, limit)
	}
	return candidates
}

// fromSeeds resolves user-supplied artist and track names to catalog
// ids. Names that resolve to nothing are skipped; when nothing resolves
// at all the genre-based strategy takes over.
func (g *Generator) fromSeeds(ctx context.Context, emotion domain.Emotion, polarity float64, prefs *domain.UserPreferenceProfile, limit int) []domain.CandidateTrack {
	var artistNames, trackNames []string
	if prefs.SeedInput != nil {
		artistNames = prefs.SeedInput.ArtistNames
		trackNames = prefs.SeedInput.TrackNames
	}
	if len(artistNames) > maxSeedNames {
		artistNames = artistNames[:maxSeedNames]
	}
	if len(trackNames) > maxSeedNames {
		trackNames = trackNames[:maxSeedNames]
	}

	seeds := out.RecommendationSeeds{}
	for _, name := range artistNames {
		if len(seeds.ArtistIDs) >= maxSeedArtists {
			break
		}
		found, err := g.catalog.SearchArtists(ctx, "artist:"+name, 1)
		if err != nil || len(found) == 0 {
			logger.WithField("artist", name).Debug("seed artist unresolved, skipping")
			continue
		}
		seeds.ArtistIDs = append(seeds.ArtistIDs, found[0].ID)
	}
	for _, name := range trackNames {
		if len(seeds.TrackIDs) >= maxSeedTracks {
			break
		}
		found, err := g.catalog.SearchTracks(ctx, name, 1)
		if err != nil || len(found) == 0 {
			logger.WithField("track", name).Debug("seed track unresolved, skipping")
			continue
		}
		seeds.TrackIDs = append(seeds.TrackIDs, found[0].ID)
	}

	if len(seeds.ArtistIDs) == 0 && len(seeds.TrackIDs) == 0 {
		logger.Warn("no seeds resolved, falling back to genre search")
		return g.fromGenres(ctx, emotion, prefs, limit)
	}

	// Resolved seeds that yield nothing stay empty rather than
	// surprising the user with unrelated genre picks.
	candidates, err := g.similar(ctx, seeds, sourceSeeds, emotion, polarity, limit)
	if err != nil {
		logger.WithError(err).Warn("seed similarity failed")
		return nil
	}
	return candidates
}

// similar runs the catalog similarity request for already-resolved
// seeds, tagging each result with the strategy that produced it.
func (g *Generator) similar(ctx context.Context, seeds out.RecommendationSeeds, source string, emotion domain.Emotion, polarity float64, limit int) ([]domain.CandidateTrack, error) {
	target := g.mapper.TargetParams(emotion, polarity)
	tracks, err := g.catalog.Recommendations(ctx, seeds, target, limit)
	if err != nil {
		return nil, err
	}
	for i := range tracks {
		tracks[i].GenreSource = source
		tracks[i].EmotionMatch = emotion
	}
	return tracks, nil
}

// attachFeatures decorates candidates with their audio features in a
// single batch lookup. A lookup failure leaves every candidate bare,
// which the scorer treats as a flat default.
func (g *Generator) attachFeatures(ctx context.Context, candidates []domain.CandidateTrack) {
	if len(candidates) == 0 {
		return
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if len(c.AudioFeatures) == 0 {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	features, err := g.catalog.AudioFeatures(ctx, ids)
	if err != nil {
		logger.WithError(err).Warn("audio feature lookup failed, scoring without features")
		return
	}
	for i := range candidates {
		if f, ok := features[candidates[i].ID]; ok {
			candidates[i].AudioFeatures = f
		}
	}
}
