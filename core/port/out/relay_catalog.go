package out

import (
	"context"

	"relay_server/core/domain"
)

// RecommendationSeeds anchors a catalog-side similarity request. The
// catalog accepts at most 5 seeds in total.
type RecommendationSeeds struct {
	ArtistIDs []string
	TrackIDs  []string
}

// CatalogService is the outbound port for the external music catalog.
// Every call may fail; callers catch failures locally and degrade to
// the documented default or fallback strategy instead of propagating.
type CatalogService interface {
	// SearchTracks runs a free-text track search.
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.CandidateTrack, error)

	// SearchArtists runs an artist search.
	SearchArtists(ctx context.Context, query string, limit int) ([]domain.SeedArtist, error)

	// AudioFeatures returns per-id feature maps. Ids without features
	// are absent from the result rather than an error.
	AudioFeatures(ctx context.Context, trackIDs []string) (map[string]map[string]float64, error)

	// Recommendations returns similarity recommendations for the given
	// seeds, tuned toward the target parameters.
	Recommendations(ctx context.Context, seeds RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error)

	// TopArtists returns the authenticated listener's top artists.
	TopArtists(ctx context.Context, timeRange domain.TimeRange, limit int) ([]domain.SeedArtist, error)

	// TopTracks returns the authenticated listener's top tracks.
	TopTracks(ctx context.Context, timeRange domain.TimeRange, limit int) ([]domain.CandidateTrack, error)

	// AvailableGenres returns the catalog's seedable genre list.
	AvailableGenres(ctx context.Context) ([]string, error)

	// CreatePlaylist creates a playlist from track ids and returns its
	// external URL.
	CreatePlaylist(ctx context.Context, name, description string, trackIDs []string) (string, error)
}
