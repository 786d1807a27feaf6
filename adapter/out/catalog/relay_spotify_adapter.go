// Package catalog implements the music catalog port against the
// Spotify Web API.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"relay_server/core/domain"
	"relay_server/core/port/out"
	"relay_server/pkg/httputil"
	"relay_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyAPIBase  = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	featureCacheTTL    = 24 * time.Hour
	featureCachePrefix = "spotify:features:"

	// Spotify caps audio-features batches at 100 ids.
	featureBatchSize = 100
)

// SpotifyConfig holds Spotify API credentials and tuning.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	Market       string

	// UserID is required only for playlist creation.
	UserID string
}

// SpotifyAdapter implements out.CatalogService against the Spotify Web
// API. All requests share a pooled HTTP client and pass through a
// circuit breaker.
type SpotifyAdapter struct {
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	cache  out.Cache
	market string
	userID string
}

// NewSpotifyAdapter creates the adapter. cache may be nil, which
// disables audio-feature caching.
func NewSpotifyAdapter(cfg *SpotifyConfig, cache out.Cache) *SpotifyAdapter {
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyTokenURL,
	}

	// Token refreshes and API calls both ride the pooled transport.
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httputil.SpotifyClient())

	cbSettings := gobreaker.Settings{
		Name:        "spotify-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	}

	market := cfg.Market
	if market == "" {
		market = "US"
	}

	return &SpotifyAdapter{
		client: creds.Client(baseCtx),
		cb:     gobreaker.NewCircuitBreaker(cbSettings),
		cache:  cache,
		market: market,
		userID: cfg.UserID,
	}
}

// =============================================================================
// Catalog Port
// =============================================================================

// SearchTracks runs a free-text track search.
func (a *SpotifyAdapter) SearchTracks(ctx context.Context, query string, limit int) ([]domain.CandidateTrack, error) {
	params := url.Values{
		"q":      {query},
		"type":   {"track"},
		"limit":  {strconv.Itoa(clampLimit(limit, 50))},
		"market": {a.market},
	}

	var resp spotifySearchResponse
	if err := a.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.CandidateTrack, 0, len(resp.Tracks.Items))
	for _, t := range resp.Tracks.Items {
		tracks = append(tracks, t.toDomain())
	}
	return tracks, nil
}

// SearchArtists runs an artist search.
func (a *SpotifyAdapter) SearchArtists(ctx context.Context, query string, limit int) ([]domain.SeedArtist, error) {
	params := url.Values{
		"q":     {query},
		"type":  {"artist"},
		"limit": {strconv.Itoa(clampLimit(limit, 50))},
	}

	var resp spotifySearchResponse
	if err := a.get(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	artists := make([]domain.SeedArtist, 0, len(resp.Artists.Items))
	for _, item := range resp.Artists.Items {
		artists = append(artists, item.toDomain())
	}
	return artists, nil
}

// AudioFeatures returns per-id feature maps, reading through the cache.
// Ids Spotify has no features for are absent from the result.
func (a *SpotifyAdapter) AudioFeatures(ctx context.Context, trackIDs []string) (map[string]map[string]float64, error) {
	features := make(map[string]map[string]float64, len(trackIDs))

	missing := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		if cached := a.cachedFeatures(ctx, id); cached != nil {
			features[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	for start := 0; start < len(missing); start += featureBatchSize {
		end := start + featureBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		var resp spotifyAudioFeaturesResponse
		params := url.Values{"ids": {strings.Join(batch, ",")}}
		if err := a.get(ctx, "/audio-features", params, &resp); err != nil {
			return nil, err
		}

		for _, f := range resp.AudioFeatures {
			if f == nil {
				continue
			}
			m := f.toMap()
			features[f.ID] = m
			a.storeFeatures(ctx, f.ID, m)
		}
	}

	return features, nil
}

// Recommendations returns similarity recommendations for the seeds.
func (a *SpotifyAdapter) Recommendations(ctx context.Context, seeds out.RecommendationSeeds, target domain.TargetParams, limit int) ([]domain.CandidateTrack, error) {
	params := url.Values{
		"limit":          {strconv.Itoa(clampLimit(limit, 100))},
		"market":         {a.market},
		"target_valence": {formatFloat(target.Valence)},
		"target_energy":  {formatFloat(target.Energy)},
	}
	if len(seeds.ArtistIDs) > 0 {
		params.Set("seed_artists", strings.Join(seeds.ArtistIDs, ","))
	}
	if len(seeds.TrackIDs) > 0 {
		params.Set("seed_tracks", strings.Join(seeds.TrackIDs, ","))
	}

	var resp spotifyRecommendationsResponse
	if err := a.get(ctx, "/recommendations", params, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.CandidateTrack, 0, len(resp.Tracks))
	for _, t := range resp.Tracks {
		tracks = append(tracks, t.toDomain())
	}
	return tracks, nil
}

// TopArtists returns the authenticated listener's top artists.
func (a *SpotifyAdapter) TopArtists(ctx context.Context, timeRange domain.TimeRange, limit int) ([]domain.SeedArtist, error) {
	params := url.Values{
		"time_range": {string(timeRange)},
		"limit":      {strconv.Itoa(clampLimit(limit, 50))},
	}

	var resp spotifyTopArtistsResponse
	if err := a.get(ctx, "/me/top/artists", params, &resp); err != nil {
		return nil, err
	}

	artists := make([]domain.SeedArtist, 0, len(resp.Items))
	for _, item := range resp.Items {
		artists = append(artists, item.toDomain())
	}
	return artists, nil
}

// TopTracks returns the authenticated listener's top tracks.
func (a *SpotifyAdapter) TopTracks(ctx context.Context, timeRange domain.TimeRange, limit int) ([]domain.CandidateTrack, error) {
	params := url.Values{
		"time_range": {string(timeRange)},
		"limit":      {strconv.Itoa(clampLimit(limit, 50))},
	}

	var resp spotifyTopTracksResponse
	if err := a.get(ctx, "/me/top/tracks", params, &resp); err != nil {
		return nil, err
	}

	tracks := make([]domain.CandidateTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		tracks = append(tracks, item.toDomain())
	}
	return tracks, nil
}

// AvailableGenres returns the seedable genre list.
func (a *SpotifyAdapter) AvailableGenres(ctx context.Context) ([]string, error) {
	var resp spotifyGenresResponse
	if err := a.get(ctx, "/recommendations/available-genre-seeds", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// CreatePlaylist creates a playlist, adds the tracks and returns its
// public URL.
func (a *SpotifyAdapter) CreatePlaylist(ctx context.Context, name, description string, trackIDs []string) (string, error) {
	if a.userID == "" {
		return "", fmt.Errorf("spotify: playlist creation requires a configured user id")
	}

	var playlist spotifyPlaylist
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      false,
	}
	if err := a.post(ctx, fmt.Sprintf("/users/%s/playlists", a.userID), body, &playlist); err != nil {
		return "", err
	}

	uris := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		uris = append(uris, "spotify:track:"+id)
	}
	if err := a.post(ctx, fmt.Sprintf("/playlists/%s/tracks", playlist.ID), map[string]any{"uris": uris}, nil); err != nil {
		return "", err
	}

	return playlist.ExternalURLs.Spotify, nil
}

// =============================================================================
// HTTP Plumbing
// =============================================================================

func (a *SpotifyAdapter) get(ctx context.Context, path string, params url.Values, dest any) error {
	endpoint := spotifyAPIBase + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return a.do(ctx, http.MethodGet, endpoint, nil, dest)
}

func (a *SpotifyAdapter) post(ctx context.Context, path string, body, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("spotify: encode request: %w", err)
	}
	return a.do(ctx, http.MethodPost, spotifyAPIBase+path, payload, dest)
}

func (a *SpotifyAdapter) do(ctx context.Context, method, endpoint string, body []byte, dest any) error {
	result, err := a.cb.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			reader = strings.NewReader(string(body))
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := a.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			return nil, spotifyError(resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if dest == nil {
		return nil
	}
	data := result.([]byte)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("spotify: decode response: %w", err)
	}
	return nil
}

func spotifyError(status int, data []byte) error {
	var wire spotifyErrorResponse
	if err := json.Unmarshal(data, &wire); err == nil && wire.Error.Message != "" {
		return fmt.Errorf("spotify: %s (status %d)", wire.Error.Message, status)
	}
	return fmt.Errorf("spotify: unexpected status %d", status)
}

func (a *SpotifyAdapter) cachedFeatures(ctx context.Context, id string) map[string]float64 {
	if a.cache == nil {
		return nil
	}
	var features map[string]float64
	found, err := a.cache.GetJSON(ctx, featureCachePrefix+id, &features)
	if err != nil || !found {
		return nil
	}
	return features
}

func (a *SpotifyAdapter) storeFeatures(ctx context.Context, id string, features map[string]float64) {
	if a.cache == nil {
		return
	}
	if err := a.cache.SetJSON(ctx, featureCachePrefix+id, features, featureCacheTTL); err != nil {
		logger.WithError(err).Debug("feature cache write failed")
	}
}

func clampLimit(limit, max int) int {
	if limit <= 0 {
		return 20
	}
	if limit > max {
		return max
	}
	return limit
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
