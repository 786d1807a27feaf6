package catalog

import "relay_server/core/domain"

// =============================================================================
// Spotify Wire Models
// =============================================================================

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

type spotifyAlbum struct {
	Name   string         `json:"name"`
	Images []spotifyImage `json:"images"`
}

type spotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	Album        spotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Popularity   int             `json:"popularity"`
	PreviewURL   string          `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifySearchResponse struct {
	Tracks struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
	Artists struct {
		Items []spotifyArtist `json:"items"`
	} `json:"artists"`
}

type spotifyAudioFeatures struct {
	ID               string  `json:"id"`
	Valence          float64 `json:"valence"`
	Energy           float64 `json:"energy"`
	Danceability     float64 `json:"danceability"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Loudness         float64 `json:"loudness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Mode             int     `json:"mode"`
}

type spotifyAudioFeaturesResponse struct {
	AudioFeatures []*spotifyAudioFeatures `json:"audio_features"`
}

type spotifyRecommendationsResponse struct {
	Tracks []spotifyTrack `json:"tracks"`
}

type spotifyTopArtistsResponse struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyTopTracksResponse struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyGenresResponse struct {
	Genres []string `json:"genres"`
}

type spotifyPlaylist struct {
	ID           string `json:"id"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyErrorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// Wire → Domain Mapping
// =============================================================================

func (t spotifyTrack) toDomain() domain.CandidateTrack {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	imageURL := ""
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}

	return domain.CandidateTrack{
		ID:          t.ID,
		Name:        t.Name,
		Artist:      artist,
		Album:       t.Album.Name,
		ExternalURL: t.ExternalURLs.Spotify,
		PreviewURL:  t.PreviewURL,
		ImageURL:    imageURL,
		DurationMS:  t.DurationMS,
		Popularity:  t.Popularity,
	}
}

func (a spotifyArtist) toDomain() domain.SeedArtist {
	return domain.SeedArtist{ID: a.ID, Name: a.Name, Genres: a.Genres}
}

func (f *spotifyAudioFeatures) toMap() map[string]float64 {
	if f == nil {
		return nil
	}
	return map[string]float64{
		"valence":          f.Valence,
		"energy":           f.Energy,
		"danceability":     f.Danceability,
		"tempo":            f.Tempo,
		"acousticness":     f.Acousticness,
		"loudness":         f.Loudness,
		"instrumentalness": f.Instrumentalness,
		"mode":             float64(f.Mode),
	}
}
