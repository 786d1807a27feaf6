package domain

// PreferenceMethod tags the preference-capture variant and selects the
// candidate generation strategy.
type PreferenceMethod string

const (
	MethodGenreSelection PreferenceMethod = "genre_selection"
	MethodCatalogProfile PreferenceMethod = "catalog_profile"
	MethodSeedInput      PreferenceMethod = "seed_input"
)

// EnergyPreference is the qualitative intensity setting of the genre
// selection variant.
type EnergyPreference string

const (
	EnergyVeryCalm      EnergyPreference = "very_calm"
	EnergyCalm          EnergyPreference = "calm"
	EnergyModerate      EnergyPreference = "moderate"
	EnergyEnergetic     EnergyPreference = "energetic"
	EnergyVeryEnergetic EnergyPreference = "very_energetic"
)

// PopularityRange bounds track popularity (0-100).
type PopularityRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether p lies inside the range.
func (r PopularityRange) Contains(p int) bool {
	return p >= r.Min && p <= r.Max
}

// TimeRange selects how far back the listener profile reaches.
type TimeRange string

const (
	TimeRangeShort  TimeRange = "short_term"  // last 4 weeks
	TimeRangeMedium TimeRange = "medium_term" // last 6 months
	TimeRangeLong   TimeRange = "long_term"   // all time
)

// GenreSelection is the direct genre-pick variant.
type GenreSelection struct {
	Genres           []string         `json:"genres"` // at most 5
	ExplicitAllowed  bool             `json:"explicit_allowed"`
	PopularityRange  *PopularityRange `json:"popularity_range,omitempty"`
	EnergyPreference EnergyPreference `json:"energy_preference"`
}

// CatalogProfile uses the listener's own catalog listening history.
type CatalogProfile struct {
	Authenticated bool      `json:"authenticated"`
	TimeRange     TimeRange `json:"time_range"`
}

// SeedInput carries user-supplied artist and track names.
type SeedInput struct {
	ArtistNames []string `json:"artist_names"` // at most 3
	TrackNames  []string `json:"track_names"`  // at most 3
}

// UserPreferenceProfile is a tagged union over the three capture
// variants. Exactly the field matching Method is set; the candidate
// generator dispatches on Method exhaustively.
type UserPreferenceProfile struct {
	Method PreferenceMethod `json:"method"`

	GenreSelection *GenreSelection `json:"genre_selection,omitempty"`
	CatalogProfile *CatalogProfile `json:"catalog_profile,omitempty"`
	SeedInput      *SeedInput      `json:"seed_input,omitempty"`
}

// PopularityPreference returns the popularity range when the variant
// carries one, nil otherwise.
func (p *UserPreferenceProfile) PopularityPreference() *PopularityRange {
	if p == nil || p.GenreSelection == nil {
		return nil
	}
	return p.GenreSelection.PopularityRange
}

// SelectedGenres returns the user-picked genres, empty when the variant
// does not carry any.
func (p *UserPreferenceProfile) SelectedGenres() []string {
	if p == nil || p.GenreSelection == nil {
		return nil
	}
	return p.GenreSelection.Genres
}
