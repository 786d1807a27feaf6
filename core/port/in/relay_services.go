package in

import (
	"context"

	"relay_server/core/domain"

	"github.com/google/uuid"
)

// SessionService manages uploaded conversations.
type SessionService interface {
	// ImportCSV parses an SMS CSV export, stores the session metadata
	// and returns the session together with the parsed conversation.
	ImportCSV(ctx context.Context, filename string, data []byte) (*domain.ChatSession, *domain.Conversation, error)

	Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error)
	List(ctx context.Context, limit, offset int) ([]*domain.ChatSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisService runs the one-shot conversation analysis.
type AnalysisService interface {
	// Analyze runs the full pipeline over the messages and persists the
	// record under the session id.
	Analyze(ctx context.Context, sessionID uuid.UUID, messages []domain.Message) (*domain.AnalysisRecord, error)

	// GetAnalysis returns a previously stored record.
	GetAnalysis(ctx context.Context, sessionID uuid.UUID) (*domain.AnalysisRecord, error)
}

// RecommendationRequest carries everything the recommendation pipeline
// needs for one batch.
type RecommendationRequest struct {
	SessionID   uuid.UUID                     `json:"session_id"`
	Preferences *domain.UserPreferenceProfile `json:"preferences"`
	Limit       int                           `json:"limit"`
}

// RecommendationService produces and stores scored recommendations.
type RecommendationService interface {
	Generate(ctx context.Context, req *RecommendationRequest) ([]domain.ScoredRecommendation, error)
	GetBatch(ctx context.Context, sessionID uuid.UUID) ([]domain.ScoredRecommendation, error)

	// MoodDescription renders the human-readable mood of a stored
	// analysis ("happy and upbeat", "deeply melancholic", ...).
	MoodDescription(ctx context.Context, sessionID uuid.UUID) (string, error)

	// AudioTargets returns the per-feature target values derived from a
	// stored analysis.
	AudioTargets(ctx context.Context, sessionID uuid.UUID) (map[string]float64, error)

	// CreatePlaylist publishes a stored batch as a catalog playlist and
	// returns its external URL.
	CreatePlaylist(ctx context.Context, sessionID uuid.UUID, name string) (string, error)
}
