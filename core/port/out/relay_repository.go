package out

import (
	"context"

	"relay_server/core/domain"

	"github.com/google/uuid"
)

// SessionRepository persists chat sessions (Postgres).
type SessionRepository interface {
	Create(ctx context.Context, session *domain.ChatSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error)
	List(ctx context.Context, limit, offset int) ([]*domain.ChatSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnalysisRepository persists analysis records (MongoDB), keyed by
// session id. One record per session; saving again replaces it.
type AnalysisRepository interface {
	Save(ctx context.Context, sessionID uuid.UUID, record *domain.AnalysisRecord) error
	Get(ctx context.Context, sessionID uuid.UUID) (*domain.AnalysisRecord, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

// RecommendationRepository persists scored recommendation batches
// (MongoDB), keyed by session id.
type RecommendationRepository interface {
	SaveBatch(ctx context.Context, sessionID uuid.UUID, recs []domain.ScoredRecommendation) error
	GetBatch(ctx context.Context, sessionID uuid.UUID) ([]domain.ScoredRecommendation, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error
}
