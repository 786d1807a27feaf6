package recommendation

import (
	"context"
	"fmt"
	"time"

	"relay_server/core/domain"
	portin "relay_server/core/port/in"
	"relay_server/core/port/out"
	"relay_server/pkg/apperr"
	"relay_server/pkg/logger"

	"github.com/google/uuid"
)

const (
	defaultLimit = 20
	maxLimit     = 50

	playlistTrackCap = 50
)

// Service produces scored recommendation batches for analyzed
// conversations and stores them per session.
type Service struct {
	generator *Generator
	scorer    *Scorer
	mapper    *Mapper

	catalog  out.CatalogService
	analyses out.AnalysisRepository
	batches  out.RecommendationRepository
}

// NewService wires the recommendation pipeline.
func NewService(catalog out.CatalogService, analyses out.AnalysisRepository, batches out.RecommendationRepository) *Service {
	mapper := NewMapper()
	return &Service{
		generator: NewGenerator(catalog, mapper),
		scorer:    NewScorer(mapper),
		mapper:    mapper,
		catalog:   catalog,
		analyses:  analyses,
		batches:   batches,
	}
}

// Generate builds, scores and persists one recommendation batch for the
// session's stored analysis.
func (s *Service) Generate(ctx context.Context, req *portin.RecommendationRequest) ([]domain.ScoredRecommendation, error) {
	record, err := s.analyses.Get(ctx, req.SessionID)
	if err != nil {
		return nil, apperr.DatabaseError("get analysis", err)
	}
	if record == nil {
		return nil, apperr.NotFound("analysis")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	start := time.Now()
	emotion := record.Emotions.Dominant
	polarity := record.Sentiment.AveragePolarity

	candidates := s.generator.Generate(ctx, emotion, polarity, req.Preferences, limit)
	scored := s.scorer.Score(candidates, emotion, req.Preferences)

	if err := s.batches.SaveBatch(ctx, req.SessionID, scored); err != nil {
		return nil, apperr.DatabaseError("save recommendations", err)
	}

	logger.WithFields(map[string]any{
		"session_id":  req.SessionID.String(),
		"emotion":     string(emotion),
		"candidates":  len(candidates),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("recommendations generated")

	return scored, nil
}

// GetBatch returns the stored batch for a session.
func (s *Service) GetBatch(ctx context.Context, sessionID uuid.UUID) ([]domain.ScoredRecommendation, error) {
	recs, err := s.batches.GetBatch(ctx, sessionID)
	if err != nil {
		return nil, apperr.DatabaseError("get recommendations", err)
	}
	if recs == nil {
		return nil, apperr.NotFound("recommendations")
	}
	return recs, nil
}

// MoodDescription renders the stored analysis as a short mood phrase.
func (s *Service) MoodDescription(ctx context.Context, sessionID uuid.UUID) (string, error) {
	record, err := s.analyses.Get(ctx, sessionID)
	if err != nil {
		return "", apperr.DatabaseError("get analysis", err)
	}
	if record == nil {
		return "", apperr.NotFound("analysis")
	}
	return s.mapper.MoodDescription(record.Emotions.Dominant, record.Sentiment.AveragePolarity), nil
}

// AudioTargets exposes the per-feature target values derived from the
// stored analysis.
func (s *Service) AudioTargets(ctx context.Context, sessionID uuid.UUID) (map[string]float64, error) {
	record, err := s.analyses.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.DatabaseError("get analysis", err)
	}
	if record == nil {
		return nil, apperr.NotFound("analysis")
	}
	return s.mapper.AudioTargets(record.Emotions.Dominant, record.Sentiment.AveragePolarity), nil
}

// CreatePlaylist publishes the stored batch as a catalog playlist and
// returns its external URL.
func (s *Service) CreatePlaylist(ctx context.Context, sessionID uuid.UUID, name string) (string, error) {
	recs, err := s.GetBatch(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", apperr.BadRequest("no recommendations to publish")
	}

	if name == "" {
		name = fmt.Sprintf("Conversation Mix %s", time.Now().Format("2006-01-02"))
	}

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		if len(ids) >= playlistTrackCap {
			break
		}
		ids = append(ids, rec.ID)
	}

	description := "Tracks matched to the mood of an analyzed conversation."
	url, err := s.catalog.CreatePlaylist(ctx, name, description, ids)
	if err != nil {
		return "", apperr.ExternalError("catalog", err)
	}

	logger.WithFields(map[string]any{
		"session_id": sessionID.String(),
		"tracks":     len(ids),
	}).Info("playlist created")

	return url, nil
}
