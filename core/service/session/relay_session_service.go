// Package session manages uploaded conversations and their lifecycle
// across the relational store and the analysis documents.
package session

import (
	"context"
	"time"

	"relay_server/core/domain"
	"relay_server/core/port/out"
	"relay_server/pkg/apperr"
	"relay_server/pkg/logger"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

// Service imports conversations and tracks their sessions. Deleting a
// session also removes its analysis and recommendation documents.
type Service struct {
	importer out.ConversationImporter
	sessions out.SessionRepository
	analyses out.AnalysisRepository
	batches  out.RecommendationRepository
}

// NewService wires the session service.
func NewService(importer out.ConversationImporter, sessions out.SessionRepository, analyses out.AnalysisRepository, batches out.RecommendationRepository) *Service {
	return &Service{
		importer: importer,
		sessions: sessions,
		analyses: analyses,
		batches:  batches,
	}
}

// ImportCSV parses an uploaded export, stores the session metadata and
// returns both the session and the parsed conversation.
func (s *Service) ImportCSV(ctx context.Context, filename string, data []byte) (*domain.ChatSession, *domain.Conversation, error) {
	if len(data) == 0 {
		return nil, nil, apperr.BadRequest("uploaded file is empty")
	}
	if len(data) > maxUploadBytes {
		return nil, nil, apperr.BadRequest("uploaded file exceeds the 10MB limit")
	}

	conv, err := s.importer.Parse(filename, data)
	if err != nil {
		return nil, nil, err
	}

	session := &domain.ChatSession{
		ID:            uuid.New(),
		Filename:      filename,
		ContactName:   conv.ContactName,
		ContactPhone:  conv.ContactPhone,
		MessageCount:  conv.Stats.TotalMessages,
		SentCount:     conv.Stats.SentCount,
		ReceivedCount: conv.Stats.ReceivedCount,
		StartDate:     conv.Stats.StartDate,
		EndDate:       conv.Stats.EndDate,
		DurationDays:  conv.Stats.DurationDays,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, apperr.DatabaseError("create session", err)
	}

	logger.WithFields(map[string]any{
		"session_id": session.ID.String(),
		"filename":   filename,
		"messages":   session.MessageCount,
	}).Info("conversation imported")

	return session, conv, nil
}

// Get returns one session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, apperr.DatabaseError("get session", err)
	}
	if session == nil {
		return nil, apperr.NotFound("session")
	}
	return session, nil
}

// List returns sessions ordered by upload time, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*domain.ChatSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.sessions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.DatabaseError("list sessions", err)
	}
	return sessions, nil
}

// Delete removes a session and its derived documents. Document cleanup
// failures are logged, not fatal: the session row is the source of
// truth and orphaned documents are unreachable without it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return apperr.DatabaseError("delete session", err)
	}
	if err := s.analyses.Delete(ctx, id); err != nil {
		logger.WithError(err).WithField("session_id", id.String()).Warn("analysis cleanup failed")
	}
	if err := s.batches.Delete(ctx, id); err != nil {
		logger.WithError(err).WithField("session_id", id.String()).Warn("recommendation cleanup failed")
	}

	logger.WithField("session_id", id.String()).Info("session deleted")
	return nil
}
