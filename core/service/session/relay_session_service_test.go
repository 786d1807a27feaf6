package session

import (
	"context"
	"testing"
	"time"

	"relay_server/core/domain"
	"relay_server/pkg/apperr"

	"github.com/google/uuid"
)

type stubImporter struct {
	conv *domain.Conversation
	err  error
}

func (s *stubImporter) Parse(_ string, _ []byte) (*domain.Conversation, error) {
	return s.conv, s.err
}

type memorySessionRepo struct {
	sessions map[uuid.UUID]*domain.ChatSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[uuid.UUID]*domain.ChatSession{}}
}

func (r *memorySessionRepo) Create(_ context.Context, s *domain.ChatSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memorySessionRepo) Get(_ context.Context, id uuid.UUID) (*domain.ChatSession, error) {
	return r.sessions[id], nil
}

func (r *memorySessionRepo) List(_ context.Context, limit, offset int) ([]*domain.ChatSession, error) {
	out := make([]*domain.ChatSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

type memoryDocRepo struct {
	deleted []uuid.UUID
}

func (r *memoryDocRepo) Save(_ context.Context, _ uuid.UUID, _ *domain.AnalysisRecord) error {
	return nil
}

func (r *memoryDocRepo) Get(_ context.Context, _ uuid.UUID) (*domain.AnalysisRecord, error) {
	return nil, nil
}

func (r *memoryDocRepo) SaveBatch(_ context.Context, _ uuid.UUID, _ []domain.ScoredRecommendation) error {
	return nil
}

func (r *memoryDocRepo) GetBatch(_ context.Context, _ uuid.UUID) ([]domain.ScoredRecommendation, error) {
	return nil, nil
}

func (r *memoryDocRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func sampleConversation() *domain.Conversation {
	start := time.Date(2024, 1, 2, 8, 55, 0, 0, time.UTC)
	return &domain.Conversation{
		ContactName:  "Alex",
		ContactPhone: "+17185551234",
		Messages: []domain.Message{
			{Timestamp: start, Sender: "Alex", Content: "You up yet?", Direction: domain.DirectionReceived},
			{Timestamp: start.Add(20 * time.Minute), Sender: "You", Content: "Yeah", Direction: domain.DirectionSent},
		},
		Stats: domain.ConversationStats{
			TotalMessages: 2,
			SentCount:     1,
			ReceivedCount: 1,
			StartDate:     start,
			EndDate:       start.Add(20 * time.Minute),
		},
	}
}

func TestImportCSVCreatesSession(t *testing.T) {
	repo := newMemorySessionRepo()
	svc := NewService(&stubImporter{conv: sampleConversation()}, repo, &memoryDocRepo{}, &memoryDocRepo{})

	session, conv, err := svc.ImportCSV(context.Background(), "chat.csv", []byte("data"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if conv == nil || len(conv.Messages) != 2 {
		t.Fatal("conversation not returned")
	}
	if session.ContactName != "Alex" || session.MessageCount != 2 {
		t.Errorf("session = %+v, want contact Alex with 2 messages", session)
	}
	if _, ok := repo.sessions[session.ID]; !ok {
		t.Error("session was not persisted")
	}
}

func TestImportCSVRejectsEmptyUpload(t *testing.T) {
	svc := NewService(&stubImporter{}, newMemorySessionRepo(), &memoryDocRepo{}, &memoryDocRepo{})

	_, _, err := svc.ImportCSV(context.Background(), "chat.csv", nil)
	if err == nil {
		t.Fatal("expected an error for an empty upload")
	}
	if appErr := apperr.AsAppError(err); appErr == nil || appErr.HTTPStatus() != 400 {
		t.Errorf("err = %v, want a bad-request app error", err)
	}
}

func TestGetUnknownSessionIsNotFound(t *testing.T) {
	svc := NewService(&stubImporter{}, newMemorySessionRepo(), &memoryDocRepo{}, &memoryDocRepo{})

	_, err := svc.Get(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected an error for an unknown session")
	}
	if appErr := apperr.AsAppError(err); appErr == nil || appErr.HTTPStatus() != 404 {
		t.Errorf("err = %v, want a not-found app error", err)
	}
}

func TestDeleteCascadesToDocuments(t *testing.T) {
	repo := newMemorySessionRepo()
	analyses := &memoryDocRepo{}
	batches := &memoryDocRepo{}
	svc := NewService(&stubImporter{conv: sampleConversation()}, repo, analyses, batches)

	session, _, err := svc.ImportCSV(context.Background(), "chat.csv", []byte("data"))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}

	if err := svc.Delete(context.Background(), session.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.sessions[session.ID]; ok {
		t.Error("session row survived deletion")
	}
	if len(analyses.deleted) != 1 || len(batches.deleted) != 1 {
		t.Error("derived documents were not cleaned up")
	}
}
