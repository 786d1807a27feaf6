package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relay_server/core/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionAnalyses = "conversation_analyses"

// AnalysisAdapter implements out.AnalysisRepository using MongoDB. One
// document per session; saving again replaces the previous analysis.
type AnalysisAdapter struct {
	collection *mongo.Collection
}

// NewAnalysisAdapter creates a new MongoDB analysis adapter.
func NewAnalysisAdapter(db *mongo.Database) *AnalysisAdapter {
	return &AnalysisAdapter{collection: db.Collection(collectionAnalyses)}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *AnalysisAdapter) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := a.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// analysisDocument represents the MongoDB document structure.
type analysisDocument struct {
	SessionID string                 `bson:"session_id"`
	Record    *domain.AnalysisRecord `bson:"record"`
	CreatedAt time.Time              `bson:"created_at"`
}

// Save upserts the analysis for a session.
func (a *AnalysisAdapter) Save(ctx context.Context, sessionID uuid.UUID, record *domain.AnalysisRecord) error {
	doc := analysisDocument{
		SessionID: sessionID.String(),
		Record:    record,
		CreatedAt: time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"session_id": sessionID.String()}

	if _, err := a.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// Get returns the stored analysis, or nil when none exists.
func (a *AnalysisAdapter) Get(ctx context.Context, sessionID uuid.UUID) (*domain.AnalysisRecord, error) {
	var doc analysisDocument
	filter := bson.M{"session_id": sessionID.String()}

	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return doc.Record, nil
}

// Delete removes a session's analysis.
func (a *AnalysisAdapter) Delete(ctx context.Context, sessionID uuid.UUID) error {
	filter := bson.M{"session_id": sessionID.String()}

	if _, err := a.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}
