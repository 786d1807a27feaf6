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

const collectionRecommendations = "recommendation_batches"

// RecommendationAdapter implements out.RecommendationRepository using
// MongoDB. The latest batch per session replaces the previous one.
type RecommendationAdapter struct {
	collection *mongo.Collection
}

// NewRecommendationAdapter creates a new MongoDB recommendation adapter.
func NewRecommendationAdapter(db *mongo.Database) *RecommendationAdapter {
	return &RecommendationAdapter{collection: db.Collection(collectionRecommendations)}
}

// EnsureIndexes creates necessary indexes for the collection.
func (a *RecommendationAdapter) EnsureIndexes(ctx context.Context) error {
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

// batchDocument represents the MongoDB document structure.
type batchDocument struct {
	SessionID       string                        `bson:"session_id"`
	Recommendations []domain.ScoredRecommendation `bson:"recommendations"`
	CreatedAt       time.Time                     `bson:"created_at"`
}

// SaveBatch upserts the recommendation batch for a session.
func (a *RecommendationAdapter) SaveBatch(ctx context.Context, sessionID uuid.UUID, recs []domain.ScoredRecommendation) error {
	doc := batchDocument{
		SessionID:       sessionID.String(),
		Recommendations: recs,
		CreatedAt:       time.Now().UTC(),
	}

	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"session_id": sessionID.String()}

	if _, err := a.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save recommendation batch: %w", err)
	}
	return nil
}

// GetBatch returns the stored batch, or nil when none exists.
func (a *RecommendationAdapter) GetBatch(ctx context.Context, sessionID uuid.UUID) ([]domain.ScoredRecommendation, error) {
	var doc batchDocument
	filter := bson.M{"session_id": sessionID.String()}

	err := a.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recommendation batch: %w", err)
	}
	return doc.Recommendations, nil
}

// Delete removes a session's recommendation batch.
func (a *RecommendationAdapter) Delete(ctx context.Context, sessionID uuid.UUID) error {
	filter := bson.M{"session_id": sessionID.String()}

	if _, err := a.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete recommendation batch: %w", err)
	}
	return nil
}
