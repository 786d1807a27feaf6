package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"relay_server/core/domain"
	"relay_server/core/port/out"
	"relay_server/pkg/apperr"
	"relay_server/pkg/logger"

	"github.com/google/uuid"
)

// Service orchestrates the four analysis stages over one message set
// and persists the resulting record. Stages run strictly in sequence;
// each run owns its record with no state shared across runs.
type Service struct {
	emotions  *EmotionClassifier
	sentiment *SentimentEstimator
	topics    *TopicExtractor
	temporal  *TemporalProfiler

	analysisRepo out.AnalysisRepository
}

// NewService wires the analyzer from its stages and repository.
func NewService(provider out.SentimentProvider, analysisRepo out.AnalysisRepository) *Service {
	return &Service{
		emotions:     NewEmotionClassifier(),
		sentiment:    NewSentimentEstimator(provider),
		topics:       NewTopicExtractor(),
		temporal:     NewTemporalProfiler(),
		analysisRepo: analysisRepo,
	}
}

// Analyze runs the full pipeline and stores the record under the
// session id. An empty message set is a client error, not a panic.
func (s *Service) Analyze(ctx context.Context, sessionID uuid.UUID, messages []domain.Message) (*domain.AnalysisRecord, error) {
	if len(messages) == 0 {
		return nil, apperr.BadRequest("nothing to analyze: message set is empty")
	}

	start := time.Now()

	record := &domain.AnalysisRecord{
		Emotions:     s.emotions.Profile(messages),
		Sentiment:    s.sentiment.Profile(ctx, messages),
		Topics:       s.topics.Profile(messages),
		Temporal:     s.temporal.Profile(messages),
		MessageCount: len(messages),
	}
	record.Summary = buildSummary(record)

	if s.analysisRepo != nil {
		if err := s.analysisRepo.Save(ctx, sessionID, record); err != nil {
			return nil, apperr.DatabaseError("save analysis", err)
		}
	}

	logger.WithFields(map[string]any{
		"session_id":  sessionID.String(),
		"messages":    len(messages),
		"dominant":    string(record.Emotions.Dominant),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("analysis completed")

	return record, nil
}

// GetAnalysis returns a previously stored record.
func (s *Service) GetAnalysis(ctx context.Context, sessionID uuid.UUID) (*domain.AnalysisRecord, error) {
	record, err := s.analysisRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, apperr.DatabaseError("get analysis", err)
	}
	if record == nil {
		return nil, apperr.NotFound("analysis")
	}
	return record, nil
}

// buildSummary renders the natural-language overview of a record.
func buildSummary(record *domain.AnalysisRecord) string {
	dominant := record.Emotions.Dominant
	sentiment := record.Sentiment

	terms := make([]string, 0, 5)
	for i, tc := range record.Topics.TopTerms {
		if i == 5 {
			break
		}
		terms = append(terms, tc.Term)
	}
	topicLine := "no recurring topics stood out"
	if len(terms) > 0 {
		topicLine = "the main topics discussed include " + strings.Join(terms, ", ")
	}

	return fmt.Sprintf(
		"This conversation contains %d messages with a %s overall tone (sentiment score: %.3f). "+
			"It is predominantly %s, with %.1f%% of emotional signals expressing this emotion; %s. "+
			"The emotional tone appears to be %s throughout the conversation.",
		record.MessageCount,
		strings.ToLower(string(sentiment.Label)),
		sentiment.AveragePolarity,
		dominant,
		record.Emotions.Percentages[dominant],
		topicLine,
		strings.ToLower(string(sentiment.Trend)),
	)
}
