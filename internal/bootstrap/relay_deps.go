package bootstrap

import (
	"context"

	"relay_server/adapter/in/importer"
	"relay_server/adapter/out/catalog"
	"relay_server/adapter/out/mongodb"
	"relay_server/adapter/out/persistence"
	"relay_server/adapter/out/sentiment"
	"relay_server/config"
	"relay_server/core/port/out"
	"relay_server/core/service/analysis"
	"relay_server/core/service/recommendation"
	"relay_server/core/service/session"
	"relay_server/infra/database"
	"relay_server/pkg/cache"
	"relay_server/pkg/logger"
	"relay_server/pkg/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	SessionRepo  out.SessionRepository
	AnalysisRepo out.AnalysisRepository
	BatchRepo    out.RecommendationRepository

	// Outbound adapters
	Cache     out.Cache
	Catalog   out.CatalogService
	Sentiment out.SentimentProvider
	Importer  out.ConversationImporter

	// Services
	SessionService        *session.Service
	AnalysisService       *analysis.Service
	RecommendationService *recommendation.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Database (pgxpool) for migrations and health checks
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, nil, err
	}

	// Database (sqlx) for the session adapter
	sqlDB, err := database.NewSQLX(cfg.DatabaseURL)
	if err != nil {
		logger.Error("sqlx connection failed: %v", err)
		db.Close()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })
	deps.SessionRepo = persistence.NewSessionAdapter(sqlDB)
	metrics.RegisterPool("postgres", sqlDB.DB)

	// Redis (optional; feature cache degrades to direct API calls)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			deps.Cache = cache.NewRedisCache(redisClient)
		}
	}

	// MongoDB for analysis and recommendation documents
	mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
	if err != nil {
		runCleanups(cleanups)
		return nil, nil, err
	}
	deps.MongoDB = mongoClient
	cleanups = append(cleanups, func() {
		mongoClient.Disconnect(context.Background())
	})

	mongoDB := mongoClient.Database(cfg.MongoDBName)
	analysisRepo := mongodb.NewAnalysisAdapter(mongoDB)
	batchRepo := mongodb.NewRecommendationAdapter(mongoDB)
	deps.AnalysisRepo = analysisRepo
	deps.BatchRepo = batchRepo

	if err := analysisRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("analysis index creation failed: %v", err)
	}
	if err := batchRepo.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("recommendation index creation failed: %v", err)
	}

	// Spotify catalog
	deps.Catalog = catalog.NewSpotifyAdapter(&catalog.SpotifyConfig{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Market:       cfg.SpotifyMarket,
		UserID:       cfg.SpotifyUserID,
	}, deps.Cache)

	// Sentiment: OpenAI when a key is configured, lexicon otherwise
	if cfg.OpenAIAPIKey != "" {
		deps.Sentiment = sentiment.NewOpenAIAdapter(sentiment.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.LLMModel,
		})
		logger.Info("Sentiment provider: openai (%s)", cfg.LLMModel)
	} else {
		deps.Sentiment = sentiment.NewLexiconAdapter()
		logger.Info("Sentiment provider: lexicon")
	}

	// Importer
	deps.Importer = importer.NewCSVImporter()

	// Services
	deps.SessionService = session.NewService(deps.Importer, deps.SessionRepo, deps.AnalysisRepo, deps.BatchRepo)
	deps.AnalysisService = analysis.NewService(deps.Sentiment, deps.AnalysisRepo)
	deps.RecommendationService = recommendation.NewService(deps.Catalog, deps.AnalysisRepo, deps.BatchRepo)

	cleanup := func() { runCleanups(cleanups) }
	return deps, cleanup, nil
}

func runCleanups(cleanups []func()) {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
