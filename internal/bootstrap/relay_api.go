package bootstrap

import (
	"strings"
	"time"

	"relay_server/adapter/in/http"
	"relay_server/config"
	"relay_server/infra/middleware"
	"relay_server/pkg/logger"
	"relay_server/pkg/ratelimit"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func NewAPI(cfg *config.Config) (*fiber.App, *Dependencies, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "relay-api",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, nil, err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: cfg.IsProduction(),

		ReadBufferSize:  16384,
		WriteBufferSize: 16384,

		// go-json is measurably faster than encoding/json here
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,

		// CSV uploads are the largest request bodies
		BodyLimit: (cfg.MaxUploadMB + 1) * 1024 * 1024,

		ServerHeader:       "",
		DisableDefaultDate: true,
	})

	// Global middleware stack (order matters)
	app.Use(middleware.Recover())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// AllowCredentials:true requires explicit origins, never "*"
	allowOrigins := strings.Join(cfg.AllowedOrigins, ",")
	allowCredentials := true
	if allowOrigins == "" || allowOrigins == "*" {
		if cfg.IsProduction() {
			allowOrigins = ""
			allowCredentials = false
		} else {
			allowOrigins = "http://localhost:3000,http://localhost:5173"
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		ExposeHeaders:    "X-Request-ID,X-RateLimit-Limit,X-RateLimit-Remaining,X-RateLimit-Reset",
		AllowCredentials: allowCredentials,
		MaxAge:           86400,
	}))

	// Health checks (no auth)
	healthHandler := http.NewHealthHandler(deps.DB, deps.Redis, deps.MongoDB)
	healthHandler.Register(app)

	// API routes with rate limiting and auth
	api := app.Group("/api/v1")

	if deps.Redis != nil {
		limiter := ratelimit.NewSlidingWindowLimiter(deps.Redis, 300, time.Minute, 50)
		api.Use(middleware.RedisRateLimit(limiter))
	} else {
		rateLimiter := middleware.NewRateLimiter(300, time.Minute)
		api.Use(rateLimiter.Handler())
	}

	api.Use(middleware.Auth(cfg.JWTSecret))

	sessionHandler := http.NewSessionHandler(deps.SessionService, deps.AnalysisService)
	sessionHandler.Register(api)

	analysisHandler := http.NewAnalysisHandler(deps.AnalysisService)
	analysisHandler.Register(api)

	recommendationHandler := http.NewRecommendationHandler(deps.RecommendationService)
	recommendationHandler.Register(api)

	return app, deps, cleanup, nil
}
