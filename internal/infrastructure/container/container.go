package container

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/heartlinkapp/heartlink-backend/internal/cache"
	"github.com/heartlinkapp/heartlink-backend/internal/config"
	"github.com/heartlinkapp/heartlink-backend/internal/delivery/http"
	"github.com/heartlinkapp/heartlink-backend/internal/delivery/http/handler"
	"github.com/heartlinkapp/heartlink-backend/internal/delivery/http/middleware"
	"github.com/heartlinkapp/heartlink-backend/internal/infrastructure/database"
	"github.com/heartlinkapp/heartlink-backend/internal/infrastructure/gemini"
	"github.com/heartlinkapp/heartlink-backend/internal/infrastructure/server"
	"github.com/heartlinkapp/heartlink-backend/internal/repository/postgres"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/auth"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/like"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/matches"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/profile"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger zerolog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client
	Server *server.Server
	Gemini *gemini.Client
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	logger := newLogger(cfg.Logging.Level)

	// Initialize database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize cache backend
	var (
		appCache    cache.Cache
		redisClient *redis.Client
	)
	switch cfg.Cache.Backend {
	case "redis":
		redisClient, err = database.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		appCache = cache.NewRedis(redisClient)
	default:
		appCache = cache.NewMemory()
	}

	// Initialize Gemini client. Enrichment is optional, so a failure
	// here downgrades to running without AI features.
	var enricher like.Enricher
	var geminiClient *gemini.Client
	if cfg.GeminiAPIKey != "" {
		geminiClient, err = gemini.NewClient(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn().Err(err).Msg("gemini client unavailable, continuing without match enrichment")
		} else {
			enricher = geminiClient
		}
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	likeRepo := postgres.NewLikeRepository(db)
	matchRepo := postgres.NewMatchRepository(db)

	// Initialize use cases
	authUseCase := auth.NewUseCase(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.TokenTTL,
		logger,
	)

	profileUseCase := profile.NewProfileUseCase(userRepo)

	likeUseCase := like.NewUseCase(
		likeRepo,
		matchRepo,
		userRepo,
		enricher,
		logger,
	)

	matchesUseCase := matches.NewUseCase(
		userRepo,
		matchRepo,
		appCache,
		matches.Config{
			MatchesTTL:    cfg.Cache.MatchesTTL,
			CandidatesTTL: cfg.Cache.CandidatesTTL,
		},
		logger,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUseCase, profileUseCase)
	profileHandler := handler.NewProfileHandler(profileUseCase)
	likeHandler := handler.NewLikeHandler(likeUseCase)
	matchHandler := handler.NewMatchHandler(matchesUseCase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authUseCase)

	// Initialize router
	router := http.NewRouter(
		authHandler,
		profileHandler,
		likeHandler,
		matchHandler,
		authMiddleware,
	)

	// Setup routes
	ginRouter := router.Setup()

	// Initialize server
	srv := server.NewServer(&cfg.Server, ginRouter)

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Redis:  redisClient,
		Server: srv,
		Gemini: geminiClient,
	}, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		c.Gemini.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn().Err(err).Msg("error closing redis")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
