// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"
	"time"

	"personahub/internal/cache"
	"personahub/internal/config"
	"personahub/internal/database"
	"personahub/internal/events"
	"personahub/internal/repositories"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// ServiceCollection holds all services with dependency injection
type ServiceCollection struct {
	// Core services
	AuthService       AuthService       `json:"-"`
	ProfileService    ProfileService    `json:"-"`
	PostService       PostService       `json:"-"`
	QuestionService   QuestionService   `json:"-"`
	CategoryService   CategoryService   `json:"-"`
	EngagementService EngagementService `json:"-"`

	// Infrastructure services
	FileService FileService `json:"-"`

	// Repository collection
	Repositories *repositories.Collection `json:"-"`

	// Infrastructure components
	Cache      cache.Cache            `json:"-"`
	EventBus   events.EventBus        `json:"-"`
	Logger     *zap.Logger            `json:"-"`
	Config     *config.Config         `json:"-"`
	DBManager  *database.Manager      `json:"-"`
	Cloudinary *cloudinary.Cloudinary `json:"-"`
}

// NewServiceCollection creates the full service graph in dependency order
func NewServiceCollection(
	dbManager *database.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
	}

	if err := sc.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	if err := sc.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := sc.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("service collection initialized")
	return sc, nil
}

// ===============================
// INITIALIZATION
// ===============================

func (sc *ServiceCollection) initializeInfrastructure() error {
	cacheInstance, err := cache.New(&cache.Config{
		Provider:        sc.Config.Cache.Provider,
		TTL:             sc.Config.Cache.DefaultTTL,
		CleanupInterval: sc.Config.Cache.CleanupInterval,
		RedisURL:        sc.Config.Cache.RedisURL,
		MaxKeys:         10000,
		PoolSize:        10,
	}, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	sc.Cache = cacheInstance

	sc.EventBus = events.NewInMemoryEventBus(events.DefaultEventBusConfig(), sc.Logger)
	if err := sc.EventBus.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}

	if sc.Config.Cloudinary.CloudName != "" {
		cld, err := cloudinary.NewFromParams(
			sc.Config.Cloudinary.CloudName,
			sc.Config.Cloudinary.APIKey,
			sc.Config.Cloudinary.APISecret,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize cloudinary: %w", err)
		}
		sc.Cloudinary = cld
	}

	return nil
}

func (sc *ServiceCollection) initializeRepositories() error {
	collection, err := repositories.NewCollection(sc.DBManager, sc.Logger)
	if err != nil {
		return err
	}
	sc.Repositories = collection
	return nil
}

func (sc *ServiceCollection) initializeServices() error {
	repos := sc.Repositories

	sc.AuthService = NewAuthService(repos.Account, repos.Profile, &sc.Config.Auth, sc.EventBus, sc.Logger)
	sc.ProfileService = NewProfileService(repos.Profile, repos.Account, sc.Cache, sc.EventBus, sc.Logger)
	sc.CategoryService = NewCategoryService(repos.Category, sc.Cache, sc.Logger)
	sc.PostService = NewPostService(repos.Post, repos.Profile, repos.Category, sc.Cache, sc.EventBus, sc.Logger)
	sc.QuestionService = NewQuestionService(repos.Question, repos.Profile, repos.Category, sc.Cache, sc.EventBus, sc.Logger)
	sc.EngagementService = NewEngagementService(repos.Engagement, sc.EventBus, sc.Logger)

	if sc.Cloudinary != nil {
		sc.FileService = NewFileService(sc.Cloudinary, repos.Profile, &sc.Config.Cloudinary, sc.EventBus, sc.Logger)
	}

	return nil
}

// ===============================
// HEALTH AND SHUTDOWN
// ===============================

// HealthCheck reports the health of the collection's dependencies
func (sc *ServiceCollection) HealthCheck(ctx context.Context) map[string]interface{} {
	health := sc.Repositories.HealthCheck(ctx)

	cacheStatus := "healthy"
	if err := sc.Cache.Health(ctx); err != nil {
		cacheStatus = err.Error()
	}
	health["cache"] = cacheStatus

	busStatus := "healthy"
	if err := sc.EventBus.Health(); err != nil {
		busStatus = err.Error()
	}
	health["event_bus"] = busStatus

	return health
}

// Shutdown stops background components and closes connections
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("shutting down service collection")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := sc.EventBus.Stop(shutdownCtx); err != nil {
		sc.Logger.Warn("failed to stop event bus cleanly", zap.Error(err))
	}

	if err := sc.Cache.Close(); err != nil {
		sc.Logger.Warn("failed to close cache", zap.Error(err))
	}

	return sc.Repositories.Close()
}
