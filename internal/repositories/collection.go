// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"

	"personahub/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Account    AccountRepository
	Profile    ProfileRepository
	Category   CategoryRepository
	Post       PostRepository
	Question   QuestionRepository
	Engagement EngagementRepository

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.Account = NewAccountRepository(db, logger)
	collection.Profile = NewProfileRepository(db, logger)
	collection.Category = NewCategoryRepository(db, logger)
	collection.Post = NewPostRepository(db, logger)
	collection.Question = NewQuestionRepository(db, logger)
	collection.Engagement = NewEngagementRepository(db, logger)

	logger.Info("repository collection initialized")

	return collection, nil
}

// HealthCheck reports database connectivity and pool state
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	dbHealth := c.db.Health(ctx)

	return map[string]interface{}{
		"database": map[string]interface{}{
			"healthy":    dbHealth.Healthy,
			"latency":    dbHealth.Latency.String(),
			"open_conns": dbHealth.OpenConns,
			"in_use":     dbHealth.InUse,
			"error":      dbHealth.Error,
		},
	}
}

// GetDB returns the underlying database manager for advanced operations
func (c *Collection) GetDB() *database.Manager {
	return c.db
}

// GetLogger returns the logger instance
func (c *Collection) GetLogger() *zap.Logger {
	return c.logger
}

// Close closes the underlying database connection
func (c *Collection) Close() error {
	c.logger.Info("closing repository collection")

	if c.db != nil {
		return c.db.Close()
	}

	return nil
}
