//go:build wireinject
// +build wireinject

package inventory

import (
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pawcare/stock-ledger/internal/inventory/domain"
	"github.com/pawcare/stock-ledger/internal/inventory/notification"
	"github.com/pawcare/stock-ledger/internal/inventory/repository"
	"github.com/pawcare/stock-ledger/internal/inventory/usecase/command"
)

// ProvideStockRepository provides the traced item repository
func ProvideStockRepository(db *gorm.DB) *repository.GormRepositoryWithTracing {
	return repository.NewGormRepositoryWithTracing(db)
}

// ProvideItemRepository provides the item repository interface
func ProvideItemRepository(repo *repository.GormRepositoryWithTracing) domain.ItemRepository {
	return repo
}

// ProvideStockStore provides the transactional stock store
func ProvideStockStore(repo *repository.GormRepositoryWithTracing) domain.StockStore {
	return repo
}

// ProvideMovementRepository provides the movement ledger repository
func ProvideMovementRepository(db *gorm.DB) domain.MovementRepository {
	return repository.NewGormMovementRepository(db)
}

// ProvideNotificationCenter provides the notification center
func ProvideNotificationCenter() *notification.Center {
	return notification.NewCenter()
}

// ProvideSessions provides the per-session command history registry
func ProvideSessions() *command.Sessions {
	return command.NewSessions(command.DefaultMaxHistory)
}

// ProvideStatsCache provides the Redis-backed stats cache
func ProvideStatsCache(redisClient *redis.Client) *repository.StatsCache {
	return repository.NewStatsCache(redisClient, 30*time.Second)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideStockRepository,
	ProvideItemRepository,
	ProvideStockStore,
	ProvideMovementRepository,
	ProvideStatsCache,
)

var ServiceSet = wire.NewSet(
	ProvideNotificationCenter,
	ProvideSessions,
	NewService,
)

// InitializeService initializes the stock service with all dependencies
func InitializeService(db *gorm.DB, redisClient *redis.Client) (*Service, error) {
	wire.Build(
		RepositorySet,
		ServiceSet,
	)
	return nil, nil
}
