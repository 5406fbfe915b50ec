package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrInsufficientFunds is returned by wallet operations when the debited
// account does not hold the requested amount at commit time.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Service is the concrete store backed by PostgreSQL (rows) and Redis
// (change feed, idempotency keys).
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewService Constructor
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Ping verifies both backing connections.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	return s.Redis.Ping(ctx).Err()
}
