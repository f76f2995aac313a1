package app

import (
	"log/slog"
	"time"

	"github.com/oggyb/sportly/internal/cache"
	"github.com/oggyb/sportly/internal/config"
	"gorm.io/gorm"
)

// AppContext holds shared dependencies (Config, DB, Redis, Logger, clock)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	// Now is the clock; tests replace it to pin calendar days.
	Now func() time.Time
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Now:        time.Now,
	}
}
