package app

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"preneed-scheduler/internal/config"
)

// App carries the shared dependencies of every handler.
type App struct {
	DB       *pgxpool.Pool
	Cfg      *config.Config
	Settings *SettingsCache
	InFlight *Guard
}

func New(pool *pgxpool.Pool, cfg *config.Config) (*App, error) {
	cache, err := NewSettingsCache(cfg.Cache.SettingsSize)
	if err != nil {
		return nil, err
	}
	return &App{
		DB:       pool,
		Cfg:      cfg,
		Settings: cache,
		InFlight: NewGuard(),
	}, nil
}
