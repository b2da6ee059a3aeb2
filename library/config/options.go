package config

import (
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-management/pkg/database"
)

type Option func(cfg *Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(cfg *Config) {
		cfg.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(cfg *Config) {
		cfg.Server.WriteTimeout = timeout
	}
}

func WithDatabase(db database.DB) Option {
	return func(cfg *Config) {
		cfg.Database = db
	}
}
