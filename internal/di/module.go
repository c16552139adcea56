package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/adapter/kafka"
	"github.com/polkiloo/pointledger/internal/app"
	"github.com/polkiloo/pointledger/internal/config"
	"github.com/polkiloo/pointledger/internal/lock"
	"github.com/polkiloo/pointledger/internal/logger"
	"github.com/polkiloo/pointledger/internal/metrics"
	"github.com/polkiloo/pointledger/internal/server/http/router"
	"github.com/polkiloo/pointledger/internal/storage"
	"github.com/polkiloo/pointledger/internal/usecase"
)

// Module composes the application graph. opts are appended last so callers can replace providers.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		lock.Module,
		storage.Module,
		kafka.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
