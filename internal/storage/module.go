package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/config"
	"github.com/polkiloo/pointledger/internal/domain/repository"
	"github.com/polkiloo/pointledger/internal/storage/memory"
	"github.com/polkiloo/pointledger/internal/storage/postgres"
	"github.com/polkiloo/pointledger/internal/storage/redis"
)

// Module provides the repositories of the configured storage backend.
var Module = fx.Provide(newBackend)

type backendParams struct {
	fx.In

	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle fx.Lifecycle
}

type backendResult struct {
	fx.Out

	UserPoints     repository.UserPointRepository
	PointHistories repository.PointHistoryRepository
	Pinger         repository.Pinger
	// Transactor is nil for backends without multi-statement transactions.
	Transactor repository.Transactor
}

// noopPinger reports healthy for backends without a connection.
type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }

func newBackend(p backendParams) (backendResult, error) {
	var (
		factory repository.Factory
		pinger  repository.Pinger = noopPinger{}
		tx      repository.Transactor
	)

	switch p.Config.StorageBackend {
	case config.BackendMemory, "":
		factory = memory.Open(p.Config)
	case config.BackendPostgres:
		s, err := postgres.Open(postgres.Params{Ctx: p.Ctx, Config: p.Config, Logger: p.Logger, Lifecycle: p.Lifecycle})
		if err != nil {
			return backendResult{}, err
		}
		factory, pinger, tx = s, s, s
	case config.BackendRedis:
		s, err := redis.Open(redis.Params{Ctx: p.Ctx, Config: p.Config, Logger: p.Logger, Lifecycle: p.Lifecycle})
		if err != nil {
			return backendResult{}, err
		}
		factory, pinger = s, s
	default:
		return backendResult{}, fmt.Errorf("unknown storage backend %q", p.Config.StorageBackend)
	}

	p.Logger.Info("storage backend selected", slog.String("backend", p.Config.StorageBackend))
	return backendResult{
		UserPoints:     factory.UserPoints(),
		PointHistories: factory.PointHistories(),
		Pinger:         pinger,
		Transactor:     tx,
	}, nil
}
