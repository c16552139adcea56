package redis

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/config"
)

// Params are the dependencies needed to open Redis storage.
type Params struct {
	fx.In

	Ctx       context.Context
	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle fx.Lifecycle
}

// Open connects storage and closes it when the application stops.
func Open(p Params) (*Storage, error) {
	storage, err := New(p.Ctx, p.Config.RedisAddr, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return storage.Close()
		},
	})
	return storage, nil
}
