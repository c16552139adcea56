package kafka

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/config"
	"github.com/polkiloo/pointledger/internal/worker"
)

// Module exposes the Kafka publisher as the event dispatcher's Publisher.
var Module = fx.Options(
	fx.Provide(
		newPublisher,
		func(p *Publisher) worker.Publisher { return p },
	),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) *Publisher {
	return NewPublisher(p.Config.KafkaBrokers, p.Config.KafkaTopic, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, p *Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
}
