package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/domain/repository"
	"github.com/polkiloo/pointledger/internal/lock"
	"github.com/polkiloo/pointledger/internal/metrics"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(newPointUseCase)

type pointUseCaseParams struct {
	fx.In

	Points     repository.UserPointRepository
	Histories  repository.PointHistoryRepository
	Locks      *lock.Registry
	Transactor repository.Transactor `optional:"true"`
	Logger     *slog.Logger          `optional:"true"`
	Metrics    *metrics.Metrics      `optional:"true"`
	Events     EventSink             `optional:"true"`
}

func newPointUseCase(p pointUseCaseParams) *PointUseCase {
	opts := []Option{WithLogger(p.Logger)}
	if p.Metrics != nil {
		opts = append(opts, WithObserver(p.Metrics))
	}
	if p.Transactor != nil {
		opts = append(opts, WithTransactor(p.Transactor))
	}
	if p.Events != nil {
		opts = append(opts, WithEvents(p.Events))
	}
	return NewPointUseCase(p.Points, p.Histories, p.Locks, opts...)
}
