package lock

import (
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/config"
	"github.com/polkiloo/pointledger/internal/metrics"
)

// Module provides the per-user lock registry.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Config  *config.Config
	Metrics *metrics.Metrics `optional:"true"`
}

func newRegistry(p registryParams) *Registry {
	var opts []Option
	if p.Metrics != nil {
		opts = append(opts, WithWaitObserver(func(d time.Duration) {
			p.Metrics.ObserveLockWait(d)
		}))
	}
	return NewRegistry(p.Config.LockShards, opts...)
}
