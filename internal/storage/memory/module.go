package memory

import (
	"github.com/polkiloo/pointledger/internal/config"
)

// Open creates storage configured with the artificial latency from cfg.
func Open(cfg *config.Config) *Storage {
	return New(WithLatency(cfg.StoreLatency))
}
