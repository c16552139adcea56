package test

import (
	"math/rand"
	"sync"
	"time"

	"github.com/polkiloo/pointledger/internal/domain/model"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomUserID returns a positive pseudo-random user id.
func RandomUserID() int64 {
	return randomInt63n(1<<40) + 1
}

// RandomChargeAmount returns a valid charge amount of between minUnits and maxUnits charge units.
func RandomChargeAmount(minUnits, maxUnits int64) int64 {
	if minUnits <= 0 {
		minUnits = 1
	}
	if maxUnits < minUnits {
		maxUnits = minUnits
	}
	units := minUnits
	if maxUnits > minUnits {
		units += randomInt63n(maxUnits - minUnits + 1)
	}
	return units * model.ChargeUnit
}

func randomInt63n(n int64) int64 {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Int63n(n)
}
