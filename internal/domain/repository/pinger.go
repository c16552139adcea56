package repository

import "context"

// Pinger is implemented by backends that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
