package main

import (
	"context"
	"fmt"
	"os"
)

// application is the part of *fx.App driven by run.
type application interface {
	Err() error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Done() <-chan os.Signal
}

// run starts app, blocks until ctx is cancelled or app asks to shut down, then stops it.
func run(ctx context.Context, app application) error {
	if err := app.Err(); err != nil {
		return fmt.Errorf("build application: %w", err)
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		return fmt.Errorf("stop application: %w", err)
	}
	return nil
}
