package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/pointledger/internal/config"
	"github.com/polkiloo/pointledger/internal/metrics"
	"github.com/polkiloo/pointledger/internal/server/http/handlers"
	"github.com/polkiloo/pointledger/internal/usecase"
	"github.com/polkiloo/pointledger/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewPointFacade,
		func(f *PointFacade) handlers.PointFacade { return f },
		newHTTPServer,
		newEventDispatcher,
		newEventSink,
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type dispatcherParams struct {
	fx.In

	Publisher worker.Publisher
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

func newEventDispatcher(p dispatcherParams) *worker.EventDispatcher {
	return worker.NewEventDispatcher(
		p.Publisher,
		p.Config.EventWorkers,
		p.Config.EventBuffer,
		p.Logger,
		p.Metrics,
	)
}

// newEventSink hands the dispatcher to the use case only when brokers are configured.
func newEventSink(cfg *config.Config, d *worker.EventDispatcher) usecase.EventSink {
	if !cfg.EventsEnabled() {
		return nil
	}
	return d
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.EventDispatcher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting pointledger",
				slog.String("addr", p.Server.Addr),
				slog.String("storage", p.Config.StorageBackend),
				slog.Bool("events", p.Config.EventsEnabled()),
			)
			p.Dispatcher.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			serverErr := p.Server.Shutdown(shutdownCtx)
			if errors.Is(serverErr, http.ErrServerClosed) {
				serverErr = nil
			}
			dispatcherErr := p.Dispatcher.Stop(shutdownCtx)
			if err := errors.Join(serverErr, dispatcherErr); err != nil {
				return err
			}
			p.Logger.Info("pointledger stopped")
			return nil
		},
	})
}
