package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmcdole/locker/internal/config"
	"github.com/mmcdole/locker/internal/controller"
	"github.com/mmcdole/locker/internal/kakao"
	"github.com/mmcdole/locker/internal/log"
	"github.com/mmcdole/locker/internal/store"
	"github.com/mmcdole/locker/internal/usecase"
)

// app holds the wired core shared by the TUI and the headless commands
type app struct {
	store  *store.Watched
	ctrl   *controller.ThumbnailController
	logger *slog.Logger
}

// newApp wires the store, the Kakao client and the controller. extra options
// are applied after the ones derived from cfg.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...controller.Option) (*app, error) {
	opts, err := controllerOptions(cfg.Controller, logger)
	if err != nil {
		return nil, err
	}

	dir, err := log.ExpandHome(cfg.Locker.Path)
	if err != nil {
		return nil, err
	}

	backend, err := store.Open(ctx, store.Options{
		Backend: cfg.Locker.Backend,
		Dir:     dir,
		Redis: store.RedisOptions{
			Addr:     cfg.Locker.RedisAddr,
			Password: cfg.Locker.RedisPassword,
			DB:       cfg.Locker.RedisDB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open locker: %w", err)
	}
	watched := store.NewWatched(backend, logger)

	client := kakao.NewClient(cfg.Kakao.BaseURL, cfg.Kakao.APIKey,
		kakao.WithPageSize(cfg.Kakao.PageSize),
		kakao.WithRateLimit(cfg.Kakao.RateLimit),
		kakao.WithTimeout(cfg.Kakao.Timeout),
		kakao.WithLogger(logger),
	)

	locker := usecase.NewLocker(watched, logger)
	ctrl := controller.New(controller.UseCases{
		Search:  usecase.NewSearch(client, logger),
		LoadAll: usecase.FirstEmission(watched.Watch),
		Save:    locker.SaveUseCase(),
		Delete:  locker.DeleteUseCase(),
	}, append(opts, extra...)...)

	logger.Debug("app wired", "backend", cfg.Locker.Backend, "optimistic", cfg.Controller.Optimistic)
	return &app{store: watched, ctrl: ctrl, logger: logger}, nil
}

// controllerOptions translates the controller section of the config
func controllerOptions(cfg config.ControllerConfig, logger *slog.Logger) ([]controller.Option, error) {
	kinds := make([]controller.FailureKind, 0, len(cfg.SurfaceFailures))
	for _, name := range cfg.SurfaceFailures {
		kind, err := controller.ParseFailureKind(name)
		if err != nil {
			return nil, fmt.Errorf("controller.surface_failures: %w", err)
		}
		kinds = append(kinds, kind)
	}

	return []controller.Option{
		controller.WithLogger(logger),
		controller.WithOperationTimeout(cfg.OperationTimeout),
		controller.WithOptimisticUpdates(cfg.Optimistic),
		controller.WithSurfacedFailures(kinds...),
	}, nil
}

// Close tears the controller down before closing the store it writes to
func (a *app) Close() {
	a.ctrl.Teardown()
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close locker", "error", err)
	}
}
