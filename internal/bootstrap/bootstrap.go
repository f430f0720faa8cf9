// Package bootstrap wires the platform, domain and transport layers together
// and owns the service lifecycle: ordered initialisation, startup under an
// error group and signal-driven graceful shutdown.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"glitchcam-server-go/internal/domain/auth"
	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/eventbus"
	"glitchcam-server-go/internal/domain/preset"
	platformconfig "glitchcam-server-go/internal/platform/config"
	platformerrors "glitchcam-server-go/internal/platform/errors"
	platformlogging "glitchcam-server-go/internal/platform/logging"
	platformobservability "glitchcam-server-go/internal/platform/observability"
	httptransport "glitchcam-server-go/internal/transport/http"
	httpeffect "glitchcam-server-go/internal/transport/http/effect"
	httppresets "glitchcam-server-go/internal/transport/http/presetapi"
	"glitchcam-server-go/internal/transport/ws"
)

const shutdownTimeout = 5 * time.Second

type stepFn func(context.Context, *appState) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

type appState struct {
	config                *platformconfig.Config
	configPath            string
	logger                *platformlogging.Logger
	slogger               *slog.Logger
	observabilityShutdown platformobservability.ShutdownFunc
	stats                 *eventbus.StatsHandler
	presetStore           preset.Store
	codec                 codec.Codec
}

// Run drives the whole service lifecycle: config, dependencies, servers,
// shutdown. It blocks until a signal arrives or a server fails.
func Run(ctx context.Context) error {
	state := &appState{}

	steps := InitGraph()
	if err := executeInitSteps(ctx, steps, state); err != nil {
		return err
	}

	config := state.config
	logger := state.logger
	if config == nil || logger == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"bootstrap state validation",
			"config/logger not initialised",
		)
	}

	logBootstrapGraph(steps, logger)

	if shutdown := state.observabilityShutdown; shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.WarnTag("Bootstrap", "observability shutdown failed: %v", err)
			}
		}()
	}

	defer func() {
		if state.presetStore != nil {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := state.presetStore.Close(closeCtx); err != nil {
				logger.WarnTag("Presets", "store close failed: %v", err)
			}
		}
		eventbus.Shutdown()
	}()

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if err := startServices(groupCtx, state, group); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, groupCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("Bootstrap", "server stopped cleanly")
	_ = logger.Close()
	return nil
}

// InitGraph lists the ordered initialisation steps with their dependencies.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init-provider",
			Title:     "Initialise logging provider",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "observability:setup-hooks",
			Title:     "Setup observability hooks",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   setupObservabilityStep,
		},
		{
			ID:        "events:setup-handlers",
			Title:     "Subscribe event handlers",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   setupEventHandlersStep,
		},
		{
			ID:        "codec:init",
			Title:     "Initialise image codec",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindCodec,
			Execute:   initCodecStep,
		},
		{
			ID:        "presets:init-store",
			Title:     "Initialise preset store",
			DependsOn: []string{"logging:init-provider"},
			Kind:      platformerrors.KindStorage,
			Execute:   initPresetStoreStep,
		},
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, state *appState) error {
	if state == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"execute init steps",
			"nil bootstrap state",
		)
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(
				platformerrors.KindBootstrap,
				step.ID,
				"missing execute function",
			)
		}
		if err := step.Execute(ctx, state); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}

			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

func logBootstrapGraph(steps []initStep, logger *platformlogging.Logger) {
	if logger == nil {
		return
	}
	logger.InfoTag("Bootstrap", "initialisation order")
	for _, step := range steps {
		logger.InfoTag("Bootstrap", "  %s (%s)", step.ID, step.Title)
	}
}

func loadConfigStep(_ context.Context, state *appState) error {
	result, err := platformconfig.NewLoader().WithDotEnv(true).Load()
	if err != nil {
		return err
	}
	state.config = result.Config
	state.configPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, state *appState) error {
	if state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"logging:init-provider",
			"config not loaded",
		)
	}

	logger, err := platformlogging.New(platformlogging.Config{
		Level:    state.config.Log.Level,
		Dir:      state.config.Log.Dir,
		Filename: state.config.Log.File,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "logging:init-provider", "failed to initialise logging provider", err)
	}

	state.logger = logger
	state.slogger = logger.Slog()

	origin := state.configPath
	if origin == "" {
		origin = "defaults"
	}
	logger.InfoTag("Bootstrap", "logging ready [%s] config=%s", state.config.Log.Level, origin)
	return nil
}

func setupObservabilityStep(ctx context.Context, state *appState) error {
	if state.logger == nil || state.config == nil {
		return platformerrors.New(
			platformerrors.KindBootstrap,
			"observability:setup-hooks",
			"config/logger not initialised",
		)
	}

	cfg := platformobservability.Config{
		Enabled: strings.EqualFold(state.config.Log.Level, "debug"),
	}

	shutdown, err := platformobservability.Setup(ctx, cfg, state.slogger)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "observability:setup-hooks", "failed to setup observability hooks", err)
	}
	state.observabilityShutdown = shutdown
	return nil
}

func setupEventHandlersStep(_ context.Context, state *appState) error {
	state.stats = eventbus.SetupEventHandlers(state.logger)
	return nil
}

func initCodecStep(_ context.Context, state *appState) error {
	state.codec = codec.NewStd()
	return nil
}

func initPresetStoreStep(_ context.Context, state *appState) error {
	cfg := state.config.Presets
	storeCfg := preset.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Driver)),
		TTL:    cfg.TTL,
		Redis: &preset.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		},
		SQLite: &preset.SQLiteConfig{
			DSN: cfg.SQLite.DSN,
		},
	}

	store, err := preset.New(storeCfg, preset.Dependencies{})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, "presets:init-store", "failed to initialise preset store", err)
	}
	state.presetStore = store

	if state.logger != nil {
		driver := storeCfg.Driver
		if driver == "" {
			driver = preset.DriverMemory
		}
		state.logger.InfoTag("Presets", "store ready driver=%s", driver)
	}
	return nil
}

func startServices(ctx context.Context, state *appState, group *errgroup.Group) error {
	config := state.config
	logger := state.logger

	var authMiddleware gin.HandlerFunc
	if config.Server.Auth.Enabled {
		issuer, err := auth.NewTokenIssuer(config.Server.Auth.Secret)
		if err != nil {
			return platformerrors.Wrap(platformerrors.KindBootstrap, "startServices", "failed to create token issuer", err)
		}
		authMiddleware = httptransport.BearerAuth(issuer)
	}

	router, err := httptransport.Build(httptransport.Options{
		Config:         config,
		Logger:         logger,
		AuthMiddleware: authMiddleware,
	})
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "startServices", "failed to build http router", err)
	}

	effectSvc, err := httpeffect.NewService(config, logger, state.codec, state.presetStore)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "startServices", "failed to create effect service", err)
	}
	effectSvc.Register(router.Secured)

	presetSvc, err := httppresets.NewService(logger, state.presetStore)
	if err != nil {
		return platformerrors.Wrap(platformerrors.KindTransport, "startServices", "failed to create preset service", err)
	}
	presetSvc.Register(router.API, router.Secured)

	stats := state.stats
	router.API.GET("/stats", func(c *gin.Context) {
		httptransport.RespondSuccess(c, http.StatusOK, stats.Snapshot(), "")
	})

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Server.IP, config.Server.Port),
		Handler: router.Engine,
	}

	group.Go(func() error {
		logger.InfoTag("HTTP", "listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return platformerrors.Wrap(platformerrors.KindTransport, "http.serve", "http server failed", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if config.Transport.WebSocket.Enabled {
		wsSrv := ws.NewServer(ws.ServerConfig{
			Addr: fmt.Sprintf("%s:%d", config.Transport.WebSocket.IP, config.Transport.WebSocket.Port),
			Path: config.Transport.WebSocket.Path,
		}, config, state.codec, state.presetStore, logger)

		group.Go(func() error {
			if err := wsSrv.Start(ctx); err != nil {
				return platformerrors.Wrap(platformerrors.KindTransport, "ws.serve", "websocket server failed", err)
			}
			return nil
		})
	}

	return nil
}

func waitForShutdown(
	signalCtx context.Context,
	groupCtx context.Context,
	cancel context.CancelFunc,
	logger *platformlogging.Logger,
	group *errgroup.Group,
) error {
	select {
	case <-signalCtx.Done():
		logger.InfoTag("Bootstrap", "shutdown signal received")
	case <-groupCtx.Done():
		logger.WarnTag("Bootstrap", "a service stopped, shutting down")
	}

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- group.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorTag("Bootstrap", "shutdown finished with error: %v", err)
			return err
		}
		logger.InfoTag("Bootstrap", "all services stopped")
	case <-time.After(15 * time.Second):
		timeoutErr := errors.New("shutdown timed out")
		logger.ErrorTag("Bootstrap", "shutdown timed out, forcing exit")
		return timeoutErr
	}
	return nil
}
