package main

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

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/studyassist/backend/internal/api"
	"github.com/studyassist/backend/internal/config"
	"github.com/studyassist/backend/internal/events"
	"github.com/studyassist/backend/internal/goals"
	"github.com/studyassist/backend/internal/mirror"
	"github.com/studyassist/backend/internal/progress"
	"github.com/studyassist/backend/internal/quiz"
	"github.com/studyassist/backend/internal/seed"
	"github.com/studyassist/backend/internal/summary"
	"github.com/studyassist/backend/internal/upload"
	"github.com/studyassist/backend/internal/validate"
)

type app struct {
	cfg    *config.AppConfig
	logger *slog.Logger

	srv      *http.Server
	uploads  *upload.Manager
	attempts *quiz.Attempts
	tracker  *progress.Tracker
	mirror   *mirror.Redis
	closers  []func()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Advanced)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("path", path), slog.String("version", Version))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	return a.run(ctx)
}

func newApp(cfg *config.AppConfig, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	data, err := seed.Load(cfg.Tools.SeedDirectory)
	if err != nil {
		return nil, fmt.Errorf("load sample data: %w", err)
	}

	policy, err := upload.ParsePolicy(cfg.Upload.AllowedFileTypes, cfg.Upload.MaxFileSize, cfg.Upload.EnforcePolicy)
	if err != nil {
		return nil, err
	}
	classifier, err := upload.GetGlobalRegistry().New(cfg.Upload.Classifier, cfg.Categories())
	if err != nil {
		return nil, err
	}

	hub := events.NewHub(logger)
	hub.SetReadLimit(int64(cfg.Advanced.WebSocketMaxMessageSize) * 1024)
	sinks := events.Fanout{hub}

	if cfg.Redis.Enabled {
		rdb, err := mirror.NewClient(mirror.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		a.mirror = mirror.NewRedis(rdb, cfg.Redis.KeyPrefix, time.Duration(cfg.Redis.TTLSeconds)*time.Second, logger)
		sinks = append(sinks, a.mirror)
		logger.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))
	}

	if cfg.NATS.Enabled {
		nc, err := events.Connect(cfg.NATS.URL, "studyassist", cfg.NATS.MaxReconnects)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { nc.Drain() })
		sinks = append(sinks, events.NewNATSSink(nc, cfg.NATS.SubjectPrefix, logger))
		logger.Info("connected to nats", slog.String("url", cfg.NATS.URL))
	}

	engine, err := progress.NewEngine(cfg.Progress.Engine)
	if err != nil {
		a.close()
		return nil, err
	}

	a.uploads = upload.NewManager(upload.Config{
		TickInterval:    config.Millis(cfg.Upload.TickIntervalMs),
		ProcessingDelay: config.Millis(cfg.Upload.ProcessingDelayMs),
		MaxIncrement:    cfg.Upload.MaxIncrement,
	},
		upload.WithClassifier(classifier),
		upload.WithPolicy(policy),
		upload.WithSink(sinks),
		upload.WithLogger(logger),
	)

	delay := config.Millis(cfg.Tools.GenerationDelayMs)
	catalog := quiz.NewCatalog(data.Quizzes, quiz.TemplateGenerator{}, delay, logger)
	a.attempts = quiz.NewAttempts(catalog, cfg.Tools.MaxAttempts, logger)
	a.tracker = progress.NewTracker(data.Sessions, data.WeeklyGoals, engine, logger)

	deps := &api.Dependencies{
		UploadMgr: a.uploads,
		Policy:    policy,
		Hub:       hub,
		Goals:     goals.NewService(data.Goals, logger),
		Catalog:   catalog,
		Attempts:  a.attempts,
		Summaries: summary.NewService(data.Summaries, summary.TemplateSummarizer{}, delay, logger),
		Tracker:   a.tracker,
		Engine:    engine.Name(),
		Version:   Version,
		Logger:    logger,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	api.SetupMiddleware(e, api.MiddlewareConfig{
		EnableCORS:     cfg.Server.EnableCORS,
		AllowOrigins:   splitList(cfg.Server.AllowOrigins),
		BodyLimit:      cfg.Server.BodyLimit,
		RequestLogging: cfg.Advanced.EnableRequestLogging,
		Gzip:           cfg.Advanced.EnableCompression,
		GzipLevel:      cfg.Advanced.CompressionLevel,
	}, validate.New(), logger)
	api.RegisterRoutes(e, api.NewHandlers(deps))

	a.srv = &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      e,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	logger.Info("services ready",
		slog.Int("goals", len(data.Goals)),
		slog.Int("quizzes", len(data.Quizzes)),
		slog.Int("summaries", len(data.Summaries)),
		slog.Int("sessions", len(data.Sessions)),
		slog.String("engine", engine.Name()),
		slog.String("classifier", cfg.Upload.Classifier),
		slog.Bool("enforce_policy", policy.Enforce),
	)
	return a, nil
}

// run serves until ctx is cancelled or a component fails.
func (a *app) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting server", slog.String("addr", a.srv.Addr))
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := a.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		a.logger.Info("server gracefully stopped")
		return nil
	})

	g.Go(func() error {
		a.cleanupAttempts(gctx)
		return nil
	})

	if a.mirror != nil {
		g.Go(func() error {
			return a.mirror.Run(gctx)
		})
	}

	return g.Wait()
}

// cleanupAttempts drops idle quiz attempts on the configured interval.
func (a *app) cleanupAttempts(ctx context.Context) {
	interval := time.Duration(a.cfg.Tools.CleanupIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	maxAge := time.Duration(a.cfg.Tools.AttemptTimeoutMinutes) * time.Minute
	if maxAge <= 0 {
		maxAge = quiz.AttemptMaxAge
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.attempts.CleanupStale(maxAge); n > 0 {
				a.logger.Info("cleaned up stale quiz attempts", slog.Int("removed", n))
			}
		}
	}
}

// close stops the simulations before the sinks they publish to.
func (a *app) close() {
	if a.uploads != nil {
		a.uploads.Close()
	}
	if a.tracker != nil {
		if err := a.tracker.Close(); err != nil {
			a.logger.Warn("close progress engine", slog.String("error", err.Error()))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
