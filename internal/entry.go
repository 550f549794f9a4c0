// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/discovery"
	"github.com/starford/ansuz/internal/engine"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/preview"
	"github.com/starford/ansuz/internal/publisher"
	"github.com/starford/ansuz/internal/storage"
)

// Run executes a publish with the given options. With WithWatch it keeps
// running, republishing on vault changes until interrupted.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(cfg)
	logger.Info("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("output_path", cfg.Output.Path),
		slog.String("link_style", cfg.Transforms.Links.Style),
		slog.String("log_level", cfg.App.LogLevel.String()))

	pub, err := buildPublisher(cfg, logger)
	if err != nil {
		return err
	}

	result, err := pub.Publish(ctx, app.dryRun)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	reportResult(logger, result)

	if !app.watch {
		if n := len(result.Failures); n > 0 {
			return fmt.Errorf("publish completed with %d failed notes", n)
		}
		return nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		return pub.Watch(gCtx, cfg.Vault.Path, 500*time.Millisecond)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Watch stopped")
	return nil
}

// RunPreview serves the published output directory until interrupted.
func RunPreview(ctx context.Context, opts ...Option) error {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := newLogger(cfg)

	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(srvCtx)

	g.Go(func() error {
		return preview.New(cfg.Output.Path, cfg.App.HTTP.Address(), logger).Run(gCtx)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// newLogger initializes the structured JSON logger and installs it as the
// default.
func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildPublisher wires storage, discovery, transforms, and the engine from
// configuration. Invalid transform configuration fails here, before any
// note is read.
func buildPublisher(cfg *Config, logger *slog.Logger) (*publisher.Publisher, error) {
	vaultFS, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init vault: %w", err)
	}
	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	outFS, err := storage.NewFS(cfg.Output.Path)
	if err != nil {
		return nil, fmt.Errorf("init output: %w", err)
	}

	renderLink, err := cfg.Transforms.Links.Renderer()
	if err != nil {
		return nil, err
	}
	rewriteTags, err := cfg.Transforms.Tags.Rewriter()
	if err != nil {
		return nil, err
	}
	rewriteFM, err := cfg.Transforms.Frontmatter.Rewriter()
	if err != nil {
		return nil, err
	}

	scanner := discovery.NewScanner(vaultFS,
		discovery.WithSourceDirs(cfg.Vault.SourceDirs...),
		discovery.WithRequiredTags(cfg.Vault.RequiredTags...),
		discovery.WithExcludedTags(cfg.Vault.ExcludedTags...),
		discovery.WithLogger(logger),
	)

	engineOpts := []engine.ProcessorOption{
		engine.WithImagePathPrefix(cfg.Output.ImagePathPrefix),
		engine.WithMissingLinkWarnings(cfg.Output.WarnMissing),
		engine.WithOutputImageExtension(cfg.Output.ImageExtension),
	}
	if rewriteTags != nil {
		engineOpts = append(engineOpts, engine.WithTagRewriter(rewriteTags))
	}
	if rewriteFM != nil {
		engineOpts = append(engineOpts, engine.WithFrontmatterRewriter(rewriteFM))
	}

	return publisher.New(vaultFS, outFS, scanner, renderLink,
		publisher.WithContentDir(cfg.Output.ContentDir),
		publisher.WithImageDir(cfg.Output.ImageDir),
		publisher.WithOutputImageExtension(cfg.Output.ImageExtension),
		publisher.WithConcurrency(cfg.Output.Concurrency),
		publisher.WithEngineOptions(engineOpts...),
		publisher.WithLogger(logger),
	), nil
}

// reportResult logs the outcome of a publish run, including diagnostics.
func reportResult(logger *slog.Logger, result *models.PublishResult) {
	logger.Info("Publish complete",
		slog.Bool("dry_run", result.DryRun),
		slog.Int("published", len(result.PublishedTitles)),
		slog.Int("failures", len(result.Failures)),
		slog.Int("removed_images", len(result.RemovedImages)))

	for _, f := range result.Failures {
		logger.Warn("Note failed", slog.String("title", f.Title), slog.String("error", f.Err.Error()))
	}
	for title, targets := range result.MissingLinks {
		logger.Warn("Unresolved wikilinks",
			slog.String("note", title),
			slog.String("targets", strings.Join(targets, ", ")))
	}
}
