// Package internal is the composition root: configuration, loggers,
// adapters and the collect use case are created and wired here.
package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/Oikion/mvp-sub003/internal/adapters/browserfetcher"
	"github.com/Oikion/mvp-sub003/internal/adapters/filestorage"
	"github.com/Oikion/mvp-sub003/internal/adapters/httpfetcher"
	logger_adapter "github.com/Oikion/mvp-sub003/internal/adapters/logger"
	"github.com/Oikion/mvp-sub003/internal/configs"
	"github.com/Oikion/mvp-sub003/internal/contextkeys"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	usecases_port "github.com/Oikion/mvp-sub003/internal/core/port/usecases"
	"github.com/Oikion/mvp-sub003/internal/core/usecase"
	"github.com/Oikion/mvp-sub003/internal/ratelimit"
	"github.com/Oikion/mvp-sub003/internal/registry"
	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
)

type App struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent
	browser      *browserfetcher.BrowserFetcherAdapter

	registry  port.SourceRegistryPort
	sink      port.ListingSinkPort
	collector usecases_port.CollectListingsPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluent.New(fluent.Config{
			FluentHost: appConfig.FluentBit.Host,
			FluentPort: appConfig.FluentBit.Port,
			TagPrefix:  appConfig.AppName,
			Async:      true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	var sourceRegistry *registry.Registry
	if appConfig.RegistryPath != "" {
		sourceRegistry, err = registry.NewFromFile(appConfig.RegistryPath)
	} else {
		sourceRegistry, err = registry.New()
	}
	if err != nil {
		appLogger.Error("Failed to load source registry", err, nil)
		return nil, fmt.Errorf("failed to load source registry: %w", err)
	}
	appLogger.Info("Source registry loaded", port.Fields{"sources": len(sourceRegistry.All())})

	staticFetcher, err := httpfetcher.NewHTTPFetcherAdapter()
	if err != nil {
		appLogger.Error("Failed to create HTTP fetcher", err, nil)
		return nil, fmt.Errorf("failed to initialize http fetcher: %w", err)
	}

	// assigning a nil *BrowserFetcherAdapter into the interface would
	// make it non-nil; keep the interface nil when the browser is off
	var browserAdapter *browserfetcher.BrowserFetcherAdapter
	var browserFetcher port.PageFetcherPort
	if appConfig.Browser.Enabled {
		browserAdapter = browserfetcher.NewBrowserFetcherAdapter(appConfig.Browser.Headless)
		browserFetcher = browserAdapter
		appLogger.Info("Browser fetcher initialized", port.Fields{"headless": appConfig.Browser.Headless})
	} else {
		appLogger.Warn("Browser fetcher disabled; script-rendered sources run on the static strategy", nil)
	}

	sink, err := filestorage.NewFileListingSinkAdapter(appConfig.OutputDir)
	if err != nil {
		appLogger.Error("Failed to create listing sink", err, nil)
		return nil, err
	}

	collectUseCase := usecase.NewCollectListingsUseCase(
		sourceRegistry,
		staticFetcher,
		browserFetcher,
		ratelimit.New(),
		appConfig.Strict,
	)
	appLogger.Info("All use cases initialized.", nil)

	return &App{
		config:       appConfig,
		logger:       baseLogger,
		fluentClient: fluentClient,
		browser:      browserAdapter,
		registry:     sourceRegistry,
		sink:         sink,
		collector:    collectUseCase,
	}, nil
}

// Run collects every configured source once, each in its own goroutine,
// and writes the results through the sink. SIGINT/SIGTERM cancel the
// run; in-flight pages finish, remaining pages are skipped.
func (a *App) Run() error {
	appCtx, cancelApp := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancelApp()

	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	defer func() {
		if a.browser != nil {
			a.browser.Close()
		}
		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
		appLogger.Info("Application shut down gracefully.", nil)
	}()

	sources := a.config.Sources
	if len(sources) == 0 {
		for _, src := range a.registry.All() {
			sources = append(sources, src.ID)
		}
	}

	filters := domain.SearchFilters{
		Transaction:   domain.TransactionType(a.config.Filters.Transaction),
		MinPrice:      a.config.Filters.MinPrice,
		MaxPrice:      a.config.Filters.MaxPrice,
		MinBedrooms:   a.config.Filters.MinBedrooms,
		Areas:         a.config.Filters.Areas,
		PropertyTypes: a.config.Filters.PropertyTypes,
	}

	appLogger.Info("Application is starting...", port.Fields{
		"sources":   sources,
		"max_pages": a.config.MaxPages,
	})

	runCtx := contextkeys.ContextWithLogger(appCtx, a.logger)

	var wg sync.WaitGroup
	for _, sourceID := range sources {
		wg.Add(1)
		go func(sourceID string) {
			defer wg.Done()
			runID := uuid.New()
			sourceLogger := appLogger.WithFields(port.Fields{"source": sourceID, "run_id": runID.String()})

			listings, err := a.collector.Execute(runCtx, sourceID, filters, a.config.MaxPages)
			if err != nil {
				sourceLogger.Error("Collection failed", err, nil)
				return
			}
			if err := a.sink.Save(runCtx, sourceID, runID, listings); err != nil {
				sourceLogger.Error("Failed to persist listings", err, nil)
				return
			}
			sourceLogger.Info("Source run finished", port.Fields{"listings": len(listings)})
		}(sourceID)
	}
	wg.Wait()

	appLogger.Info("All source runs finished.", nil)
	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
