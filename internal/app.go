package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"offplan-service/internal/adapters/estatyfetcher"
	logger_adapter "offplan-service/internal/adapters/logger"
	postgres_adapter "offplan-service/internal/adapters/postgres"
	rabbitmq_adapter "offplan-service/internal/adapters/rabbitmq"
	"offplan-service/internal/adapters/rest"
	"offplan-service/internal/adapters/scheduler"
	"offplan-service/internal/configs"
	"offplan-service/internal/constants"
	"offplan-service/internal/contextkeys"
	"offplan-service/internal/core/domain"
	"offplan-service/internal/core/port"
	"offplan-service/internal/core/usecase"
	fluentlogger "offplan-service/pkg/fluent_logger"
	"offplan-service/pkg/postgres"
	"offplan-service/pkg/rabbitmq/rabbitmq_common"
	"offplan-service/pkg/rabbitmq/rabbitmq_consumer"
	"offplan-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config *configs.AppConfig
	dbPool *pgxpool.Pool

	apiServer *rest.Server
	runSyncUC *usecase.RunSyncUseCase
	listeners map[string]port.EventListenerPort

	connManager *rabbitmq_common.ConnectionManager
	publishers  []*rabbitmq_producer.Publisher

	logger       port.LoggerPort
	baseLogger   port.LoggerPort
	fluentClient *fluent.Fluent
	closers      []io.Closer
}

// NewApp собирает приложение: логгеры, пул, адаптеры, use cases и входящие адаптеры
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	app := &App{
		config:    appConfig,
		listeners: make(map[string]port.EventListenerPort),
	}

	// --- 1. ЛОГГЕРЫ ---
	if err := app.initLoggers(); err != nil {
		app.Close()
		return nil, err
	}
	appLogger := app.logger

	// --- 2. НИЗКОУРОВНЕВЫЕ ЗАВИСИМОСТИ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL,
		MaxConns:    appConfig.Database.MaxConns,
		MinConns:    appConfig.Database.MinConns,
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		app.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	app.dbPool = dbPool
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	propertyStorage, err := postgres_adapter.NewPostgresStorageAdapter(dbPool)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
	}
	lookupStorage, err := postgres_adapter.NewLookupStorageAdapter(dbPool)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create lookup storage adapter: %w", err)
	}
	agentRepo, err := postgres_adapter.NewAgentRepository(dbPool)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create agent repository: %w", err)
	}
	blogRepo, err := postgres_adapter.NewBlogRepository(dbPool)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create blog repository: %w", err)
	}

	fetcher, err := estatyfetcher.NewEstatyFetcherAdapter(estatyfetcher.Config{
		APIKey:        appConfig.Estaty.APIKey,
		ListingURL:    appConfig.Estaty.ListingURL,
		PropertyURL:   appConfig.Estaty.PropertyURL,
		FiltersURL:    appConfig.Estaty.FiltersURL,
		DetailTimeout: appConfig.Estaty.DetailTimeout,
		RequestDelay:  appConfig.Estaty.RequestDelay,
	})
	if err != nil {
		appLogger.Error("Failed to create Estaty fetcher", err, nil)
		app.Close()
		return nil, fmt.Errorf("failed to create estaty fetcher: %w", err)
	}

	var (
		contentEvents port.ContentEventsPort = rabbitmq_adapter.NoopContentEventsAdapter{}
		syncReporter  port.SyncReporterPort  = rabbitmq_adapter.NoopSyncReporter{}
	)
	if appConfig.RabbitMQ.Enabled {
		contentEvents, syncReporter, err = app.initPublishers()
		if err != nil {
			app.Close()
			return nil, err
		}
	} else {
		appLogger.Warn("RabbitMQ is disabled, content events and sync results are not published", nil)
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. USE CASES ---
	filtersUC := usecase.NewSyncFiltersUseCase(fetcher, lookupStorage)
	propertiesUC := usecase.NewSyncPropertiesUseCase(fetcher, propertyStorage, contentEvents, filtersUC)
	resyncUC := usecase.NewResyncLocalUseCase(fetcher, propertyStorage)
	app.runSyncUC = usecase.NewRunSyncUseCase(propertiesUC, filtersUC, resyncUC, syncReporter, appConfig.Sync.Options())

	getAgentUC := usecase.NewGetAgentUseCase(agentRepo)
	apiHandlers := rest.NewHandlers(rest.UseCases{
		FindProperties:     usecase.NewFindPropertiesUseCase(propertyStorage),
		GetPropertyDetails: usecase.NewGetPropertyDetailsUseCase(propertyStorage),
		GetStatusCounts:    usecase.NewGetStatusCountsUseCase(propertyStorage),
		GetCityCounts:      usecase.NewGetCityCountsUseCase(propertyStorage, lookupStorage),
		ListCities:         usecase.NewListCitiesUseCase(lookupStorage),
		RegisterAgent:      usecase.NewRegisterAgentUseCase(agentRepo),
		UpdateAgent:        usecase.NewUpdateAgentUseCase(agentRepo),
		DeleteAgent:        usecase.NewDeleteAgentUseCase(agentRepo),
		GetAgent:           getAgentUC,
		ListAgents:         usecase.NewListAgentsUseCase(agentRepo),
		ListBlogPosts:      usecase.NewListBlogPostsUseCase(blogRepo),
		GetBlogPost:        usecase.NewGetBlogPostUseCase(blogRepo),
		CreateBlogPost:     usecase.NewCreateBlogPostUseCase(blogRepo, contentEvents),
		RunSync:            app.runSyncUC,
	})
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. ВХОДЯЩИЕ АДАПТЕРЫ ---
	router := rest.NewRouter(apiHandlers, app.baseLogger, appConfig.Rest.CORSAllowedOrigins)
	app.apiServer = rest.NewServer(appConfig.Rest.PORT, router, app.baseLogger)
	appLogger.Info("REST API server configured.", port.Fields{"port": appConfig.Rest.PORT})

	if appConfig.RabbitMQ.Enabled {
		consumerCfg := rabbitmq_consumer.ConsumerConfig{
			Config:              rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			QueueName:           constants.QueueSyncTasks,
			DeclareQueue:        true,
			DurableQueue:        true,
			ExchangeNameForBind: constants.ExchangeName,
			RoutingKeyForBind:   constants.RoutingKeySyncTasks,
			PrefetchCount:       1,
			ConsumerTag:         "sync-tasks-consumer-adapter",

			// MaxRetries 0: некорректное сообщение сразу уходит в финальную DLQ
			EnableRetryMechanism: true,
			RetryExchange:        constants.QueueSyncTasks + "_retry_ex",
			RetryQueue:           constants.QueueSyncTasks + "_retry_wait_10s",
			RetryTTL:             10000,
			MaxRetries:           0,
			FinalDLXExchange:     constants.FinalDLXExchange,
			FinalDLQ:             constants.FinalDLQ,
			FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		}
		syncTasksListener, err := rabbitmq_adapter.NewSyncTasksConsumerAdapter(consumerCfg, app.runSyncUC, app.baseLogger, app.connManager)
		if err != nil {
			appLogger.Error("Failed to create sync tasks consumer", err, nil)
			app.Close()
			return nil, fmt.Errorf("failed to create sync tasks consumer adapter: %w", err)
		}
		app.listeners["Sync Tasks Listener"] = syncTasksListener
	}

	if appConfig.Sync.Interval > 0 {
		tickerScheduler, err := scheduler.NewTickerScheduler(app.runSyncUC, domain.SyncProperties, appConfig.Sync.Interval, app.baseLogger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create sync scheduler: %w", err)
		}
		app.listeners["Sync Scheduler"] = tickerScheduler
	}
	appLogger.Info("All incoming adapters initialized.", port.Fields{"listeners": len(app.listeners)})

	return app, nil
}

func (a *App) initLoggers() error {
	cfg := a.config
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	if cfg.StdoutLogger.File != "" {
		fileLogger, closer := logger_adapter.NewFileLogger(logger_adapter.FileConfig{
			Path:  cfg.StdoutLogger.File,
			Level: logger_adapter.ParseLevel(cfg.StdoutLogger.Level),
		})
		activeLoggers = append(activeLoggers, fileLogger)
		a.closers = append(a.closers, closer)
	}

	if cfg.FluentBit.Enabled {
		fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return fmt.Errorf("failed to create fluentbit client: %w", err)
		}
		a.fluentClient = fluentClient

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(cfg.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			return err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return fmt.Errorf("failed to create multi-logger: %w", err)
	}

	a.baseLogger = multiLogger.WithFields(port.Fields{"service_name": cfg.AppName})
	a.logger = a.baseLogger.WithFields(port.Fields{"component": "app"})
	a.logger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers),
		"fluent_enabled": cfg.FluentBit.Enabled,
		"file_enabled":   cfg.StdoutLogger.File != "",
	})
	return nil
}

// initPublishers поднимает соединение с брокером и издателей событий
func (a *App) initPublishers() (port.ContentEventsPort, port.SyncReporterPort, error) {
	connManagerLogger := a.baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	connManager, err := rabbitmq_common.GetManager(a.config.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger))
	if err != nil {
		a.logger.Error("Failed to create connection manager", err, nil)
		return nil, nil, fmt.Errorf("failed to create connection manager: %w", err)
	}
	a.connManager = connManager
	a.logger.Info("RabbitMQ Connection Manager initialized.", nil)

	newPublisher := func(name string) (*rabbitmq_producer.Publisher, error) {
		publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: a.config.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeName,
			ExchangeType:             constants.ExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger: rabbitmq_adapter.NewPkgLoggerBridge(a.baseLogger.WithFields(port.Fields{
				"component": "rabbitmq_publisher",
				"publisher": name,
			})),
		}, connManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s publisher: %w", name, err)
		}
		a.publishers = append(a.publishers, publisher)
		return publisher, nil
	}

	contentPublisher, err := newPublisher("content_events")
	if err != nil {
		return nil, nil, err
	}
	contentEvents, err := rabbitmq_adapter.NewContentEventsAdapter(contentPublisher, constants.RoutingKeyContentCreated)
	if err != nil {
		return nil, nil, err
	}

	resultsPublisher, err := newPublisher("sync_results")
	if err != nil {
		return nil, nil, err
	}
	syncReporter, err := rabbitmq_adapter.NewSyncReporterAdapter(resultsPublisher, constants.RoutingKeySyncResults)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info("RabbitMQ publishers initialized.", port.Fields{"publishers": len(a.publishers)})
	return contentEvents, syncReporter, nil
}

// Run запускает HTTP API, слушателей и планировщик и ждет сигнала на завершение
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	if err := a.Migrate(appCtx); err != nil {
		a.Close()
		return err
	}

	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		a.logger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("All background processes finished.", nil)

		for name, listener := range a.listeners {
			if err := listener.Close(); err != nil {
				a.logger.Error("Error closing listener", err, port.Fields{"listener": name})
			}
		}

		a.Close()
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, len(a.listeners)+1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errorsCh <- fmt.Errorf("HTTP server start error: %w", err)
		}
	}()

	startListener := func(name string, listener port.EventListenerPort) {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener": name})
		listenerLogger.Info("Starting listener...", nil)

		if err := listener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("%s error: %w", name, err)
		} else {
			listenerLogger.Info("Listener stopped gracefully.", nil)
		}
	}

	for name, listener := range a.listeners {
		wg.Add(1)
		go startListener(name, listener)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	cancelApp()
	return runErr
}

// RunSync выполняет один прогон синхронно. Используется командой sync.
// Ctrl+C отменяет прогон, частичные изменения остаются в базе.
func (a *App) RunSync(mode domain.SyncMode) (*domain.SyncStats, error) {
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)

	if err := a.Migrate(ctx); err != nil {
		return nil, err
	}

	stats, err := a.runSyncUC.Execute(ctx, mode)
	if err != nil {
		a.logger.Error("Sync run failed", err, port.Fields{"mode": string(mode)})
		return stats, err
	}
	a.logger.Info("Sync run finished", port.Fields{
		"mode":        string(mode),
		"run_id":      stats.RunID.String(),
		"created":     stats.Created,
		"updated":     stats.Updated,
		"skipped":     stats.Skipped,
		"failed":      stats.Failed,
		"stop_reason": stats.StopReason,
	})
	return stats, nil
}

// Migrate применяет схему базы данных
func (a *App) Migrate(ctx context.Context) error {
	ctx = contextkeys.ContextWithLogger(ctx, a.baseLogger)
	if err := postgres_adapter.EnsureSchema(ctx, a.dbPool); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close освобождает ресурсы. Повторный вызов безопасен.
func (a *App) Close() {
	if a.runSyncUC != nil {
		a.runSyncUC.Shutdown()
		a.runSyncUC = nil
	}

	for _, publisher := range a.publishers {
		if err := publisher.Close(); err != nil {
			a.logger.Error("Error closing publisher", err, nil)
		}
	}
	a.publishers = nil

	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
		a.connManager = nil
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.dbPool = nil
		if a.logger != nil {
			a.logger.Info("PostgreSQL pool closed.", nil)
		}
	}

	if a.logger != nil {
		a.logger.Info("Application shut down gracefully.", nil)
	}

	for _, closer := range a.closers {
		if err := closer.Close(); err != nil {
			fmt.Printf("ERROR: Error closing log file: %v\n", err)
		}
	}
	a.closers = nil

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}
