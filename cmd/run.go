package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"roicalc/config"
	"roicalc/database"
	"roicalc/events"
	"roicalc/infrastructure"
	"roicalc/infrastructure/observability"
	"roicalc/report"
	"roicalc/repository"
	"roicalc/server"
	"roicalc/service"
)

// ConfigureLogging applies the configured level and format to the global logger
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" || cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	log.WithField("environment", cfg.Environment).Info("Starting roicalc...")

	databaseURL := cfg.GetDatabaseURL()

	log.Info("Running database migrations...")
	if err := database.MigrateUp(databaseURL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	metricsProvider := observability.NewMetricsProvider(cfg)
	if err := metricsProvider.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Metrics disabled")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := metricsProvider.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics provider")
		}
	}()

	eventBus := events.NewBus()

	if cfg.NATSServers != "" {
		natsClient, err := connectEventStream(ctx, cfg.NATSServers)
		if err != nil {
			log.WithError(err).Warn("Event forwarding disabled")
		} else {
			defer func() {
				if err := natsClient.Close(); err != nil {
					log.WithError(err).Warn("Error closing NATS connection")
				}
			}()
			infrastructure.NewEventForwarder(natsClient, metricsProvider).Register(eventBus)
			log.Info("Forwarding events to NATS")
		}
	}

	if cfg.DiscordLeadWebhookID != "" && cfg.DiscordLeadWebhookToken != "" {
		notifier, err := infrastructure.NewDiscordLeadNotifier(cfg.DiscordLeadWebhookID, cfg.DiscordLeadWebhookToken)
		if err != nil {
			log.WithError(err).Warn("Discord lead notifications disabled")
		} else {
			notifier.Register(eventBus)
			log.Info("Discord lead notifications enabled")
		}
	}

	var scenarioRepo service.ScenarioRepository = repository.NewScenarioRepository(db)
	if cfg.RedisAddr != "" {
		cache := repository.NewRedisCache(cfg.RedisAddr)
		if err := cache.Ping(ctx); err != nil {
			log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("Scenario cache unavailable, reading from the database")
			_ = cache.Close()
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					log.WithError(err).Warn("Error closing Redis client")
				}
			}()
			scenarioRepo = repository.NewCachedScenarioRepository(scenarioRepo, cache, cfg.ScenarioCacheTTL)
			log.WithField("ttl", cfg.ScenarioCacheTTL).Info("Scenario cache enabled")
		}
	}

	simulationService := service.NewSimulationService(metricsProvider)
	scenarioService := service.NewScenarioService(scenarioRepo, simulationService, eventBus, metricsProvider)
	leadService := service.NewLeadService(repository.NewLeadRepository(db), eventBus, metricsProvider, cfg.LeadCaptureTimeout)
	reportService := service.NewReportService(report.NewGenerator(), leadService, metricsProvider)

	handlers := server.NewHandlers(simulationService, scenarioService, reportService, metricsProvider, db)
	srv := server.New(cfg, handlers, metricsProvider)

	serveErr, err := srv.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server did not shut down cleanly")
	}
	if err := leadService.Wait(shutdownCtx); err != nil {
		log.WithError(err).Warn("Abandoned pending lead captures")
	}

	log.Info("Shutdown completed")
	return nil
}

func connectEventStream(ctx context.Context, servers string) (*infrastructure.NATSClient, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(connectCtx); err != nil {
		return nil, err
	}
	if err := client.EnsureEventStream(infrastructure.NewEventSubjectMapper().GetAllSubjects()); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
