package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/juniper/config"
	"github.com/Ramsey-B/juniper/internal/repositories/document"
	"github.com/Ramsey-B/juniper/internal/repositories/investor"
	"github.com/Ramsey-B/juniper/internal/repositories/screeningreport"
	"github.com/Ramsey-B/juniper/internal/repositories/watchlistentity"
	"github.com/Ramsey-B/juniper/pkg/database"
	"github.com/Ramsey-B/juniper/pkg/events"
	"github.com/Ramsey-B/juniper/pkg/graph"
	"github.com/Ramsey-B/juniper/pkg/kafka"
	"github.com/Ramsey-B/juniper/pkg/routes/health"
	screeningroutes "github.com/Ramsey-B/juniper/pkg/routes/screening"
	"github.com/Ramsey-B/juniper/pkg/routes/watchlist"
	"github.com/Ramsey-B/juniper/pkg/scoring"
	"github.com/Ramsey-B/juniper/pkg/screening"
	"github.com/Ramsey-B/juniper/pkg/tabular"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		os.Exit(1)
	}
}

func run(cfg config.Config, logger ectologger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg, logger); err != nil {
		return err
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// Repositories
	documentRepo := document.NewRepository(db, logger)
	watchlistRepo := watchlistentity.NewRepository(db, logger)
	investorRepo := investor.NewRepository(db, logger)
	reportRepo := screeningreport.NewRepository(db, logger)

	// Event emission
	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()
	emitter := events.NewEmitter(producer, logger)

	// Graph projection (optional)
	var projector screening.MatchProjector
	if cfg.GraphDBEnabled {
		graphClient, err := graph.NewClient(graph.Config{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return err
		}
		defer graphClient.Close(ctx)
		projector = graph.NewProjector(graphClient, logger)
	}

	// Pipeline
	engine := scoring.NewEngine(logger, reportRepo, scoring.Config{
		FlagThreshold: cfg.FlagThreshold,
		DedupWindow:   time.Duration(cfg.DedupWindowDays) * 24 * time.Hour,
		DedupKeyRatio: cfg.DedupKeyRatio,
	})
	upserter := screening.NewUpserter(logger, watchlistRepo, cfg.UpsertCodeRatio)
	ingestor := tabular.NewIngestor(logger)
	orchestrator := screening.NewOrchestrator(
		logger,
		screening.Config{
			Mapping:            cfg.SchemaMapping(),
			RowWorkerCount:     cfg.RowWorkerCount,
			ScoringWorkerCount: cfg.ScoringWorkerCount,
		},
		ingestor, upserter, engine,
		documentRepo, watchlistRepo, investorRepo, reportRepo,
		emitter, projector,
	)

	// Kafka intake
	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		handler := screening.NewRequestHandler(logger, orchestrator)
		consumer = kafka.NewConsumer(cfg, logger, handler.Handle)
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		defer consumer.Stop()
	}

	// Dependency injection for route handlers
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*watchlistentity.Repository](container, watchlistRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*screeningreport.Repository](container, reportRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*screening.Orchestrator](container, orchestrator); err != nil {
		return err
	}

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))

	checker := health.NewChecker(db, consumerHealth(consumer), version)
	checker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	watchlist.Register(api.Group("/watchlist"))
	screeningroutes.Register(api.Group("/screening"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	checker.SetReady(true)
	logger.WithFields(map[string]any{"port": cfg.Port}).Info("Service started")

	<-ctx.Done()
	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func consumerHealth(c *kafka.Consumer) interface{ Health() bool } {
	if c == nil {
		return nil
	}
	return c
}

// newLogger builds a structured JSON logger writing to stdout.
func newLogger(cfg config.Config) ectologger.Logger {
	encoder := json.NewEncoder(os.Stdout)
	if cfg.PrettyLogs {
		encoder.SetIndent("", "  ")
	}
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		_ = encoder.Encode(msg)
	})
}
