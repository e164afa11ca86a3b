package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"gorm.io/gorm"

	"github.com/totegamma/rfb-playground/internal/config"
	"github.com/totegamma/rfb-playground/internal/infra/database"
	"github.com/totegamma/rfb-playground/internal/infra/metrics"
	"github.com/totegamma/rfb-playground/internal/infra/relational"
	"github.com/totegamma/rfb-playground/internal/infra/repository"
	"github.com/totegamma/rfb-playground/internal/present/rest"
	"github.com/totegamma/rfb-playground/internal/service"
	"github.com/totegamma/rfb-playground/internal/telemetry"
	"github.com/totegamma/rfb-playground/internal/usecase"
)

const serviceName = "rfb"

var version = "dev"

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()), slog.String("module", "main"))
	os.Exit(1)
}

func openDatabase(ctx context.Context, conf config.Server) (*gorm.DB, func(), error) {
	switch conf.Driver {
	case database.DriverPostgres:
		return database.NewPostgres(ctx, conf.PostgresDsn, int32(conf.MaxConns))
	case database.DriverSQLite:
		return database.NewSQLite(conf.SQLitePath, conf.MaxConns)
	}
	return nil, nil, errors.New("unsupported driver " + conf.Driver)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf := config.Default()
	if _, err := os.Stat(*configPath); err == nil {
		conf, err = config.Load(*configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
	}

	if conf.Server.EnableTrace {
		cleanup, err := telemetry.SetupTraceProvider(ctx, conf.Server.TraceEndpoint, serviceName, version)
		if err != nil {
			fatal("Failed to setup tracing", err)
		}
		defer cleanup(context.Background())
	}

	db, closeDB, err := openDatabase(ctx, conf.Server)
	if err != nil {
		fatal("Failed to connect database", err)
	}
	defer closeDB()

	if conf.Server.ApplySchema {
		err = database.ApplySchema(db, conf.Server.Driver)
		if err != nil {
			fatal("Failed to apply schema", err)
		}
	}

	ids, err := database.IdentityStrategy(conf.Server.Driver)
	if err != nil {
		fatal("Failed to select identity strategy", err)
	}

	registry := prometheus.NewRegistry()
	var recorder relational.Recorder
	if conf.Server.EnableMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewRecorder(registry)
	}

	em := relational.NewEntityManager(db, ids, recorder)

	var signalService *service.SignalService
	var publisher usecase.ChangePublisher
	if conf.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		if err != nil {
			fatal("Failed to connect redis", err)
		}
		defer rdb.Close()
		signalService = service.NewSignalService(rdb)
		publisher = signalService
	}

	locationUsecase := usecase.NewLocationUsecase(repository.NewLocationRepository(em), publisher)
	userUsecase := usecase.NewUserUsecase(repository.NewUserRepository(em), publisher)
	eventUsecase := usecase.NewEventUsecase(repository.NewEventRepository(em), publisher)
	attendanceUsecase := usecase.NewAttendanceUsecase(repository.NewAttendanceRepository(em), publisher)

	handler := rest.NewHandler(conf.API, locationUsecase, userUsecase, eventUsecase, attendanceUsecase, signalService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName))
	}

	handler.RegisterRoutes(e)
	if conf.Server.EnableMetrics {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	go func() {
		slog.Info("Server started", slog.String("addr", conf.Server.ListenAddr), slog.String("driver", conf.Server.Driver))
		err := e.Start(conf.Server.ListenAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server stopped", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("Shutdown failed", slog.String("error", err.Error()), slog.String("module", "main"))
	}
}
