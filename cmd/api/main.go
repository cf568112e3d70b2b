package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"surveyapi/docs"
	"surveyapi/internal/auth"
	"surveyapi/internal/config"
	"surveyapi/internal/database"
	"surveyapi/internal/database/migration"
	handlers "surveyapi/internal/http/handler"
	"surveyapi/internal/http/middleware"
	"surveyapi/internal/logger"
	"surveyapi/internal/otel"
	"surveyapi/internal/repository/postgres"
	"surveyapi/internal/service"
	"surveyapi/internal/storage"
)

// @title Survey API
// @version 1.0
// @description Questionnaire authoring, answer collection and reporting.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	loc := cfg.Location()

	log := logger.New(os.Stdout, cfg.Log.Format, cfg.Log.Level, loc)
	slog.SetDefault(log)

	if err := run(cfg, log, loc); err != nil {
		log.Error("server_stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, log *slog.Logger, loc *time.Location) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", slog.Any("error", err))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		return err
	}

	// Object storage only backs published exports; downloads work without it.
	var store storage.Storage
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return err
		}
	} else {
		log.Warn("object_storage_disabled", slog.String("detail", "MINIO_ENDPOINT is empty, export publishing is unavailable"))
	}

	tx := postgres.NewTransactor(db)
	users := postgres.NewUserPostgres(db)
	questionnaires := postgres.NewQuestionnairePostgres(db)
	questions := postgres.NewQuestionPostgres(db)
	options := postgres.NewOptionPostgres(db)
	logic := postgres.NewLogicRelationPostgres(db)
	answers := postgres.NewAnswerPostgres(db)

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	services := handlers.Services{
		Users:          service.NewUserService(users, questionnaires, issuer),
		Questionnaires: service.NewQuestionnaireService(tx, questionnaires, questions, options, logic, store),
		Questions:      service.NewQuestionService(tx, questionnaires, questions, options),
		Options:        service.NewOptionService(tx, questionnaires, questions, options),
		Logic:          service.NewLogicService(questionnaires, questions, options, logic),
		Answers:        service.NewAnswerService(tx, questionnaires, questions, options, logic, answers, metrics),
		Reports:        service.NewReportService(questionnaires, questions, options, logic, answers),
		Exports:        service.NewExportService(questionnaires, questions, options, logic, answers, store, cfg.Export.PresignExpiry, loc),
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	docs.SwaggerInfo.Host = cfg.AppHost

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, issuer, services)

	app.Get("/swagger/*", swagger.HandlerDefault)

	errc := make(chan error, 1)
	go func() {
		log.Info("server_starting", slog.String("addr", ":"+cfg.Port))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("server_shutting_down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}
