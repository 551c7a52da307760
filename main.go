package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pland4r/qcm-creator-hub/config"
	"github.com/Pland4r/qcm-creator-hub/events"
	"github.com/Pland4r/qcm-creator-hub/handlers"
	"github.com/Pland4r/qcm-creator-hub/logger"
	"github.com/Pland4r/qcm-creator-hub/middleware"
	"github.com/Pland4r/qcm-creator-hub/models"
	"github.com/Pland4r/qcm-creator-hub/routes"
	"github.com/Pland4r/qcm-creator-hub/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

func main() {
	envFile := pflag.String("env-file", ".env", "optional dotenv file to load before reading the environment")
	port := pflag.String("port", "", "HTTP port, overrides PORT")
	migrateOnly := pflag.Bool("migrate-only", false, "run migrations and role seeding, then exit")
	pflag.Parse()

	// Load configuration
	config.LoadEnvFile(*envFile)
	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		fatal(log, "failed to connect to database", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		fatal(log, "failed to migrate database", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	defer redisClient.Close()

	publisher, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
	if err != nil {
		fatal(log, "failed to initialize event publisher", err)
	}
	defer publisher.Close()

	// Initialize services
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, services.NewRedisRevocationStore(redisClient))
	authService := services.NewAuthService(db, tokenService, log)
	quizService := services.NewQuizService(db, publisher, log)

	if err := authService.EnsureDefaultRoles(context.Background()); err != nil {
		fatal(log, "failed to seed roles", err)
	}
	if *migrateOnly {
		log.Info("migrations complete")
		return
	}

	if err := handlers.RegisterValidators(); err != nil {
		fatal(log, "failed to register validators", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	quizHandler := handlers.NewQuizHandler(quizService, log)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
	)

	routes.SetupRoutes(router, authHandler, quizHandler, tokenService, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(log, "failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
