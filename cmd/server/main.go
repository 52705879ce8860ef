package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"cityevents/config"
	_ "cityevents/docs"
	"cityevents/internal/adapters/stats"
	delivery "cityevents/internal/delivery/http"
	"cityevents/internal/delivery/http/controllers"
	"cityevents/internal/delivery/http/middleware"
	"cityevents/internal/repository/postgres"
	"cityevents/internal/services"
)

const serviceTimeout = 5 * time.Second

// @title City Events API
// @version 1.0
// @description Event lifecycle and participation request management service.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	txManager := postgres.NewTxManager(db)

	statsClient := stats.NewHTTPClient(cfg.StatsURL, &http.Client{Timeout: serviceTimeout})
	projector := services.NewEventProjector(requestRepo, statsClient, logger)

	eventService := services.NewEventService(eventRepo, requestRepo, userRepo, categoryRepo,
		txManager, projector, serviceTimeout)
	requestService := services.NewRequestService(requestRepo, eventRepo, userRepo,
		txManager, serviceTimeout)
	userService := services.NewUserService(userRepo, serviceTimeout)
	categoryService := services.NewCategoryService(categoryRepo, eventRepo, serviceTimeout)

	router := delivery.NewRouter(
		controllers.NewUserController(logger, userService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewEventController(logger, eventService),
		controllers.NewAdminEventController(logger, eventService),
		controllers.NewRequestController(logger, requestService),
		controllers.NewPublicEventController(logger, eventService, statsClient, cfg.AppName),
	)

	var handler http.Handler = router
	handler = middleware.Logging(logger, handler)
	handler = middleware.RequestID(handler)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
