package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	api "library-backend/internal/api/http"
	"library-backend/internal/config"
	"library-backend/internal/logger"
	"library-backend/internal/repository/postgres"
	"library-backend/internal/security"
	"library-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Library Backend Server...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	lendingService := service.NewLendingService(store, store.Loans, store.Users, cfg.Lending)
	reservationService := service.NewReservationService(store, store.Reservations, store.Books, cfg.Lending)
	fineService := service.NewFineService(store.Fines, store.Users)
	bookService := service.NewBookService(store, store.Books, store.Loans)
	authService := service.NewAuthService(store.Users, tokens)
	userService := service.NewUserService(store.Users)
	reportService := service.NewReportService(store.Loans, store.Users)

	router := api.NewRouter(api.Handlers{
		Auth:         api.NewAuthHandler(authService),
		Books:        api.NewBookHandler(bookService),
		Lending:      api.NewLendingHandler(lendingService),
		Reservations: api.NewReservationHandler(reservationService),
		Fines:        api.NewFineHandler(fineService),
		Users:        api.NewUserHandler(userService),
		Reports:      api.NewReportHandler(reportService),
	}, tokens)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
