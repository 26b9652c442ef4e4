package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ttclub/table-booking/internal/config"
	"github.com/ttclub/table-booking/internal/database"
	"github.com/ttclub/table-booking/internal/handler"
	"github.com/ttclub/table-booking/internal/middleware"
	"github.com/ttclub/table-booking/internal/repository"
	"github.com/ttclub/table-booking/internal/router"
)

func main() {
	// Missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(ctx, db, cfg.BcryptCost); err != nil {
		log.Fatalf("seed: %v", err)
	}

	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	bookings := repository.NewBookingRepo(db)
	customers := repository.NewCustomerRepo(db)
	trainers := repository.NewTrainerRepo(db)
	tables := repository.NewTableRepo(db)
	settings := repository.NewSettingsRepo(db)
	users := repository.NewUserRepo(db)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAPI(e, router.API{
		JWTSecret: cfg.JWTSecret,
		Auth:      handler.NewAuthHandler(cfg, users),
		Bookings:  handler.NewBookingHandler(bookings, customers, trainers, settings),
		Customers: handler.NewCustomerHandler(customers),
		Trainers:  handler.NewTrainerHandler(trainers),
		Tables:    handler.NewTableHandler(tables),
		Users:     handler.NewUserHandler(cfg, users, trainers),
		Settings:  handler.NewSettingsHandler(settings),
		Reports:   handler.NewReportHandler(bookings, customers, settings),
		Cache:     cacheMW,
		RateLimit: rateMW,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
