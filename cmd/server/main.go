package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/railway-reservation/internal/booking"    // Seat allocation core
	"github.com/iliyamo/railway-reservation/internal/config"     // Internal config loader
	"github.com/iliyamo/railway-reservation/internal/database"   // MySQL connector
	"github.com/iliyamo/railway-reservation/internal/handler"    // HTTP handlers
	"github.com/iliyamo/railway-reservation/internal/middleware" // Cache + rate limit middleware
	"github.com/iliyamo/railway-reservation/internal/queue"      // Booking event consumer
	"github.com/iliyamo/railway-reservation/internal/repository" // DB repositories
	"github.com/iliyamo/railway-reservation/internal/router"     // Route registration
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories over the single *sql.DB.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	stationRepo := repository.NewStationRepo(db)
	trainRepo := repository.NewTrainRepo(db)
	routeRepo := repository.NewRouteRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// The allocator serializes seat assignment per route; the route repo
	// is its schedule store and the booking repo its ledger.
	alloc := booking.NewAllocator(routeRepo, bookingRepo)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	adminHandler := handler.NewAdminHandler(stationRepo, trainRepo, routeRepo)
	availHandler := handler.NewAvailabilityHandler(routeRepo)
	bookingHandler := handler.NewBookingHandler(alloc, bookingRepo)

	// Redis is optional: when it is down the service runs without the
	// response cache and without the booking rate limiter.
	var cacheMW, limiterMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		limiterMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	} else {
		log.Println("redis unavailable: response cache and rate limiter disabled")
	}

	// Consume booking lifecycle events in the background and append them
	// to logs/booking.log.  The consumer reconnects on broker failures.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterPublic(e, availHandler, cacheMW)
	router.RegisterAdmin(e, adminHandler, cfg.JWTSecret, cfg.APIKeyHeader, cfg.APIKey, cacheMW)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret, limiterMW)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
