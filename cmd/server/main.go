package main // Entry point package

import (
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/habit-tracker/internal/auth"       // token revocation blocklist
	"github.com/iliyamo/habit-tracker/internal/config"     // internal config loader
	"github.com/iliyamo/habit-tracker/internal/database"   // MySQL connection
	"github.com/iliyamo/habit-tracker/internal/handler"    // HTTP handlers
	"github.com/iliyamo/habit-tracker/internal/repository" // data access layer
	"github.com/iliyamo/habit-tracker/internal/router"     // route registration
	"github.com/iliyamo/habit-tracker/internal/validator"  // request validation hook
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the token blocklist.  A nil client is tolerated: the
	// blocklist then keeps revocations in process memory only.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, token blocklist falls back to in-process set")
	}
	blocklist := auth.NewBlocklist(rdb)

	users := repository.NewUserRepo(db)
	habits := repository.NewHabitRepo(db)
	sessions := repository.NewSessionRepo(db)

	e := echo.New()
	e.Validator = validator.New()

	renderer, err := handler.NewTemplateRenderer("web/templates/*.html")
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	authHandler := handler.NewAuthHandler(cfg, users, blocklist)
	userHandler := handler.NewUserHandler(users)
	habitHandler := handler.NewHabitHandler(habits)
	webHandler := handler.NewWebHandler(cfg, users, habits, sessions)

	router.RegisterRoutes(e)
	router.RegisterAPI(e, authHandler, userHandler, habitHandler, cfg.JWTSecret, blocklist)
	router.RegisterWeb(e, webHandler, sessions)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
