package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/estate-marketplace/internal/config"
	"github.com/iliyamo/estate-marketplace/internal/database"
	"github.com/iliyamo/estate-marketplace/internal/handler"
	"github.com/iliyamo/estate-marketplace/internal/mail"
	"github.com/iliyamo/estate-marketplace/internal/middleware"
	"github.com/iliyamo/estate-marketplace/internal/queue"
	"github.com/iliyamo/estate-marketplace/internal/repository"
	"github.com/iliyamo/estate-marketplace/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	estates := repository.NewEstateRepo(db)
	reviews := repository.NewReviewRepo(db)

	mailer := mail.NewMailer(cfg)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions,
		},
	}))
	e.Use(middleware.Authenticate(cfg.JWTSecret, users, sessions))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, sessions, mailer),
		Estates: handler.NewEstateHandler(estates),
		Reviews: handler.NewReviewHandler(reviews, estates),
		Seed:    handler.NewSeedHandler(estates),
		Cache:   middleware.NewResponseCache(config.LoadCacheConfig(), rdb),
	})

	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	log.Printf("listening on :%s (%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
