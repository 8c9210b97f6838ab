package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/woofadaar/server/config"
	"github.com/woofadaar/server/internal/api"
	"github.com/woofadaar/server/internal/api/handler"
	"github.com/woofadaar/server/internal/cache"
	"github.com/woofadaar/server/internal/database"
	"github.com/woofadaar/server/internal/repository"
	"github.com/woofadaar/server/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	couponCache := cache.NewCouponCache(rdb, time.Duration(cfg.Cache.CouponTTLMinutes)*time.Minute)

	userRepo := repository.NewUserRepository(db)

	authService := service.NewAuthService(userRepo, cfg)
	couponService := service.NewCouponService(db, couponCache, cfg)
	subscriptionService := service.NewSubscriptionService(db, couponService, cfg)

	authHandler := handler.NewAuthHandler(authService)
	couponHandler := handler.NewCouponHandler(couponService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	adminHandler := handler.NewAdminHandler(couponService)

	router := api.NewRouter(
		authHandler,
		couponHandler,
		subscriptionHandler,
		adminHandler,
		userRepo,
		cfg,
	)
	engine := router.Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
