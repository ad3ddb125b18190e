package main

import (
	"context"
	"log"
	"time"

	"github.com/aqibjamil02172004-beep/marketplace/external/stripe"
	"github.com/aqibjamil02172004-beep/marketplace/internal/cart"
	"github.com/aqibjamil02172004-beep/marketplace/internal/config"
	"github.com/aqibjamil02172004-beep/marketplace/internal/db"
	"github.com/aqibjamil02172004-beep/marketplace/internal/repository"
	"github.com/aqibjamil02172004-beep/marketplace/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ======================
	// INFRA
	// ======================
	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatal(err)
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cartStorage := cart.NewRedisStorage(redisClient, 14*24*time.Hour)

	// ======================
	// EXTERNALS
	// ======================
	provider := stripe.NewProvider(cfg.StripeKey, cfg.StripeWebhookSecret)

	// ======================
	// REPOSITORIES
	// ======================
	orderRepo := repository.NewOrderRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	// ======================
	// SERVICES
	// ======================
	resolver := services.NewSellerResolver(productRepo)
	checkoutSvc := services.NewCheckoutService(provider, resolver, cfg)
	webhookSvc := services.NewWebhookService(provider, orderRepo, resolver, cartStorage)
	orderSvc := services.NewOrderService(orderRepo)
	catalogSvc := services.NewCatalogService(productRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/marketplace")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerCartRoutes(api, cartStorage, cfg)
	registerCheckoutRoutes(api, checkoutSvc, cfg)
	registerWebhookRoutes(api, webhookSvc)
	registerOrderRoutes(api, orderSvc, cfg)
	registerProductRoutes(api, catalogSvc, cfg)

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
