package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"shop-service/internal/api"
	"shop-service/internal/config"
	"shop-service/internal/repository"
	"shop-service/internal/service"
	"shop-service/migrations"
)

func main() {
	cfg := config.Load()

	db, err := config.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrations.EnsureIndexes(ctx, 3, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	userService := service.NewUserService(userRepo, []byte(cfg.JWTSecret))
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, kafkaWriter)

	userHandler := api.NewUserHandler(*userService)
	productHandler := api.NewProductHandler(*productService)
	cartHandler := api.NewCartHandler(*cartService, *orderService)
	orderHandler := api.NewOrderHandler(*orderService)

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     50,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	// Public routes
	e.POST("/auth/register", userHandler.Register)
	e.POST("/auth/login", userHandler.Login)
	e.GET("/products", productHandler.ListProducts)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "shop-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Authenticated routes
	auth := e.Group("", api.JWTMiddleware([]byte(cfg.JWTSecret)))

	auth.GET("/products/:id", productHandler.GetProduct)
	auth.POST("/products", productHandler.CreateProduct, api.RequireAdmin)
	auth.PUT("/products/:id", productHandler.UpdateProduct, api.RequireAdmin)
	auth.DELETE("/products/:id", productHandler.DeleteProduct, api.RequireAdmin)

	auth.GET("/users/me", userHandler.Me)
	auth.GET("/users", userHandler.ListUsers, api.RequireAdmin)
	auth.GET("/users/:id", userHandler.GetUser, api.RequireAdmin)
	auth.POST("/users", userHandler.CreateUser, api.RequireAdmin)
	auth.PUT("/users/:id", userHandler.UpdateUser, api.RequireAdmin)
	auth.DELETE("/users/:id", userHandler.DeleteUser, api.RequireAdmin)

	auth.GET("/carts", cartHandler.GetCart)
	auth.POST("/carts/add", cartHandler.AddItem)
	auth.PUT("/carts/item/:productId", cartHandler.UpdateItem)
	auth.DELETE("/carts/item/:productId", cartHandler.RemoveItem)
	auth.DELETE("/carts", cartHandler.ClearCart)
	auth.POST("/carts/checkout", cartHandler.Checkout)

	auth.POST("/orders", orderHandler.CreateOrder)
	auth.GET("/orders", orderHandler.ListOrders)
	auth.GET("/orders/status/:status", orderHandler.ListByStatus, api.RequireAdmin)
	auth.GET("/orders/:id", orderHandler.GetOrder)
	auth.PATCH("/orders/:id/status", orderHandler.UpdateStatus, api.RequireAdmin)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Port)))
}
