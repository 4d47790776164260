package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/nexable/smartcookly/backend/config"
	"github.com/nexable/smartcookly/backend/internal/api"
	"github.com/nexable/smartcookly/backend/internal/database"
	"github.com/nexable/smartcookly/backend/internal/llm"
	"github.com/nexable/smartcookly/backend/internal/middleware"
	"github.com/nexable/smartcookly/backend/internal/repository"
	"github.com/nexable/smartcookly/backend/internal/router"
	"github.com/nexable/smartcookly/backend/internal/server"
	"github.com/nexable/smartcookly/backend/internal/service"
	"github.com/nexable/smartcookly/backend/internal/vision"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Printf("Starting SmartCookly API (%s)", cfg.Environment)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs rate limiting and the image cache; both degrade without it.
	var redisClient *redis.Client
	redisClient, err = database.NewRedisClient(cfg)
	switch {
	case errors.Is(err, database.ErrRedisNotConfigured):
		log.Printf("Redis not configured, rate limiting and image caching disabled")
	case err != nil:
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	default:
		defer redisClient.Close()
	}

	model, err := llm.New(ctx, llm.Config{
		Provider:      cfg.VisionProvider,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
	})
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	defer model.Close()

	var images service.ImageStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			log.Printf("Warning: S3 unavailable, scan photos will be sent inline: %v", err)
		} else {
			images = service.NewS3ImageStore(s3Config)
		}
	}

	// Services
	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db, cfg.DefaultTimezone)
	inventoryService := service.NewInventoryService(repository.NewIngredientRepository(db), profileService)
	scanService := service.NewScanService(vision.NewDetector(model), images, inventoryService, profileService)
	recipeService := service.NewRecipeService(model, profileService, inventoryService, service.NewPexelsClient(cfg.PexelsAPIKey, redisClient))
	shoppingService := service.NewShoppingService(db, inventoryService)
	favoriteService := service.NewFavoriteService(db)

	// Rate limiters are no-ops without Redis.
	scanLimiter := middleware.NewScanRateLimiter(redisClient, cfg.ScanRateLimit)
	discoveryLimiter := middleware.NewDiscoveryRateLimiter(redisClient, cfg.DiscoveryRateLimit)

	engine := router.SetupRouter(router.Handlers{
		Health:   api.NewHealthHandler(db, redisClient),
		Auth:     api.NewAuthHandler(authService),
		Profile:  api.NewProfileHandler(profileService, inventoryService),
		Fridge:   api.NewFridgeHandler(inventoryService, scanService, scanLimiter),
		Recipe:   api.NewRecipeHandler(recipeService, discoveryLimiter),
		Favorite: api.NewFavoriteHandler(favoriteService),
		Shopping: api.NewShoppingHandler(shoppingService),
		RateLimit: api.NewRateLimitHandler(map[string]*middleware.RateLimiter{
			"fridge-scan":      scanLimiter,
			"recipe-discovery": discoveryLimiter,
		}),
	}, authService, cfg.CORSOrigins)

	srv := server.New(cfg.ServerHost+":"+cfg.ServerPort, engine)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
