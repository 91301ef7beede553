package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nft-market-system/handlers"
	"nft-market-system/middleware"
	"nft-market-system/models"
	"nft-market-system/services"
	"nft-market-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	app.Use(middleware.UserContextMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Roles",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.CardType{},
		&models.Card{},
		&models.AssignedCard{},
		&models.Auction{},
		&models.AuctionTrade{},
		&models.Box{},
		&models.BoxAuction{},
		&models.UserBox{},
		&models.BoxTrade{},
		&models.BoxSetting{},
		&models.Asset{},
		&models.UserWallet{},
		&models.Attribute{},
		&models.UserAttribute{},
		&models.User{},
		&models.UserNotification{},
		&models.ManagerNotification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	mainAssetCoin := os.Getenv("MAIN_ASSET_COIN")
	if mainAssetCoin == "" {
		mainAssetCoin = "BNB"
	}
	cdnBaseURL := os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		log.Fatal("CDN_BASE_URL environment variable not set")
	}

	bus := services.NewEventBus()
	random := services.NewRandomSource(time.Now().UnixNano())

	registry := services.NewRegistryService(db)
	wallets := services.NewWalletService(db)
	attributes := services.NewAttributeService(db)
	auctionService := services.NewAuctionService(db, registry, wallets, attributes, bus, mainAssetCoin)
	boxService := services.NewBoxService(db, registry, wallets, attributes, bus, random, cdnBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := workers.NewNotifierWorker(db, bus)
	go notifier.Start(ctx)

	auctionService.StartExpirySweep(1 * time.Minute)

	handlers.SetupAuctionRoutes(app, auctionService)
	handlers.SetupBoxRoutes(app, boxService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Auction expiry sweep running (every 1m)")
	log.Printf("✅ CORS configured for origins: %s", strings.Join(origins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")
}
