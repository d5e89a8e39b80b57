package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zeroday-squad/site-backend/api"
	"github.com/zeroday-squad/site-backend/config"
	"github.com/zeroday-squad/site-backend/database"
	"github.com/zeroday-squad/site-backend/models"
	"github.com/zeroday-squad/site-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()

	connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "zeroday_squad"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "disable"),
	)

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Enable required PostgreSQL extensions
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		fmt.Printf("Error enabling uuid-ossp extension: %v\n", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Profile{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Achievement{},
		&models.AchievementMember{},
		&models.SiteStat{},
	); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// Optional read cache; the service runs fine without Redis.
	var cache *services.TagCache
	if redisURL := config.GetString(c, "REDIS_URL", ""); redisURL != "" {
		cacheTTL := config.GetDuration(c, "CACHE_TTL", 5*time.Minute)
		cache, err = services.NewTagCache(redisURL, config.GetString(c, "REDIS_PASSWORD", ""), cacheTTL)
		if err != nil {
			fmt.Printf("Warning: Redis unavailable, running without cache: %v\n", err)
			cache = nil
		}
	}

	// Optional blob store; uploads 500 until a bucket is configured.
	var blobStore *services.BlobStore
	if bucket := config.GetString(c, "S3_BUCKET", ""); bucket != "" {
		blobStore, err = services.NewBlobStore(context.Background(), services.BlobStoreConfig{
			Bucket:        bucket,
			Region:        config.GetString(c, "S3_REGION", "us-east-1"),
			Endpoint:      config.GetString(c, "S3_ENDPOINT", ""),
			AccessKey:     config.GetString(c, "S3_ACCESS_KEY", ""),
			SecretKey:     config.GetString(c, "S3_SECRET_KEY", ""),
			PublicBaseURL: config.GetString(c, "S3_PUBLIC_BASE_URL", ""),
		})
		if err != nil {
			fmt.Printf("Warning: blob store unavailable, uploads disabled: %v\n", err)
			blobStore = nil
		}
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, cache, blobStore)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
