package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tauasu/booking-app/config"
	"github.com/tauasu/booking-app/database"
	"github.com/tauasu/booking-app/middlewares"
	"github.com/tauasu/booking-app/models"
	"github.com/tauasu/booking-app/router"
	"github.com/tauasu/booking-app/store"
	"github.com/tauasu/booking-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// The engine: initial fetch plus the realtime subscription, so the
	// local collection tracks writes from every session.
	s := store.New(db)
	if err := s.Start(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start booking store: %v", err)
	}
	s.StartSync()
	defer s.StopSync()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(s)
	r.Use(rateLimiter.RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Zone{},
		&models.Booking{},
		&models.CustomerNote{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
	if err := database.SeedZones(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed zones: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed users: %v", err)
	}
}
