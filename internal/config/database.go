package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"route_scheduler/internal/models"
)

var (
	// DB is the globally accessible database handle. It stays nil when the
	// database cannot be reached at startup; callers must treat a nil handle
	// as "store unavailable" rather than "no data".
	DB *gorm.DB
)

// InitDB initializes the database connection using environment variables.
// A connection failure is logged but not fatal.
func InitDB() {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	// Load environment variables (with defaults)
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "scheduler")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	// Build Data Source Name
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Printf("failed to connect to database, continuing without a store: %v", err)
		return
	}

	err = db.AutoMigrate(
		&models.Driver{},
		&models.Van{},
		&models.RouteAssignment{},
		&models.AvailabilityRecord{},
		&models.Session{},
		&models.LoginAttempt{},
	)
	if err != nil {
		log.Printf("auto-migration failed: %v", err)
		return
	}

	// Assign to global
	DB = db
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle (nil when unavailable)
func GetDB() *gorm.DB {
	return DB
}
