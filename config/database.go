package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDB opens the Postgres connection described by cfg and stores the
// handle in the package-level DB variable.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dbURL := cfg.DatabaseURL

	// Local fallback so a dev machine works without any env setup.
	if dbURL == "" {
		host := getenvWithDefault("DB_HOST", "localhost")
		user := getenvWithDefault("DB_USER", "postgres")
		password := getenvWithDefault("DB_PASSWORD", "postgres")
		dbname := getenvWithDefault("DB_NAME", "workshop")
		port := getenvWithDefault("DB_PORT", "5432")
		dbURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			host, user, password, dbname, port,
		)
	} else if !strings.Contains(dbURL, "sslmode=") {
		// Hosted Postgres usually requires TLS.
		sep := "?"
		if strings.Contains(dbURL, "?") {
			sep = "&"
		}
		dbURL = dbURL + sep + "sslmode=require"
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := db.Exec(`SET TIME ZONE 'UTC'`).Error; err != nil {
		log.Printf("failed to set timezone UTC: %v", err)
	}

	DB = db
	return db, nil
}
