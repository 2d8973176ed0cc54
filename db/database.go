package db

import (
	"fmt"
	"log"
	"net/url"

	"case_registry_go/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize sets up the database connection. A configured Turso URL selects the
// remote libsql driver, otherwise a local SQLite file in WAL mode is used.
func Initialize(cfg *config.Config) error {
	var err error

	// Determine log level based on environment
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	if cfg.TursoDatabaseURL != "" {
		DB, err = gorm.Open(sqlite.New(sqlite.Config{
			DriverName: "libsql",
			DSN:        tursoDSN(cfg.TursoDatabaseURL, cfg.TursoAuthToken),
		}), gormConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to libsql database: %w", err)
		}
		log.Println("Database connection established (libsql remote)")
		return nil
	}

	// Enable WAL mode for better concurrency support
	dsn := cfg.DBPath + "?_journal_mode=WAL"

	DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established (WAL mode enabled)")
	return nil
}

// tursoDSN appends the auth token to the database URL as libsql expects
func tursoDSN(rawURL, token string) string {
	if token == "" {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("authToken", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// AutoMigrate runs database migrations for the provided models
func AutoMigrate(models ...interface{}) error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := DB.AutoMigrate(models...)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
