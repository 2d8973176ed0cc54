package main

import (
	"context"
	"log"

	"case_registry_go/config"
	"case_registry_go/db"
	"case_registry_go/models"
	"case_registry_go/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(&models.CaseFile{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Starting backfill of legacy case files...")

	registry := services.NewRegistryService(services.NewGormRecordStore(db.DB))
	changed, err := registry.BackfillFiles(context.Background())
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}

	if len(changed) == 0 {
		log.Println("No files needed backfilling.")
		return
	}
	for i, fileNumber := range changed {
		log.Printf("[%d/%d] Backfilled %s\n", i+1, len(changed), fileNumber)
	}
	log.Println("Backfill completed successfully!")
}
