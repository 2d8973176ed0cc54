package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

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

	if err := db.AutoMigrate(&models.Attorney{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}
	yes := func(label string) bool {
		answer := strings.ToLower(prompt(label + " [y/N]: "))
		return answer == "y" || answer == "yes"
	}

	fmt.Println("=== Create Attorney ===")
	fmt.Println()

	attorney := &models.Attorney{
		FullName: prompt("Full name: "),
		Email:    prompt("Email (optional): "),
		Group:    prompt("Group (optional): "),
	}
	attorney.IsGroupHead = yes("Group head?")
	attorney.IsSG = yes("Cross-group executive?")

	directory := services.NewAttorneyDirectory(db.DB)
	if err := directory.Create(context.Background(), attorney); err != nil {
		log.Fatalf("Failed to create attorney: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Attorney created successfully!")
	fmt.Printf("  ID: %s\n", attorney.ID)
	fmt.Printf("  Name: %s\n", attorney.FullName)
	fmt.Printf("  Group: %s\n", attorney.Group)
	fmt.Println()
	fmt.Printf("Send %s: %s with API requests to act as this attorney.\n", "X-Attorney-ID", attorney.ID)
}
