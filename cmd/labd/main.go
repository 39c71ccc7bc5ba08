package main

import (
	"fmt"
	"log"

	"netlab/internal/api"
	"netlab/internal/config"
	"netlab/internal/storage"
)

func main() {
	fmt.Println("Starting netlab daemon...")

	configDir, err := config.Dir()
	if err != nil {
		log.Fatalf("Error getting config directory: %v", err)
	}

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fmt.Printf("Using database: %s\n", cfg.DatabasePath)

	secret := config.LoadOrGenerateSecret(configDir)

	store, err := storage.NewGormStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Fatal: Could not connect to DB: %v", err)
	}

	apiServer := api.NewAPIServer(store, secret)

	listenAddr := fmt.Sprintf(":%d", cfg.Port)
	if err := apiServer.Start(listenAddr); err != nil {
		log.Fatalf("API Error: %v", err)
	}
}
