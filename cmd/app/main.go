package main

import (
	"context"
	"flag"
	"log"
	"os"

	"FolioPull/internal/di"
	"FolioPull/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	once := flag.Bool("once", false, "run a single refresh cycle and exit")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *once {
		cfg.Refresh.Once = true
	}

	log.Printf("env=%s provider=%s portfolio=%s", cfg.Environment, cfg.Provider.Type, cfg.Portfolio.File)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(context.Background()); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
