package main

import (
	"os"

	"peoplefinder/cmd/migration/initialize"
	"peoplefinder/config"
	"peoplefinder/internal/database"
	"peoplefinder/internal/logger"
)

func main() {
	log := logger.New("migration")

	cfg, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Er("failed to create database", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := initialize.InitializeTables(db, cfg, log); err != nil {
		log.Er("migration failed", err)
		os.Exit(1)
	}
}
