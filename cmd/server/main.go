package main

import (
	"context"
	"log"

	"github.com/verdeo/ecohabit/internal/bootstrap"
	"github.com/verdeo/ecohabit/internal/config"
	"github.com/verdeo/ecohabit/internal/server"
	"github.com/verdeo/ecohabit/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient := database.ConnectRedis()

	srv := server.NewServer(cfg, db, redisClient)

	if err := srv.Badges().Seed(context.Background()); err != nil {
		log.Fatalf("failed to seed badges: %v", err)
	}

	log.Printf("🌱 EcoHabit API listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
