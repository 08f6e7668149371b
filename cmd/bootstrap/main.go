package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"newsletter-headline-api/internal/config"
	"newsletter-headline-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting schema bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	err = dataLayer.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return dataLayer.PgClient.EnsureSchema(txCtx)
	})
	if err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	fmt.Printf("Schema ready on %s:%d/%s\n",
		cfg.Database.Postgres.Host,
		cfg.Database.Postgres.Port,
		cfg.Database.Postgres.Database,
	)
}
