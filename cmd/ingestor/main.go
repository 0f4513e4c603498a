package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ElmaP103/buenro/internal/adapters/objstore"
	"github.com/ElmaP103/buenro/internal/adapters/observability"
	redisad "github.com/ElmaP103/buenro/internal/adapters/redis"
	"github.com/ElmaP103/buenro/internal/app"
	"github.com/ElmaP103/buenro/internal/shared"
	mongorepo "github.com/ElmaP103/buenro/internal/storage/mongo"
)

// One-shot ingestion run, for cron jobs and manual reloads outside the API
// process.
func main() {
	_ = godotenv.Load()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("bucket", cfg.S3Bucket).
		Str("source1", cfg.Source1Key).
		Str("source2", cfg.Source2Key).
		Msg("ingestor starting")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cancel()
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("mongo ping failed")
	}
	cancel()
	log.Info().Msg("db ping ok")

	repo := mongorepo.New(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}
	fetcher, err := objstore.New(cfg.S3BaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("object store client init failed")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	ing := app.NewIngestionService(fetcher, repo, cache, app.IngestConfig{
		Bucket:     cfg.S3Bucket,
		Source1Key: cfg.Source1Key,
		Source2Key: cfg.Source2Key,
	})
	if err := ing.Ingest(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ingestion failed")
	}
	log.Info().Msg("ingestion completed")
}
