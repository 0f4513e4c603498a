package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	server "github.com/ElmaP103/buenro/internal/adapters/http_server"
	"github.com/ElmaP103/buenro/internal/adapters/objstore"
	"github.com/ElmaP103/buenro/internal/adapters/observability"
	redisad "github.com/ElmaP103/buenro/internal/adapters/redis"
	"github.com/ElmaP103/buenro/internal/app"
	"github.com/ElmaP103/buenro/internal/shared"
	mongorepo "github.com/ElmaP103/buenro/internal/storage/mongo"
)

func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
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
	log.Info().Msg("database connection ok")

	// deps
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
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)

	// first-boot ingestion; a failure here should not keep the API down
	if err := ing.InitializeData(context.Background()); err != nil {
		log.Error().Err(err).Msg("initial data ingestion failed")
	}
	go ing.RunScheduler(context.Background(), cfg.IngestInterval)

	// http
	srv := server.New(cfg.APIRPS)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Ing: ing})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
