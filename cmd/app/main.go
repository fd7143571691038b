package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpangb16/Prometheus-travel-planner/config"
	"github.com/arpangb16/Prometheus-travel-planner/internal/amadeus"
	"github.com/arpangb16/Prometheus-travel-planner/internal/bootstrap"
	"github.com/arpangb16/Prometheus-travel-planner/internal/cache"
	"github.com/arpangb16/Prometheus-travel-planner/internal/kafka"
	"github.com/arpangb16/Prometheus-travel-planner/internal/repository"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/auth"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/search"
	"github.com/arpangb16/Prometheus-travel-planner/internal/service/trips"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Provider.ResultsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	tokens := amadeus.NewTokenCache(cfg.Provider.BaseURL, cfg.Provider.ClientID, cfg.Provider.ClientSecret)
	clientOpts := []amadeus.ClientOption{}
	if cfg.Provider.RateLimitPerSecond > 0 {
		clientOpts = append(clientOpts, amadeus.WithRateLimit(cfg.Provider.RateLimitPerSecond))
	}
	client := amadeus.NewClient(cfg.Provider.BaseURL, tokens, clientOpts...)
	fallback := amadeus.NewFallback(rand.New(rand.NewSource(time.Now().UnixNano())))

	userRepo := repository.NewUserRepository(pool)
	tripRepo := repository.NewTripRepository(pool)
	searchRepo := repository.NewSearchRepository(pool)

	authService := auth.NewAuthService(userRepo, cfg.Auth.Secret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	tripService := trips.NewTripService(tripRepo)

	searchOpts := []search.SearchServiceOption{
		search.WithProducer(producer, cfg.Kafka.SearchTopic),
	}
	if cfg.Provider.UseFallback() {
		searchOpts = append(searchOpts, search.WithFallbackOnError())
	}
	searchService := search.NewSearchService(client, fallback, searchRepo, redisCache, searchOpts...)

	if err := bootstrap.Run(ctx, cfg, authService, tripService, searchService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
