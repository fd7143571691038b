package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arpangb16/Prometheus-travel-planner/config"
	"github.com/arpangb16/Prometheus-travel-planner/internal/kafka"
	"github.com/arpangb16/Prometheus-travel-planner/internal/notify"
	"github.com/arpangb16/Prometheus-travel-planner/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	searchRepo := repository.NewSearchRepository(pool)
	notifier := notify.NewNotifier()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.SearchTopic)
	defer consumer.Close()

	go func() {
		if err := consumer.Consume(ctx, notifier.Notify); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepIntervalMinutes) * time.Minute)
	defer sweepTicker.Stop()

	retention := time.Duration(cfg.Worker.HistoryRetentionDays) * 24 * time.Hour

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			deleted, err := searchRepo.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				log.Printf("sweep search history error: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("deleted %d expired search records", deleted)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
