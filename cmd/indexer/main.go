package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hanaihang/mallsearch/internal/adapters/database"
	"github.com/hanaihang/mallsearch/internal/adapters/search"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/typesense"
	"github.com/hanaihang/mallsearch/pkg/config"
)

const indexBatchLimit = 5000

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	businessRepo := database.NewBusinessAdapter(pgClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Deleting businesses collection before reindexing")
		_, err := tsClient.Client().Collection(typesense.BusinessesCollection).Delete(ctx)
		if err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	businesses, err := businessRepo.ListAll(ctx, indexBatchLimit)
	if err != nil {
		return err
	}

	log.Printf("Indexing %d businesses...", len(businesses))

	indexed := 0
	for _, b := range businesses {
		if b == nil {
			continue
		}
		if err := adapter.Index(ctx, b); err != nil {
			log.Printf("Failed to index business %s: %v", b.ID, err)
			continue
		}
		indexed++
	}

	log.Printf("Indexing complete: %d/%d documents.", indexed, len(businesses))
	return nil
}
