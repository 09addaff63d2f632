package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"docuchat/internal/config"
	"docuchat/internal/crawler"
	"docuchat/internal/http"
	"docuchat/internal/jobs"
	"docuchat/internal/processor"
	"docuchat/internal/snapshot"
	"docuchat/internal/store"
	"docuchat/internal/tracker"
	"docuchat/internal/uploads"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Pick the record-store backend
	var records store.RecordStore
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		sqlite, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite store: %v", err)
		}
		defer func() {
			_ = sqlite.Close()
		}()
		records = sqlite
		slog.Info("Record store initialized", "backend", "sqlite", "path", cfg.SQLitePath)
	default:
		records = store.NewCSVStore(cfg.StorageRoot)
		slog.Info("Record store initialized", "backend", "csv", "root", cfg.StorageRoot)
	}

	conversations := store.NewConversationRepo(records)
	messages := store.NewMessageRepo(records)
	files := store.NewFileRepo(records)
	hyperlinks := store.NewHyperlinkRepo(records)
	temporary := store.NewTemporaryRepo(records)
	jobLog := store.NewJobLogRepo(records)
	binaries := uploads.NewStore(cfg.UploadsDir)

	client := processor.NewClient(cfg.ProcessorBaseURL)
	slog.Info("Processor client ready", "base_url", cfg.ProcessorBaseURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Queue mode needs a reachable broker before serving traffic
	var submitter jobs.Submitter
	if cfg.DevMode {
		submitter = jobs.NewDirectSubmitter(client, messages, conversations, jobLog, logger)
		slog.Info("Job submission configured", "mode", "direct")
	} else {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		defer func() {
			_ = rdb.Close()
		}()

		submitter = jobs.NewQueueSubmitter(rdb, cfg.QueueName, jobLog, logger)
		worker := jobs.NewWorker(rdb, cfg.QueueName, cfg.WorkerConcurrency, client, messages, conversations, logger)
		wait := worker.Start(ctx)
		defer wait()
		slog.Info("Job submission configured", "mode", "queue", "queue", cfg.QueueName, "concurrency", cfg.WorkerConcurrency)
	}

	// Track submitted jobs until they settle
	remover := tracker.NewRemover(files, hyperlinks, binaries)
	jobTracker := tracker.New(submitter, messages, remover, cfg.PollInterval, logger)
	go jobTracker.Start(ctx)
	slog.Info("Job tracker started", "interval", cfg.PollInterval)

	migrator := snapshot.NewMigrator(temporary, files, hyperlinks, submitter, jobTracker, binaries, logger)

	deps := &http.Deps{
		Conversations: conversations,
		Messages:      messages,
		Files:         files,
		Hyperlinks:    hyperlinks,
		Temporary:     temporary,
		Migrator:      migrator,
		Binaries:      binaries,
		Submitter:     submitter,
		Tickets:       jobTracker,
		Crawler:       crawler.New(),
		Indexes:       client,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
