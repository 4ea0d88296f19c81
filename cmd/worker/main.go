/**
 * Document Intelligence Worker - Main Entry Point
 *
 * Worker daemon for the government document pipeline:
 * - FIFO job queue (in-memory or Redis-backed)
 * - Five-stage pipeline: OCR extraction, classification, field
 *   extraction, authenticity scoring, suspicion evaluation
 * - Tesseract OCR with a bounded per-document deadline
 * - Outcome persistence to PostgreSQL, SQLite or memory
 */

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/opengovlk/docintel-worker/internal/config"
	"github.com/opengovlk/docintel-worker/internal/extract"
	"github.com/opengovlk/docintel-worker/internal/job"
	"github.com/opengovlk/docintel-worker/internal/pipeline"
	"github.com/opengovlk/docintel-worker/internal/queue"
	"github.com/opengovlk/docintel-worker/internal/storage"
	"github.com/opengovlk/docintel-worker/internal/worker"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Document intelligence worker starting...")
	log.Printf("Configuration loaded: queue=%s, results=%s, workers=%d",
		cfg.QueueBackend, cfg.ResultBackend, cfg.WorkerConcurrency)

	var sink storage.ResultSink
	switch cfg.ResultBackend {
	case "postgres":
		pg, err := storage.NewPostgresSink(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pg.Close()
		sink = pg
	case "sqlite":
		sq, err := storage.NewSQLiteSink(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open SQLite database: %v", err)
		}
		defer sq.Close()
		sink = sq
	default:
		sink = storage.NewMemorySink()
		log.Printf("Warning: using in-memory result sink, outcomes are not durable")
	}

	var q queue.Queue
	switch cfg.QueueBackend {
	case "redis":
		rq, err := queue.NewRedisQueue(cfg.RedisURL, cfg.QueueName)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rq.Close()
		q = rq
	default:
		q = queue.NewMemoryQueue()
	}

	store := job.NewStore()
	extractor := extract.NewTesseractAdapter(cfg.OCRTimeout, cfg.DefaultLangs)

	orchestrator, err := pipeline.NewOrchestrator(pipeline.Config{
		Queue:         q,
		Store:         store,
		Extractor:     extractor,
		MaxAttempts:   cfg.MaxAttempts,
		MinConfidence: &cfg.MinConfidence,
		Sink:          sink,
	})
	if err != nil {
		log.Fatalf("Failed to initialize orchestrator: %v", err)
	}

	pool, err := worker.NewPool(worker.PoolConfig{
		Queue:        q,
		Orchestrator: orchestrator,
		Workers:      cfg.WorkerConcurrency,
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		log.Fatalf("Failed to initialize worker pool: %v", err)
	}

	pool.Start()
	log.Printf("Worker pool started with concurrency=%d, waiting for jobs...", cfg.WorkerConcurrency)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal %v, initiating graceful shutdown...", sig)

	pool.Stop()
	log.Printf("Shutdown complete")
}
