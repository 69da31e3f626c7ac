package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prompt-general/supportdesk/internal/api"
	"github.com/prompt-general/supportdesk/internal/assistant"
	"github.com/prompt-general/supportdesk/internal/classifier"
	"github.com/prompt-general/supportdesk/internal/config"
	"github.com/prompt-general/supportdesk/internal/datastore"
	"github.com/prompt-general/supportdesk/internal/embedding"
	"github.com/prompt-general/supportdesk/internal/events"
	"github.com/prompt-general/supportdesk/internal/health"
	"github.com/prompt-general/supportdesk/internal/llm"
	"github.com/prompt-general/supportdesk/internal/memory"
	"github.com/prompt-general/supportdesk/internal/monitoring"
	"github.com/prompt-general/supportdesk/internal/router"
	"github.com/prompt-general/supportdesk/internal/vectorstore"
	"github.com/prompt-general/supportdesk/internal/websearch"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		configFile  = flag.String("config", "config/config.yaml", "Configuration file path")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("supportdesk version %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}

	log.Printf("Starting supportdesk v%s (commit: %s, built: %s)", version, commit, date)

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// LLM and embedding clients
	completer := llm.NewOpenAIClient(cfg.OpenAI)
	embedder := embedding.NewOpenAIProvider(cfg.OpenAI)

	// Structured account stores
	var docStore datastore.UserSource
	if cfg.Redis.Addr != "" {
		redisStore := datastore.NewRedisStore(cfg.Redis)
		defer redisStore.Close()
		if redisStore.Available(ctx) {
			if err := redisStore.Seed(ctx); err != nil {
				log.Printf("Failed to seed document store: %v", err)
			}
		}
		docStore = redisStore
	}

	var relStore datastore.UserSource
	var articles vectorstore.ArticleSource = datastore.NewStaticArticles(nil)
	if cfg.Database.DSN != "" {
		pgStore, err := datastore.NewPostgresStore(ctx, cfg.Database.DSN)
		if err != nil {
			log.Fatalf("Failed to initialize relational store: %v", err)
		}
		defer pgStore.Close()
		if cfg.Database.SeedData {
			if err := pgStore.Seed(ctx); err != nil {
				log.Printf("Failed to seed relational store: %v", err)
			}
		}
		relStore = pgStore
		articles = pgStore
	} else {
		log.Printf("DATABASE_URL not set, using built-in knowledge articles")
	}

	// Vector retrieval facade over the remote index and the local fallback
	remote := vectorstore.NewPgvectorIndex(cfg.Vector.RemoteDSN, cfg.Vector.IndexName, embedder)
	defer remote.Close()
	vectors := vectorstore.NewStore(remote, articles, embedder, cfg.Vector.EnableLocalFallback)
	vectors.Initialize(ctx)

	// Query routing
	search := websearch.NewClient(cfg.WebSearch)
	route := router.New(completer, docStore, relStore, search, vectors)
	classify := classifier.New(completer)

	// Interaction recording
	monitor := monitoring.NewMonitor()
	publisher := events.NewPublisher(cfg.Events)
	defer publisher.Close()

	core := assistant.New(classify, route, monitor, publisher)

	// Component probes for /health
	checker := health.NewChecker()
	checker.Register(health.NewAvailabilityCheck("llm", func(ctx context.Context) bool {
		return completer.Available()
	}))
	checker.Register(health.NewAvailabilityCheck("remote_vector_index", remote.Available))
	if docStore != nil {
		checker.Register(health.NewAvailabilityCheck("document_store", docStore.Available))
	}
	if relStore != nil {
		checker.Register(health.NewAvailabilityCheck("relational_store", relStore.Available))
	}

	// HTTP gateway
	sessions := memory.NewManager()
	gateway := api.NewGateway(cfg.API, core, sessions, monitor, vectors, checker)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gateway.Start()
	}()

	waitForShutdown(ctx, cancel, gateway, errCh)
}

func waitForShutdown(ctx context.Context, cancel context.CancelFunc, gateway *api.Gateway, errCh chan error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			log.Printf("Gateway stopped: %v", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := gateway.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to stop gateway cleanly: %v", err)
	}
}
