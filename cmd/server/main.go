package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/ai/gemini"
	"github.com/talentsift/talentsift/internal/ai/oai"
	"github.com/talentsift/talentsift/internal/analyzer"
	"github.com/talentsift/talentsift/internal/api"
	"github.com/talentsift/talentsift/internal/config"
	"github.com/talentsift/talentsift/internal/database"
	"github.com/talentsift/talentsift/internal/document"
	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/migrator"
	"github.com/talentsift/talentsift/internal/nats"
	"github.com/talentsift/talentsift/internal/publisher"
	"github.com/talentsift/talentsift/internal/quota"
	"github.com/talentsift/talentsift/internal/repository"
	"github.com/talentsift/talentsift/internal/storage"
	"github.com/talentsift/talentsift/internal/web"
	"github.com/talentsift/talentsift/migrations"
)

func main() {
	// .env is optional, real deployments use the environment
	_ = godotenv.Load()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Setup logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting talentsift server")

	// 3. Setup context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal")
		cancel()
	}()

	// 4. Database + migrations
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to database")

	m, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load migrations")
	}
	if err := m.Up(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// 5. Blob storage
	store, err := storage.New(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init blob storage")
	}
	fetcher := document.NewFetcher(store)

	// 6. AI scorer
	scoringCfg, err := ai.LoadScoringConfig(cfg.ScoringConfig)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.ScoringConfig).Msg("scoring config not loaded, using defaults")
		scoringCfg = ai.DefaultScoringConfig()
	}

	var caller ai.ModelCaller
	switch cfg.AIProvider {
	case "openai":
		caller, err = oai.New(cfg.AIAPIKey, cfg.AIBaseURL)
	default:
		caller, err = gemini.New(ctx, cfg.AIAPIKey)
	}
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.AIProvider).Msg("failed to init model provider")
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.AIRequestsPerSec), 1)
	scorer := ai.NewScorer(caller, scoringCfg, limiter, &log.Logger)
	log.Info().
		Str("provider", cfg.AIProvider).
		Strs("models", scoringCfg.Models).
		Msg("scorer initialized")

	// 7. WebSocket hub
	hub := web.NewHub()
	go hub.Run()

	// 8. NATS (optional)
	var pub *publisher.Publisher
	if cfg.NatsURL != "" {
		natsClient, err := nats.New(ctx, cfg.NatsURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to nats")
		}
		defer natsClient.Close()

		subjects := []string{publisher.SubjectCandidateScored, publisher.SubjectBatchCompleted}
		if err := natsClient.EnsureStream(ctx, publisher.StreamName, subjects); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure stream")
		}
		pub = publisher.New(natsClient)
		log.Info().Msg("connected to nats")
	}

	// 9. Repositories and services
	jobsRepo := repository.NewJobsRepository(db.Pool)
	candidatesRepo := repository.NewCandidatesRepository(db.Pool)
	profilesRepo := repository.NewProfilesRepository(db.Pool)
	announcementsRepo := repository.NewAnnouncementsRepository(db.GORM)

	reconciler := quota.NewReconciler(profilesRepo, &log.Logger)

	schedCfg := analyzer.SchedulerConfig{
		Jobs:        jobsRepo,
		Candidates:  candidatesRepo,
		Fetcher:     fetcher,
		Scorer:      scorer,
		Quota:       reconciler,
		Hub:         hub,
		Concurrency: cfg.AnalysisConcurrency,
		Logger:      log,
	}
	if pub != nil {
		schedCfg.Publisher = pub
	}
	scheduler := analyzer.NewScheduler(schedCfg)

	// 10. API server
	srv := api.NewServer(&api.Config{
		Port:        cfg.HTTPPort,
		Title:       "TalentSift API",
		Description: "Résumé screening and candidate analysis",
		Version:     "1.0.0",
	}, &api.Dependencies{
		JobsRepo:          jobsRepo,
		CandidatesRepo:    candidatesRepo,
		ProfilesRepo:      profilesRepo,
		AnnouncementsRepo: announcementsRepo,
		Store:             store,
		Analysis:          scheduler,
		Hub:               hub,
	})

	srv.Mux().HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		web.ServeWs(hub, w, r)
	})

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("api server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("api server stopped")
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("shutdown complete")
}
