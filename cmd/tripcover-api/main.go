// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripcover/internal/ai"
	"tripcover/internal/config"
	httptransport "tripcover/internal/http"
	"tripcover/internal/infra"
	"tripcover/internal/maps"
	"tripcover/internal/modules/dialogue"
	"tripcover/internal/modules/extract"
	"tripcover/internal/modules/handoff"
	"tripcover/internal/modules/intent"
	"tripcover/internal/modules/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	// The model provider is optional: without a key every component runs on
	// its deterministic path.
	var provider ai.LLMProvider
	if cfg.AI.GeminiKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		defer gemini.Close()
		provider = gemini
	} else {
		log.Print("GEMINI_API_KEY not set; running with deterministic fallbacks only")
	}

	geoSvc, err := maps.NewGeoService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("maps init: %v", err)
	}

	collaboratorTimeout := time.Duration(cfg.Dialogue.CollaboratorTimeoutSec) * time.Second

	var classifierModel intent.ModelClassifier
	var extractorModel extract.ModelExtractor
	var phraser dialogue.Phraser
	if provider != nil {
		classifierModel = provider
		extractorModel = provider
		phraser = provider
	}

	intentSvc := intent.NewService(classifierModel, collaboratorTimeout)
	extractSvc := extract.NewService(extractorModel, geoSvc, collaboratorTimeout)
	questionGen := dialogue.NewQuestionGenerator(phraser, collaboratorTimeout)

	sessionStore := session.NewRedisStore(redisClient)
	archiveStore := session.NewArchiveStore(dbPool)

	handoffStore := handoff.NewStore(dbPool)
	handoffSvc := handoff.NewService(handoffStore)

	dialogueSvc := dialogue.NewService(dialogue.Deps{
		Store:      sessionStore,
		Classifier: intentSvc,
		Extractor:  extractSvc,
		Questions:  questionGen,
		Boundary:   handoffSvc,
		Archiver:   archiveStore,
	}, cfg.Dialogue)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Dialogue: dialogueSvc,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
