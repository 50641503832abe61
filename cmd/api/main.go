package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/genai"

	"github.com/spendwise/spendwise/internal/api/handlers"
	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/config"
	"github.com/spendwise/spendwise/internal/insights"
	"github.com/spendwise/spendwise/internal/jobs"
	"github.com/spendwise/spendwise/internal/jobs/inmemory"
	"github.com/spendwise/spendwise/internal/logger"
	"github.com/spendwise/spendwise/internal/receipts"
	storebq "github.com/spendwise/spendwise/internal/store/bigquery"
	"github.com/spendwise/spendwise/internal/tracker"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	dataStore, err := storebq.New(ctx, cfg.ProjectID, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create data store")
	}
	defer dataStore.Close()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create genai client")
	}

	service := tracker.New(tracker.Stores{
		Accounts:     dataStore,
		Categories:   dataStore,
		Transactions: dataStore,
		Plans:        dataStore,
		Balances:     dataStore,
	}, log)
	generator := insights.NewGenerator(genaiClient, cfg.Model, log)

	// Receipt scanning runs only when a bucket is configured.
	var blobs receipts.BlobStore
	if cfg.Bucket != "" {
		storageClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer storageClient.Close()
		blobs = receipts.NewGCSStore(storageClient, cfg.Bucket)
	} else {
		log.Warn().Msg("No GCS bucket configured - receipt scanning is disabled")
	}

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.ScanQueueSize, cfg.ScanWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if blobs != nil {
		scanner := receipts.NewScanner(blobs, receipts.NewGeminiOCR(genaiClient, cfg.Model), log)
		scanHandler := func(ctx context.Context, job *jobs.ScanReceiptJob) error {
			result, err := scanner.Scan(ctx, job.GCSURI, job.MimeType)
			if err != nil {
				return err
			}
			job.Result = result
			return nil
		}
		go func() {
			log.Info().Int("workers", cfg.ScanWorkers).Msg("Starting scan workers")
			if err := jobQueue.Start(workerCtx, scanHandler); err != nil {
				log.Error().Err(err).Msg("Scan workers stopped with error")
			}
		}()
	}

	accountsHandler := handlers.NewAccountsHandler(service, log)
	categoriesHandler := handlers.NewCategoriesHandler(service, log)
	transactionsHandler := handlers.NewTransactionsHandler(service, log)
	insightsHandler := handlers.NewInsightsHandler(service, generator, log)
	profileHandler := handlers.NewProfileHandler(dataStore, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/accounts", accountsHandler.List)
	mux.HandleFunc("POST /api/accounts", accountsHandler.Create)
	mux.HandleFunc("GET /api/accounts/{id}", accountsHandler.Get)
	mux.HandleFunc("PUT /api/accounts/{id}", accountsHandler.Update)
	mux.HandleFunc("DELETE /api/accounts/{id}", accountsHandler.Delete)
	mux.HandleFunc("POST /api/accounts/transfer", accountsHandler.Transfer)
	mux.HandleFunc("POST /api/accounts/{id}/funds", accountsHandler.AddFunds)

	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)
	mux.HandleFunc("DELETE /api/categories/{id}", categoriesHandler.Delete)

	mux.HandleFunc("GET /api/transactions", transactionsHandler.List)
	mux.HandleFunc("POST /api/transactions", transactionsHandler.Create)
	mux.HandleFunc("GET /api/transactions/{id}", transactionsHandler.Get)
	mux.HandleFunc("PUT /api/transactions/{id}", transactionsHandler.Update)
	mux.HandleFunc("DELETE /api/transactions/{id}", transactionsHandler.Delete)

	mux.HandleFunc("GET /api/insights", insightsHandler.Get)
	mux.HandleFunc("GET /api/profile", profileHandler.Get)
	mux.HandleFunc("PUT /api/profile", profileHandler.Update)

	if blobs != nil {
		receiptsHandler := handlers.NewReceiptsHandler(blobs, jobQueue, log)
		mux.HandleFunc("POST /api/receipts", receiptsHandler.Upload)
	}
	mux.HandleFunc("GET /api/jobs", jobsHandler.List)
	mux.HandleFunc("GET /api/jobs/{id}", jobsHandler.Get)

	authed := middleware.Auth(mux)

	root := http.NewServeMux()
	root.Handle("/api/", authed)
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(root),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping scan queue")
	}

	log.Info().Msg("Server exited")
}
