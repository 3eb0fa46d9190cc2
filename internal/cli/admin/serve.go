package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloo-solutions/faqd/internal/api/handlers"
	"github.com/cloo-solutions/faqd/internal/config"
	"github.com/cloo-solutions/faqd/internal/database"
	"github.com/cloo-solutions/faqd/internal/domain"
	"github.com/cloo-solutions/faqd/internal/logging"
	"github.com/cloo-solutions/faqd/internal/openai"
	"github.com/cloo-solutions/faqd/internal/repository"
	"github.com/cloo-solutions/faqd/internal/server"
	"github.com/cloo-solutions/faqd/internal/service"
	"github.com/cloo-solutions/faqd/internal/storage"
	"github.com/cloo-solutions/faqd/internal/telemetry"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the faqd API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides FAQD_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry, err := telemetry.Init(telemetry.Config{
		DSN:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		TracesSampleRate: telemetry.SampleRateFor(cfg.Environment),
		Debug:            cfg.Debug,
		Logger:           logger,
	})
	if err != nil {
		logger.Warn("telemetry init failed (continuing without tracing)", zap.Error(err))
	} else {
		defer shutdownTelemetry()
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	apiClient := openai.NewAPIClient(openAIConfig(cfg))

	embedder := newEmbedder(cfg, apiClient, logger)

	archive, err := newArchive(ctx, cfg, apiClient, logger)
	if err != nil {
		return err
	}
	if s3Archive, ok := archive.(*storage.S3Archive); ok {
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		logger.Info("s3 archive bucket ready", zap.String("bucket", cfg.S3Bucket))
	}

	entrySvc := service.NewEntryService(repository.NewEntryRepository(pool), embedder, logger)
	archiveSvc := service.NewArchiveService(archive, cfg.ArchiveCollectionID, logger)

	router := server.NewRouter(server.RouterConfig{
		EntryHandler:   handlers.NewEntryHandler(entrySvc),
		ArchiveHandler: handlers.NewArchiveHandler(archiveSvc),
		Logger:         logger,
		APIToken:       cfg.APIToken,
		CORSOrigins:    cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.Bool("auth", cfg.HasAuth()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Debug:  cfg.Debug,
		Format: cfg.LogFormat,
		Fields: map[string]string{"service": "faqd", "environment": cfg.Environment},
	})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

func openAIConfig(cfg *config.Config) openai.Config {
	return openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		BaseURL:             cfg.OpenAIBaseURL,
		EmbeddingModel:      goopenai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	}
}

func newEmbedder(cfg *config.Config, apiClient *goopenai.Client, logger *zap.Logger) service.EmbeddingClient {
	if !cfg.HasOpenAI() {
		logger.Warn("FAQD_OPENAI_API_KEY not set; entry create and update will fail")
		return NoOpEmbedder{}
	}
	client := openai.NewClientWithAPI(apiClient, openAIConfig(cfg))
	logger.Info("embedding provider ready", zap.String("model", client.Model()))
	return client
}

func newArchive(ctx context.Context, cfg *config.Config, apiClient *goopenai.Client, logger *zap.Logger) (service.ArchiveClient, error) {
	switch cfg.ArchiveBackend {
	case config.ArchiveBackendS3:
		if !cfg.HasS3() {
			return nil, fmt.Errorf("archive backend %q requires FAQD_S3_ENDPOINT, FAQD_S3_ACCESS_KEY_ID and FAQD_S3_SECRET_ACCESS_KEY", cfg.ArchiveBackend)
		}
		archive, err := storage.NewS3Archive(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 archive: %w", err)
		}
		return archive, nil
	default:
		if !cfg.HasOpenAI() {
			logger.Warn("FAQD_OPENAI_API_KEY not set; archive endpoints will fail")
			return NoOpArchive{}, nil
		}
		return openai.NewArchiveClient(apiClient), nil
	}
}

// NoOpEmbedder stands in when no embedding provider is configured.
type NoOpEmbedder struct{}

func (NoOpEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, openai.ErrNoAPIKey
}

// NoOpArchive stands in when no archive backend is configured.
type NoOpArchive struct{}

func (NoOpArchive) ListFiles(ctx context.Context, collectionID string, limit int, after string) (*domain.ArchiveFilePage, error) {
	return nil, domain.ArchiveUnavailableError("list files", collectionID, openai.ErrNoAPIKey)
}

func (NoOpArchive) GetFile(ctx context.Context, fileID string) (*domain.ArchiveFile, error) {
	return nil, domain.ArchiveUnavailableError("get file", fileID, openai.ErrNoAPIKey)
}

func (NoOpArchive) GetFileBytes(ctx context.Context, fileID string) ([]byte, error) {
	return nil, domain.ArchiveUnavailableError("get file content", fileID, openai.ErrNoAPIKey)
}
