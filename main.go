package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/raushankrgupta/stylis/api"
	"github.com/raushankrgupta/stylis/collection"
	"github.com/raushankrgupta/stylis/config"
	"github.com/raushankrgupta/stylis/scrapers"
	"github.com/raushankrgupta/stylis/scrapers/base"
	"github.com/raushankrgupta/stylis/session"
	"github.com/raushankrgupta/stylis/stylist"
	"github.com/raushankrgupta/stylis/utils"
)

func main() {
	config.LoadConfig()

	logger, err := utils.NewLogger(config.AppEnv)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Gemini
	client, err := stylist.NewClient(ctx, stylist.Options{
		APIKey:        config.GeminiAPIKey,
		AnalysisModel: config.GeminiAnalysisModel,
		ImageModel:    config.GeminiImageModel,
		Timeout:       config.GeminiTimeout,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	defer client.Close()

	// Initialize the collection backend
	backend, closeBackend, err := openBackend(ctx, config.CollectionBackend)
	if err != nil {
		logger.Fatal("Failed to open collection backend", zap.String("backend", config.CollectionBackend), zap.Error(err))
	}
	defer closeBackend()

	store := collection.New(ctx, backend, logger)
	sess := session.New(client, client, client, logger)

	registry := scrapers.NewRegistry(base.NewBaseScraper(logger))
	importer := scrapers.NewImporter(registry, config.MaxUploadSize, logger)
	mailer := utils.NewMailer(config.SendGridAPIKey, config.SendGridFromEmail, logger)

	handler := api.NewHandler(api.Deps{
		Session:       sess,
		Store:         store,
		Importer:      importer,
		Mailer:        mailer,
		JWTSecret:     config.JWTSecret,
		MaxUploadSize: config.MaxUploadSize,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("Server starting",
			zap.String("port", config.Port),
			zap.String("backend", backend.Name()),
			zap.Bool("email", mailer.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	// Let the background generation pass drain before the client closes.
	done := make(chan struct{})
	go func() {
		sess.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("Generation still running at shutdown")
	}
}

// openBackend connects the configured collection backend and returns a
// function releasing its connection.
func openBackend(ctx context.Context, kind string) (collection.Backend, func(), error) {
	noop := func() {}

	switch kind {
	case config.BackendFile:
		return collection.NewFileBackend(config.CollectionFile), noop, nil

	case config.BackendMongo:
		client, err := utils.ConnectMongo(ctx, config.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		coll := client.Database(config.DBName).Collection("collections")
		return collection.NewMongoBackend(coll, config.CollectionKey), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				zap.L().Warn("Failed to disconnect from MongoDB", zap.Error(err))
			}
		}, nil

	case config.BackendS3:
		if config.AWSBucketName == "" {
			return nil, noop, errors.New("AWS_BUCKET_NAME is required for the s3 backend")
		}
		client, err := utils.NewS3Client(ctx, config.AWSRegion)
		if err != nil {
			return nil, noop, err
		}
		return collection.NewS3Backend(client, config.AWSBucketName, config.CollectionKey), noop, nil

	case config.BackendRedis:
		client, err := utils.ConnectRedis(ctx, config.RedisHost, config.RedisPassword)
		if err != nil {
			return nil, noop, err
		}
		return collection.NewRedisBackend(client, config.CollectionKey), func() {
			if err := client.Close(); err != nil {
				zap.L().Warn("Failed to close Redis client", zap.Error(err))
			}
		}, nil
	}

	return nil, noop, fmt.Errorf("unknown collection backend %q", kind)
}
