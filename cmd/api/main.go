package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/KP-101219/Quickroll-V2/internal/api"
	"github.com/KP-101219/Quickroll-V2/internal/attendance"
	"github.com/KP-101219/Quickroll-V2/internal/capture"
	"github.com/KP-101219/Quickroll-V2/internal/config"
	"github.com/KP-101219/Quickroll-V2/internal/database"
	"github.com/KP-101219/Quickroll-V2/internal/face"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/repository"
	"github.com/KP-101219/Quickroll-V2/internal/storage"
	"github.com/KP-101219/Quickroll-V2/internal/tracking"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Quickroll API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	// Run pending migrations before opening the application pool
	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Application connection pool
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Repositories
	studentRepo := repository.NewStudentRepository(pool)
	embeddingRepo := repository.NewEmbeddingRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	// Face provider
	faceProvider, err := face.NewFaceProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create face provider: %w", err)
	}
	logger.Info("face provider initialized", slog.String("provider", cfg.ProviderType))

	// Classifier with the enrolled reference set
	classifier := recognition.NewClassifier(faceProvider, logger)
	enrolled, err := embeddingRepo.ListAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load enrolled students: %w", err)
	}
	classifier.Reload(enrolled)
	logger.Info("classifier loaded", slog.Int("students", classifier.Enrolled()))

	// Frame tracker
	tracker := tracking.NewFrameTracker(faceProvider, classifier, tracking.Options{
		DetectionInterval:   cfg.DetectionInterval,
		RecognitionInterval: cfg.RecognitionInterval,
		MaxTrackingFailures: cfg.MaxTrackingFailures,
	}, logger)

	// Attendance engine, warm-started from today's log
	engine, err := attendance.NewEngine(context.Background(), attendanceRepo, cfg.Cooldown(), logger)
	if err != nil {
		return fmt.Errorf("failed to create attendance engine: %w", err)
	}

	// Enrollment capture session
	photos := storage.NewStore(cfg.DataDir)
	session := capture.NewSession(faceProvider, photos, cfg.MirrorPreview, logger)

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		StudentRepo:    studentRepo,
		EmbeddingRepo:  embeddingRepo,
		AttendanceRepo: attendanceRepo,
		FaceProvider:   faceProvider,
		Classifier:     classifier,
		Tracker:        tracker,
		Engine:         engine,
		Session:        session,
		Photos:         photos,
		DB:             pool,
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}

func runMigrations(dsn string) error {
	db, err := database.NewPool(database.DefaultPoolConfig(dsn))
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	migrator, err := database.NewMigrator(db, "quickroll")
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	return migrator.Up()
}
