package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/KP-101219/Quickroll-V2/internal/api/docs"
	"github.com/KP-101219/Quickroll-V2/internal/api/handler"
	"github.com/KP-101219/Quickroll-V2/internal/api/middleware"
	"github.com/KP-101219/Quickroll-V2/internal/attendance"
	"github.com/KP-101219/Quickroll-V2/internal/capture"
	"github.com/KP-101219/Quickroll-V2/internal/provider"
	"github.com/KP-101219/Quickroll-V2/internal/recognition"
	"github.com/KP-101219/Quickroll-V2/internal/repository"
	"github.com/KP-101219/Quickroll-V2/internal/storage"
	"github.com/KP-101219/Quickroll-V2/internal/tracking"
	"github.com/KP-101219/Quickroll-V2/internal/ws"
)

type Dependencies struct {
	StudentRepo    repository.StudentRepositoryInterface
	EmbeddingRepo  repository.EmbeddingRepositoryInterface
	AttendanceRepo repository.AttendanceRepositoryInterface
	FaceProvider   provider.FaceProvider
	Classifier     *recognition.Classifier
	Tracker        *tracking.FrameTracker
	Engine         *attendance.Engine
	Session        *capture.Session
	Photos         *storage.Store
	DB             *pgxpool.Pool
}

type Router struct {
	app       *fiber.App
	logger    *slog.Logger
	deps      *Dependencies
	wsHub     *ws.Hub
	cancelHub context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Quickroll API",
		BodyLimit:    16 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	v1 := r.app.Group("/v1")

	// Only configure application routes if dependencies were provided
	if r.deps != nil {
		// WebSocket hub pushes attendance and capture events to the station UI
		r.wsHub = ws.NewHub()
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.wsHub.Run(hubCtx)

		recognitionHandler := handler.NewRecognitionHandler(
			r.deps.Tracker,
			r.deps.Classifier,
			r.deps.Engine,
			r.deps.FaceProvider,
			r.deps.EmbeddingRepo,
			r.wsHub,
			r.logger,
		)
		v1.Post("/recognition/frames", recognitionHandler.ProcessFrame)
		v1.Post("/recognition/identify", recognitionHandler.Identify)
		v1.Post("/recognition/candidates", recognitionHandler.Candidates)
		v1.Post("/recognition/reload", recognitionHandler.Reload)
		v1.Post("/recognition/reset", recognitionHandler.Reset)

		studentsHandler := handler.NewStudentsHandler(
			r.deps.StudentRepo,
			r.deps.EmbeddingRepo,
			r.deps.Photos,
			r.deps.Classifier,
			r.logger,
		)
		v1.Get("/students", studentsHandler.List)
		v1.Post("/students", studentsHandler.Create)
		v1.Get("/students/:student_id", studentsHandler.Get)
		v1.Delete("/students/:student_id", studentsHandler.Delete)

		attendanceHandler := handler.NewAttendanceHandler(
			r.deps.Engine,
			r.deps.StudentRepo,
			r.deps.AttendanceRepo,
			r.wsHub,
			r.logger,
		)
		v1.Get("/attendance/today", attendanceHandler.Today)
		v1.Get("/attendance/stats", attendanceHandler.Stats)
		v1.Get("/attendance", attendanceHandler.ByDate)
		v1.Post("/attendance/mark", attendanceHandler.Mark)

		captureHandler := handler.NewCaptureHandler(
			r.deps.Session,
			r.deps.StudentRepo,
			r.deps.EmbeddingRepo,
			r.deps.Classifier,
			r.wsHub,
			r.logger,
		)
		v1.Post("/capture/start", captureHandler.Start)
		v1.Post("/capture/frames", captureHandler.ProcessFrame)
		v1.Get("/capture/status", captureHandler.Status)
		v1.Post("/capture/reset", captureHandler.Reset)

		// WebSocket endpoint
		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelHub != nil {
		r.cancelHub()
	}

	return r.app.Shutdown()
}
