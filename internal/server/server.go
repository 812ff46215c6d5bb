package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/mansoorceksport/coachbook/internal/config"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/mansoorceksport/coachbook/internal/handler"
	"github.com/mansoorceksport/coachbook/internal/metrics"
	"github.com/mansoorceksport/coachbook/internal/middleware"
	"github.com/mansoorceksport/coachbook/internal/repository"
	"github.com/mansoorceksport/coachbook/internal/service"
	"github.com/mansoorceksport/coachbook/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config         *config.Config
	MongoDB        *mongo.Database
	RedisClient    *redis.Client // optional, enables idempotent write replay
	MetricsManager *metrics.Manager
	Gatherer       prometheus.Gatherer
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize repositories
	exerciseRepo := repository.NewMongoExerciseRepository(deps.MongoDB)
	trainingRepo := repository.NewMongoTrainingRepository(deps.MongoDB)

	// Initialize services
	exerciseService := service.NewExerciseService(exerciseRepo)
	trainingService := service.NewTrainingService(trainingRepo, exerciseRepo)

	// Initialize handlers
	exerciseHandler := handler.NewExerciseHandler(exerciseService, deps.MetricsManager, cfg.Server.DefaultPageSize, cfg.Server.MaxPageSize)
	trainingHandler := handler.NewTrainingHandler(trainingService, deps.MetricsManager, cfg.Server.DefaultCategory)

	app := fiber.New(fiber.Config{
		AppName:      "coachbook",
		BodyLimit:    cfg.Server.BodyLimitKB * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(middleware.PanicRecovery(deps.MetricsManager))
	app.Use(middleware.RequestID())
	app.Use(telemetry.FiberMiddleware(func(c *fiber.Ctx) []attribute.KeyValue {
		return []attribute.KeyValue{attribute.String("request.id", middleware.RequestIDFrom(c))}
	}))
	app.Use(middleware.LogRequest())
	if deps.MetricsManager != nil {
		app.Use(middleware.Metrics(deps.MetricsManager))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.AllowOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Correlation-ID, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "X-Pagination, X-Request-ID, X-Trace-ID",
	}))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "coachbook",
		})
	})

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := app.Group("/api/v1")

	// writes are open unless a JWT secret is configured
	var guard []fiber.Handler
	if cfg.JWT.Secret != "" {
		guard = append(guard,
			middleware.VerifyToken(cfg.JWT.Secret),
			middleware.AuthorizeRole(domain.RoleCoach, domain.RoleAdmin),
		)
	}
	if deps.RedisClient != nil {
		store := repository.NewRedisCacheRepository(deps.RedisClient, "coachbook:")
		guard = append(guard, middleware.Idempotency(store, cfg.Redis.IdempotencyTTL, deps.MetricsManager))
	}
	write := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	// Exercises
	exercises := v1.Group("/exercises")
	exercises.Get("/", exerciseHandler.ListExercises)
	exercises.Put("/create", write(exerciseHandler.CreateExercise)...)
	exercises.Get("/:id", exerciseHandler.GetExercise)
	exercises.Delete("/:id", write(exerciseHandler.DeleteExercise)...)

	// Trainings; fixed paths before /:id
	trainings := v1.Group("/trainings")
	trainings.Get("/", trainingHandler.ListTrainings)
	trainings.Put("/", write(trainingHandler.CreateTraining)...)
	trainings.Post("/", write(trainingHandler.UpdateTraining)...)
	trainings.Get("/next", trainingHandler.NextTraining)
	trainings.Get("/list", trainingHandler.ListTrainingsByDay)
	trainings.Get("/:id", trainingHandler.GetTraining)
	trainings.Post("/:id", write(trainingHandler.UpdateTraining)...)
	trainings.Delete("/:id", write(trainingHandler.DeleteTraining)...)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.WithField("request_id", middleware.RequestIDFrom(c)).WithError(err).Error("unhandled error")
	}
	message := err.Error()
	if e == nil {
		message = "internal error"
	}
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  utils.StatusMessage(code),
		"message": message,
	})
}
