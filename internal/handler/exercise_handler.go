package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/mansoorceksport/coachbook/internal/metrics"
	"github.com/mansoorceksport/coachbook/internal/service"
)

type exerciseRequest struct {
	Name        string `json:"name" validate:"required"`
	Section     string `json:"section" validate:"required"`
	Difficulty  *int   `json:"difficulty" validate:"required,min=0,max=5"`
	Duration    *int   `json:"duration" validate:"required,gt=0"`
	Description string `json:"description"`
	Video       string `json:"video" validate:"omitempty,url"`
}

type ExerciseHandler struct {
	exerciseService *service.ExerciseService
	metricsManager  *metrics.Manager
	defaultPageSize int
	maxPageSize     int
}

func NewExerciseHandler(
	exerciseService *service.ExerciseService,
	metricsManager *metrics.Manager,
	defaultPageSize, maxPageSize int,
) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		metricsManager:  metricsManager,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListExercises handles GET /exercises. Pagination metadata goes in the
// X-Pagination header, the body is the page of exercises.
func (h *ExerciseHandler) ListExercises(c *fiber.Ctx) error {
	page, err := parsePage(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return writeError(c, err)
	}

	filter := domain.ExerciseFilter{Section: c.Query("section")}
	result, err := h.exerciseService.List(c.UserContext(), filter, page)
	if err != nil {
		return writeError(c, err)
	}

	if err := setPaginationHeader(c, NewPageMeta(page, result.Total)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(result.Items)
}

func (h *ExerciseHandler) GetExercise(c *fiber.Ctx) error {
	exercise, err := h.exerciseService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(exercise)
}

func (h *ExerciseHandler) DeleteExercise(c *fiber.Ctx) error {
	if err := h.exerciseService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).Send(nil)
}

// CreateExercise handles PUT /exercises/create.
func (h *ExerciseHandler) CreateExercise(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if verr := validateBody(&req); verr.HasErrors() {
		return writeError(c, verr)
	}

	exercise, err := h.exerciseService.Create(c.UserContext(), &domain.Exercise{
		Name:        req.Name,
		Section:     req.Section,
		Difficulty:  *req.Difficulty,
		Duration:    *req.Duration,
		Description: req.Description,
		Video:       req.Video,
	})
	if err != nil {
		return writeError(c, err)
	}

	if h.metricsManager != nil {
		h.metricsManager.CounterExercisesCreated.Inc()
	}
	return c.JSON(exercise)
}
