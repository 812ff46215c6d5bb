package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/coachbook/internal/daterange"
	"github.com/mansoorceksport/coachbook/internal/domain"
	"github.com/mansoorceksport/coachbook/internal/metrics"
	"github.com/mansoorceksport/coachbook/internal/service"
)

type stageRequest struct {
	// duration and nb_exercises are derived and ignored when sent
	Exercises []string `json:"exercises" validate:"dive,required"`
}

type trainingRequest struct {
	ID       string         `json:"id"`
	Category string         `json:"category" validate:"required"`
	DateTime string         `json:"date_time" validate:"required"`
	Place    string         `json:"place"`
	NbStages *int           `json:"nb_stages"` // accepted for compatibility, recomputed
	Stages   []stageRequest `json:"stages" validate:"dive"`
	Tags     []string       `json:"tags"`
}

type TrainingHandler struct {
	trainingService *service.TrainingService
	metricsManager  *metrics.Manager
	defaultCategory string
	now             func() time.Time
}

func NewTrainingHandler(
	trainingService *service.TrainingService,
	metricsManager *metrics.Manager,
	defaultCategory string,
) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
		metricsManager:  metricsManager,
		defaultCategory: defaultCategory,
		now:             time.Now,
	}
}

func (h *TrainingHandler) parseTraining(c *fiber.Ctx) (service.TrainingInput, error) {
	var req trainingRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TrainingInput{}, fiber.NewError(fiber.StatusBadRequest, "Invalid body")
	}

	verr := validateBody(&req)
	var when time.Time
	if req.DateTime != "" {
		var err error
		if when, err = daterange.ParseDatetime(req.DateTime); err != nil {
			verr.Add("date_time", "Not a valid datetime.")
		}
	}
	if verr.HasErrors() {
		return service.TrainingInput{}, verr
	}

	in := service.TrainingInput{
		ID:       req.ID,
		Category: req.Category,
		DateTime: when,
		Place:    req.Place,
		Stages:   make([][]string, 0, len(req.Stages)),
		Tags:     req.Tags,
	}
	for _, st := range req.Stages {
		in.Stages = append(in.Stages, st.Exercises)
	}
	return in, nil
}

func (h *TrainingHandler) respondParseError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok && fe.Code == fiber.StatusBadRequest {
		return badRequest(c, fe.Message)
	}
	return writeError(c, err)
}

// CreateTraining handles PUT /trainings.
func (h *TrainingHandler) CreateTraining(c *fiber.Ctx) error {
	in, err := h.parseTraining(c)
	if err != nil {
		return h.respondParseError(c, err)
	}

	training, err := h.trainingService.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	h.countWrite("create")
	return c.JSON(training)
}

// UpdateTraining handles POST /trainings/:id and POST /trainings with the id
// in the body. A path id takes precedence.
func (h *TrainingHandler) UpdateTraining(c *fiber.Ctx) error {
	in, err := h.parseTraining(c)
	if err != nil {
		return h.respondParseError(c, err)
	}
	if id := c.Params("id"); id != "" {
		in.ID = id
	}
	if in.ID == "" {
		return writeError(c, domain.NewValidationError(domain.LocationJSON).Add("id", "Missing data for required field."))
	}

	training, err := h.trainingService.Update(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	h.countWrite("update")
	return c.JSON(training)
}

func (h *TrainingHandler) GetTraining(c *fiber.Ctx) error {
	training, err := h.trainingService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(training)
}

func (h *TrainingHandler) DeleteTraining(c *fiber.Ctx) error {
	if err := h.trainingService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusOK).Send(nil)
}

// ListTrainings handles GET /trainings over a datetime window.
func (h *TrainingHandler) ListTrainings(c *fiber.Ctx) error {
	r, err := daterange.ParseDatetimeRange(c.Query("start"), c.Query("end"), h.now())
	if err != nil {
		return writeError(c, err)
	}

	trainings, err := h.trainingService.List(c.UserContext(), c.Query("category", h.defaultCategory), r.Start, r.End)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(trainings)
}

// NextTraining handles GET /trainings/next. No upcoming training yields {}.
func (h *TrainingHandler) NextTraining(c *fiber.Ctx) error {
	next, err := h.trainingService.Next(c.UserContext(), c.Query("category", h.defaultCategory))
	if err != nil {
		return writeError(c, err)
	}
	if next == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(next)
}

// ListTrainingsByDay handles GET /trainings/list. A date selects that day, or
// its ISO week when week is true; without a date the start/end day range
// applies.
func (h *TrainingHandler) ListTrainingsByDay(c *fiber.Ctx) error {
	verr := domain.NewValidationError(domain.LocationQuery)

	category := c.Query("category")
	if category == "" {
		verr.Add("category", "Missing data for required field.")
	}

	week := false
	if raw := c.Query("week"); raw != "" {
		var err error
		if week, err = strconv.ParseBool(raw); err != nil {
			verr.Add("week", "Not a valid boolean.")
		}
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		d, err := daterange.ParseDate(raw)
		if err != nil {
			verr.Add("date", "Not a valid date.")
		}
		date = &d
	}
	if verr.HasErrors() {
		return writeError(c, verr)
	}

	var r daterange.Range
	switch {
	case date != nil && week:
		r = daterange.WeekOf(*date)
	case date != nil:
		r = daterange.Day(*date)
	case week:
		r = daterange.WeekOf(h.now())
	default:
		var err error
		if r, err = daterange.ParseDateRange(c.Query("start"), c.Query("end"), h.now()); err != nil {
			return writeError(c, err)
		}
	}

	trainings, err := h.trainingService.List(c.UserContext(), category, r.Start, r.End)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(trainings)
}

func (h *TrainingHandler) countWrite(op string) {
	if h.metricsManager != nil {
		h.metricsManager.CounterTrainingsWritten.WithLabelValues(op).Inc()
	}
}
