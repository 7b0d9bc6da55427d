package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fundalabs/dashboard-api/internal/service"
	"github.com/fundalabs/dashboard-api/internal/upstream"
	"github.com/fundalabs/dashboard-api/internal/utils"
)

// DashboardHandler exposes the synchronized dashboard resources.
type DashboardHandler struct {
	service   service.DashboardService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service service.DashboardService, validator *validator.Validate, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoints.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/snapshot", h.snapshot)
	router.Get("/quizzes", h.quizzes)
	router.Get("/challenges", h.challenges)
	router.Get("/challenges/:id", h.challengeDetail)
	router.Get("/learning-path", h.learningPath)
	router.Post("/refresh", h.refresh)
}

// listQuery carries the filter/sort parameters of the listing endpoints.
// The sentinel "All" (or an empty value) disables a filter.
type listQuery struct {
	Search   string `query:"search" validate:"omitempty,max=100"`
	Category string `query:"category" validate:"omitempty,max=50"`
	Status   string `query:"status" validate:"omitempty,oneof=All all available completed overdue upcoming in_progress not_started"`
	Sort     string `query:"sort" validate:"omitempty,oneof=due_date date_posted total_marks class_progress"`
}

func (h *DashboardHandler) snapshot(c *fiber.Ctx) error {
	id := requestIdentity(c)

	snapshot, err := h.service.Snapshot(c.Context(), id)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load dashboard snapshot")
	}

	return utils.SendSuccess(c, "snapshot retrieved", snapshot)
}

func (h *DashboardHandler) quizzes(c *fiber.Ctx) error {
	id := requestIdentity(c)

	params, ok, err := h.parseListQuery(c)
	if !ok {
		return err
	}

	quizzes, state, err := h.service.Quizzes(c.Context(), id, params)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load quizzes")
	}

	return utils.SendSuccess(c, "quizzes retrieved", fiber.Map{
		"quizzes": quizzes,
		"state":   state,
	})
}

func (h *DashboardHandler) challenges(c *fiber.Ctx) error {
	id := requestIdentity(c)

	params, ok, err := h.parseListQuery(c)
	if !ok {
		return err
	}

	challenges, state, err := h.service.Challenges(c.Context(), id, params)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load challenges")
	}

	return utils.SendSuccess(c, "challenges retrieved", fiber.Map{
		"challenges": challenges,
		"state":      state,
	})
}

func (h *DashboardHandler) challengeDetail(c *fiber.Ctx) error {
	id := requestIdentity(c)

	challengeID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	detail, err := h.service.ChallengeDetail(c.Context(), id, challengeID)
	if err != nil {
		var netErr *upstream.NetworkError
		if errors.As(err, &netErr) && netErr.StatusCode == fiber.StatusNotFound {
			return utils.SendError(c, fiber.StatusNotFound, "challenge not found")
		}
		return h.sendServiceError(c, err, "failed to load challenge")
	}

	return utils.SendSuccess(c, "challenge retrieved", detail)
}

func (h *DashboardHandler) learningPath(c *fiber.Ctx) error {
	id := requestIdentity(c)

	items, state, err := h.service.LearningPath(c.Context(), id)
	if err != nil {
		return h.sendServiceError(c, err, "failed to load learning path")
	}

	return utils.SendSuccess(c, "learning path retrieved", fiber.Map{
		"items": items,
		"state": state,
	})
}

func (h *DashboardHandler) refresh(c *fiber.Ctx) error {
	id := requestIdentity(c)
	resource := strings.TrimSpace(c.Query("resource"))

	if err := h.service.Refresh(c.Context(), id, resource); err != nil {
		if errors.Is(err, service.ErrUnknownResource) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.sendServiceError(c, err, "failed to refresh")
	}

	return utils.SendSuccess(c, "refresh completed", nil)
}

// parseListQuery binds and validates the listing parameters. On failure the
// 400 response has already been written and ok is false.
func (h *DashboardHandler) parseListQuery(c *fiber.Ctx) (service.ListOptions, bool, error) {
	var params listQuery
	if err := c.QueryParser(&params); err != nil {
		return service.ListOptions{}, false, utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(params); err != nil {
		return service.ListOptions{}, false, utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid query parameters", validationDetails(err))
	}

	return service.ListOptions{
		Search:   params.Search,
		Category: params.Category,
		Status:   params.Status,
		Sort:     params.Sort,
	}, true, nil
}

// sendServiceError maps service failures onto HTTP responses. Identity
// problems get 401 so the UI routes to re-authentication instead of retry.
func (h *DashboardHandler) sendServiceError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, service.ErrInvalidIdentity) {
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	}

	h.logger.Error().Err(err).Str("path", c.Path()).Msg(message)

	var netErr *upstream.NetworkError
	if errors.As(err, &netErr) {
		return utils.SendError(c, fiber.StatusBadGateway, message)
	}

	return utils.SendError(c, fiber.StatusInternalServerError, message)
}

func validationDetails(err error) map[string]string {
	details := map[string]string{}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldErr := range fieldErrors {
			details[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	return details
}
