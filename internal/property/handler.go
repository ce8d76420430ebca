package property

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/users"
	"github.com/treadbook/treadbook/internal/validation"
)

// Handler exposes property endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a property HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateProperties registers a batch of (user id, trim id) pairs. The batch
// size bound is enforced here, before the workflow starts.
func (h *Handler) CreateProperties(c *fiber.Ctx) error {
	var batch []RegistrationInput
	if err := c.BodyParser(&batch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if len(batch) == 0 || len(batch) > MaxBatchSize {
		return fiber.NewError(http.StatusBadRequest, "between 1 and 5 items can be registered at once")
	}
	for _, item := range batch {
		if fields := validation.Struct(item); fields != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"errors": fields})
		}
	}

	outcome := h.service.CreateProperties(c.UserContext(), batch)
	if !outcome.OK {
		return fiber.NewError(outcome.HTTPStatus, outcome.Error)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"message": "tire information saved; a user and tire pair registered before is kept as is",
	})
}

// GetProperties lists the authenticated user's registered tires.
func (h *Handler) GetProperties(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(users.User)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 5)

	result, err := h.service.GetProperties(c.UserContext(), user.Idx, page, limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "failed to list properties")
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetProperty returns one registered tire owned by the authenticated user.
func (h *Handler) GetProperty(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(users.User)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	idx, err := c.ParamsInt("idx")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid property idx")
	}

	record, err := h.service.GetProperty(c.UserContext(), int64(idx), user.Idx)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return fiber.NewError(http.StatusBadRequest, ErrNoRecord.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to fetch property")
	}
	return c.Status(http.StatusOK).JSON(record)
}
