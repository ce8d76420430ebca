package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/validation"
)

// Handler exposes user registration endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a user HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerRequest struct {
	ID       string `json:"id" validate:"required,min=5,max=12"`
	Password string `json:"password" validate:"required,min=5,max=20"`
}

type registerResponse struct {
	Idx       int64     `json:"idx"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Register handles user onboarding.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if fields := validation.Struct(req); fields != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"errors": fields})
	}

	user, err := h.service.Register(c.UserContext(), Credentials{ID: req.ID, Password: req.Password})
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return fiber.NewError(http.StatusBadRequest, ErrDuplicateID.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "failed to create user")
	}

	return c.Status(http.StatusCreated).JSON(registerResponse{
		Idx:       user.Idx,
		ID:        user.ID,
		CreatedAt: user.CreatedAt,
	})
}
