package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/users"
	"github.com/treadbook/treadbook/internal/validation"
)

// Handler exposes the login endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type loginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login validates credentials and returns a bearer token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if fields := validation.Struct(req); fields != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"errors": fields})
	}

	token, err := h.service.Login(c.UserContext(), users.Credentials{ID: req.ID, Password: req.Password})
	if err != nil {
		if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrPasswordMismatch) {
			return fiber.NewError(http.StatusUnauthorized, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "login failed")
	}

	return c.Status(http.StatusOK).JSON(token)
}
