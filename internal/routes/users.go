package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/users"
)

// RegisterUserRoutes wires the user registration endpoint.
func RegisterUserRoutes(r fiber.Router, h *users.Handler) {
	r.Post("/users", h.Register)
}
