package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/auth"
)

// RegisterAuthRoutes wires the login endpoint, rate-limited when Redis is
// available.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
}
