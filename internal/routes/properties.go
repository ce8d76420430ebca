package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/property"
)

// RegisterPropertyRoutes wires property endpoints. Batch registration stays
// public, matching the account-id-in-body contract; reads require a bearer
// token. The idempotency middleware guards the mutation when Redis is up.
// Routes are registered per method so the JWT guard never shadows the
// public POST.
func RegisterPropertyRoutes(r fiber.Router, h *property.Handler, jwtAuth fiber.Handler, idempotency fiber.Handler) {
	if idempotency != nil {
		r.Post("/properties", idempotency, h.CreateProperties)
	} else {
		r.Post("/properties", h.CreateProperties)
	}

	r.Get("/properties", jwtAuth, h.GetProperties)
	r.Get("/properties/:idx", jwtAuth, h.GetProperty)
}
