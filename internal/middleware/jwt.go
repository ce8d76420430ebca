package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/auth"
	"github.com/treadbook/treadbook/internal/config"
	"github.com/treadbook/treadbook/internal/users"
)

// UserLocal is the fiber locals key the authenticated user is stored under.
const UserLocal = "user"

// JWTAuth validates bearer tokens and loads the authenticated user into
// request locals. Tokens for since-deleted accounts are rejected.
func JWTAuth(cfg config.Config, repo users.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}

		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := auth.ParseToken(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := repo.FindByID(c.UserContext(), claims.LoginID)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}

		c.Locals(UserLocal, user)
		return c.Next()
	}
}
