package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/treadbook/treadbook/internal/auth"
	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/config"
	"github.com/treadbook/treadbook/internal/middleware"
	"github.com/treadbook/treadbook/internal/property"
	"github.com/treadbook/treadbook/internal/users"
)

// devTrimSizes backs the catalog in database-less development runs.
var devTrimSizes = map[int64]string{
	5000: "225/60R16",
	5001: "205/75R18",
	5002: "195/65R15",
}

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Development may run without Postgres/Redis on in-memory fallbacks;
	// anywhere else both are hard requirements (config enforces the same).
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	// One in-memory store backs both users and properties when Postgres is
	// absent, so registered users are visible to the registration workflow.
	// The catalog is swapped for the static fixture set in the same case,
	// keeping database-less runs fully offline.
	var (
		usersRepo   users.Repository
		store       property.Store
		trimCatalog catalog.Client
	)
	if d.DB != nil {
		usersRepo = users.NewPostgresRepository(d.DB)
		store = property.NewPostgresStore(d.DB)
		trimCatalog = catalog.NewHTTPClient(d.Cfg.CatalogBaseURL)
	} else {
		mem := property.NewMemoryStore()
		usersRepo = mem
		store = mem
		trimCatalog = catalog.Static{Sizes: devTrimSizes}
	}

	usersSvc := users.NewService(usersRepo)
	authSvc := auth.NewService(d.Cfg, usersSvc)
	propertySvc := property.NewService(store, trimCatalog)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterUserRoutes(api, users.NewHandler(usersSvc))
	RegisterAuthRoutes(api, auth.NewHandler(authSvc), middleware.LoginRateLimit(d.Cache, 5))

	var idempotency fiber.Handler
	if d.Cache != nil {
		idempotency = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterPropertyRoutes(api, property.NewHandler(propertySvc), middleware.JWTAuth(d.Cfg, usersRepo), idempotency)

	return nil
}
