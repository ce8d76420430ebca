package property

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/treadbook/treadbook/internal/catalog"
	"github.com/treadbook/treadbook/internal/users"
)

func setupHandlerApp(t *testing.T) (*fiber.App, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	svc := NewService(store, catalog.Static{Sizes: map[int64]string{
		5000: "225/60R16",
		6000: "205/75R18",
	}})
	handler := NewHandler(svc)

	// The GET routes run behind token auth in production; tests inject the
	// authenticated user directly.
	authAs := func(login string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			user, err := store.FindByID(c.UserContext(), login)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "user not found")
			}
			c.Locals("user", user)
			return c.Next()
		}
	}

	app := fiber.New()
	app.Post("/properties", handler.CreateProperties)
	app.Get("/properties", authAs("alice"), handler.GetProperties)
	app.Get("/properties/:idx", authAs("alice"), handler.GetProperty)
	return app, store
}

func TestCreatePropertiesEndpoint(t *testing.T) {
	app, store := setupHandlerApp(t)
	store.SeedUser(users.User{ID: "alice", PasswordHash: []byte("x")})

	req := httptest.NewRequest(fiber.MethodPost, "/properties",
		strings.NewReader(`[{"id":"alice","trimId":5000}]`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	if n := len(store.Ownerships()); n != 1 {
		t.Fatalf("expected 1 ownership, got %d", n)
	}
}

func TestCreatePropertiesBatchBounds(t *testing.T) {
	app, store := setupHandlerApp(t)
	store.SeedUser(users.User{ID: "alice", PasswordHash: []byte("x")})

	sixItems := strings.TrimSuffix(strings.Repeat(`{"id":"alice","trimId":5000},`, 6), ",")
	cases := []struct {
		name string
		body string
	}{
		{"empty batch", `[]`},
		{"oversized batch", "[" + sixItems + "]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/properties", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.Contains(string(body), "between 1 and 5 items") {
				t.Fatalf("unexpected error body: %s", body)
			}
		})
	}
}

func TestCreatePropertiesUnknownUserEndpoint(t *testing.T) {
	app, store := setupHandlerApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/properties",
		strings.NewReader(`[{"id":"ghost","trimId":5000}]`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if n := len(store.Ownerships()); n != 0 {
		t.Fatalf("expected no ownerships, got %d", n)
	}
}

func TestGetPropertiesEndpoint(t *testing.T) {
	app, store := setupHandlerApp(t)
	store.SeedUser(users.User{ID: "alice", PasswordHash: []byte("x")})

	req := httptest.NewRequest(fiber.MethodPost, "/properties",
		strings.NewReader(`[{"id":"alice","trimId":5000},{"id":"alice","trimId":6000}]`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("seed request: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/properties?page=1&limit=5", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"count":2`, `"width":225`, `"width":205`} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %s in body: %s", want, body)
		}
	}
}

func TestGetPropertyEndpointUnknownIdx(t *testing.T) {
	app, store := setupHandlerApp(t)
	store.SeedUser(users.User{ID: "alice", PasswordHash: []byte("x")})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/properties/42", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for unknown idx, got %d", resp.StatusCode)
	}
}
