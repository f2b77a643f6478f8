package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/auth"
	"github.com/xhilo/pi-gateway/internal/logging"
	"github.com/xhilo/pi-gateway/internal/platform"
)

type stubResolver struct {
	user platform.User
	err  error
}

func (s *stubResolver) Me(_ context.Context, _ string) (platform.User, error) {
	if s.err != nil {
		return platform.User{}, s.err
	}
	return s.user, nil
}

func piAuthApp(resolver auth.UserResolver) *fiber.App {
	app := fiber.New()
	svc := auth.NewService(resolver, nil, time.Minute, logging.Discard())
	app.Get("/protected", PiAuth(svc), func(c *fiber.Ctx) error {
		uid, _ := c.Locals(UserUIDKey).(string)
		return c.SendString(uid)
	})
	return app
}

func TestPiAuthPopulatesLocals(t *testing.T) {
	app := piAuthApp(&stubResolver{user: platform.User{UID: "uid-1", Username: "pioneer"}})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer token-abc")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestPiAuthMissingBearer(t *testing.T) {
	app := piAuthApp(&stubResolver{user: platform.User{UID: "uid-1"}})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPiAuthInvalidToken(t *testing.T) {
	app := piAuthApp(&stubResolver{err: &platform.APIError{StatusCode: 401, Message: "invalid_access_token"}})

	req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer bogus")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAppSecret(t *testing.T) {
	app := fiber.New()
	app.Post("/payouts", AppSecret("shared"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/payouts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodPost, "/payouts", nil)
	req.Header.Set("X-App-Secret", "shared")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 with secret, got %d", resp.StatusCode)
	}
}
