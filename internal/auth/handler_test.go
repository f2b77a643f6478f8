package auth

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/logging"
	"github.com/xhilo/pi-gateway/internal/platform"
)

func newTestApp(resolver UserResolver) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: envelope.ErrorHandler})
	svc := NewService(resolver, nil, 5*time.Minute, logging.Discard())
	handler := NewHandler(svc)
	app.Post("/auth/verify", handler.Verify)
	return app
}

func TestVerifyHandlerSuccess(t *testing.T) {
	app := newTestApp(&fakeResolver{user: testUser()})

	req := httptest.NewRequest(fiber.MethodPost, "/auth/verify", strings.NewReader(`{"accessToken":"token-abc"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result envelope.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Message != "" {
		t.Fatalf("unexpected envelope %+v", result)
	}
	data, ok := result.Data.(map[string]any)
	if !ok || data["uid"] != "uid-1" || data["username"] != "pioneer" {
		t.Fatalf("unexpected data %+v", result.Data)
	}
}

func TestVerifyHandlerInvalidToken(t *testing.T) {
	app := newTestApp(&fakeResolver{err: &platform.APIError{StatusCode: 401, Message: "invalid_access_token"}})

	req := httptest.NewRequest(fiber.MethodPost, "/auth/verify", strings.NewReader(`{"accessToken":"bogus"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var result envelope.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success || result.Message == "" || result.Data != nil {
		t.Fatalf("unexpected envelope %+v", result)
	}
}

func TestVerifyHandlerMissingToken(t *testing.T) {
	app := newTestApp(&fakeResolver{user: testUser()})

	req := httptest.NewRequest(fiber.MethodPost, "/auth/verify", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
