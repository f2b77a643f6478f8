package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/auth"
)

// RegisterAuthRoutes wires the token verification endpoint.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	r.Post("/auth/verify", rateLimiter, h.Verify)
}
