package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/ads"
)

// RegisterAdRoutes wires the rewarded-ad endpoints.
func RegisterAdRoutes(r fiber.Router, h *ads.Handler) {
	r.Post("/ads/verify", h.Verify)
	r.Post("/ads/reward", h.Reward)
}
