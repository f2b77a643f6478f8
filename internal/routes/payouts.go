package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/payouts"
)

// RegisterPayoutRoutes wires the App-to-User payout endpoints.
func RegisterPayoutRoutes(r fiber.Router, h *payouts.Handler) {
	r.Post("/payouts", h.Create)
	r.Post("/payouts/recover", h.Recover)
}
