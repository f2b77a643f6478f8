package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/payments"
)

// RegisterPaymentRoutes wires the User-to-App payment relay endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Get("/payments/:id", h.Get)
	r.Post("/payments/:id/approve", h.Approve)
	r.Post("/payments/:id/complete", h.Complete)
	r.Post("/payments/:id/cancel", h.Cancel)
	r.Post("/payments/:id/incomplete", h.ResolveIncomplete)
}
