package payments

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/platform"
)

// Handler exposes the User-to-App payment relay endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the platform's view of a payment.
func (h *Handler) Get(c *fiber.Ctx) error {
	payment, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, payment)
}

// Approve relays server-side approval of a payment.
func (h *Handler) Approve(c *fiber.Ctx) error {
	payment, err := h.service.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrApprovalRejected) {
			return fiber.NewError(http.StatusForbidden, err.Error())
		}
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, payment)
}

type completeRequest struct {
	TxID string `json:"txid"`
}

// Complete relays completion with the on-chain transaction id.
func (h *Handler) Complete(c *fiber.Ctx) error {
	var req completeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	payment, err := h.service.Complete(c.UserContext(), c.Params("id"), req.TxID)
	if err != nil {
		if errors.Is(err, ErrEmptyTxID) {
			return fiber.NewError(http.StatusBadRequest, "txid is required")
		}
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, payment)
}

// Cancel relays a cancellation.
func (h *Handler) Cancel(c *fiber.Ctx) error {
	payment, err := h.service.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, payment)
}

// ResolveIncomplete settles a payment reported by the frontend's
// incomplete-payment callback.
func (h *Handler) ResolveIncomplete(c *fiber.Ctx) error {
	payment, err := h.service.ResolveIncomplete(c.UserContext(), c.Params("id"))
	if err != nil {
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, payment)
}

// relayError maps platform failures onto HTTP statuses while keeping the
// platform's own message intact.
func relayError(err error) error {
	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return fiber.NewError(status, apiErr.Error())
	}
	return fiber.NewError(http.StatusBadGateway, err.Error())
}
