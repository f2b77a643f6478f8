package payouts

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/platform"
)

// Handler exposes the App-to-User payout endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	UID      string         `json:"uid"`
	Amount   float64        `json:"amount"`
	Memo     string         `json:"memo"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Create runs one payout end to end.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Create(c.UserContext(), PayoutInput{
		UID:      req.UID,
		Amount:   req.Amount,
		Memo:     req.Memo,
		Metadata: req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingUID), errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNoDestination):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		default:
			return relayError(err)
		}
	}
	return envelope.OK(c, http.StatusCreated, result)
}

// Recover settles payouts the platform lists as incomplete.
func (h *Handler) Recover(c *fiber.Ctx) error {
	settled, err := h.service.Recover(c.UserContext())
	if err != nil {
		return relayError(err)
	}
	if settled == nil {
		settled = []PayoutResult{}
	}
	return envelope.OK(c, http.StatusOK, fiber.Map{"settled": settled})
}

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
