package ads

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/payouts"
	"github.com/xhilo/pi-gateway/internal/platform"
)

// Handler exposes the rewarded-ad endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an ads handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type verifyRequest struct {
	AdID string `json:"adId"`
}

// Verify returns the mediator's verdict for an ad identifier.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.AdID == "" {
		return fiber.NewError(http.StatusBadRequest, "adId is required")
	}

	status, err := h.service.VerifyRewarded(c.UserContext(), req.AdID)
	if err != nil {
		return relayError(err)
	}
	return envelope.OK(c, http.StatusOK, status)
}

type rewardRequest struct {
	UID    string  `json:"uid"`
	AdID   string  `json:"adId"`
	Amount float64 `json:"amount"`
	Memo   string  `json:"memo"`
}

// Reward verifies the ad view and pays the reward.
func (h *Handler) Reward(c *fiber.Ctx) error {
	var req rewardRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UID == "" || req.AdID == "" {
		return fiber.NewError(http.StatusBadRequest, "uid and adId are required")
	}

	result, err := h.service.Reward(c.UserContext(), RewardInput{
		UID:    req.UID,
		AdID:   req.AdID,
		Amount: req.Amount,
		Memo:   req.Memo,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEligible):
			return fiber.NewError(http.StatusForbidden, err.Error())
		case errors.Is(err, ErrNotGranted):
			return fiber.NewError(http.StatusConflict, err.Error())
		case errors.Is(err, payouts.ErrInvalidAmount), errors.Is(err, payouts.ErrMissingUID):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return relayError(err)
		}
	}
	return envelope.OK(c, http.StatusCreated, result)
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
