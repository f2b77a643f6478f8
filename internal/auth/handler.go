package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/platform"
)

// Handler exposes the authentication relay endpoint.
type Handler struct {
	svc *Service
}

// NewHandler constructs an auth handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type verifyRequest struct {
	AccessToken string `json:"accessToken"`
}

type verifyResponse struct {
	UID           string   `json:"uid"`
	Username      string   `json:"username"`
	WalletAddress string   `json:"wallet_address,omitempty"`
	Scopes        []string `json:"scopes"`
	ExpiresAt     string   `json:"expires_at"`
}

// Verify validates a frontend-supplied access token and returns the user
// snapshot the platform vouches for.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.AccessToken == "" {
		return fiber.NewError(http.StatusBadRequest, "accessToken is required")
	}

	user, err := h.svc.Verify(c.UserContext(), req.AccessToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return fiber.NewError(http.StatusUnauthorized, "invalid access token")
		}
		var apiErr *platform.APIError
		if errors.As(err, &apiErr) {
			return fiber.NewError(http.StatusBadGateway, apiErr.Error())
		}
		return fiber.NewError(http.StatusBadGateway, err.Error())
	}

	return envelope.OK(c, http.StatusOK, verifyResponse{
		UID:           user.UID,
		Username:      user.Username,
		WalletAddress: user.WalletAddr,
		Scopes:        user.Credentials.Scopes,
		ExpiresAt:     user.Credentials.ValidTil.ExpiresAt().Format(time.RFC3339),
	})
}
