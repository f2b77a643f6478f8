package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/xhilo/pi-gateway/internal/auth"
)

// Locals keys populated by PiAuth.
const (
	UserUIDKey    = "pi_uid"
	UsernameKey   = "pi_username"
	UserScopesKey = "pi_scopes"
)

// PiAuth validates the bearer Pi access token against the platform and stores
// the authenticated user's identity in request locals.
func PiAuth(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		user, err := svc.Verify(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return fiber.NewError(http.StatusUnauthorized, "invalid access token")
			}
			return fiber.NewError(http.StatusBadGateway, err.Error())
		}

		c.Locals(UserUIDKey, user.UID)
		c.Locals(UsernameKey, user.Username)
		c.Locals(UserScopesKey, user.Credentials.Scopes)
		return c.Next()
	}
}

// AppSecret guards server-to-server routes with a shared secret header. When
// no secret is configured (development) the check is skipped.
func AppSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		provided := c.Get("X-App-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return fiber.NewError(http.StatusUnauthorized, "invalid app secret")
		}
		return c.Next()
	}
}
