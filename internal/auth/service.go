package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xhilo/pi-gateway/internal/platform"
)

// ErrInvalidToken indicates the platform refused the supplied access token.
var ErrInvalidToken = errors.New("invalid access token")

const tokenCachePrefix = "piauth:v1:"

// UserResolver is the slice of the platform client the auth relay needs.
type UserResolver interface {
	Me(ctx context.Context, accessToken string) (platform.User, error)
}

// Service verifies Pi access tokens against the platform. Verified snapshots
// are cached briefly so busy sessions do not hit /v2/me on every request; the
// TTL stays well under the platform's own token lifetime.
type Service struct {
	resolver UserResolver
	cache    *redis.Client
	ttl      time.Duration
	logger   *slog.Logger
}

// NewService constructs the auth relay. cache may be nil, in which case every
// verification goes to the platform.
func NewService(resolver UserResolver, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{resolver: resolver, cache: cache, ttl: ttl, logger: logger}
}

// Verify resolves an access token into the user it authenticates. A platform
// rejection maps to ErrInvalidToken; any other failure passes through.
func (s *Service) Verify(ctx context.Context, accessToken string) (platform.User, error) {
	if accessToken == "" {
		return platform.User{}, ErrInvalidToken
	}

	key := cacheKey(accessToken)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var user platform.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return user, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn("token cache lookup failed", "error", err)
		}
	}

	user, err := s.resolver.Me(ctx, accessToken)
	if err != nil {
		if errors.Is(err, platform.ErrUnauthorized) {
			return platform.User{}, ErrInvalidToken
		}
		return platform.User{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(user); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL(user)).Err(); err != nil {
				s.logger.Warn("token cache store failed", "error", err)
			}
		}
	}

	return user, nil
}

// cacheTTL clamps the configured TTL to the token's remaining lifetime so a
// cached snapshot never outlives the token it stands for.
func (s *Service) cacheTTL(user platform.User) time.Duration {
	ttl := s.ttl
	if remaining := time.Until(user.Credentials.ValidTil.ExpiresAt()); remaining > 0 && remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return ttl
}

func cacheKey(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return tokenCachePrefix + hex.EncodeToString(sum[:])
}
