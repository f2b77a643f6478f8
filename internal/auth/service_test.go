package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/xhilo/pi-gateway/internal/logging"
	"github.com/xhilo/pi-gateway/internal/platform"
)

type fakeResolver struct {
	calls int
	user  platform.User
	err   error
}

func (f *fakeResolver) Me(_ context.Context, _ string) (platform.User, error) {
	f.calls++
	if f.err != nil {
		return platform.User{}, f.err
	}
	return f.user, nil
}

func testUser() platform.User {
	return platform.User{
		UID:      "uid-1",
		Username: "pioneer",
		Credentials: platform.Credentials{
			Scopes:   []string{"username", "payments"},
			ValidTil: platform.Validity{Timestamp: time.Now().Add(time.Hour).Unix()},
		},
	}
}

func TestVerifyCachesSnapshot(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	resolver := &fakeResolver{user: testUser()}
	svc := NewService(resolver, cache, 5*time.Minute, logging.Discard())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		user, err := svc.Verify(ctx, "token-abc")
		if err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
		if user.UID != "uid-1" {
			t.Fatalf("unexpected user %+v", user)
		}
	}

	if resolver.calls != 1 {
		t.Fatalf("expected a single platform call, got %d", resolver.calls)
	}
}

func TestVerifyWithoutCache(t *testing.T) {
	resolver := &fakeResolver{user: testUser()}
	svc := NewService(resolver, nil, 5*time.Minute, logging.Discard())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := svc.Verify(ctx, "token-abc"); err != nil {
			t.Fatalf("verify %d: %v", i, err)
		}
	}
	if resolver.calls != 2 {
		t.Fatalf("expected 2 platform calls without cache, got %d", resolver.calls)
	}
}

func TestVerifyInvalidToken(t *testing.T) {
	resolver := &fakeResolver{err: &platform.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid_access_token"}}
	svc := NewService(resolver, nil, 5*time.Minute, logging.Discard())

	if _, err := svc.Verify(context.Background(), "bogus"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := svc.Verify(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestVerifyPassesThroughPlatformFailure(t *testing.T) {
	resolver := &fakeResolver{err: &platform.APIError{StatusCode: http.StatusInternalServerError, Message: "upstream down"}}
	svc := NewService(resolver, nil, 5*time.Minute, logging.Discard())

	_, err := svc.Verify(context.Background(), "token")
	if errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected raw platform error, got %v", err)
	}
	var apiErr *platform.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "upstream down" {
		t.Fatalf("expected platform message to pass through, got %v", err)
	}
}
