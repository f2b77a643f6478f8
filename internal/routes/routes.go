package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/xhilo/pi-gateway/internal/ads"
	"github.com/xhilo/pi-gateway/internal/auth"
	"github.com/xhilo/pi-gateway/internal/chain"
	"github.com/xhilo/pi-gateway/internal/config"
	"github.com/xhilo/pi-gateway/internal/envelope"
	"github.com/xhilo/pi-gateway/internal/middleware"
	"github.com/xhilo/pi-gateway/internal/notification"
	"github.com/xhilo/pi-gateway/internal/payments"
	"github.com/xhilo/pi-gateway/internal/payouts"
	"github.com/xhilo/pi-gateway/internal/platform"
)

// Deps aggregates shared dependencies required to wire routes. ApprovalHook
// and EligibilityHook are the embedding application's business rules; both
// default to allow-everything when nil.
type Deps struct {
	Cfg             config.Config
	DB              *pgxpool.Pool
	Cache           *redis.Client
	Logger          *slog.Logger
	Platform        *platform.Client
	Submitter       chain.Submitter
	ApprovalHook    payments.ApprovalHook
	EligibilityHook ads.EligibilityHook
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}
	if d.Platform == nil {
		return fmt.Errorf("platform client is required")
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Journals fall back to memory without Postgres (development only).
	var paymentRepo payments.Repository
	var payoutRepo payouts.Repository
	if d.DB != nil {
		paymentRepo = payments.NewPostgresRepository(d.DB)
		payoutRepo = payouts.NewPostgresRepository(d.DB)
	} else {
		paymentRepo = payments.NewMemoryRepository()
		payoutRepo = payouts.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	authSvc := auth.NewService(d.Platform, d.Cache, d.Cfg.TokenCacheTTL, d.Logger)
	paymentSvc := payments.NewService(d.Platform, paymentRepo, d.ApprovalHook, notifier, d.Logger)
	payoutSvc := payouts.NewService(d.Platform, d.Submitter, payoutRepo, notifier, d.Logger)
	adSvc := ads.NewService(d.Platform, payoutSvc, d.EligibilityHook, notifier, d.Logger)

	authHandler := auth.NewHandler(authSvc)
	paymentHandler := payments.NewHandler(paymentSvc)
	payoutHandler := payouts.NewHandler(payoutSvc)
	adHandler := ads.NewHandler(adSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return envelope.OK(c, http.StatusOK, fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public: access token verification, rate limited per client IP.
	rateLimiter := middleware.VerifyRateLimit(d.Cache, 30)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// User-token protected payment relay.
	piAuth := middleware.PiAuth(authSvc)
	RegisterPaymentRoutes(api.Group("", piAuth), paymentHandler)

	// Server-to-server routes guarded by the shared app secret.
	appSecret := middleware.AppSecret(d.Cfg.AppSecret)
	secured := api.Group("", appSecret)
	RegisterPayoutRoutes(secured, payoutHandler)
	RegisterAdRoutes(secured, adHandler)

	return nil
}
