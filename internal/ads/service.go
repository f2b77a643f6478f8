package ads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xhilo/pi-gateway/internal/notification"
	"github.com/xhilo/pi-gateway/internal/payouts"
	"github.com/xhilo/pi-gateway/internal/platform"
)

var (
	// ErrNotGranted indicates the mediator did not confirm the rewarded view.
	ErrNotGranted = errors.New("ad reward not granted")

	// ErrNotEligible indicates the eligibility hook refused the reward.
	ErrNotEligible = errors.New("user not eligible for reward")
)

// AdAPI is the slice of the platform client the ad relay depends on.
type AdAPI interface {
	AdStatus(ctx context.Context, adID string) (platform.AdStatus, error)
}

// Service verifies rewarded-ad views against the platform mediator and pays
// micro-rewards through the payout relay.
type Service struct {
	api      AdAPI
	payouts  *payouts.Service
	hook     EligibilityHook
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs the ad relay. A nil hook allows every verified view.
func NewService(api AdAPI, payoutSvc *payouts.Service, hook EligibilityHook, notifier notification.Notifier, logger *slog.Logger) *Service {
	if hook == nil {
		hook = AllowAll
	}
	return &Service{api: api, payouts: payoutSvc, hook: hook, notifier: notifier, logger: logger}
}

// VerifyRewarded fetches the mediator's verdict for an ad identifier.
func (s *Service) VerifyRewarded(ctx context.Context, adID string) (platform.AdStatus, error) {
	return s.api.AdStatus(ctx, adID)
}

// RewardInput captures a rewarded-ad payout request.
type RewardInput struct {
	UID    string
	AdID   string
	Amount float64
	Memo   string
}

// Reward checks eligibility, verifies the ad view was granted and pays the
// reward. A view the mediator did not grant never reaches the payout relay.
func (s *Service) Reward(ctx context.Context, input RewardInput) (payouts.PayoutResult, error) {
	if err := s.hook(ctx, input.UID, input.AdID); err != nil {
		return payouts.PayoutResult{}, fmt.Errorf("%w: %v", ErrNotEligible, err)
	}

	status, err := s.api.AdStatus(ctx, input.AdID)
	if err != nil {
		return payouts.PayoutResult{}, err
	}
	if !status.Granted() {
		return payouts.PayoutResult{}, fmt.Errorf("%w: mediator status %q", ErrNotGranted, status.MediatorAckStatus)
	}

	memo := input.Memo
	if memo == "" {
		memo = "Ad reward"
	}
	result, err := s.payouts.Create(ctx, payouts.PayoutInput{
		UID:    input.UID,
		Amount: input.Amount,
		Memo:   memo,
		Metadata: map[string]any{
			"type":  "ad_reward",
			"ad_id": input.AdID,
		},
	})
	if err != nil {
		return payouts.PayoutResult{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindAdReward,
			Destination: input.UID,
			Body:        fmt.Sprintf("Ad reward of %g Pi paid for %s", input.Amount, input.AdID),
		})
	}

	return result, nil
}
