package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xhilo/pi-gateway/internal/notification"
	"github.com/xhilo/pi-gateway/internal/platform"
)

var (
	// ErrEmptyTxID indicates a completion was requested without a transaction id.
	ErrEmptyTxID = errors.New("transaction id is required")

	// ErrApprovalRejected indicates the caller-supplied approval hook refused
	// the payment. Its wrapped message travels back to the client.
	ErrApprovalRejected = errors.New("payment approval rejected")
)

// PaymentAPI is the slice of the platform client the U2A relay depends on.
type PaymentAPI interface {
	GetPayment(ctx context.Context, paymentID string) (platform.Payment, error)
	ApprovePayment(ctx context.Context, paymentID string) (platform.Payment, error)
	CompletePayment(ctx context.Context, paymentID, txid string) (platform.Payment, error)
	CancelPayment(ctx context.Context, paymentID string) (platform.Payment, error)
}

// ApprovalHook lets the embedding application veto a payment before the
// approve call reaches the platform. A nil hook approves everything.
type ApprovalHook func(ctx context.Context, payment platform.Payment) error

// Service relays User-to-App payment transitions to the platform and journals
// what it observed. Each operation is a single forward with no retry; the
// platform's own error message is surfaced unchanged.
type Service struct {
	api      PaymentAPI
	repo     Repository
	hook     ApprovalHook
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewService constructs the payment relay.
func NewService(api PaymentAPI, repo Repository, hook ApprovalHook, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{api: api, repo: repo, hook: hook, notifier: notifier, logger: logger}
}

// Get fetches the platform's current view of a payment.
func (s *Service) Get(ctx context.Context, paymentID string) (platform.Payment, error) {
	return s.api.GetPayment(ctx, paymentID)
}

// Approve runs the approval hook and relays the approve call.
func (s *Service) Approve(ctx context.Context, paymentID string) (platform.Payment, error) {
	payment, err := s.api.GetPayment(ctx, paymentID)
	if err != nil {
		return platform.Payment{}, err
	}

	if s.hook != nil {
		if err := s.hook(ctx, payment); err != nil {
			return platform.Payment{}, fmt.Errorf("%w: %v", ErrApprovalRejected, err)
		}
	}

	approved, err := s.api.ApprovePayment(ctx, paymentID)
	if err != nil {
		return platform.Payment{}, err
	}

	s.journal(ctx, approved, StatusApproved)
	return approved, nil
}

// Complete relays the completion call carrying the on-chain transaction id.
func (s *Service) Complete(ctx context.Context, paymentID, txid string) (platform.Payment, error) {
	if txid == "" {
		return platform.Payment{}, ErrEmptyTxID
	}

	completed, err := s.api.CompletePayment(ctx, paymentID, txid)
	if err != nil {
		return platform.Payment{}, err
	}

	s.journal(ctx, completed, StatusCompleted)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPaymentCompleted,
			Destination: completed.UserUID,
			Body:        fmt.Sprintf("Payment %s completed for %g Pi", completed.Identifier, completed.Amount),
		})
	}

	return completed, nil
}

// Cancel relays a cancellation.
func (s *Service) Cancel(ctx context.Context, paymentID string) (platform.Payment, error) {
	cancelled, err := s.api.CancelPayment(ctx, paymentID)
	if err != nil {
		return platform.Payment{}, err
	}
	s.journal(ctx, cancelled, StatusCancelled)
	return cancelled, nil
}

// ResolveIncomplete settles a payment the frontend reported as left behind:
// completed when a transaction already exists on chain, cancelled otherwise.
func (s *Service) ResolveIncomplete(ctx context.Context, paymentID string) (platform.Payment, error) {
	payment, err := s.api.GetPayment(ctx, paymentID)
	if err != nil {
		return platform.Payment{}, err
	}

	if payment.Transaction != nil && payment.Transaction.TxID != "" {
		return s.Complete(ctx, paymentID, payment.Transaction.TxID)
	}
	return s.Cancel(ctx, paymentID)
}

// journal records the observed transition. Journal failures are logged and
// swallowed: the platform already holds the authoritative state and the relay
// must not fail after a successful forward.
func (s *Service) journal(ctx context.Context, payment platform.Payment, status string) {
	if s.repo == nil {
		return
	}
	record := Record{
		PaymentID: payment.Identifier,
		UserUID:   payment.UserUID,
		Amount:    payment.Amount,
		Memo:      payment.Memo,
		Direction: payment.Direction,
		Status:    status,
	}
	if payment.Transaction != nil {
		record.TxID = payment.Transaction.TxID
	}
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.Warn("journal payment record", "payment_id", payment.Identifier, "status", status, "error", err)
	}
}
