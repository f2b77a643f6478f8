package payouts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xhilo/pi-gateway/internal/chain"
	"github.com/xhilo/pi-gateway/internal/notification"
	"github.com/xhilo/pi-gateway/internal/platform"
)

var (
	// ErrInvalidAmount indicates a non-positive payout amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrMissingUID indicates no recipient was given.
	ErrMissingUID = errors.New("recipient uid is required")

	// ErrNoDestination indicates the platform created the payment without a
	// recipient wallet address to pay to.
	ErrNoDestination = errors.New("payment has no destination address")
)

// PayoutAPI is the slice of the platform client the A2U relay depends on.
type PayoutAPI interface {
	CreatePayment(ctx context.Context, input platform.PaymentInput) (platform.Payment, error)
	CompletePayment(ctx context.Context, paymentID, txid string) (platform.Payment, error)
	IncompleteServerPayments(ctx context.Context) ([]platform.Payment, error)
}

// PayoutInput captures an App-to-User payout request.
type PayoutInput struct {
	UID      string
	Amount   float64
	Memo     string
	Metadata map[string]any
}

// PayoutResult describes a settled payout.
type PayoutResult struct {
	PaymentID   string    `json:"payment_id"`
	TxID        string    `json:"txid"`
	Amount      float64   `json:"amount"`
	UserUID     string    `json:"user_uid"`
	CompletedAt time.Time `json:"completed_at"`
}

// Service drives the three-step App-to-User sequence: create the platform
// payment, submit the signed transaction, confirm completion. There is no
// compensation on partial failure; a payment stuck between steps shows up in
// the platform's incomplete listing and is settled by Recover.
type Service struct {
	api       PayoutAPI
	submitter chain.Submitter
	repo      Repository
	notifier  notification.Notifier
	logger    *slog.Logger
}

// NewService constructs the payout relay. A nil submitter falls back to the
// static connector, mirroring development setups without a funded wallet.
func NewService(api PayoutAPI, submitter chain.Submitter, repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	if submitter == nil {
		submitter = chain.StaticSubmitter{}
	}
	return &Service{api: api, submitter: submitter, repo: repo, notifier: notifier, logger: logger}
}

// Create runs one payout end to end and returns the settled identifiers.
func (s *Service) Create(ctx context.Context, input PayoutInput) (PayoutResult, error) {
	if input.UID == "" {
		return PayoutResult{}, ErrMissingUID
	}
	if input.Amount <= 0 {
		return PayoutResult{}, ErrInvalidAmount
	}

	payment, err := s.api.CreatePayment(ctx, platform.PaymentInput{
		UID:      input.UID,
		Amount:   input.Amount,
		Memo:     input.Memo,
		Metadata: input.Metadata,
	})
	if err != nil {
		return PayoutResult{}, err
	}
	s.journal(ctx, payment, StatusCreated, "")

	txid, err := s.submit(ctx, payment)
	if err != nil {
		return PayoutResult{}, err
	}
	s.journal(ctx, payment, StatusSubmitted, txid)

	completed, err := s.api.CompletePayment(ctx, payment.Identifier, txid)
	if err != nil {
		return PayoutResult{}, err
	}
	s.journal(ctx, completed, StatusCompleted, txid)

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindPayoutSent,
			Destination: input.UID,
			Body:        fmt.Sprintf("You received %g Pi: %s", input.Amount, input.Memo),
		})
	}

	return PayoutResult{
		PaymentID:   completed.Identifier,
		TxID:        txid,
		Amount:      completed.Amount,
		UserUID:     completed.UserUID,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// Recover settles payouts the platform lists as incomplete: payments with a
// transaction already on chain are completed with that txid, the rest get a
// fresh submission.
func (s *Service) Recover(ctx context.Context) ([]PayoutResult, error) {
	incomplete, err := s.api.IncompleteServerPayments(ctx)
	if err != nil {
		return nil, err
	}

	var settled []PayoutResult
	for _, payment := range incomplete {
		txid := ""
		if payment.Transaction != nil {
			txid = payment.Transaction.TxID
		}
		if txid == "" {
			txid, err = s.submit(ctx, payment)
			if err != nil {
				s.logger.Warn("recover payout submit", "payment_id", payment.Identifier, "error", err)
				continue
			}
			s.journal(ctx, payment, StatusSubmitted, txid)
		}

		completed, err := s.api.CompletePayment(ctx, payment.Identifier, txid)
		if err != nil {
			s.logger.Warn("recover payout complete", "payment_id", payment.Identifier, "error", err)
			continue
		}
		s.journal(ctx, completed, StatusCompleted, txid)
		settled = append(settled, PayoutResult{
			PaymentID:   completed.Identifier,
			TxID:        txid,
			Amount:      completed.Amount,
			UserUID:     completed.UserUID,
			CompletedAt: time.Now().UTC(),
		})
	}
	return settled, nil
}

// submit pushes the payment on chain with the platform identifier as memo so
// the platform can match the transaction back to the payment.
func (s *Service) submit(ctx context.Context, payment platform.Payment) (string, error) {
	if payment.ToAddress == "" {
		return "", ErrNoDestination
	}
	receipt, err := s.submitter.Submit(ctx, chain.Submission{
		Destination: payment.ToAddress,
		AmountPi:    payment.Amount,
		Memo:        payment.Identifier,
	})
	if err != nil {
		return "", err
	}
	return receipt.TxID, nil
}

func (s *Service) journal(ctx context.Context, payment platform.Payment, status, txid string) {
	if s.repo == nil {
		return
	}
	err := s.repo.Save(ctx, Record{
		PaymentID: payment.Identifier,
		UserUID:   payment.UserUID,
		Amount:    payment.Amount,
		Memo:      payment.Memo,
		Status:    status,
		TxID:      txid,
	})
	if err != nil {
		s.logger.Warn("journal payout record", "payment_id", payment.Identifier, "status", status, "error", err)
	}
}
