package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Submission captures what a payout needs from the chain connector.
type Submission struct {
	Destination string
	AmountPi    float64
	Memo        string
}

// Receipt acknowledges a transaction accepted by the chain.
type Receipt struct {
	TxID string
}

// Submitter represents a connector to the Pi blockchain. Payout services
// depend on this interface so tests can swap the live Horizon connector out.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// txValidity bounds how long a signed envelope stays submittable.
const txValidity = 3 * time.Minute

// HorizonSubmitter signs payment envelopes with the app wallet and submits
// them through a Horizon client.
type HorizonSubmitter struct {
	client     *Client
	keypair    *Keypair
	passphrase string
}

// NewHorizonSubmitter wires a Horizon client with the wallet seed's keypair.
func NewHorizonSubmitter(client *Client, seed, passphrase string) (*HorizonSubmitter, error) {
	kp, err := ParseSeed(seed)
	if err != nil {
		return nil, err
	}
	return &HorizonSubmitter{client: client, keypair: kp, passphrase: passphrase}, nil
}

// Address returns the app wallet's public account address.
func (s *HorizonSubmitter) Address() string {
	return s.keypair.Address()
}

// Submit builds, signs and submits a native payment. The account sequence is
// fetched fresh per submission; a stale sequence surfaces as ErrBadSequence.
func (s *HorizonSubmitter) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	seq, err := s.client.SequenceNumber(ctx, s.keypair.Address())
	if err != nil {
		return Receipt{}, err
	}

	envelope, err := BuildAndSign(s.keypair, s.passphrase, PaymentTx{
		Destination: sub.Destination,
		AmountPi:    sub.AmountPi,
		Memo:        sub.Memo,
		SeqNum:      seq + 1,
		MaxTime:     uint64(time.Now().Add(txValidity).Unix()),
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("build envelope: %w", err)
	}

	result, err := s.client.SubmitTransaction(ctx, envelope)
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{TxID: result.Hash}, nil
}

// StaticSubmitter acknowledges every submission with a synthetic transaction
// id. Useful in development and tests.
type StaticSubmitter struct{}

// Submit returns a synthetic receipt without touching any chain.
func (StaticSubmitter) Submit(_ context.Context, _ Submission) (Receipt, error) {
	return Receipt{TxID: uuid.NewString()}, nil
}
