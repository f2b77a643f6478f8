package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrBadSequence indicates the submitted envelope carried a stale sequence
// number, usually because another process paid out from the same wallet.
var ErrBadSequence = errors.New("transaction sequence out of date")

// Client talks to a Horizon server fronting the Pi blockchain.
type Client struct {
	http *resty.Client
}

// NewClient builds a Horizon client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL).SetRetryCount(0)}
}

type accountResponse struct {
	Sequence string `json:"sequence"`
}

type horizonProblem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Extras struct {
		ResultCodes struct {
			Transaction string   `json:"transaction"`
			Operations  []string `json:"operations"`
		} `json:"result_codes"`
	} `json:"extras"`
}

func (p horizonProblem) message() string {
	codes := []string{}
	if p.Extras.ResultCodes.Transaction != "" {
		codes = append(codes, p.Extras.ResultCodes.Transaction)
	}
	codes = append(codes, p.Extras.ResultCodes.Operations...)
	if len(codes) > 0 {
		return fmt.Sprintf("%s (%s)", p.Title, strings.Join(codes, ", "))
	}
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// SequenceNumber fetches the current sequence number of an account.
func (c *Client) SequenceNumber(ctx context.Context, address string) (int64, error) {
	var account accountResponse
	var problem horizonProblem
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&account).
		SetError(&problem).
		Get("/accounts/" + address)
	if err != nil {
		return 0, fmt.Errorf("horizon request: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("horizon account lookup: %s", problem.message())
	}
	seq, err := strconv.ParseInt(account.Sequence, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse sequence %q: %w", account.Sequence, err)
	}
	return seq, nil
}

// SubmitResult carries the chain's acknowledgement of a submitted envelope.
type SubmitResult struct {
	Hash   string `json:"hash"`
	Ledger int64  `json:"ledger"`
}

// SubmitTransaction posts a signed base64 envelope and returns its hash.
func (c *Client) SubmitTransaction(ctx context.Context, envelope string) (SubmitResult, error) {
	var result SubmitResult
	var problem horizonProblem
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"tx": envelope}).
		SetResult(&result).
		SetError(&problem).
		Post("/transactions")
	if err != nil {
		return SubmitResult{}, fmt.Errorf("horizon request: %w", err)
	}
	if resp.IsError() {
		if problem.Extras.ResultCodes.Transaction == "tx_bad_seq" {
			return SubmitResult{}, fmt.Errorf("%w: %s", ErrBadSequence, problem.message())
		}
		return SubmitResult{}, fmt.Errorf("horizon submit: %s", problem.message())
	}
	if result.Hash == "" {
		return SubmitResult{}, errors.New("horizon submit: empty transaction hash")
	}
	return result, nil
}
