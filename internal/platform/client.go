package platform

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// apiError is the platform's error body. Some endpoints return {"error": ...},
// others {"error_message": ...}; both are folded into APIError.Message.
type apiError struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

func (e apiError) message() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.Error
}

// Client talks to the Pi Platform REST API. Every method performs exactly one
// HTTP call and forwards the platform's answer unchanged; there is no retry
// or failure compensation at this layer.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient builds a platform client rooted at baseURL authenticating
// server-side calls with the application API key.
func NewClient(baseURL, apiKey string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http, apiKey: apiKey}
}

// Me resolves a user access token into the user snapshot it authenticates.
// This is the only call authenticated with the user's token rather than the
// server key.
func (c *Client) Me(ctx context.Context, accessToken string) (User, error) {
	var user User
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&user).
		SetError(&apiErr).
		Get("/v2/me")
	if err != nil {
		return User{}, fmt.Errorf("pi platform request: %w", err)
	}
	if resp.IsError() {
		return User{}, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.message()}
	}
	return user, nil
}

// GetPayment fetches the platform's current view of a payment.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (Payment, error) {
	var payment Payment
	if err := c.do(ctx, resty.MethodGet, "/v2/payments/"+url.PathEscape(paymentID), nil, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// ApprovePayment marks a User-to-App payment as approved by the app server.
func (c *Client) ApprovePayment(ctx context.Context, paymentID string) (Payment, error) {
	var payment Payment
	if err := c.do(ctx, resty.MethodPost, "/v2/payments/"+url.PathEscape(paymentID)+"/approve", nil, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// CompletePayment confirms a payment against its on-chain transaction id.
func (c *Client) CompletePayment(ctx context.Context, paymentID, txid string) (Payment, error) {
	var payment Payment
	body := map[string]string{"txid": txid}
	if err := c.do(ctx, resty.MethodPost, "/v2/payments/"+url.PathEscape(paymentID)+"/complete", body, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// CancelPayment cancels a payment that will not be completed.
func (c *Client) CancelPayment(ctx context.Context, paymentID string) (Payment, error) {
	var payment Payment
	if err := c.do(ctx, resty.MethodPost, "/v2/payments/"+url.PathEscape(paymentID)+"/cancel", nil, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// CreatePayment opens an App-to-User payment on the platform. The returned
// identifier must be carried as the memo of the on-chain transaction.
func (c *Client) CreatePayment(ctx context.Context, input PaymentInput) (Payment, error) {
	var payment Payment
	body := map[string]PaymentInput{"payment": input}
	if err := c.do(ctx, resty.MethodPost, "/v2/payments", body, &payment); err != nil {
		return Payment{}, err
	}
	return payment, nil
}

// IncompleteServerPayments lists App-to-User payments the server started but
// never completed or cancelled.
func (c *Client) IncompleteServerPayments(ctx context.Context) ([]Payment, error) {
	var out struct {
		IncompleteServerPayments []Payment `json:"incomplete_server_payments"`
	}
	if err := c.do(ctx, resty.MethodGet, "/v2/payments/incomplete_server_payments", nil, &out); err != nil {
		return nil, err
	}
	return out.IncompleteServerPayments, nil
}

// AdStatus fetches the mediator's verdict for a rewarded-ad identifier.
func (c *Client) AdStatus(ctx context.Context, adID string) (AdStatus, error) {
	var status AdStatus
	if err := c.do(ctx, resty.MethodGet, "/v2/ads_network/status/"+url.PathEscape(adID), nil, &status); err != nil {
		return AdStatus{}, err
	}
	return status, nil
}

// do performs one server-key-authenticated call and decodes the response into
// result. Non-2xx answers become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var apiErr apiError
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Key "+c.apiKey).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("pi platform request: %w", err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.message()}
	}
	return nil
}
