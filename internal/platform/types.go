package platform

import "time"

// User is the platform's view of an authenticated Pi user, as returned by /v2/me.
type User struct {
	UID         string      `json:"uid"`
	Username    string      `json:"username"`
	WalletAddr  string      `json:"wallet_address,omitempty"`
	Credentials Credentials `json:"credentials"`
}

// Credentials carries the scopes granted to the access token and its expiry.
type Credentials struct {
	Scopes   []string `json:"scopes"`
	ValidTil Validity `json:"valid_until"`
}

// Validity is the platform's token expiry representation.
type Validity struct {
	Timestamp int64  `json:"timestamp"`
	ISO8601   string `json:"iso8601"`
}

// Numeric expiries above this are millisecond payloads. As seconds the
// boundary sits past year 33000, so real second values never cross it.
const maxUnixSeconds = int64(1) << 40

// ExpiresAt converts the platform expiry into a time.Time. The ISO8601
// string wins when it parses; the numeric field has been observed in both
// seconds and milliseconds.
func (v Validity) ExpiresAt() time.Time {
	if v.ISO8601 != "" {
		if ts, err := time.Parse(time.RFC3339, v.ISO8601); err == nil {
			return ts.UTC()
		}
	}
	if v.Timestamp > maxUnixSeconds {
		return time.UnixMilli(v.Timestamp).UTC()
	}
	return time.Unix(v.Timestamp, 0).UTC()
}

// HasScope reports whether the token was granted the named scope.
func (u User) HasScope(scope string) bool {
	for _, s := range u.Credentials.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// PaymentStatus mirrors the platform's payment status flags.
type PaymentStatus struct {
	DeveloperApproved   bool `json:"developer_approved"`
	TransactionVerified bool `json:"transaction_verified"`
	DeveloperCompleted  bool `json:"developer_completed"`
	Cancelled           bool `json:"cancelled"`
	UserCancelled       bool `json:"user_cancelled"`
}

// PaymentTransaction describes the on-chain transaction once one exists.
type PaymentTransaction struct {
	TxID     string `json:"txid"`
	Verified bool   `json:"verified"`
	Link     string `json:"_link,omitempty"`
}

// Payment is the platform payment DTO. The platform owns the full lifecycle;
// this struct is an observation, never authoritative state.
type Payment struct {
	Identifier  string              `json:"identifier"`
	UserUID     string              `json:"user_uid"`
	Amount      float64             `json:"amount"`
	Memo        string              `json:"memo"`
	Metadata    map[string]any      `json:"metadata,omitempty"`
	FromAddress string              `json:"from_address"`
	ToAddress   string              `json:"to_address"`
	Direction   string              `json:"direction"`
	Network     string              `json:"network"`
	CreatedAt   string              `json:"created_at"`
	Status      PaymentStatus       `json:"status"`
	Transaction *PaymentTransaction `json:"transaction,omitempty"`
}

// PaymentInput captures the fields needed to create an App-to-User payment.
type PaymentInput struct {
	UID      string         `json:"uid"`
	Amount   float64        `json:"amount"`
	Memo     string         `json:"memo"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AdStatus is the mediator's verdict on a rewarded-ad view.
type AdStatus struct {
	Identifier        string  `json:"identifier"`
	MediatorAckStatus string  `json:"mediator_ack_status"`
	MediatorGrantedAt *string `json:"mediator_granted_at,omitempty"`
}

// AckGranted is the mediator_ack_status value confirming the reward was granted.
const AckGranted = "granted"

// Granted reports whether the mediator confirmed the rewarded view.
func (a AdStatus) Granted() bool {
	return a.MediatorAckStatus == AckGranted
}
