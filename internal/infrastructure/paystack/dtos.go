package paystack

import "encoding/json"

// Every Paystack response arrives wrapped in a {status, message, data}
// envelope. A false Status on a 2xx response is a logical failure, distinct
// from transport-level errors; callers decide how to map it.

type InitializeRequest struct {
	// Amount is always expressed in the smallest currency sub-unit.
	Amount    int64          `json:"amount"`
	Email     string         `json:"email"`
	Currency  string         `json:"currency,omitempty"`
	Reference string         `json:"reference,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type TransactionAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type InitializeResponse struct {
	Status  bool                     `json:"status"`
	Message string                   `json:"message"`
	Data    TransactionAuthorization `json:"data"`
}

// TransactionSnapshot is the last-known raw state of a Paystack transaction.
// Raw keeps the untyped payload for session auditing.
type TransactionSnapshot struct {
	ID        int64          `json:"id"`
	Status    string         `json:"status"`
	Reference string         `json:"reference"`
	Amount    float64        `json:"amount"`
	Currency  string         `json:"currency"`
	Metadata  map[string]any `json:"metadata"`

	Raw map[string]any `json:"-"`
}

func (t *TransactionSnapshot) UnmarshalJSON(b []byte) error {
	type alias TransactionSnapshot
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*t = TransactionSnapshot(a)
	t.Raw = raw
	return nil
}

type TransactionResponse struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    TransactionSnapshot `json:"data"`
}

type RefundRequest struct {
	Transaction int64 `json:"transaction"`
	Amount      int64 `json:"amount"`
}

type RefundSnapshot struct {
	ID       int64   `json:"id"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	Raw map[string]any `json:"-"`
}

func (r *RefundSnapshot) UnmarshalJSON(b []byte) error {
	type alias RefundSnapshot
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = RefundSnapshot(a)
	r.Raw = raw
	return nil
}

type RefundResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    RefundSnapshot `json:"data"`
}
