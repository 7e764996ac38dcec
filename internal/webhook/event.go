package webhook

// EventChargeSuccess is the only Paystack event the adapter processes.
// Everything else is acknowledged and dropped.
const EventChargeSuccess = "charge.success"

// Event is the decoded body of an inbound Paystack webhook request.
type Event struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

type EventData struct {
	ID        int64          `json:"id"`
	Reference string         `json:"reference"`
	Amount    float64        `json:"amount"`
	Currency  string         `json:"currency"`
	Metadata  map[string]any `json:"metadata"`
}

// SessionID extracts the checkout correlation identifier that was embedded
// in transaction metadata at initiation. Older initiations used cart_id.
func (d EventData) SessionID() string {
	if d.Metadata == nil {
		return ""
	}
	if id, ok := d.Metadata["session_id"].(string); ok && id != "" {
		return id
	}
	if id, ok := d.Metadata["cart_id"].(string); ok && id != "" {
		return id
	}
	return ""
}

// Action is the dispatcher's verdict on an inbound event.
type Action string

const (
	// ActionAuthorized tells the host platform to complete the order for
	// the carried session id.
	ActionAuthorized Action = "AUTHORIZED"
	// ActionNotSupported covers everything the adapter will not act on:
	// bad signatures, foreign event types, missing correlation metadata.
	ActionNotSupported Action = "NOT_SUPPORTED"
)

// ActionResult is handed to the host platform's webhook processing path.
type ActionResult struct {
	Action         Action
	SessionID      string
	AmountSubunits int64
}

// DispatchJob is a fully validated event queued for delayed completion.
type DispatchJob struct {
	Event          string
	SessionID      string
	AmountSubunits int64
}

// Enqueuer accepts validated events for asynchronous dispatch.
type Enqueuer interface {
	Enqueue(job DispatchJob) bool
}
