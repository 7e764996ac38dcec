// Package webhook receives and validates asynchronous Paystack events and
// routes them to the host platform's order-completion path.
package webhook

import (
	"encoding/json"
	"log/slog"

	"github.com/commercekit/paystack-adapter/internal/domain"
)

// Dispatcher validates inbound webhook payloads. Validation is a fixed
// pipeline: signature, event type, correlation metadata. Any failure
// classifies the event as unsupported; nothing in this path returns an
// error to the transport layer, because an error response would make the
// gateway retry a payload that will never become valid.
type Dispatcher struct {
	secretKey string
	logger    *slog.Logger
	debug     bool
}

func NewDispatcher(secretKey string, logger *slog.Logger, debug bool) (*Dispatcher, error) {
	if secretKey == "" {
		return nil, domain.NewMissingSecretKeyError()
	}

	return &Dispatcher{
		secretKey: secretKey,
		logger:    logger,
		debug:     debug,
	}, nil
}

// ActionAndData classifies a raw webhook request into an action for the
// host platform. The amount is propagated unchanged as integer sub-units.
func (d *Dispatcher) ActionAndData(raw []byte, signatureHex string) ActionResult {
	if !VerifySignature(raw, d.secretKey, signatureHex) {
		d.logger.Warn("webhook signature verification failed")
		return ActionResult{Action: ActionNotSupported}
	}

	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		d.logger.Warn("discarding malformed webhook payload", "error", err)
		return ActionResult{Action: ActionNotSupported}
	}

	if event.Event != EventChargeSuccess {
		if d.debug {
			d.logger.Debug("ignoring unsupported webhook event", "event", event.Event)
		}
		return ActionResult{Action: ActionNotSupported}
	}

	sessionID := event.Data.SessionID()
	if sessionID == "" {
		// Without a correlation id there is no way to map the event back
		// to a checkout session.
		d.logger.Error("no session or cart id found in webhook transaction metadata")
		return ActionResult{Action: ActionNotSupported}
	}

	if d.debug {
		d.logger.Debug("received paystack webhook event",
			"event", event.Event,
			"session_id", sessionID,
			"amount", event.Data.Amount,
		)
	}

	return ActionResult{
		Action:         ActionAuthorized,
		SessionID:      sessionID,
		AmountSubunits: domain.RoundSubunits(event.Data.Amount),
	}
}
