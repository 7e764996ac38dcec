package webhook

import (
	"io"
	"log/slog"
	"net/http"
)

// Handler is the inbound webhook endpoint. It always acknowledges
// recognized-or-ignorable requests with 200, including forged signatures:
// a non-2xx response would make Paystack retry the delivery indefinitely.
type Handler struct {
	secretKey  string
	dispatcher *Dispatcher
	queue      Enqueuer
	logger     *slog.Logger
}

func NewHandler(secretKey string, dispatcher *Dispatcher, queue Enqueuer, logger *slog.Logger) *Handler {
	return &Handler{
		secretKey:  secretKey,
		dispatcher: dispatcher,
		queue:      queue,
		logger:     logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if h.secretKey == "" {
		h.logger.Error("no secret key configured for paystack webhook")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	result := h.dispatcher.ActionAndData(raw, r.Header.Get(SignatureHeader))

	if result.Action == ActionAuthorized {
		queued := h.queue.Enqueue(DispatchJob{
			Event:          EventChargeSuccess,
			SessionID:      result.SessionID,
			AmountSubunits: result.AmountSubunits,
		})
		if !queued {
			// Dropped events are recoverable: the synchronous authorize
			// path still completes the order.
			h.logger.Warn("webhook dispatch queue full, dropping event", "session_id", result.SessionID)
		}
	}

	w.WriteHeader(http.StatusOK)
}
