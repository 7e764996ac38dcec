// Package services holds the payment session state machine. It maps the
// host platform's multi-step checkout lifecycle onto Paystack's stateless
// transaction model.
package services

import (
	"context"
	"log/slog"

	"github.com/commercekit/paystack-adapter/internal/application"
	"github.com/commercekit/paystack-adapter/internal/domain"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/paystack"
)

type Processor struct {
	gateway paystack.GatewayAPI
	logger  *slog.Logger
}

func NewProcessor(gateway paystack.GatewayAPI, logger *slog.Logger) *Processor {
	return &Processor{
		gateway: gateway,
		logger:  logger,
	}
}

type InitiatePaymentInput struct {
	// AmountSubunits is the checkout total in the smallest currency
	// sub-unit. Callers pre-multiply decimal amounts before calling.
	AmountSubunits int64
	CurrencyCode   string
	Email          string
	// SessionID is round-tripped through Paystack transaction metadata so
	// async webhook events can be mapped back to this checkout session.
	SessionID string
	CartID    string
}

// AuthorizeResult pairs the derived session status with its justifying
// session data. The status is never persisted on its own.
type AuthorizeResult struct {
	Status  domain.SessionStatus
	Session domain.Session
}

// InitiatePayment mints a fresh transaction reference and initializes a
// Paystack transaction for it. The returned session is PENDING until the
// shopper completes the hosted checkout.
func (p *Processor) InitiatePayment(ctx context.Context, in InitiatePaymentInput) (domain.Session, error) {
	if in.Email == "" {
		return domain.Session{}, domain.NewMissingEmailError()
	}

	currency, err := domain.NormalizeCurrency(in.CurrencyCode)
	if err != nil {
		return domain.Session{}, err
	}

	reference := domain.NewReference()

	metadata := map[string]any{}
	if in.SessionID != "" {
		metadata["session_id"] = in.SessionID
	}
	if in.CartID != "" {
		metadata["cart_id"] = in.CartID
	}

	resp, err := p.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Amount:    in.AmountSubunits,
		Email:     in.Email,
		Currency:  currency,
		Reference: reference,
		Metadata:  metadata,
	})
	if err != nil {
		return domain.Session{}, mapGatewayError("initiate", err)
	}

	if !resp.Status {
		return domain.Session{}, application.NewGatewayRejectedError("initiate", resp.Message)
	}

	p.logger.Debug("initialized paystack transaction",
		"reference", resp.Data.Reference,
		"session_id", in.SessionID,
	)

	return domain.Session{
		Reference:        resp.Data.Reference,
		AccessCode:       resp.Data.AccessCode,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AmountSubunits:   in.AmountSubunits,
		Currency:         currency,
		Email:            in.Email,
		SessionID:        in.SessionID,
		TxData: map[string]any{
			"reference":         resp.Data.Reference,
			"access_code":       resp.Data.AccessCode,
			"authorization_url": resp.Data.AuthorizationURL,
		},
	}, nil
}

// UpdatePayment handles cart changes after initiation. Paystack has no
// update primitive for an initialized transaction, so the old reference is
// abandoned and a new transaction initialized. A shopper paying the stale
// authorization URL is caught by the amount check in AuthorizePayment.
func (p *Processor) UpdatePayment(ctx context.Context, in InitiatePaymentInput) (domain.Session, error) {
	return p.InitiatePayment(ctx, in)
}

// UpdatePaymentData patches session data directly. The amount is derived
// from the cart and must never be patched in from the outside.
func (p *Processor) UpdatePaymentData(sess domain.Session, patch map[string]any) (domain.Session, error) {
	if _, ok := patch["amount"]; ok {
		return domain.Session{}, domain.NewCannotUpdateAmountError()
	}

	merged := make(map[string]any, len(sess.TxData)+len(patch))
	for k, v := range sess.TxData {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}

	return sess.WithSnapshot(merged), nil
}

// AuthorizePayment verifies the session's transaction reference with
// Paystack and derives the session status from the result. A successful
// charge is reported as CAPTURED: Paystack finalizes funds capture
// implicitly at verification, so no separate capture round-trip exists.
//
// A success whose amount or currency does not match what this session was
// initiated with means the shopper paid a stale authorization URL. The
// adapter refunds the full gateway-paid amount and reports ERROR.
func (p *Processor) AuthorizePayment(ctx context.Context, sess domain.Session) (AuthorizeResult, error) {
	resp, err := p.gateway.VerifyTransaction(ctx, sess.Reference)
	if err != nil {
		// Transport failures are surfaced, not folded into ERROR status:
		// the host must be able to tell "rejected" from "unreachable".
		return AuthorizeResult{}, mapGatewayError("authorize", err)
	}

	if !resp.Status {
		return AuthorizeResult{
			Status:  domain.StatusError,
			Session: sess.WithTransactionID(nil).WithSnapshot(resp.Data.Raw),
		}, nil
	}

	switch resp.Data.Status {
	case "success":
		gatewayAmount := domain.RoundSubunits(resp.Data.Amount)

		if gatewayAmount != sess.AmountSubunits || !domain.SameCurrency(resp.Data.Currency, sess.Currency) {
			return p.refundMismatchedCharge(ctx, sess, resp.Data, gatewayAmount)
		}

		return AuthorizeResult{
			Status:  domain.StatusCaptured,
			Session: sess.WithTransactionID(&resp.Data.ID).WithSnapshot(resp.Data.Raw),
		}, nil

	case "failed":
		return AuthorizeResult{
			Status:  domain.StatusError,
			Session: sess.WithTransactionID(&resp.Data.ID).WithSnapshot(resp.Data.Raw),
		}, nil

	default:
		// No final status yet. Return the session untouched; never
		// synthesize a transaction id for a pending transaction.
		return AuthorizeResult{
			Status:  domain.StatusPending,
			Session: sess,
		}, nil
	}
}

func (p *Processor) refundMismatchedCharge(
	ctx context.Context,
	sess domain.Session,
	snapshot paystack.TransactionSnapshot,
	gatewayAmount int64,
) (AuthorizeResult, error) {
	p.logger.Warn("amount or currency mismatch at authorization, refunding",
		"reference", sess.Reference,
		"expected_amount", sess.AmountSubunits,
		"gateway_amount", gatewayAmount,
		"expected_currency", sess.Currency,
		"gateway_currency", snapshot.Currency,
	)

	resp, err := p.gateway.CreateRefund(ctx, paystack.RefundRequest{
		Transaction: snapshot.ID,
		Amount:      gatewayAmount,
	})
	if err != nil {
		return AuthorizeResult{}, mapGatewayError("refund mismatched", err)
	}

	if !resp.Status {
		// No money moved. The shopper's charge is still outstanding, so
		// this cannot be reported as a plain ERROR session.
		p.logger.Error("paystack rejected compensating refund",
			"reference", sess.Reference,
			"transaction_id", snapshot.ID,
			"message", resp.Message,
		)
		return AuthorizeResult{}, application.NewGatewayRejectedError("refund mismatched", resp.Message)
	}

	return AuthorizeResult{
		Status:  domain.StatusError,
		Session: sess.WithTransactionID(&snapshot.ID).WithSnapshot(snapshot.Raw),
	}, nil
}

// GetPaymentStatus is the read-only status probe. A session with no
// resolved transaction id is PENDING by definition; there is nothing to
// check and no network call is made.
func (p *Processor) GetPaymentStatus(ctx context.Context, sess domain.Session) (domain.SessionStatus, error) {
	if sess.TransactionID == nil {
		return domain.StatusPending, nil
	}

	resp, err := p.gateway.GetTransaction(ctx, *sess.TransactionID)
	if err != nil {
		return domain.StatusError, nil
	}

	if !resp.Status {
		return domain.StatusError, nil
	}

	switch resp.Data.Status {
	case "success":
		return domain.StatusAuthorized, nil
	case "failed":
		return domain.StatusError, nil
	default:
		return domain.StatusPending, nil
	}
}

// RetrievePayment merges the latest gateway snapshot into the session
// without changing status semantics.
func (p *Processor) RetrievePayment(ctx context.Context, sess domain.Session) (domain.Session, error) {
	if sess.TransactionID == nil {
		return domain.Session{}, domain.NewMissingTransactionIDError()
	}

	resp, err := p.gateway.GetTransaction(ctx, *sess.TransactionID)
	if err != nil {
		return domain.Session{}, mapGatewayError("retrieve", err)
	}

	if !resp.Status {
		return domain.Session{}, application.NewGatewayRejectedError("retrieve", resp.Message)
	}

	return sess.WithSnapshot(resp.Data.Raw), nil
}

// RefundPayment refunds part or all of a settled transaction.
func (p *Processor) RefundPayment(ctx context.Context, sess domain.Session, amountSubunits int64) (domain.Session, error) {
	if sess.TransactionID == nil {
		return domain.Session{}, domain.NewMissingTransactionIDError()
	}

	resp, err := p.gateway.CreateRefund(ctx, paystack.RefundRequest{
		Transaction: *sess.TransactionID,
		Amount:      amountSubunits,
	})
	if err != nil {
		return domain.Session{}, mapGatewayError("refund", err)
	}

	if !resp.Status {
		return domain.Session{}, application.NewGatewayRejectedError("refund", resp.Message)
	}

	return sess.WithSnapshot(resp.Data.Raw), nil
}

// CapturePayment is a no-op: transactions are captured implicitly by
// Paystack at successful verification.
func (p *Processor) CapturePayment(sess domain.Session) domain.Session {
	return sess
}

// CancelPayment is a no-op. Paystack transactions are stateless and cannot
// be cancelled; an unpaid reference simply expires.
func (p *Processor) CancelPayment(sess domain.Session) domain.Session {
	return sess
}

// DeletePayment is a no-op, present to satisfy the host lifecycle contract.
func (p *Processor) DeletePayment(sess domain.Session) domain.Session {
	return sess
}

func mapGatewayError(operation string, err error) error {
	if gwErr, ok := paystack.IsGatewayError(err); ok && !gwErr.IsRetryable() {
		// 4xx: Paystack definitively rejected the request.
		return application.NewGatewayRejectedError(operation, gwErr.Message)
	}
	// Network failure or 5xx that survived the retry layer.
	return application.NewGatewayUnreachableError(operation, err)
}
