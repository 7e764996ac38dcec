package domain

import "fmt"

// DomainError represents a validation or business-rule failure that is
// surfaced synchronously to the host platform and never retried.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingEmail         = "MISSING_EMAIL"
	ErrCodeUnsupportedCurrency  = "UNSUPPORTED_CURRENCY"
	ErrCodeMissingTransactionID = "MISSING_TRANSACTION_ID"
	ErrCodeCannotUpdateAmount   = "CANNOT_UPDATE_AMOUNT"
	ErrCodeMissingSecretKey     = "MISSING_SECRET_KEY"
)

func NewMissingEmailError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingEmail,
		Message: "email is required to initiate a Paystack transaction",
	}
}

func NewUnsupportedCurrencyError(code string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnsupportedCurrency,
		Message: fmt.Sprintf("unsupported currency code: %s", code),
	}
}

func NewMissingTransactionIDError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingTransactionID,
		Message: "payment session has no resolved Paystack transaction id",
	}
}

func NewCannotUpdateAmountError() *DomainError {
	return &DomainError{
		Code:    ErrCodeCannotUpdateAmount,
		Message: "cannot update amount from updatePaymentData",
	}
}

func NewMissingSecretKeyError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingSecretKey,
		Message: "the Paystack adapter requires the secret_key option",
	}
}
