package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ADAPTER-LEVEL ERRORS (Orchestration)

// ServiceError is returned when the adapter itself cannot complete an
// operation. It is distinct from a session reporting ERROR status: a
// ServiceError means "we could not reach a definitive answer", an ERROR
// status means "the gateway definitively rejected the charge".
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeGatewayRejected    = "PAYSTACK_REJECTED"
	ErrCodeGatewayUnreachable = "PAYSTACK_UNREACHABLE"
	ErrCodeCompletionFailed   = "COMPLETION_FAILED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// NewGatewayRejectedError wraps a logical failure reported by Paystack
// (status:false on a 2xx response) together with the gateway's own message.
func NewGatewayRejectedError(operation, detail string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeGatewayRejected,
		Message:    fmt.Sprintf("failed to %s Paystack payment: %s", operation, detail),
		HTTPStatus: http.StatusBadGateway,
	}
}

// NewGatewayUnreachableError wraps a transport failure that survived the
// retry layer.
func NewGatewayUnreachableError(operation string, err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeGatewayUnreachable,
		Message:    fmt.Sprintf("failed to %s Paystack payment", operation),
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewCompletionFailedError reports a cart completion that returned a
// non-success code from the host platform.
func NewCompletionFailedError(cartID string, code int, detail string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeCompletionFailed,
		Message:    fmt.Sprintf("cart completion for %s returned %d: %s", cartID, code, detail),
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "An internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
