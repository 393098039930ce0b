package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotConfigured   = errors.New("missing required configuration")
	ErrGatewayRejected = errors.New("payment gateway rejected the request")
	ErrHashMissing     = errors.New("webhook hash missing")
	ErrHashMismatch    = errors.New("webhook hash mismatch")
	ErrOperationFailed = errors.New("operation failed")
)

// Wrap attaches a client-safe message to a sentinel error so handlers can
// match with errors.Is while showing msg verbatim.
func Wrap(sentinel error, msg string) error {
	return &wrappedErr{err: sentinel, msg: msg}
}

type wrappedErr struct {
	err error
	msg string
}

func (e *wrappedErr) Error() string { return e.msg }
func (e *wrappedErr) Unwrap() error { return e.err }
