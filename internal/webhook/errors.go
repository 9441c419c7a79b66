package webhook

import "errors"

// Authentication errors. Any of them rejects the request before parsing.
var (
	ErrSecretNotConfigured    = errors.New("webhook secret not configured")
	ErrMissingSignature       = errors.New("missing signature header")
	ErrInvalidSignatureFormat = errors.New("invalid signature format")
	ErrSignatureMismatch      = errors.New("signature verification failed")
	ErrIPNotAllowed           = errors.New("source ip not allowed")
)

// ErrMalformedBody is returned when the body is neither a JSON document nor a
// form payload carrying one.
var ErrMalformedBody = errors.New("malformed webhook body")

// ErrUnexpectedShape marks a known event kind whose nested payload could not be
// read. It never fails a request; the event degrades to model.Unrecognized.
var ErrUnexpectedShape = errors.New("unexpected payload shape")

// IsAuthError reports whether err is one of the authentication errors.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrSecretNotConfigured) ||
		errors.Is(err, ErrMissingSignature) ||
		errors.Is(err, ErrInvalidSignatureFormat) ||
		errors.Is(err, ErrSignatureMismatch)
}
