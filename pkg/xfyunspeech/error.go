package xfyunspeech

import (
	"errors"
	"fmt"
)

// Error is a service-reported error carried by a frame with a non-zero code.
type Error struct {
	// Code is the service error code.
	Code int `json:"code"`

	// Message is the human-readable message from the service.
	Message string `json:"message"`

	// SID is the session id of the frame, for tracing on the service side.
	SID string `json:"sid,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("xfyunspeech: %s (code=%d, sid=%s)", e.Message, e.Code, e.SID)
}

// IsAuthError reports whether the code is one of the authorization failures.
func (e *Error) IsAuthError() bool {
	return e.Code == CodeAuthFailed || e.Code == CodeLicenseLimit
}

// AsError tries to convert err to *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Service codes.
const (
	CodeSuccess      = 0
	CodeAuthFailed   = 10313 // app_id does not match api_key
	CodeLicenseLimit = 11200 // feature not authorized or quota exhausted
	CodeTextTooLong  = 10163 // parameter validation failed, often oversized text
)

// Session failure kinds. Match with errors.Is.
var (
	ErrHandshake = errors.New("xfyunspeech: handshake failed")
	ErrDecode    = errors.New("xfyunspeech: malformed frame")
	ErrTransport = errors.New("xfyunspeech: transport failed")
	ErrSink      = errors.New("xfyunspeech: output write failed")
)

// wrapError wraps err under kind with a short operation message.
func wrapError(kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", kind, message, err)
}
