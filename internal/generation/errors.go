package generation

import (
	"errors"
	"fmt"
)

// Errors returned by the Gateway and by Completer implementations.
var (
	// ErrUpstream is returned when the completion service cannot be reached,
	// answers with a non-success status, or refuses the request.
	ErrUpstream = errors.New("completion service request failed")

	// ErrContentBlocked is returned when the provider's safety filters block
	// the request or the response.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by safety filters", ErrUpstream)

	// ErrMalformedResponse is returned when the completion text is not the
	// expected JSON shape or carries fewer usable cards than requested.
	ErrMalformedResponse = errors.New("malformed response from completion service")

	// ErrEmptyInput is returned when the submitted text is blank.
	ErrEmptyInput = errors.New("input text cannot be empty")

	// ErrInputTooLong is returned when the submitted text exceeds the
	// configured character limit.
	ErrInputTooLong = errors.New("input text exceeds the maximum length")

	// ErrInvalidConfig is returned when a gateway or completer is built with
	// unusable settings.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
