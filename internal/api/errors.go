package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/billing"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/generation"
	"github.com/phrazzld/flashcards-api/internal/service"
	"github.com/phrazzld/flashcards-api/internal/service/auth"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrCollectionNotFound),
		errors.Is(err, billing.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateName):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, generation.ErrEmptyInput),
		errors.Is(err, billing.ErrInvalidOrigin):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrInputTooLong):
		return http.StatusRequestEntityTooLarge

	// Failures of the services we depend on
	case errors.Is(err, generation.ErrUpstream),
		errors.Is(err, generation.ErrMalformedResponse),
		errors.Is(err, billing.ErrProcessor):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Sign in required"

	case errors.Is(err, service.ErrCollectionNotFound):
		return "Collection not found"

	case errors.Is(err, service.ErrDuplicateName):
		return "A collection with this name already exists"

	case errors.Is(err, service.ErrPersistence):
		return "Failed to save or load collections"

	case errors.Is(err, generation.ErrEmptyInput):
		return "Text is required"

	case errors.Is(err, generation.ErrInputTooLong):
		return "Text is too long"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The text could not be processed by the flashcard generator"

	case errors.Is(err, generation.ErrUpstream):
		return "The flashcard generator is unavailable, please try again"

	case errors.Is(err, generation.ErrMalformedResponse):
		return "The flashcard generator returned an unusable response, please try again"

	case errors.Is(err, billing.ErrInvalidOrigin):
		return "Invalid origin"

	case errors.Is(err, billing.ErrSessionNotFound):
		return "Checkout session not found"

	case errors.Is(err, billing.ErrProcessor):
		return "Payment processor error"

	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)

	default:
		return "An unexpected error occurred"
	}
}

// validationMessage exposes domain validation messages, which name the
// offending field but never contain stored data.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if strings.Contains(msg, prefix) {
		return "Invalid collection: " + strings.Replace(msg, prefix, "", 1)
	}
	return "Validation error"
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted error. A non-empty message overrides the safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'SaveCollectionRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}
