package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/flashcards-api/internal/api/shared"
	"github.com/phrazzld/flashcards-api/internal/domain"
	"github.com/phrazzld/flashcards-api/internal/platform/logger"
)

// requireUserID extracts the signed-in user's id placed in the context by
// the authentication middleware. It writes a 401 response when missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := shared.CurrentUser(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), nil).Warn("user ID not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return "", false
	}
	return userID, true
}

// getPathParam returns the decoded URL path parameter. Collection names may
// contain spaces and other escaped characters. chi matches against RawPath
// when the request carries one, so only then is the value still escaped.
func getPathParam(r *http.Request, paramName string) (string, error) {
	value := chi.URLParam(r, paramName)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s has invalid encoding", domain.ErrValidation, paramName)
		}
		value = unescaped
	}
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}
	return value, nil
}

// handleUserIDAndPathParam extracts both the user ID from context and a path
// parameter. It writes an error response if either extraction fails.
func handleUserIDAndPathParam(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (string, string, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return "", "", false
	}

	value, err := getPathParam(r, paramName)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), nil).Warn("invalid path parameter",
			slog.String("param_name", paramName))
		HandleAPIError(w, r, err, "Invalid "+paramName)
		return "", "", false
	}

	return userID, value, true
}
