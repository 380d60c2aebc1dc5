package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/reseau-local/reseau/internal/activity"
	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/internal/notify"
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// Client-facing messages
const (
	msgInvalid     = "Requête invalide"
	msgUnavailable = "Service momentanément indisponible, veuillez réessayer"
	msgNotFound    = "Ressource introuvable"
	msgForbidden   = "Action non autorisée"
	msgUnauth      = "Authentification requise"
	msgInternal    = "Erreur interne du serveur"
)

var errUnauthenticated = NewError(http.StatusUnauthorized, msgUnauth)

// classify maps an error from any layer onto an HTTP status and a French
// message safe to show to the client.
func classify(err error) (int, string) {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code, apiErr.Message
	case errors.Is(err, feed.ErrInvalidArgument), errors.Is(err, activity.ErrInvalid):
		return http.StatusBadRequest, msgInvalid
	case errors.Is(err, feed.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, msgUnavailable
	case errors.Is(err, activity.ErrNotFound), errors.Is(err, notify.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, activity.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// rpcCode maps an error onto a JSON-RPC error code
func rpcCode(err error) (int, string) {
	status, msg := classify(err)
	if status == http.StatusBadRequest {
		return ErrInvalidParams, msg
	}
	return ErrServerError, msg
}
